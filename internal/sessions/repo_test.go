package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

func setupSessionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sessions := `
CREATE TABLE IF NOT EXISTS auction_sessions (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'DRAFT',
  start_time DATETIME NOT NULL,
  end_time DATETIME NOT NULL,
  assigned_staff_id TEXT,
  default_step_price NUMERIC NOT NULL DEFAULT 1,
  require_enrollment INTEGER NOT NULL DEFAULT 1,
  opened_at DATETIME,
  closed_at DATETIME,
  settled_at DATETIME,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	sessionItems := `
CREATE TABLE IF NOT EXISTS session_items (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  jewelry_item_id TEXT NOT NULL,
  lot_number INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  start_price NUMERIC NOT NULL,
  step_price NUMERIC NOT NULL,
  reserve_price NUMERIC,
  closed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	lotIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_session_items_lot ON session_items (session_id, lot_number);`
	jewelryIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_session_items_jewelry ON session_items (session_id, jewelry_item_id);`
	jewelryItems := `
CREATE TABLE IF NOT EXISTS jewelry_items (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  seller_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  attributes TEXT,
  weight_grams NUMERIC,
  photos TEXT,
  status TEXT NOT NULL DEFAULT 'PENDING_APPRAISAL',
  estimated_price NUMERIC,
  reserve_price NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`
	sellRequests := `
CREATE TABLE IF NOT EXISTS sell_requests (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  jewelry_item_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'SUBMITTED',
  seller_notes TEXT,
  staff_notes TEXT,
  manager_notes TEXT,
  reject_reason TEXT,
  submitted_at DATETIME NOT NULL,
  prelim_appraised_at DATETIME,
  received_at DATETIME,
  final_appraised_at DATETIME,
  approved_at DATETIME,
  accepted_at DATETIME,
  rejected_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(sessions).Error)
	require.NoError(t, db.Exec(sessionItems).Error)
	require.NoError(t, db.Exec(lotIndex).Error)
	require.NoError(t, db.Exec(jewelryIndex).Error)
	require.NoError(t, db.Exec(jewelryItems).Error)
	require.NoError(t, db.Exec(sellRequests).Error)
	return db
}

func createSession(t *testing.T, db *gorm.DB, status enums.SessionStatus, start, end time.Time) *models.AuctionSession {
	t.Helper()

	session := &models.AuctionSession{
		ID:                uuid.New(),
		Code:              "AS-" + uuid.NewString()[:8],
		Name:              "Spring Jewelry Sale",
		Status:            status,
		StartTime:         start,
		EndTime:           end,
		DefaultStepPrice:  decimal.RequireFromString("25"),
		RequireEnrollment: true,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

func createJewelry(t *testing.T, db *gorm.DB, title string) *models.JewelryItem {
	t.Helper()

	item := &models.JewelryItem{
		ID:          uuid.New(),
		Code:        "JI-" + uuid.NewString()[:8],
		SellerID:    uuid.New(),
		Title:       title,
		Description: "18k gold, estate piece",
		Status:      enums.JewelryStatusApproved,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func addLot(t *testing.T, db *gorm.DB, session *models.AuctionSession, jewelry *models.JewelryItem, lot int, status enums.SessionItemStatus) *models.SessionItem {
	t.Helper()

	item := &models.SessionItem{
		ID:            uuid.New(),
		SessionID:     session.ID,
		JewelryItemID: jewelry.ID,
		LotNumber:     lot,
		Status:        status,
		StartPrice:    decimal.RequireFromString("300"),
		StepPrice:     decimal.RequireFromString("25"),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func sessionIDs(sessions []models.AuctionSession) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(sessions))
	for _, s := range sessions {
		ids[s.ID] = true
	}
	return ids
}

func TestRepositoryMaxLotNumber(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	session := createSession(t, db, enums.SessionStatusDraft, now.Add(time.Hour), now.Add(2*time.Hour))

	maxLot, err := repo.MaxLotNumber(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, maxLot)

	addLot(t, db, session, createJewelry(t, db, "Sapphire Ring"), 1, enums.SessionItemStatusPending)
	addLot(t, db, session, createJewelry(t, db, "Pearl Necklace"), 2, enums.SessionItemStatusPending)

	maxLot, err = repo.MaxLotNumber(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxLot)

	count, err := repo.CountItems(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryCreateSessionItem_duplicateLotRejected(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	session := createSession(t, db, enums.SessionStatusDraft, now.Add(time.Hour), now.Add(2*time.Hour))
	addLot(t, db, session, createJewelry(t, db, "Emerald Brooch"), 1, enums.SessionItemStatusPending)

	_, err := repo.CreateSessionItem(context.Background(), &models.SessionItem{
		ID:            uuid.New(),
		SessionID:     session.ID,
		JewelryItemID: createJewelry(t, db, "Diamond Pendant").ID,
		LotNumber:     1,
		Status:        enums.SessionItemStatusPending,
		StartPrice:    decimal.RequireFromString("300"),
		StepPrice:     decimal.RequireFromString("25"),
	})
	require.Error(t, err)

	_, err = repo.CreateSessionItem(context.Background(), &models.SessionItem{
		ID:            uuid.New(),
		SessionID:     session.ID,
		JewelryItemID: createJewelry(t, db, "Diamond Pendant II").ID,
		LotNumber:     2,
		Status:        enums.SessionItemStatusPending,
		StartPrice:    decimal.RequireFromString("300"),
		StepPrice:     decimal.RequireFromString("25"),
	})
	require.NoError(t, err)
}

func TestRepositoryListItems_lotOrderAndPreload(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	session := createSession(t, db, enums.SessionStatusDraft, now.Add(time.Hour), now.Add(2*time.Hour))
	second := createJewelry(t, db, "Ruby Earrings")
	first := createJewelry(t, db, "Opal Bracelet")
	addLot(t, db, session, second, 2, enums.SessionItemStatusPending)
	addLot(t, db, session, first, 1, enums.SessionItemStatusPending)

	items, err := repo.ListItems(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].LotNumber)
	require.NotNil(t, items[0].JewelryItem)
	assert.Equal(t, "Opal Bracelet", items[0].JewelryItem.Title)
	assert.Equal(t, 2, items[1].LotNumber)
	require.NotNil(t, items[1].JewelryItem)
	assert.Equal(t, "Ruby Earrings", items[1].JewelryItem.Title)
}

func TestRepositoryUpdateItemsStatus(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	session := createSession(t, db, enums.SessionStatusDraft, now.Add(time.Hour), now.Add(2*time.Hour))
	addLot(t, db, session, createJewelry(t, db, "Gold Bangle"), 1, enums.SessionItemStatusPending)
	addLot(t, db, session, createJewelry(t, db, "Silver Locket"), 2, enums.SessionItemStatusPending)
	addLot(t, db, session, createJewelry(t, db, "Jade Pin"), 3, enums.SessionItemStatusWithdrawn)

	require.NoError(t, repo.UpdateItemsStatus(context.Background(), session.ID, enums.SessionItemStatusPending, enums.SessionItemStatusActive))

	active, err := repo.ListItemsByStatus(context.Background(), session.ID, enums.SessionItemStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	pending, err := repo.ListItemsByStatus(context.Background(), session.ID, enums.SessionItemStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	withdrawn, err := repo.ListItemsByStatus(context.Background(), session.ID, enums.SessionItemStatusWithdrawn)
	require.NoError(t, err)
	assert.Len(t, withdrawn, 1)
}

func TestRepositoryListSessions_paginationWithStatusFilter(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	oldest := createSession(t, db, enums.SessionStatusSettled, now.Add(-5*time.Hour), now.Add(-4*time.Hour))
	middle := createSession(t, db, enums.SessionStatusSettled, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	newest := createSession(t, db, enums.SessionStatusSettled, now.Add(-time.Hour), now)
	for i, s := range []*models.AuctionSession{oldest, middle, newest} {
		created := now.Add(time.Duration(i-3) * time.Hour)
		require.NoError(t, db.Model(&models.AuctionSession{}).Where("id = ?", s.ID).
			Update("created_at", created).Error)
	}

	filters := SessionFilters{Status: ptr(enums.SessionStatusSettled)}
	list, err := repo.ListSessions(context.Background(), pagination.Params{Limit: 2}, filters)
	require.NoError(t, err)
	require.Len(t, list.Sessions, 2)
	assert.True(t, list.HasMore)
	assert.NotEmpty(t, list.NextCursor)
	assert.Equal(t, newest.ID, list.Sessions[0].ID)
	assert.Equal(t, middle.ID, list.Sessions[1].ID)

	second, err := repo.ListSessions(context.Background(), pagination.Params{Limit: 2, Cursor: list.NextCursor}, filters)
	require.NoError(t, err)
	require.Len(t, second.Sessions, 1)
	assert.Equal(t, oldest.ID, second.Sessions[0].ID)
	assert.False(t, second.HasMore)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryFindScheduledSessionsDue(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	due := createSession(t, db, enums.SessionStatusScheduled, now.Add(-time.Minute), now.Add(time.Hour))
	future := createSession(t, db, enums.SessionStatusScheduled, now.Add(time.Hour), now.Add(2*time.Hour))
	draft := createSession(t, db, enums.SessionStatusDraft, now.Add(-time.Minute), now.Add(time.Hour))

	found, err := repo.FindScheduledSessionsDue(context.Background(), now)
	require.NoError(t, err)
	ids := sessionIDs(found)
	assert.True(t, ids[due.ID])
	assert.False(t, ids[future.ID])
	assert.False(t, ids[draft.ID])
}

func TestRepositoryFindOpenSessionsPastEnd(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	ended := createSession(t, db, enums.SessionStatusOpen, now.Add(-2*time.Hour), now.Add(-time.Minute))
	pausedEnded := createSession(t, db, enums.SessionStatusPaused, now.Add(-2*time.Hour), now.Add(-time.Minute))
	running := createSession(t, db, enums.SessionStatusOpen, now.Add(-time.Hour), now.Add(time.Hour))

	found, err := repo.FindOpenSessionsPastEnd(context.Background(), now)
	require.NoError(t, err)
	ids := sessionIDs(found)
	assert.True(t, ids[ended.ID])
	assert.True(t, ids[pausedEnded.ID])
	assert.False(t, ids[running.ID])
}

func TestRepositoryFindSellRequest_preloadAndUpdate(t *testing.T) {
	db := setupSessionsTestDB(t)
	repo := NewRepository(db)

	jewelry := createJewelry(t, db, "Vintage Cameo")
	request := &models.SellRequest{
		ID:            uuid.New(),
		SellerID:      jewelry.SellerID,
		JewelryItemID: jewelry.ID,
		Status:        enums.SellRequestStatusSellerAccepted,
		SubmittedAt:   time.Now().UTC().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(request).Error)

	found, err := repo.FindSellRequest(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, found.JewelryItem)
	assert.Equal(t, "Vintage Cameo", found.JewelryItem.Title)

	require.NoError(t, repo.UpdateSellRequest(context.Background(), request.ID, map[string]any{
		"status": enums.SellRequestStatusAssignedToSession,
	}))
	require.NoError(t, repo.UpdateJewelryItem(context.Background(), jewelry.ID, map[string]any{
		"status": enums.JewelryStatusInAuction,
	}))

	found, err = repo.FindSellRequest(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SellRequestStatusAssignedToSession, found.Status)
	require.NotNil(t, found.JewelryItem)
	assert.Equal(t, enums.JewelryStatusInAuction, found.JewelryItem.Status)
}

func ptr[T any](v T) *T { return &v }
