package bidding

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

func setupBiddingTestDB(t *testing.T) *gorm.DB {
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
	bids := `
CREATE TABLE IF NOT EXISTS bids (
  id TEXT PRIMARY KEY,
  session_item_id TEXT NOT NULL,
  bidder_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'VALID',
  placed_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	winningIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_bids_one_winning_per_item
  ON bids (session_item_id) WHERE status = 'WINNING';`
	enrollments := `
CREATE TABLE IF NOT EXISTS enrollments (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  decided_by TEXT,
  decided_at DATETIME,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(sessions).Error)
	require.NoError(t, db.Exec(sessionItems).Error)
	require.NoError(t, db.Exec(bids).Error)
	require.NoError(t, db.Exec(winningIndex).Error)
	require.NoError(t, db.Exec(enrollments).Error)
	return db
}

func createBiddingSession(t *testing.T, db *gorm.DB, status enums.SessionStatus) *models.AuctionSession {
	t.Helper()

	now := time.Now().UTC()
	session := &models.AuctionSession{
		ID:                uuid.New(),
		Code:              "AS-" + uuid.NewString()[:8],
		Name:              "Evening Sale",
		Status:            status,
		StartTime:         now.Add(-time.Hour),
		EndTime:           now.Add(time.Hour),
		DefaultStepPrice:  decimal.RequireFromString("50"),
		RequireEnrollment: true,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

func createLot(t *testing.T, db *gorm.DB, session *models.AuctionSession, lot int, status enums.SessionItemStatus) *models.SessionItem {
	t.Helper()

	item := &models.SessionItem{
		ID:            uuid.New(),
		SessionID:     session.ID,
		JewelryItemID: uuid.New(),
		LotNumber:     lot,
		Status:        status,
		StartPrice:    decimal.RequireFromString("500"),
		StepPrice:     decimal.RequireFromString("50"),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func createBid(t *testing.T, db *gorm.DB, item *models.SessionItem, amount string, status enums.BidStatus, placedAt time.Time) *models.Bid {
	t.Helper()

	bid := &models.Bid{
		ID:            uuid.New(),
		SessionItemID: item.ID,
		BidderID:      uuid.New(),
		Amount:        decimal.RequireFromString(amount),
		Status:        status,
		PlacedAt:      placedAt,
		CreatedAt:     placedAt,
		UpdatedAt:     placedAt,
	}
	require.NoError(t, db.Create(bid).Error)
	return bid
}

func TestRepositoryFindHighestLiveBid_ordering(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	item := createLot(t, db, session, 1, enums.SessionItemStatusActive)

	now := time.Now().UTC()
	createBid(t, db, item, "1500.00", enums.BidStatusOutbid, now.Add(-3*time.Minute))
	first := createBid(t, db, item, "1200.00", enums.BidStatusValid, now.Add(-2*time.Minute))
	createBid(t, db, item, "1200.00", enums.BidStatusWinning, now.Add(-time.Minute))
	createBid(t, db, item, "900.00", enums.BidStatusValid, now)

	highest, err := repo.FindHighestLiveBid(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, highest.ID)
	assert.True(t, highest.Amount.Equal(decimal.RequireFromString("1200.00")))
}

func TestRepositoryFindHighestLiveBid_noLiveBids(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	item := createLot(t, db, session, 1, enums.SessionItemStatusActive)
	createBid(t, db, item, "800.00", enums.BidStatusInvalid, time.Now().UTC())

	_, err := repo.FindHighestLiveBid(context.Background(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryMarkOutbid_flipsOnlyWinner(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	item := createLot(t, db, session, 1, enums.SessionItemStatusActive)

	now := time.Now().UTC()
	winner := createBid(t, db, item, "1000.00", enums.BidStatusWinning, now.Add(-time.Minute))
	bystander := createBid(t, db, item, "950.00", enums.BidStatusValid, now)

	found, err := repo.FindWinningBid(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, found.ID)

	require.NoError(t, repo.MarkOutbid(context.Background(), item.ID))

	_, err = repo.FindWinningBid(context.Background(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reloadedWinner models.Bid
	require.NoError(t, db.First(&reloadedWinner, "id = ?", winner.ID).Error)
	assert.Equal(t, enums.BidStatusOutbid, reloadedWinner.Status)
	var reloadedBystander models.Bid
	require.NoError(t, db.First(&reloadedBystander, "id = ?", bystander.ID).Error)
	assert.Equal(t, enums.BidStatusValid, reloadedBystander.Status)
}

func TestRepositoryCreateBid_rejectsSecondWinner(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	item := createLot(t, db, session, 1, enums.SessionItemStatusActive)

	now := time.Now().UTC()
	_, err := repo.CreateBid(context.Background(), &models.Bid{
		ID:            uuid.New(),
		SessionItemID: item.ID,
		BidderID:      uuid.New(),
		Amount:        decimal.RequireFromString("1000.00"),
		Status:        enums.BidStatusWinning,
		PlacedAt:      now,
	})
	require.NoError(t, err)

	_, err = repo.CreateBid(context.Background(), &models.Bid{
		ID:            uuid.New(),
		SessionItemID: item.ID,
		BidderID:      uuid.New(),
		Amount:        decimal.RequireFromString("1100.00"),
		Status:        enums.BidStatusWinning,
		PlacedAt:      now.Add(time.Second),
	})
	require.Error(t, err)

	require.NoError(t, repo.MarkOutbid(context.Background(), item.ID))
	_, err = repo.CreateBid(context.Background(), &models.Bid{
		ID:            uuid.New(),
		SessionItemID: item.ID,
		BidderID:      uuid.New(),
		Amount:        decimal.RequireFromString("1100.00"),
		Status:        enums.BidStatusWinning,
		PlacedAt:      now.Add(2 * time.Second),
	})
	require.NoError(t, err)
}

func TestRepositoryListBids_pagination(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	item := createLot(t, db, session, 1, enums.SessionItemStatusActive)

	now := time.Now().UTC()
	oldest := createBid(t, db, item, "900.00", enums.BidStatusOutbid, now.Add(-2*time.Hour))
	middle := createBid(t, db, item, "950.00", enums.BidStatusOutbid, now.Add(-time.Hour))
	newest := createBid(t, db, item, "1000.00", enums.BidStatusWinning, now)

	list, err := repo.ListBids(context.Background(), item.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list.Bids, 2)
	assert.True(t, list.HasMore)
	assert.NotEmpty(t, list.NextCursor)
	assert.Equal(t, newest.ID, list.Bids[0].ID)
	assert.Equal(t, middle.ID, list.Bids[1].ID)

	second, err := repo.ListBids(context.Background(), item.ID, pagination.Params{Limit: 2, Cursor: list.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Bids, 1)
	assert.Equal(t, oldest.ID, second.Bids[0].ID)
	assert.False(t, second.HasMore)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryFindApprovedEnrollment(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	approvedUser := uuid.New()
	pendingUser := uuid.New()

	require.NoError(t, db.Create(&models.Enrollment{
		ID:        uuid.New(),
		SessionID: session.ID,
		UserID:    approvedUser,
		Status:    enums.EnrollmentStatusApproved,
	}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		ID:        uuid.New(),
		SessionID: session.ID,
		UserID:    pendingUser,
		Status:    enums.EnrollmentStatusPending,
	}).Error)

	enrollment, err := repo.FindApprovedEnrollment(context.Background(), session.ID, approvedUser)
	require.NoError(t, err)
	assert.Equal(t, approvedUser, enrollment.UserID)

	_, err = repo.FindApprovedEnrollment(context.Background(), session.ID, pendingUser)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateItem_marksLotSold(t *testing.T) {
	db := setupBiddingTestDB(t)
	repo := NewRepository(db)

	session := createBiddingSession(t, db, enums.SessionStatusOpen)
	item := createLot(t, db, session, 1, enums.SessionItemStatusActive)

	locked, err := repo.FindItemForUpdate(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, locked.ID)

	closedAt := time.Now().UTC()
	require.NoError(t, repo.UpdateItem(context.Background(), item.ID, map[string]any{
		"status":    enums.SessionItemStatusSold,
		"closed_at": closedAt,
	}))

	reloaded, err := repo.FindItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SessionItemStatusSold, reloaded.Status)
	require.NotNil(t, reloaded.ClosedAt)
}
