package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a session repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSession(ctx context.Context, session *models.AuctionSession) (*models.AuctionSession, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *repository) FindSession(ctx context.Context, id uuid.UUID) (*models.AuctionSession, error) {
	var session models.AuctionSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindSessionForUpdate takes a row lock on the session so lot assignment and
// lifecycle flips serialize across concurrent callers.
func (r *repository) FindSessionForUpdate(ctx context.Context, id uuid.UUID) (*models.AuctionSession, error) {
	var session models.AuctionSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) ListSessions(ctx context.Context, params pagination.Params, filters SessionFilters) (*SessionList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.AuctionSession{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var sessions []models.AuctionSession
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	list := &SessionList{Sessions: sessions}
	if len(sessions) > limit {
		list.Sessions = sessions[:limit]
		list.HasMore = true
		last := list.Sessions[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) UpdateSession(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.AuctionSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindScheduledSessionsDue(ctx context.Context, now time.Time) ([]models.AuctionSession, error) {
	var sessions []models.AuctionSession
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.SessionStatusScheduled).
		Where("start_time <= ?", now).
		Order("start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) FindOpenSessionsPastEnd(ctx context.Context, now time.Time) ([]models.AuctionSession, error) {
	var sessions []models.AuctionSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enums.SessionStatus{enums.SessionStatusOpen, enums.SessionStatusPaused}).
		Where("end_time <= ?", now).
		Order("end_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) CountItems(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionItem{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *repository) MaxLotNumber(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var maxLot *int
	err := r.db.WithContext(ctx).
		Model(&models.SessionItem{}).
		Where("session_id = ?", sessionID).
		Select("MAX(lot_number)").
		Scan(&maxLot).Error
	if err != nil {
		return 0, err
	}
	if maxLot == nil {
		return 0, nil
	}
	return *maxLot, nil
}

func (r *repository) CreateSessionItem(ctx context.Context, item *models.SessionItem) (*models.SessionItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error) {
	var item models.SessionItem
	err := r.db.WithContext(ctx).
		Preload("JewelryItem").
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, sessionID uuid.UUID) ([]models.SessionItem, error) {
	var items []models.SessionItem
	err := r.db.WithContext(ctx).
		Preload("JewelryItem").
		Where("session_id = ?", sessionID).
		Order("lot_number ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListItemsByStatus(ctx context.Context, sessionID uuid.UUID, status enums.SessionItemStatus) ([]models.SessionItem, error) {
	var items []models.SessionItem
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("status = ?", status).
		Order("lot_number ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SessionItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) UpdateItemsStatus(ctx context.Context, sessionID uuid.UUID, from, to enums.SessionItemStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SessionItem{}).
		Where("session_id = ?", sessionID).
		Where("status = ?", from).
		Update("status", to).Error
}

func (r *repository) FindSellRequest(ctx context.Context, id uuid.UUID) (*models.SellRequest, error) {
	var request models.SellRequest
	err := r.db.WithContext(ctx).
		Preload("JewelryItem").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateSellRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SellRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateJewelryItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.JewelryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}
