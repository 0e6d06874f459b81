package bidding

import (
	"context"

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

// NewRepository builds a bidding repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error) {
	var item models.SessionItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemForUpdate locks the lot row so bid admission serializes.
func (r *repository) FindItemForUpdate(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error) {
	var item models.SessionItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindSession(ctx context.Context, sessionID uuid.UUID) (*models.AuctionSession, error) {
	var session models.AuctionSession
	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) FindApprovedEnrollment(ctx context.Context, sessionID, userID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("user_id = ?", userID).
		Where("status = ?", enums.EnrollmentStatusApproved).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) FindHighestLiveBid(ctx context.Context, itemID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("session_item_id = ?", itemID).
		Where("status IN ?", []enums.BidStatus{enums.BidStatusValid, enums.BidStatusWinning}).
		Order("amount DESC, placed_at ASC").
		First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *repository) FindWinningBid(ctx context.Context, itemID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("session_item_id = ?", itemID).
		Where("status = ?", enums.BidStatusWinning).
		First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *repository) CreateBid(ctx context.Context, bid *models.Bid) (*models.Bid, error) {
	if err := r.db.WithContext(ctx).Create(bid).Error; err != nil {
		return nil, err
	}
	return bid, nil
}

func (r *repository) MarkOutbid(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("session_item_id = ?", itemID).
		Where("status = ?", enums.BidStatusWinning).
		Update("status", enums.BidStatusOutbid).Error
}

func (r *repository) ListBids(ctx context.Context, itemID uuid.UUID, params pagination.Params) (*BidList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Bid{}).
		Where("session_item_id = ?", itemID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var bids []models.Bid
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&bids).Error; err != nil {
		return nil, err
	}

	list := &BidList{Bids: bids}
	if len(bids) > limit {
		list.Bids = bids[:limit]
		list.HasMore = true
		last := list.Bids[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SessionItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) UpdateJewelryItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.JewelryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}
