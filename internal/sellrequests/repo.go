package sellrequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sell-request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateJewelryItem(ctx context.Context, item *models.JewelryItem) (*models.JewelryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) CreateSellRequest(ctx context.Context, request *models.SellRequest) (*models.SellRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) CreateAppraisal(ctx context.Context, appraisal *models.Appraisal) (*models.Appraisal, error) {
	if err := r.db.WithContext(ctx).Create(appraisal).Error; err != nil {
		return nil, err
	}
	return appraisal, nil
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

func (r *repository) FindOpenRequestBySellerAndCode(ctx context.Context, sellerID uuid.UUID, code string) (*models.SellRequest, error) {
	var request models.SellRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN jewelry_items ON jewelry_items.id = sell_requests.jewelry_item_id").
		Where("sell_requests.seller_id = ?", sellerID).
		Where("jewelry_items.code = ?", code).
		Where("sell_requests.status NOT IN ?", []enums.SellRequestStatus{
			enums.SellRequestStatusRejected,
			enums.SellRequestStatusAssignedToSession,
		}).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListSellRequests(ctx context.Context, params pagination.Params, filters SellRequestFilters) (*SellRequestList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.SellRequest{}).
		Preload("JewelryItem")
	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var requests []models.SellRequest
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&requests).Error; err != nil {
		return nil, err
	}

	list := &SellRequestList{Requests: requests}
	if len(requests) > limit {
		list.Requests = requests[:limit]
		list.HasMore = true
		last := list.Requests[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) ListAppraisals(ctx context.Context, sellRequestID uuid.UUID) ([]models.Appraisal, error) {
	var appraisals []models.Appraisal
	err := r.db.WithContext(ctx).
		Where("sell_request_id = ?", sellRequestID).
		Order("created_at ASC").
		Find(&appraisals).Error
	if err != nil {
		return nil, err
	}
	return appraisals, nil
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
