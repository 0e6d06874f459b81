package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Repository exposes read-side persistence for the jewelry catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one jewelry item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.JewelryItem, error) {
	var item models.JewelryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByCode loads one jewelry item by its public code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.JewelryItem, error) {
	var item models.JewelryItem
	if err := r.db.WithContext(ctx).First(&item, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List pages jewelry items newest-first applying the fixed filter set.
// Free-text search matches title and description case-insensitively.
func (r *Repository) List(ctx context.Context, input ListItemsInput) ([]models.JewelryItem, error) {
	query := r.db.WithContext(ctx).Model(&models.JewelryItem{})

	filters := input.Filters
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	}
	if filters.PriceMin != nil {
		query = query.Where("estimated_price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("estimated_price <= ?", *filters.PriceMax)
	}
	if text := strings.TrimSpace(filters.Query); text != "" {
		like := "%" + text + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.JewelryItem
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
