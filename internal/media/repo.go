package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
)

// Repository exposes media metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a media record.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindByID retrieves a media record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindItem loads the jewelry item a photo is being attached to.
func (r *Repository) FindItem(ctx context.Context, id uuid.UUID) (*models.JewelryItem, error) {
	var item models.JewelryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CountByItem counts every photo attached to an item, pending uploads included.
func (r *Repository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("jewelry_item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

// SetURL marks an upload as finalized by recording its serving URL.
func (r *Repository) SetURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		UpdateColumn("url", url).Error
}

// ListByItem returns finalized photos for an item, oldest first.
func (r *Repository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Media, error) {
	var rows []models.Media
	err := r.db.WithContext(ctx).
		Where("jewelry_item_id = ? AND url IS NOT NULL", itemID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// Delete removes a media record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{}).Error
}

// ListPendingBefore returns rows whose upload never completed before the cutoff.
func (r *Repository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error) {
	var rows []models.Media
	err := r.db.WithContext(ctx).
		Where("url IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// DeleteWithTx removes a media record inside an existing transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&models.Media{}).Error
}
