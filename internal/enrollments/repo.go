package enrollments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an enrollment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *repository) FindEnrollment(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) FindBySessionAndUser(ctx context.Context, sessionID, userID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("user_id = ?", userID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID uuid.UUID, params pagination.Params, filters EnrollmentFilters) (*EnrollmentList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("session_id = ?", sessionID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var enrollments []models.Enrollment
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	list := &EnrollmentList{Enrollments: enrollments}
	if len(enrollments) > limit {
		list.Enrollments = enrollments[:limit]
		list.HasMore = true
		last := list.Enrollments[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) UpdateEnrollment(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", id).
		Updates(updates).Error
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
