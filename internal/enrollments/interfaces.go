package enrollments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Repository defines persistence operations for session enrollments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	FindEnrollment(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	FindBySessionAndUser(ctx context.Context, sessionID, userID uuid.UUID) (*models.Enrollment, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, params pagination.Params, filters EnrollmentFilters) (*EnrollmentList, error)
	UpdateEnrollment(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindSession(ctx context.Context, id uuid.UUID) (*models.AuctionSession, error)
}

// Service defines enrollment operations. An APPROVED enrollment is the
// admission ticket for bidding.
type Service interface {
	Enroll(ctx context.Context, input EnrollInput) (*models.Enrollment, error)
	Approve(ctx context.Context, input DecisionInput) error
	Reject(ctx context.Context, input DecisionInput) error
	Cancel(ctx context.Context, input CancelInput) error
	List(ctx context.Context, input ListInput) (*EnrollmentList, error)
}
