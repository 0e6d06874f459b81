package enrollments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/emeraldgavel/auctionhouse-backend/pkg/db"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an enrollment service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enrollment repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Enroll(ctx context.Context, input EnrollInput) (*models.Enrollment, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	var created *models.Enrollment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		session, err := repo.FindSession(ctx, input.SessionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		switch session.Status {
		case enums.SessionStatusScheduled, enums.SessionStatusOpen, enums.SessionStatusPaused:
		default:
			return pkgerrors.New(
				pkgerrors.CodeBusinessRule,
				fmt.Sprintf("session is %s, enrollment is closed", session.Status),
			).WithDetails(map[string]any{"current": session.Status.String()})
		}

		existing, err := repo.FindBySessionAndUser(ctx, session.ID, input.Actor.UserID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check enrollment")
		}
		if existing != nil {
			// A canceled enrollment can be reopened; anything else is a duplicate.
			if existing.Status != enums.EnrollmentStatusCanceled {
				return pkgerrors.New(pkgerrors.CodeConflict, "already enrolled in this session")
			}
			if err := repo.UpdateEnrollment(ctx, existing.ID, map[string]any{
				"status":      enums.EnrollmentStatusPending,
				"decided_by":  nil,
				"decided_at":  nil,
				"canceled_at": nil,
				"updated_at":  time.Now().UTC(),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen enrollment")
			}
			existing.Status = enums.EnrollmentStatusPending
			created = existing
			return nil
		}

		enrollment := &models.Enrollment{
			SessionID: session.ID,
			UserID:    input.Actor.UserID,
			Status:    enums.EnrollmentStatusPending,
		}
		enrollment, err = repo.CreateEnrollment(ctx, enrollment)
		if err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_enrollments_session_user") {
				return pkgerrors.New(pkgerrors.CodeConflict, "already enrolled in this session")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create enrollment")
		}
		created = enrollment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Approve(ctx context.Context, input DecisionInput) error {
	return s.decide(ctx, input, enums.EnrollmentStatusApproved)
}

func (s *service) Reject(ctx context.Context, input DecisionInput) error {
	return s.decide(ctx, input, enums.EnrollmentStatusRejected)
}

func (s *service) decide(ctx context.Context, input DecisionInput, target enums.EnrollmentStatus) error {
	if input.Actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.Role.AtLeast(enums.UserRoleStaff) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if input.EnrollmentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "enrollment id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		enrollment, err := repo.FindEnrollment(ctx, input.EnrollmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "enrollment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load enrollment")
		}
		if enrollment.Status != enums.EnrollmentStatusPending {
			return pkgerrors.NewStateConflict("enrollment", enrollment.Status, enums.EnrollmentStatusPending)
		}

		now := time.Now().UTC()
		return repo.UpdateEnrollment(ctx, enrollment.ID, map[string]any{
			"status":     target,
			"decided_by": input.Actor.UserID,
			"decided_at": now,
			"updated_at": now,
		})
	})
}

func (s *service) Cancel(ctx context.Context, input CancelInput) error {
	if input.Actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.EnrollmentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "enrollment id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		enrollment, err := repo.FindEnrollment(ctx, input.EnrollmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "enrollment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load enrollment")
		}
		if enrollment.UserID != input.Actor.UserID && !input.Actor.Role.AtLeast(enums.UserRoleStaff) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not the enrolled member")
		}
		if enrollment.Status != enums.EnrollmentStatusPending && enrollment.Status != enums.EnrollmentStatusApproved {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("enrollment is %s, only PENDING or APPROVED enrollments cancel", enrollment.Status),
			).WithDetails(map[string]any{"current": enrollment.Status.String()})
		}

		now := time.Now().UTC()
		return repo.UpdateEnrollment(ctx, enrollment.ID, map[string]any{
			"status":      enums.EnrollmentStatusCanceled,
			"canceled_at": now,
			"updated_at":  now,
		})
	})
}

func (s *service) List(ctx context.Context, input ListInput) (*EnrollmentList, error) {
	if !input.Actor.Role.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	list, err := s.repo.ListBySession(ctx, input.SessionID, pagination.Params{Limit: input.Limit, Cursor: input.Cursor}, EnrollmentFilters{Status: input.Status})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enrollments")
	}
	return list, nil
}
