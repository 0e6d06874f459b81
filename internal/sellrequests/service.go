package sellrequests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/codes"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a sell-request workflow service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sell request repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.SellRequest, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Item.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item title required")
	}
	if strings.TrimSpace(input.Item.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item description required")
	}
	if len(input.Item.Photos) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one photo required")
	}

	code := strings.TrimSpace(input.Item.Code)
	if code != "" {
		existing, err := s.repo.FindOpenRequestBySellerAndCode(ctx, input.Actor.UserID, code)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open requests")
		}
		if existing != nil {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "an open sell request already exists for this item").
				WithDetails(map[string]any{"code": code})
		}
	} else {
		generated, err := codes.NewJewelryCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate jewelry code")
		}
		code = generated
	}

	now := time.Now().UTC()
	var created *models.SellRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item := &models.JewelryItem{
			Code:        code,
			SellerID:    input.Actor.UserID,
			Title:       strings.TrimSpace(input.Item.Title),
			Description: strings.TrimSpace(input.Item.Description),
			Attributes:  input.Item.Attributes,
			WeightGrams: input.Item.WeightGrams,
			Photos:      input.Item.Photos,
			Status:      enums.JewelryStatusPendingAppraisal,
		}
		item, err := repo.CreateJewelryItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create jewelry item")
		}

		request := &models.SellRequest{
			SellerID:      input.Actor.UserID,
			JewelryItemID: item.ID,
			Status:        enums.SellRequestStatusSubmitted,
			SellerNotes:   input.SellerNotes,
			SubmittedAt:   now,
		}
		request, err = repo.CreateSellRequest(ctx, request)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sell request")
		}
		request.JewelryItem = item
		created = request

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSellRequestSubmitted,
			AggregateType: enums.AggregateSellRequest,
			AggregateID:   request.ID,
			Actor:         actorRef(input.Actor),
			Data: SellRequestSubmittedEvent{
				RequestID:     request.ID,
				SellerID:      request.SellerID,
				JewelryItemID: item.ID,
				JewelryCode:   item.Code,
				Title:         item.Title,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) PreliminaryAppraise(ctx context.Context, input AppraiseInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	if !input.EstimatedValue.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated value must be positive")
	}
	return s.advance(ctx, transition{
		actor:     input.Actor,
		requestID: input.RequestID,
		expected:  enums.SellRequestStatusSubmitted,
		successor: enums.SellRequestStatusPrelimAppraised,
		stampCol:  "prelim_appraised_at",
		notes:     input.Notes,
		notesCol:  "staff_notes",
		apply: func(ctx context.Context, repo Repository, request *models.SellRequest, now time.Time) error {
			_, err := repo.CreateAppraisal(ctx, &models.Appraisal{
				SellRequestID:  request.ID,
				AppraiserID:    input.Actor.UserID,
				Type:           enums.AppraisalTypePreliminary,
				EstimatedValue: input.EstimatedValue,
				Notes:          input.Notes,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record appraisal")
			}
			return repo.UpdateJewelryItem(ctx, request.JewelryItemID, map[string]any{
				"estimated_price": input.EstimatedValue,
				"status":          enums.JewelryStatusAppraised,
				"updated_at":      now,
			})
		},
	})
}

func (s *service) MarkReceived(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	return s.advance(ctx, transition{
		actor:     input.Actor,
		requestID: input.RequestID,
		expected:  enums.SellRequestStatusPrelimAppraised,
		successor: enums.SellRequestStatusReceived,
		stampCol:  "received_at",
		notes:     input.Notes,
		notesCol:  "staff_notes",
	})
}

func (s *service) FinalAppraise(ctx context.Context, input AppraiseInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	if !input.EstimatedValue.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated value must be positive")
	}
	if input.ReservePrice != nil && input.ReservePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve price cannot be negative")
	}
	return s.advance(ctx, transition{
		actor:     input.Actor,
		requestID: input.RequestID,
		expected:  enums.SellRequestStatusReceived,
		successor: enums.SellRequestStatusFinalAppraised,
		stampCol:  "final_appraised_at",
		notes:     input.Notes,
		notesCol:  "staff_notes",
		apply: func(ctx context.Context, repo Repository, request *models.SellRequest, now time.Time) error {
			_, err := repo.CreateAppraisal(ctx, &models.Appraisal{
				SellRequestID:  request.ID,
				AppraiserID:    input.Actor.UserID,
				Type:           enums.AppraisalTypeFinal,
				EstimatedValue: input.EstimatedValue,
				Notes:          input.Notes,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record appraisal")
			}
			updates := map[string]any{
				"estimated_price": input.EstimatedValue,
				"updated_at":      now,
			}
			if input.ReservePrice != nil {
				updates["reserve_price"] = *input.ReservePrice
			}
			return repo.UpdateJewelryItem(ctx, request.JewelryItemID, updates)
		},
	})
}

func (s *service) ManagerApprove(ctx context.Context, input ApproveInput) error {
	if err := requireRole(input.Actor, enums.UserRoleManager); err != nil {
		return err
	}
	return s.advance(ctx, transition{
		actor:     input.Actor,
		requestID: input.RequestID,
		expected:  enums.SellRequestStatusFinalAppraised,
		successor: enums.SellRequestStatusManagerApproved,
		stampCol:  "approved_at",
		notes:     input.Notes,
		notesCol:  "manager_notes",
		apply: func(ctx context.Context, repo Repository, request *models.SellRequest, now time.Time) error {
			return repo.UpdateJewelryItem(ctx, request.JewelryItemID, map[string]any{
				"status":     enums.JewelryStatusApproved,
				"updated_at": now,
			})
		},
	})
}

func (s *service) SellerAccept(ctx context.Context, input TransitionInput) error {
	if input.Actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.advance(ctx, transition{
		actor:     input.Actor,
		requestID: input.RequestID,
		expected:  enums.SellRequestStatusManagerApproved,
		successor: enums.SellRequestStatusSellerAccepted,
		stampCol:  "accepted_at",
		ownerOnly: true,
	})
}

func (s *service) Reject(ctx context.Context, input RejectInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	if input.RequestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sell request id required")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := repo.FindSellRequest(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sell request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sell request")
		}
		if request.Status.IsTerminal() {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("sell request is %s, no further transitions allowed", request.Status),
			).WithDetails(map[string]any{"current": request.Status.String()})
		}

		now := time.Now().UTC()
		if err := repo.UpdateSellRequest(ctx, request.ID, map[string]any{
			"status":        enums.SellRequestStatusRejected,
			"reject_reason": input.Reason,
			"rejected_at":   now,
			"updated_at":    now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject sell request")
		}
		if err := repo.UpdateJewelryItem(ctx, request.JewelryItemID, map[string]any{
			"status":     enums.JewelryStatusReturned,
			"updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return jewelry item")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSellRequestRejected,
			AggregateType: enums.AggregateSellRequest,
			AggregateID:   request.ID,
			Actor:         actorRef(input.Actor),
			Data: SellRequestRejectedEvent{
				RequestID:     request.ID,
				SellerID:      request.SellerID,
				JewelryItemID: request.JewelryItemID,
				FromStatus:    request.Status,
				Reason:        input.Reason,
			},
			Version: 1,
		})
	})
}

func (s *service) Get(ctx context.Context, input GetInput) (*SellRequestDetail, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sell request id required")
	}
	request, err := s.repo.FindSellRequest(ctx, input.RequestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sell request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sell request")
	}
	if !input.Actor.Role.AtLeast(enums.UserRoleStaff) && request.SellerID != input.Actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the owning seller")
	}
	appraisals, err := s.repo.ListAppraisals(ctx, request.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appraisals")
	}
	return &SellRequestDetail{Request: *request, Appraisals: appraisals}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*SellRequestList, error) {
	filters := SellRequestFilters{Status: input.Status}
	if input.Actor.Role.AtLeast(enums.UserRoleStaff) {
		filters.SellerID = input.Seller
	} else {
		sellerID := input.Actor.UserID
		filters.SellerID = &sellerID
	}
	list, err := s.repo.ListSellRequests(ctx, pagination.Params{Limit: input.Limit, Cursor: input.Cursor}, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sell requests")
	}
	return list, nil
}

// transition describes one forward step of the workflow.
type transition struct {
	actor     Actor
	requestID uuid.UUID
	expected  enums.SellRequestStatus
	successor enums.SellRequestStatus
	stampCol  string
	notes     *string
	notesCol  string
	ownerOnly bool
	apply     func(ctx context.Context, repo Repository, request *models.SellRequest, now time.Time) error
}

func (s *service) advance(ctx context.Context, tr transition) error {
	if tr.requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sell request id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := repo.FindSellRequest(ctx, tr.requestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sell request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sell request")
		}
		if tr.ownerOnly && request.SellerID != tr.actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not the owning seller")
		}
		if request.Status != tr.expected {
			return pkgerrors.NewStateConflict("sell request", request.Status, tr.expected)
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":     tr.successor,
			tr.stampCol:  now,
			"updated_at": now,
		}
		if tr.notes != nil && tr.notesCol != "" {
			updates[tr.notesCol] = *tr.notes
		}
		if err := repo.UpdateSellRequest(ctx, request.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sell request")
		}
		if tr.apply != nil {
			if err := tr.apply(ctx, repo, request, now); err != nil {
				return err
			}
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSellRequestTransitioned,
			AggregateType: enums.AggregateSellRequest,
			AggregateID:   request.ID,
			Actor:         actorRef(tr.actor),
			Data: SellRequestTransitionedEvent{
				RequestID:     request.ID,
				SellerID:      request.SellerID,
				JewelryItemID: request.JewelryItemID,
				FromStatus:    request.Status,
				ToStatus:      tr.successor,
			},
			Version: 1,
		})
	})
}

func requireRole(actor Actor, required enums.UserRole) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !actor.Role.AtLeast(required) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	return nil
}

func actorRef(actor Actor) *outbox.ActorRef {
	if actor.UserID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()}
}
