package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// Config carries the tunable session policies.
type Config struct {
	DefaultStepPrice  decimal.Decimal
	MaxLotsPerSession int
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	cfg    Config
}

// NewService builds a session service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, cfg Config) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if !cfg.DefaultStepPrice.IsPositive() {
		return nil, fmt.Errorf("default step price must be positive")
	}
	if cfg.MaxLotsPerSession <= 0 {
		return nil, fmt.Errorf("max lots per session must be positive")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, cfg: cfg}, nil
}

func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*models.AuctionSession, error) {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session name required")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end times required")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end time must follow start time")
	}

	step := s.cfg.DefaultStepPrice
	if input.DefaultStepPrice != nil {
		if !input.DefaultStepPrice.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "step price must be positive")
		}
		step = *input.DefaultStepPrice
	}
	requireEnrollment := true
	if input.RequireEnrollment != nil {
		requireEnrollment = *input.RequireEnrollment
	}

	code, err := codes.NewSessionCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate session code")
	}

	session := &models.AuctionSession{
		Code:              code,
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		Status:            enums.SessionStatusDraft,
		StartTime:         input.StartTime.UTC(),
		EndTime:           input.EndTime.UTC(),
		AssignedStaffID:   input.AssignedStaffID,
		DefaultStepPrice:  step,
		RequireEnrollment: requireEnrollment,
	}
	session, err = s.repo.CreateSession(ctx, session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	return session, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.SessionItem, error) {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return nil, err
	}
	if input.SessionID == uuid.Nil || input.SellRequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id and sell request id required")
	}
	if !input.StartPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start price must be positive")
	}
	if input.StepPrice != nil && !input.StepPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step price must be positive")
	}

	var created *models.SessionItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Lock serializes lot numbering for concurrent add calls.
		session, err := repo.FindSessionForUpdate(ctx, input.SessionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock session")
		}
		if session.Status != enums.SessionStatusDraft && session.Status != enums.SessionStatusScheduled {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("session is %s, items can only be added to DRAFT or SCHEDULED sessions", session.Status),
			).WithDetails(map[string]any{"current": session.Status.String()})
		}

		request, err := repo.FindSellRequest(ctx, input.SellRequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sell request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sell request")
		}
		if request.Status != enums.SellRequestStatusManagerApproved &&
			request.Status != enums.SellRequestStatusSellerAccepted {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("sell request is %s, expected MANAGER_APPROVED or SELLER_ACCEPTED", request.Status),
			).WithDetails(map[string]any{"current": request.Status.String()})
		}

		count, err := repo.CountItems(ctx, session.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count lots")
		}
		if count >= int64(s.cfg.MaxLotsPerSession) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "session lot capacity reached").
				WithDetails(map[string]any{"max_lots": s.cfg.MaxLotsPerSession})
		}

		maxLot, err := repo.MaxLotNumber(ctx, session.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve lot number")
		}

		step := session.DefaultStepPrice
		if input.StepPrice != nil {
			step = *input.StepPrice
		}
		reserve := input.ReservePrice
		if reserve == nil && request.JewelryItem != nil {
			reserve = request.JewelryItem.ReservePrice
		}

		item := &models.SessionItem{
			SessionID:     session.ID,
			JewelryItemID: request.JewelryItemID,
			LotNumber:     maxLot + 1,
			Status:        enums.SessionItemStatusPending,
			StartPrice:    input.StartPrice,
			StepPrice:     step,
			ReservePrice:  reserve,
		}
		item, err = repo.CreateSessionItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session item")
		}

		now := time.Now().UTC()
		if err := repo.UpdateSellRequest(ctx, request.ID, map[string]any{
			"status":     enums.SellRequestStatusAssignedToSession,
			"updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign sell request")
		}
		if err := repo.UpdateJewelryItem(ctx, request.JewelryItemID, map[string]any{
			"status":     enums.JewelryStatusInAuction,
			"updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "move jewelry to auction")
		}

		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) WithdrawItem(ctx context.Context, input WithdrawItemInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	if input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindItem(ctx, input.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session item")
		}
		if item.Status != enums.SessionItemStatusPending {
			return pkgerrors.NewStateConflict("session item", item.Status, enums.SessionItemStatusPending)
		}

		now := time.Now().UTC()
		if err := repo.UpdateItem(ctx, item.ID, map[string]any{
			"status":     enums.SessionItemStatusWithdrawn,
			"updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "withdraw session item")
		}
		return repo.UpdateJewelryItem(ctx, item.JewelryItemID, map[string]any{
			"status":     enums.JewelryStatusReturned,
			"updated_at": now,
		})
	})
}

func (s *service) Schedule(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	return s.transition(ctx, input.SessionID, func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error) {
		if session.Status != enums.SessionStatusDraft {
			return nil, nil, pkgerrors.NewStateConflict("session", session.Status, enums.SessionStatusDraft)
		}
		if !session.StartTime.After(now) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "start time must be in the future to schedule")
		}
		count, err := repo.CountItems(ctx, session.ID)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count lots")
		}
		if count == 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "session needs at least one lot to schedule")
		}
		event := &outbox.DomainEvent{
			EventType:     enums.EventSessionScheduled,
			AggregateType: enums.AggregateSession,
			AggregateID:   session.ID,
			Actor:         actorRef(input.Actor),
			Data: SessionScheduledEvent{
				SessionID: session.ID,
				Code:      session.Code,
				Name:      session.Name,
				StartTime: session.StartTime,
				EndTime:   session.EndTime,
				LotCount:  count,
			},
			Version: 1,
		}
		return map[string]any{"status": enums.SessionStatusScheduled}, event, nil
	})
}

func (s *service) Open(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	return s.transition(ctx, input.SessionID, func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error) {
		if session.Status != enums.SessionStatusScheduled {
			return nil, nil, pkgerrors.NewStateConflict("session", session.Status, enums.SessionStatusScheduled)
		}
		// Flips every pending lot live; lot order is preserved by the index.
		if err := repo.UpdateItemsStatus(ctx, session.ID, enums.SessionItemStatusPending, enums.SessionItemStatusActive); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate lots")
		}
		event := &outbox.DomainEvent{
			EventType:     enums.EventSessionOpened,
			AggregateType: enums.AggregateSession,
			AggregateID:   session.ID,
			Actor:         actorRef(input.Actor),
			Data: SessionOpenedEvent{
				SessionID: session.ID,
				Code:      session.Code,
				OpenedAt:  now,
			},
			Version: 1,
		}
		return map[string]any{"status": enums.SessionStatusOpen, "opened_at": now}, event, nil
	})
}

func (s *service) Pause(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	return s.transition(ctx, input.SessionID, func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error) {
		if session.Status != enums.SessionStatusOpen {
			return nil, nil, pkgerrors.NewStateConflict("session", session.Status, enums.SessionStatusOpen)
		}
		return map[string]any{"status": enums.SessionStatusPaused}, nil, nil
	})
}

func (s *service) Resume(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	return s.transition(ctx, input.SessionID, func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error) {
		if session.Status != enums.SessionStatusPaused {
			return nil, nil, pkgerrors.NewStateConflict("session", session.Status, enums.SessionStatusPaused)
		}
		return map[string]any{"status": enums.SessionStatusOpen}, nil, nil
	})
}

func (s *service) Close(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return err
	}
	return s.transition(ctx, input.SessionID, func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error) {
		if session.Status != enums.SessionStatusOpen && session.Status != enums.SessionStatusPaused {
			return nil, nil, pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("session is %s, only OPEN or PAUSED sessions close", session.Status),
			).WithDetails(map[string]any{"current": session.Status.String()})
		}
		event := &outbox.DomainEvent{
			EventType:     enums.EventSessionClosed,
			AggregateType: enums.AggregateSession,
			AggregateID:   session.ID,
			Actor:         actorRef(input.Actor),
			Data: SessionClosedEvent{
				SessionID: session.ID,
				Code:      session.Code,
				ClosedAt:  now,
			},
			Version: 1,
		}
		return map[string]any{"status": enums.SessionStatusClosed, "closed_at": now}, event, nil
	})
}

func (s *service) Cancel(ctx context.Context, input TransitionInput) error {
	if err := requireRole(input.Actor, enums.UserRoleManager); err != nil {
		return err
	}
	return s.transition(ctx, input.SessionID, func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error) {
		if !session.Status.CanCancel() {
			return nil, nil, pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("session is %s, cancellation is only possible before closing", session.Status),
			).WithDetails(map[string]any{"current": session.Status.String()})
		}
		for _, from := range []enums.SessionItemStatus{enums.SessionItemStatusPending, enums.SessionItemStatusActive} {
			if err := repo.UpdateItemsStatus(ctx, session.ID, from, enums.SessionItemStatusWithdrawn); err != nil {
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "withdraw lots")
			}
		}
		return map[string]any{"status": enums.SessionStatusCanceled, "canceled_at": now}, nil, nil
	})
}

func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	items, err := s.repo.ListItems(ctx, session.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session items")
	}
	return &SessionDetail{Session: *session, Items: items}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*SessionList, error) {
	list, err := s.repo.ListSessions(ctx, pagination.Params{Limit: input.Limit, Cursor: input.Cursor}, SessionFilters{Status: input.Status})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}
	return list, nil
}

type transitionFn func(ctx context.Context, repo Repository, session *models.AuctionSession, now time.Time) (map[string]any, *outbox.DomainEvent, error)

func (s *service) transition(ctx context.Context, sessionID uuid.UUID, fn transitionFn) error {
	if sessionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		session, err := repo.FindSessionForUpdate(ctx, sessionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock session")
		}

		now := time.Now().UTC()
		updates, event, err := fn(ctx, repo, session, now)
		if err != nil {
			return err
		}
		updates["updated_at"] = now
		if err := repo.UpdateSession(ctx, session.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session")
		}
		if event != nil {
			return s.outbox.Emit(ctx, tx, *event)
		}
		return nil
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
