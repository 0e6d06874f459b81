package bidding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/emeraldgavel/auctionhouse-backend/pkg/db"
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

// NewService builds a bidding service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bidding repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

func (s *service) PlaceBid(ctx context.Context, input PlaceBidInput) (*models.Bid, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid amount must be positive")
	}

	var placed *models.Bid
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// The row lock serializes admission per lot; everything below sees a
		// stable highest bid until commit.
		item, err := repo.FindItemForUpdate(ctx, input.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session item not found")
			}
			return mapBidWriteError(err, "lock session item")
		}

		// Session status is read inside the same transaction so a concurrent
		// close or cancel is always observed before the bid commits.
		session, err := repo.FindSession(ctx, item.SessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		if session.Status != enums.SessionStatusOpen {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "auction is not open").
				WithDetails(map[string]any{"session_status": session.Status.String()})
		}
		if item.Status != enums.SessionItemStatusActive {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "item is not available for bidding").
				WithDetails(map[string]any{"item_status": item.Status.String()})
		}
		if session.RequireEnrollment {
			if _, err := repo.FindApprovedEnrollment(ctx, session.ID, input.Actor.UserID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeForbidden, "bidder is not enrolled in this session")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check enrollment")
			}
		}

		floor := item.StartPrice
		var previousWinner *models.Bid
		highest, err := repo.FindHighestLiveBid(ctx, item.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load highest bid")
		}
		if highest != nil {
			previousWinner = highest
			if highest.Amount.GreaterThan(floor) {
				floor = highest.Amount
			}
		}
		minimum := floor.Add(item.StepPrice)
		if input.Amount.LessThan(minimum) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "bid below minimum").
				WithDetails(map[string]any{"minimum": minimum.StringFixed(2)})
		}

		if err := repo.MarkOutbid(ctx, item.ID); err != nil {
			return mapBidWriteError(err, "supersede winning bid")
		}

		bid := &models.Bid{
			SessionItemID: item.ID,
			BidderID:      input.Actor.UserID,
			Amount:        input.Amount,
			Status:        enums.BidStatusWinning,
			PlacedAt:      time.Now().UTC(),
		}
		bid, err = repo.CreateBid(ctx, bid)
		if err != nil {
			return mapBidWriteError(err, "create bid")
		}
		placed = bid

		event := BidPlacedEvent{
			BidID:     bid.ID,
			ItemID:    item.ID,
			SessionID: session.ID,
			BidderID:  bid.BidderID,
			Amount:    bid.Amount,
		}
		if previousWinner != nil {
			event.OutbidID = &previousWinner.ID
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBidPlaced,
			AggregateType: enums.AggregateSessionItem,
			AggregateID:   item.ID,
			Actor:         &outbox.ActorRef{UserID: input.Actor.UserID, Role: input.Actor.Role.String()},
			Data:          event,
			Version:       1,
		})
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (s *service) CurrentWinner(ctx context.Context, itemID uuid.UUID) (*models.Bid, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	bid, err := s.repo.FindWinningBid(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no winning bid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load winning bid")
	}
	return bid, nil
}

func (s *service) HighestAmount(ctx context.Context, itemID uuid.UUID) (*AmountView, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session item")
	}

	view := &AmountView{
		ItemID:     item.ID,
		StartPrice: item.StartPrice,
		StepPrice:  item.StepPrice,
		Highest:    item.StartPrice,
	}
	highest, err := s.repo.FindHighestLiveBid(ctx, itemID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load highest bid")
	}
	if highest != nil {
		view.HasBids = true
		if highest.Amount.GreaterThan(view.Highest) {
			view.Highest = highest.Amount
		}
	}
	view.NextMinimum = view.Highest.Add(item.StepPrice)
	return view, nil
}

func (s *service) ListBids(ctx context.Context, input ListInput) (*BidList, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	list, err := s.repo.ListBids(ctx, input.ItemID, pagination.Params{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bids")
	}
	return list, nil
}

func (s *service) CloseItem(ctx context.Context, input CloseItemInput) (*CloseResult, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Actor.Role.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	var result *CloseResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemForUpdate(ctx, input.ItemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session item not found")
			}
			return mapBidWriteError(err, "lock session item")
		}
		if item.Status != enums.SessionItemStatusActive {
			return pkgerrors.NewStateConflict("session item", item.Status, enums.SessionItemStatusActive)
		}

		winning, err := repo.FindWinningBid(ctx, item.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load winning bid")
		}

		// The reserve gates the sale only at close, never bid admission.
		sold := winning != nil &&
			(item.ReservePrice == nil || !winning.Amount.LessThan(*item.ReservePrice))

		status := enums.SessionItemStatusUnsold
		jewelryStatus := enums.JewelryStatusUnsold
		if sold {
			status = enums.SessionItemStatusSold
			jewelryStatus = enums.JewelryStatusSold
		}

		now := time.Now().UTC()
		if err := repo.UpdateItem(ctx, item.ID, map[string]any{
			"status":     status,
			"closed_at":  now,
			"updated_at": now,
		}); err != nil {
			return mapBidWriteError(err, "close session item")
		}
		if err := repo.UpdateJewelryItem(ctx, item.JewelryItemID, map[string]any{
			"status":     jewelryStatus,
			"updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update jewelry item")
		}

		result = &CloseResult{ItemID: item.ID, Status: status}
		event := LotClosedEvent{
			ItemID:    item.ID,
			SessionID: item.SessionID,
			Status:    status,
		}
		if sold {
			result.WinningBid = winning
			event.WinnerID = &winning.BidderID
			amount := winning.Amount
			event.Amount = &amount
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLotClosed,
			AggregateType: enums.AggregateSessionItem,
			AggregateID:   item.ID,
			Actor:         &outbox.ActorRef{UserID: input.Actor.UserID, Role: input.Actor.Role.String()},
			Data:          event,
			Version:       1,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mapBidWriteError classifies write failures under contention. The partial
// unique index on one WINNING bid per lot and Postgres serialization errors
// both surface as retryable concurrency conflicts.
func mapBidWriteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if dbpkg.IsUniqueViolation(err, "ux_bids_one_winning_per_item") || isSerializationFailure(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConcurrency, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	return strings.Contains(text, "40001") ||
		strings.Contains(text, "could not serialize") ||
		strings.Contains(text, "deadlock detected")
}
