package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/internal/bidding"
	dbpkg "github.com/emeraldgavel/auctionhouse-backend/pkg/db"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/gateway"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
)

const (
	settlementCurrency = "USD"
	gatewayTimeout     = 30 * time.Second
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	gateway gateway.Gateway
	closer  lotCloser
	logg    *logger.Logger

	// dispatch runs gateway I/O after the settling transaction commits.
	// Swapped for a synchronous runner in tests.
	dispatch func(fn func())
}

// NewService builds a settlement service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, gw gateway.Gateway, closer lotCloser, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settlement repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if closer == nil {
		return nil, fmt.Errorf("lot closer required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		gateway:  gw,
		closer:   closer,
		logg:     logg,
		dispatch: func(fn func()) { go fn() },
	}, nil
}

func (s *service) SettleItem(ctx context.Context, input SettleItemInput) (*SettlementResult, error) {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return nil, err
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	var result *SettlementResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.settleItemTx(ctx, tx, input.Actor, input.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Created && result.Payout != nil {
		s.dispatchPayout(*result.Payout)
	}
	return result, nil
}

// settleItemTx books the payment and payout for a sold lot. The unique
// constraints on session_item_id make replays observe the first caller's rows
// instead of writing new ones.
func (s *service) settleItemTx(ctx context.Context, tx *gorm.DB, actor Actor, itemID uuid.UUID) (*SettlementResult, error) {
	repo := s.repo.WithTx(tx)

	item, err := repo.FindItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session item")
	}
	if item.Status != enums.SessionItemStatusSold {
		return nil, pkgerrors.NewStateConflict("session item", item.Status, enums.SessionItemStatusSold)
	}

	existingPayment, err := repo.FindPaymentByItem(ctx, item.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payment")
	}
	if existingPayment != nil {
		payout, err := repo.FindPayoutByItem(ctx, item.ID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payout")
		}
		return &SettlementResult{Payment: existingPayment, Payout: payout, Created: false}, nil
	}

	winning, err := repo.FindWinningBid(ctx, item.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "sold lot has no winning bid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load winning bid")
	}
	if item.JewelryItem == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session item missing jewelry record")
	}

	schedule, err := repo.FindActiveFeeSchedule(ctx)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fee schedule")
		}
		schedule = defaultFeeSchedule()
	}
	fees := ComputeFees(winning.Amount, schedule)

	payment := &models.Payment{
		SessionItemID: item.ID,
		BuyerID:       winning.BidderID,
		WinningAmount: fees.WinningAmount,
		BuyerPremium:  fees.BuyerPremium,
		Amount:        fees.BuyerTotal,
		Method:        enums.PaymentMethodCard,
		Status:        enums.PaymentStatusPending,
	}
	payment, err = repo.CreatePayment(ctx, payment)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_payments_session_item") {
			return s.observeExisting(ctx, repo, item.ID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}

	payout := &models.Payout{
		SessionItemID:    item.ID,
		SellerID:         item.JewelryItem.SellerID,
		WinningAmount:    fees.WinningAmount,
		SellerCommission: fees.SellerCommission,
		Amount:           fees.SellerNet,
		Status:           enums.PayoutStatusPending,
	}
	payout, err = repo.CreatePayout(ctx, payout)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_payouts_session_item") {
			return s.observeExisting(ctx, repo, item.ID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payout")
	}

	actorRef := &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPaymentRecorded,
		AggregateType: enums.AggregatePayment,
		AggregateID:   payment.ID,
		Actor:         actorRef,
		Data: PaymentRecordedEvent{
			PaymentID:     payment.ID,
			SessionItemID: item.ID,
			BuyerID:       payment.BuyerID,
			Amount:        payment.Amount,
			BuyerPremium:  payment.BuyerPremium,
		},
		Version: 1,
	}); err != nil {
		return nil, err
	}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPayoutRecorded,
		AggregateType: enums.AggregatePayout,
		AggregateID:   payout.ID,
		Actor:         actorRef,
		Data: PayoutRecordedEvent{
			PayoutID:         payout.ID,
			SessionItemID:    item.ID,
			SellerID:         payout.SellerID,
			Amount:           payout.Amount,
			SellerCommission: payout.SellerCommission,
		},
		Version: 1,
	}); err != nil {
		return nil, err
	}

	return &SettlementResult{Payment: payment, Payout: payout, Created: true}, nil
}

func (s *service) observeExisting(ctx context.Context, repo Repository, itemID uuid.UUID) (*SettlementResult, error) {
	payment, err := repo.FindPaymentByItem(ctx, itemID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing payment")
	}
	payout, err := repo.FindPayoutByItem(ctx, itemID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing payout")
	}
	return &SettlementResult{Payment: payment, Payout: payout, Created: false}, nil
}

func (s *service) SettleSession(ctx context.Context, input SettleSessionInput) (*SessionSettlementResult, error) {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return nil, err
	}
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	session, err := s.repo.FindSession(ctx, input.SessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if session.Status != enums.SessionStatusClosed {
		return nil, pkgerrors.NewStateConflict("session", session.Status, enums.SessionStatusClosed)
	}

	items, err := s.repo.ListItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list session items")
	}

	result := &SessionSettlementResult{SessionID: session.ID}
	var payouts []models.Payout
	for _, item := range items {
		status := item.Status
		if status == enums.SessionItemStatusActive {
			closed, err := s.closer.CloseItem(ctx, bidding.CloseItemInput{
				Actor:  bidding.Actor{UserID: input.Actor.UserID, Role: input.Actor.Role},
				ItemID: item.ID,
			})
			if err != nil {
				return nil, err
			}
			result.LotsClosed++
			status = closed.Status
		}

		switch status {
		case enums.SessionItemStatusSold:
			itemID := item.ID
			var settled *SettlementResult
			err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
				var txErr error
				settled, txErr = s.settleItemTx(ctx, tx, input.Actor, itemID)
				return txErr
			})
			if err != nil {
				return nil, err
			}
			result.LotsSettled++
			if settled.Created && settled.Payout != nil {
				payouts = append(payouts, *settled.Payout)
			}
		case enums.SessionItemStatusUnsold:
			result.LotsUnsold++
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now().UTC()
		if err := repo.UpdateSession(ctx, session.ID, map[string]any{
			"status":     enums.SessionStatusSettled,
			"settled_at": now,
			"updated_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark session settled")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSessionSettled,
			AggregateType: enums.AggregateSession,
			AggregateID:   session.ID,
			Actor:         &outbox.ActorRef{UserID: input.Actor.UserID, Role: input.Actor.Role.String()},
			Data: SessionSettledEvent{
				SessionID:   session.ID,
				Code:        session.Code,
				LotsSettled: result.LotsSettled,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	// Gateway transfers go out only after every settlement row is committed.
	for _, payout := range payouts {
		s.dispatchPayout(payout)
	}
	return result, nil
}

func (s *service) PayPayment(ctx context.Context, input PayInput) (*models.Payment, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PaymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if input.SourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source required")
	}

	var payment *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindPayment(ctx, input.PaymentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		if loaded.BuyerID != input.Actor.UserID && !input.Actor.Role.AtLeast(enums.UserRoleStaff) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "not the paying buyer")
		}
		if loaded.Status != enums.PaymentStatusPending && loaded.Status != enums.PaymentStatusFailed {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("payment is %s, only PENDING or FAILED payments can be charged", loaded.Status),
			).WithDetails(map[string]any{"current": loaded.Status.String()})
		}

		updates := map[string]any{
			"status":     enums.PaymentStatusProcessing,
			"updated_at": time.Now().UTC(),
		}
		if input.Method != nil {
			updates["method"] = *input.Method
		}
		if err := repo.UpdatePayment(ctx, loaded.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment processing")
		}
		loaded.Status = enums.PaymentStatusProcessing
		payment = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	charge := gateway.ChargeParams{
		AmountCents:    amountCents(payment.Amount),
		Currency:       settlementCurrency,
		SourceID:       input.SourceID,
		CustomerID:     payment.BuyerID.String(),
		ReferenceID:    payment.ID.String(),
		Note:           "auction lot payment",
		IdempotencyKey: idempotencyKey("pay", payment.ID),
	}
	paymentID := payment.ID
	s.dispatch(func() {
		callCtx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		res, gwErr := s.gateway.ProcessPayment(callCtx, charge)
		apply := ApplyResultInput{Kind: ObligationPayment, ID: paymentID, Failure: gwErr}
		if gwErr == nil && res != nil {
			apply.TransactionID = res.TransactionID
		}
		if err := s.ApplyGatewayResult(callCtx, apply); err != nil {
			s.logError(callCtx, "apply payment gateway result", err)
		}
	})
	return payment, nil
}

func (s *service) RefundPayment(ctx context.Context, input RefundInput) (*models.Refund, error) {
	if err := requireRole(input.Actor, enums.UserRoleStaff); err != nil {
		return nil, err
	}
	if input.PaymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive")
	}

	var (
		refund  *models.Refund
		payment *models.Payment
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindPayment(ctx, input.PaymentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		if loaded.Status != enums.PaymentStatusCompleted {
			return pkgerrors.NewStateConflict("payment", loaded.Status, enums.PaymentStatusCompleted)
		}
		if input.Amount.GreaterThan(loaded.Amount) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "refund exceeds payment amount").
				WithDetails(map[string]any{"payment_amount": loaded.Amount.StringFixed(2)})
		}
		if loaded.TransactionID == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "completed payment missing transaction id")
		}

		created, err := repo.CreateRefund(ctx, &models.Refund{
			PaymentID: loaded.ID,
			Amount:    input.Amount,
			Reason:    input.Reason,
			Status:    enums.RefundStatusPending,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
		}
		refund = created
		payment = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	params := gateway.RefundParams{
		PaymentID:      *payment.TransactionID,
		AmountCents:    amountCents(refund.Amount),
		Currency:       settlementCurrency,
		IdempotencyKey: idempotencyKey("refund", refund.ID),
	}
	if input.Reason != nil {
		params.Reason = *input.Reason
	}
	refundID := refund.ID
	s.dispatch(func() {
		callCtx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		res, gwErr := s.gateway.ProcessRefund(callCtx, params)
		apply := ApplyResultInput{Kind: ObligationRefund, ID: refundID, Failure: gwErr}
		if gwErr == nil && res != nil {
			apply.TransactionID = res.TransactionID
		}
		if err := s.ApplyGatewayResult(callCtx, apply); err != nil {
			s.logError(callCtx, "apply refund gateway result", err)
		}
	})
	return refund, nil
}

// ApplyGatewayResult records a gateway outcome. Both success and failure are
// terminal-but-recorded; the auction state that triggered the call is never
// rolled back.
func (s *service) ApplyGatewayResult(ctx context.Context, input ApplyResultInput) error {
	if input.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "settlement row id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now().UTC()

		var (
			status        string
			transactionID *string
		)
		if input.Failure == nil {
			transactionID = &input.TransactionID
		}

		switch input.Kind {
		case ObligationPayment:
			updates := map[string]any{"resolved_at": now, "updated_at": now}
			if input.Failure == nil {
				status = enums.PaymentStatusCompleted.String()
				updates["status"] = enums.PaymentStatusCompleted
				updates["transaction_id"] = input.TransactionID
			} else {
				status = enums.PaymentStatusFailed.String()
				updates["status"] = enums.PaymentStatusFailed
				updates["failure_reason"] = input.Failure.Error()
			}
			if err := repo.UpdatePayment(ctx, input.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve payment")
			}
		case ObligationPayout:
			updates := map[string]any{"resolved_at": now, "updated_at": now}
			if input.Failure == nil {
				status = enums.PayoutStatusCompleted.String()
				updates["status"] = enums.PayoutStatusCompleted
				updates["transaction_id"] = input.TransactionID
			} else {
				status = enums.PayoutStatusFailed.String()
				updates["status"] = enums.PayoutStatusFailed
				updates["failure_reason"] = input.Failure.Error()
			}
			if err := repo.UpdatePayout(ctx, input.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve payout")
			}
		case ObligationRefund:
			updates := map[string]any{"resolved_at": now, "updated_at": now}
			if input.Failure == nil {
				status = enums.RefundStatusCompleted.String()
				updates["status"] = enums.RefundStatusCompleted
				updates["transaction_id"] = input.TransactionID
			} else {
				status = enums.RefundStatusFailed.String()
				updates["status"] = enums.RefundStatusFailed
			}
			if err := repo.UpdateRefund(ctx, input.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve refund")
			}
			if input.Failure == nil {
				if err := s.flipRefundedPayment(ctx, repo, input.ID, now); err != nil {
					return err
				}
			}
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown settlement kind")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentResolved,
			AggregateType: enums.AggregatePayment,
			AggregateID:   input.ID,
			Data: PaymentResolvedEvent{
				Kind:          input.Kind,
				ID:            input.ID,
				Status:        status,
				TransactionID: transactionID,
			},
			Version: 1,
		})
	})
}

// flipRefundedPayment marks the parent payment REFUNDED once a full-amount
// refund completes.
func (s *service) flipRefundedPayment(ctx context.Context, repo Repository, refundID uuid.UUID, now time.Time) error {
	refund, err := repo.FindRefund(ctx, refundID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
	}
	payment, err := repo.FindPayment(ctx, refund.PaymentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refunded payment")
	}
	if !refund.Amount.Equal(payment.Amount) {
		return nil
	}
	return repo.UpdatePayment(ctx, payment.ID, map[string]any{
		"status":     enums.PaymentStatusRefunded,
		"updated_at": now,
	})
}

func (s *service) GetPayment(ctx context.Context, actor Actor, id uuid.UUID) (*models.Payment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	payment, err := s.repo.FindPayment(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.BuyerID != actor.UserID && !actor.Role.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the paying buyer")
	}
	return payment, nil
}

func (s *service) GetPayout(ctx context.Context, actor Actor, id uuid.UUID) (*models.Payout, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout id required")
	}
	payout, err := s.repo.FindPayout(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payout not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payout")
	}
	if payout.SellerID != actor.UserID && !actor.Role.AtLeast(enums.UserRoleStaff) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the receiving seller")
	}
	return payout, nil
}

func (s *service) dispatchPayout(payout models.Payout) {
	params := gateway.PayoutParams{
		AmountCents:    amountCents(payout.Amount),
		Currency:       settlementCurrency,
		SellerID:       payout.SellerID.String(),
		ReferenceID:    payout.ID.String(),
		IdempotencyKey: idempotencyKey("payout", payout.ID),
	}
	payoutID := payout.ID
	s.dispatch(func() {
		callCtx, cancel := context.WithTimeout(context.Background(), gatewayTimeout)
		defer cancel()
		res, gwErr := s.gateway.ProcessPayout(callCtx, params)
		apply := ApplyResultInput{Kind: ObligationPayout, ID: payoutID, Failure: gwErr}
		if gwErr == nil && res != nil {
			apply.TransactionID = res.TransactionID
		}
		if err := s.ApplyGatewayResult(callCtx, apply); err != nil {
			s.logError(callCtx, "apply payout gateway result", err)
		}
	})
}

func (s *service) logError(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}

func defaultFeeSchedule() *models.FeeSchedule {
	return &models.FeeSchedule{
		Name:                "standard",
		BuyerFeePercentage:  decimal.NewFromInt(10),
		SellerFeePercentage: decimal.NewFromInt(5),
		MinFee:              decimal.NewFromFloat(1.00),
		MaxFee:              decimal.NewFromFloat(1000.00),
	}
}

// idempotencyKey is deterministic per settlement row so gateway retries
// collapse to one operation.
func idempotencyKey(prefix string, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s", prefix, id)
}

func amountCents(amount decimal.Decimal) int64 {
	return amount.Mul(oneHundred).Round(0).IntPart()
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
