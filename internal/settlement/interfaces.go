package settlement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/internal/bidding"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
)

// Repository defines persistence operations for settlement tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error)
	FindSession(ctx context.Context, sessionID uuid.UUID) (*models.AuctionSession, error)
	FindWinningBid(ctx context.Context, itemID uuid.UUID) (*models.Bid, error)
	FindActiveFeeSchedule(ctx context.Context) (*models.FeeSchedule, error)
	ListItemsBySession(ctx context.Context, sessionID uuid.UUID) ([]models.SessionItem, error)
	UpdateSession(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindPaymentByItem(ctx context.Context, itemID uuid.UUID) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreatePayout(ctx context.Context, payout *models.Payout) (*models.Payout, error)
	FindPayout(ctx context.Context, id uuid.UUID) (*models.Payout, error)
	FindPayoutByItem(ctx context.Context, itemID uuid.UUID) (*models.Payout, error)
	UpdatePayout(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateRefund(ctx context.Context, refund *models.Refund) (*models.Refund, error)
	FindRefund(ctx context.Context, id uuid.UUID) (*models.Refund, error)
	UpdateRefund(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service defines settlement operations for sold lots and closed sessions.
type Service interface {
	SettleItem(ctx context.Context, input SettleItemInput) (*SettlementResult, error)
	SettleSession(ctx context.Context, input SettleSessionInput) (*SessionSettlementResult, error)
	PayPayment(ctx context.Context, input PayInput) (*models.Payment, error)
	RefundPayment(ctx context.Context, input RefundInput) (*models.Refund, error)
	ApplyGatewayResult(ctx context.Context, input ApplyResultInput) error
	GetPayment(ctx context.Context, actor Actor, id uuid.UUID) (*models.Payment, error)
	GetPayout(ctx context.Context, actor Actor, id uuid.UUID) (*models.Payout, error)
}

// ObligationKind distinguishes which settlement row a gateway result resolves.
type ObligationKind string

const (
	ObligationPayment ObligationKind = "payment"
	ObligationPayout  ObligationKind = "payout"
	ObligationRefund  ObligationKind = "refund"
)

// lotCloser resolves a still-active lot during session settlement.
// Satisfied by the bidding service.
type lotCloser interface {
	CloseItem(ctx context.Context, input bidding.CloseItemInput) (*bidding.CloseResult, error)
}
