package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Actor identifies the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// SettleItemInput settles one SOLD lot.
type SettleItemInput struct {
	Actor  Actor
	ItemID uuid.UUID
}

// SettleSessionInput settles every lot of a CLOSED session.
type SettleSessionInput struct {
	Actor     Actor
	SessionID uuid.UUID
}

// PayInput triggers the buyer charge for a pending payment.
type PayInput struct {
	Actor     Actor
	PaymentID uuid.UUID
	SourceID  string
	Method    *enums.PaymentMethod
}

// RefundInput reverses part or all of a completed payment.
type RefundInput struct {
	Actor     Actor
	PaymentID uuid.UUID
	Amount    decimal.Decimal
	Reason    *string
}

// ApplyResultInput records a gateway outcome on a settlement row.
type ApplyResultInput struct {
	Kind          ObligationKind
	ID            uuid.UUID
	TransactionID string
	Failure       error
}

// SettlementResult reports the payment and payout rows for one lot. Replays
// return the rows created by the first call.
type SettlementResult struct {
	Payment *models.Payment `json:"payment"`
	Payout  *models.Payout  `json:"payout"`
	Created bool            `json:"created"`
}

// SessionSettlementResult summarizes a full-session settlement pass.
type SessionSettlementResult struct {
	SessionID   uuid.UUID `json:"session_id"`
	LotsClosed  int       `json:"lots_closed"`
	LotsSettled int       `json:"lots_settled"`
	LotsUnsold  int       `json:"lots_unsold"`
}

// PaymentRecordedEvent is emitted when settlement books a buyer obligation.
type PaymentRecordedEvent struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	SessionItemID uuid.UUID       `json:"session_item_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	Amount        decimal.Decimal `json:"amount"`
	BuyerPremium  decimal.Decimal `json:"buyer_premium"`
}

// PayoutRecordedEvent is emitted when settlement books a seller payout.
type PayoutRecordedEvent struct {
	PayoutID         uuid.UUID       `json:"payout_id"`
	SessionItemID    uuid.UUID       `json:"session_item_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	Amount           decimal.Decimal `json:"amount"`
	SellerCommission decimal.Decimal `json:"seller_commission"`
}

// PaymentResolvedEvent is emitted when a gateway outcome lands.
type PaymentResolvedEvent struct {
	Kind          ObligationKind `json:"kind"`
	ID            uuid.UUID      `json:"id"`
	Status        string         `json:"status"`
	TransactionID *string        `json:"transaction_id,omitempty"`
}

// SessionSettledEvent is emitted when a session finishes settlement.
type SessionSettledEvent struct {
	SessionID   uuid.UUID `json:"session_id"`
	Code        string    `json:"code"`
	LotsSettled int       `json:"lots_settled"`
}
