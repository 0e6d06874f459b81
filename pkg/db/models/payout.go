package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Payout is the seller's proceeds for a sold lot: winning amount minus seller
// commission. One payout per lot.
type Payout struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionItemID    uuid.UUID          `gorm:"column:session_item_id;type:uuid;not null;uniqueIndex:ux_payouts_session_item"`
	SellerID         uuid.UUID          `gorm:"column:seller_id;type:uuid;not null;index"`
	WinningAmount    decimal.Decimal    `gorm:"column:winning_amount;type:numeric(12,2);not null"`
	SellerCommission decimal.Decimal    `gorm:"column:seller_commission;type:numeric(12,2);not null"`
	Amount           decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	Status           enums.PayoutStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TransactionID    *string            `gorm:"column:transaction_id"`
	FailureReason    *string            `gorm:"column:failure_reason"`
	ResolvedAt       *time.Time         `gorm:"column:resolved_at"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
