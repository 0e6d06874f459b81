package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Payment is the buyer's obligation for a sold lot: winning amount plus buyer
// premium. One payment per lot, enforced by a unique constraint so concurrent
// settlement attempts collapse to a single row.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionItemID uuid.UUID           `gorm:"column:session_item_id;type:uuid;not null;uniqueIndex:ux_payments_session_item"`
	BuyerID       uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null;index"`
	WinningAmount decimal.Decimal     `gorm:"column:winning_amount;type:numeric(12,2);not null"`
	BuyerPremium  decimal.Decimal     `gorm:"column:buyer_premium;type:numeric(12,2);not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null;default:'CARD'"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TransactionID *string             `gorm:"column:transaction_id"`
	FailureReason *string             `gorm:"column:failure_reason"`
	ResolvedAt    *time.Time          `gorm:"column:resolved_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
