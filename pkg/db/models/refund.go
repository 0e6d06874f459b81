package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Refund reverses part or all of a completed payment.
type Refund struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentID     uuid.UUID          `gorm:"column:payment_id;type:uuid;not null;index"`
	Amount        decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	Reason        *string            `gorm:"column:reason"`
	Status        enums.RefundStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TransactionID *string            `gorm:"column:transaction_id"`
	ResolvedAt    *time.Time         `gorm:"column:resolved_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
