package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Bid is one accepted or superseded offer on a lot. A partial unique index on
// (session_item_id) WHERE status = 'WINNING' lets the database reject a second
// concurrent winner.
type Bid struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionItemID uuid.UUID       `gorm:"column:session_item_id;type:uuid;not null;index"`
	BidderID      uuid.UUID       `gorm:"column:bidder_id;type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        enums.BidStatus `gorm:"column:status;type:text;not null;default:'VALID'"`
	PlacedAt      time.Time       `gorm:"column:placed_at;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
