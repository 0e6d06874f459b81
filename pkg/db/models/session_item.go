package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// SessionItem is one lot: a jewelry item positioned within a session with its
// own bidding sequence. Lot numbers are contiguous from 1 within a session.
type SessionItem struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID     uuid.UUID               `gorm:"column:session_id;type:uuid;not null;uniqueIndex:ux_session_items_lot,priority:1;uniqueIndex:ux_session_items_jewelry,priority:1"`
	JewelryItemID uuid.UUID               `gorm:"column:jewelry_item_id;type:uuid;not null;uniqueIndex:ux_session_items_jewelry,priority:2"`
	LotNumber     int                     `gorm:"column:lot_number;not null;uniqueIndex:ux_session_items_lot,priority:2"`
	Status        enums.SessionItemStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	StartPrice    decimal.Decimal         `gorm:"column:start_price;type:numeric(12,2);not null"`
	StepPrice     decimal.Decimal         `gorm:"column:step_price;type:numeric(12,2);not null"`
	ReservePrice  *decimal.Decimal        `gorm:"column:reserve_price;type:numeric(12,2)"`
	ClosedAt      *time.Time              `gorm:"column:closed_at"`

	Session     *AuctionSession `gorm:"foreignKey:SessionID"`
	JewelryItem *JewelryItem    `gorm:"foreignKey:JewelryItemID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
