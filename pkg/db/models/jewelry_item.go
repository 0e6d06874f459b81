package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/types"
)

// JewelryItem is a consigned piece. Status only advances through the
// sell-request workflow; a SOLD item is immutable.
type JewelryItem struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string              `gorm:"column:code;type:text;not null;uniqueIndex:ux_jewelry_items_code"`
	SellerID       uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index"`
	Title          string              `gorm:"column:title;not null"`
	Description    string              `gorm:"column:description;not null"`
	Attributes     types.JSONMap       `gorm:"column:attributes;type:jsonb;serializer:json"`
	WeightGrams    *decimal.Decimal    `gorm:"column:weight_grams;type:numeric(10,3)"`
	Photos         types.StringList    `gorm:"column:photos;type:jsonb;serializer:json"`
	Status         enums.JewelryStatus `gorm:"column:status;type:text;not null;default:'PENDING_APPRAISAL'"`
	EstimatedPrice *decimal.Decimal    `gorm:"column:estimated_price;type:numeric(12,2)"`
	ReservePrice   *decimal.Decimal    `gorm:"column:reserve_price;type:numeric(12,2)"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
