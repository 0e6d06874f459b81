package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeSchedule holds the active transaction fee structure. Percentages apply to
// the winning amount; the buyer premium is clamped to [MinFee, MaxFee].
type FeeSchedule struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string          `gorm:"column:name;not null"`
	BuyerFeePercentage  decimal.Decimal `gorm:"column:buyer_fee_percentage;type:numeric(5,2);not null"`
	SellerFeePercentage decimal.Decimal `gorm:"column:seller_fee_percentage;type:numeric(5,2);not null"`
	MinFee              decimal.Decimal `gorm:"column:min_fee;type:numeric(12,2);not null"`
	MaxFee              decimal.Decimal `gorm:"column:max_fee;type:numeric(12,2);not null"`
	IsActive            bool            `gorm:"column:is_active;not null;default:false"`
	EffectiveAt         time.Time       `gorm:"column:effective_at;not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
