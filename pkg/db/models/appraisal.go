package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Appraisal records one valuation pass over a sell request.
type Appraisal struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellRequestID  uuid.UUID           `gorm:"column:sell_request_id;type:uuid;not null;index"`
	AppraiserID    uuid.UUID           `gorm:"column:appraiser_id;type:uuid;not null"`
	Type           enums.AppraisalType `gorm:"column:type;type:text;not null"`
	EstimatedValue decimal.Decimal     `gorm:"column:estimated_value;type:numeric(12,2);not null"`
	Notes          *string             `gorm:"column:notes"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
