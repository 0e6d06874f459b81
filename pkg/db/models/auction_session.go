package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// AuctionSession groups lots under one timed bidding window.
type AuctionSession struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string              `gorm:"column:code;type:text;not null;uniqueIndex:ux_auction_sessions_code"`
	Name              string              `gorm:"column:name;not null"`
	Description       *string             `gorm:"column:description"`
	Status            enums.SessionStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	StartTime         time.Time           `gorm:"column:start_time;not null"`
	EndTime           time.Time           `gorm:"column:end_time;not null"`
	AssignedStaffID   *uuid.UUID          `gorm:"column:assigned_staff_id;type:uuid"`
	DefaultStepPrice  decimal.Decimal     `gorm:"column:default_step_price;type:numeric(12,2);not null;default:1"`
	RequireEnrollment bool                `gorm:"column:require_enrollment;not null;default:true"`
	OpenedAt          *time.Time          `gorm:"column:opened_at"`
	ClosedAt          *time.Time          `gorm:"column:closed_at"`
	SettledAt         *time.Time          `gorm:"column:settled_at"`
	CanceledAt        *time.Time          `gorm:"column:canceled_at"`

	Items     []SessionItem `gorm:"foreignKey:SessionID"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
