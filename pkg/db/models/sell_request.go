package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// SellRequest drives a jewelry consignment through appraisal and approval.
// Status moves monotonically along the happy path; REJECTED is terminal.
type SellRequest struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID      uuid.UUID               `gorm:"column:seller_id;type:uuid;not null;index"`
	JewelryItemID uuid.UUID               `gorm:"column:jewelry_item_id;type:uuid;not null;index"`
	Status        enums.SellRequestStatus `gorm:"column:status;type:text;not null;default:'SUBMITTED'"`
	SellerNotes   *string                 `gorm:"column:seller_notes"`
	StaffNotes    *string                 `gorm:"column:staff_notes"`
	ManagerNotes  *string                 `gorm:"column:manager_notes"`
	RejectReason  *string                 `gorm:"column:reject_reason"`

	SubmittedAt       time.Time  `gorm:"column:submitted_at;not null"`
	PrelimAppraisedAt *time.Time `gorm:"column:prelim_appraised_at"`
	ReceivedAt        *time.Time `gorm:"column:received_at"`
	FinalAppraisedAt  *time.Time `gorm:"column:final_appraised_at"`
	ApprovedAt        *time.Time `gorm:"column:approved_at"`
	AcceptedAt        *time.Time `gorm:"column:accepted_at"`
	RejectedAt        *time.Time `gorm:"column:rejected_at"`

	JewelryItem *JewelryItem `gorm:"foreignKey:JewelryItemID"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
