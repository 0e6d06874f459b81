package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Enrollment registers a member to bid in one session. Bidding requires an
// APPROVED enrollment.
type Enrollment struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID  uuid.UUID              `gorm:"column:session_id;type:uuid;not null;uniqueIndex:ux_enrollments_session_user,priority:1"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_enrollments_session_user,priority:2"`
	Status     enums.EnrollmentStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	DecidedBy  *uuid.UUID             `gorm:"column:decided_by;type:uuid"`
	DecidedAt  *time.Time             `gorm:"column:decided_at"`
	CanceledAt *time.Time             `gorm:"column:canceled_at"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
