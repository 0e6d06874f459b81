package enrollments

import (
	"github.com/google/uuid"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Actor identifies the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// EnrollInput registers the caller to bid in a session.
type EnrollInput struct {
	Actor     Actor
	SessionID uuid.UUID
}

// DecisionInput approves or rejects a pending enrollment.
type DecisionInput struct {
	Actor        Actor
	EnrollmentID uuid.UUID
}

// CancelInput withdraws the caller's own enrollment.
type CancelInput struct {
	Actor        Actor
	EnrollmentID uuid.UUID
}

// ListInput pages through a session's enrollments.
type ListInput struct {
	Actor     Actor
	SessionID uuid.UUID
	Limit     int
	Cursor    string
	Status    *enums.EnrollmentStatus
}

// EnrollmentFilters narrows repository list queries.
type EnrollmentFilters struct {
	Status *enums.EnrollmentStatus
}

// EnrollmentList is one page of enrollments plus the cursor for the next.
type EnrollmentList struct {
	Enrollments []models.Enrollment `json:"enrollments"`
	NextCursor  string              `json:"next_cursor,omitempty"`
	HasMore     bool                `json:"has_more"`
}
