package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

// Actor identifies the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// CreateSessionInput configures a new DRAFT session.
type CreateSessionInput struct {
	Actor             Actor
	Name              string
	Description       *string
	StartTime         time.Time
	EndTime           time.Time
	DefaultStepPrice  *decimal.Decimal
	RequireEnrollment *bool
	AssignedStaffID   *uuid.UUID
}

// AddItemInput places a consigned item into a session as the next lot.
type AddItemInput struct {
	Actor         Actor
	SessionID     uuid.UUID
	SellRequestID uuid.UUID
	StartPrice    decimal.Decimal
	StepPrice     *decimal.Decimal
	ReservePrice  *decimal.Decimal
}

// WithdrawItemInput pulls a lot that has not started bidding.
type WithdrawItemInput struct {
	Actor  Actor
	ItemID uuid.UUID
}

// TransitionInput moves a session through its lifecycle.
type TransitionInput struct {
	Actor     Actor
	SessionID uuid.UUID
}

// ListInput pages through sessions.
type ListInput struct {
	Actor  Actor
	Limit  int
	Cursor string
	Status *enums.SessionStatus
}

// SessionFilters narrows repository list queries.
type SessionFilters struct {
	Status *enums.SessionStatus
}

// SessionList is one page of sessions plus the cursor for the next.
type SessionList struct {
	Sessions   []models.AuctionSession `json:"sessions"`
	NextCursor string                  `json:"next_cursor,omitempty"`
	HasMore    bool                    `json:"has_more"`
}

// SessionDetail bundles a session with its lots in lot order.
type SessionDetail struct {
	Session models.AuctionSession `json:"session"`
	Items   []models.SessionItem  `json:"items"`
}

// SessionScheduledEvent is emitted when a session is published for enrollment.
type SessionScheduledEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	LotCount  int64     `json:"lot_count"`
}

// SessionOpenedEvent is emitted when bidding opens.
type SessionOpenedEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Code      string    `json:"code"`
	OpenedAt  time.Time `json:"opened_at"`
}

// SessionClosedEvent is emitted when bidding closes.
type SessionClosedEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Code      string    `json:"code"`
	ClosedAt  time.Time `json:"closed_at"`
}
