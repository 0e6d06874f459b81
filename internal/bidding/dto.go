package bidding

import (
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

// PlaceBidInput is one bid attempt on a lot.
type PlaceBidInput struct {
	Actor  Actor
	ItemID uuid.UUID
	Amount decimal.Decimal
}

// CloseItemInput resolves a lot at the end of bidding.
type CloseItemInput struct {
	Actor  Actor
	ItemID uuid.UUID
}

// CloseResult reports the lot's resolution.
type CloseResult struct {
	ItemID     uuid.UUID               `json:"item_id"`
	Status     enums.SessionItemStatus `json:"status"`
	WinningBid *models.Bid             `json:"winning_bid,omitempty"`
}

// ListInput pages through a lot's bid history.
type ListInput struct {
	Actor  Actor
	ItemID uuid.UUID
	Limit  int
	Cursor string
}

// BidList is one page of bids plus the cursor for the next.
type BidList struct {
	Bids       []models.Bid `json:"bids"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

// AmountView reports the latest committed price state of a lot.
type AmountView struct {
	ItemID      uuid.UUID       `json:"item_id"`
	StartPrice  decimal.Decimal `json:"start_price"`
	StepPrice   decimal.Decimal `json:"step_price"`
	Highest     decimal.Decimal `json:"highest"`
	NextMinimum decimal.Decimal `json:"next_minimum"`
	HasBids     bool            `json:"has_bids"`
}

// BidPlacedEvent is emitted whenever a bid is admitted.
type BidPlacedEvent struct {
	BidID     uuid.UUID       `json:"bid_id"`
	ItemID    uuid.UUID       `json:"item_id"`
	SessionID uuid.UUID       `json:"session_id"`
	BidderID  uuid.UUID       `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	OutbidID  *uuid.UUID      `json:"outbid_id,omitempty"`
}

// LotClosedEvent is emitted when a lot resolves to SOLD or UNSOLD.
type LotClosedEvent struct {
	ItemID    uuid.UUID               `json:"item_id"`
	SessionID uuid.UUID               `json:"session_id"`
	Status    enums.SessionItemStatus `json:"status"`
	WinnerID  *uuid.UUID              `json:"winner_id,omitempty"`
	Amount    *decimal.Decimal        `json:"amount,omitempty"`
}
