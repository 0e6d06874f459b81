package sellrequests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/types"
)

// Actor identifies the authenticated caller of a workflow operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ItemPayload describes the consigned piece at submission time.
type ItemPayload struct {
	Code        string
	Title       string
	Description string
	Attributes  types.JSONMap
	WeightGrams *decimal.Decimal
	Photos      []string
}

// SubmitInput opens a new consignment request.
type SubmitInput struct {
	Actor       Actor
	Item        ItemPayload
	SellerNotes *string
}

// TransitionInput advances a request one stage with no extra data.
type TransitionInput struct {
	Actor     Actor
	RequestID uuid.UUID
	Notes     *string
}

// AppraiseInput records a valuation pass while advancing the request.
type AppraiseInput struct {
	Actor          Actor
	RequestID      uuid.UUID
	EstimatedValue decimal.Decimal
	ReservePrice   *decimal.Decimal
	Notes          *string
}

// ApproveInput carries the manager's sign-off.
type ApproveInput struct {
	Actor     Actor
	RequestID uuid.UUID
	Notes     *string
}

// RejectInput terminates a request from any non-terminal stage.
type RejectInput struct {
	Actor     Actor
	RequestID uuid.UUID
	Reason    string
}

// GetInput fetches one request. Members only see their own.
type GetInput struct {
	Actor     Actor
	RequestID uuid.UUID
}

// ListInput pages through requests. SellerID is forced to the caller for
// members; staff may filter freely.
type ListInput struct {
	Actor  Actor
	Limit  int
	Cursor string
	Status *enums.SellRequestStatus
	Seller *uuid.UUID
}

// SellRequestFilters narrows repository list queries.
type SellRequestFilters struct {
	SellerID *uuid.UUID
	Status   *enums.SellRequestStatus
}

// SellRequestList is one page of requests plus the cursor for the next.
type SellRequestList struct {
	Requests   []models.SellRequest `json:"requests"`
	NextCursor string               `json:"next_cursor,omitempty"`
	HasMore    bool                 `json:"has_more"`
}

// SellRequestDetail bundles a request with its appraisal history.
type SellRequestDetail struct {
	Request    models.SellRequest `json:"request"`
	Appraisals []models.Appraisal `json:"appraisals"`
}

// SellRequestSubmittedEvent is emitted when a consignment enters the pipeline.
type SellRequestSubmittedEvent struct {
	RequestID     uuid.UUID `json:"request_id"`
	SellerID      uuid.UUID `json:"seller_id"`
	JewelryItemID uuid.UUID `json:"jewelry_item_id"`
	JewelryCode   string    `json:"jewelry_code"`
	Title         string    `json:"title"`
}

// SellRequestTransitionedEvent is emitted on every forward stage change.
type SellRequestTransitionedEvent struct {
	RequestID     uuid.UUID               `json:"request_id"`
	SellerID      uuid.UUID               `json:"seller_id"`
	JewelryItemID uuid.UUID               `json:"jewelry_item_id"`
	FromStatus    enums.SellRequestStatus `json:"from_status"`
	ToStatus      enums.SellRequestStatus `json:"to_status"`
}

// SellRequestRejectedEvent is emitted when a consignment is turned away.
type SellRequestRejectedEvent struct {
	RequestID     uuid.UUID               `json:"request_id"`
	SellerID      uuid.UUID               `json:"seller_id"`
	JewelryItemID uuid.UUID               `json:"jewelry_item_id"`
	FromStatus    enums.SellRequestStatus `json:"from_status"`
	Reason        string                  `json:"reason"`
}
