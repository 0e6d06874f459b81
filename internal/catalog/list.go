package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// ItemFilters describe the supported filter knobs for the catalog browse endpoint.
type ItemFilters struct {
	Status   *enums.JewelryStatus `json:"status,omitempty"`
	SellerID *uuid.UUID           `json:"seller_id,omitempty"`
	PriceMin *decimal.Decimal     `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal     `json:"price_max,omitempty"`
	Query    string               `json:"q,omitempty"`
}

// ListItemsInput captures the inputs needed to paginate and filter jewelry items.
type ListItemsInput struct {
	Filters    ItemFilters
	Pagination pagination.Params
}

// ItemList is one page of items with the keyset cursor for the next page.
type ItemList struct {
	Items      []models.JewelryItem `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
	HasMore    bool                 `json:"has_more"`
}
