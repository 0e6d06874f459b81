package bidding

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Repository defines persistence operations for bids and lot resolution.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error)
	FindItemForUpdate(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error)
	FindSession(ctx context.Context, sessionID uuid.UUID) (*models.AuctionSession, error)
	FindApprovedEnrollment(ctx context.Context, sessionID, userID uuid.UUID) (*models.Enrollment, error)
	FindHighestLiveBid(ctx context.Context, itemID uuid.UUID) (*models.Bid, error)
	FindWinningBid(ctx context.Context, itemID uuid.UUID) (*models.Bid, error)
	CreateBid(ctx context.Context, bid *models.Bid) (*models.Bid, error)
	MarkOutbid(ctx context.Context, itemID uuid.UUID) error
	ListBids(ctx context.Context, itemID uuid.UUID, params pagination.Params) (*BidList, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	UpdateJewelryItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service defines the bid admission and lot resolution operations.
type Service interface {
	PlaceBid(ctx context.Context, input PlaceBidInput) (*models.Bid, error)
	CurrentWinner(ctx context.Context, itemID uuid.UUID) (*models.Bid, error)
	HighestAmount(ctx context.Context, itemID uuid.UUID) (*AmountView, error)
	ListBids(ctx context.Context, input ListInput) (*BidList, error)
	CloseItem(ctx context.Context, input CloseItemInput) (*CloseResult, error)
}
