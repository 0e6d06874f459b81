package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Repository defines persistence operations for auction sessions and lots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSession(ctx context.Context, session *models.AuctionSession) (*models.AuctionSession, error)
	FindSession(ctx context.Context, id uuid.UUID) (*models.AuctionSession, error)
	FindSessionForUpdate(ctx context.Context, id uuid.UUID) (*models.AuctionSession, error)
	ListSessions(ctx context.Context, params pagination.Params, filters SessionFilters) (*SessionList, error)
	UpdateSession(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindScheduledSessionsDue(ctx context.Context, now time.Time) ([]models.AuctionSession, error)
	FindOpenSessionsPastEnd(ctx context.Context, now time.Time) ([]models.AuctionSession, error)

	CountItems(ctx context.Context, sessionID uuid.UUID) (int64, error)
	MaxLotNumber(ctx context.Context, sessionID uuid.UUID) (int, error)
	CreateSessionItem(ctx context.Context, item *models.SessionItem) (*models.SessionItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.SessionItem, error)
	ListItems(ctx context.Context, sessionID uuid.UUID) ([]models.SessionItem, error)
	ListItemsByStatus(ctx context.Context, sessionID uuid.UUID, status enums.SessionItemStatus) ([]models.SessionItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	UpdateItemsStatus(ctx context.Context, sessionID uuid.UUID, from, to enums.SessionItemStatus) error

	FindSellRequest(ctx context.Context, id uuid.UUID) (*models.SellRequest, error)
	UpdateSellRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateJewelryItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service defines session lifecycle and lot assembly operations.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*models.AuctionSession, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.SessionItem, error)
	WithdrawItem(ctx context.Context, input WithdrawItemInput) error
	Schedule(ctx context.Context, input TransitionInput) error
	Open(ctx context.Context, input TransitionInput) error
	Pause(ctx context.Context, input TransitionInput) error
	Resume(ctx context.Context, input TransitionInput) error
	Close(ctx context.Context, input TransitionInput) error
	Cancel(ctx context.Context, input TransitionInput) error
	Get(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error)
	List(ctx context.Context, input ListInput) (*SessionList, error)
}
