package sellrequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Repository defines persistence operations for consignment tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateJewelryItem(ctx context.Context, item *models.JewelryItem) (*models.JewelryItem, error)
	CreateSellRequest(ctx context.Context, request *models.SellRequest) (*models.SellRequest, error)
	CreateAppraisal(ctx context.Context, appraisal *models.Appraisal) (*models.Appraisal, error)
	FindSellRequest(ctx context.Context, id uuid.UUID) (*models.SellRequest, error)
	FindOpenRequestBySellerAndCode(ctx context.Context, sellerID uuid.UUID, code string) (*models.SellRequest, error)
	ListSellRequests(ctx context.Context, params pagination.Params, filters SellRequestFilters) (*SellRequestList, error)
	ListAppraisals(ctx context.Context, sellRequestID uuid.UUID) ([]models.Appraisal, error)
	UpdateSellRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateJewelryItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service defines the consignment workflow operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.SellRequest, error)
	PreliminaryAppraise(ctx context.Context, input AppraiseInput) error
	MarkReceived(ctx context.Context, input TransitionInput) error
	FinalAppraise(ctx context.Context, input AppraiseInput) error
	ManagerApprove(ctx context.Context, input ApproveInput) error
	SellerAccept(ctx context.Context, input TransitionInput) error
	Reject(ctx context.Context, input RejectInput) error
	Get(ctx context.Context, input GetInput) (*SellRequestDetail, error)
	List(ctx context.Context, input ListInput) (*SellRequestList, error)
}
