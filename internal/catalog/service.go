package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// Service is the read-side surface over consigned jewelry.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.JewelryItem, error)
	GetByCode(ctx context.Context, code string) (*models.JewelryItem, error)
	List(ctx context.Context, input ListItemsInput) (*ItemList, error)
}

type itemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.JewelryItem, error)
	FindByCode(ctx context.Context, code string) (*models.JewelryItem, error)
	List(ctx context.Context, input ListItemsInput) ([]models.JewelryItem, error)
}

type service struct {
	repo itemRepository
}

// NewService builds the catalog service over the repository.
func NewService(repo itemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.JewelryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "jewelry item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load jewelry item")
	}
	return item, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*models.JewelryItem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item code required")
	}
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "jewelry item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load jewelry item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, input ListItemsInput) (*ItemList, error) {
	if input.Filters.PriceMin != nil && input.Filters.PriceMax != nil &&
		input.Filters.PriceMin.GreaterThan(*input.Filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min exceeds price_max")
	}
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jewelry items")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	list := &ItemList{Items: rows, HasMore: hasMore}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}
