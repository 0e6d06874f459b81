package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/api/responses"
	"github.com/emeraldgavel/auctionhouse-backend/api/validators"
	"github.com/emeraldgavel/auctionhouse-backend/internal/catalog"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

// CatalogGet returns one jewelry item by id.
func CatalogGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CatalogGetByCode looks an item up by its public jewelry code.
func CatalogGetByCode(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		code := strings.TrimSpace(validators.SanitizeString(r.URL.Query().Get("code"), 0))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}

		item, err := svc.GetByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CatalogList pages jewelry items with optional filters.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := r.URL.Query()
		input := catalog.ListItemsInput{
			Filters: catalog.ItemFilters{
				Query: validators.SanitizeString(query.Get("q"), 0),
			},
			Pagination: pagination.Params{
				Cursor: strings.TrimSpace(query.Get("cursor")),
			},
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Pagination.Limit = limit

		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status := enums.JewelryStatus(strings.ToUpper(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			input.Filters.Status = &status
		}
		if raw := strings.TrimSpace(query.Get("seller_id")); raw != "" {
			sellerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller_id"))
				return
			}
			input.Filters.SellerID = &sellerID
		}
		if raw := strings.TrimSpace(query.Get("price_min")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_min"))
				return
			}
			input.Filters.PriceMin = &value
		}
		if raw := strings.TrimSpace(query.Get("price_max")); raw != "" {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_max"))
				return
			}
			input.Filters.PriceMax = &value
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
