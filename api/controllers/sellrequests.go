package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/api/responses"
	"github.com/emeraldgavel/auctionhouse-backend/api/validators"
	"github.com/emeraldgavel/auctionhouse-backend/internal/sellrequests"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/types"
)

type sellRequestSubmitRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	Attributes  types.JSONMap    `json:"attributes"`
	WeightGrams *decimal.Decimal `json:"weight_grams"`
	Photos      []string         `json:"photos"`
	SellerNotes *string          `json:"seller_notes"`
}

type sellRequestAppraiseRequest struct {
	EstimatedValue decimal.Decimal  `json:"estimated_value" validate:"required"`
	ReservePrice   *decimal.Decimal `json:"reserve_price"`
	Notes          *string          `json:"notes"`
}

type sellRequestNotesRequest struct {
	Notes *string `json:"notes"`
}

type sellRequestRejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func sellRequestActor(r *http.Request) (sellrequests.Actor, error) {
	userID, role, err := requestActor(r)
	if err != nil {
		return sellrequests.Actor{}, err
	}
	return sellrequests.Actor{UserID: userID, Role: role}, nil
}

// SellRequestSubmit opens a consignment request for the caller.
func SellRequestSubmit(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sellRequestSubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Submit(r.Context(), sellrequests.SubmitInput{
			Actor: actor,
			Item: sellrequests.ItemPayload{
				Title:       body.Title,
				Description: body.Description,
				Attributes:  body.Attributes,
				WeightGrams: body.WeightGrams,
				Photos:      body.Photos,
			},
			SellerNotes: body.SellerNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// SellRequestGet returns one request with its appraisal history.
func SellRequestGet(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), sellrequests.GetInput{Actor: actor, RequestID: requestID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// SellRequestList pages requests. Members only see their own rows.
func SellRequestList(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sellrequests.ListInput{
			Actor:  actor,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		input.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.SellRequestStatus(strings.ToUpper(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			input.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("seller_id")); raw != "" {
			sellerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller_id"))
				return
			}
			input.Seller = &sellerID
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// SellRequestAppraise records a valuation pass. The stage parameter picks the
// preliminary or final appraisal transition.
func SellRequestAppraise(svc sellrequests.Service, final bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sellRequestAppraiseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sellrequests.AppraiseInput{
			Actor:          actor,
			RequestID:      requestID,
			EstimatedValue: body.EstimatedValue,
			ReservePrice:   body.ReservePrice,
			Notes:          body.Notes,
		}
		if final {
			err = svc.FinalAppraise(r.Context(), input)
		} else {
			err = svc.PreliminaryAppraise(r.Context(), input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "appraised"})
	}
}

// SellRequestMarkReceived confirms physical intake of the piece.
func SellRequestMarkReceived(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return sellRequestTransition(svc, logg, "received", func(r *http.Request, input sellrequests.TransitionInput) error {
		return svc.MarkReceived(r.Context(), input)
	})
}

// SellRequestApprove records the manager sign-off.
func SellRequestApprove(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sellRequestNotesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ManagerApprove(r.Context(), sellrequests.ApproveInput{Actor: actor, RequestID: requestID, Notes: body.Notes}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "approved"})
	}
}

// SellRequestAccept records the seller's acceptance of the final terms.
func SellRequestAccept(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return sellRequestTransition(svc, logg, "accepted", func(r *http.Request, input sellrequests.TransitionInput) error {
		return svc.SellerAccept(r.Context(), input)
	})
}

// SellRequestReject terminates a request with a reason.
func SellRequestReject(svc sellrequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sellRequestRejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reject(r.Context(), sellrequests.RejectInput{Actor: actor, RequestID: requestID, Reason: body.Reason}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "rejected"})
	}
}

func sellRequestTransition(svc sellrequests.Service, logg *logger.Logger, done string, apply func(*http.Request, sellrequests.TransitionInput) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sell requests service unavailable"))
			return
		}

		actor, err := sellRequestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(r, sellrequests.TransitionInput{Actor: actor, RequestID: requestID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": done})
	}
}
