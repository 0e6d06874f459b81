package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/api/responses"
	"github.com/emeraldgavel/auctionhouse-backend/api/validators"
	"github.com/emeraldgavel/auctionhouse-backend/internal/sessions"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

type sessionCreateRequest struct {
	Name              string           `json:"name" validate:"required"`
	Description       *string          `json:"description"`
	StartTime         time.Time        `json:"start_time" validate:"required"`
	EndTime           time.Time        `json:"end_time" validate:"required"`
	DefaultStepPrice  *decimal.Decimal `json:"default_step_price"`
	RequireEnrollment *bool            `json:"require_enrollment"`
	AssignedStaffID   *uuid.UUID       `json:"assigned_staff_id"`
}

type sessionAddItemRequest struct {
	SellRequestID uuid.UUID        `json:"sell_request_id" validate:"required"`
	StartPrice    decimal.Decimal  `json:"start_price" validate:"required"`
	StepPrice     *decimal.Decimal `json:"step_price"`
	ReservePrice  *decimal.Decimal `json:"reserve_price"`
}

func sessionActor(r *http.Request) (sessions.Actor, error) {
	userID, role, err := requestActor(r)
	if err != nil {
		return sessions.Actor{}, err
	}
	return sessions.Actor{UserID: userID, Role: role}, nil
}

// SessionCreate opens a new DRAFT auction session.
func SessionCreate(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actor, err := sessionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sessionCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.CreateSession(r.Context(), sessions.CreateSessionInput{
			Actor:             actor,
			Name:              body.Name,
			Description:       body.Description,
			StartTime:         body.StartTime,
			EndTime:           body.EndTime,
			DefaultStepPrice:  body.DefaultStepPrice,
			RequireEnrollment: body.RequireEnrollment,
			AssignedStaffID:   body.AssignedStaffID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// SessionAddItem places an accepted consignment into a session as the next lot.
func SessionAddItem(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actor, err := sessionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sessionAddItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddItem(r.Context(), sessions.AddItemInput{
			Actor:         actor,
			SessionID:     sessionID,
			SellRequestID: body.SellRequestID,
			StartPrice:    body.StartPrice,
			StepPrice:     body.StepPrice,
			ReservePrice:  body.ReservePrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// SessionWithdrawItem pulls a lot that has not started bidding.
func SessionWithdrawItem(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actor, err := sessionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.WithdrawItem(r.Context(), sessions.WithdrawItemInput{Actor: actor, ItemID: itemID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "withdrawn"})
	}
}

// SessionSchedule publishes a draft session for enrollment.
func SessionSchedule(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, "scheduled", sessions.Service.Schedule)
}

// SessionOpen starts bidding.
func SessionOpen(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, "open", sessions.Service.Open)
}

// SessionPause suspends bidding without resolving lots.
func SessionPause(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, "paused", sessions.Service.Pause)
}

// SessionResume reopens a paused session.
func SessionResume(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, "open", sessions.Service.Resume)
}

// SessionClose ends bidding for good.
func SessionClose(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, "closed", sessions.Service.Close)
}

// SessionCancel abandons a session before bidding opens.
func SessionCancel(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, "cancelled", sessions.Service.Cancel)
}

// SessionGet returns a session with its lots in lot order.
func SessionGet(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// SessionList pages sessions, optionally filtered by status.
func SessionList(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actor, err := sessionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sessions.ListInput{
			Actor:  actor,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		input.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.SessionStatus(strings.ToUpper(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			input.Status = &status
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func sessionTransition(svc sessions.Service, logg *logger.Logger, done string, apply func(sessions.Service, context.Context, sessions.TransitionInput) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable"))
			return
		}

		actor, err := sessionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(svc, r.Context(), sessions.TransitionInput{Actor: actor, SessionID: sessionID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": done})
	}
}
