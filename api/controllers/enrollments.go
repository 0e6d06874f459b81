package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/emeraldgavel/auctionhouse-backend/api/responses"
	"github.com/emeraldgavel/auctionhouse-backend/api/validators"
	"github.com/emeraldgavel/auctionhouse-backend/internal/enrollments"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

func enrollmentActor(r *http.Request) (enrollments.Actor, error) {
	userID, role, err := requestActor(r)
	if err != nil {
		return enrollments.Actor{}, err
	}
	return enrollments.Actor{UserID: userID, Role: role}, nil
}

// EnrollmentCreate registers the caller as a bidder for a scheduled session.
func EnrollmentCreate(svc enrollments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrollments service unavailable"))
			return
		}

		actor, err := enrollmentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		enrollment, err := svc.Enroll(r.Context(), enrollments.EnrollInput{Actor: actor, SessionID: sessionID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, enrollment)
	}
}

// EnrollmentApprove admits a pending bidder.
func EnrollmentApprove(svc enrollments.Service, logg *logger.Logger) http.HandlerFunc {
	return enrollmentDecision(svc, logg, "approved", enrollments.Service.Approve)
}

// EnrollmentReject turns a pending bidder away.
func EnrollmentReject(svc enrollments.Service, logg *logger.Logger) http.HandlerFunc {
	return enrollmentDecision(svc, logg, "rejected", enrollments.Service.Reject)
}

// EnrollmentCancel withdraws the caller's own enrollment.
func EnrollmentCancel(svc enrollments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrollments service unavailable"))
			return
		}

		actor, err := enrollmentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		enrollmentID, err := pathUUID(r, "enrollmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), enrollments.CancelInput{Actor: actor, EnrollmentID: enrollmentID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// EnrollmentList pages a session's enrollments for staff review.
func EnrollmentList(svc enrollments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrollments service unavailable"))
			return
		}

		actor, err := enrollmentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := enrollments.ListInput{
			Actor:     actor,
			SessionID: sessionID,
			Cursor:    strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		input.Limit, err = validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.EnrollmentStatus(strings.ToUpper(raw))
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

func enrollmentDecision(svc enrollments.Service, logg *logger.Logger, done string, apply func(enrollments.Service, context.Context, enrollments.DecisionInput) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enrollments service unavailable"))
			return
		}

		actor, err := enrollmentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		enrollmentID, err := pathUUID(r, "enrollmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(svc, r.Context(), enrollments.DecisionInput{Actor: actor, EnrollmentID: enrollmentID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": done})
	}
}
