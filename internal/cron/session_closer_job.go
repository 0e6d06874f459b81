package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/emeraldgavel/auctionhouse-backend/internal/bidding"
	"github.com/emeraldgavel/auctionhouse-backend/internal/sessions"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

type expiredSessionReader interface {
	FindOpenSessionsPastEnd(ctx context.Context, now time.Time) ([]models.AuctionSession, error)
	ListItems(ctx context.Context, sessionID uuid.UUID) ([]models.SessionItem, error)
}

type lotCloser interface {
	CloseItem(ctx context.Context, input bidding.CloseItemInput) (*bidding.CloseResult, error)
}

type sessionCloser interface {
	Close(ctx context.Context, input sessions.TransitionInput) error
}

// SessionCloserJobParams configures the scheduled session closer.
type SessionCloserJobParams struct {
	Logger       *logger.Logger
	Repository   expiredSessionReader
	Sessions     sessionCloser
	Bidding      lotCloser
	SystemUserID uuid.UUID
}

// NewSessionCloserJob resolves every live lot and closes OPEN sessions whose
// end time has passed.
func NewSessionCloserJob(params SessionCloserJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("sessions service required")
	}
	if params.Bidding == nil {
		return nil, fmt.Errorf("bidding service required")
	}
	systemUser := params.SystemUserID
	if systemUser == uuid.Nil {
		systemUser = systemUserID
	}
	return &sessionCloserJob{
		logg:       params.Logger,
		repo:       params.Repository,
		sessions:   params.Sessions,
		bidding:    params.Bidding,
		systemUser: systemUser,
		now:        time.Now,
	}, nil
}

type sessionCloserJob struct {
	logg       *logger.Logger
	repo       expiredSessionReader
	sessions   sessionCloser
	bidding    lotCloser
	systemUser uuid.UUID
	now        func() time.Time
}

func (j *sessionCloserJob) Name() string { return "session-closer" }

func (j *sessionCloserJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	expired, err := j.repo.FindOpenSessionsPastEnd(ctx, now)
	if err != nil {
		return fmt.Errorf("find expired sessions: %w", err)
	}

	var errs error
	closed := 0
	lotsClosed := 0
	for _, session := range expired {
		resolved, err := j.closeSession(ctx, session)
		lotsClosed += resolved
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close session %s: %w", session.Code, err))
			continue
		}
		closed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"sessions_expired": len(expired),
		"sessions_closed":  closed,
		"lots_closed":      lotsClosed,
	})
	j.logg.Info(logCtx, "session closer complete")
	return errs
}

// closeSession resolves live lots first so the session transition never
// strands an ACTIVE lot inside a CLOSED session.
func (j *sessionCloserJob) closeSession(ctx context.Context, session models.AuctionSession) (int, error) {
	items, err := j.repo.ListItems(ctx, session.ID)
	if err != nil {
		return 0, fmt.Errorf("list lots: %w", err)
	}

	actor := bidding.Actor{UserID: j.systemUser, Role: enums.UserRoleAdmin}
	resolved := 0
	for _, item := range items {
		if item.Status != enums.SessionItemStatusActive {
			continue
		}
		if _, err := j.bidding.CloseItem(ctx, bidding.CloseItemInput{Actor: actor, ItemID: item.ID}); err != nil {
			return resolved, fmt.Errorf("close lot %d: %w", item.LotNumber, err)
		}
		resolved++
	}

	input := sessions.TransitionInput{
		Actor:     sessions.Actor{UserID: j.systemUser, Role: enums.UserRoleAdmin},
		SessionID: session.ID,
	}
	if err := j.sessions.Close(ctx, input); err != nil {
		return resolved, err
	}
	return resolved, nil
}
