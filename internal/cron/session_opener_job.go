package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/emeraldgavel/auctionhouse-backend/internal/sessions"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

// systemUserID is the actor recorded for transitions driven by the scheduler
// rather than a staff member.
var systemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type scheduledSessionReader interface {
	FindScheduledSessionsDue(ctx context.Context, now time.Time) ([]models.AuctionSession, error)
}

type sessionOpener interface {
	Open(ctx context.Context, input sessions.TransitionInput) error
}

// SessionOpenerJobParams configures the scheduled session opener.
type SessionOpenerJobParams struct {
	Logger       *logger.Logger
	Repository   scheduledSessionReader
	Sessions     sessionOpener
	SystemUserID uuid.UUID
}

// NewSessionOpenerJob opens SCHEDULED sessions whose start time has arrived.
func NewSessionOpenerJob(params SessionOpenerJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("sessions repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("sessions service required")
	}
	systemUser := params.SystemUserID
	if systemUser == uuid.Nil {
		systemUser = systemUserID
	}
	return &sessionOpenerJob{
		logg:       params.Logger,
		repo:       params.Repository,
		sessions:   params.Sessions,
		systemUser: systemUser,
		now:        time.Now,
	}, nil
}

type sessionOpenerJob struct {
	logg       *logger.Logger
	repo       scheduledSessionReader
	sessions   sessionOpener
	systemUser uuid.UUID
	now        func() time.Time
}

func (j *sessionOpenerJob) Name() string { return "session-opener" }

func (j *sessionOpenerJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	due, err := j.repo.FindScheduledSessionsDue(ctx, now)
	if err != nil {
		return fmt.Errorf("find sessions due: %w", err)
	}

	var errs error
	opened := 0
	for _, session := range due {
		input := sessions.TransitionInput{
			Actor:     sessions.Actor{UserID: j.systemUser, Role: enums.UserRoleAdmin},
			SessionID: session.ID,
		}
		if err := j.sessions.Open(ctx, input); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("open session %s: %w", session.Code, err))
			continue
		}
		opened++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"sessions_due":    len(due),
		"sessions_opened": opened,
	})
	j.logg.Info(logCtx, "session opener complete")
	return errs
}
