package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

const pendingMediaRetentionDays = 7

// PendingMediaCleanupJobParams configures the abandoned-upload sweeper.
type PendingMediaCleanupJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	MediaRepo     pendingMediaCleanupRepo
	GCS           objectDeleter
	GCSBucket     string
	RetentionDays int
}

type pendingMediaCleanupRepo interface {
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Media, error)
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, bucket, object string) error
}

// NewPendingMediaCleanupJob removes upload rows whose PUT never completed.
func NewPendingMediaCleanupJob(params PendingMediaCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.MediaRepo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if params.GCS == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if params.GCSBucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = pendingMediaRetentionDays
	}
	return &pendingMediaCleanupJob{
		logg:          params.Logger,
		db:            params.DB,
		repo:          params.MediaRepo,
		gcs:           params.GCS,
		bucket:        params.GCSBucket,
		retentionDays: retention,
		now:           time.Now,
	}, nil
}

type pendingMediaCleanupJob struct {
	logg          *logger.Logger
	db            txRunner
	repo          pendingMediaCleanupRepo
	gcs           objectDeleter
	bucket        string
	retentionDays int
	now           func() time.Time
}

func (j *pendingMediaCleanupJob) Name() string { return "pending-media-cleanup" }

func (j *pendingMediaCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retentionDays) * 24 * time.Hour)

	rows, err := j.repo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query pending media: %w", err)
	}

	deleted := 0
	for _, mediaRow := range rows {
		// The stored object goes first; a row without its object is just
		// noise, an object without its row is an orphan nobody can find.
		if err := j.gcs.DeleteObject(ctx, j.bucket, mediaRow.ObjectKey); err != nil {
			return fmt.Errorf("delete stored object %s: %w", mediaRow.ObjectKey, err)
		}
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return j.repo.DeleteWithTx(tx, mediaRow.ID)
		})
		if err != nil {
			return fmt.Errorf("delete media row: %w", err)
		}
		deleted++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":           cutoff,
		"retention_days":   j.retentionDays,
		"media_candidates": len(rows),
		"media_deleted":    deleted,
	})
	j.logg.Info(logCtx, "pending media cleanup complete")
	return nil
}
