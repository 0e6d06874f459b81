package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/internal/bidding"
	"github.com/emeraldgavel/auctionhouse-backend/internal/cron"
	"github.com/emeraldgavel/auctionhouse-backend/internal/media"
	"github.com/emeraldgavel/auctionhouse-backend/internal/notifications"
	"github.com/emeraldgavel/auctionhouse-backend/internal/sessions"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/metrics"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/migrate"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/redis"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/storage/gcs"
)

const lockKeyFormat = "ah:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	sessionsRepo := sessions.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	defaultStep, err := decimal.NewFromString(cfg.Auction.DefaultStepPrice)
	if err != nil {
		logg.Error(context.Background(), "invalid default step price", err)
		os.Exit(1)
	}
	sessionsService, err := sessions.NewService(sessionsRepo, dbClient, outboxService, sessions.Config{
		DefaultStepPrice:  defaultStep,
		MaxLotsPerSession: cfg.Auction.MaxLotsPerSession,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sessions service", err)
		os.Exit(1)
	}

	biddingService, err := bidding.NewService(bidding.NewRepository(gormDB), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create bidding service", err)
		os.Exit(1)
	}

	openerJob, err := cron.NewSessionOpenerJob(cron.SessionOpenerJobParams{
		Logger:     logg,
		Repository: sessionsRepo,
		Sessions:   sessionsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session opener job", err)
		os.Exit(1)
	}

	closerJob, err := cron.NewSessionCloserJob(cron.SessionCloserJobParams{
		Logger:     logg,
		Repository: sessionsRepo,
		Sessions:   sessionsService,
		Bidding:    biddingService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session closer job", err)
		os.Exit(1)
	}

	notificationCleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: notifications.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	outboxRetentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	pendingMediaJob, err := cron.NewPendingMediaCleanupJob(cron.PendingMediaCleanupJobParams{
		Logger:    logg,
		DB:        dbClient,
		MediaRepo: media.NewRepository(gormDB),
		GCS:       gcsClient,
		GCSBucket: cfg.GCS.BucketName,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pending media cleanup job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(
		openerJob,
		closerJob,
		notificationCleanupJob,
		outboxRetentionJob,
		pendingMediaJob,
	)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.SessionOpenerInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
