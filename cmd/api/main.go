package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/api/routes"
	"github.com/emeraldgavel/auctionhouse-backend/internal/auth"
	"github.com/emeraldgavel/auctionhouse-backend/internal/bidding"
	"github.com/emeraldgavel/auctionhouse-backend/internal/catalog"
	"github.com/emeraldgavel/auctionhouse-backend/internal/enrollments"
	"github.com/emeraldgavel/auctionhouse-backend/internal/media"
	"github.com/emeraldgavel/auctionhouse-backend/internal/notifications"
	"github.com/emeraldgavel/auctionhouse-backend/internal/sellrequests"
	"github.com/emeraldgavel/auctionhouse-backend/internal/sessions"
	"github.com/emeraldgavel/auctionhouse-backend/internal/settlement"
	"github.com/emeraldgavel/auctionhouse-backend/internal/users"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/auth/session"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/gateway"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/migrate"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/redis"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	sellRequestsService, err := sellrequests.NewService(sellrequests.NewRepository(gormDB), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create sell requests service", err)
		os.Exit(1)
	}

	defaultStep, err := decimal.NewFromString(cfg.Auction.DefaultStepPrice)
	if err != nil {
		logg.Error(context.Background(), "invalid default step price", err)
		os.Exit(1)
	}
	sessionsService, err := sessions.NewService(sessions.NewRepository(gormDB), dbClient, outboxService, sessions.Config{
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

	enrollmentsService, err := enrollments.NewService(enrollments.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create enrollments service", err)
		os.Exit(1)
	}

	var paymentGateway gateway.Gateway
	if cfg.Square.AccessToken != "" {
		paymentGateway, err = gateway.NewSquareGateway(context.Background(), cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create square gateway", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square access token missing, using static gateway")
		paymentGateway = gateway.NewStaticGateway()
	}

	settlementService, err := settlement.NewService(settlement.NewRepository(gormDB), dbClient, outboxService, paymentGateway, biddingService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.NewRepository(gormDB), gcsClient, cfg.GCS, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, gcsClient, sessionManager, routes.Services{
			Auth:          authService,
			Register:      registerService,
			Users:         usersService,
			Catalog:       catalogService,
			SellRequests:  sellRequestsService,
			Sessions:      sessionsService,
			Bidding:       biddingService,
			Enrollments:   enrollmentsService,
			Settlement:    settlementService,
			Notifications: notificationsService,
			Media:         mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
