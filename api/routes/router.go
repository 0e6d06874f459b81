package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emeraldgavel/auctionhouse-backend/api/controllers"
	"github.com/emeraldgavel/auctionhouse-backend/api/middleware"
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
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/redis"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/storage/gcs"
)

// Services bundles every domain service the router exposes.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Users         users.Service
	Catalog       catalog.Service
	SellRequests  sellrequests.Service
	Sessions      sessions.Service
	Bidding       bidding.Service
	Enrollments   enrollments.Service
	Settlement    settlement.Service
	Notifications notifications.Service
	Media         media.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	sessionChecker session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
			"gcs":      gcsClient,
		}))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/me", controllers.UserMe(svcs.Users, logg))
			r.Put("/me", controllers.UserUpdateProfile(svcs.Users, logg))
		})

		r.Route("/v1/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(svcs.Catalog, logg))
			r.Get("/lookup", controllers.CatalogGetByCode(svcs.Catalog, logg))
			r.Get("/{itemId}", controllers.CatalogGet(svcs.Catalog, logg))
			r.Get("/{itemId}/media", controllers.MediaListByItem(svcs.Media, logg))
		})

		r.Route("/v1/sell-requests", func(r chi.Router) {
			r.Post("/", controllers.SellRequestSubmit(svcs.SellRequests, logg))
			r.Get("/", controllers.SellRequestList(svcs.SellRequests, logg))
			r.Get("/{requestId}", controllers.SellRequestGet(svcs.SellRequests, logg))
			r.Post("/{requestId}/accept", controllers.SellRequestAccept(svcs.SellRequests, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStaff, logg))
				r.Post("/{requestId}/preliminary-appraisal", controllers.SellRequestAppraise(svcs.SellRequests, false, logg))
				r.Post("/{requestId}/receive", controllers.SellRequestMarkReceived(svcs.SellRequests, logg))
				r.Post("/{requestId}/final-appraisal", controllers.SellRequestAppraise(svcs.SellRequests, true, logg))
				r.Post("/{requestId}/reject", controllers.SellRequestReject(svcs.SellRequests, logg))
			})
			r.With(middleware.RequireRole(enums.UserRoleManager, logg)).
				Post("/{requestId}/approve", controllers.SellRequestApprove(svcs.SellRequests, logg))
		})

		r.Route("/v1/sessions", func(r chi.Router) {
			r.Get("/", controllers.SessionList(svcs.Sessions, logg))
			r.Get("/{sessionId}", controllers.SessionGet(svcs.Sessions, logg))
			r.Post("/{sessionId}/enroll", controllers.EnrollmentCreate(svcs.Enrollments, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStaff, logg))
				r.Post("/", controllers.SessionCreate(svcs.Sessions, logg))
				r.Post("/{sessionId}/items", controllers.SessionAddItem(svcs.Sessions, logg))
				r.Post("/{sessionId}/schedule", controllers.SessionSchedule(svcs.Sessions, logg))
				r.Post("/{sessionId}/open", controllers.SessionOpen(svcs.Sessions, logg))
				r.Post("/{sessionId}/pause", controllers.SessionPause(svcs.Sessions, logg))
				r.Post("/{sessionId}/resume", controllers.SessionResume(svcs.Sessions, logg))
				r.Post("/{sessionId}/close", controllers.SessionClose(svcs.Sessions, logg))
				r.Post("/{sessionId}/cancel", controllers.SessionCancel(svcs.Sessions, logg))
				r.Post("/{sessionId}/settle", controllers.SettlementSettleSession(svcs.Settlement, logg))
				r.Get("/{sessionId}/enrollments", controllers.EnrollmentList(svcs.Enrollments, logg))
			})
		})

		r.Route("/v1/lots", func(r chi.Router) {
			r.Get("/{itemId}/highest", controllers.BidHighest(svcs.Bidding, logg))
			r.Get("/{itemId}/bids", controllers.BidList(svcs.Bidding, logg))
			r.Post("/{itemId}/bids", controllers.BidPlace(svcs.Bidding, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStaff, logg))
				r.Get("/{itemId}/winner", controllers.BidCurrentWinner(svcs.Bidding, logg))
				r.Post("/{itemId}/close", controllers.BidCloseItem(svcs.Bidding, logg))
				r.Post("/{itemId}/withdraw", controllers.SessionWithdrawItem(svcs.Sessions, logg))
				r.Post("/{itemId}/settle", controllers.SettlementSettleItem(svcs.Settlement, logg))
			})
		})

		r.Route("/v1/enrollments", func(r chi.Router) {
			r.Post("/{enrollmentId}/cancel", controllers.EnrollmentCancel(svcs.Enrollments, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStaff, logg))
				r.Post("/{enrollmentId}/approve", controllers.EnrollmentApprove(svcs.Enrollments, logg))
				r.Post("/{enrollmentId}/reject", controllers.EnrollmentReject(svcs.Enrollments, logg))
			})
		})

		r.Route("/v1/payments", func(r chi.Router) {
			r.Get("/{paymentId}", controllers.PaymentGet(svcs.Settlement, logg))
			r.Post("/{paymentId}/pay", controllers.PaymentPay(svcs.Settlement, logg))
			r.With(middleware.RequireRole(enums.UserRoleStaff, logg)).
				Post("/{paymentId}/refund", controllers.PaymentRefund(svcs.Settlement, logg))
		})
		r.Get("/v1/payouts/{payoutId}", controllers.PayoutGet(svcs.Settlement, logg))

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(svcs.Notifications, logg))
		})

		r.Route("/v1/media", func(r chi.Router) {
			r.Post("/presign", controllers.MediaPresignUpload(svcs.Media, logg))
			r.Post("/{mediaId}/finalize", controllers.MediaFinalizeUpload(svcs.Media, logg))
			r.Delete("/{mediaId}", controllers.MediaDelete(svcs.Media, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Get("/{userId}", controllers.UserGet(svcs.Users, logg))
			r.Post("/{userId}/deactivate", controllers.UserDeactivate(svcs.Users, logg))
			r.Post("/{userId}/reactivate", controllers.UserReactivate(svcs.Users, logg))
			r.Post("/{userId}/role", controllers.UserSetRole(svcs.Users, logg))
		})
	})

	return r
}
