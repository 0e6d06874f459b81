package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/emeraldgavel/auctionhouse-backend/api/responses"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/config"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

// Pinger is the readiness probe each infrastructure client exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AuctionHouse-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency health. Any failing dependency flips the
// response to 503 so the load balancer stops routing here.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AuctionHouse-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(ctx, "readiness check failed: "+name, err)
				}
				checks[name] = "down"
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		status := map[string]any{"status": "ready", "checks": checks}
		if !healthy {
			status["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
