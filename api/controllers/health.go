package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/storelinehq/storeline-backend/api/responses"
	"github.com/storelinehq/storeline-backend/pkg/config"
	"github.com/storelinehq/storeline-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storeline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and cache before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storeline-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		checks["database"] = "ok"
		if dbP == nil {
			checks["database"] = "not configured"
			ready = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "unreachable"
			ready = false
			if logg != nil {
				logg.Warn(ctx, "health.database_unreachable")
			}
		}

		checks["redis"] = "ok"
		if redisP == nil {
			checks["redis"] = "not configured"
			ready = false
		} else if err := redisP.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			ready = false
			if logg != nil {
				logg.Warn(ctx, "health.redis_unreachable")
			}
		}

		status := map[string]any{"status": "ready", "checks": checks}
		if !ready {
			status["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
