package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/api/responses"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/config"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/db"
	"github.com/shirin-nasim/spice-bazaar-emporium-sub000/pkg/logger"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SpiceBazaar-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SpiceBazaar-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		ready := true

		checks["database"] = "ok"
		if dbP == nil {
			checks["database"] = "not configured"
			ready = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			ready = false
		}

		checks["redis"] = "ok"
		if redisP == nil {
			checks["redis"] = "not configured"
			ready = false
		} else if err := redisP.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			ready = false
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
			if logg != nil {
				logg.Warn(r.Context(), "readiness check failed")
			}
		}

		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
