package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/arjunmehra/shopkart-backend/api/responses"
	"github.com/arjunmehra/shopkart-backend/pkg/config"
	"github.com/arjunmehra/shopkart-backend/pkg/db"
	"github.com/arjunmehra/shopkart-backend/pkg/logger"
	"github.com/arjunmehra/shopkart-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopKart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopKart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["db"] = checkDependency(ctx, dbP.Ping, &healthy)
		if redisP != nil {
			checks["redis"] = checkDependency(ctx, redisP.Ping, &healthy)
		}

		if !healthy {
			if logg != nil {
				logg.Warn(r.Context(), "readiness check failed")
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, checks)
			return
		}
		responses.WriteSuccess(w, checks)
	}
}

func checkDependency(ctx context.Context, ping func(context.Context) error, healthy *bool) string {
	if err := ping(ctx); err != nil {
		*healthy = false
		return "down"
	}
	return "up"
}
