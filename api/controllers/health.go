package controllers

import (
	"net/http"

	"github.com/strahovfest/vstupenky-backend/api/responses"
	"github.com/strahovfest/vstupenky-backend/pkg/config"
	pkgerrors "github.com/strahovfest/vstupenky-backend/pkg/errors"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
	"github.com/strahovfest/vstupenky-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vstupenky-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vstupenky-Env", cfg.App.Env)
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not reachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
