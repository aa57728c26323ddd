package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/gptx-exchange/gptx-backend/api/responses"
	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/db"
	pkgerrors "github.com/gptx-exchange/gptx-backend/pkg/errors"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
	"github.com/gptx-exchange/gptx-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GPTX-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing store answers a ping.
func HealthReady(cfg *config.Config, database db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-GPTX-Env", cfg.App.Env)

		var err error
		if database != nil {
			err = multierr.Append(err, database.Ping(ctx))
		}
		if cache != nil {
			err = multierr.Append(err, cache.Ping(ctx))
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependencies not ready"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
