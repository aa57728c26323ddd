package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gptx-exchange/gptx-backend/api/controllers"
	"github.com/gptx-exchange/gptx-backend/api/middleware"
	"github.com/gptx-exchange/gptx-backend/internal/carbon"
	"github.com/gptx-exchange/gptx-backend/internal/exchange"
	"github.com/gptx-exchange/gptx-backend/internal/tokens"
	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/db"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
	"github.com/gptx-exchange/gptx-backend/pkg/metrics"
	"github.com/gptx-exchange/gptx-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	tokenService tokens.Service,
	exchangeService exchange.Service,
	carbonService carbon.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	var cachePinger redis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CallerAddress(logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/info", controllers.Info())

		r.Route("/tokens", func(r chi.Router) {
			r.Get("/providers", controllers.TokenProviders(tokenService, logg))
			r.Get("/providers/{name}/health", controllers.TokenProviderHealth(tokenService, logg))
			r.Get("/providers/{name}/balance", controllers.TokenProviderBalance(tokenService, logg))
			r.Post("/wrap", controllers.TokenWrap(tokenService, logg))
			r.Get("/balance/{userAddress}", controllers.TokenBalance(tokenService, logg))
			r.Post("/unwrap", controllers.TokenUnwrap(tokenService, logg))
			r.Get("/transaction/{txHash}", controllers.TokenTransaction(tokenService, logg))
			r.Get("/gas-price", controllers.TokenGasPrice(tokenService, logg))
		})

		r.Route("/exchange", func(r chi.Router) {
			r.Get("/orders", controllers.ExchangeOrders(exchangeService, logg))
			r.Post("/trade", controllers.ExchangeTrade(exchangeService, logg))
			r.Get("/history/{userAddress}", controllers.ExchangeHistory(exchangeService, logg))
			r.Get("/stats", controllers.ExchangeStats(exchangeService, logg))
		})

		r.Route("/carbon", func(r chi.Router) {
			r.Post("/retire", controllers.CarbonRetire(carbonService, logg))
			r.Get("/history/{userAddress}", controllers.CarbonHistory(carbonService, logg))
			r.Get("/stats", controllers.CarbonStats(carbonService, logg))
			r.Get("/certificate/{certificateId}", controllers.CarbonCertificate(carbonService, logg))
		})
	})

	return r
}
