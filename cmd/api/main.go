package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gptx-exchange/gptx-backend/api/routes"
	"github.com/gptx-exchange/gptx-backend/internal/carbon"
	"github.com/gptx-exchange/gptx-backend/internal/exchange"
	"github.com/gptx-exchange/gptx-backend/internal/providers"
	"github.com/gptx-exchange/gptx-backend/internal/tokens"
	"github.com/gptx-exchange/gptx-backend/internal/wrappers"
	"github.com/gptx-exchange/gptx-backend/pkg/aiproviders"
	"github.com/gptx-exchange/gptx-backend/pkg/blockchain"
	"github.com/gptx-exchange/gptx-backend/pkg/config"
	"github.com/gptx-exchange/gptx-backend/pkg/db"
	"github.com/gptx-exchange/gptx-backend/pkg/logger"
	"github.com/gptx-exchange/gptx-backend/pkg/metrics"
	"github.com/gptx-exchange/gptx-backend/pkg/migrate"
	"github.com/gptx-exchange/gptx-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	issuer := blockchain.NewMockIssuer(cfg.Blockchain, logg)
	gateway := aiproviders.NewMockGateway()

	wrapperRepo := wrappers.NewRepository(dbClient.DB())
	providerRepo := providers.NewRepository(dbClient.DB())
	tradeRepo := exchange.NewRepository(dbClient.DB())
	offsetRepo := carbon.NewRepository(dbClient.DB())

	tokenService, err := tokens.NewService(wrapperRepo, providerRepo, dbClient, issuer, gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create token service", err)
		os.Exit(1)
	}

	exchangeService, err := exchange.NewService(tradeRepo, dbClient, cfg.Exchange)
	if err != nil {
		logg.Error(context.Background(), "failed to create exchange service", err)
		os.Exit(1)
	}

	carbonService, err := carbon.NewService(offsetRepo, wrapperRepo, dbClient, issuer, cfg.Carbon)
	if err != nil {
		logg.Error(context.Background(), "failed to create carbon service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpMetrics,
			tokenService,
			exchangeService,
			carbonService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
