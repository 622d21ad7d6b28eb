package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/strahovfest/vstupenky-backend/api/routes"
	"github.com/strahovfest/vstupenky-backend/internal/catalog"
	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/internal/recon"
	"github.com/strahovfest/vstupenky-backend/internal/tickets"
	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
	"github.com/strahovfest/vstupenky-backend/pkg/redis"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
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
		Format:      cfg.App.LogFormat,
	})

	store, err := sheetdb.NewClient(context.Background(), cfg.Sheets, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap sheet store", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ledger := purchases.NewRepository(store, cfg.Sheets.PurchasesSheet)
	buffer := recon.NewBufferRepository(store, cfg.Sheets.UnmatchedSheet)
	usage := tickets.NewUsageRepository(store, cfg.Sheets.TicketUsageSheet)

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Repo:      ledger,
		Buffer:    buffer,
		Catalog:   catalog.NewFromConfig(cfg.Catalog),
		UnitPrice: cfg.Tickets.UnitPrice,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	ticketService, err := tickets.NewService(tickets.ServiceParams{
		Ledger: ledger,
		Usage:  usage,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ticket service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			Redis:     redisClient,
			Purchases: purchaseService,
			Tickets:   ticketService,
			Registry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
