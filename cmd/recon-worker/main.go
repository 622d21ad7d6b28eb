package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strahovfest/vstupenky-backend/internal/cron"
	"github.com/strahovfest/vstupenky-backend/internal/purchases"
	"github.com/strahovfest/vstupenky-backend/internal/recon"
	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/fio"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
	"github.com/strahovfest/vstupenky-backend/pkg/mailer"
	"github.com/strahovfest/vstupenky-backend/pkg/metrics"
	"github.com/strahovfest/vstupenky-backend/pkg/redis"
	"github.com/strahovfest/vstupenky-backend/pkg/sheetdb"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "recon-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "recon-worker",
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

	feed, err := fio.NewClient(cfg.Bank, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create bank feed client", err)
		os.Exit(1)
	}

	var delivery *mailer.Mailer
	if cfg.Mail.Enabled() {
		delivery, err = mailer.New(cfg.Mail, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "mail delivery disabled, tickets will only appear in the ledger")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reconMetrics := metrics.NewReconMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	engineParams := recon.EngineParams{
		Ledger:   purchases.NewRepository(store, cfg.Sheets.PurchasesSheet),
		Buffer:   recon.NewBufferRepository(store, cfg.Sheets.UnmatchedSheet),
		Currency: cfg.Bank.Currency,
		Logger:   logg,
		Metrics:  reconMetrics,
	}
	if delivery != nil {
		engineParams.Delivery = delivery
	}
	engine, err := recon.NewEngine(engineParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation engine", err)
		os.Exit(1)
	}

	job, err := recon.NewJob(engine, feed, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cfg.App.Env), cfg.Recon.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create run lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{job},
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Recon.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	go serveMetrics(logg, registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Recon.Interval.String(),
	})
	logg.Info(ctx, "starting reconciliation worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reconciliation worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "reconciliation worker shutting down gracefully")
}

func serveMetrics(logg *logger.Logger, registry *prometheus.Registry) {
	port := os.Getenv("METRICS_PORT")
	if port == "" {
		port = "9090"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logg.Error(context.Background(), "metrics server stopped", err)
	}
}
