package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/api"
	"example.com/trainingstats/internal/auth"
	"example.com/trainingstats/internal/cache"
	"example.com/trainingstats/internal/catalog"
	"example.com/trainingstats/internal/config"
	"example.com/trainingstats/internal/domain"
	"example.com/trainingstats/internal/observability"
	"example.com/trainingstats/internal/outbox"
	persistence "example.com/trainingstats/internal/persistence/postgres"
	httptransport "example.com/trainingstats/internal/transport/http"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Fatal("failed to load .env")
	}
	cfg := config.Load()
	logger := observability.NewLogger(observability.LoggerParams{
		Level:       cfg.LogLevel,
		JSON:        cfg.LogJSON,
		File:        cfg.LogFile,
		LogToStdout: cfg.LogStdout,
		Component:   "api",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calendar, err := cfg.Calendar()
	if err != nil {
		logger.WithError(err).Fatal("invalid calendar settings")
	}
	milestones, err := cfg.Milestones()
	if err != nil {
		logger.WithError(err).Fatal("invalid milestone table")
	}
	exercises := catalog.NewSeeded()
	if cfg.CatalogFile != "" {
		n, err := exercises.LoadFile(cfg.CatalogFile)
		if err != nil {
			logger.WithError(err).Fatal("failed to load exercise catalog")
		}
		logger.WithField("exercises", n).Info("exercise catalog loaded")
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)
	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Warn("closing kafka producer")
		}
	}()

	registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
	dispatcher := outbox.NewDispatcher(pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize,
		outbox.WithLogger(logger.WithField("component", "outbox")))
	go dispatcher.Start(ctx)

	dashboards := cache.NewDashboardCache(cfg.CacheSizeMB, cfg.CacheTTL, logger)
	invalidators := cache.Chain{dashboards}
	if cfg.InvalidationURL != "" {
		invalidators = append(invalidators, cache.NewHTTPInvalidator(cfg.InvalidationURL, cfg.InvalidationKey, 2*time.Second))
	}

	workouts := domain.NewService(repo, invalidators)
	stats := analytics.NewService(repo, exercises,
		analytics.WithCalendar(calendar),
		analytics.WithMetric(cfg.VolumeMetric),
		analytics.WithMilestones(milestones),
		analytics.WithCache(dashboards),
		analytics.WithLogger(logger.WithField("component", "analytics")),
	)

	mux := http.NewServeMux()
	api.NewHandler(workouts, stats, exercises, logger).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	handler := httptransport.Chain(mux,
		httptransport.PanicRecovery(logger),
		httptransport.LogRequest(logger),
		httptransport.CORS(cfg.CORSOrigins),
		authMiddleware.Wrap,
	)
	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress), handler, logger)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("address", cfg.HTTPAddress).Info("trainingstats api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-shutdownCh
	logger.Info("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	}

	dispatcher.Wait()
}
