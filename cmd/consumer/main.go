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
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/catalog"
	"example.com/trainingstats/internal/config"
	"example.com/trainingstats/internal/consumer"
	"example.com/trainingstats/internal/observability"
	persistence "example.com/trainingstats/internal/persistence/postgres"
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
		Component:   "consumer",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	milestones, err := cfg.Milestones()
	if err != nil {
		logger.WithError(err).Fatal("invalid milestone table")
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	stats := analytics.NewService(persistence.NewRepository(pool), catalog.NewSeeded(),
		analytics.WithMetric(cfg.VolumeMetric),
		analytics.WithMilestones(milestones),
		analytics.WithLogger(logger),
	)
	handler := consumer.NewMilestoneHandler(stats, persistence.NewAchievementStore(pool), logger)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler(), ReadHeaderTimeout: 2 * time.Second}
	go func() {
		logger.WithField("address", cfg.MetricsAddress).Info("consumer metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server error")
		}
	}()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ConsumerGroup,
		Topic:           cfg.ConsumerTopic,
		MinBytes:        1e3,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})
	proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(logger.WithField("topic", cfg.ConsumerTopic)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer reader.Close()

		logger.WithFields(logrus.Fields{"topic": cfg.ConsumerTopic, "group": cfg.ConsumerGroup}).Info("consumer started")
		if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("consumer stopped with error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
		logger.Info("consumer shutdown requested")
	case <-done:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("metrics server shutdown error")
	}

	<-done
}
