// Command weatherd serves destination weather lookups over HTTP and, when
// KAFKA_ENABLED is set, enriches booking confirmations before they reach the
// email service.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/couchcryptid/destination-weather-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/destination-weather-service/internal/adapter/kafka"
	"github.com/couchcryptid/destination-weather-service/internal/adapter/registry"
	"github.com/couchcryptid/destination-weather-service/internal/adapter/s3store"
	"github.com/couchcryptid/destination-weather-service/internal/config"
	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/couchcryptid/destination-weather-service/internal/observability"
	"github.com/couchcryptid/destination-weather-service/internal/pipeline"
	"github.com/couchcryptid/destination-weather-service/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := newWeatherService(ctx, cfg, logger, metrics)
	readiness := observability.ReadinessGroup{svc}

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		enricher := pipeline.NewBookingEnricher(svc, cfg.LookupTimeout, logger)
		p = pipeline.New(reader, enricher, writer, logger, metrics, cfg.BatchSize)
		readiness = append(readiness, p)
		logger.Info("booking enrichment enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
		)
	} else {
		logger.Info("booking enrichment disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.LookupTimeout, readiness, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newWeatherService builds the lookup service. Without a bucket, or when the
// store client cannot be created, the service is disabled and every lookup
// reports no result.
func newWeatherService(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *weather.Service {
	resolver := domain.NewResolver(registry.Load(cfg.AirportRegistry, logger))
	for _, issue := range cfg.WeatherIssues {
		logger.Warn("invalid weather setting", "error", issue)
	}

	var store weather.ObjectStore
	var s3 *s3store.Store
	err := cfg.WeatherDisabled
	if err == nil {
		s3, err = s3store.New(ctx, s3store.Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		}, logger)
	}
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		logger.Warn("weather lookup disabled", "error", err)
	case err != nil:
		logger.Error("weather lookup disabled, object store unavailable", "error", err)
	default:
		store = s3
	}

	return weather.NewService(store, resolver, weather.Options{
		CacheTTL:            cfg.CacheTTL,
		EventsPrefix:        cfg.EventsPrefix,
		ScanBudget:          cfg.ScanBudget,
		MaxKeysPerPartition: cfg.MaxKeysPerPartition,
		MaxObjectBytes:      cfg.MaxObjectBytes,
		Location:            cfg.DisplayLocation,
	}, logger, metrics)
}
