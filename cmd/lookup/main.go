// Command lookup resolves destination weather from the command line using the
// same configuration as weatherd. Each argument is looked up in turn and the
// result printed as JSON; cities without a usable observation print null.
//
// Usage:
//
//	WEATHER_S3_BUCKET=weather-events go run ./cmd/lookup Mumbai DXB "new york"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/couchcryptid/destination-weather-service/internal/adapter/registry"
	"github.com/couchcryptid/destination-weather-service/internal/adapter/s3store"
	"github.com/couchcryptid/destination-weather-service/internal/config"
	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/couchcryptid/destination-weather-service/internal/observability"
	"github.com/couchcryptid/destination-weather-service/internal/weather"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

type output struct {
	Query   string                `json:"query"`
	Weather *domain.WeatherResult `json:"weather"`
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "log scan progress to stderr")
	normalizeOnly := fs.Bool("normalize", false, "print the normalized city names without querying the store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: lookup [-v] [-normalize] CITY...")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	resolver := domain.NewResolver(registry.Load(cfg.AirportRegistry, logger))
	if *normalizeOnly {
		for _, city := range fs.Args() {
			fmt.Fprintf(stdout, "%s\t%s\n", city, resolver.Normalize(city))
		}
		return nil
	}

	for _, issue := range cfg.WeatherIssues {
		logger.Warn("invalid weather setting", "error", issue)
	}
	if cfg.WeatherDisabled != nil {
		return cfg.WeatherDisabled
	}

	ctx := context.Background()
	store, err := s3store.New(ctx, s3store.Options{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretKey,
	}, logger)
	if err != nil {
		return err
	}

	svc := weather.NewService(store, resolver, weather.Options{
		CacheTTL:            cfg.CacheTTL,
		EventsPrefix:        cfg.EventsPrefix,
		ScanBudget:          cfg.ScanBudget,
		MaxKeysPerPartition: cfg.MaxKeysPerPartition,
		MaxObjectBytes:      cfg.MaxObjectBytes,
		Location:            cfg.DisplayLocation,
	}, logger, observability.NewMetricsForTesting())

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	for _, city := range fs.Args() {
		lookupCtx, cancel := context.WithTimeout(ctx, cfg.LookupTimeout)
		out := output{Query: city}
		if res, ok := svc.WeatherForCity(lookupCtx, city); ok {
			out.Weather = &res
		}
		cancel()
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
