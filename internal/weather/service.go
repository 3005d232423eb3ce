package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/couchcryptid/destination-weather-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// DefaultMaxObjectBytes caps how much of a single event object is read.
const DefaultMaxObjectBytes = 1 << 20

var errCityMismatch = errors.New("event is for a different city")

// Options configures a Service. Zero values select the package defaults.
type Options struct {
	CacheTTL            time.Duration
	EventsPrefix        string
	ScanBudget          int
	MaxKeysPerPartition int
	MaxObjectBytes      int64
	Location            *time.Location // sunrise/sunset display zone, UTC when nil
	Clock               clockwork.Clock
}

// Service resolves a destination city to its most recent weather observation.
// It never returns an error: every failure degrades to "no result" so the
// booking and email flow is never interrupted.
type Service struct {
	store          ObjectStore
	resolver       *domain.Resolver
	scanner        *Scanner
	cache          *Cache
	loc            *time.Location
	maxObjectBytes int64
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewService wires the lookup pipeline. A nil store yields a disabled
// service that always reports no result.
func NewService(store ObjectStore, resolver *domain.Resolver, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if resolver == nil {
		resolver = domain.NewResolver(nil)
	}
	if opts.EventsPrefix == "" {
		opts.EventsPrefix = DefaultEventsPrefix
	}
	if opts.MaxObjectBytes <= 0 {
		opts.MaxObjectBytes = DefaultMaxObjectBytes
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	table := resolver.Table()
	metrics.AliasTable.WithLabelValues(string(table.Source())).Set(float64(table.Len()))

	s := &Service{
		store:          store,
		resolver:       resolver,
		cache:          NewCache(opts.CacheTTL, opts.Clock),
		loc:            opts.Location,
		maxObjectBytes: opts.MaxObjectBytes,
		logger:         logger,
		metrics:        metrics,
	}
	if store != nil {
		s.scanner = NewScanner(store, ScanOptions{
			Prefix:              DatePrefix(opts.EventsPrefix),
			MaxKeysPerPartition: opts.MaxKeysPerPartition,
			Budget:              opts.ScanBudget,
		}, opts.Clock, logger, metrics)
	}
	return s
}

// Enabled reports whether an object store is configured.
func (s *Service) Enabled() bool { return s.store != nil }

// Resolver returns the city resolver used for matching.
func (s *Service) Resolver() *domain.Resolver { return s.resolver }

// CheckReadiness reports the service ready once constructed. The alias table
// is built eagerly and the store is only touched per lookup.
func (s *Service) CheckReadiness(_ context.Context) error { return nil }

// WeatherForCity returns the newest valid observation for city. The second
// return value is false when nothing usable was found; callers then render
// without weather. Misses are not cached. Concurrent misses for the same
// city each scan independently and the last write to the cache wins.
func (s *Service) WeatherForCity(ctx context.Context, city string) (result domain.WeatherResult, found bool) {
	start := time.Now()
	outcome := "not_found"
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("weather lookup panicked", "city", city, "panic", r)
			result, found, outcome = domain.WeatherResult{}, false, "not_found"
		}
		s.metrics.Lookups.WithLabelValues(outcome).Inc()
		s.metrics.LookupDuration.Observe(time.Since(start).Seconds())
	}()

	if !s.Enabled() {
		outcome = "disabled"
		return domain.WeatherResult{}, false
	}
	if strings.TrimSpace(city) == "" {
		outcome = "invalid"
		return domain.WeatherResult{}, false
	}

	if cached, ok := s.cache.Get(city); ok {
		s.metrics.Cache.WithLabelValues("hit").Inc()
		outcome = "hit"
		return cached, true
	}
	s.metrics.Cache.WithLabelValues("miss").Inc()

	target := s.resolver.Normalize(city)
	objects := s.scanner.ListRecent(ctx)

	for _, obj := range objects {
		if ctx.Err() != nil {
			s.logger.Warn("weather lookup cancelled", "city", target, "error", ctx.Err())
			break
		}
		res, err := s.inspect(ctx, obj, target)
		if err != nil {
			s.metrics.ObjectsSkipped.WithLabelValues(skipReason(err)).Inc()
			s.logger.Debug("skipping event object", "key", obj.Key, "city", target, "error", err)
			continue
		}

		s.cache.Put(city, res)
		outcome = "found"
		s.logger.Info("weather resolved",
			"city", target,
			"key", obj.Key,
			"temperature_celsius", res.TemperatureCelsius,
		)
		return res, true
	}

	s.logger.Info("no weather observation found", "city", target, "objects", len(objects))
	return domain.WeatherResult{}, false
}

// inspect fetches one object and runs extract, match, validate and format.
func (s *Service) inspect(ctx context.Context, obj domain.ObjectInfo, target string) (domain.WeatherResult, error) {
	s.metrics.ObjectsScanned.Inc()

	body, err := s.fetch(ctx, obj.Key)
	if err != nil {
		return domain.WeatherResult{}, err
	}
	candidate, err := domain.Extract(body)
	if err != nil {
		return domain.WeatherResult{}, err
	}
	if !domain.MatchesTarget(s.resolver, candidate, target) {
		return domain.WeatherResult{}, fmt.Errorf("%w: %q", errCityMismatch, candidate.City)
	}
	return domain.BuildResult(target, candidate, obj, s.loc)
}

func (s *Service) fetch(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrTransientIO, key, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, s.maxObjectBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrTransientIO, key, err)
	}
	if int64(len(body)) > s.maxObjectBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrDataFormat, key, s.maxObjectBytes)
	}
	return body, nil
}

func skipReason(err error) string {
	if errors.Is(err, errCityMismatch) {
		return "mismatch"
	}
	return domain.SkipReason(err)
}
