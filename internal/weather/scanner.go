package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/couchcryptid/destination-weather-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ObjectStore is the capability the scanner needs from the event store.
type ObjectStore interface {
	// List returns at most maxKeys objects whose key starts with prefix.
	List(ctx context.Context, prefix string, maxKeys int) ([]domain.ObjectInfo, error)

	// Get opens the object stored under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// PrefixFunc builds the partition prefix holding events written on day.
type PrefixFunc func(day time.Time) string

// DatePrefix returns a PrefixFunc producing "<root>/yyyy/mm/dd/".
func DatePrefix(root string) PrefixFunc {
	root = strings.Trim(root, "/")
	return func(day time.Time) string {
		p := fmt.Sprintf("%04d/%02d/%02d/", day.Year(), int(day.Month()), day.Day())
		if root == "" {
			return p
		}
		return root + "/" + p
	}
}

// Scan defaults.
const (
	DefaultScanBudget          = 50
	DefaultMaxKeysPerPartition = 1000
	DefaultEventsPrefix        = "events"
)

// ScanOptions bounds a scan of the event store.
type ScanOptions struct {
	Prefix              PrefixFunc
	MaxKeysPerPartition int
	Budget              int
}

// Scanner lists candidate objects from today's and yesterday's partitions.
type Scanner struct {
	store   ObjectStore
	opts    ScanOptions
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewScanner creates a Scanner. Zero-valued options fall back to the defaults.
func NewScanner(store ObjectStore, opts ScanOptions, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scanner {
	if opts.Prefix == nil {
		opts.Prefix = DatePrefix(DefaultEventsPrefix)
	}
	if opts.MaxKeysPerPartition <= 0 {
		opts.MaxKeysPerPartition = DefaultMaxKeysPerPartition
	}
	if opts.Budget <= 0 {
		opts.Budget = DefaultScanBudget
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scanner{store: store, opts: opts, clock: clock, logger: logger, metrics: metrics}
}

// Partitions returns the prefixes scanned, today's first. Yesterday is
// included to tolerate timezone skew between producer and consumer.
func (s *Scanner) Partitions() []string {
	today := s.clock.Now().UTC()
	return []string{
		s.opts.Prefix(today),
		s.opts.Prefix(today.AddDate(0, 0, -1)),
	}
}

// ListRecent lists both partitions, merges them newest first and caps the
// result to the scan budget. A partition whose listing fails contributes
// nothing; the other is still used.
func (s *Scanner) ListRecent(ctx context.Context) []domain.ObjectInfo {
	var merged []domain.ObjectInfo
	for _, prefix := range s.Partitions() {
		objs, err := s.store.List(ctx, prefix, s.opts.MaxKeysPerPartition)
		if err != nil {
			s.metrics.PartitionListFails.Inc()
			s.logger.Warn("partition listing failed, treating as empty",
				"prefix", prefix,
				"error", fmt.Errorf("%w: %w", domain.ErrTransientIO, err),
			)
			continue
		}
		merged = append(merged, objs...)
	}

	slices.SortStableFunc(merged, func(a, b domain.ObjectInfo) int {
		return b.LastModified.Compare(a.LastModified)
	})
	if len(merged) > s.opts.Budget {
		merged = merged[:s.opts.Budget]
	}
	return merged
}
