package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	LookupTimeout   time.Duration

	// Event store. The weather feature is disabled when Bucket is empty.
	S3Bucket       string
	S3Region       string
	S3Endpoint     string // optional, for S3-compatible stores
	AWSAccessKeyID string
	AWSSecretKey   string

	EventsPrefix        string
	CacheTTL            time.Duration
	ScanBudget          int
	MaxKeysPerPartition int
	MaxObjectBytes      int64
	DisplayLocation     *time.Location
	AirportRegistry     []string

	// WeatherIssues lists invalid weather settings that were replaced by
	// their defaults. WeatherDisabled is set when the store settings are
	// unusable; lookups are then turned off while the rest of the service
	// keeps running.
	WeatherIssues   []error
	WeatherDisabled error

	// Booking enrichment pipeline.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// WeatherEnabled reports whether an event store bucket is configured and
// usable.
func (c *Config) WeatherEnabled() bool { return c.S3Bucket != "" && c.WeatherDisabled == nil }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	var issues []error
	lookupTimeout := parsePositiveDuration(&issues, "LOOKUP_TIMEOUT", 10*time.Second)
	cacheTTLMillis := parsePositiveInt(&issues, "WEATHER_CACHE_TTL_MS", 300000)
	scanBudget := parsePositiveInt(&issues, "WEATHER_SCAN_BUDGET", 50)
	maxKeys := parsePositiveInt(&issues, "WEATHER_MAX_KEYS_PER_PARTITION", 1000)
	maxObjectBytes := parsePositiveInt(&issues, "WEATHER_MAX_OBJECT_BYTES", 1<<20)

	loc, err := time.LoadLocation(sharedcfg.EnvOrDefault("WEATHER_DISPLAY_TZ", "UTC"))
	if err != nil {
		issues = append(issues, fmt.Errorf("invalid WEATHER_DISPLAY_TZ, using UTC: %w", err))
		loc = time.UTC
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		LookupTimeout:   lookupTimeout,

		S3Bucket:       os.Getenv("WEATHER_S3_BUCKET"),
		S3Region:       sharedcfg.EnvOrDefault("WEATHER_S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("WEATHER_S3_ENDPOINT"),
		AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),

		EventsPrefix:        sharedcfg.EnvOrDefault("WEATHER_EVENTS_PREFIX", "events"),
		CacheTTL:            time.Duration(cacheTTLMillis) * time.Millisecond,
		ScanBudget:          scanBudget,
		MaxKeysPerPartition: maxKeys,
		MaxObjectBytes:      int64(maxObjectBytes),
		DisplayLocation:     loc,
		AirportRegistry: splitList(sharedcfg.EnvOrDefault("AIRPORT_REGISTRY_PATHS",
			"data/airports.json,/etc/destination-weather/airports.json")),
		WeatherIssues: issues,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "booking-confirmations"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "booking-emails"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "destination-weather"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	if (cfg.AWSAccessKeyID == "") != (cfg.AWSSecretKey == "") {
		cfg.WeatherDisabled = fmt.Errorf("%w: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together",
			domain.ErrConfiguration)
	}

	return cfg, nil
}

// parsePositiveInt reads key as a positive integer. An invalid value is
// recorded in issues and def is returned.
func parsePositiveInt(issues *[]error, key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		*issues = append(*issues, fmt.Errorf("invalid %s %q, using default %d: must be a positive integer", key, s, def))
		return def
	}
	return n
}

func parsePositiveDuration(issues *[]error, key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		*issues = append(*issues, fmt.Errorf("invalid %s %q, using default %s", key, s, def))
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
