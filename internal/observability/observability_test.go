package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(context.Context) error

func (f checkerFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

func TestReadinessGroup(t *testing.T) {
	ok := checkerFunc(func(context.Context) error { return nil })
	idle := checkerFunc(func(context.Context) error { return errors.New("pipeline idle") })

	require.NoError(t, ReadinessGroup{ok, nil}.CheckReadiness(context.Background()))
	require.NoError(t, ReadinessGroup{}.CheckReadiness(context.Background()))

	err := ReadinessGroup{ok, idle}.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline idle")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "city", "Dubai")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "Dubai", rec["city"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "debug", "TEXT").Debug("scan", "objects", 3)
	assert.Contains(t, buf.String(), "msg=scan objects=3")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestMetricsForTesting_Unregistered(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Lookups.WithLabelValues("found").Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.Lookups.WithLabelValues("found")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Lookups.WithLabelValues("found")), 0)
}
