package weather

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/couchcryptid/destination-weather-service/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

const (
	todayPrefix     = "events/2026/10/19/"
	yesterdayPrefix = "events/2026/10/18/"
)

var scanNow = time.Date(2026, time.October, 19, 0, 30, 0, 0, time.UTC)

func newTestScanner(store ObjectStore, opts ScanOptions) (*Scanner, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(scanNow)
	return NewScanner(store, opts, clock, discardLogger(), metrics), metrics
}

func TestDatePrefix(t *testing.T) {
	day := time.Date(2026, time.March, 5, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "events/2026/03/05/", DatePrefix("events")(day))
	assert.Equal(t, "raw/events/2026/03/05/", DatePrefix("/raw/events/")(day))
	assert.Equal(t, "2026/03/05/", DatePrefix("")(day))
}

func TestScanner_Partitions(t *testing.T) {
	s, _ := newTestScanner(newMemStore(), ScanOptions{})
	assert.Equal(t, []string{todayPrefix, yesterdayPrefix}, s.Partitions())
}

func TestScanner_Partitions_UsesUTCAcrossYearBoundary(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2027, time.January, 1, 3, 0, 0, 0, time.FixedZone("EST", -5*3600)))
	s := NewScanner(newMemStore(), ScanOptions{}, clock, discardLogger(), observability.NewMetricsForTesting())

	assert.Equal(t, []string{"events/2027/01/01/", "events/2026/12/31/"}, s.Partitions())
}

func TestScanner_ListRecent_MergesNewestFirst(t *testing.T) {
	store := newMemStore()
	store.put(yesterdayPrefix+"a.json", scanNow.Add(-3*time.Hour), "{}")
	store.put(todayPrefix+"b.json", scanNow.Add(-10*time.Minute), "{}")
	store.put(yesterdayPrefix+"c.json", scanNow.Add(-1*time.Hour), "{}")
	store.put("events/2026/10/17/old.json", scanNow.Add(-30*time.Hour), "{}")

	s, _ := newTestScanner(store, ScanOptions{})
	got := s.ListRecent(context.Background())

	want := []string{todayPrefix + "b.json", yesterdayPrefix + "c.json", yesterdayPrefix + "a.json"}
	if diff := cmp.Diff(want, keys(got)); diff != "" {
		t.Fatalf("scan order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, store.lists())
}

func TestScanner_ListRecent_CapsToBudget(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 30; i++ {
		store.put(fmt.Sprintf("%s%02d.json", todayPrefix, i), scanNow.Add(-time.Duration(i)*time.Second), "{}")
		store.put(fmt.Sprintf("%s%02d.json", yesterdayPrefix, i), scanNow.Add(-time.Hour-time.Duration(i)*time.Second), "{}")
	}

	s, _ := newTestScanner(store, ScanOptions{})
	got := s.ListRecent(context.Background())

	assert.Len(t, got, DefaultScanBudget)
	assert.Equal(t, todayPrefix+"00.json", got[0].Key)
	assert.Equal(t, yesterdayPrefix+"19.json", got[len(got)-1].Key)
}

func TestScanner_ListRecent_MaxKeysPerPartition(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 5; i++ {
		store.put(fmt.Sprintf("%s%d.json", todayPrefix, i), scanNow, "{}")
	}

	s, _ := newTestScanner(store, ScanOptions{MaxKeysPerPartition: 2, Budget: 10})
	assert.Len(t, s.ListRecent(context.Background()), 2)
}

func TestScanner_ListRecent_PartitionFailureIsEmpty(t *testing.T) {
	store := newMemStore()
	store.put(todayPrefix+"t.json", scanNow, "{}")
	store.put(yesterdayPrefix+"y.json", scanNow.Add(-time.Hour), "{}")
	store.listErrs[todayPrefix] = errUnavailable

	s, metrics := newTestScanner(store, ScanOptions{})
	got := s.ListRecent(context.Background())

	assert.Equal(t, []string{yesterdayPrefix + "y.json"}, keys(got))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PartitionListFails), 0)
}

func TestScanner_ListRecent_BothPartitionsFail(t *testing.T) {
	store := newMemStore()
	store.listErrs[todayPrefix] = errUnavailable
	store.listErrs[yesterdayPrefix] = errUnavailable

	s, _ := newTestScanner(store, ScanOptions{})
	assert.Empty(t, s.ListRecent(context.Background()))
}

func keys(objs []domain.ObjectInfo) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Key
	}
	return out
}
