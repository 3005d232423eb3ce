package pipeline_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/couchcryptid/destination-weather-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	results     map[string]domain.WeatherResult
	calls       []string
	hadDeadline bool
}

func (f *fakeLookup) WeatherForCity(ctx context.Context, city string) (domain.WeatherResult, bool) {
	f.calls = append(f.calls, city)
	_, f.hadDeadline = ctx.Deadline()
	res, ok := f.results[city]
	return res, ok
}

func TestBookingEnricher_AttachesWeather(t *testing.T) {
	lookup := &fakeLookup{results: map[string]domain.WeatherResult{
		"Bombay": {City: "Mumbai", TemperatureCelsius: 29.9, Weather: "Clear", Icon: "☀️"},
	}}
	enricher := pipeline.NewBookingEnricher(lookup, 2*time.Second, discardLogger())

	out, err := enricher.Transform(context.Background(), domain.RawEvent{
		Value: []byte(`{"booking_id":"bk-7","email":"a@example.com","destination_city":"Bombay"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bombay"}, lookup.calls)
	assert.True(t, lookup.hadDeadline)
	assert.Equal(t, []byte("bk-7"), out.Key)
	assert.Equal(t, domain.WeatherAttached, out.Headers["weather"])

	var doc struct {
		Email   string                `json:"email"`
		Weather *domain.WeatherResult `json:"weather"`
	}
	require.NoError(t, json.Unmarshal(out.Value, &doc))
	assert.Equal(t, "a@example.com", doc.Email)
	require.NotNil(t, doc.Weather)
	assert.Equal(t, "Mumbai", doc.Weather.City)
}

func TestBookingEnricher_NoWeatherStillDelivers(t *testing.T) {
	lookup := &fakeLookup{}
	enricher := pipeline.NewBookingEnricher(lookup, 0, discardLogger())

	out, err := enricher.Transform(context.Background(), domain.RawEvent{
		Value: []byte(`{"booking_id":"bk-8","destination_city":"Atlantis"}`),
	})
	require.NoError(t, err)

	assert.False(t, lookup.hadDeadline)
	assert.Equal(t, domain.WeatherMissing, out.Headers["weather"])
	assert.Contains(t, string(out.Value), `"weather":null`)
}

func TestBookingEnricher_BlankDestinationSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	enricher := pipeline.NewBookingEnricher(lookup, time.Second, discardLogger())

	out, err := enricher.Transform(context.Background(), domain.RawEvent{
		Value: []byte(`{"booking_id":"bk-9","destination_city":"  "}`),
	})
	require.NoError(t, err)
	assert.Empty(t, lookup.calls)
	assert.Equal(t, domain.WeatherMissing, out.Headers["weather"])
}

func TestBookingEnricher_RejectsMalformedBooking(t *testing.T) {
	enricher := pipeline.NewBookingEnricher(&fakeLookup{}, time.Second, discardLogger())

	_, err := enricher.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	require.ErrorIs(t, err, domain.ErrDataFormat)

	_, err = enricher.Transform(context.Background(), domain.RawEvent{Value: []byte(`{"destination_city":"Dubai"}`)})
	require.ErrorIs(t, err, domain.ErrValidation)
}
