package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weather header values on enriched booking messages.
const (
	WeatherAttached = "attached"
	WeatherMissing  = "missing"
)

// ParseBookingEvent decodes a booking confirmation. The document must be a
// JSON object with a booking_id; a blank destination city is allowed and
// simply yields an email without weather.
func ParseBookingEvent(raw RawEvent) (BookingEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw.Value, &fields); err != nil {
		return BookingEvent{}, fmt.Errorf("%w: parse booking: %w", ErrDataFormat, err)
	}

	var b BookingEvent
	if err := json.Unmarshal(raw.Value, &b); err != nil {
		return BookingEvent{}, fmt.Errorf("%w: parse booking: %w", ErrDataFormat, err)
	}
	b.BookingID = strings.TrimSpace(b.BookingID)
	if b.BookingID == "" {
		return BookingEvent{}, fmt.Errorf("%w: booking_id is required", ErrValidation)
	}
	b.fields = fields
	return b, nil
}

// EnrichBooking attaches a weather observation, or nil when none was found,
// and stamps the enrichment time.
func EnrichBooking(b BookingEvent, weather *WeatherResult) EnrichedBooking {
	return EnrichedBooking{
		BookingEvent: b,
		Weather:      weather,
		EnrichedAt:   clock.Now().UTC(),
	}
}

// SerializeEnrichedBooking renders the sink message: the original booking
// document with weather and enriched_at set, keyed by booking ID.
func SerializeEnrichedBooking(e EnrichedBooking) (OutputEvent, error) {
	out := make(map[string]any, len(e.fields)+2)
	for k, v := range e.fields {
		out[k] = v
	}
	out["booking_id"] = e.BookingID
	out["weather"] = e.Weather
	out["enriched_at"] = e.EnrichedAt

	data, err := json.Marshal(out)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize enriched booking: %w", err)
	}

	status := WeatherMissing
	if e.Weather != nil {
		status = WeatherAttached
	}
	return OutputEvent{
		Key:   []byte(e.BookingID),
		Value: data,
		Headers: map[string]string{
			"weather":     status,
			"enriched_at": e.EnrichedAt.Format(time.RFC3339),
		},
	}, nil
}
