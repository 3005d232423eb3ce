package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ObjectInfo describes one object in the event store before its bytes are fetched.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// Candidate is a weather payload pulled out of a raw event. Numeric fields
// are nil when missing or not JSON numbers; the unit of Temperature is unknown.
type Candidate struct {
	City        string
	Temperature *float64
	Humidity    *float64
	Weather     string
	Sunrise     *int64 // unix seconds
	Sunset      *int64 // unix seconds
}

// WeatherResult is the formatted observation handed to email rendering.
type WeatherResult struct {
	City                  string    `json:"city"`
	TemperatureCelsius    float64   `json:"temperature_celsius"`
	TemperatureFahrenheit float64   `json:"temperature_fahrenheit"`
	Humidity              int       `json:"humidity"`
	Weather               string    `json:"weather"`
	Icon                  string    `json:"icon"`
	Sunrise               string    `json:"sunrise,omitempty"` // "6:42 AM"
	Sunset                string    `json:"sunset,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
	ObservedAt            time.Time `json:"observed_at"`
	SourceKey             string    `json:"source_key"`
}

// RawEvent is an unprocessed message from the booking source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// BookingEvent is a booking confirmation awaiting its transactional email.
// Fields other than the ones the enricher reads are carried through untouched.
type BookingEvent struct {
	BookingID       string `json:"booking_id"`
	Email           string `json:"email"`
	DestinationCity string `json:"destination_city"`
	TravelDate      string `json:"travel_date,omitempty"`

	// fields holds every top-level member of the source document so that
	// attributes this service does not read survive enrichment.
	fields map[string]json.RawMessage
}

// EnrichedBooking is the message the email renderer consumes. Weather is nil
// when no usable observation was found; the email is then sent without a
// weather section.
type EnrichedBooking struct {
	BookingEvent
	Weather    *WeatherResult `json:"weather"`
	EnrichedAt time.Time      `json:"enriched_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
