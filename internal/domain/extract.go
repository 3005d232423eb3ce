package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WeatherEvent is one of the two event shapes the ingestion pipeline writes:
// PayloadEvent or XDMEvent.
type WeatherEvent interface {
	// Candidate pulls the city and measurements out of the event.
	Candidate() (Candidate, error)
	weatherEvent()
}

// PayloadEvent carries its measurement at data.payload with the city inline.
type PayloadEvent struct {
	Payload map[string]any
}

// XDMEvent carries an experience-data document at data.xdm. The city and
// measurement object can sit in several places, see Candidate.
type XDMEvent struct {
	XDM map[string]any
}

func (PayloadEvent) weatherEvent() {}
func (XDMEvent) weatherEvent()     {}

type eventEnvelope struct {
	Data struct {
		Payload json.RawMessage `json:"payload"`
		XDM     json.RawMessage `json:"xdm"`
	} `json:"data"`
}

// ParseWeatherEvent decodes raw object bytes into a WeatherEvent. data.payload
// takes precedence when both shapes are present, unless the payload has no
// city, in which case data.xdm is used. Errors wrap ErrDataFormat.
func ParseWeatherEvent(raw []byte) (WeatherEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %w", ErrDataFormat, err)
	}
	hasXDM := isJSONObject(env.Data.XDM)

	if isJSONObject(env.Data.Payload) {
		var p map[string]any
		if err := json.Unmarshal(env.Data.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: decode data.payload: %w", ErrDataFormat, err)
		}
		if !hasXDM || stringField(p, "city") != "" {
			return PayloadEvent{Payload: p}, nil
		}
	}
	if hasXDM {
		var x map[string]any
		if err := json.Unmarshal(env.Data.XDM, &x); err != nil {
			return nil, fmt.Errorf("%w: decode data.xdm: %w", ErrDataFormat, err)
		}
		return XDMEvent{XDM: x}, nil
	}
	return nil, fmt.Errorf("%w: neither data.payload nor data.xdm present", ErrDataFormat)
}

// Extract parses raw bytes and returns the candidate payload they contain.
func Extract(raw []byte) (Candidate, error) {
	ev, err := ParseWeatherEvent(raw)
	if err != nil {
		return Candidate{}, err
	}
	return ev.Candidate()
}

var errNoCity = errors.New("no city field")

// Candidate reads city, temperature, humidity, condition and sun times
// directly from the payload object.
func (e PayloadEvent) Candidate() (Candidate, error) {
	city := stringField(e.Payload, "city")
	if city == "" {
		return Candidate{}, fmt.Errorf("%w: data.payload: %w", ErrDataFormat, errNoCity)
	}
	return measurementsFrom(city, e.Payload), nil
}

// Candidate looks for the city at customFields.weather.city, weather.city and
// placeContext.geoCity, in that order, and reads measurements from
// customFields.weather, falling back to weather.
func (e XDMEvent) Candidate() (Candidate, error) {
	custom := objectAt(e.XDM, "customFields", "weather")
	weather := objectAt(e.XDM, "weather")
	place := objectAt(e.XDM, "placeContext")

	city := firstNonEmpty(
		stringField(custom, "city"),
		stringField(weather, "city"),
		stringField(place, "geoCity"),
	)
	if city == "" {
		return Candidate{}, fmt.Errorf("%w: data.xdm: %w", ErrDataFormat, errNoCity)
	}

	m := custom
	if m == nil {
		m = weather
	}
	return measurementsFrom(city, m), nil
}

// MatchesTarget reports whether the candidate's city refers to target.
func MatchesTarget(r *Resolver, c Candidate, target string) bool {
	return r.Match(c.City, target)
}

func measurementsFrom(city string, m map[string]any) Candidate {
	return Candidate{
		City:        city,
		Temperature: numberField(m, "temperature"),
		Humidity:    numberField(m, "humidity"),
		Weather:     firstNonEmpty(stringField(m, "weather"), stringField(m, "condition")),
		Sunrise:     unixField(m, "sunrise"),
		Sunset:      unixField(m, "sunset"),
	}
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// objectAt walks nested objects, returning nil when any step is missing or
// not an object.
func objectAt(m map[string]any, path ...string) map[string]any {
	cur := m
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func numberField(m map[string]any, key string) *float64 {
	v, ok := m[key].(float64)
	if !ok {
		return nil
	}
	return &v
}

func unixField(m map[string]any, key string) *int64 {
	v := numberField(m, key)
	if v == nil {
		return nil
	}
	secs := int64(*v)
	return &secs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
