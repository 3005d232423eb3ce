package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
)

// WeatherLookup resolves the latest weather for a destination city.
type WeatherLookup interface {
	WeatherForCity(ctx context.Context, city string) (domain.WeatherResult, bool)
}

// BookingEnricher implements Transformer by attaching destination weather to
// booking confirmations. A lookup that finds nothing, or runs out of time,
// still produces a message; the email is rendered without weather.
type BookingEnricher struct {
	weather WeatherLookup
	timeout time.Duration
	logger  *slog.Logger
}

// NewBookingEnricher creates a BookingEnricher. Each lookup is bounded by
// timeout; zero means no bound beyond the caller's context.
func NewBookingEnricher(weather WeatherLookup, timeout time.Duration, logger *slog.Logger) *BookingEnricher {
	return &BookingEnricher{weather: weather, timeout: timeout, logger: logger}
}

func (e *BookingEnricher) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	booking, err := domain.ParseBookingEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	var weather *domain.WeatherResult
	if strings.TrimSpace(booking.DestinationCity) != "" {
		weather = e.lookup(ctx, booking.DestinationCity)
	}
	if weather == nil {
		e.logger.Info("sending booking email without weather",
			"booking_id", booking.BookingID,
			"destination", booking.DestinationCity,
		)
	}

	return domain.SerializeEnrichedBooking(domain.EnrichBooking(booking, weather))
}

func (e *BookingEnricher) lookup(ctx context.Context, city string) *domain.WeatherResult {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	res, ok := e.weather.WeatherForCity(ctx, city)
	if !ok {
		return nil
	}
	return &res
}
