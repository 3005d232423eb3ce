package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// nonAlnumRe matches runs of characters that are not letters or digits in any script.
var nonAlnumRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// CacheKey sanitizes a queried city: lower-cased, with every run of
// characters other than letters and digits collapsed to "-" and the ends
// trimmed. Names in any script keep their letters, so "東京" and "北京" get
// distinct keys. The key is empty only for input without letters or digits.
func CacheKey(city string) string {
	key := nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(city)), "-")
	return strings.Trim(key, "-")
}

// iconRules are checked in order; the first keyword found in the condition wins.
var iconRules = []struct {
	keyword string
	icon    string
}{
	{"clear", "☀️"},
	{"cloud", "☁️"},
	{"rain", "🌧️"},
	{"snow", "❄️"},
	{"mist", "🌫️"},
	{"wind", "💨"},
}

// DefaultIcon is used for conditions that match no keyword.
const DefaultIcon = "🌤️"

// WeatherIcon derives a display icon from a free-text condition.
func WeatherIcon(condition string) string {
	c := strings.ToLower(condition)
	for _, r := range iconRules {
		if strings.Contains(c, r.keyword) {
			return r.icon
		}
	}
	return DefaultIcon
}

// Sun times outside these years are treated as garbage rather than formatted.
const (
	minSunYear = 2000
	maxSunYear = 2100
)

// FormatSunTime renders a unix timestamp as "6:42 AM" in loc. It returns ""
// for nil or implausible timestamps.
func FormatSunTime(unix *int64, loc *time.Location) string {
	if unix == nil {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	t := time.Unix(*unix, 0).In(loc)
	if y := t.Year(); y < minSunYear || y > maxSunYear {
		return ""
	}
	return t.Format("3:04 PM")
}

// BuildResult converts a validated candidate into a WeatherResult. The city
// is reported as the normalized target the caller asked for.
func BuildResult(city string, c Candidate, obj ObjectInfo, loc *time.Location) (WeatherResult, error) {
	if err := ValidateCandidate(c); err != nil {
		return WeatherResult{}, err
	}
	celsius, ok := ToCelsius(*c.Temperature)
	if !ok {
		return WeatherResult{}, fmt.Errorf("%w: temperature %g", ErrValidation, *c.Temperature)
	}
	fahrenheit, ok := ToFahrenheit(*c.Temperature, UnitAuto)
	if !ok {
		return WeatherResult{}, fmt.Errorf("%w: temperature %g", ErrValidation, *c.Temperature)
	}

	return WeatherResult{
		City:                  city,
		TemperatureCelsius:    celsius,
		TemperatureFahrenheit: fahrenheit,
		Humidity:              int(math.Round(*c.Humidity)),
		Weather:               c.Weather,
		Icon:                  WeatherIcon(c.Weather),
		Sunrise:               FormatSunTime(c.Sunrise, loc),
		Sunset:                FormatSunTime(c.Sunset, loc),
		Timestamp:             clock.Now().UTC(),
		ObservedAt:            obj.LastModified.UTC(),
		SourceKey:             obj.Key,
	}, nil
}
