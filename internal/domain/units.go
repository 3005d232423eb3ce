package domain

import "math"

// TemperatureUnit identifies the scale of a raw temperature reading.
type TemperatureUnit string

const (
	UnitAuto       TemperatureUnit = "auto"
	UnitCelsius    TemperatureUnit = "C"
	UnitFahrenheit TemperatureUnit = "F"
	UnitKelvin     TemperatureUnit = "K"
)

// Plausible Earth-surface air temperature, in degrees Celsius.
const (
	MinCelsius = -50.0
	MaxCelsius = 60.0
)

// DetectUnit classifies an untagged reading by magnitude. Upstream events
// carry no unit, but surface temperatures in Kelvin, Fahrenheit and Celsius
// occupy disjoint ranges:
//
//	raw > 200          Kelvin
//	50 <= raw <= 150   Fahrenheit
//	-50 <= raw <= 60   Celsius (only when not already Fahrenheit)
//
// Anything else, notably (150, 200], is unclassifiable and reported as false.
// The 50–60 overlap resolves to Fahrenheit. These thresholds are not
// confirmed against the producer; do not change them without checking how
// upstream tags units.
func DetectUnit(raw float64) (TemperatureUnit, bool) {
	switch {
	case math.IsNaN(raw) || math.IsInf(raw, 0):
		return "", false
	case raw > 200:
		return UnitKelvin, true
	case raw >= 50 && raw <= 150:
		return UnitFahrenheit, true
	case raw >= MinCelsius && raw <= MaxCelsius:
		return UnitCelsius, true
	default:
		return "", false
	}
}

// ToCelsius converts a raw reading to Celsius rounded to one decimal. It
// reports false when the unit cannot be detected or the converted value
// falls outside the plausible range.
func ToCelsius(raw float64) (float64, bool) {
	unit, ok := DetectUnit(raw)
	if !ok {
		return 0, false
	}
	c := round1(celsiusFrom(raw, unit))
	if c < MinCelsius || c > MaxCelsius {
		return 0, false
	}
	return c, true
}

// IsValidTemperature reports whether raw converts to a plausible Celsius value.
func IsValidTemperature(raw float64) bool {
	_, ok := ToCelsius(raw)
	return ok
}

// ToFahrenheit converts a raw reading to Fahrenheit rounded to one decimal.
// With UnitAuto the unit is detected by magnitude and the converted value
// must be plausible; an explicit hint skips detection. Readings already in
// Fahrenheit pass through.
func ToFahrenheit(raw float64, hint TemperatureUnit) (float64, bool) {
	unit := hint
	if hint == "" || hint == UnitAuto {
		if !IsValidTemperature(raw) {
			return 0, false
		}
		unit, _ = DetectUnit(raw)
	}

	switch unit {
	case UnitFahrenheit:
		return round1(raw), true
	case UnitCelsius, UnitKelvin:
		return round1(celsiusFrom(raw, unit)*9/5 + 32), true
	default:
		return 0, false
	}
}

func celsiusFrom(raw float64, unit TemperatureUnit) float64 {
	switch unit {
	case UnitKelvin:
		return raw - 273.15
	case UnitFahrenheit:
		return (raw - 32) * 5 / 9
	default:
		return raw
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
