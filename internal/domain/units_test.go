package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectUnit(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		unit TemperatureUnit
		ok   bool
	}{
		{"kelvin", 298, UnitKelvin, true},
		{"just above kelvin threshold", 200.1, UnitKelvin, true},
		{"fahrenheit lower edge", 50, UnitFahrenheit, true},
		{"fahrenheit upper edge", 150, UnitFahrenheit, true},
		{"overlap resolves to fahrenheit", 55, UnitFahrenheit, true},
		{"celsius", 21, UnitCelsius, true},
		{"celsius lower edge", -50, UnitCelsius, true},
		{"gap", 175, "", false},
		{"gap upper edge", 200, "", false},
		{"too cold", -60, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, ok := DetectUnit(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestToCelsius(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected float64
		ok       bool
	}{
		{"kelvin 298", 298, 24.9, true},
		{"kelvin 303", 303, 29.9, true},
		{"kelvin freezing", 273.15, 0, true},
		{"fahrenheit 75", 75, 23.9, true},
		{"fahrenheit 100", 100, 37.8, true},
		{"celsius passthrough", 18.44, 18.4, true},
		{"negative celsius", -12.3, -12.3, true},
		{"gap rejected", 151, 0, false},
		{"gap upper rejected", 199.9, 0, false},
		{"kelvin too hot", 400, 0, false},
		{"kelvin too cold", 210, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ToCelsius(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, c, 1e-9)
		})
	}
}

func TestToCelsius_KelvinProperty(t *testing.T) {
	for raw := 223.5; raw <= 333.0; raw += 0.7 {
		c, ok := ToCelsius(raw)
		if assert.True(t, ok, "raw=%v", raw) {
			assert.InDelta(t, round1(raw-273.15), c, 1e-9, "raw=%v", raw)
		}
	}
}

func TestToCelsius_FahrenheitProperty(t *testing.T) {
	for raw := 50.0; raw <= 140.0; raw += 0.5 {
		c, ok := ToCelsius(raw)
		if assert.True(t, ok, "raw=%v", raw) {
			assert.InDelta(t, round1((raw-32)*5/9), c, 1e-9, "raw=%v", raw)
		}
	}
}

func TestIsValidTemperature_GapAlwaysFails(t *testing.T) {
	for raw := 150.5; raw <= 200; raw += 0.5 {
		assert.False(t, IsValidTemperature(raw), "raw=%v", raw)
	}
}

func TestToFahrenheit(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		hint     TemperatureUnit
		expected float64
		ok       bool
	}{
		{"auto kelvin", 303, UnitAuto, 85.7, true},
		{"auto fahrenheit passthrough", 75, UnitAuto, 75, true},
		{"auto celsius", 20, UnitAuto, 68, true},
		{"empty hint is auto", 0, "", 32, true},
		{"auto gap rejected", 180, UnitAuto, 0, false},
		{"explicit celsius skips detection", 55, UnitCelsius, 131, true},
		{"explicit kelvin", 273.15, UnitKelvin, 32, true},
		{"unknown hint", 20, TemperatureUnit("R"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ToFahrenheit(tt.raw, tt.hint)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, f, 1e-9)
		})
	}
}
