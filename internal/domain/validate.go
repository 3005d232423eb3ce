package domain

import "fmt"

// ValidateCandidate checks field presence, types and ranges. It requires a
// city, a numeric temperature whose unit can be detected, a numeric humidity
// in [0, 100] and a non-empty condition. Errors wrap ErrValidation.
func ValidateCandidate(c Candidate) error {
	if c.City == "" {
		return fmt.Errorf("%w: missing city", ErrValidation)
	}
	if c.Temperature == nil {
		return fmt.Errorf("%w: temperature missing or not numeric", ErrValidation)
	}
	if !IsValidTemperature(*c.Temperature) {
		return fmt.Errorf("%w: temperature %g out of range or unit ambiguous", ErrValidation, *c.Temperature)
	}
	if c.Humidity == nil {
		return fmt.Errorf("%w: humidity missing or not numeric", ErrValidation)
	}
	if h := *c.Humidity; h < 0 || h > 100 {
		return fmt.Errorf("%w: humidity %g outside [0, 100]", ErrValidation, h)
	}
	if c.Weather == "" {
		return fmt.Errorf("%w: missing weather condition", ErrValidation)
	}
	return nil
}
