package domain

import "errors"

// Error kinds produced while resolving weather. None of them ever escapes the
// lookup service; they drive logging and metric labels only.
var (
	// ErrConfiguration means the object store is not configured. The lookup
	// feature is disabled for the lifetime of the process.
	ErrConfiguration = errors.New("weather lookup not configured")

	// ErrTransientIO covers listing and fetch failures scoped to a single
	// partition or object.
	ErrTransientIO = errors.New("object store i/o")

	// ErrDataFormat covers malformed JSON, unknown schema shapes and payloads
	// without a resolvable city.
	ErrDataFormat = errors.New("unrecognized weather event")

	// ErrValidation covers missing fields and out-of-range values, including
	// temperatures whose unit cannot be determined.
	ErrValidation = errors.New("invalid weather payload")
)

// SkipReason maps a per-object failure to a short metric label.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrTransientIO):
		return "fetch"
	case errors.Is(err, ErrDataFormat):
		return "format"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "other"
	}
}
