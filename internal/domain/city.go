package domain

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// airportCodeRe matches an IATA-style location code such as "DXB".
var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// AirportRecord is one airport entry from the registry document.
type AirportRecord struct {
	Code    string
	City    string
	Country string
}

// AliasSource records where an AliasTable came from.
type AliasSource string

const (
	AliasSourceLoaded   AliasSource = "loaded"
	AliasSourceFallback AliasSource = "fallback"
)

// historicalNames maps a canonical city to former or colloquial spellings
// still found in upstream events and booking data.
var historicalNames = map[string][]string{
	"Bengaluru":        {"Bangalore"},
	"Mumbai":           {"Bombay"},
	"Chennai":          {"Madras"},
	"Kolkata":          {"Calcutta"},
	"Pune":             {"Poona"},
	"Gurugram":         {"Gurgaon"},
	"Kochi":            {"Cochin"},
	"Beijing":          {"Peking"},
	"Yangon":           {"Rangoon"},
	"Ho Chi Minh City": {"Saigon"},
	"Kyiv":             {"Kiev"},
	"Almaty":           {"Alma-Ata"},
	"Astana":           {"Nur-Sultan"},
}

// fallbackAirports covers the busiest routes when no registry document can
// be loaded.
var fallbackAirports = []AirportRecord{
	{Code: "DXB", City: "Dubai", Country: "United Arab Emirates"},
	{Code: "AUH", City: "Abu Dhabi", Country: "United Arab Emirates"},
	{Code: "DOH", City: "Doha", Country: "Qatar"},
	{Code: "BOM", City: "Mumbai", Country: "India"},
	{Code: "DEL", City: "Delhi", Country: "India"},
	{Code: "BLR", City: "Bengaluru", Country: "India"},
	{Code: "MAA", City: "Chennai", Country: "India"},
	{Code: "CCU", City: "Kolkata", Country: "India"},
	{Code: "HYD", City: "Hyderabad", Country: "India"},
	{Code: "GOI", City: "Goa", Country: "India"},
	{Code: "SIN", City: "Singapore", Country: "Singapore"},
	{Code: "BKK", City: "Bangkok", Country: "Thailand"},
	{Code: "HKG", City: "Hong Kong", Country: "Hong Kong"},
	{Code: "NRT", City: "Tokyo", Country: "Japan"},
	{Code: "HND", City: "Tokyo", Country: "Japan"},
	{Code: "SYD", City: "Sydney", Country: "Australia"},
	{Code: "LHR", City: "London", Country: "United Kingdom"},
	{Code: "CDG", City: "Paris", Country: "France"},
	{Code: "FRA", City: "Frankfurt", Country: "Germany"},
	{Code: "AMS", City: "Amsterdam", Country: "Netherlands"},
	{Code: "IST", City: "Istanbul", Country: "Turkey"},
	{Code: "JFK", City: "New York", Country: "United States"},
	{Code: "EWR", City: "New York", Country: "United States"},
	{Code: "LAX", City: "Los Angeles", Country: "United States"},
	{Code: "SFO", City: "San Francisco", Country: "United States"},
	{Code: "ORD", City: "Chicago", Country: "United States"},
	{Code: "YYZ", City: "Toronto", Country: "Canada"},
}

// AliasTable resolves airport codes and name variants to a canonical city.
// It is immutable after construction and safe for concurrent reads.
type AliasTable struct {
	source   AliasSource
	byCode   map[string]string   // "DXB" -> "Dubai"
	byAlias  map[string]string   // lower-cased alias or canonical -> canonical
	variants map[string][]string // canonical -> codes and former names
}

// NewAliasTable folds registry records and the historical rename table into
// a table whose source is AliasSourceLoaded.
func NewAliasTable(records []AirportRecord) *AliasTable {
	return buildAliasTable(AliasSourceLoaded, records)
}

// FallbackAliasTable builds the minimal table used when the registry is
// unavailable.
func FallbackAliasTable() *AliasTable {
	return buildAliasTable(AliasSourceFallback, fallbackAirports)
}

func buildAliasTable(source AliasSource, records []AirportRecord) *AliasTable {
	t := &AliasTable{
		source:   source,
		byCode:   make(map[string]string, len(records)),
		byAlias:  make(map[string]string, len(records)*2),
		variants: make(map[string][]string),
	}

	renamed := make(map[string]string)
	for canonical, olds := range historicalNames {
		for _, old := range olds {
			renamed[strings.ToLower(old)] = canonical
		}
	}
	canonicalOf := func(city string) string {
		if c, ok := renamed[strings.ToLower(city)]; ok {
			return c
		}
		return city
	}

	for _, r := range records {
		code := strings.ToUpper(strings.TrimSpace(r.Code))
		city := canonicalOf(strings.TrimSpace(r.City))
		if city == "" {
			continue
		}
		t.byAlias[strings.ToLower(city)] = city
		if !airportCodeRe.MatchString(code) {
			continue
		}
		if _, seen := t.byCode[code]; !seen {
			t.byCode[code] = city
			t.addVariant(city, code)
		}
	}

	for canonical, olds := range historicalNames {
		t.byAlias[strings.ToLower(canonical)] = canonical
		for _, old := range olds {
			t.byAlias[strings.ToLower(old)] = canonical
			t.addVariant(canonical, old)
		}
	}

	for _, v := range t.variants {
		slices.Sort(v)
	}
	return t
}

func (t *AliasTable) addVariant(canonical, variant string) {
	if slices.Contains(t.variants[canonical], variant) {
		return
	}
	t.variants[canonical] = append(t.variants[canonical], variant)
}

// Source reports whether the table was loaded from a registry or built from
// the fallback list.
func (t *AliasTable) Source() AliasSource { return t.source }

// Len returns the number of airport codes known to the table.
func (t *AliasTable) Len() int { return len(t.byCode) }

// CityForCode returns the canonical city for an upper-case airport code.
func (t *AliasTable) CityForCode(code string) (string, bool) {
	city, ok := t.byCode[code]
	return city, ok
}

// Canonical looks up a city or alias case-insensitively.
func (t *AliasTable) Canonical(name string) (string, bool) {
	city, ok := t.byAlias[strings.ToLower(strings.TrimSpace(name))]
	return city, ok
}

// Variants returns the known codes and former names of a canonical city.
func (t *AliasTable) Variants(canonical string) []string {
	return slices.Clone(t.variants[canonical])
}

// Resolver normalizes free-text city names and airport codes.
type Resolver struct {
	table *AliasTable
}

// NewResolver wraps an alias table. A nil table falls back to the built-in list.
func NewResolver(table *AliasTable) *Resolver {
	if table == nil {
		table = FallbackAliasTable()
	}
	return &Resolver{table: table}
}

// Table exposes the underlying alias table for diagnostics.
func (r *Resolver) Table() *AliasTable { return r.table }

// Normalize maps input to its canonical city name: airport code first, then
// alias lookup, then title-casing of each whitespace-separated token.
// Returns "" for blank input.
func (r *Resolver) Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if airportCodeRe.MatchString(s) {
		if city, ok := r.table.CityForCode(s); ok {
			return city
		}
	}
	if city, ok := r.table.Canonical(s); ok {
		return city
	}
	return titleCase(s)
}

// Match reports whether two city strings refer to the same place. After
// normalization the names must be equal or one must contain the other, so
// "New York" matches "New York City". Short names can false-positive.
func (r *Resolver) Match(a, b string) bool {
	na := strings.ToLower(r.Normalize(a))
	nb := strings.ToLower(r.Normalize(b))
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
