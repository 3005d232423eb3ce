// Package registry loads the airport registry document that seeds city
// alias resolution.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
)

type document struct {
	Airports []cityEntry `json:"airports"`
}

type cityEntry struct {
	City     string         `json:"city"`
	Country  string         `json:"country"`
	Airports []airportEntry `json:"airports"`
}

type airportEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Load reads the first registry found among paths. When none can be read or
// parsed it logs a warning and returns the built-in fallback table, so a
// missing registry never stops the service from starting.
func Load(paths []string, logger *slog.Logger) *domain.AliasTable {
	for _, path := range paths {
		records, err := ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("airport registry not found", "path", path)
			continue
		}
		if err != nil {
			logger.Warn("airport registry unreadable", "path", path, "error", err)
			continue
		}
		table := domain.NewAliasTable(records)
		logger.Info("airport registry loaded", "path", path, "codes", table.Len())
		return table
	}

	table := domain.FallbackAliasTable()
	logger.Warn("using fallback airport aliases", "paths", paths, "codes", table.Len())
	return table
}

// ReadFile parses one registry document into flat airport records.
func ReadFile(path string) ([]domain.AirportRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a registry document. Entries without a city are dropped; an
// empty document is a data format error.
func Parse(data []byte) ([]domain.AirportRecord, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: airport registry: %w", domain.ErrDataFormat, err)
	}

	var records []domain.AirportRecord
	for _, entry := range doc.Airports {
		city := strings.TrimSpace(entry.City)
		if city == "" {
			continue
		}
		for _, ap := range entry.Airports {
			records = append(records, domain.AirportRecord{
				Code:    strings.ToUpper(strings.TrimSpace(ap.Code)),
				City:    city,
				Country: entry.Country,
			})
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: airport registry has no airports", domain.ErrDataFormat)
	}
	return records, nil
}
