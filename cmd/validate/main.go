// Command validate checks the data this service depends on before it is
// shipped: the airport registry, a set of weather event objects (a directory
// tree or the JSON fixture) and booking samples. Every event object is run
// through the same extract and validate steps the lookup uses, and the
// outcome per object is reported.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -registry data/airports.json \
//	  -events data/mock/weather_events.json \
//	  -bookings data/mock/bookings.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/destination-weather-service/internal/adapter/registry"
	"github.com/couchcryptid/destination-weather-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	notes  []string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type eventObject struct {
	Key  string
	Body []byte
}

func main() {
	registryPath := flag.String("registry", "", "airport registry JSON")
	eventsPath := flag.String("events", "", "event fixture JSON or a directory of event objects")
	bookingsPath := flag.String("bookings", "", "optional booking samples JSON array")
	strict := flag.Bool("strict", false, "fail when any event object would be skipped")
	flag.Parse()

	if *registryPath == "" || *eventsPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(os.Stdout, *registryPath, *eventsPath, *bookingsPath, *strict))
}

func run(w io.Writer, registryPath, eventsPath, bookingsPath string, strict bool) int {
	fmt.Fprintln(w, "=== Destination Weather Data Validation ===")

	records, err := registry.ReadFile(registryPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load registry: %v\n", err)
		return 1
	}
	objects, err := loadEvents(eventsPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load events: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRegistry(records),
		validateEvents(objects, domain.NewResolver(domain.NewAliasTable(records)), strict),
	}
	if bookingsPath != "" {
		phases = append(phases, validateBookings(bookingsPath))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Fprintf(w, "\n[%s] %s\n", status, p.name)
		for _, n := range p.notes {
			fmt.Fprintf(w, "  %s\n", n)
		}
		for _, e := range p.errors {
			fmt.Fprintf(w, "  ERROR: %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Fprintln(w, "\nAll checks passed.")
	return 0
}

func validateRegistry(records []domain.AirportRecord) *phase {
	p := &phase{name: "Airport registry"}
	seen := make(map[string]string, len(records))
	for _, r := range records {
		if len(r.Code) != 3 || strings.ToUpper(r.Code) != r.Code {
			p.errorf("%s: code %q is not a three-letter code", r.City, r.Code)
			continue
		}
		if prev, dup := seen[r.Code]; dup && prev != r.City {
			p.errorf("code %s maps to both %s and %s", r.Code, prev, r.City)
		}
		seen[r.Code] = r.City
	}
	p.notef("%d airport codes", len(seen))
	return p
}

func validateEvents(objects []eventObject, resolver *domain.Resolver, strict bool) *phase {
	p := &phase{name: "Weather event objects"}
	outcomes := map[string]int{}

	for _, obj := range objects {
		c, err := domain.Extract(obj.Body)
		if err == nil {
			err = domain.ValidateCandidate(c)
		}
		if err != nil {
			reason := domain.SkipReason(err)
			outcomes[reason]++
			p.notef("%s: skipped (%s): %v", obj.Key, reason, err)
			if strict {
				p.errorf("%s would be skipped", obj.Key)
			}
			continue
		}
		outcomes["usable"]++
		p.notef("%s: %s", obj.Key, resolver.Normalize(c.City))
	}

	if len(objects) == 0 {
		p.errorf("no event objects found")
	}
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.notef("%s: %d", k, outcomes[k])
	}
	return p
}

func validateBookings(path string) *phase {
	p := &phase{name: "Booking samples"}
	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read %s: %v", path, err)
		return p
	}
	var bookings []json.RawMessage
	if err := json.Unmarshal(data, &bookings); err != nil {
		p.errorf("decode %s: %v", path, err)
		return p
	}
	for i, b := range bookings {
		if _, err := domain.ParseBookingEvent(domain.RawEvent{Value: b}); err != nil {
			p.errorf("booking %d: %v", i, err)
		}
	}
	p.notef("%d bookings", len(bookings))
	return p
}

// loadEvents accepts either a JSON fixture ([{key, body}]) or a directory
// whose *.json files are treated as event objects keyed by relative path.
func loadEvents(path string) ([]eventObject, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var fixture []struct {
			Key  string          `json:"key"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &fixture); err != nil {
			return nil, fmt.Errorf("decode fixture: %w", err)
		}
		out := make([]eventObject, 0, len(fixture))
		for _, f := range fixture {
			out = append(out, eventObject{Key: f.Key, Body: f.Body})
		}
		return out, nil
	}

	var out []eventObject
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".json") {
			return err
		}
		body, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(path, p)
		out = append(out, eventObject{Key: filepath.ToSlash(rel), Body: body})
		return nil
	})
	return out, err
}
