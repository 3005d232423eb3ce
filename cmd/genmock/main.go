// Command genmock turns a CSV of observations into weather event objects laid
// out the way upstream producers write them (PREFIX/yyyy/mm/dd/KEY.json). The
// output directory can be synced to a development bucket, and -fixture writes
// the same objects as the JSON fixture used by the pipeline tests.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/observations.csv \
//	  -out-dir tmp/bucket \
//	  -fixture data/mock/weather_events.json \
//	  -now 2026-10-19T06:00:00Z
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/weather"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type fixtureObject struct {
	Key          string          `json:"key"`
	LastModified time.Time       `json:"last_modified"`
	Body         json.RawMessage `json:"body"`
}

func run() error {
	csvPath := flag.String("csv", "", "CSV of observations")
	outDir := flag.String("out-dir", "", "directory to write event objects into")
	fixture := flag.String("fixture", "", "optional path for the JSON fixture")
	prefix := flag.String("prefix", weather.DefaultEventsPrefix, "event key prefix")
	nowFlag := flag.String("now", "", "reference time (RFC 3339), defaults to the current time")
	flag.Parse()

	if *csvPath == "" || (*outDir == "" && *fixture == "") {
		flag.Usage()
		return errors.New("missing required flags: -csv and one of -out-dir, -fixture")
	}

	now := time.Now().UTC()
	if *nowFlag != "" {
		t, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			return fmt.Errorf("parse -now: %w", err)
		}
		now = t.UTC()
	}

	rows, err := readRows(*csvPath)
	if err != nil {
		return err
	}

	partition := weather.DatePrefix(*prefix)
	objects := make([]fixtureObject, 0, len(rows))
	for i, row := range rows {
		obj, err := buildObject(row, now, partition)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		objects = append(objects, obj)
	}

	if *outDir != "" {
		for _, obj := range objects {
			path := filepath.Join(*outDir, filepath.FromSlash(obj.Key))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, obj.Body, 0o644); err != nil { //nolint:gosec // fixture data
				return err
			}
			if err := os.Chtimes(path, obj.LastModified, obj.LastModified); err != nil {
				return err
			}
		}
		log.Printf("wrote %d objects under %s", len(objects), *outDir)
	}

	if *fixture != "" {
		data, err := json.MarshalIndent(objects, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(*fixture, append(data, '\n'), 0o644); err != nil { //nolint:gosec // fixture data
			return err
		}
		log.Printf("wrote fixture: %s", *fixture)
	}
	return nil
}

func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("no data rows")
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// buildObject renders one row as a variant A ("payload") or variant B
// ("xdm") event. Blank numeric cells are omitted from the payload.
func buildObject(row map[string]string, now time.Time, partition weather.PrefixFunc) (fixtureObject, error) {
	minutes, err := strconv.Atoi(row["minutes_ago"])
	if err != nil {
		return fixtureObject{}, fmt.Errorf("minutes_ago: %w", err)
	}
	modified := now.Add(-time.Duration(minutes) * time.Minute)

	fields := map[string]any{"city": row["city"], "weather": row["weather"]}
	for _, name := range []string{"temperature", "humidity", "sunrise", "sunset"} {
		if row[name] == "" {
			continue
		}
		v, err := strconv.ParseFloat(row[name], 64)
		if err != nil {
			return fixtureObject{}, fmt.Errorf("%s: %w", name, err)
		}
		fields[name] = v
	}

	var doc map[string]any
	switch row["variant"] {
	case "payload", "":
		doc = map[string]any{"data": map[string]any{"payload": fields}}
	case "xdm":
		delete(fields, "weather")
		fields["condition"] = row["weather"]
		doc = map[string]any{"data": map[string]any{"xdm": map[string]any{
			"customFields": map[string]any{"weather": fields},
		}}}
	default:
		return fixtureObject{}, fmt.Errorf("unknown variant %q", row["variant"])
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fixtureObject{}, err
	}
	slug := strings.ToLower(strings.ReplaceAll(row["city"], " ", "-"))
	key := fmt.Sprintf("%s%s-%s.json", partition(modified), modified.Format("1504"), slug)
	return fixtureObject{Key: key, LastModified: modified, Body: body}, nil
}
