package s3store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "weather-events"

// fakeS3 serves just enough of the S3 REST API for ListObjectsV2 and GetObject
// in path-style addressing.
func fakeS3(t *testing.T, objects map[string]string, modified time.Time) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/"+testBucket)

		if r.URL.Query().Get("list-type") == "2" {
			prefix := r.URL.Query().Get("prefix")
			if strings.HasPrefix(prefix, "missing/") {
				writeS3Error(w, http.StatusNotFound, "NoSuchBucket")
				return
			}
			var b strings.Builder
			b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
			b.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
			fmt.Fprintf(&b, "<Name>%s</Name><Prefix>%s</Prefix><MaxKeys>%s</MaxKeys><IsTruncated>false</IsTruncated>",
				testBucket, prefix, r.URL.Query().Get("max-keys"))
			for key := range objects {
				if strings.HasPrefix(key, prefix) {
					fmt.Fprintf(&b, "<Contents><Key>%s</Key><LastModified>%s</LastModified><Size>%d</Size></Contents>",
						key, modified.Format("2006-01-02T15:04:05.000Z"), len(objects[key]))
				}
			}
			b.WriteString(`</ListBucketResult>`)
			w.Header().Set("Content-Type", "application/xml")
			_, _ = io.WriteString(w, b.String())
			return
		}

		body, ok := objects[strings.TrimPrefix(path, "/")]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>not found</Message></Error>`, code)
}

func newTestStore(t *testing.T, endpoint string) *Store {
	t.Helper()
	store, err := New(context.Background(), Options{
		Bucket:          testBucket,
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return store
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{Region: "us-east-1"}, slog.Default())
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestStore_List(t *testing.T) {
	modified := time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC)
	srv := fakeS3(t, map[string]string{
		"events/2026/10/19/a.json": `{"data":{}}`,
		"events/2026/10/18/b.json": `{"data":{}}`,
	}, modified)
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	objs, err := store.List(context.Background(), "events/2026/10/19/", 100)
	require.NoError(t, err)

	require.Len(t, objs, 1)
	assert.Equal(t, "events/2026/10/19/a.json", objs[0].Key)
	assert.True(t, modified.Equal(objs[0].LastModified))
}

func TestStore_ListError(t *testing.T) {
	srv := fakeS3(t, nil, time.Now())
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	_, err := store.List(context.Background(), "missing/2026/10/19/", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list s3://weather-events/missing/2026/10/19/")
}

func TestStore_Get(t *testing.T) {
	srv := fakeS3(t, map[string]string{
		"events/2026/10/19/a.json": `{"data":{"payload":{"city":"Mumbai"}}}`,
	}, time.Now())
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	rc, err := store.Get(context.Background(), "events/2026/10/19/a.json")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"payload":{"city":"Mumbai"}}}`, string(body))
}

func TestStore_GetMissing(t *testing.T) {
	srv := fakeS3(t, nil, time.Now())
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	_, err := store.Get(context.Background(), "events/2026/10/19/nope.json")
	require.Error(t, err)
}
