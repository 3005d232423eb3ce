package weather

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
)

// memStore is an in-memory ObjectStore keyed by full object key.
type memStore struct {
	mu        sync.Mutex
	objects   map[string]memObject
	listErrs  map[string]error // by prefix
	getErrs   map[string]error // by key
	listCalls int
	getCalls  int
}

type memObject struct {
	body         []byte
	lastModified time.Time
}

func newMemStore() *memStore {
	return &memStore{
		objects:  make(map[string]memObject),
		listErrs: make(map[string]error),
		getErrs:  make(map[string]error),
	}
}

func (m *memStore) put(key string, lastModified time.Time, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{body: []byte(body), lastModified: lastModified}
}

func (m *memStore) List(_ context.Context, prefix string, maxKeys int) ([]domain.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if err := m.listErrs[prefix]; err != nil {
		return nil, err
	}
	var out []domain.ObjectInfo
	for key, obj := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, domain.ObjectInfo{Key: key, LastModified: obj.lastModified})
		}
	}
	if len(out) > maxKeys {
		out = out[:maxKeys]
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if err := m.getErrs[key]; err != nil {
		return nil, err
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(obj.body)), nil
}

func (m *memStore) lists() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

var errUnavailable = errors.New("partition unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
