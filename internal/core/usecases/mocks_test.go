package usecases_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/ports"
)

// --- Mock RecordSource ---

type mockSource struct {
	listFn    func(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error)
	getFn     func(ctx context.Context, kind domain.RecordKind, id string) (domain.RawRecord, error)
	getManyFn func(ctx context.Context, kind domain.RecordKind, ids []string) ([]domain.RawRecord, error)
	listCalls int
}

func (m *mockSource) List(ctx context.Context, kind domain.RecordKind, f ports.RecordFilter) ([]domain.RawRecord, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, kind, f)
	}
	return nil, nil
}

func (m *mockSource) Get(ctx context.Context, kind domain.RecordKind, id string) (domain.RawRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx, kind, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSource) GetMany(ctx context.Context, kind domain.RecordKind, ids []string) ([]domain.RawRecord, error) {
	if m.getManyFn != nil {
		return m.getManyFn(ctx, kind, ids)
	}
	return nil, nil
}

// --- In-memory CacheService ---

var errCacheMiss = errors.New("cache miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func locationRecords() []domain.RawRecord {
	return []domain.RawRecord{
		{"id": "l1", "city_id": "c1", "name_en": "General Hospital", "location_type": "hospital", "geometry": "POINT(95.6500 16.7300)"},
		{"id": "l2", "city_id": "c1", "name_en": "Shwe Pagoda", "location_type": "PAGODA", "geometry": "POINT(95.6600 16.7300)"},
		{"id": "l3", "city_id": "c1", "name_en": "Jetty", "location_type": "jetty", "geometry": "POINT(95.6600 16.7400)"},
		{"id": "l4", "city_id": "c1", "name_en": "Nowhere", "location_type": "mystery"},
	}
}
