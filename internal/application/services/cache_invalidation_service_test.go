package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/providers"
)

// mockCacheProvider records deletions for assertions.
type mockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func newMockCacheProvider() *mockCacheProvider {
	return &mockCacheProvider{data: map[string][]byte{}}
}

func (m *mockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *mockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockCacheProvider) DeleteByPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func (m *mockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockCacheProvider) deletedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deleted)
}

// mockEventBus delivers published events to in-process subscribers.
type mockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.CompanyEvent
}

func newMockEventBus() *mockEventBus {
	return &mockEventBus{subscribers: map[string][]chan *entities.CompanyEvent{}}
}

func (m *mockEventBus) Publish(ctx context.Context, channel string, event *entities.CompanyEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers[channel] {
		ch <- event
	}
	return nil
}

func (m *mockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CompanyEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.CompanyEvent, 8)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *mockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *mockEventBus) Close() error {
	return nil
}

var _ providers.EventBus = (*mockEventBus)(nil)
var _ providers.CacheProvider = (*mockCacheProvider)(nil)

func TestCacheInvalidationService_ClearsHTTPCacheOnCompanyEvent(t *testing.T) {
	ctx := context.Background()
	cache := newMockCacheProvider()
	bus := newMockEventBus()

	cache.Set(ctx, services.HTTPCachePrefix+"abc", []byte("cached"), 60)
	cache.Set(ctx, "session:user-1", []byte("keep"), 60)

	service := services.NewCacheInvalidationService(cache, bus)
	require.NoError(t, service.Start())
	defer service.Stop()

	err := bus.Publish(ctx, providers.EventChannelCompanyUpdates, &entities.CompanyEvent{
		ID:        "evt-1",
		Type:      entities.CompanyEventUpdated,
		CompanyID: "comp-1",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return cache.deletedCount() == 1
	}, time.Second, 10*time.Millisecond)

	exists, _ := cache.Exists(ctx, "session:user-1")
	assert.True(t, exists)
	exists, _ = cache.Exists(ctx, services.HTTPCachePrefix+"abc")
	assert.False(t, exists)
}

func TestCacheInvalidationService_InvalidateAll(t *testing.T) {
	ctx := context.Background()
	cache := newMockCacheProvider()
	bus := newMockEventBus()

	cache.Set(ctx, services.HTTPCachePrefix+"one", []byte("a"), 60)
	cache.Set(ctx, services.HTTPCachePrefix+"two", []byte("b"), 60)

	service := services.NewCacheInvalidationService(cache, bus)
	require.NoError(t, service.InvalidateAll(ctx))

	assert.Equal(t, 2, cache.deletedCount())
}
