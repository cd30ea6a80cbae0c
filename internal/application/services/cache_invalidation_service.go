package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/domain/providers"
)

// HTTPCachePrefix namespaces cached HTTP responses in Redis
const HTTPCachePrefix = "http:cache:"

// CacheInvalidationService drops cached HTTP responses when companies change
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelCompanyUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to company updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

// processEvents processes company events and invalidates cache accordingly
func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.CompanyEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent handles a single company event. Cached response keys are
// hashes of the request, so invalidation clears the whole HTTP cache
// namespace; listing and search responses carry short TTLs anyway.
func (s *CacheInvalidationService) handleEvent(event *entities.CompanyEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("Processing cache invalidation for event: %s (company: %s, type: %s)",
		event.ID, event.CompanyID, event.Type)

	if err := s.cache.DeleteByPrefix(ctx, HTTPCachePrefix); err != nil {
		log.Printf("Warning: Failed to invalidate response cache for %s: %v", event.CompanyID, err)
	}
}

// InvalidateAll clears every cached HTTP response
func (s *CacheInvalidationService) InvalidateAll(ctx context.Context) error {
	if err := s.cache.DeleteByPrefix(ctx, HTTPCachePrefix); err != nil {
		return fmt.Errorf("failed to invalidate response cache: %w", err)
	}
	log.Printf("Invalidated cache prefix: %s", HTTPCachePrefix)
	return nil
}
