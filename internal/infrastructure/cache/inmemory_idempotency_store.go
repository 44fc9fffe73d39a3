package cache

import (
	"context"
	"sync"
	"time"

	"github.com/propdesk/backend/internal/domain/shared"
)

type seenEvent struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore keeps processed event IDs in a map guarded by a
// mutex. It serves single-instance deployments and tests; a multi-node
// install uses the Redis store so every node sees the same set.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	seen      map[string]seenEvent
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore builds the store and starts the background
// sweep that evicts expired IDs.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		seen:     make(map[string]seenEvent),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.sweepLoop()

	return store
}

// MarkProcessed records the event ID for ttl. It reports true on the first
// sighting and false when a live record already exists; an expired record
// counts as first sighting again.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.seen[eventID]; ok && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	s.seen[eventID] = seenEvent{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// IsProcessed reports whether a live record exists for the event ID.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.seen[eventID]
	if !ok || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, e := range s.seen {
		if now.After(e.expiresAt) {
			delete(s.seen, eventID)
		}
	}
}

// Size reports the number of live and expired records still held.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
