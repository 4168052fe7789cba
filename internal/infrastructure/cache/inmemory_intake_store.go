package cache

import (
	"context"
	"sync"
	"time"

	quoteapp "github.com/beanport/backend/internal/application/quote"
)

// reservation holds an intake key until it expires or is released
type reservation struct {
	expiresAt time.Time
}

// InMemoryIntakeStore implements the intake IdempotencyStore using an
// in-memory map. Suitable for single-instance deployments and testing.
type InMemoryIntakeStore struct {
	mu          sync.RWMutex
	entries     map[string]reservation
	sweepPeriod time.Duration
	stopChan    chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

// NewInMemoryIntakeStore creates a new in-memory intake store. It starts a
// background goroutine that sweeps out expired reservations.
func NewInMemoryIntakeStore(sweepPeriod time.Duration) *InMemoryIntakeStore {
	if sweepPeriod <= 0 {
		sweepPeriod = 5 * time.Minute
	}

	store := &InMemoryIntakeStore{
		entries:     make(map[string]reservation),
		sweepPeriod: sweepPeriod,
		stopChan:    make(chan struct{}),
	}

	store.wg.Add(1)
	go store.sweepLoop()

	return store
}

// Reserve claims an intake key with a TTL. Returns false when the key is
// already held, so a resubmitted inquiry form collapses into one record.
func (s *InMemoryIntakeStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, exists := s.entries[key]; exists {
		if time.Now().Before(r.expiresAt) {
			return false, nil
		}
		// expired reservation, overwrite
	}

	s.entries[key] = reservation{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// Release frees a reserved key so the submission can be retried, used when
// the write behind a reservation failed.
func (s *InMemoryIntakeStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close stops the sweep goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemoryIntakeStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// sweepLoop periodically removes expired reservations
func (s *InMemoryIntakeStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepPeriod)
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

// sweep removes expired reservations from the store
func (s *InMemoryIntakeStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, r := range s.entries {
		if now.After(r.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of reservations in the store (for testing/monitoring)
func (s *InMemoryIntakeStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryIntakeStore implements the intake IdempotencyStore
var _ quoteapp.IdempotencyStore = (*InMemoryIntakeStore)(nil)
