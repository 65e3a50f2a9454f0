package usage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map. Suited to tests
// and single-node deployments; counters are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type counter struct {
	count     int64
	expiresAt time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the sweep interval for expired counters.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// NewMemoryStore creates an in-memory store with automatic cleanup of
// expired buckets.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		counters:        make(map[string]*counter),
		cleanupInterval: 1 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// Get returns the current count for the key; expired buckets read as zero.
func (s *MemoryStore) Get(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.counters[key]
	if !exists || time.Now().After(c.expiresAt) {
		return 0, nil
	}
	return c.count, nil
}

// IncrementIfBelow atomically claims one slot while the counter is below limit.
func (s *MemoryStore) IncrementIfBelow(ctx context.Context, key string, limit int64, expireAt time.Time) (bool, int64, error) {
	if key == "" {
		return false, 0, ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, exists := s.counters[key]

	// A fresh or expired bucket starts from zero.
	if !exists || now.After(c.expiresAt) {
		if limit == 0 {
			return false, 0, nil
		}
		s.counters[key] = &counter{count: 1, expiresAt: expireAt}
		return true, 1, nil
	}

	if limit != Unlimited && c.count >= limit {
		return false, c.count, nil
	}

	c.count++
	c.expiresAt = expireAt
	return true, c.count, nil
}

// Delete removes the counter for the key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.counters, key)
	return nil
}

// Close stops the background cleanup goroutine.
func (s *MemoryStore) Close() {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, c := range s.counters {
		if now.After(c.expiresAt) {
			delete(s.counters, key)
		}
	}
}
