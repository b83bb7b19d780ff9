package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type entry struct {
	value   []byte
	expires time.Time
}

type memoryRepository struct {
	mu     sync.Mutex
	now    func() time.Time
	values map[string]entry
	queues map[string][][]byte
}

// MemoryOption configures the in-memory repository
type MemoryOption func(*memoryRepository)

// WithClock replaces the clock expiry is checked against
func WithClock(now func() time.Time) MemoryOption {
	return func(r *memoryRepository) {
		r.now = now
	}
}

// NewMemoryRepository initializes a process local cache. It's used for local development where no Redis is around.
func NewMemoryRepository(opts ...MemoryOption) *memoryRepository {
	r := &memoryRepository{
		now:    time.Now,
		values: make(map[string]entry),
		queues: make(map[string][][]byte),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Get returns an entry if it didn't expire yet. Expired entries are dropped on access.
func (s *memoryRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.values, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value until ttl runs out
func (s *memoryRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.Errorf("ttl for %s has to be positive", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = entry{
		value:   append([]byte(nil), value...),
		expires: s.now().Add(ttl),
	}
	return nil
}

// PopFront removes the oldest entry of a queue
func (s *memoryRepository) PopFront(_ context.Context, queue string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[queue]
	if len(q) == 0 {
		return nil, false, nil
	}
	v := q[0]
	if len(q) == 1 {
		delete(s.queues, queue)
	} else {
		s.queues[queue] = q[1:]
	}
	return v, true, nil
}

// PushBack appends to a queue
func (s *memoryRepository) PushBack(_ context.Context, queue string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[queue] = append(s.queues[queue], append([]byte(nil), value...))
	return nil
}

func (s *memoryRepository) Ping(context.Context) error { return nil }

func (s *memoryRepository) Close() error { return nil }
