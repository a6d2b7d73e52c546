package cache

import "sync"

// singleflight tracks the callers waiting on each in-progress generation.
type singleflight[V any] struct {
	mu      sync.Mutex
	pending map[string][]chan<- V
}

func newSingleFlight[V any]() *singleflight[V] {
	return &singleflight[V]{
		pending: make(map[string][]chan<- V),
	}
}

// Request registers ch for key and reports whether the caller is the first
// one and must start the generation. ch must have room for one value.
func (s *singleflight[V]) Request(key string, ch chan<- V) (first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	waiters, ok := s.pending[key]
	s.pending[key] = append(waiters, ch)
	return !ok
}

// Fulfill hands value to every caller waiting on key.
func (s *singleflight[V]) Fulfill(key string, value V) {
	s.mu.Lock()
	waiters := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()

	for _, ch := range waiters {
		ch <- value
	}
}

func (s *singleflight[V]) inflight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
