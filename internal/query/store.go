package query

import "sync"

// Store is a record snapshot cache guarded by request tokens. Each refresh
// obtains a token via Begin before issuing its load; Complete installs the
// loaded records only when the token is still the most recently issued, so a
// slow response can never overwrite a newer snapshot.
type Store[T any] struct {
	mu      sync.Mutex
	records []T
	issued  uint64
}

// NewStore returns an empty snapshot store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

// Begin registers an in-flight refresh and returns its token.
func (s *Store[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Complete installs records for the given token. It reports whether the
// snapshot was accepted; stale tokens are discarded.
func (s *Store[T]) Complete(token uint64, records []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued {
		return false
	}
	s.records = append([]T(nil), records...)
	return true
}

// Snapshot returns a copy of the current records.
func (s *Store[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.records...)
}
