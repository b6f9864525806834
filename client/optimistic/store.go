// Package optimistic applies local changes before the server confirms them and rolls them back
// when the request fails.
package optimistic

import "sync"

// Store is a keyed cache of entities that keeps the order they were loaded in
type Store[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	order []string
}

// NewStore returns an empty store
func NewStore[V any]() *Store[V] {
	return &Store[V]{items: map[string]V{}}
}

// Load replaces the store's contents with items, keyed by key
func (s *Store[V]) Load(items []V, key func(V) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]V, len(items))
	s.order = s.order[:0]
	for _, item := range items {
		id := key(item)
		if _, ok := s.items[id]; !ok {
			s.order = append(s.order, id)
		}
		s.items[id] = item
	}
}

// Get returns the entity stored under id
func (s *Store[V]) Get(id string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// Set stores v under id. A new id is appended to the end of the order.
func (s *Store[V]) Set(id string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = v
}

// Remove drops id and reports whether it was present
func (s *Store[V]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the entities in order
func (s *Store[V]) List() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Len is the number of stored entities
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
