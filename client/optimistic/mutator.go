package optimistic

import (
	"context"
	"errors"
	"sync"
	"time"
)

// RemoveDelay is how long a toggled-off entity stays listed before ApplyRemoval drops it
const RemoveDelay = 300 * time.Millisecond

var (
	// ErrInFlight is returned when a mutation of the same id has not finished yet
	ErrInFlight = errors.New("optimistic: mutation already in flight")
	// ErrNotFound is returned when the id is not in the store
	ErrNotFound = errors.New("optimistic: entity not found")
)

// Mutator runs optimistic mutations against a Store. At most one mutation per id runs at a time.
type Mutator[V any] struct {
	Store *Store[V]
	// OnError is called after a failed commit has been rolled back
	OnError func(id string, err error)
	// RemoveDelay overrides the package RemoveDelay when set
	RemoveDelay time.Duration

	mu         sync.Mutex
	processing map[string]struct{}
	removals   sync.WaitGroup
}

// NewMutator returns a mutator over store reporting failures to onError
func NewMutator[V any](store *Store[V], onError func(id string, err error)) *Mutator[V] {
	return &Mutator[V]{Store: store, OnError: onError}
}

// Processing reports whether a mutation of id is in flight
func (m *Mutator[V]) Processing(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.processing[id]
	return ok
}

func (m *Mutator[V]) acquire(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processing == nil {
		m.processing = map[string]struct{}{}
	}
	if _, ok := m.processing[id]; ok {
		return false
	}
	m.processing[id] = struct{}{}
	return true
}

func (m *Mutator[V]) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.processing, id)
}

// Apply stores mutate(current) under id right away, then runs commit once. When commit fails
// the previous value is restored, OnError is called and the error is returned.
func (m *Mutator[V]) Apply(ctx context.Context, id string, mutate func(V) V, commit func(context.Context) error) error {
	if !m.acquire(id) {
		return ErrInFlight
	}
	defer m.release(id)
	return m.apply(ctx, id, mutate, commit)
}

// ApplyRemoval is Apply for toggle-off actions: on success the entity is removed from the store
// after the remove delay. The id stays in flight until it is removed.
func (m *Mutator[V]) ApplyRemoval(ctx context.Context, id string, mutate func(V) V, commit func(context.Context) error) error {
	if !m.acquire(id) {
		return ErrInFlight
	}
	if err := m.apply(ctx, id, mutate, commit); err != nil {
		m.release(id)
		return err
	}

	delay := m.RemoveDelay
	if delay <= 0 {
		delay = RemoveDelay
	}
	m.removals.Add(1)
	time.AfterFunc(delay, func() {
		defer m.removals.Done()
		m.Store.Remove(id)
		m.release(id)
	})
	return nil
}

// Wait blocks until every scheduled removal has run
func (m *Mutator[V]) Wait() {
	m.removals.Wait()
}

func (m *Mutator[V]) apply(ctx context.Context, id string, mutate func(V) V, commit func(context.Context) error) error {
	snapshot, ok := m.Store.Get(id)
	if !ok {
		return ErrNotFound
	}
	m.Store.Set(id, mutate(snapshot))

	if err := commit(ctx); err != nil {
		m.Store.Set(id, snapshot)
		if m.OnError != nil {
			m.OnError(id, err)
		}
		return err
	}
	return nil
}
