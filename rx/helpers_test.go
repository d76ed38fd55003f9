package rx

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/rxkit/disposable"
)

// recorder is an Observer that keeps every event it sees.
type recorder[T any] struct {
	mu     sync.Mutex
	events []Event[T]
}

func (r *recorder[T]) On(e Event[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder[T]) Events() []Event[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event[T], len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder[T]) Values() []T {
	var out []T
	for _, e := range r.Events() {
		if e.Kind == KindNext {
			out = append(out, e.Value)
		}
	}
	return out
}

func (r *recorder[T]) Kinds() []EventKind {
	var out []EventKind
	for _, e := range r.Events() {
		out = append(out, e.Kind)
	}
	return out
}

// manualSource is a stream driven by Push from the test.
type manualSource[T any] struct {
	mu       sync.Mutex
	observer Observer[T]
	disposed atomic.Bool
}

func (m *manualSource[T]) Observable() Observable[T] {
	return Create(func(_ context.Context, o Observer[T]) disposable.Disposable {
		m.mu.Lock()
		m.observer = o
		m.mu.Unlock()
		return disposable.New(func() { m.disposed.Store(true) })
	})
}

func (m *manualSource[T]) Push(e Event[T]) {
	m.mu.Lock()
	o := m.observer
	m.mu.Unlock()
	o.On(e)
}

func increment(_ context.Context, v int) (int, error) {
	return v + 1, nil
}
