package queue

import (
	"fmt"
	"iter"
)

const resizeFactor = 2

// Ring is a FIFO queue over a circular slice. It doubles when full and
// halves once it is less than a quarter full, never dropping below the
// capacity it was created with.
type Ring[T any] struct {
	storage         []T
	count           int
	pushNext        int
	initialCapacity int
}

// NewRing creates a ring with the given initial capacity. A capacity below
// zero is treated as zero; the first Enqueue then allocates.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{
		storage:         make([]T, capacity),
		initialCapacity: capacity,
	}
}

// Len returns the number of queued elements.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the current storage size.
func (r *Ring[T]) Cap() int { return len(r.storage) }

// IsEmpty reports whether the ring holds no elements.
func (r *Ring[T]) IsEmpty() bool { return r.count == 0 }

func (r *Ring[T]) dequeueIndex() int {
	idx := r.pushNext - r.count
	if idx < 0 {
		idx += len(r.storage)
	}
	return idx
}

// Enqueue appends v, growing the storage when it is full.
func (r *Ring[T]) Enqueue(v T) {
	if r.count == len(r.storage) {
		r.resize(max(len(r.storage), 1) * resizeFactor)
	}

	r.storage[r.pushNext] = v
	r.pushNext++
	r.count++

	if r.pushNext >= len(r.storage) {
		r.pushNext -= len(r.storage)
	}
}

// Dequeue removes and returns the oldest element. It returns false when
// the ring is empty.
func (r *Ring[T]) Dequeue() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}

	idx := r.dequeueIndex()
	v := r.storage[idx]
	r.storage[idx] = zero
	r.count--

	downsizeLimit := len(r.storage) / (resizeFactor * resizeFactor)
	if r.count < downsizeLimit && downsizeLimit >= r.initialCapacity {
		r.resize(len(r.storage) / resizeFactor)
	}
	return v, true
}

// Peek returns the oldest element without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	return r.storage[r.dequeueIndex()], true
}

// All iterates the queued elements oldest first without removing them.
// The ring must not be modified during iteration.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		i := r.dequeueIndex()
		for n := 0; n < r.count; n++ {
			if i >= len(r.storage) {
				i -= len(r.storage)
			}
			if !yield(r.storage[i]) {
				return
			}
			i++
		}
	}
}

// String describes the ring layout for debugging.
func (r *Ring[T]) String() string {
	return fmt.Sprintf("count: %d, dequeueIndex: %d, pushNextIndex: %d, capacity: %d",
		r.count, r.dequeueIndex(), r.pushNext, len(r.storage))
}

// resize copies the queued elements, which may wrap, to the front of a new
// slice of the given size.
func (r *Ring[T]) resize(size int) {
	next := make([]T, size)
	if r.count > 0 {
		start := r.dequeueIndex()
		first := min(r.count, len(r.storage)-start)
		copy(next, r.storage[start:start+first])
		copy(next[first:], r.storage[:r.count-first])
	}
	r.storage = next
	r.pushNext = r.count
	if r.pushNext >= size {
		r.pushNext -= size
	}
}
