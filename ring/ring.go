// Package ring implements a fixed-capacity buffer of the most recent items.
//
// Push never fails: once the buffer is full, each push overwrites the
// oldest stored item by advancing a wrap-around cursor. TryPop and TryPeek
// operate on the most recently pushed remaining item, so the buffer drains
// in LIFO order.
package ring

import (
	"errors"

	"github.com/apustovitovsky/native-collections/internal/metrics"
)

var ErrInvalidCapacity = errors.New("ring: capacity must be positive")

// Buffer holds up to a fixed number of items of type T.
// It is not safe for concurrent use.
type Buffer[T any] struct {
	items  []T
	cursor int // next write position
	count  int
	pushed uint64
}

// New creates a buffer with room for capacity items. Capacity is exact,
// not rounded; overwrite-on-overflow depends on it.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Buffer[T]{items: make([]T, capacity)}, nil
}

// Push stores item, overwriting the oldest stored item when full.
func (b *Buffer[T]) Push(item T) {
	status := "ok"
	if b.count == len(b.items) {
		status = "overwrite"
	}
	b.items[b.cursor] = item
	b.cursor = (b.cursor + 1) % len(b.items)
	if b.count < len(b.items) {
		b.count++
	}
	b.pushed++
	metrics.RingOperationsTotal.WithLabelValues("push", status).Inc()
}

// TryPop removes and returns the most recently pushed remaining item.
func (b *Buffer[T]) TryPop() (T, bool) {
	if b.count == 0 {
		metrics.RingOperationsTotal.WithLabelValues("pop", "empty").Inc()
		var zero T
		return zero, false
	}
	b.cursor = (b.cursor - 1 + len(b.items)) % len(b.items)
	item := b.items[b.cursor]
	var zero T
	b.items[b.cursor] = zero // drop the reference for the GC
	b.count--
	metrics.RingOperationsTotal.WithLabelValues("pop", "ok").Inc()
	return item, true
}

// TryPeek returns the item TryPop would return, without removing it.
func (b *Buffer[T]) TryPeek() (T, bool) {
	if b.count == 0 {
		var zero T
		return zero, false
	}
	last := (b.cursor - 1 + len(b.items)) % len(b.items)
	return b.items[last], true
}

// Len returns the number of items currently stored.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// Any reports whether the buffer holds at least one item.
func (b *Buffer[T]) Any() bool { return b.count > 0 }

// Pushed returns the lifetime total of pushes, including overwrites.
func (b *Buffer[T]) Pushed() uint64 { return b.pushed }
