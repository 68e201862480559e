// Package blockmem provides fixed-length typed storage blocks carved out of
// an Arrow allocator. A Block is allocated once, never resized, and returned
// to its allocator by an explicit Release call.
package blockmem

import (
	"errors"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/apustovitovsky/native-collections/internal/metrics"
)

var ErrInvalidLength = errors.New("blockmem: length must be non-negative")

// Block is a fixed-length array of T backed by allocator-owned bytes.
// It is not safe for concurrent use.
type Block[T any] struct {
	alloc memory.Allocator
	buf   []byte
	data  []T
}

// NewBlock allocates a zeroed block of length elements from alloc.
// A nil alloc falls back to memory.DefaultAllocator.
func NewBlock[T any](alloc memory.Allocator, length int) (*Block[T], error) {
	if length < 0 {
		return nil, ErrInvalidLength
	}
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	b := &Block[T]{alloc: alloc}
	if length == 0 {
		return b, nil
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	b.buf = alloc.Allocate(length * elemSize)
	b.data = unsafe.Slice((*T)(unsafe.Pointer(&b.buf[0])), length)

	// Allocators are not required to hand back zeroed memory; the absent
	// encoding used by callers depends on it.
	clear(b.data)

	metrics.BlockAllocatedBytes.Add(float64(len(b.buf)))
	return b, nil
}

// Slice returns the typed view of the block. It is nil after Release.
// The block retains ownership; callers must not grow or retain the slice
// past Release.
func (b *Block[T]) Slice() []T {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the number of elements in the block, 0 after Release.
func (b *Block[T]) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Release returns the backing bytes to the allocator. It is idempotent and
// safe on a nil or zero-length block.
func (b *Block[T]) Release() {
	if b == nil || b.buf == nil {
		return
	}
	metrics.BlockReleasedBytes.Add(float64(len(b.buf)))
	b.alloc.Free(b.buf)
	b.buf = nil
	b.data = nil
}
