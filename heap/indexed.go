// Package heap implements a fixed-capacity indexed binary min-heap.
//
// Elements are addressed by a dense integer slot rather than by opaque
// handles, so a caller can update an element's priority in place after
// insertion without any auxiliary lookup structure. Pushing an
// already-present slot is a priority update, not an error.
package heap

import (
	"cmp"
	"errors"
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/apustovitovsky/native-collections/blockmem"
	"github.com/apustovitovsky/native-collections/internal/metrics"
)

var (
	ErrInvalidCapacity = errors.New("heap: capacity must be in [1, MaxInt32]")
	ErrInvalidSlot     = errors.New("heap: slot out of range")
	ErrFull            = errors.New("heap: capacity exceeded")
)

// Indexed is a min-heap of priorities addressed by slot. It keeps three
// parallel fixed-length tables:
//
//	values[slot]  — the priority currently associated with slot
//	slotPos[slot] — 0 when the slot is absent, otherwise heap position + 1
//	posSlot[pos]  — the slot occupying heap position pos, for pos < length
//
// The two index tables are mutual inverses over the live prefix; every
// mutation maintains that bijection together with the heap order.
//
// Indexed is not safe for concurrent use.
type Indexed[V cmp.Ordered] struct {
	valuesBlk  *blockmem.Block[V]
	slotPosBlk *blockmem.Block[int32]
	posSlotBlk *blockmem.Block[int32]

	values  []V
	slotPos []int32
	posSlot []int32

	slots    int
	capacity int
	length   int
}

// NewIndexed allocates an empty heap whose slot space and element capacity
// are both capacity. With equal sizes a full heap means every slot is
// present, so every valid push degenerates to an update; use
// NewIndexedSpace for a wider slot space when full-heap rejection of fresh
// slots matters.
func NewIndexed[V cmp.Ordered](capacity int, alloc memory.Allocator) (*Indexed[V], error) {
	return NewIndexedSpace[V](capacity, capacity, alloc)
}

// NewIndexedSpace allocates an empty heap addressing slots in [0, slots)
// that holds at most capacity elements at a time. slots must be at least
// capacity. The backing tables are drawn from alloc
// (memory.DefaultAllocator when nil) and stay fixed for the heap's
// lifetime; Release returns them.
func NewIndexedSpace[V cmp.Ordered](slots, capacity int, alloc memory.Allocator) (*Indexed[V], error) {
	if capacity < 1 || slots < capacity || slots > math.MaxInt32 {
		return nil, ErrInvalidCapacity
	}
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	valuesBlk, err := blockmem.NewBlock[V](alloc, slots)
	if err != nil {
		return nil, err
	}
	slotPosBlk, err := blockmem.NewBlock[int32](alloc, slots)
	if err != nil {
		valuesBlk.Release()
		return nil, err
	}
	posSlotBlk, err := blockmem.NewBlock[int32](alloc, capacity)
	if err != nil {
		valuesBlk.Release()
		slotPosBlk.Release()
		return nil, err
	}

	return &Indexed[V]{
		valuesBlk:  valuesBlk,
		slotPosBlk: slotPosBlk,
		posSlotBlk: posSlotBlk,
		values:     valuesBlk.Slice(),
		slotPos:    slotPosBlk.Slice(),
		posSlot:    posSlotBlk.Slice(),
		slots:      slots,
		capacity:   capacity,
	}, nil
}

// TryPush inserts slot with the given priority, or updates the priority in
// place when the slot is already present. Inserting a new slot into a full
// heap returns ErrFull with no state change. A present slot always
// succeeds: a strictly smaller value sifts up, anything else sifts down
// (re-pushing an identical value is a zero-move sift, not an error).
func (h *Indexed[V]) TryPush(slot int, value V) error {
	if slot < 0 || slot >= len(h.slotPos) {
		metrics.HeapOperationsTotal.WithLabelValues("push", "invalid_slot").Inc()
		return ErrInvalidSlot
	}

	if pos := h.slotPos[slot]; pos != 0 {
		old := h.values[slot]
		h.values[slot] = value
		// A decreased priority can only violate the order against
		// ancestors, an increased one only against descendants.
		if value < old {
			h.siftUp(int(pos - 1))
		} else {
			h.siftDown(int(pos - 1))
		}
		metrics.HeapOperationsTotal.WithLabelValues("push", "update").Inc()
		return nil
	}

	if h.length == h.capacity {
		metrics.HeapOperationsTotal.WithLabelValues("push", "full").Inc()
		return ErrFull
	}

	h.values[slot] = value
	h.posSlot[h.length] = int32(slot)
	h.slotPos[slot] = int32(h.length) + 1
	h.length++
	h.siftUp(h.length - 1)
	metrics.HeapOperationsTotal.WithLabelValues("push", "insert").Inc()
	return nil
}

// TryPop removes and returns the slot with the smallest priority. It
// reports ok=false on an empty heap, with no state change.
func (h *Indexed[V]) TryPop() (slot int, value V, ok bool) {
	if h.length == 0 {
		metrics.HeapOperationsTotal.WithLabelValues("pop", "empty").Inc()
		var zero V
		return -1, zero, false
	}

	root := h.posSlot[0]
	value = h.values[root]
	h.length--
	if h.length > 0 {
		last := h.posSlot[h.length]
		h.posSlot[0] = last
		h.slotPos[last] = 1
		h.siftDown(0)
	}
	h.slotPos[root] = 0
	metrics.HeapOperationsTotal.WithLabelValues("pop", "ok").Inc()
	return int(root), value, true
}

// Peek returns the minimum without removing it.
func (h *Indexed[V]) Peek() (slot int, value V, ok bool) {
	if h.length == 0 {
		var zero V
		return -1, zero, false
	}
	root := h.posSlot[0]
	return int(root), h.values[root], true
}

// Contains reports whether slot currently holds an element.
func (h *Indexed[V]) Contains(slot int) bool {
	return slot >= 0 && slot < len(h.slotPos) && h.slotPos[slot] != 0
}

// Value returns the priority currently stored for slot.
func (h *Indexed[V]) Value(slot int) (V, bool) {
	if !h.Contains(slot) {
		var zero V
		return zero, false
	}
	return h.values[slot], true
}

// Len returns the number of elements in the heap.
func (h *Indexed[V]) Len() int { return h.length }

// Cap returns the fixed element capacity the heap was constructed with.
func (h *Indexed[V]) Cap() int { return h.capacity }

// Slots returns the size of the slot address space.
func (h *Indexed[V]) Slots() int { return h.slots }

// Empty reports whether the heap holds no elements.
func (h *Indexed[V]) Empty() bool { return h.length == 0 }

// Release returns the three backing tables to the allocator. It is
// idempotent and safe on a heap that never allocated. After Release every
// push fails with ErrInvalidSlot and every pop reports empty.
func (h *Indexed[V]) Release() {
	if h == nil {
		return
	}
	h.valuesBlk.Release()
	h.slotPosBlk.Release()
	h.posSlotBlk.Release()
	h.values = nil
	h.slotPos = nil
	h.posSlot = nil
	h.length = 0
}

// siftUp moves the element at pos toward the root until its parent is no
// larger. The element is held aside while parents shift down into the
// vacated positions, so each level costs one table write instead of a
// full swap.
func (h *Indexed[V]) siftUp(pos int) {
	moving := h.posSlot[pos]
	v := h.values[moving]
	for pos > 0 {
		parentPos := (pos - 1) / 2
		parent := h.posSlot[parentPos]
		if !(v < h.values[parent]) {
			break
		}
		h.posSlot[pos] = parent
		h.slotPos[parent] = int32(pos) + 1
		pos = parentPos
	}
	h.posSlot[pos] = moving
	h.slotPos[moving] = int32(pos) + 1
}

// siftDown moves the element at pos toward the leaves, descending into the
// smaller child each level. The right child is preferred only when it is
// strictly smaller than the left.
func (h *Indexed[V]) siftDown(pos int) {
	moving := h.posSlot[pos]
	v := h.values[moving]
	for {
		child := 2*pos + 1
		if child >= h.length || child < 0 { // child < 0 after int overflow
			break
		}
		if right := child + 1; right < h.length &&
			h.values[h.posSlot[right]] < h.values[h.posSlot[child]] {
			child = right
		}
		occupant := h.posSlot[child]
		if !(h.values[occupant] < v) {
			break
		}
		h.posSlot[pos] = occupant
		h.slotPos[occupant] = int32(pos) + 1
		pos = child
	}
	h.posSlot[pos] = moving
	h.slotPos[moving] = int32(pos) + 1
}
