package blockmem

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_AllocatesZeroed(t *testing.T) {
	b, err := NewBlock[int64](nil, 16)
	require.NoError(t, err)
	defer b.Release()

	require.Equal(t, 16, b.Len())
	data := b.Slice()
	require.Len(t, data, 16)
	for i, v := range data {
		assert.Zero(t, v, "element %d not zeroed", i)
	}
}

func TestBlock_ReadWrite(t *testing.T) {
	b, err := NewBlock[int32](nil, 8)
	require.NoError(t, err)
	defer b.Release()

	data := b.Slice()
	for i := range data {
		data[i] = int32(i * i)
	}
	again := b.Slice()
	for i := range again {
		assert.Equal(t, int32(i*i), again[i])
	}
}

func TestBlock_StructElements(t *testing.T) {
	type pair struct {
		A int64
		B float64
	}
	b, err := NewBlock[pair](nil, 4)
	require.NoError(t, err)
	defer b.Release()

	b.Slice()[2] = pair{A: 7, B: 2.5}
	assert.Equal(t, pair{A: 7, B: 2.5}, b.Slice()[2])
	assert.Equal(t, pair{}, b.Slice()[3])
}

func TestBlock_InvalidLength(t *testing.T) {
	b, err := NewBlock[int](nil, -1)
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.Nil(t, b)
}

func TestBlock_ZeroLength(t *testing.T) {
	b, err := NewBlock[int](nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Slice())
	b.Release() // nothing allocated, still safe
}

func TestBlock_ReleaseExactlyOnce(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())

	b, err := NewBlock[int64](mem, 32)
	require.NoError(t, err)
	require.NotZero(t, mem.CurrentAlloc())

	b.Release()
	mem.AssertSize(t, 0)

	// idempotent: a second release must not double-free
	b.Release()
	mem.AssertSize(t, 0)
	assert.Nil(t, b.Slice())
	assert.Equal(t, 0, b.Len())
}

func TestBlock_NilSafe(t *testing.T) {
	var b *Block[int]
	b.Release()
	assert.Nil(t, b.Slice())
	assert.Equal(t, 0, b.Len())
}
