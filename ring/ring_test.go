package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		b, err := New[int](capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
		assert.Nil(t, b)
	}
}

func TestBuffer_LIFO(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)

	b.Push(1)
	b.Push(2)
	b.Push(3)

	for _, want := range []int{3, 2, 1} {
		got, ok := b.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := b.TryPop()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Any())
}

func TestBuffer_OverwriteOldest(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		b.Push(i)
	}
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())

	// 1 and 2 were overwritten; the three most recent remain, LIFO
	for _, want := range []int{5, 4, 3} {
		got, ok := b.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := b.TryPop()
	assert.False(t, ok)
}

func TestBuffer_PeekMatchesPop(t *testing.T) {
	b, err := New[string](2)
	require.NoError(t, err)

	_, ok := b.TryPeek()
	assert.False(t, ok)

	b.Push("a")
	b.Push("b")

	peeked, ok := b.TryPeek()
	require.True(t, ok)
	popped, ok := b.TryPop()
	require.True(t, ok)
	assert.Equal(t, peeked, popped)
	assert.Equal(t, "b", popped)
	assert.Equal(t, 1, b.Len())

	peeked, ok = b.TryPeek()
	require.True(t, ok)
	assert.Equal(t, "a", peeked)
	assert.Equal(t, 1, b.Len())
}

func TestBuffer_WraparoundRounds(t *testing.T) {
	b, err := New[int](4)
	require.NoError(t, err)

	// repeated fill/drain cycles walk the cursor across the wrap point
	for round := 0; round < 5; round++ {
		for i := 0; i < 3; i++ {
			b.Push(round*10 + i)
		}
		for i := 2; i >= 0; i-- {
			got, ok := b.TryPop()
			require.True(t, ok)
			assert.Equal(t, round*10+i, got)
		}
		assert.False(t, b.Any())
	}
}

func TestBuffer_PushedCountsOverwrites(t *testing.T) {
	b, err := New[int](2)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		b.Push(i)
	}
	assert.Equal(t, uint64(7), b.Pushed())
	assert.Equal(t, 2, b.Len())

	b.TryPop()
	assert.Equal(t, uint64(7), b.Pushed(), "pops must not change the lifetime counter")
}

func TestBuffer_InterleavedPushPop(t *testing.T) {
	b, err := New[int](3)
	require.NoError(t, err)

	b.Push(1)
	b.Push(2)
	got, ok := b.TryPop()
	require.True(t, ok)
	assert.Equal(t, 2, got)

	b.Push(3)
	b.Push(4)
	b.Push(5) // buffer now holds 1,3,4,5 minus the oldest: 3,4,5

	for _, want := range []int{5, 4, 3} {
		got, ok = b.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok = b.TryPop()
	assert.False(t, ok)
}

func BenchmarkBuffer_Push(b *testing.B) {
	buf, err := New[int](1024)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Push(i)
	}
}

func BenchmarkBuffer_PushPop(b *testing.B) {
	buf, err := New[int](1024)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Push(i)
		if i%2 == 0 {
			buf.TryPop()
		}
	}
}
