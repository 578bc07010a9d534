package ring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)

	_, err = New(-4)
	require.Error(t, err)
}

func TestPushPopFIFO(t *testing.T) {
	b, err := New(4)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.True(t, b.Push(float32(i)))
	}
	assert.False(t, b.Push(99), "push into a full buffer must fail")
	assert.Equal(t, 4, b.Len())

	for i := 0; i < 4; i++ {
		x, ok := b.Pop()
		require.True(t, ok)
		assert.Equal(t, float32(i), x)
	}

	_, ok := b.Pop()
	assert.False(t, ok, "pop from an empty buffer must fail")
	assert.Equal(t, 0, b.Len())
}

func TestWrapAround(t *testing.T) {
	b, err := New(3)
	require.NoError(t, err)

	for round := 0; round < 100; round++ {
		require.True(t, b.Push(float32(round)))
		x, ok := b.Pop()
		require.True(t, ok)
		assert.Equal(t, float32(round), x)
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const n = 100000

	b, err := New(64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := 0; i < n; {
			if b.Push(float32(i)) {
				i++
			}
		}
	}()

	for i := 0; i < n; {
		x, ok := b.Pop()
		if !ok {
			continue
		}
		require.Equal(t, float32(i), x, "samples must arrive in order")
		i++
	}

	wg.Wait()
}
