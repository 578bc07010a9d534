// Package ring provides the bounded single-producer single-consumer
// sample queue between the capture and playback callbacks. Push runs on
// the input-stream thread, Pop on the output-stream thread; neither
// locks or allocates.
package ring

import (
	"fmt"
	"sync/atomic"
)

// Buffer is a bounded lock-free SPSC queue of float32 samples.
type Buffer struct {
	buf  []float32
	head atomic.Uint64 // next slot to pop; owned by the consumer
	tail atomic.Uint64 // next slot to push; owned by the producer
}

// New returns an empty buffer holding up to capacity samples.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring: capacity must be > 0: %d", capacity)
	}

	return &Buffer{buf: make([]float32, capacity)}, nil
}

// Cap returns the buffer capacity in samples.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Len returns the number of samples currently queued.
func (b *Buffer) Len() int {
	return int(b.tail.Load() - b.head.Load())
}

// Push appends one sample. It reports false when the buffer is full;
// the sample is dropped in that case.
func (b *Buffer) Push(x float32) bool {
	tail := b.tail.Load()
	if tail-b.head.Load() >= uint64(len(b.buf)) {
		return false
	}

	b.buf[tail%uint64(len(b.buf))] = x
	b.tail.Store(tail + 1)

	return true
}

// Pop removes and returns the oldest sample. It reports false when the
// buffer is empty.
func (b *Buffer) Pop() (float32, bool) {
	head := b.head.Load()
	if head == b.tail.Load() {
		return 0, false
	}

	x := b.buf[head%uint64(len(b.buf))]
	b.head.Store(head + 1)

	return x, true
}
