// Package pool provides a pooled byte buffer for the writer's scratch record
// buffer, copied in spirit from
// github.com/arloliu/mebo/internal/pool's ByteBuffer.
package pool

import "sync"

// DefaultSize is the default capacity handed out by Get, sized for a typical
// channel-group record.
const DefaultSize = 1024 * 1024

// MaxRetainedCap caps how large a returned buffer is allowed to be before
// Put discards it instead of pooling it, avoiding one oversized record from
// pinning a large allocation in the pool indefinitely.
const MaxRetainedCap = 8 * 1024 * 1024

// ByteBuffer is a reusable, growable byte slice.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Len returns the buffer's current length.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// MustWrite appends data, growing the backing array if needed.
func (bb *ByteBuffer) MustWrite(data []byte) { bb.B = append(bb.B, data...) }

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

var bufferPool = sync.Pool{
	New: func() any { return NewByteBuffer(DefaultSize) },
}

// Get retrieves a reset ByteBuffer from the pool.
func Get() *ByteBuffer {
	bb := bufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// Put returns bb to the pool unless it has grown unreasonably large.
func Put(bb *ByteBuffer) {
	if cap(bb.B) > MaxRetainedCap {
		return
	}

	bufferPool.Put(bb)
}
