package memory

import (
	"fmt"
	"sync"
)

// Buffer is a byte buffer whose memory accounting is registered with a
// Manager on creation and released exactly once, whichever exit path
// releases it first.
//
// Contract:
// - Concurrency: all methods are safe for concurrent use.
// - Accounting: the registered size is the buffer's capacity; growth
//   through Write is re-registered, never capacity-rejected.
type Buffer struct {
	mgr *Manager
	key string

	mu   sync.Mutex
	data []byte

	release sync.Once
}

// NewBuffer allocates a managed buffer with the given initial capacity
// and registers it as one allocation record. The caller owns the
// buffer and must Release it; prefer WithBuffer when the lifetime fits
// a single function scope.
func (m *Manager) NewBuffer(capacity int64, category Category) (*Buffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, capacity)
	}

	key := fmt.Sprintf("buffer:%d", m.bufSeq.Add(1))
	if err := m.Allocate(key, capacity, category); err != nil {
		return nil, err
	}

	return &Buffer{
		mgr:  m,
		key:  key,
		data: make([]byte, 0, capacity),
	}, nil
}

// WithBuffer runs fn with a managed buffer and guarantees the buffer's
// allocation record is released on every exit path, including panic.
func (m *Manager) WithBuffer(capacity int64, category Category, fn func(*Buffer) error) error {
	buf, err := m.NewBuffer(capacity, category)
	if err != nil {
		return err
	}
	defer buf.Release()
	return fn(buf)
}

// Key returns the allocation key this buffer is registered under.
func (b *Buffer) Key() string {
	return b.key
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Bytes returns the mutable view over the buffer's contents. The
// returned slice aliases the buffer; it is invalidated by the next
// Write or Reset.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Clone returns an immutable copy of the buffer's contents.
func (b *Buffer) Clone() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Write appends p to the buffer, implementing io.Writer. If the
// backing array grows past the registered capacity the allocation
// record is resized to match.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	before := cap(b.data)
	b.data = append(b.data, p...)
	after := cap(b.data)
	b.mu.Unlock()

	if after != before {
		b.mgr.resize(b.key, int64(after))
	}
	return len(p), nil
}

// Reset truncates the buffer to zero length, keeping capacity.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.data = b.data[:0]
	b.mu.Unlock()
}

// Touch refreshes the buffer's position in the reclamation order.
func (b *Buffer) Touch() {
	b.mgr.Touch(b.key)
}

// Release deregisters the buffer's allocation record and returns the
// bytes freed. It is idempotent: only the first call deregisters, and
// subsequent calls return 0. A buffer already reclaimed by
// ForceCleanup also releases as 0.
func (b *Buffer) Release() int64 {
	var freed int64
	b.release.Do(func() {
		freed = b.mgr.Deallocate(b.key)
	})
	return freed
}
