package ingest

import (
	"sync"

	"github.com/xyVar/KLDAFinTech/internal/domain/tick"
)

// Buffer is the staging area between producers and the flusher. Enqueue only
// takes the lock for the append; DrainAll swaps the backing slice out, so no
// I/O ever happens while the lock is held.
type Buffer struct {
	mu      sync.Mutex
	ticks   []tick.Tick
	softCap int

	flushRequests chan struct{}
}

// NewBuffer creates a buffer with the given soft capacity. Crossing the soft
// cap signals an out-of-band flush request; it never blocks or drops ticks.
func NewBuffer(softCap int) *Buffer {
	return &Buffer{
		softCap:       softCap,
		flushRequests: make(chan struct{}, 1),
	}
}

// Enqueue appends a tick under mutual exclusion.
func (b *Buffer) Enqueue(t tick.Tick) {
	b.mu.Lock()
	b.ticks = append(b.ticks, t)
	full := b.softCap > 0 && len(b.ticks) >= b.softCap
	b.mu.Unlock()

	if full {
		select {
		case b.flushRequests <- struct{}{}:
		default:
			// a flush request is already pending
		}
	}
}

// DrainAll atomically swaps out and returns everything accumulated since the
// last drain, in arrival order.
func (b *Buffer) DrainAll() []tick.Tick {
	b.mu.Lock()
	drained := b.ticks
	b.ticks = nil
	b.mu.Unlock()

	return drained
}

// Len returns the number of buffered ticks.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ticks)
}

// FlushRequests exposes the out-of-band flush trigger for the flusher loop.
func (b *Buffer) FlushRequests() <-chan struct{} {
	return b.flushRequests
}
