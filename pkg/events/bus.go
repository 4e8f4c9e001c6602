package events

import "sync"

// Bus is an unbounded multi-producer/single-consumer queue. Publish never
// blocks, so a slow consumer can never stall a background task. The consumer
// drains with TryNext and may park on Wake between drains instead of
// polling.
//
// Ordering is FIFO over publishes, which gives per-producer ordering; events
// from concurrently running producers interleave in whatever order their
// publishes land.
type Bus struct {
	mu    sync.Mutex
	queue []Event
	wake  chan struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		wake: make(chan struct{}, 1),
	}
}

// Publish appends an event. It never blocks.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	b.queue = append(b.queue, ev)
	b.mu.Unlock()

	// Coalesced wakeup: one pending signal is enough, the consumer drains
	// everything queued when it runs.
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// TryNext pops the oldest queued event without blocking.
func (b *Bus) TryNext() (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return nil, false
	}
	ev := b.queue[0]
	b.queue = b.queue[1:]
	return ev, true
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Wake returns a channel that receives a signal after a publish. A receive
// does not guarantee the queue is still non-empty; callers must re-check
// with TryNext.
func (b *Bus) Wake() <-chan struct{} {
	return b.wake
}
