// Package status fans per-frame wink outputs out to observers.
package status

import (
	"sync"

	"github.com/ayusman/nayana/internal/wink"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 8

// Hub broadcasts outputs to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses that output.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]chan wink.Output
	nextID  int
	latest  wink.Output
	hasLast bool
	dropped uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]chan wink.Output),
	}
}

// Publish records out as the latest output and offers it to every subscriber.
func (h *Hub) Publish(out wink.Output) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = out
	h.hasLast = true

	for _, ch := range h.subs {
		select {
		case ch <- out:
		default:
			h.dropped++
		}
	}
}

// Subscribe registers a new observer. The returned cancel func unregisters
// it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan wink.Output, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan wink.Output, buffer)
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Latest returns the most recent output, if any.
func (h *Hub) Latest() (wink.Output, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLast
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped on full buffers.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}
