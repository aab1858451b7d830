package events

import (
	"sync"

	"flipnet/core/types"
)

// busHistory bounds the replay window kept for late-attaching observers.
const busHistory = 256

// Bus is an Emitter that fans events out to subscribers and keeps a bounded
// ring of recent events for queries. Slow subscribers drop events rather than
// stall emitters.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]chan *types.Event
	nextID uint64
	recent []*types.Event
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan *types.Event)}
}

// Emit converts the payload and delivers it to all subscribers.
func (b *Bus) Emit(evt Event) {
	if b == nil || evt == nil {
		return
	}
	converted := evt.Event()
	if converted == nil {
		return
	}
	b.mu.Lock()
	b.recent = append(b.recent, converted)
	if len(b.recent) > busHistory {
		b.recent = b.recent[len(b.recent)-busHistory:]
	}
	for _, ch := range b.subs {
		select {
		case ch <- converted:
		default:
		}
	}
	b.mu.Unlock()
}

// Subscribe registers a buffered observer channel. The returned cancel
// function detaches the observer and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan *types.Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan *types.Event, buffer)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()
	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Recent returns a copy of the retained event tail, oldest first.
func (b *Bus) Recent() []*types.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*types.Event, len(b.recent))
	copy(out, b.recent)
	return out
}
