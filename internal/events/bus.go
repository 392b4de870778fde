package events

import (
	"log/slog"
	"sync"

	"github.com/watchlist/triage/internal/logger"
)

// Bus fans events out to subscribers. Sends never block: a subscriber that
// stops draining its channel loses events.
type Bus struct {
	logger *slog.Logger
	subs   map[int]chan Event
	mu     sync.RWMutex
	nextID int
	closed bool
}

// NewBus creates an empty bus.
func NewBus(log *slog.Logger) *Bus {
	return &Bus{logger: logger.OrDiscard(log), subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber with the given channel buffer. The returned
// cancel function unregisters it and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Emit implements Emitter.
func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropped event for slow subscriber",
				slog.Int("subscriber", id),
				slog.String("event_type", string(event.Type)))
		}
	}
}

// Shutdown closes every subscriber channel. Later emits are dropped.
func (b *Bus) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.closed = true
	return nil
}
