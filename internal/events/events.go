// Package events carries state-change notifications from the controllers to
// whatever presentation layer is subscribed.
package events

import "time"

// EventType identifies what changed.
type EventType string

const (
	// EventQueryChanged fires after the query state changed and the location was replaced.
	EventQueryChanged EventType = "query.changed"
	// EventResultsLoading fires when a result fetch starts.
	EventResultsLoading EventType = "results.loading"
	// EventResultsLoaded fires when the latest fetch committed a result set.
	EventResultsLoaded EventType = "results.loaded"
	// EventResultsFailed fires when the latest fetch failed.
	EventResultsFailed EventType = "results.failed"

	// EventItemPatched fires whenever an item's overlay entry changed.
	EventItemPatched EventType = "item.patched"
	// EventActionFailed fires when an item mutation was rolled back.
	EventActionFailed EventType = "item.action_failed"

	// EventColumnsChanged fires when the visible dense-table columns changed.
	EventColumnsChanged EventType = "columns.changed"
	// EventPresetsChanged fires when user presets were saved or deleted.
	EventPresetsChanged EventType = "presets.changed"
)

// Event is a single notification.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Type      EventType `json:"type"`
	ItemID    string    `json:"item_id,omitempty"`
}

// New creates an event stamped with the current time.
func New(t EventType, itemID string, data any) Event {
	return Event{Type: t, ItemID: itemID, Data: data, Timestamp: time.Now()}
}

// Emitter receives events. Controllers depend on this rather than on Bus.
type Emitter interface {
	Emit(event Event)
}

// NoopEmitter drops every event.
type NoopEmitter struct{}

// Emit implements Emitter as a no-op.
func (NoopEmitter) Emit(Event) {}

// OrNoop returns e, or a NoopEmitter when e is nil.
func OrNoop(e Emitter) Emitter {
	if e == nil {
		return NoopEmitter{}
	}
	return e
}
