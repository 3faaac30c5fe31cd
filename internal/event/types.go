// Package event defines the events dispatched to listeners on dom nodes and
// the bus that dispatches them.
package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeScroll = "scroll"
	TypeResize = "resize"
	TypeLoad   = "load"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// ScrollEvent is dispatched on a scroll container after its scroll offset
// changed, whether the change came from the user or from code.
type ScrollEvent struct {
	baseEvent
	ScrollTop float64 // Offset at the time the change was queued
}

// NewScrollEvent creates a ScrollEvent.
func NewScrollEvent(scrollTop float64) ScrollEvent {
	return ScrollEvent{
		baseEvent: newBaseEvent(TypeScroll),
		ScrollTop: scrollTop,
	}
}

// ResizeEvent is dispatched on the window when its viewport size changes.
type ResizeEvent struct {
	baseEvent
	Width  int
	Height int
}

// NewResizeEvent creates a ResizeEvent.
func NewResizeEvent(width, height int) ResizeEvent {
	return ResizeEvent{
		baseEvent: newBaseEvent(TypeResize),
		Width:     width,
		Height:    height,
	}
}

// LoadEvent is dispatched on an image node when its content finished loading.
type LoadEvent struct {
	baseEvent
	Src    string
	Height int
}

// NewLoadEvent creates a LoadEvent.
func NewLoadEvent(src string, height int) LoadEvent {
	return LoadEvent{
		baseEvent: newBaseEvent(TypeLoad),
		Src:       src,
		Height:    height,
	}
}
