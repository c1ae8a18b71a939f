// Package telemetry provides reel activity tracking, frame performance
// statistics and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSettle EventType = iota
	EventWheel
	EventDrag
	EventImageLoaded
	EventImageFailed
	EventResize
	EventReload
)

func (t EventType) String() string {
	switch t {
	case EventSettle:
		return "settle"
	case EventWheel:
		return "wheel"
	case EventDrag:
		return "drag"
	case EventImageLoaded:
		return "image_loaded"
	case EventImageFailed:
		return "image_failed"
	case EventResize:
		return "resize"
	case EventReload:
		return "reload"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type EventType
	// Time is the page clock in seconds.
	Time float64
	// Index is the centred item for settle events.
	Index int
}

// NewSettleEvent creates an event for the gallery settling on index.
func NewSettleEvent(t float64, index int) Event {
	return Event{Type: EventSettle, Time: t, Index: index}
}

// NewInputEvent creates a wheel or drag event.
func NewInputEvent(typ EventType, t float64) Event {
	return Event{Type: typ, Time: t}
}
