package worldbox

// WorldEventType identifies a kind of registry change.
type WorldEventType uint8

const (
	EventPlaced           WorldEventType = iota // a new entry entered the world
	EventRemoved                                // an entry left the world
	EventMoved                                  // an entry's position changed
	EventTransformed                            // an entry's rotation or scale changed
	EventCollisionChanged                       // an entry's collision flag toggled
	EventSelected                               // an entry became the selection
	EventDeselected                             // the selection was cleared
)

// WorldEvent carries the resulting state of a registry change. Consumed by
// UI, input, and persistence collaborators.
type WorldEvent struct {
	Type      WorldEventType
	ID        EntryID
	Key       ResourceKey
	X, Y      float64
	Rotation  float64
	ScaleX    float64
	ScaleY    float64
	Collision bool
	Z         int
}

// EventSink receives world events. Set one on a Registry via SetEventSink;
// a nil sink drops events.
type EventSink interface {
	EmitWorldEvent(event WorldEvent)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(event WorldEvent)

// EmitWorldEvent calls f(event).
func (f EventSinkFunc) EmitWorldEvent(event WorldEvent) {
	f(event)
}
