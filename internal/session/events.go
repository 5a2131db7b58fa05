package session

// Event represents a lifecycle event published by the manager.
// Minimal and stable: name plus optional fields via key/values.
type Event struct {
	Name   string
	Fields map[string]any
}

// Event names.
const (
	EventStateChanged   = "session_state_changed"
	EventInstanceLoss   = "instance_loss_pending"
	EventEventsLost     = "events_lost"
	EventExitRequested  = "exit_requested"
	EventCapabilityOff  = "capability_disabled"
	EventImageWaitStall = "image_wait_timeout"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
