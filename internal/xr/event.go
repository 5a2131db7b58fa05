package xr

// Event is one entry drained from the runtime event queue.
type Event interface {
	eventType() string
}

// EventTypeName returns a stable short name for e, used in logs and metrics.
func EventTypeName(e Event) string {
	if e == nil {
		return "none"
	}
	return e.eventType()
}

// EventSessionStateChanged reports a session lifecycle transition.
type EventSessionStateChanged struct {
	Session Session
	State   SessionState
	Time    Time
}

// EventInstanceLossPending reports the runtime is about to lose the instance.
type EventInstanceLossPending struct {
	LossTime Time
}

// EventInteractionProfileChanged reports the active controller profile changed.
type EventInteractionProfileChanged struct {
	Session Session
}

// EventReferenceSpaceChangePending reports a recenter or bounds change.
type EventReferenceSpaceChangePending struct {
	Session             Session
	ReferenceSpaceType  ReferenceSpaceType
	ChangeTime          Time
	PoseValid           bool
	PoseInPreviousSpace Pose
}

// EventEventsLost reports the runtime queue overflowed.
type EventEventsLost struct {
	LostEventCount uint32
}

// EventUnknown is any event type the core does not model.
type EventUnknown struct {
	Type int32
}

func (EventSessionStateChanged) eventType() string         { return "session_state_changed" }
func (EventInstanceLossPending) eventType() string         { return "instance_loss_pending" }
func (EventInteractionProfileChanged) eventType() string   { return "interaction_profile_changed" }
func (EventReferenceSpaceChangePending) eventType() string { return "reference_space_change_pending" }
func (EventEventsLost) eventType() string                  { return "events_lost" }
func (EventUnknown) eventType() string                     { return "unknown" }
