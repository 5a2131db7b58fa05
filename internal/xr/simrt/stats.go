package simrt

import "oxrsession/internal/xr"

// Stats counts runtime calls and protocol violations.
type Stats struct {
	InstancesCreated int
	SessionsCreated  int
	BeginSessions    int
	EndSessions      int
	ExitRequests     int
	EventsPolled     int

	WaitFrames  int
	BeginFrames int
	EndFrames   int
	// EmptyFrames counts EndFrame calls submitting zero layers.
	EmptyFrames int

	Acquires       int
	Releases       int
	DoubleAcquires int
	// MaxOutstanding is the largest number of swapchains simultaneously
	// holding an acquired image.
	MaxOutstanding    int
	ImageWaitTimeouts int

	Syncs              int
	HapticStops        int
	PassthroughResumes int

	Violations []string
	LastLayers []xr.CompositionLayer
}

// Stats returns a snapshot of the call counters.
func (r *Runtime) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	s.Violations = append([]string(nil), r.stats.Violations...)
	s.LastLayers = append([]xr.CompositionLayer(nil), r.stats.LastLayers...)
	return s
}

// Live counts handles that have not been destroyed.
type Live struct {
	Instances         int
	Sessions          int
	Swapchains        int
	Spaces            int
	ActionSets        int
	HandTrackers      int
	Passthroughs      int
	PassthroughLayers int
}

// Zero reports whether every handle has been released.
func (l Live) Zero() bool { return l == Live{} }

// Live returns the live handle counts.
func (r *Runtime) Live() Live {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Live{
		Instances:         len(r.instances),
		Sessions:          len(r.sessions),
		Swapchains:        len(r.swapchains),
		Spaces:            len(r.spaces),
		ActionSets:        len(r.actionSets),
		HandTrackers:      len(r.handTrackers),
		Passthroughs:      len(r.passthroughs),
		PassthroughLayers: len(r.ptLayers),
	}
}
