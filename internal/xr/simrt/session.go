package simrt

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"oxrsession/internal/xr"
)

type session struct {
	inst          xr.Instance
	state         xr.SessionState
	running       bool
	exitRequested bool
	viewType      xr.ViewConfigurationType

	waited    bool
	frameOpen bool

	attached     map[xr.ActionSet]bool
	attachedOnce bool
	synced       bool
	actionStates map[stateKey]*actionValue
}

func (r *Runtime) now() xr.Time { return r.clock }

// queueState appends a state-changed event for s unless the lifecycle is
// driven manually.
func (r *Runtime) queueState(h xr.Session, s *session, states ...xr.SessionState) {
	if r.opts.ManualLifecycle {
		return
	}
	in, ok := r.instances[s.inst]
	if !ok {
		return
	}
	for _, st := range states {
		in.events = append(in.events, xr.EventSessionStateChanged{Session: h, State: st, Time: r.now()})
	}
}

// PushStateChange queues a session-state-changed event for s. The runtime
// enters the state when the event is polled.
func (r *Runtime) PushStateChange(s xr.Session, state xr.SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[s]
	if !ok {
		return
	}
	if in, ok := r.instances[sess.inst]; ok {
		in.events = append(in.events, xr.EventSessionStateChanged{Session: s, State: state, Time: r.now()})
	}
}

// SessionState returns the runtime-side state of s.
func (r *Runtime) SessionState(s xr.Session) xr.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[s]; ok {
		return sess.state
	}
	return xr.SessionStateUnknown
}

func (r *Runtime) CreateSession(inst xr.Instance, sys xr.SystemID, binding xr.GraphicsBinding) (xr.Session, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, res := r.liveSystem(inst, sys)
	if res.Failed() {
		return 0, res
	}
	if !in.graphicsQueried {
		return 0, xr.ErrorGraphicsRequirementsCallMissing
	}
	if binding.Display == 0 || binding.Context == 0 {
		return 0, xr.ErrorGraphicsDeviceInvalid
	}
	h := xr.Session(r.handle())
	s := &session{
		inst:         inst,
		attached:     make(map[xr.ActionSet]bool),
		actionStates: make(map[stateKey]*actionValue),
	}
	r.sessions[h] = s
	r.stats.SessionsCreated++
	r.queueState(h, s, xr.SessionStateIdle, xr.SessionStateReady)
	return h, xr.Success
}

func (r *Runtime) DestroySession(h xr.Session) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[h]; !ok {
		return xr.ErrorHandleInvalid
	}
	r.destroySessionLocked(h)
	return xr.Success
}

func (r *Runtime) destroySessionLocked(h xr.Session) {
	for sc, s := range r.swapchains {
		if s.session == h {
			delete(r.swapchains, sc)
		}
	}
	for sp, s := range r.spaces {
		if s.session == h {
			delete(r.spaces, sp)
		}
	}
	for t, ht := range r.handTrackers {
		if ht.session == h {
			delete(r.handTrackers, t)
		}
	}
	for p, pt := range r.passthroughs {
		if pt.session == h {
			delete(r.passthroughs, p)
		}
	}
	for l, p := range r.ptLayers {
		if _, ok := r.passthroughs[p]; !ok {
			delete(r.ptLayers, l)
		}
	}
	delete(r.sessions, h)
}

func (r *Runtime) liveSession(h xr.Session) (*session, xr.Result) {
	s, ok := r.sessions[h]
	if !ok {
		return nil, xr.ErrorHandleInvalid
	}
	if in, ok := r.instances[s.inst]; !ok || in.lost {
		return nil, xr.ErrorInstanceLost
	}
	return s, xr.Success
}

func (r *Runtime) BeginSession(h xr.Session, vt xr.ViewConfigurationType) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if s.running {
		return xr.ErrorSessionRunning
	}
	if s.state != xr.SessionStateReady {
		return xr.ErrorSessionNotReady
	}
	if vt != xr.ViewConfigurationPrimaryStereo {
		return xr.ErrorViewConfigurationTypeUnsupported
	}
	s.running = true
	s.viewType = vt
	r.stats.BeginSessions++
	r.queueState(h, s, xr.SessionStateSynchronized, xr.SessionStateVisible, xr.SessionStateFocused)
	return xr.Success
}

func (r *Runtime) EndSession(h xr.Session) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if !s.running {
		return xr.ErrorSessionNotRunning
	}
	if s.state != xr.SessionStateStopping {
		return xr.ErrorSessionNotStopping
	}
	if s.frameOpen {
		r.violate("session ended with an open frame")
	}
	s.running = false
	s.frameOpen = false
	s.waited = false
	r.stats.EndSessions++
	r.queueState(h, s, xr.SessionStateIdle)
	if s.exitRequested {
		r.queueState(h, s, xr.SessionStateExiting)
	}
	return xr.Success
}

func (r *Runtime) RequestExitSession(h xr.Session) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if !s.running {
		return xr.ErrorSessionNotRunning
	}
	s.exitRequested = true
	r.stats.ExitRequests++
	r.queueState(h, s, xr.SessionStateVisible, xr.SessionStateSynchronized, xr.SessionStateStopping)
	return xr.Success
}

func (r *Runtime) frameGate(s *session) xr.Result {
	if !s.running && !r.opts.AllowIdleFrames {
		return xr.ErrorSessionNotRunning
	}
	return xr.Success
}

func (r *Runtime) WaitFrame(h xr.Session) (xr.FrameState, xr.Result) {
	r.mu.Lock()
	s, res := r.liveSession(h)
	if res.Failed() {
		r.mu.Unlock()
		return xr.FrameState{}, res
	}
	if res = r.frameGate(s); res.Failed() {
		r.mu.Unlock()
		return xr.FrameState{}, res
	}
	if s.waited {
		r.violate("wait frame called twice without begin frame")
		r.mu.Unlock()
		return xr.FrameState{}, xr.ErrorCallOrderInvalid
	}
	period := r.opts.DisplayPeriod
	var sleep time.Duration
	if r.opts.Pace && !r.lastWait.IsZero() {
		sleep = time.Until(r.lastWait.Add(period))
	}
	s.waited = true
	r.clock += xr.Time(period)
	fs := xr.FrameState{
		PredictedDisplayTime:   r.clock + xr.Time(period),
		PredictedDisplayPeriod: xr.Duration(period),
		ShouldRender:           s.state == xr.SessionStateVisible || s.state == xr.SessionStateFocused,
	}
	r.stats.WaitFrames++
	r.mu.Unlock()

	if sleep > 0 {
		time.Sleep(sleep)
	}
	if r.opts.Pace {
		r.mu.Lock()
		r.lastWait = time.Now()
		r.mu.Unlock()
	}
	return fs, xr.Success
}

func (r *Runtime) BeginFrame(h xr.Session) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if res = r.frameGate(s); res.Failed() {
		return res
	}
	if !s.waited {
		r.violate("begin frame without wait frame")
		return xr.ErrorCallOrderInvalid
	}
	s.waited = false
	r.stats.BeginFrames++
	if s.frameOpen {
		r.violate("begin frame without end frame")
		return xr.FrameDiscarded
	}
	s.frameOpen = true
	return xr.Success
}

func (r *Runtime) EndFrame(h xr.Session, info xr.FrameEndInfo) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if !s.frameOpen {
		r.violate("end frame without begin frame")
		return xr.ErrorCallOrderInvalid
	}
	s.frameOpen = false
	r.stats.EndFrames++
	r.stats.LastLayers = append([]xr.CompositionLayer(nil), info.Layers...)
	if len(info.Layers) == 0 {
		r.stats.EmptyFrames++
	}
	for _, l := range info.Layers {
		switch layer := l.(type) {
		case *xr.CompositionLayerProjection:
			if _, ok := r.spaces[layer.Space]; !ok {
				return xr.ErrorHandleInvalid
			}
			for _, v := range layer.Views {
				sc, ok := r.swapchains[v.SubImage.Swapchain]
				if !ok {
					return xr.ErrorHandleInvalid
				}
				if sc.acquired >= 0 || sc.releases == 0 {
					r.violate("layer references a swapchain without a released image")
					return xr.ErrorLayerInvalid
				}
			}
		case *xr.CompositionLayerPassthrough:
			if _, ok := r.ptLayers[layer.Layer]; !ok {
				return xr.ErrorHandleInvalid
			}
		}
	}
	return xr.Success
}

// eyeSeparation is the simulated inter-pupillary distance in meters.
const eyeSeparation = 0.064

func (r *Runtime) LocateViews(h xr.Session, info xr.ViewLocateInfo) (xr.ViewState, []xr.View, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return xr.ViewState{}, nil, res
	}
	if res = r.frameGate(s); res.Failed() {
		return xr.ViewState{}, nil, res
	}
	if info.ViewConfigurationType != xr.ViewConfigurationPrimaryStereo {
		return xr.ViewState{}, nil, xr.ErrorViewConfigurationTypeUnsupported
	}
	base, ok := r.spaces[info.Space]
	if !ok {
		return xr.ViewState{}, nil, xr.ErrorHandleInvalid
	}
	basePose, _ := r.worldPose(base)
	n := len(r.opts.Views)
	views := make([]xr.View, n)
	for i := range views {
		offset := (float32(i) - float32(n-1)/2) * eyeSeparation
		eye := xr.Pose{Orientation: mgl32.QuatIdent(), Position: mgl32.Vec3{offset, 0, 0}}
		views[i] = xr.View{
			Pose: basePose.Inverse().Mul(r.headPose.Mul(eye)),
			Fov:  xr.SymmetricFov(0.785, 0.785),
		}
	}
	var st xr.ViewState
	if r.trackingValid {
		st.Flags = xr.ViewStateOrientationValid | xr.ViewStatePositionValid |
			xr.ViewStateOrientationTracked | xr.ViewStatePositionTracked
	}
	return st, views, xr.Success
}
