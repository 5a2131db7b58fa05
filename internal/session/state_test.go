package session

import (
	"math/rand"
	"testing"

	"oxrsession/internal/xr"
	"oxrsession/internal/xr/simrt"
)

var allStates = []xr.SessionState{
	xr.SessionStateIdle,
	xr.SessionStateReady,
	xr.SessionStateSynchronized,
	xr.SessionStateVisible,
	xr.SessionStateFocused,
	xr.SessionStateStopping,
	xr.SessionStateLossPending,
	xr.SessionStateExiting,
}

func TestStateMachine_RunningTracksLatestState(t *testing.T) {
	m, _, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	sm := m.StateMachine()
	rng := rand.New(rand.NewSource(7))
	for seq := 0; seq < 50; seq++ {
		sm.Bind(m.Session())
		n := 1 + rng.Intn(12)
		for i := 0; i < n; i++ {
			st := allStates[rng.Intn(len(allStates))]
			// Begin/end failures are reported but do not change the state.
			_ = sm.Handle(xr.EventSessionStateChanged{Session: m.Session(), State: st})
			want := st == xr.SessionStateReady || st == xr.SessionStateSynchronized ||
				st == xr.SessionStateVisible || st == xr.SessionStateFocused
			if sm.IsRunning() != want {
				t.Fatalf("seq %d step %d: state %s running=%v want %v", seq, i, st, sm.IsRunning(), want)
			}
			if sm.State() != st {
				t.Fatalf("state=%s want %s", sm.State(), st)
			}
		}
	}
}

func TestStateMachine_IdleReadyBeginsOnce(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	rt.PushStateChange(m.Session(), xr.SessionStateIdle)
	rt.PushStateChange(m.Session(), xr.SessionStateReady)
	m.PollEvents()
	if !m.StateMachine().IsRunning() {
		t.Fatalf("expected running after READY")
	}
	if got := rt.Stats().BeginSessions; got != 1 {
		t.Fatalf("begin sessions=%d want 1", got)
	}
	if got := rt.Stats().EndSessions; got != 0 {
		t.Fatalf("end sessions=%d want 0", got)
	}
}

func TestStateMachine_ReadyStoppingEndsOnce(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	rt.PushStateChange(m.Session(), xr.SessionStateReady)
	rt.PushStateChange(m.Session(), xr.SessionStateStopping)
	exit, restart := m.PollEvents()
	if m.StateMachine().IsRunning() {
		t.Fatalf("expected not running after STOPPING")
	}
	if exit || restart {
		t.Fatalf("unexpected exit=%v restart=%v", exit, restart)
	}
	st := rt.Stats()
	if st.BeginSessions != 1 || st.EndSessions != 1 {
		t.Fatalf("begin=%d end=%d want 1/1", st.BeginSessions, st.EndSessions)
	}
}

func TestStateMachine_StaleSessionRejected(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	rt.PushStateChange(m.Session(), xr.SessionStateReady)
	m.PollEvents()
	sm := m.StateMachine()
	before := sm.State()

	err := sm.Handle(xr.EventSessionStateChanged{Session: m.Session() + 1000, State: xr.SessionStateStopping})
	if !IsStaleSession(err) {
		t.Fatalf("expected stale session error, got %v", err)
	}
	if sm.State() != before || !sm.IsRunning() {
		t.Fatalf("state changed by stale event: %s running=%v", sm.State(), sm.IsRunning())
	}
	if rt.Stats().EndSessions != 0 {
		t.Fatalf("stale event issued end session")
	}
}

func TestStateMachine_NullSessionAppliesToActive(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	sm := m.StateMachine()
	// Let the runtime enter READY, then deliver the state with a null handle.
	rt.PushStateChange(m.Session(), xr.SessionStateReady)
	if _, res := rt.PollEvent(m.Instance()); res != xr.Success {
		t.Fatalf("PollEvent: %s", res)
	}
	if err := sm.Handle(xr.EventSessionStateChanged{State: xr.SessionStateReady}); err != nil {
		t.Fatalf("null session event rejected: %v", err)
	}
	if !sm.IsRunning() || sm.State() != xr.SessionStateReady {
		t.Fatalf("state=%s running=%v", sm.State(), sm.IsRunning())
	}
	if got := rt.Stats().BeginSessions; got != 1 {
		t.Fatalf("begin sessions=%d want 1", got)
	}
}

func TestStateMachine_ExitAndLoss(t *testing.T) {
	m, _, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	sm := m.StateMachine()

	_ = sm.Handle(xr.EventSessionStateChanged{Session: m.Session(), State: xr.SessionStateExiting})
	if !sm.ExitRequested() || sm.RestartRequested() {
		t.Fatalf("EXITING: exit=%v restart=%v", sm.ExitRequested(), sm.RestartRequested())
	}

	sm.Bind(m.Session())
	_ = sm.Handle(xr.EventSessionStateChanged{Session: m.Session(), State: xr.SessionStateLossPending})
	if !sm.ExitRequested() || !sm.RestartRequested() {
		t.Fatalf("LOSS_PENDING: exit=%v restart=%v", sm.ExitRequested(), sm.RestartRequested())
	}
}

func TestPollEvents_EmptyQueueIsIdempotent(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	rt.PushStateChange(m.Session(), xr.SessionStateReady)
	m.PollEvents()
	sm := m.StateMachine()
	state, running := sm.State(), sm.IsRunning()

	for i := 0; i < 3; i++ {
		exit, restart := m.PollEvents()
		if exit || restart {
			t.Fatalf("poll %d: exit=%v restart=%v", i, exit, restart)
		}
		if sm.State() != state || sm.IsRunning() != running {
			t.Fatalf("poll %d changed state to %s running=%v", i, sm.State(), sm.IsRunning())
		}
	}
}

func TestPollEvents_InstanceLossStopsDraining(t *testing.T) {
	pub := NewMemoryPublisher()
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, func(c *Config) { c.Publisher = pub })
	rt.LoseInstance(m.Instance())
	rt.PushStateChange(m.Session(), xr.SessionStateReady)

	exit, restart := m.PollEvents()
	if !exit || !restart {
		t.Fatalf("exit=%v restart=%v want true/true", exit, restart)
	}
	if rt.QueuedEvents(m.Instance()) != 1 {
		t.Fatalf("events after loss should stay queued, got %d", rt.QueuedEvents(m.Instance()))
	}
	if m.StateMachine().IsRunning() {
		t.Fatalf("READY after loss must not be processed")
	}
	if len(pub.Named(EventInstanceLoss)) != 1 {
		t.Fatalf("expected one instance loss event, got %+v", pub.Events())
	}
	if s := m.Snapshot(); !s.RestartRequested || !s.ExitRequested {
		t.Fatalf("snapshot not updated: %+v", s)
	}
}

func TestPollEvents_EventsLostCounted(t *testing.T) {
	pub := NewMemoryPublisher()
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, func(c *Config) { c.Publisher = pub })
	rt.PushEvent(m.Instance(), xr.EventEventsLost{LostEventCount: 5})
	rt.PushEvent(m.Instance(), xr.EventInteractionProfileChanged{Session: m.Session()})
	rt.PushEvent(m.Instance(), xr.EventUnknown{Type: 12345})

	exit, restart := m.PollEvents()
	if exit || restart {
		t.Fatalf("events lost must not request exit")
	}
	if got := m.Status().EventsLost; got != 5 {
		t.Fatalf("events lost=%d want 5", got)
	}
	if len(pub.Named(EventEventsLost)) != 1 {
		t.Fatalf("expected events_lost publication")
	}
	if m.StateMachine().State() != xr.SessionStateUnknown {
		t.Fatalf("state changed: %s", m.StateMachine().State())
	}
}

func TestPollEvents_DrainsWholeQueue(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	for i := 0; i < 100; i++ {
		rt.PushEvent(m.Instance(), xr.EventInteractionProfileChanged{Session: m.Session()})
	}
	rt.PushStateChange(m.Session(), xr.SessionStateIdle)
	rt.PushStateChange(m.Session(), xr.SessionStateReady)

	m.PollEvents()
	if got := rt.QueuedEvents(m.Instance()); got != 0 {
		t.Fatalf("queued=%d want 0", got)
	}
	if !m.StateMachine().IsRunning() || m.StateMachine().State() != xr.SessionStateReady {
		t.Fatalf("state=%s running=%v", m.StateMachine().State(), m.StateMachine().IsRunning())
	}
	if got := rt.Stats().BeginSessions; got != 1 {
		t.Fatalf("begin sessions=%d want 1", got)
	}
}

func TestPollEvents_StoppingBehindBacklogEndsSession(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	rt.PushStateChange(m.Session(), xr.SessionStateIdle)
	rt.PushStateChange(m.Session(), xr.SessionStateReady)
	m.PollEvents()

	for i := 0; i < 80; i++ {
		rt.PushEvent(m.Instance(), xr.EventInteractionProfileChanged{Session: m.Session()})
	}
	rt.PushStateChange(m.Session(), xr.SessionStateStopping)
	m.PollEvents()
	if m.StateMachine().IsRunning() {
		t.Fatalf("still running after STOPPING")
	}
	if got := rt.Stats().EndSessions; got != 1 {
		t.Fatalf("end sessions=%d want 1", got)
	}
	if res, _ := m.Tick(&recordingRenderer{}); res.Outcome != FrameSkipped {
		t.Fatalf("outcome=%s want skipped after STOPPING", res.Outcome)
	}
}
