package session

import (
	"github.com/rs/zerolog"

	"oxrsession/internal/xr"
)

// StateMachine owns the session lifecycle state. Transitions come only from
// session-state-changed events; the machine issues begin-session on READY and
// end-session on STOPPING.
type StateMachine struct {
	rt       xr.Runtime
	chk      *checker
	log      zerolog.Logger
	viewType xr.ViewConfigurationType

	session xr.Session
	state   xr.SessionState
	running bool
	exit    bool
	restart bool

	// onTransition is invoked after every accepted event.
	onTransition func(from, to xr.SessionState)
}

func newStateMachine(rt xr.Runtime, chk *checker, log zerolog.Logger, vt xr.ViewConfigurationType) *StateMachine {
	return &StateMachine{rt: rt, chk: chk, log: log, viewType: vt}
}

// Bind makes s the active session and resets the state to UNKNOWN.
func (sm *StateMachine) Bind(s xr.Session) {
	sm.session = s
	sm.state = xr.SessionStateUnknown
	sm.running = false
	sm.exit = false
	sm.restart = false
}

func (sm *StateMachine) Session() xr.Session    { return sm.session }
func (sm *StateMachine) State() xr.SessionState { return sm.state }
func (sm *StateMachine) IsRunning() bool        { return sm.running }
func (sm *StateMachine) ExitRequested() bool    { return sm.exit }
func (sm *StateMachine) RestartRequested() bool { return sm.restart }

// requestRestart flags exit with restart, used on instance loss.
func (sm *StateMachine) requestRestart() {
	sm.exit = true
	sm.restart = true
}

func runningState(s xr.SessionState) bool {
	switch s {
	case xr.SessionStateReady, xr.SessionStateSynchronized, xr.SessionStateVisible, xr.SessionStateFocused:
		return true
	}
	return false
}

// Handle applies one session-state-changed event. An event for a session
// other than the active one is rejected and leaves the state untouched. A
// null session handle addresses the active session.
func (sm *StateMachine) Handle(ev xr.EventSessionStateChanged) error {
	if ev.Session != 0 && ev.Session != sm.session {
		err := staleSessionError{got: ev.Session, active: sm.session}
		sm.log.Error().Err(err).Str("state", ev.State.String()).Msg("rejected session state event")
		return err
	}
	from := sm.state
	sm.state = ev.State
	sm.running = runningState(ev.State)
	sm.log.Info().
		Str("from", from.String()).
		Str("to", ev.State.String()).
		Uint64("session", uint64(ev.Session)).
		Int64("time", int64(ev.Time)).
		Msg("session state changed")

	var err error
	switch ev.State {
	case xr.SessionStateReady:
		err = sm.chk.check(sm.rt.BeginSession(sm.session, sm.viewType), "xrBeginSession")
	case xr.SessionStateStopping:
		err = sm.chk.check(sm.rt.EndSession(sm.session), "xrEndSession")
	case xr.SessionStateExiting:
		sm.exit = true
		sm.restart = false
	case xr.SessionStateLossPending:
		sm.exit = true
		sm.restart = true
	}
	if sm.onTransition != nil {
		sm.onTransition(from, ev.State)
	}
	return err
}
