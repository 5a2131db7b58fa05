package session

import (
	"github.com/go-gl/mathgl/mgl32"

	"oxrsession/internal/xr"
)

// Action names of the default controller table read by PollActions.
const (
	ActionGripPose   = "grip_pose"
	ActionAimPose    = "aim_pose"
	ActionSqueeze    = "squeeze"
	ActionTrigger    = "trigger"
	ActionThumbstick = "thumbstick"
	ActionHaptic     = "haptic"
	ActionStickClick = "click_s"
	ActionClickA     = "click_a"
	ActionClickB     = "click_b"
	ActionClickX     = "click_x"
	ActionClickY     = "click_y"
	ActionMenuQuit   = "menu_quit"
)

// HandInput is the latest known controller state of one hand.
type HandInput struct {
	Squeeze    float32
	Trigger    float32
	Stick      mgl32.Vec2
	StickClick bool

	GripActive bool
	AimActive  bool
	Grip       xr.SpaceLocation
	Aim        xr.SpaceLocation
}

// InputSnapshot is what PollActions hands to renderers. Values are only
// updated from active actions, so an idle controller keeps its last state.
type InputSnapshot struct {
	Hands      [HandCount]HandInput
	A, B, X, Y bool
	// Quit is set on the sync where the menu button was pressed.
	Quit bool
}

// PollActions syncs actions and folds the result into the manager's input
// snapshot. Squeezing past the threshold fires a haptic pulse on that hand
// and letting go below it stops the pulse. Pressing the menu button requests
// session exit.
func (m *Manager) PollActions(t xr.Time) InputSnapshot {
	in := m.input
	if in == nil {
		return InputSnapshot{}
	}
	snap := m.inputState
	snap.Quit = false
	if !in.Sync() {
		return snap
	}

	for h := HandLeft; h < HandCount; h++ {
		hi := &snap.Hands[h]
		if st := in.HandState(ActionSqueeze, h); st.Active() {
			prev := hi.Squeeze
			hi.Squeeze, _ = st.Float()
			switch {
			case hi.Squeeze > defaultSqueezePull:
				in.Vibrate(ActionHaptic, h, defaultHapticAmp)
			case prev > defaultSqueezePull:
				in.StopVibration(ActionHaptic, h)
			}
		}
		if st := in.HandState(ActionTrigger, h); st.Active() {
			hi.Trigger, _ = st.Float()
		}
		if st := in.HandState(ActionThumbstick, h); st.Active() {
			hi.Stick, _ = st.Vector2()
		}
		if st := in.HandState(ActionStickClick, h); st.Active() {
			hi.StickClick, _ = st.Bool()
		}

		hi.GripActive = in.HandState(ActionGripPose, h).Active()
		hi.AimActive = in.HandState(ActionAimPose, h).Active()
		if hi.GripActive {
			hi.Grip = in.Locate(ActionGripPose, h, m.spaces.App, t)
		}
		if hi.AimActive {
			hi.Aim = in.Locate(ActionAimPose, h, m.spaces.App, t)
		}
	}

	for name, dst := range map[string]*bool{
		ActionClickA: &snap.A,
		ActionClickB: &snap.B,
		ActionClickX: &snap.X,
		ActionClickY: &snap.Y,
	} {
		if st := in.State(name); st.Active() {
			*dst, _ = st.Bool()
		}
	}

	if in.State(ActionMenuQuit).Pressed() {
		snap.Quit = true
		m.log.Info().Msg("menu pressed, requesting session exit")
		_ = m.RequestExit()
	}

	m.inputState = snap
	return snap
}
