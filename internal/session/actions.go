package session

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"oxrsession/internal/registry"
	"oxrsession/internal/xr"
)

// Hand indexes per-hand state. Only HandLeft and HandRight are valid.
type Hand int

const (
	HandLeft Hand = iota
	HandRight
	HandCount
)

// Valid reports whether h names a hand.
func (h Hand) Valid() bool { return h >= HandLeft && h < HandCount }

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	}
	return fmt.Sprintf("Hand(%d)", int(h))
}

// Path returns the subaction path of h.
func (h Hand) Path() string {
	switch h {
	case HandLeft:
		return registry.HandLeft
	case HandRight:
		return registry.HandRight
	}
	return ""
}

func handOf(path string) (Hand, bool) {
	switch path {
	case registry.HandLeft:
		return HandLeft, true
	case registry.HandRight:
		return HandRight, true
	}
	return 0, false
}

// ActionState is the synced state of one action, tagged by its kind. Only
// the accessor matching Kind reports ok.
type ActionState struct {
	kind    xr.ActionType
	active  bool
	changed bool

	b bool
	f float32
	v mgl32.Vec2
}

func (s ActionState) Kind() xr.ActionType { return s.kind }

// Active reports whether a bound input source drove the action this sync.
// Consumers should not update dependent state when it is false.
func (s ActionState) Active() bool { return s.active }

func (s ActionState) Changed() bool { return s.changed }

func (s ActionState) Bool() (bool, bool) {
	return s.b, s.kind == xr.ActionTypeBooleanInput
}

func (s ActionState) Float() (float32, bool) {
	return s.f, s.kind == xr.ActionTypeFloatInput
}

func (s ActionState) Vector2() (mgl32.Vec2, bool) {
	return s.v, s.kind == xr.ActionTypeVector2fInput
}

// Pressed reports an active boolean that changed to true since the last sync.
func (s ActionState) Pressed() bool {
	v, ok := s.Bool()
	return ok && s.active && s.changed && v
}

func actionType(kind string) (xr.ActionType, bool) {
	switch kind {
	case registry.KindPose:
		return xr.ActionTypePoseInput, true
	case registry.KindFloat:
		return xr.ActionTypeFloatInput, true
	case registry.KindVector2:
		return xr.ActionTypeVector2fInput, true
	case registry.KindBoolean:
		return xr.ActionTypeBooleanInput, true
	case registry.KindVibration:
		return xr.ActionTypeVibrationOutput, true
	}
	return 0, false
}

type declaredAction struct {
	name   string
	handle xr.Action
	kind   xr.ActionType
	hands  []Hand
	spaces [HandCount]xr.Space
	// space is the action space of an unscoped pose action.
	space xr.Space
}

func (a *declaredAction) scoped(h Hand) bool {
	for _, x := range a.hands {
		if x == h {
			return true
		}
	}
	return false
}

var errAlreadyAttached = errors.New("action set already attached")

// Input is the action subsystem: one action set declared from a binding
// profile, attached once to the session and synced every frame.
type Input struct {
	rt  xr.Runtime
	chk *checker
	log zerolog.Logger

	inst      xr.Instance
	session   xr.Session
	set       xr.ActionSet
	handPaths [HandCount]xr.Path
	actions   map[string]*declaredAction
	order     []string
	attached  bool
	synced    bool
}

func newInput(rt xr.Runtime, chk *checker, log zerolog.Logger, inst xr.Instance) *Input {
	return &Input{
		rt:      rt,
		chk:     chk,
		log:     log.With().Str("component", "input").Logger(),
		inst:    inst,
		actions: make(map[string]*declaredAction),
	}
}

// Declare creates the action set, its actions and the suggested bindings of
// p. Failing to create the set is fatal; a single action or binding table
// the runtime refuses is logged and left out.
func (in *Input) Declare(p registry.Profile) error {
	for h := HandLeft; h < HandCount; h++ {
		path, res := in.rt.StringToPath(in.inst, h.Path())
		if err := in.chk.check(res, "xrStringToPath"); err != nil {
			return ErrFatalSetup("hand paths", err)
		}
		in.handPaths[h] = path
	}

	set, res := in.rt.CreateActionSet(in.inst, xr.ActionSetCreateInfo{
		Name:          p.ActionSet.Name,
		LocalizedName: p.ActionSet.LocalizedName,
		Priority:      p.ActionSet.Priority,
	})
	if err := in.chk.check(res, "xrCreateActionSet"); err != nil {
		return ErrFatalSetup("create action set", err)
	}
	in.set = set

	for _, spec := range p.Actions {
		kind, ok := actionType(spec.Kind)
		if !ok {
			in.log.Warn().Str("action", spec.Name).Str("kind", spec.Kind).Msg("unknown action kind")
			continue
		}
		a := &declaredAction{name: spec.Name, kind: kind}
		var subs []xr.Path
		for _, hp := range spec.Hands {
			h, ok := handOf(hp)
			if !ok {
				in.log.Warn().Str("action", spec.Name).Str("hand", hp).Msg("unknown subaction path")
				continue
			}
			a.hands = append(a.hands, h)
			subs = append(subs, in.handPaths[h])
		}
		handle, res := in.rt.CreateAction(set, xr.ActionCreateInfo{
			Name:           spec.Name,
			LocalizedName:  spec.LocalizedName,
			Type:           kind,
			SubactionPaths: subs,
		})
		if in.chk.check(res, "xrCreateAction") != nil {
			continue
		}
		a.handle = handle
		in.actions[spec.Name] = a
		in.order = append(in.order, spec.Name)
	}

	profile, res := in.rt.StringToPath(in.inst, p.Path)
	if in.chk.check(res, "xrStringToPath") != nil {
		return nil
	}
	var bindings []xr.ActionSuggestedBinding
	for _, b := range p.Bindings {
		a, ok := in.actions[b.Action]
		if !ok {
			continue
		}
		path, res := in.rt.StringToPath(in.inst, b.Path)
		if in.chk.check(res, "xrStringToPath") != nil {
			continue
		}
		bindings = append(bindings, xr.ActionSuggestedBinding{Action: a.handle, Binding: path})
	}
	if in.chk.check(in.rt.SuggestInteractionProfileBindings(in.inst, profile, bindings), "xrSuggestInteractionProfileBindings") == nil {
		in.log.Info().
			Str("profile", p.Path).
			Int("actions", len(in.order)).
			Int("bindings", len(bindings)).
			Msg("interaction profile bindings suggested")
	}
	return nil
}

// Attach attaches the action set to s. It may succeed only once per session.
func (in *Input) Attach(s xr.Session) error {
	if in.attached {
		return errAlreadyAttached
	}
	if err := in.chk.check(in.rt.AttachSessionActionSets(s, []xr.ActionSet{in.set}), "xrAttachSessionActionSets"); err != nil {
		return ErrFatalSetup("attach action set", err)
	}
	in.session = s
	in.attached = true
	return nil
}

// CreateActionSpaces creates one space per pose action and scoped hand.
func (in *Input) CreateActionSpaces() {
	for _, name := range in.order {
		a := in.actions[name]
		if a.kind != xr.ActionTypePoseInput {
			continue
		}
		if len(a.hands) == 0 {
			sp, res := in.rt.CreateActionSpace(in.session, a.handle, xr.NullPath, xr.IdentityPose())
			if in.chk.check(res, "xrCreateActionSpace") == nil {
				a.space = sp
			}
			continue
		}
		for _, h := range a.hands {
			sp, res := in.rt.CreateActionSpace(in.session, a.handle, in.handPaths[h], xr.IdentityPose())
			if in.chk.check(res, "xrCreateActionSpace") == nil {
				a.spaces[h] = sp
			}
		}
	}
}

// Sync refreshes all action states. It must run before any state query in a
// frame; on failure the previous states are reported as inactive.
func (in *Input) Sync() bool {
	res := in.rt.SyncActions(in.session, []xr.ActiveActionSet{{ActionSet: in.set}})
	if in.chk.check(res, "xrSyncActions") != nil {
		in.synced = false
		return false
	}
	in.synced = true
	return true
}

// State returns the unscoped state of the named action.
func (in *Input) State(name string) ActionState {
	return in.state(name, xr.NullPath)
}

// HandState returns the state of the named action for one hand. Hands the
// action was not declared for report an inactive state.
func (in *Input) HandState(name string, h Hand) ActionState {
	if a, ok := in.actions[name]; !ok || !h.Valid() || !a.scoped(h) {
		return ActionState{}
	}
	return in.state(name, in.handPaths[h])
}

func (in *Input) state(name string, sub xr.Path) ActionState {
	a, ok := in.actions[name]
	if !ok {
		return ActionState{}
	}
	st := ActionState{kind: a.kind}
	if !in.synced {
		return st
	}
	switch a.kind {
	case xr.ActionTypeBooleanInput:
		v, res := in.rt.GetActionStateBoolean(in.session, a.handle, sub)
		if in.chk.check(res, "xrGetActionStateBoolean") == nil {
			st.active, st.changed, st.b = v.IsActive, v.ChangedSinceLastSync, v.CurrentState
		}
	case xr.ActionTypeFloatInput:
		v, res := in.rt.GetActionStateFloat(in.session, a.handle, sub)
		if in.chk.check(res, "xrGetActionStateFloat") == nil {
			st.active, st.changed, st.f = v.IsActive, v.ChangedSinceLastSync, v.CurrentState
		}
	case xr.ActionTypeVector2fInput:
		v, res := in.rt.GetActionStateVector2f(in.session, a.handle, sub)
		if in.chk.check(res, "xrGetActionStateVector2f") == nil {
			st.active, st.changed, st.v = v.IsActive, v.ChangedSinceLastSync, v.CurrentState
		}
	case xr.ActionTypePoseInput:
		v, res := in.rt.GetActionStatePose(in.session, a.handle, sub)
		if in.chk.check(res, "xrGetActionStatePose") == nil {
			st.active = v.IsActive
		}
	}
	return st
}

// Vibrate fires a minimum-duration pulse at amplitude on hand. No
// acknowledgement is modeled.
func (in *Input) Vibrate(name string, h Hand, amplitude float32) {
	a, ok := in.actions[name]
	if !ok || a.kind != xr.ActionTypeVibrationOutput || !h.Valid() || !a.scoped(h) {
		return
	}
	_ = in.chk.check(in.rt.ApplyHapticFeedback(in.session, a.handle, in.handPaths[h], xr.HapticVibration{
		Duration:  xr.MinHapticDuration,
		Frequency: xr.FrequencyUnspecified,
		Amplitude: amplitude,
	}), "xrApplyHapticFeedback")
}

// StopVibration cancels any pulse on hand.
func (in *Input) StopVibration(name string, h Hand) {
	a, ok := in.actions[name]
	if !ok || a.kind != xr.ActionTypeVibrationOutput || !h.Valid() || !a.scoped(h) {
		return
	}
	_ = in.chk.check(in.rt.StopHapticFeedback(in.session, a.handle, in.handPaths[h]), "xrStopHapticFeedback")
}

// ActionSpace returns the space of a pose action for hand.
func (in *Input) ActionSpace(name string, h Hand) (xr.Space, bool) {
	a, ok := in.actions[name]
	if !ok || !h.Valid() || a.spaces[h] == 0 {
		return 0, false
	}
	return a.spaces[h], true
}

// Locate resolves the pose action space of hand in base at t.
func (in *Input) Locate(name string, h Hand, base xr.Space, t xr.Time) xr.SpaceLocation {
	sp, ok := in.ActionSpace(name, h)
	if !ok {
		return xr.SpaceLocation{}
	}
	loc, res := in.rt.LocateSpace(sp, base, t)
	if in.chk.check(res, "xrLocateSpace") != nil {
		return xr.SpaceLocation{}
	}
	return loc
}

// Actions lists declared action names in declaration order.
func (in *Input) Actions() []string {
	return append([]string(nil), in.order...)
}

func (in *Input) destroySpaces() {
	for _, name := range in.order {
		a := in.actions[name]
		for h := range a.spaces {
			if a.spaces[h] != 0 {
				_ = in.chk.check(in.rt.DestroySpace(a.spaces[h]), "xrDestroySpace")
				a.spaces[h] = 0
			}
		}
		if a.space != 0 {
			_ = in.chk.check(in.rt.DestroySpace(a.space), "xrDestroySpace")
			a.space = 0
		}
	}
}
