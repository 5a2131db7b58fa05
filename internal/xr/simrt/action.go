package simrt

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"oxrsession/internal/xr"
)

type actionSet struct {
	inst     xr.Instance
	info     xr.ActionSetCreateInfo
	attached bool
	actions  []xr.Action
}

type action struct {
	set  xr.ActionSet
	info xr.ActionCreateInfo
}

type stateKey struct {
	action    xr.Action
	subaction xr.Path
}

type actionValue struct {
	active     bool
	value      any
	changed    bool
	changeTime xr.Time
}

// HapticRecord is one haptic pulse applied through the simulator.
type HapticRecord struct {
	Action    string
	Subaction string
	Vibration xr.HapticVibration
}

func (r *Runtime) CreateActionSet(inst xr.Instance, info xr.ActionSetCreateInfo) (xr.ActionSet, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.liveInstance(inst); res.Failed() {
		return 0, res
	}
	if !validName(info.Name) {
		return 0, xr.ErrorNameInvalid
	}
	if info.LocalizedName == "" {
		return 0, xr.ErrorLocalizedNameInvalid
	}
	for _, as := range r.actionSets {
		if as.inst == inst && as.info.Name == info.Name {
			return 0, xr.ErrorNameDuplicated
		}
	}
	h := xr.ActionSet(r.handle())
	r.actionSets[h] = &actionSet{inst: inst, info: info}
	return h, xr.Success
}

func (r *Runtime) destroyActionSetLocked(h xr.ActionSet) {
	if as, ok := r.actionSets[h]; ok {
		for _, a := range as.actions {
			delete(r.actions, a)
		}
	}
	delete(r.actionSets, h)
}

func (r *Runtime) CreateAction(set xr.ActionSet, info xr.ActionCreateInfo) (xr.Action, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	as, ok := r.actionSets[set]
	if !ok {
		return 0, xr.ErrorHandleInvalid
	}
	if as.attached {
		return 0, xr.ErrorActionsetsAlreadyAttached
	}
	if !validName(info.Name) {
		return 0, xr.ErrorNameInvalid
	}
	for _, a := range as.actions {
		if r.actions[a].info.Name == info.Name {
			return 0, xr.ErrorNameDuplicated
		}
	}
	in := r.instances[as.inst]
	for _, p := range info.SubactionPaths {
		s := in.pathNames[p]
		if s != "/user/hand/left" && s != "/user/hand/right" {
			return 0, xr.ErrorPathUnsupported
		}
	}
	h := xr.Action(r.handle())
	info.SubactionPaths = append([]xr.Path(nil), info.SubactionPaths...)
	r.actions[h] = &action{set: set, info: info}
	as.actions = append(as.actions, h)
	return h, xr.Success
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

func (r *Runtime) SuggestInteractionProfileBindings(inst xr.Instance, profile xr.Path, bindings []xr.ActionSuggestedBinding) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, res := r.liveInstance(inst)
	if res.Failed() {
		return res
	}
	if !strings.HasPrefix(in.pathNames[profile], "/interaction_profiles/") {
		return xr.ErrorPathUnsupported
	}
	for _, b := range bindings {
		a, ok := r.actions[b.Action]
		if !ok {
			return xr.ErrorHandleInvalid
		}
		if r.actionSets[a.set].attached {
			return xr.ErrorActionsetsAlreadyAttached
		}
		if !strings.HasPrefix(in.pathNames[b.Binding], "/user/") {
			return xr.ErrorPathUnsupported
		}
	}
	in.suggested[profile] = append([]xr.ActionSuggestedBinding(nil), bindings...)
	return xr.Success
}

func (r *Runtime) AttachSessionActionSets(h xr.Session, sets []xr.ActionSet) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if s.attachedOnce {
		return xr.ErrorActionsetsAlreadyAttached
	}
	for _, set := range sets {
		if _, ok := r.actionSets[set]; !ok {
			return xr.ErrorHandleInvalid
		}
	}
	for _, set := range sets {
		r.actionSets[set].attached = true
		s.attached[set] = true
	}
	s.attachedOnce = true
	return xr.Success
}

func (r *Runtime) SyncActions(h xr.Session, active []xr.ActiveActionSet) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	if !s.attachedOnce {
		r.violate("sync before attach")
		return xr.ErrorActionsetNotAttached
	}
	for _, a := range active {
		if !s.attached[a.ActionSet] {
			return xr.ErrorActionsetNotAttached
		}
	}
	r.stats.Syncs++
	s.synced = true
	focused := s.state == xr.SessionStateFocused
	in := r.instances[s.inst]
	for _, a := range active {
		for _, ah := range r.actionSets[a.ActionSet].actions {
			act := r.actions[ah]
			subs := append([]xr.Path{xr.NullPath}, act.info.SubactionPaths...)
			for _, sub := range subs {
				r.syncValue(s, in, ah, act, sub, focused)
			}
		}
	}
	if !focused {
		return xr.SessionNotFocused
	}
	return xr.Success
}

func (r *Runtime) syncValue(s *session, in *instance, h xr.Action, act *action, sub xr.Path, focused bool) {
	key := stateKey{action: h, subaction: sub}
	prev, ok := s.actionStates[key]
	if !ok {
		prev = &actionValue{value: zeroValue(act.info.Type)}
		s.actionStates[key] = prev
	}
	prefix := ""
	if sub != xr.NullPath {
		prefix = in.pathNames[sub] + "/"
	}
	var bound []string
	for _, list := range in.suggested {
		for _, b := range list {
			p := in.pathNames[b.Binding]
			if b.Action == h && strings.HasPrefix(p, prefix) {
				bound = append(bound, p)
			}
		}
	}
	active := focused && r.controllersActive && len(bound) > 0
	value := zeroValue(act.info.Type)
	if active {
		value = r.combineInputs(act.info.Type, bound)
	}
	prev.changed = active && prev.active && value != prev.value
	if prev.changed {
		prev.changeTime = r.now()
	}
	prev.active = active
	prev.value = value
}

func zeroValue(t xr.ActionType) any {
	switch t {
	case xr.ActionTypeBooleanInput:
		return false
	case xr.ActionTypeFloatInput:
		return float32(0)
	case xr.ActionTypeVector2fInput:
		return mgl32.Vec2{}
	}
	return nil
}

func (r *Runtime) combineInputs(t xr.ActionType, paths []string) any {
	switch t {
	case xr.ActionTypeBooleanInput:
		for _, p := range paths {
			if v, ok := r.inputs[p].(bool); ok && v {
				return true
			}
		}
		return false
	case xr.ActionTypeFloatInput:
		var best float32
		for _, p := range paths {
			if v, ok := r.inputs[p].(float32); ok && v > best {
				best = v
			}
		}
		return best
	case xr.ActionTypeVector2fInput:
		for _, p := range paths {
			if v, ok := r.inputs[p].(mgl32.Vec2); ok && v != (mgl32.Vec2{}) {
				return v
			}
		}
		return mgl32.Vec2{}
	}
	return nil
}

// lookupState validates an action state query and returns the synced value.
func (r *Runtime) lookupState(h xr.Session, a xr.Action, sub xr.Path, want xr.ActionType) (*actionValue, xr.Result) {
	s, res := r.liveSession(h)
	if res.Failed() {
		return nil, res
	}
	act, ok := r.actions[a]
	if !ok {
		return nil, xr.ErrorHandleInvalid
	}
	if act.info.Type != want {
		return nil, xr.ErrorActionTypeMismatch
	}
	if !s.attached[act.set] {
		return nil, xr.ErrorActionsetNotAttached
	}
	if _, res := r.subactionName(s.inst, act, sub); res.Failed() {
		return nil, res
	}
	v, ok := s.actionStates[stateKey{action: a, subaction: sub}]
	if !ok {
		return &actionValue{value: zeroValue(want)}, xr.Success
	}
	return v, xr.Success
}

func (r *Runtime) subactionName(inst xr.Instance, act *action, sub xr.Path) (string, xr.Result) {
	if sub == xr.NullPath {
		return "", xr.Success
	}
	for _, p := range act.info.SubactionPaths {
		if p == sub {
			return r.instances[inst].pathNames[sub], xr.Success
		}
	}
	return "", xr.ErrorPathUnsupported
}

func (r *Runtime) GetActionStateBoolean(h xr.Session, a xr.Action, sub xr.Path) (xr.ActionStateBoolean, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, res := r.lookupState(h, a, sub, xr.ActionTypeBooleanInput)
	if res.Failed() {
		return xr.ActionStateBoolean{}, res
	}
	return xr.ActionStateBoolean{CurrentState: v.value.(bool), ChangedSinceLastSync: v.changed, LastChangeTime: v.changeTime, IsActive: v.active}, xr.Success
}

func (r *Runtime) GetActionStateFloat(h xr.Session, a xr.Action, sub xr.Path) (xr.ActionStateFloat, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, res := r.lookupState(h, a, sub, xr.ActionTypeFloatInput)
	if res.Failed() {
		return xr.ActionStateFloat{}, res
	}
	return xr.ActionStateFloat{CurrentState: v.value.(float32), ChangedSinceLastSync: v.changed, LastChangeTime: v.changeTime, IsActive: v.active}, xr.Success
}

func (r *Runtime) GetActionStateVector2f(h xr.Session, a xr.Action, sub xr.Path) (xr.ActionStateVector2f, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, res := r.lookupState(h, a, sub, xr.ActionTypeVector2fInput)
	if res.Failed() {
		return xr.ActionStateVector2f{}, res
	}
	return xr.ActionStateVector2f{CurrentState: v.value.(mgl32.Vec2), ChangedSinceLastSync: v.changed, LastChangeTime: v.changeTime, IsActive: v.active}, xr.Success
}

func (r *Runtime) GetActionStatePose(h xr.Session, a xr.Action, sub xr.Path) (xr.ActionStatePose, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, res := r.lookupState(h, a, sub, xr.ActionTypePoseInput)
	if res.Failed() {
		return xr.ActionStatePose{}, res
	}
	return xr.ActionStatePose{IsActive: v.active}, xr.Success
}

func (r *Runtime) ApplyHapticFeedback(h xr.Session, a xr.Action, sub xr.Path, vib xr.HapticVibration) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return res
	}
	act, ok := r.actions[a]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	if act.info.Type != xr.ActionTypeVibrationOutput {
		return xr.ErrorActionTypeMismatch
	}
	name, res := r.subactionName(s.inst, act, sub)
	if res.Failed() {
		return res
	}
	r.haptics = append(r.haptics, HapticRecord{Action: act.info.Name, Subaction: name, Vibration: vib})
	return xr.Success
}

func (r *Runtime) StopHapticFeedback(h xr.Session, a xr.Action, sub xr.Path) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.liveSession(h); res.Failed() {
		return res
	}
	act, ok := r.actions[a]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	if act.info.Type != xr.ActionTypeVibrationOutput {
		return xr.ErrorActionTypeMismatch
	}
	r.stats.HapticStops++
	return xr.Success
}

// SetInput scripts the value of one input path, for example
// "/user/hand/right/input/trigger/value". value is a bool, float32 or
// mgl32.Vec2 matching the action type bound to the path.
func (r *Runtime) SetInput(path string, value any) {
	r.mu.Lock()
	r.inputs[path] = value
	r.mu.Unlock()
}

// ClearInputs resets every scripted input to its zero value.
func (r *Runtime) ClearInputs() {
	r.mu.Lock()
	r.inputs = make(map[string]any)
	r.mu.Unlock()
}

// SetControllersActive connects or disconnects both controllers.
func (r *Runtime) SetControllersActive(active bool) {
	r.mu.Lock()
	r.controllersActive = active
	r.mu.Unlock()
}

// Haptics returns the haptic pulses applied so far.
func (r *Runtime) Haptics() []HapticRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HapticRecord(nil), r.haptics...)
}
