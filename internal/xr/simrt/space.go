package simrt

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"oxrsession/internal/xr"
)

type space struct {
	session   xr.Session
	refType   xr.ReferenceSpaceType
	action    xr.Action
	subaction string
	offset    xr.Pose
}

// stageHeight places the stage origin on the floor below the local origin.
const stageHeight = 1.6

func (r *Runtime) CreateReferenceSpace(h xr.Session, t xr.ReferenceSpaceType, poseInSpace xr.Pose) (xr.Space, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.liveSession(h); res.Failed() {
		return 0, res
	}
	switch t {
	case xr.ReferenceSpaceView, xr.ReferenceSpaceLocal, xr.ReferenceSpaceStage:
	default:
		return 0, xr.ErrorReferenceSpaceUnsupported
	}
	sp := xr.Space(r.handle())
	r.spaces[sp] = &space{session: h, refType: t, offset: normalize(poseInSpace)}
	return sp, xr.Success
}

func (r *Runtime) CreateActionSpace(h xr.Session, a xr.Action, subaction xr.Path, poseInSpace xr.Pose) (xr.Space, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, res := r.liveSession(h)
	if res.Failed() {
		return 0, res
	}
	act, ok := r.actions[a]
	if !ok {
		return 0, xr.ErrorHandleInvalid
	}
	if act.info.Type != xr.ActionTypePoseInput {
		return 0, xr.ErrorActionTypeMismatch
	}
	sub, res := r.subactionName(s.inst, act, subaction)
	if res.Failed() {
		return 0, res
	}
	sp := xr.Space(r.handle())
	r.spaces[sp] = &space{session: h, action: a, subaction: sub, offset: normalize(poseInSpace)}
	return sp, xr.Success
}

func normalize(p xr.Pose) xr.Pose {
	if p.Orientation.Len() == 0 {
		p.Orientation = mgl32.QuatIdent()
	}
	return p
}

func (r *Runtime) DestroySpace(h xr.Space) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spaces[h]; !ok {
		return xr.ErrorHandleInvalid
	}
	delete(r.spaces, h)
	return xr.Success
}

func (r *Runtime) LocateSpace(h, base xr.Space, t xr.Time) (xr.SpaceLocation, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spaces[h]
	if !ok {
		return xr.SpaceLocation{}, xr.ErrorHandleInvalid
	}
	bs, ok := r.spaces[base]
	if !ok {
		return xr.SpaceLocation{}, xr.ErrorHandleInvalid
	}
	if t <= 0 {
		return xr.SpaceLocation{}, xr.ErrorTimeInvalid
	}
	p, pValid := r.worldPose(sp)
	b, bValid := r.worldPose(bs)
	loc := xr.SpaceLocation{Pose: b.Inverse().Mul(p)}
	if pValid && bValid {
		loc.Flags = xr.SpaceLocationOrientationValid | xr.SpaceLocationPositionValid |
			xr.SpaceLocationOrientationTracked | xr.SpaceLocationPositionTracked
	}
	return loc, xr.Success
}

// worldPose returns the pose of sp in the simulator's world frame, which
// coincides with the local reference space.
func (r *Runtime) worldPose(sp *space) (xr.Pose, bool) {
	if sp.action != 0 {
		act, ok := r.actions[sp.action]
		if !ok || !r.controllersActive || !r.trackingValid {
			return xr.IdentityPose(), false
		}
		return controllerPose(act.info.Name, sp.subaction).Mul(sp.offset), true
	}
	switch sp.refType {
	case xr.ReferenceSpaceView:
		return r.headPose.Mul(sp.offset), r.trackingValid
	case xr.ReferenceSpaceStage:
		stage := xr.Pose{Orientation: mgl32.QuatIdent(), Position: mgl32.Vec3{0, -stageHeight, 0}}
		return stage.Mul(sp.offset), true
	default:
		return sp.offset, true
	}
}

// controllerPose is the resting pose of a controller: grip below and in
// front of the head, aim slightly further forward.
func controllerPose(actionName, subaction string) xr.Pose {
	x := float32(0.2)
	if strings.HasSuffix(subaction, "/left") {
		x = -x
	}
	pos := mgl32.Vec3{x, -0.3, -0.4}
	if strings.Contains(actionName, "aim") {
		pos = pos.Add(mgl32.Vec3{0, 0, -0.05})
	}
	return xr.Pose{Orientation: mgl32.QuatIdent(), Position: pos}
}

// SetTrackingValid toggles head and controller tracking validity.
func (r *Runtime) SetTrackingValid(valid bool) {
	r.mu.Lock()
	r.trackingValid = valid
	r.mu.Unlock()
}

// SetHeadPose moves the simulated head in the local space.
func (r *Runtime) SetHeadPose(p xr.Pose) {
	r.mu.Lock()
	r.headPose = normalize(p)
	r.mu.Unlock()
}
