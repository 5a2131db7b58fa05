package simrt

import (
	"github.com/go-gl/mathgl/mgl32"

	"oxrsession/internal/xr"
)

type handTracker struct {
	session xr.Session
	hand    int
}

type passthrough struct {
	session xr.Session
	started bool
}

func (r *Runtime) extensionEnabled(h xr.Session, ext string) (*session, xr.Result) {
	s, res := r.liveSession(h)
	if res.Failed() {
		return nil, res
	}
	if !r.instances[s.inst].extensions[ext] {
		return nil, xr.ErrorFunctionUnsupported
	}
	return s, xr.Success
}

func (r *Runtime) CreateHandTracker(h xr.Session, hand int) (xr.HandTracker, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.extensionEnabled(h, xr.ExtHandTracking); res.Failed() {
		return 0, res
	}
	if hand != 0 && hand != 1 {
		return 0, xr.ErrorValidationFailure
	}
	t := xr.HandTracker(r.handle())
	r.handTrackers[t] = &handTracker{session: h, hand: hand}
	return t, xr.Success
}

func (r *Runtime) DestroyHandTracker(t xr.HandTracker) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handTrackers[t]; !ok {
		return xr.ErrorHandleInvalid
	}
	delete(r.handTrackers, t)
	return xr.Success
}

// jointSpacing spreads simulated joints along the pointing direction.
const jointSpacing = 0.008

func (r *Runtime) LocateHandJoints(t xr.HandTracker, base xr.Space, at xr.Time) (xr.HandJointLocations, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ht, ok := r.handTrackers[t]
	if !ok {
		return xr.HandJointLocations{}, xr.ErrorHandleInvalid
	}
	bs, ok := r.spaces[base]
	if !ok {
		return xr.HandJointLocations{}, xr.ErrorHandleInvalid
	}
	if at <= 0 {
		return xr.HandJointLocations{}, xr.ErrorTimeInvalid
	}
	var out xr.HandJointLocations
	if !r.trackingValid {
		return out, xr.Success
	}
	side := "/user/hand/right"
	if ht.hand == 0 {
		side = "/user/hand/left"
	}
	wrist := controllerPose("grip", side)
	b, _ := r.worldPose(bs)
	inv := b.Inverse()
	out.IsActive = true
	for i := range out.Joints {
		j := xr.Pose{Orientation: mgl32.QuatIdent(), Position: mgl32.Vec3{0, 0, -jointSpacing * float32(i)}}
		out.Joints[i] = xr.HandJointLocation{
			Flags:  xr.SpaceLocationOrientationValid | xr.SpaceLocationPositionValid,
			Pose:   inv.Mul(wrist.Mul(j)),
			Radius: 0.01,
		}
	}
	return out, xr.Success
}

func (r *Runtime) CreatePassthrough(h xr.Session) (xr.Passthrough, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.extensionEnabled(h, xr.ExtPassthroughFB); res.Failed() {
		return 0, res
	}
	p := xr.Passthrough(r.handle())
	r.passthroughs[p] = &passthrough{session: h}
	return p, xr.Success
}

func (r *Runtime) DestroyPassthrough(p xr.Passthrough) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.passthroughs[p]; !ok {
		return xr.ErrorHandleInvalid
	}
	for l, owner := range r.ptLayers {
		if owner == p {
			r.violate("passthrough destroyed with a live layer")
			delete(r.ptLayers, l)
		}
	}
	delete(r.passthroughs, p)
	return xr.Success
}

func (r *Runtime) PassthroughStart(p xr.Passthrough) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	pt, ok := r.passthroughs[p]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	pt.started = true
	return xr.Success
}

func (r *Runtime) CreatePassthroughLayer(h xr.Session, p xr.Passthrough) (xr.PassthroughLayer, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.extensionEnabled(h, xr.ExtPassthroughFB); res.Failed() {
		return 0, res
	}
	if _, ok := r.passthroughs[p]; !ok {
		return 0, xr.ErrorHandleInvalid
	}
	l := xr.PassthroughLayer(r.handle())
	r.ptLayers[l] = p
	return l, xr.Success
}

func (r *Runtime) DestroyPassthroughLayer(l xr.PassthroughLayer) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ptLayers[l]; !ok {
		return xr.ErrorHandleInvalid
	}
	delete(r.ptLayers, l)
	return xr.Success
}

func (r *Runtime) PassthroughLayerResume(l xr.PassthroughLayer) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.ptLayers[l]
	if !ok {
		return xr.ErrorHandleInvalid
	}
	if !r.passthroughs[p].started {
		return xr.ErrorCallOrderInvalid
	}
	r.stats.PassthroughResumes++
	return xr.Success
}
