package session

import "oxrsession/internal/xr"

// Spaces are the reference spaces created at bring-up. App is the base space
// views and actions are located in.
type Spaces struct {
	App     xr.Space
	AppType xr.ReferenceSpaceType
	Stage   xr.Space
	View    xr.Space
}

// createSpaces creates the app space (fatal on failure) plus stage and view
// spaces, which are optional and only logged when the runtime refuses them.
func (m *Manager) createSpaces() error {
	app, res := m.rt.CreateReferenceSpace(m.session, m.cfg.AppSpace, xr.IdentityPose())
	if err := m.chk.check(res, "xrCreateReferenceSpace"); err != nil {
		return ErrFatalSetup("create app space", err)
	}
	sp := Spaces{App: app, AppType: m.cfg.AppSpace}

	for _, t := range []xr.ReferenceSpaceType{xr.ReferenceSpaceStage, xr.ReferenceSpaceView} {
		if t == m.cfg.AppSpace {
			continue
		}
		s, res := m.rt.CreateReferenceSpace(m.session, t, xr.IdentityPose())
		if m.chk.check(res, "xrCreateReferenceSpace") != nil {
			m.log.Warn().Str("space", t.String()).Msg("reference space unavailable")
			continue
		}
		switch t {
		case xr.ReferenceSpaceStage:
			sp.Stage = s
		case xr.ReferenceSpaceView:
			sp.View = s
		}
	}
	m.log.Info().
		Str("app_space", sp.AppType.String()).
		Bool("stage", sp.Stage != 0).
		Bool("view", sp.View != 0).
		Msg("reference spaces created")

	m.mu.Lock()
	m.spaces = sp
	m.mu.Unlock()
	return nil
}

// locate resolves space in the app space at t. An absent space or a failed
// call yields an invalid location.
func (m *Manager) locate(space xr.Space, t xr.Time) xr.SpaceLocation {
	if space == 0 {
		return xr.SpaceLocation{}
	}
	loc, res := m.rt.LocateSpace(space, m.spaces.App, t)
	if m.chk.check(res, "xrLocateSpace") != nil {
		return xr.SpaceLocation{}
	}
	return loc
}

func (sp Spaces) destroy(rt xr.Runtime, chk *checker) {
	for _, s := range []xr.Space{sp.View, sp.Stage, sp.App} {
		if s != 0 {
			_ = chk.check(rt.DestroySpace(s), "xrDestroySpace")
		}
	}
}
