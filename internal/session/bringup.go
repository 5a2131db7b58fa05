package session

import (
	"oxrsession/internal/gfx"
	"oxrsession/internal/xr"
)

// InitializeLoader resolves the platform loader entry point. Must run first.
func (m *Manager) InitializeLoader() error {
	if err := m.chk.check(m.rt.InitializeLoader(m.cfg.Platform), "xrInitializeLoaderKHR"); err != nil {
		return ErrFatalSetup("initialize loader", err)
	}
	return nil
}

// requestedExtensions returns the GLES binding extension plus the Android
// instance extension when offered. Optional capability extensions are only
// requested when the runtime lists them.
func (m *Manager) requestedExtensions() []string {
	var have map[string]bool
	if enum, ok := m.rt.(xr.ExtensionEnumerator); ok {
		available, res := enum.EnumerateInstanceExtensions()
		if m.chk.check(res, "xrEnumerateInstanceExtensionProperties") == nil {
			have = make(map[string]bool, len(available))
			for _, e := range available {
				have[e] = true
			}
		}
	}
	var exts []string
	if have == nil || have[xr.ExtAndroidCreateInstance] {
		exts = append(exts, xr.ExtAndroidCreateInstance)
	}
	exts = append(exts, xr.ExtOpenGLESEnable)

	var optional []string
	if m.cfg.HandTracking {
		optional = append(optional, xr.ExtHandTracking)
	}
	if m.cfg.Passthrough {
		optional = append(optional, xr.ExtPassthroughFB)
	}
	for _, e := range optional {
		if have[e] {
			exts = append(exts, e)
		} else {
			m.log.Warn().Str("extension", e).Msg("extension not offered by runtime")
		}
	}
	return exts
}

// CreateInstance creates the runtime instance and logs the runtime identity.
// Rejection (for example an unsupported extension) is fatal.
func (m *Manager) CreateInstance() error {
	exts := m.requestedExtensions()
	info := xr.InstanceCreateInfo{
		Platform: m.cfg.Platform,
		Application: xr.ApplicationInfo{
			ApplicationName:    m.cfg.AppName,
			ApplicationVersion: m.cfg.AppVersion,
			EngineName:         defaultEngineName,
			APIVersion:         xr.CurrentAPIVersion,
		},
		Extensions: exts,
	}
	inst, res := m.rt.CreateInstance(info)
	if err := m.chk.check(res, "xrCreateInstance"); err != nil {
		return ErrFatalSetup("create instance", err)
	}
	m.instance = inst
	m.mu.Lock()
	for _, e := range exts {
		m.extensions[e] = true
	}
	m.mu.Unlock()

	props, res := m.rt.InstanceProperties(inst)
	if m.chk.check(res, "xrGetInstanceProperties") == nil {
		m.mu.Lock()
		m.instProps = props
		m.mu.Unlock()
		m.log.Info().
			Str("runtime", props.RuntimeName).
			Str("version", props.RuntimeVersion.String()).
			Strs("extensions", exts).
			Msg("xr instance created")
	}
	return nil
}

// RuntimeName returns the runtime name reported at instance creation.
func (m *Manager) RuntimeName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instProps.RuntimeName
}

// GetSystem selects the HMD system and reads its properties and view
// configuration. A missing HMD is fatal.
func (m *Manager) GetSystem() error {
	sys, res := m.rt.GetSystem(m.instance, xr.FormFactorHeadMountedDisplay)
	if err := m.chk.check(res, "xrGetSystem"); err != nil {
		return ErrFatalSetup("get system", err)
	}
	m.system = sys

	props, res := m.rt.SystemProperties(m.instance, sys)
	if m.chk.check(res, "xrGetSystemProperties") == nil {
		m.mu.Lock()
		m.sysProps = props
		m.mu.Unlock()
		m.log.Info().
			Str("system", props.SystemName).
			Uint32("vendor_id", props.VendorID).
			Uint32("max_width", props.MaxSwapchainImageWidth).
			Uint32("max_height", props.MaxSwapchainImageHeight).
			Uint32("max_layers", props.MaxLayerCount).
			Bool("orientation_tracking", props.OrientationTracking).
			Bool("position_tracking", props.PositionTracking).
			Msg("xr system")
	}

	views, res := m.rt.EnumerateViewConfigurationViews(m.instance, sys, xr.ViewConfigurationPrimaryStereo)
	if err := m.chk.check(res, "xrEnumerateViewConfigurationViews"); err != nil {
		return ErrFatalSetup("enumerate view configuration", err)
	}
	if len(views) == 0 {
		return ErrFatalSetup("enumerate view configuration", xr.ErrorViewConfigurationTypeUnsupported.Err("xrEnumerateViewConfigurationViews"))
	}
	for i, v := range views {
		m.log.Info().
			Int("view", i).
			Uint32("width", v.RecommendedImageRectWidth).
			Uint32("height", v.RecommendedImageRectHeight).
			Uint32("samples", v.RecommendedSwapchainSampleCount).
			Msg("view configuration")
	}
	m.mu.Lock()
	m.viewConfig = views
	m.mu.Unlock()
	return nil
}

// confirmGraphicsRequirements checks the locally active GLES version against
// the runtime's inclusive range. Outside the range the combination is
// unsupported and bring-up must stop.
func confirmGraphicsRequirements(rt xr.Runtime, chk *checker, inst xr.Instance, sys xr.SystemID, current xr.Version) (xr.GraphicsRequirements, error) {
	req, res := rt.GraphicsRequirements(inst, sys)
	if err := chk.check(res, "xrGetOpenGLESGraphicsRequirementsKHR"); err != nil {
		return req, ErrFatalSetup("graphics requirements", err)
	}
	if !req.Supports(current) {
		err := graphicsUnsupportedError{have: current, min: req.MinAPIVersionSupported, max: req.MaxAPIVersionSupported}
		chk.log.Error().Err(err).Msg("graphics requirements not met")
		return req, ErrFatalSetup("graphics requirements", err)
	}
	return req, nil
}

// ConfirmGraphics queries the allocator's context version and confirms it
// against the runtime's requirements.
func (m *Manager) ConfirmGraphics() error {
	v, err := m.alloc.APIVersion()
	if err != nil {
		return ErrFatalSetup("graphics version", err)
	}
	req, err := confirmGraphicsRequirements(m.rt, m.chk, m.instance, m.system, v)
	m.mu.Lock()
	m.gfxReq = req
	m.gfxVersion = v
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.log.Info().
		Str("gles", v.String()).
		Str("min", req.MinAPIVersionSupported.String()).
		Str("max", req.MaxAPIVersionSupported.String()).
		Msg("graphics requirements confirmed")
	return nil
}

// CreateSession binds the current rendering context to a new session and
// makes it the state machine's active session.
func (m *Manager) CreateSession() error {
	binding := gfx.Binding(m.cfg.Context)
	s, res := m.rt.CreateSession(m.instance, m.system, binding)
	if err := m.chk.check(res, "xrCreateSession"); err != nil {
		return ErrFatalSetup("create session", err)
	}
	m.session = s
	m.sm.Bind(s)
	m.syncState()
	m.log.Info().Uint64("session", uint64(s)).Msg("xr session created")
	return nil
}
