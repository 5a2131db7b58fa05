// Package simrt is an in-process XR runtime. It implements xr.Runtime plus
// the hand-tracking and passthrough capabilities, paces frames on a virtual
// clock and records every protocol violation it observes, which makes it the
// runtime behind headless runs and the session tests.
package simrt

import (
	"sort"
	"strings"
	"sync"
	"time"

	"oxrsession/internal/xr"
)

// Options configure a simulated runtime. Zero values take defaults.
type Options struct {
	RuntimeName    string
	RuntimeVersion xr.Version
	SystemName     string
	VendorID       uint32

	// DisplayPeriod is the virtual frame interval (default 1/72 s).
	DisplayPeriod time.Duration
	// Pace makes WaitFrame sleep until the next display period.
	Pace bool

	// Views is the primary stereo view configuration (default 2 x 1440x1584).
	Views []xr.ViewConfigurationView
	// ImageCount is the number of images per swapchain (default 3).
	ImageCount int

	GraphicsMin xr.Version
	GraphicsMax xr.Version

	// Extensions the runtime supports. Nil means all extensions the core knows.
	Extensions []string

	// ManualLifecycle disables the automatic session-state events. Tests then
	// drive the lifecycle with PushStateChange.
	ManualLifecycle bool
	// AllowIdleFrames accepts frame calls on a session that is not running.
	AllowIdleFrames bool

	FailLoader bool
	NoSystem   bool
}

func (o *Options) applyDefaults() {
	if o.RuntimeName == "" {
		o.RuntimeName = "Simulated OpenXR Runtime"
	}
	if o.RuntimeVersion == 0 {
		o.RuntimeVersion = xr.MakeVersion(1, 0, 34)
	}
	if o.SystemName == "" {
		o.SystemName = "Simulated HMD"
	}
	if o.VendorID == 0 {
		o.VendorID = 0x2833
	}
	if o.DisplayPeriod <= 0 {
		o.DisplayPeriod = time.Second / 72
	}
	if len(o.Views) == 0 {
		v := xr.ViewConfigurationView{
			RecommendedImageRectWidth:       1440,
			MaxImageRectWidth:               2880,
			RecommendedImageRectHeight:      1584,
			MaxImageRectHeight:              3168,
			RecommendedSwapchainSampleCount: 1,
			MaxSwapchainSampleCount:         4,
		}
		o.Views = []xr.ViewConfigurationView{v, v}
	}
	if o.ImageCount <= 0 {
		o.ImageCount = 3
	}
	if o.GraphicsMin == 0 {
		o.GraphicsMin = xr.MakeVersion(3, 0, 0)
	}
	if o.GraphicsMax == 0 {
		o.GraphicsMax = xr.MakeVersion(3, 2, 0)
	}
	if o.Extensions == nil {
		o.Extensions = []string{
			xr.ExtAndroidCreateInstance,
			xr.ExtOpenGLESEnable,
			xr.ExtHandTracking,
			xr.ExtPassthroughFB,
		}
	}
}

// Runtime is the simulated runtime. All methods are safe for concurrent use.
type Runtime struct {
	mu   sync.Mutex
	opts Options

	nextHandle uint64
	loaderOK   bool

	instances    map[xr.Instance]*instance
	sessions     map[xr.Session]*session
	swapchains   map[xr.Swapchain]*swapchain
	spaces       map[xr.Space]*space
	actionSets   map[xr.ActionSet]*actionSet
	actions      map[xr.Action]*action
	handTrackers map[xr.HandTracker]*handTracker
	passthroughs map[xr.Passthrough]*passthrough
	ptLayers     map[xr.PassthroughLayer]xr.Passthrough

	inputs            map[string]any
	controllersActive bool
	trackingValid     bool
	headPose          xr.Pose
	stalledWaits      int

	clock       xr.Time
	nextTexture uint32

	stats    Stats
	haptics  []HapticRecord
	lastWait time.Time
}

var _ xr.Runtime = (*Runtime)(nil)
var _ xr.HandTracking = (*Runtime)(nil)
var _ xr.PassthroughSupport = (*Runtime)(nil)
var _ xr.ExtensionEnumerator = (*Runtime)(nil)

// New returns a simulated runtime configured by opts.
func New(opts Options) *Runtime {
	opts.applyDefaults()
	return &Runtime{
		opts:              opts,
		nextHandle:        0x100,
		instances:         make(map[xr.Instance]*instance),
		sessions:          make(map[xr.Session]*session),
		swapchains:        make(map[xr.Swapchain]*swapchain),
		spaces:            make(map[xr.Space]*space),
		actionSets:        make(map[xr.ActionSet]*actionSet),
		actions:           make(map[xr.Action]*action),
		handTrackers:      make(map[xr.HandTracker]*handTracker),
		passthroughs:      make(map[xr.Passthrough]*passthrough),
		ptLayers:          make(map[xr.PassthroughLayer]xr.Passthrough),
		inputs:            make(map[string]any),
		controllersActive: true,
		trackingValid:     true,
		headPose:          xr.IdentityPose(),
		clock:             xr.Time(time.Second),
		nextTexture:       1,
	}
}

// Options returns the effective options after defaults.
func (r *Runtime) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

func (r *Runtime) handle() uint64 {
	r.nextHandle++
	return r.nextHandle
}

func (r *Runtime) violate(msg string) {
	r.stats.Violations = append(r.stats.Violations, msg)
}

type instance struct {
	extensions map[string]bool
	events     []xr.Event
	lost       bool
	systemOK   bool
	// CreateSession requires a prior GraphicsRequirements call.
	graphicsQueried bool
	paths           map[string]xr.Path
	pathNames       map[xr.Path]string
	// suggested bindings per interaction profile
	suggested map[xr.Path][]xr.ActionSuggestedBinding
}

func (r *Runtime) EnumerateInstanceExtensions() ([]string, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.opts.Extensions...)
	sort.Strings(out)
	return out, xr.Success
}

func (r *Runtime) InitializeLoader(p xr.PlatformContext) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opts.FailLoader {
		return xr.ErrorRuntimeUnavailable
	}
	r.loaderOK = true
	return xr.Success
}

func (r *Runtime) CreateInstance(info xr.InstanceCreateInfo) (xr.Instance, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaderOK {
		return 0, xr.ErrorInitializationFailed
	}
	if info.Application.ApplicationName == "" {
		return 0, xr.ErrorNameInvalid
	}
	supported := make(map[string]bool, len(r.opts.Extensions))
	for _, e := range r.opts.Extensions {
		supported[e] = true
	}
	enabled := make(map[string]bool, len(info.Extensions))
	for _, e := range info.Extensions {
		if !supported[e] {
			return 0, xr.ErrorExtensionNotPresent
		}
		enabled[e] = true
	}
	h := xr.Instance(r.handle())
	r.instances[h] = &instance{
		extensions: enabled,
		paths:      make(map[string]xr.Path),
		pathNames:  make(map[xr.Path]string),
		suggested:  make(map[xr.Path][]xr.ActionSuggestedBinding),
	}
	r.stats.InstancesCreated++
	return h, xr.Success
}

func (r *Runtime) DestroyInstance(inst xr.Instance) xr.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[inst]; !ok {
		return xr.ErrorHandleInvalid
	}
	for h, s := range r.sessions {
		if s.inst == inst {
			r.violate("instance destroyed with live session")
			r.destroySessionLocked(h)
		}
	}
	for h, as := range r.actionSets {
		if as.inst == inst {
			r.destroyActionSetLocked(h)
		}
	}
	delete(r.instances, inst)
	return xr.Success
}

func (r *Runtime) InstanceProperties(inst xr.Instance) (xr.InstanceProperties, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[inst]; !ok {
		return xr.InstanceProperties{}, xr.ErrorHandleInvalid
	}
	return xr.InstanceProperties{RuntimeName: r.opts.RuntimeName, RuntimeVersion: r.opts.RuntimeVersion}, xr.Success
}

// systemID is the single HMD system exposed by the simulator.
const systemID xr.SystemID = 1

func (r *Runtime) GetSystem(inst xr.Instance, ff xr.FormFactor) (xr.SystemID, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, res := r.liveInstance(inst)
	if res.Failed() {
		return 0, res
	}
	if ff != xr.FormFactorHeadMountedDisplay {
		return 0, xr.ErrorFormFactorUnsupported
	}
	if r.opts.NoSystem {
		return 0, xr.ErrorFormFactorUnavailable
	}
	in.systemOK = true
	return systemID, xr.Success
}

func (r *Runtime) SystemProperties(inst xr.Instance, sys xr.SystemID) (xr.SystemProperties, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.liveSystem(inst, sys); res.Failed() {
		return xr.SystemProperties{}, res
	}
	var maxW, maxH uint32
	for _, v := range r.opts.Views {
		if v.MaxImageRectWidth > maxW {
			maxW = v.MaxImageRectWidth
		}
		if v.MaxImageRectHeight > maxH {
			maxH = v.MaxImageRectHeight
		}
	}
	return xr.SystemProperties{
		SystemID:                sys,
		VendorID:                r.opts.VendorID,
		SystemName:              r.opts.SystemName,
		MaxSwapchainImageWidth:  maxW,
		MaxSwapchainImageHeight: maxH,
		MaxLayerCount:           16,
		OrientationTracking:     true,
		PositionTracking:        true,
	}, xr.Success
}

func (r *Runtime) GraphicsRequirements(inst xr.Instance, sys xr.SystemID) (xr.GraphicsRequirements, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, res := r.liveSystem(inst, sys)
	if res.Failed() {
		return xr.GraphicsRequirements{}, res
	}
	if !in.extensions[xr.ExtOpenGLESEnable] {
		return xr.GraphicsRequirements{}, xr.ErrorFunctionUnsupported
	}
	in.graphicsQueried = true
	return xr.GraphicsRequirements{MinAPIVersionSupported: r.opts.GraphicsMin, MaxAPIVersionSupported: r.opts.GraphicsMax}, xr.Success
}

func (r *Runtime) EnumerateViewConfigurationViews(inst xr.Instance, sys xr.SystemID, vt xr.ViewConfigurationType) ([]xr.ViewConfigurationView, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, res := r.liveSystem(inst, sys); res.Failed() {
		return nil, res
	}
	if vt != xr.ViewConfigurationPrimaryStereo {
		return nil, xr.ErrorViewConfigurationTypeUnsupported
	}
	return append([]xr.ViewConfigurationView(nil), r.opts.Views...), xr.Success
}

func (r *Runtime) StringToPath(inst xr.Instance, s string) (xr.Path, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, res := r.liveInstance(inst)
	if res.Failed() {
		return 0, res
	}
	if !validPath(s) {
		return 0, xr.ErrorPathFormatInvalid
	}
	if p, ok := in.paths[s]; ok {
		return p, xr.Success
	}
	p := xr.Path(len(in.paths) + 1)
	in.paths[s] = p
	in.pathNames[p] = s
	return p, xr.Success
}

func (r *Runtime) PathToString(inst xr.Instance, p xr.Path) (string, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, res := r.liveInstance(inst)
	if res.Failed() {
		return "", res
	}
	s, ok := in.pathNames[p]
	if !ok {
		return "", xr.ErrorPathInvalid
	}
	return s, xr.Success
}

func validPath(s string) bool {
	if len(s) < 2 || s[0] != '/' || strings.HasSuffix(s, "/") || strings.Contains(s, "//") {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '/', c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

func (r *Runtime) liveInstance(inst xr.Instance) (*instance, xr.Result) {
	in, ok := r.instances[inst]
	if !ok {
		return nil, xr.ErrorHandleInvalid
	}
	if in.lost {
		return nil, xr.ErrorInstanceLost
	}
	return in, xr.Success
}

func (r *Runtime) liveSystem(inst xr.Instance, sys xr.SystemID) (*instance, xr.Result) {
	in, res := r.liveInstance(inst)
	if res.Failed() {
		return nil, res
	}
	if sys != systemID || !in.systemOK {
		return nil, xr.ErrorSystemInvalid
	}
	return in, xr.Success
}

// PushEvent appends ev to the event queue of inst.
func (r *Runtime) PushEvent(inst xr.Instance, ev xr.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if in, ok := r.instances[inst]; ok {
		in.events = append(in.events, ev)
	}
}

// LoseInstance queues an instance-loss-pending event. Every later call on the
// instance fails with ErrorInstanceLost once the event has been drained.
func (r *Runtime) LoseInstance(inst xr.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if in, ok := r.instances[inst]; ok {
		in.events = append(in.events, xr.EventInstanceLossPending{LossTime: r.now()})
	}
}

func (r *Runtime) PollEvent(inst xr.Instance) (xr.Event, xr.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.instances[inst]
	if !ok {
		return nil, xr.ErrorHandleInvalid
	}
	if len(in.events) == 0 {
		if in.lost {
			return nil, xr.ErrorInstanceLost
		}
		return nil, xr.EventUnavailable
	}
	ev := in.events[0]
	in.events = in.events[1:]
	switch e := ev.(type) {
	case xr.EventInstanceLossPending:
		in.lost = true
	case xr.EventSessionStateChanged:
		// the runtime enters a state once the application has observed it
		if s, ok := r.sessions[e.Session]; ok {
			s.state = e.State
		}
	}
	r.stats.EventsPolled++
	return ev, xr.Success
}

// QueuedEvents returns the number of undrained events of inst.
func (r *Runtime) QueuedEvents(inst xr.Instance) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if in, ok := r.instances[inst]; ok {
		return len(in.events)
	}
	return 0
}
