package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"oxrsession/internal/gfx"
	"oxrsession/internal/registry"
	"oxrsession/internal/xr"
)

// Manager owns one runtime connection and everything created under it. All
// methods except Status and Snapshot must be called from the loop goroutine.
type Manager struct {
	// mu guards the fields read by Status from other goroutines.
	mu sync.RWMutex

	cfg   Config
	rt    xr.Runtime
	alloc gfx.Allocator
	log   zerolog.Logger
	pub   EventPublisher
	chk   *checker

	instance   xr.Instance
	extensions map[string]bool
	instProps  xr.InstanceProperties
	system     xr.SystemID
	sysProps   xr.SystemProperties
	gfxReq     xr.GraphicsRequirements
	gfxVersion xr.Version
	viewConfig []xr.ViewConfigurationView
	session    xr.Session

	sm       *StateMachine
	spaces   Spaces
	input    *Input
	surfaces []*ViewSurface
	caps     Capabilities

	// Mirror of the state machine for Status; written by syncState.
	state   xr.SessionState
	running bool
	exit    bool
	restart bool

	inputState  InputSnapshot
	frames      FrameCounters
	firstTime   xr.Time
	lastTime    xr.Time
	lastErr     string
	eventsLost  uint64
	startedAt   time.Time
	initialized bool
}

// NewWithConfig constructs a Manager from Config. Nothing is created on the
// runtime until Init.
func NewWithConfig(cfg Config) *Manager {
	cfg.applyDefaults()
	m := &Manager{
		cfg:        cfg,
		rt:         cfg.Runtime,
		alloc:      cfg.Allocator,
		log:        cfg.Logger,
		pub:        cfg.Publisher,
		extensions: make(map[string]bool),
		startedAt:  time.Now(),
	}
	m.chk = &checker{log: m.log, onFailure: m.recordFailure}
	m.sm = newStateMachine(m.rt, m.chk, m.log, xr.ViewConfigurationPrimaryStereo)
	m.sm.onTransition = m.onTransition
	return m
}

func (m *Manager) recordFailure(call string, res xr.Result) {
	m.mu.Lock()
	m.lastErr = call + ": " + res.String()
	m.mu.Unlock()
}

func (m *Manager) onTransition(from, to xr.SessionState) {
	m.syncState()
	observeState(to)
	m.pub.Publish(Event{Name: EventStateChanged, Fields: map[string]any{
		"from": from.String(),
		"to":   to.String(),
	}})
}

// Init runs the full bring-up sequence: loader, instance, system, graphics
// requirements, session, spaces, view surfaces, actions and capabilities. A
// failure leaves everything created so far in place for Close.
func (m *Manager) Init() error {
	if m.rt == nil {
		return ErrFatalSetup("runtime", ErrDependencyUnavailable("no xr runtime configured"))
	}
	if m.alloc == nil {
		return ErrFatalSetup("graphics", ErrDependencyUnavailable("no render-target allocator configured"))
	}
	if err := m.InitializeLoader(); err != nil {
		return err
	}
	if err := m.CreateInstance(); err != nil {
		return err
	}
	if err := m.GetSystem(); err != nil {
		return err
	}
	if err := m.ConfirmGraphics(); err != nil {
		return err
	}
	if err := m.CreateSession(); err != nil {
		return err
	}
	if err := m.createSpaces(); err != nil {
		return err
	}
	if err := m.CreateViewSurfaces(); err != nil {
		return err
	}
	m.input = newInput(m.rt, m.chk, m.log, m.instance)
	if err := m.input.Declare(*m.cfg.Profile); err != nil {
		return err
	}
	if err := m.input.Attach(m.session); err != nil {
		return err
	}
	m.input.CreateActionSpaces()
	m.resolveCapabilities()

	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	return nil
}

// CreateViewSurfaces builds one swapchain and its render targets per view.
func (m *Manager) CreateViewSurfaces() error {
	surfaces, err := createViewSurfaces(m.rt, m.alloc, m.chk, m.log, m.session, m.viewConfig, m.cfg.ColorFormat)
	m.mu.Lock()
	m.surfaces = surfaces
	m.mu.Unlock()
	return err
}

// Profile returns the binding table the action set was declared from.
func (m *Manager) Profile() registry.Profile { return *m.cfg.Profile }

// StateMachine exposes the session state machine.
func (m *Manager) StateMachine() *StateMachine { return m.sm }

// Input exposes the action subsystem; nil before Init.
func (m *Manager) Input() *Input { return m.input }

// Surfaces returns the view surfaces in view-configuration order.
func (m *Manager) Surfaces() []*ViewSurface { return m.surfaces }

// Spaces returns the reference spaces created at bring-up.
func (m *Manager) Spaces() Spaces { return m.spaces }

// ViewConfiguration returns the per-view recommendations read by GetSystem.
func (m *Manager) ViewConfiguration() []xr.ViewConfigurationView {
	return append([]xr.ViewConfigurationView(nil), m.viewConfig...)
}

// GraphicsRequirements returns the runtime's accepted GLES range, valid
// after ConfirmGraphics.
func (m *Manager) GraphicsRequirements() xr.GraphicsRequirements {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gfxReq
}

// Instance returns the runtime instance handle.
func (m *Manager) Instance() xr.Instance { return m.instance }

// Session returns the session handle.
func (m *Manager) Session() xr.Session { return m.session }
