package session

import (
	"testing"

	"github.com/rs/zerolog"

	"oxrsession/internal/gfx"
	"oxrsession/internal/xr"
	"oxrsession/internal/xr/simrt"
)

// testGLES is the context version the headless allocator reports.
var testGLES = xr.MakeVersion(3, 1, 0)

func testConfig(rt xr.Runtime, alloc gfx.Allocator) Config {
	return Config{
		Runtime:   rt,
		Allocator: alloc,
		Context:   gfx.StaticContext{DisplayHandle: 1, ConfigHandle: 2, ContextHandle: 3},
		Logger:    zerolog.Nop(),
	}
}

// newTestManager brings up a manager on a simulated runtime. mut may adjust
// the session config before construction.
func newTestManager(t *testing.T, opts simrt.Options, mut func(*Config)) (*Manager, *simrt.Runtime, *gfx.Headless) {
	t.Helper()
	rt := simrt.New(opts)
	alloc := gfx.NewHeadless(testGLES)
	cfg := testConfig(rt, alloc)
	if mut != nil {
		mut(&cfg)
	}
	m := NewWithConfig(cfg)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m, rt, alloc
}

// untilRunning polls events until the session runs or attempts run out.
func untilRunning(t *testing.T, m *Manager) {
	t.Helper()
	for i := 0; i < 8; i++ {
		m.PollEvents()
		if m.StateMachine().State() == xr.SessionStateFocused {
			return
		}
	}
	t.Fatalf("session never reached FOCUSED, state=%s", m.StateMachine().State())
}

// recordingRenderer remembers every view it was asked to draw and the
// framebuffer bound at that moment.
type recordingRenderer struct {
	alloc *gfx.Headless
	views []ViewContext
	bound []uint32
}

func (r *recordingRenderer) RenderView(ctx ViewContext) {
	r.views = append(r.views, ctx)
	if r.alloc != nil {
		r.bound = append(r.bound, r.alloc.Bound())
	}
}

func violations(rt *simrt.Runtime) []string {
	return rt.Stats().Violations
}
