package gfx

import (
	"sync"

	"oxrsession/internal/xr"
)

// Headless is an Allocator without a GPU. It hands out increasing object
// names and tracks which targets are alive, so callers can verify that every
// allocation is released.
type Headless struct {
	mu      sync.Mutex
	version xr.Version
	next    uint32
	live    map[uint32]RenderTarget
	bound   uint32

	// FailComplete makes the next NewRenderTarget report an incomplete framebuffer.
	FailComplete bool
}

// NewHeadless returns an allocator reporting the given API version.
func NewHeadless(version xr.Version) *Headless {
	return &Headless{version: version, next: 1000, live: make(map[uint32]RenderTarget)}
}

func (h *Headless) APIVersion() (xr.Version, error) {
	return h.version, nil
}

func (h *Headless) NewRenderTarget(color uint32, width, height int32) (RenderTarget, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailComplete || width <= 0 || height <= 0 {
		h.FailComplete = false
		return RenderTarget{}, incompleteError{status: 0x8CD6, color: color}
	}
	depth := h.next
	fbo := h.next + 1
	h.next += 2
	rt := RenderTarget{Framebuffer: fbo, ColorTexture: color, DepthBuffer: depth, Width: width, Height: height}
	h.live[fbo] = rt
	return rt, nil
}

func (h *Headless) DeleteRenderTarget(rt RenderTarget) {
	h.mu.Lock()
	delete(h.live, rt.Framebuffer)
	if h.bound == rt.Framebuffer {
		h.bound = 0
	}
	h.mu.Unlock()
}

func (h *Headless) Bind(rt RenderTarget) {
	h.mu.Lock()
	h.bound = rt.Framebuffer
	h.mu.Unlock()
}

func (h *Headless) Unbind() {
	h.mu.Lock()
	h.bound = 0
	h.mu.Unlock()
}

// Live returns the number of allocated, not yet deleted targets.
func (h *Headless) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// Bound returns the currently bound framebuffer name, 0 for the default.
func (h *Headless) Bound() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bound
}

// StaticContext is a ContextProvider with fixed handles, for hosts that
// create the context themselves and for tests.
type StaticContext struct {
	DisplayHandle uintptr
	ConfigHandle  uintptr
	ContextHandle uintptr
}

func (c StaticContext) Display() uintptr { return c.DisplayHandle }
func (c StaticContext) Config() uintptr  { return c.ConfigHandle }
func (c StaticContext) Context() uintptr { return c.ContextHandle }
