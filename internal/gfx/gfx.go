// Package gfx holds the graphics-side collaborators of the session core:
// render targets wrapping swapchain images, the allocator that builds them,
// and the accessors for the current rendering context.
//
// The OpenGL ES allocator is built with `-tags=gles`; Headless is always
// available and backs the simulated runtime and tests.
package gfx

import (
	"errors"
	"fmt"

	"oxrsession/internal/xr"
)

// RenderTarget wraps one swapchain image for drawing. ColorTexture is borrowed
// from the swapchain; Framebuffer and DepthBuffer are owned by the target.
type RenderTarget struct {
	Framebuffer  uint32
	ColorTexture uint32
	DepthBuffer  uint32
	Width        int32
	Height       int32
}

// Viewport returns the full-target rectangle.
func (rt RenderTarget) Viewport() xr.Rect2Di {
	return xr.Rect2Di{Extent: xr.Extent2Di{Width: rt.Width, Height: rt.Height}}
}

// Allocator creates and binds render targets on the current context.
type Allocator interface {
	// APIVersion reports the version of the active 3D API context.
	APIVersion() (xr.Version, error)
	// NewRenderTarget allocates a depth buffer and framebuffer around color
	// and verifies completeness.
	NewRenderTarget(color uint32, width, height int32) (RenderTarget, error)
	// DeleteRenderTarget frees the owned depth buffer and framebuffer.
	DeleteRenderTarget(rt RenderTarget)
	// Bind makes rt the draw framebuffer.
	Bind(rt RenderTarget)
	// Unbind restores the default framebuffer.
	Unbind()
}

// ContextProvider exposes the native handles of the current rendering context.
type ContextProvider interface {
	Display() uintptr
	Config() uintptr
	Context() uintptr
}

// Binding builds the session graphics binding from p.
func Binding(p ContextProvider) xr.GraphicsBinding {
	if p == nil {
		return xr.GraphicsBinding{}
	}
	return xr.GraphicsBinding{Display: p.Display(), Config: p.Config(), Context: p.Context()}
}

// ErrUnavailable is returned by constructors of backends not compiled in.
var ErrUnavailable = errors.New("gles support not built (missing 'gles' build tag)")

// incompleteError reports a framebuffer that failed its completeness check.
type incompleteError struct {
	status uint32
	color  uint32
}

func (e incompleteError) Error() string {
	return fmt.Sprintf("framebuffer incomplete: status=0x%x color=%d", e.status, e.color)
}

// IsIncomplete reports whether err is a framebuffer completeness failure.
func IsIncomplete(err error) bool {
	var ie incompleteError
	return errors.As(err, &ie)
}
