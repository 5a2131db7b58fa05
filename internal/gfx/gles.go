//go:build gles

package gfx

import (
	"fmt"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"oxrsession/internal/xr"
)

type glesAllocator struct{}

// NewGLES initializes the GL function pointers for the current context and
// returns the OpenGL ES allocator.
func NewGLES() (Allocator, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	return glesAllocator{}, nil
}

func (glesAllocator) APIVersion() (xr.Version, error) {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	if major == 0 {
		return 0, fmt.Errorf("gl version query failed: error=0x%x", gl.GetError())
	}
	return xr.MakeVersion(uint32(major), uint32(minor), 0), nil
}

func (glesAllocator) NewRenderTarget(color uint32, width, height int32) (RenderTarget, error) {
	var depth, fbo uint32
	gl.GenRenderbuffers(1, &depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, depth)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteRenderbuffers(1, &depth)
		return RenderTarget{}, incompleteError{status: status, color: color}
	}
	return RenderTarget{Framebuffer: fbo, ColorTexture: color, DepthBuffer: depth, Width: width, Height: height}, nil
}

func (glesAllocator) DeleteRenderTarget(rt RenderTarget) {
	if rt.Framebuffer != 0 {
		gl.DeleteFramebuffers(1, &rt.Framebuffer)
	}
	if rt.DepthBuffer != 0 {
		gl.DeleteRenderbuffers(1, &rt.DepthBuffer)
	}
}

func (glesAllocator) Bind(rt RenderTarget) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.Framebuffer)
	gl.Viewport(0, 0, rt.Width, rt.Height)
}

func (glesAllocator) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}
