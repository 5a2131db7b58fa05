package gfx

import (
	"testing"

	"oxrsession/internal/xr"
)

func TestHeadless_AllocateAndDelete(t *testing.T) {
	h := NewHeadless(xr.MakeVersion(3, 1, 0))
	v, err := h.APIVersion()
	if err != nil || v.Major() != 3 || v.Minor() != 1 {
		t.Fatalf("version: %v %v", v, err)
	}
	a, err := h.NewRenderTarget(7, 64, 32)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	b, err := h.NewRenderTarget(8, 64, 32)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if a.Framebuffer == b.Framebuffer || a.DepthBuffer == b.DepthBuffer {
		t.Fatalf("names reused: %+v %+v", a, b)
	}
	if a.ColorTexture != 7 || a.Viewport().Extent.Width != 64 {
		t.Fatalf("unexpected target %+v", a)
	}
	h.Bind(a)
	if h.Bound() != a.Framebuffer {
		t.Fatalf("bind not recorded")
	}
	h.DeleteRenderTarget(a)
	if h.Bound() != 0 || h.Live() != 1 {
		t.Fatalf("bound=%d live=%d", h.Bound(), h.Live())
	}
	h.DeleteRenderTarget(b)
	if h.Live() != 0 {
		t.Fatalf("leak: %d", h.Live())
	}
}

func TestHeadless_FailComplete(t *testing.T) {
	h := NewHeadless(xr.MakeVersion(3, 1, 0))
	h.FailComplete = true
	if _, err := h.NewRenderTarget(1, 8, 8); !IsIncomplete(err) {
		t.Fatalf("expected incomplete, got %v", err)
	}
	if _, err := h.NewRenderTarget(1, 8, 8); err != nil {
		t.Fatalf("fail flag should be one-shot: %v", err)
	}
}

func TestBinding_NilProvider(t *testing.T) {
	if b := Binding(nil); b != (xr.GraphicsBinding{}) {
		t.Fatalf("expected zero binding, got %+v", b)
	}
	b := Binding(StaticContext{DisplayHandle: 1, ConfigHandle: 2, ContextHandle: 3})
	if b.Display != 1 || b.Config != 2 || b.Context != 3 {
		t.Fatalf("unexpected binding %+v", b)
	}
}
