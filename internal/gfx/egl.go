//go:build gles

package gfx

/*
#cgo LDFLAGS: -lEGL
#include <stdint.h>
#include <EGL/egl.h>

// current_handles reads the EGL display, config and context bound to the
// calling thread. It returns 0 on success, 1 without a current context and
// 2 when the context's config cannot be resolved.
static int current_handles(uintptr_t *display, uintptr_t *config, uintptr_t *context) {
	EGLDisplay d = eglGetCurrentDisplay();
	EGLContext c = eglGetCurrentContext();
	if (d == EGL_NO_DISPLAY || c == EGL_NO_CONTEXT) {
		return 1;
	}
	EGLint id = 0;
	if (!eglQueryContext(d, c, EGL_CONFIG_ID, &id)) {
		return 2;
	}
	EGLint attrs[] = { EGL_CONFIG_ID, id, EGL_NONE };
	EGLConfig cfg = NULL;
	EGLint n = 0;
	if (!eglChooseConfig(d, attrs, &cfg, 1, &n) || n < 1) {
		return 2;
	}
	*display = (uintptr_t)d;
	*config = (uintptr_t)cfg;
	*context = (uintptr_t)c;
	return 0;
}
*/
import "C"

import "fmt"

// CurrentContext captures the EGL handles current on the calling thread.
// The GLES allocator and the session must then stay on that thread.
func CurrentContext() (ContextProvider, error) {
	var d, cfg, ctx C.uintptr_t
	switch rc := C.current_handles(&d, &cfg, &ctx); rc {
	case 0:
		return StaticContext{DisplayHandle: uintptr(d), ConfigHandle: uintptr(cfg), ContextHandle: uintptr(ctx)}, nil
	case 1:
		return nil, fmt.Errorf("no current EGL context")
	default:
		return nil, fmt.Errorf("egl config of current context not found (rc=%d)", int(rc))
	}
}
