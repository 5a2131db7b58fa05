//go:build !gles

package gfx

// This file provides a no-CGO stub for the OpenGL ES allocator. It is compiled
// when the 'gles' build tag is NOT set.

// NewGLES returns the OpenGL ES allocator.
func NewGLES() (Allocator, error) {
	return nil, ErrUnavailable
}

// CurrentContext returns the EGL handles of the current context.
func CurrentContext() (ContextProvider, error) {
	return nil, ErrUnavailable
}
