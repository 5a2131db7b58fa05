// Package xr is the boundary between the session core and an XR runtime.
//
// It mirrors the subset of the OpenXR API used by the core with Go types:
// opaque handles, numeric result codes, the session-state enum, the event and
// composition-layer sum types, and the Runtime interface that every backend
// implements.
//
// Backends:
//
//   - Native OpenXR (cgo, Android + OpenGL ES): built with `-tags=openxr`.
//     Without the tag NewNativeRuntime returns a dependency-unavailable error,
//     keeping default builds CGO-free.
//   - Simulated runtime: package simrt, used by tests and headless runs.
//
// Optional extensions (hand tracking, passthrough) are separate interfaces a
// Runtime may also implement; the session core resolves them once at setup.
package xr
