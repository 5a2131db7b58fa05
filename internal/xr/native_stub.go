//go:build !openxr || !android || !(arm64 || amd64)

package xr

// Default builds carry no OpenXR loader. The cgo binding in native_openxr.go
// needs the 'openxr' tag and an Android arm64 or amd64 target.

// NewNativeRuntime returns the cgo OpenXR runtime.
func NewNativeRuntime() (Runtime, error) {
	return nil, ErrNativeUnavailable
}
