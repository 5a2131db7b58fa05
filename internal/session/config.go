package session

import (
	"time"

	"github.com/rs/zerolog"

	"oxrsession/internal/gfx"
	"oxrsession/internal/registry"
	"oxrsession/internal/xr"
)

// FrameMode selects what a tick does while the session is not running.
type FrameMode string

const (
	// FrameModeSkip issues no frame calls at all while not running.
	FrameModeSkip FrameMode = "skip"
	// FrameModeEmpty always waits and begins, then ends with zero layers.
	FrameModeEmpty FrameMode = "empty"
)

// ParseFrameMode accepts "skip", "empty" or "" (skip).
func ParseFrameMode(s string) (FrameMode, bool) {
	switch FrameMode(s) {
	case "", FrameModeSkip:
		return FrameModeSkip, true
	case FrameModeEmpty:
		return FrameModeEmpty, true
	}
	return "", false
}

// Defaults applied when corresponding Config fields are unset.
const (
	defaultAppName     = "OXR_GLES_APP"
	defaultEngineName  = "oxrsession"
	defaultHapticAmp   = 0.5
	defaultSqueezePull = 0.9
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	AppName    string
	AppVersion uint32

	Runtime   xr.Runtime
	Allocator gfx.Allocator
	Context   gfx.ContextProvider
	Platform  xr.PlatformContext

	FrameMode   FrameMode
	AppSpace    xr.ReferenceSpaceType
	BlendMode   xr.EnvironmentBlendMode
	Profile     *registry.Profile
	ColorFormat int64

	// ImageWaitTimeout bounds each swapchain image wait. Zero waits forever.
	ImageWaitTimeout time.Duration

	HandTracking bool
	Passthrough  bool

	Logger    zerolog.Logger
	Publisher EventPublisher
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = defaultAppName
	}
	if c.FrameMode == "" {
		c.FrameMode = FrameModeSkip
	}
	if c.AppSpace == 0 {
		c.AppSpace = xr.ReferenceSpaceLocal
	}
	if c.BlendMode == 0 {
		c.BlendMode = xr.BlendModeOpaque
	}
	if c.Profile == nil {
		p := registry.OculusTouch()
		c.Profile = &p
	}
	if c.ColorFormat == 0 {
		c.ColorFormat = xr.ColorFormatRGBA8
	}
	if c.Publisher == nil {
		c.Publisher = noopPublisher{}
	}
}
