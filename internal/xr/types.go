package xr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Opaque runtime handles. The zero value is the null handle.
type (
	Instance    uint64
	Session     uint64
	Swapchain   uint64
	Space       uint64
	ActionSet   uint64
	Action      uint64
	HandTracker uint64
	// Passthrough is the passthrough feature handle (XR_FB_passthrough).
	Passthrough uint64
	// PassthroughLayer is a passthrough reconstruction layer handle.
	PassthroughLayer uint64
)

// SystemID identifies the HMD class bound to an Instance.
type SystemID uint64

// Path is an interned semantic path such as /user/hand/left.
type Path uint64

// NullPath is the empty path.
const NullPath Path = 0

// Time is a runtime timestamp in nanoseconds.
type Time int64

// Duration is a runtime duration in nanoseconds.
type Duration int64

const (
	// InfiniteDuration waits without bound.
	InfiniteDuration Duration = 0x7fffffffffffffff
	// MinHapticDuration requests the shortest pulse the device supports.
	MinHapticDuration Duration = -1
	// FrequencyUnspecified lets the runtime pick an optimal vibration frequency.
	FrequencyUnspecified float32 = 0
)

// DurationOf converts a time.Duration, mapping non-positive values to InfiniteDuration.
func DurationOf(d time.Duration) Duration {
	if d <= 0 {
		return InfiniteDuration
	}
	return Duration(d.Nanoseconds())
}

// Version packs major.minor.patch as 16.16.32 bits.
type Version uint64

// MakeVersion builds a Version.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(uint64(major&0xffff)<<48 | uint64(minor&0xffff)<<32 | uint64(patch))
}

func (v Version) Major() uint32 { return uint32(v >> 48 & 0xffff) }
func (v Version) Minor() uint32 { return uint32(v >> 32 & 0xffff) }
func (v Version) Patch() uint32 { return uint32(v & 0xffffffff) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ParseVersion reads "major.minor" or "major.minor.patch".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("version %q: want major.minor[.patch]", s)
	}
	var n [3]uint64
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("version %q: %w", s, err)
		}
		n[i] = v
	}
	return MakeVersion(uint32(n[0]), uint32(n[1]), uint32(n[2])), nil
}

// CurrentAPIVersion is the API version requested at instance creation.
var CurrentAPIVersion = MakeVersion(1, 0, 34)

type FormFactor int32

const (
	FormFactorHeadMountedDisplay FormFactor = 1
	FormFactorHandheldDisplay    FormFactor = 2
)

type ViewConfigurationType int32

const (
	ViewConfigurationPrimaryMono   ViewConfigurationType = 1
	ViewConfigurationPrimaryStereo ViewConfigurationType = 2
)

func (t ViewConfigurationType) String() string {
	switch t {
	case ViewConfigurationPrimaryMono:
		return "XR_VIEW_CONFIGURATION_TYPE_PRIMARY_MONO"
	case ViewConfigurationPrimaryStereo:
		return "XR_VIEW_CONFIGURATION_TYPE_PRIMARY_STEREO"
	}
	return fmt.Sprintf("Unknown XrViewConfigurationType(%d)", int32(t))
}

type ReferenceSpaceType int32

const (
	ReferenceSpaceView  ReferenceSpaceType = 1
	ReferenceSpaceLocal ReferenceSpaceType = 2
	ReferenceSpaceStage ReferenceSpaceType = 3
)

func (t ReferenceSpaceType) String() string {
	switch t {
	case ReferenceSpaceView:
		return "XR_REFERENCE_SPACE_TYPE_VIEW"
	case ReferenceSpaceLocal:
		return "XR_REFERENCE_SPACE_TYPE_LOCAL"
	case ReferenceSpaceStage:
		return "XR_REFERENCE_SPACE_TYPE_STAGE"
	}
	return fmt.Sprintf("Unknown XrReferenceSpaceType(%d)", int32(t))
}

// ParseReferenceSpace maps "view", "local" and "stage" to their types.
func ParseReferenceSpace(s string) (ReferenceSpaceType, error) {
	switch s {
	case "view":
		return ReferenceSpaceView, nil
	case "local", "":
		return ReferenceSpaceLocal, nil
	case "stage":
		return ReferenceSpaceStage, nil
	}
	return 0, fmt.Errorf("unknown reference space %q", s)
}

type EnvironmentBlendMode int32

const (
	BlendModeOpaque     EnvironmentBlendMode = 1
	BlendModeAdditive   EnvironmentBlendMode = 2
	BlendModeAlphaBlend EnvironmentBlendMode = 3
)

// SessionState is the runtime-driven session lifecycle state.
type SessionState int32

const (
	SessionStateUnknown      SessionState = 0
	SessionStateIdle         SessionState = 1
	SessionStateReady        SessionState = 2
	SessionStateSynchronized SessionState = 3
	SessionStateVisible      SessionState = 4
	SessionStateFocused      SessionState = 5
	SessionStateStopping     SessionState = 6
	SessionStateLossPending  SessionState = 7
	SessionStateExiting      SessionState = 8
)

func (s SessionState) String() string {
	switch s {
	case SessionStateUnknown:
		return "XR_SESSION_STATE_UNKNOWN"
	case SessionStateIdle:
		return "XR_SESSION_STATE_IDLE"
	case SessionStateReady:
		return "XR_SESSION_STATE_READY"
	case SessionStateSynchronized:
		return "XR_SESSION_STATE_SYNCHRONIZED"
	case SessionStateVisible:
		return "XR_SESSION_STATE_VISIBLE"
	case SessionStateFocused:
		return "XR_SESSION_STATE_FOCUSED"
	case SessionStateStopping:
		return "XR_SESSION_STATE_STOPPING"
	case SessionStateLossPending:
		return "XR_SESSION_STATE_LOSS_PENDING"
	case SessionStateExiting:
		return "XR_SESSION_STATE_EXITING"
	}
	return fmt.Sprintf("Unknown XrSessionState(%d)", int32(s))
}

// SwapchainUsageFlags describe how swapchain images will be used.
type SwapchainUsageFlags uint64

const (
	SwapchainUsageColorAttachment SwapchainUsageFlags = 0x00000001
	SwapchainUsageDepthAttachment SwapchainUsageFlags = 0x00000002
	SwapchainUsageSampled         SwapchainUsageFlags = 0x00000020
)

// ViewStateFlags report validity of located views.
type ViewStateFlags uint64

const (
	ViewStateOrientationValid   ViewStateFlags = 0x00000001
	ViewStatePositionValid      ViewStateFlags = 0x00000002
	ViewStateOrientationTracked ViewStateFlags = 0x00000004
	ViewStatePositionTracked    ViewStateFlags = 0x00000008
)

// SpaceLocationFlags report validity of a located space.
type SpaceLocationFlags uint64

const (
	SpaceLocationOrientationValid   SpaceLocationFlags = 0x00000001
	SpaceLocationPositionValid      SpaceLocationFlags = 0x00000002
	SpaceLocationOrientationTracked SpaceLocationFlags = 0x00000004
	SpaceLocationPositionTracked    SpaceLocationFlags = 0x00000008
)

// CompositionLayerFlags modify how a layer is composited.
type CompositionLayerFlags uint64

const (
	LayerCorrectChromaticAberration CompositionLayerFlags = 0x00000001
	LayerBlendTextureSourceAlpha    CompositionLayerFlags = 0x00000002
	LayerUnpremultipliedAlpha       CompositionLayerFlags = 0x00000004
)

// Extension names used by the core.
const (
	ExtAndroidCreateInstance = "XR_KHR_android_create_instance"
	ExtOpenGLESEnable        = "XR_KHR_opengl_es_enable"
	ExtHandTracking          = "XR_EXT_hand_tracking"
	ExtPassthroughFB         = "XR_FB_passthrough"
)

// ColorFormatRGBA8 is GL_RGBA8, the swapchain color format used with GLES.
const ColorFormatRGBA8 int64 = 0x8058

// PlatformContext carries the host handles the loader needs (Android JavaVM
// and activity object). Both are opaque to the core.
type PlatformContext struct {
	VM       uintptr
	Activity uintptr
}

// ApplicationInfo identifies the application to the runtime.
type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         Version
}

// InstanceCreateInfo is passed to Runtime.CreateInstance.
type InstanceCreateInfo struct {
	Platform    PlatformContext
	Application ApplicationInfo
	Extensions  []string
}

// InstanceProperties describe the runtime behind an Instance.
type InstanceProperties struct {
	RuntimeName    string
	RuntimeVersion Version
}

// SystemProperties describe the HMD selected by GetSystem.
type SystemProperties struct {
	SystemID                SystemID
	VendorID                uint32
	SystemName              string
	MaxSwapchainImageWidth  uint32
	MaxSwapchainImageHeight uint32
	MaxLayerCount           uint32
	OrientationTracking     bool
	PositionTracking        bool
}

// GraphicsRequirements is the inclusive graphics API version range a runtime accepts.
type GraphicsRequirements struct {
	MinAPIVersionSupported Version
	MaxAPIVersionSupported Version
}

// Supports reports whether v lies within the inclusive range.
func (g GraphicsRequirements) Supports(v Version) bool {
	return v >= g.MinAPIVersionSupported && v <= g.MaxAPIVersionSupported
}

// GraphicsBinding holds the EGL handles a GLES session binds to.
type GraphicsBinding struct {
	Display uintptr
	Config  uintptr
	Context uintptr
}

// ViewConfigurationView is one entry of the enumerated view configuration.
type ViewConfigurationView struct {
	RecommendedImageRectWidth       uint32
	MaxImageRectWidth               uint32
	RecommendedImageRectHeight      uint32
	MaxImageRectHeight              uint32
	RecommendedSwapchainSampleCount uint32
	MaxSwapchainSampleCount         uint32
}

// SwapchainCreateInfo describes a swapchain.
type SwapchainCreateInfo struct {
	UsageFlags  SwapchainUsageFlags
	Format      int64
	SampleCount uint32
	Width       uint32
	Height      uint32
	FaceCount   uint32
	ArraySize   uint32
	MipCount    uint32
}

// SwapchainImage is one runtime-owned swapchain image. For GLES it is a
// texture name.
type SwapchainImage struct {
	Image uint32
}

// Offset2Di is an integer 2D offset.
type Offset2Di struct{ X, Y int32 }

// Extent2Di is an integer 2D size.
type Extent2Di struct{ Width, Height int32 }

// Rect2Di is an integer rectangle.
type Rect2Di struct {
	Offset Offset2Di
	Extent Extent2Di
}

// SwapchainSubImage references the region of a swapchain image used by a layer.
type SwapchainSubImage struct {
	Swapchain       Swapchain
	ImageRect       Rect2Di
	ImageArrayIndex uint32
}

// FrameState is returned by WaitFrame.
type FrameState struct {
	PredictedDisplayTime   Time
	PredictedDisplayPeriod Duration
	ShouldRender           bool
}

// ViewLocateInfo selects what LocateViews resolves.
type ViewLocateInfo struct {
	ViewConfigurationType ViewConfigurationType
	DisplayTime           Time
	Space                 Space
}

// ViewState carries the validity flags of a LocateViews call.
type ViewState struct {
	Flags ViewStateFlags
}

// PoseValid reports whether both position and orientation are valid.
func (s ViewState) PoseValid() bool {
	return s.Flags&ViewStatePositionValid != 0 && s.Flags&ViewStateOrientationValid != 0
}

// View is the pose and field of view of one eye.
type View struct {
	Pose Pose
	Fov  Fovf
}

// SpaceLocation is the result of locating one space in another.
type SpaceLocation struct {
	Flags SpaceLocationFlags
	Pose  Pose
}

// Valid reports whether both position and orientation are valid.
func (l SpaceLocation) Valid() bool {
	return l.Flags&SpaceLocationPositionValid != 0 && l.Flags&SpaceLocationOrientationValid != 0
}
