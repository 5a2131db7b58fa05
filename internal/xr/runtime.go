package xr

import "errors"

// ErrNativeUnavailable is returned by NewNativeRuntime in builds without the
// 'openxr' tag.
var ErrNativeUnavailable = errors.New("openxr support not built (missing 'openxr' build tag)")

// Runtime is the XR runtime API surface used by the session core. Every
// method returns the runtime Result; callers route failures through a single
// checking point rather than inspecting results ad hoc.
type Runtime interface {
	// InitializeLoader resolves the platform loader entry point.
	InitializeLoader(p PlatformContext) Result

	CreateInstance(info InstanceCreateInfo) (Instance, Result)
	DestroyInstance(inst Instance) Result
	InstanceProperties(inst Instance) (InstanceProperties, Result)

	GetSystem(inst Instance, ff FormFactor) (SystemID, Result)
	SystemProperties(inst Instance, sys SystemID) (SystemProperties, Result)
	// GraphicsRequirements returns the GLES version range the runtime accepts.
	GraphicsRequirements(inst Instance, sys SystemID) (GraphicsRequirements, Result)
	EnumerateViewConfigurationViews(inst Instance, sys SystemID, vt ViewConfigurationType) ([]ViewConfigurationView, Result)

	CreateSession(inst Instance, sys SystemID, binding GraphicsBinding) (Session, Result)
	DestroySession(s Session) Result
	BeginSession(s Session, vt ViewConfigurationType) Result
	EndSession(s Session) Result
	RequestExitSession(s Session) Result

	// PollEvent returns EventUnavailable with a nil event when the queue is empty.
	PollEvent(inst Instance) (Event, Result)

	CreateSwapchain(s Session, info SwapchainCreateInfo) (Swapchain, Result)
	DestroySwapchain(sc Swapchain) Result
	EnumerateSwapchainImages(sc Swapchain) ([]SwapchainImage, Result)
	AcquireSwapchainImage(sc Swapchain) (uint32, Result)
	WaitSwapchainImage(sc Swapchain, timeout Duration) Result
	ReleaseSwapchainImage(sc Swapchain) Result

	WaitFrame(s Session) (FrameState, Result)
	BeginFrame(s Session) Result
	EndFrame(s Session, info FrameEndInfo) Result
	LocateViews(s Session, info ViewLocateInfo) (ViewState, []View, Result)

	CreateReferenceSpace(s Session, t ReferenceSpaceType, poseInSpace Pose) (Space, Result)
	CreateActionSpace(s Session, a Action, subaction Path, poseInSpace Pose) (Space, Result)
	LocateSpace(space, base Space, t Time) (SpaceLocation, Result)
	DestroySpace(space Space) Result

	StringToPath(inst Instance, s string) (Path, Result)
	PathToString(inst Instance, p Path) (string, Result)

	CreateActionSet(inst Instance, info ActionSetCreateInfo) (ActionSet, Result)
	CreateAction(set ActionSet, info ActionCreateInfo) (Action, Result)
	SuggestInteractionProfileBindings(inst Instance, profile Path, bindings []ActionSuggestedBinding) Result
	AttachSessionActionSets(s Session, sets []ActionSet) Result
	SyncActions(s Session, active []ActiveActionSet) Result
	GetActionStateBoolean(s Session, a Action, subaction Path) (ActionStateBoolean, Result)
	GetActionStateFloat(s Session, a Action, subaction Path) (ActionStateFloat, Result)
	GetActionStateVector2f(s Session, a Action, subaction Path) (ActionStateVector2f, Result)
	GetActionStatePose(s Session, a Action, subaction Path) (ActionStatePose, Result)
	ApplyHapticFeedback(s Session, a Action, subaction Path, v HapticVibration) Result
	StopHapticFeedback(s Session, a Action, subaction Path) Result
}

// ExtensionEnumerator is implemented by runtimes that can list their
// instance extensions before an instance exists. Optional extensions are only
// requested when the runtime reports them.
type ExtensionEnumerator interface {
	EnumerateInstanceExtensions() ([]string, Result)
}

// HandJointCount is the number of joints reported per hand by XR_EXT_hand_tracking.
const HandJointCount = 26

// HandJointLocation is one located hand joint.
type HandJointLocation struct {
	Flags  SpaceLocationFlags
	Pose   Pose
	Radius float32
}

// HandJointLocations is the full joint set of one hand.
type HandJointLocations struct {
	IsActive bool
	Joints   [HandJointCount]HandJointLocation
}

// HandTracking is implemented by runtimes supporting XR_EXT_hand_tracking.
// hand is 0 for left and 1 for right.
type HandTracking interface {
	CreateHandTracker(s Session, hand int) (HandTracker, Result)
	DestroyHandTracker(t HandTracker) Result
	LocateHandJoints(t HandTracker, base Space, at Time) (HandJointLocations, Result)
}

// PassthroughSupport is implemented by runtimes supporting XR_FB_passthrough.
type PassthroughSupport interface {
	CreatePassthrough(s Session) (Passthrough, Result)
	DestroyPassthrough(p Passthrough) Result
	PassthroughStart(p Passthrough) Result
	CreatePassthroughLayer(s Session, p Passthrough) (PassthroughLayer, Result)
	DestroyPassthroughLayer(l PassthroughLayer) Result
	PassthroughLayerResume(l PassthroughLayer) Result
}
