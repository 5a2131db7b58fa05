//go:build openxr && android && (arm64 || amd64)

package xr

/*
#cgo LDFLAGS: -lopenxr_loader -lEGL -landroid
#define XR_USE_PLATFORM_ANDROID
#define XR_USE_GRAPHICS_API_OPENGL_ES
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
#include <jni.h>
#include <EGL/egl.h>
#include <openxr/openxr.h>
#include <openxr/openxr_platform.h>

// Handles cross the boundary as uint64_t; on 64-bit targets they are pointers.
#define H(T, v) ((T)(uintptr_t)(v))
#define U(v) ((uint64_t)(uintptr_t)(v))

static PFN_xrGetOpenGLESGraphicsRequirementsKHR pfnGLESRequirements;
static PFN_xrCreateHandTrackerEXT pfnCreateHandTracker;
static PFN_xrDestroyHandTrackerEXT pfnDestroyHandTracker;
static PFN_xrLocateHandJointsEXT pfnLocateHandJoints;
static PFN_xrCreatePassthroughFB pfnCreatePassthrough;
static PFN_xrDestroyPassthroughFB pfnDestroyPassthrough;
static PFN_xrPassthroughStartFB pfnPassthroughStart;
static PFN_xrCreatePassthroughLayerFB pfnCreatePassthroughLayer;
static PFN_xrDestroyPassthroughLayerFB pfnDestroyPassthroughLayer;
static PFN_xrPassthroughLayerResumeFB pfnPassthroughLayerResume;

static void oxr_load(XrInstance inst, const char *name, PFN_xrVoidFunction *fn) {
	if (XR_FAILED(xrGetInstanceProcAddr(inst, name, fn))) {
		*fn = NULL;
	}
}

// oxr_load_extensions resolves extension entry points for inst. Entry points
// of extensions that were not enabled stay NULL.
static void oxr_load_extensions(uint64_t inst) {
	XrInstance i = H(XrInstance, inst);
	oxr_load(i, "xrGetOpenGLESGraphicsRequirementsKHR", (PFN_xrVoidFunction *)&pfnGLESRequirements);
	oxr_load(i, "xrCreateHandTrackerEXT", (PFN_xrVoidFunction *)&pfnCreateHandTracker);
	oxr_load(i, "xrDestroyHandTrackerEXT", (PFN_xrVoidFunction *)&pfnDestroyHandTracker);
	oxr_load(i, "xrLocateHandJointsEXT", (PFN_xrVoidFunction *)&pfnLocateHandJoints);
	oxr_load(i, "xrCreatePassthroughFB", (PFN_xrVoidFunction *)&pfnCreatePassthrough);
	oxr_load(i, "xrDestroyPassthroughFB", (PFN_xrVoidFunction *)&pfnDestroyPassthrough);
	oxr_load(i, "xrPassthroughStartFB", (PFN_xrVoidFunction *)&pfnPassthroughStart);
	oxr_load(i, "xrCreatePassthroughLayerFB", (PFN_xrVoidFunction *)&pfnCreatePassthroughLayer);
	oxr_load(i, "xrDestroyPassthroughLayerFB", (PFN_xrVoidFunction *)&pfnDestroyPassthroughLayer);
	oxr_load(i, "xrPassthroughLayerResumeFB", (PFN_xrVoidFunction *)&pfnPassthroughLayerResume);
}

static XrResult oxr_initialize_loader(uintptr_t vm, uintptr_t activity) {
	PFN_xrInitializeLoaderKHR fn = NULL;
	XrResult r = xrGetInstanceProcAddr(XR_NULL_HANDLE, "xrInitializeLoaderKHR", (PFN_xrVoidFunction *)&fn);
	if (XR_FAILED(r)) {
		return r;
	}
	if (fn == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	XrLoaderInitInfoAndroidKHR info = {XR_TYPE_LOADER_INIT_INFO_ANDROID_KHR};
	info.applicationVM = (void *)vm;
	info.applicationContext = (void *)activity;
	return fn((const XrLoaderInitInfoBaseHeaderKHR *)&info);
}

static XrResult oxr_enumerate_extensions(uint32_t cap, uint32_t *n, XrExtensionProperties *props) {
	for (uint32_t i = 0; i < cap; i++) {
		props[i].type = XR_TYPE_EXTENSION_PROPERTIES;
		props[i].next = NULL;
	}
	return xrEnumerateInstanceExtensionProperties(NULL, cap, n, props);
}

static XrResult oxr_create_instance(uintptr_t vm, uintptr_t activity,
		const char *app, uint32_t appVersion, const char *engine, uint32_t engineVersion,
		uint64_t apiVersion, const char **exts, uint32_t extCount, uint64_t *out) {
	XrInstanceCreateInfoAndroidKHR android = {XR_TYPE_INSTANCE_CREATE_INFO_ANDROID_KHR};
	android.applicationVM = (void *)vm;
	android.applicationActivity = (void *)activity;

	XrInstanceCreateInfo ci = {XR_TYPE_INSTANCE_CREATE_INFO};
	ci.next = &android;
	strncpy(ci.applicationInfo.applicationName, app, XR_MAX_APPLICATION_NAME_SIZE - 1);
	ci.applicationInfo.applicationVersion = appVersion;
	strncpy(ci.applicationInfo.engineName, engine, XR_MAX_ENGINE_NAME_SIZE - 1);
	ci.applicationInfo.engineVersion = engineVersion;
	ci.applicationInfo.apiVersion = (XrVersion)apiVersion;
	ci.enabledExtensionCount = extCount;
	ci.enabledExtensionNames = exts;

	XrInstance inst = XR_NULL_HANDLE;
	XrResult r = xrCreateInstance(&ci, &inst);
	*out = U(inst);
	return r;
}

static XrResult oxr_destroy_instance(uint64_t inst) {
	return xrDestroyInstance(H(XrInstance, inst));
}

static XrResult oxr_instance_properties(uint64_t inst, XrInstanceProperties *p) {
	p->type = XR_TYPE_INSTANCE_PROPERTIES;
	p->next = NULL;
	return xrGetInstanceProperties(H(XrInstance, inst), p);
}

static XrResult oxr_get_system(uint64_t inst, XrFormFactor ff, XrSystemId *out) {
	XrSystemGetInfo gi = {XR_TYPE_SYSTEM_GET_INFO};
	gi.formFactor = ff;
	return xrGetSystem(H(XrInstance, inst), &gi, out);
}

static XrResult oxr_system_properties(uint64_t inst, XrSystemId sys, XrSystemProperties *p) {
	p->type = XR_TYPE_SYSTEM_PROPERTIES;
	p->next = NULL;
	return xrGetSystemProperties(H(XrInstance, inst), sys, p);
}

static XrResult oxr_gles_requirements(uint64_t inst, XrSystemId sys, XrVersion *lo, XrVersion *hi) {
	if (pfnGLESRequirements == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	XrGraphicsRequirementsOpenGLESKHR req = {XR_TYPE_GRAPHICS_REQUIREMENTS_OPENGL_ES_KHR};
	XrResult r = pfnGLESRequirements(H(XrInstance, inst), sys, &req);
	*lo = req.minApiVersionSupported;
	*hi = req.maxApiVersionSupported;
	return r;
}

static XrResult oxr_view_configuration_views(uint64_t inst, XrSystemId sys, XrViewConfigurationType vt,
		uint32_t cap, uint32_t *n, XrViewConfigurationView *views) {
	for (uint32_t i = 0; i < cap; i++) {
		views[i].type = XR_TYPE_VIEW_CONFIGURATION_VIEW;
		views[i].next = NULL;
	}
	return xrEnumerateViewConfigurationViews(H(XrInstance, inst), sys, vt, cap, n, views);
}

static XrResult oxr_create_session(uint64_t inst, XrSystemId sys,
		uintptr_t display, uintptr_t config, uintptr_t context, uint64_t *out) {
	XrGraphicsBindingOpenGLESAndroidKHR binding = {XR_TYPE_GRAPHICS_BINDING_OPENGL_ES_ANDROID_KHR};
	binding.display = (EGLDisplay)display;
	binding.config = (EGLConfig)config;
	binding.context = (EGLContext)context;

	XrSessionCreateInfo ci = {XR_TYPE_SESSION_CREATE_INFO};
	ci.next = &binding;
	ci.systemId = sys;
	XrSession s = XR_NULL_HANDLE;
	XrResult r = xrCreateSession(H(XrInstance, inst), &ci, &s);
	*out = U(s);
	return r;
}

static XrResult oxr_destroy_session(uint64_t s) { return xrDestroySession(H(XrSession, s)); }

static XrResult oxr_begin_session(uint64_t s, XrViewConfigurationType vt) {
	XrSessionBeginInfo bi = {XR_TYPE_SESSION_BEGIN_INFO};
	bi.primaryViewConfigurationType = vt;
	return xrBeginSession(H(XrSession, s), &bi);
}

static XrResult oxr_end_session(uint64_t s) { return xrEndSession(H(XrSession, s)); }
static XrResult oxr_request_exit(uint64_t s) { return xrRequestExitSession(H(XrSession, s)); }

static XrResult oxr_poll_event(uint64_t inst, XrEventDataBuffer *buf) {
	buf->type = XR_TYPE_EVENT_DATA_BUFFER;
	buf->next = NULL;
	return xrPollEvent(H(XrInstance, inst), buf);
}

static uint64_t oxr_event_session(const XrEventDataBuffer *buf) {
	switch (buf->type) {
	case XR_TYPE_EVENT_DATA_SESSION_STATE_CHANGED:
		return U(((const XrEventDataSessionStateChanged *)buf)->session);
	case XR_TYPE_EVENT_DATA_INTERACTION_PROFILE_CHANGED:
		return U(((const XrEventDataInteractionProfileChanged *)buf)->session);
	case XR_TYPE_EVENT_DATA_REFERENCE_SPACE_CHANGE_PENDING:
		return U(((const XrEventDataReferenceSpaceChangePending *)buf)->session);
	default:
		return 0;
	}
}

static XrResult oxr_create_swapchain(uint64_t s, XrSwapchainUsageFlags usage, int64_t format,
		uint32_t samples, uint32_t width, uint32_t height, uint32_t faces, uint32_t layers, uint32_t mips,
		uint64_t *out) {
	XrSwapchainCreateInfo ci = {XR_TYPE_SWAPCHAIN_CREATE_INFO};
	ci.usageFlags = usage;
	ci.format = format;
	ci.sampleCount = samples;
	ci.width = width;
	ci.height = height;
	ci.faceCount = faces;
	ci.arraySize = layers;
	ci.mipCount = mips;
	XrSwapchain sc = XR_NULL_HANDLE;
	XrResult r = xrCreateSwapchain(H(XrSession, s), &ci, &sc);
	*out = U(sc);
	return r;
}

static XrResult oxr_destroy_swapchain(uint64_t sc) { return xrDestroySwapchain(H(XrSwapchain, sc)); }

static XrResult oxr_swapchain_images(uint64_t sc, uint32_t cap, uint32_t *n, XrSwapchainImageOpenGLESKHR *imgs) {
	for (uint32_t i = 0; i < cap; i++) {
		imgs[i].type = XR_TYPE_SWAPCHAIN_IMAGE_OPENGL_ES_KHR;
		imgs[i].next = NULL;
	}
	return xrEnumerateSwapchainImages(H(XrSwapchain, sc), cap, n, (XrSwapchainImageBaseHeader *)imgs);
}

static XrResult oxr_acquire_image(uint64_t sc, uint32_t *index) {
	XrSwapchainImageAcquireInfo ai = {XR_TYPE_SWAPCHAIN_IMAGE_ACQUIRE_INFO};
	return xrAcquireSwapchainImage(H(XrSwapchain, sc), &ai, index);
}

static XrResult oxr_wait_image(uint64_t sc, XrDuration timeout) {
	XrSwapchainImageWaitInfo wi = {XR_TYPE_SWAPCHAIN_IMAGE_WAIT_INFO};
	wi.timeout = timeout;
	return xrWaitSwapchainImage(H(XrSwapchain, sc), &wi);
}

static XrResult oxr_release_image(uint64_t sc) {
	XrSwapchainImageReleaseInfo ri = {XR_TYPE_SWAPCHAIN_IMAGE_RELEASE_INFO};
	return xrReleaseSwapchainImage(H(XrSwapchain, sc), &ri);
}

static XrResult oxr_wait_frame(uint64_t s, XrFrameState *st) {
	XrFrameWaitInfo wi = {XR_TYPE_FRAME_WAIT_INFO};
	st->type = XR_TYPE_FRAME_STATE;
	st->next = NULL;
	return xrWaitFrame(H(XrSession, s), &wi, st);
}

static XrResult oxr_begin_frame(uint64_t s) {
	XrFrameBeginInfo bi = {XR_TYPE_FRAME_BEGIN_INFO};
	return xrBeginFrame(H(XrSession, s), &bi);
}

enum { OXR_LAYER_PROJECTION = 1, OXR_LAYER_PASSTHROUGH = 2, OXR_MAX_LAYERS = 16 };

// oxr_layer describes one composition layer. Projection layers use views
// [view_offset, view_offset+view_count) of the shared view array.
typedef struct {
	int32_t kind;
	uint64_t flags;
	uint64_t handle;
	uint32_t view_offset;
	uint32_t view_count;
} oxr_layer;

static XrResult oxr_end_frame(uint64_t s, XrTime t, XrEnvironmentBlendMode blend,
		const oxr_layer *layers, uint32_t layer_count,
		XrCompositionLayerProjectionView *views, const uint64_t *swapchains) {
	XrCompositionLayerProjection proj[OXR_MAX_LAYERS];
	XrCompositionLayerPassthroughFB pt[OXR_MAX_LAYERS];
	const XrCompositionLayerBaseHeader *hdrs[OXR_MAX_LAYERS];
	if (layer_count > OXR_MAX_LAYERS) {
		return XR_ERROR_LAYER_LIMIT_EXCEEDED;
	}
	for (uint32_t i = 0; i < layer_count; i++) {
		const oxr_layer *l = &layers[i];
		if (l->kind == OXR_LAYER_PROJECTION) {
			for (uint32_t v = l->view_offset; v < l->view_offset + l->view_count; v++) {
				views[v].type = XR_TYPE_COMPOSITION_LAYER_PROJECTION_VIEW;
				views[v].next = NULL;
				views[v].subImage.swapchain = H(XrSwapchain, swapchains[v]);
			}
			memset(&proj[i], 0, sizeof(proj[i]));
			proj[i].type = XR_TYPE_COMPOSITION_LAYER_PROJECTION;
			proj[i].layerFlags = (XrCompositionLayerFlags)l->flags;
			proj[i].space = H(XrSpace, l->handle);
			proj[i].viewCount = l->view_count;
			proj[i].views = &views[l->view_offset];
			hdrs[i] = (const XrCompositionLayerBaseHeader *)&proj[i];
		} else {
			memset(&pt[i], 0, sizeof(pt[i]));
			pt[i].type = XR_TYPE_COMPOSITION_LAYER_PASSTHROUGH_FB;
			pt[i].flags = (XrCompositionLayerFlags)l->flags;
			pt[i].layerHandle = H(XrPassthroughLayerFB, l->handle);
			hdrs[i] = (const XrCompositionLayerBaseHeader *)&pt[i];
		}
	}
	XrFrameEndInfo ei = {XR_TYPE_FRAME_END_INFO};
	ei.displayTime = t;
	ei.environmentBlendMode = blend;
	ei.layerCount = layer_count;
	ei.layers = layer_count > 0 ? hdrs : NULL;
	return xrEndFrame(H(XrSession, s), &ei);
}

static XrResult oxr_locate_views(uint64_t s, XrViewConfigurationType vt, XrTime t, uint64_t space,
		XrViewState *vs, uint32_t cap, uint32_t *n, XrView *views) {
	XrViewLocateInfo li = {XR_TYPE_VIEW_LOCATE_INFO};
	li.viewConfigurationType = vt;
	li.displayTime = t;
	li.space = H(XrSpace, space);
	vs->type = XR_TYPE_VIEW_STATE;
	vs->next = NULL;
	for (uint32_t i = 0; i < cap; i++) {
		views[i].type = XR_TYPE_VIEW;
		views[i].next = NULL;
	}
	return xrLocateViews(H(XrSession, s), &li, vs, cap, n, views);
}

static XrResult oxr_create_reference_space(uint64_t s, XrReferenceSpaceType t, XrPosef pose, uint64_t *out) {
	XrReferenceSpaceCreateInfo ci = {XR_TYPE_REFERENCE_SPACE_CREATE_INFO};
	ci.referenceSpaceType = t;
	ci.poseInReferenceSpace = pose;
	XrSpace sp = XR_NULL_HANDLE;
	XrResult r = xrCreateReferenceSpace(H(XrSession, s), &ci, &sp);
	*out = U(sp);
	return r;
}

static XrResult oxr_create_action_space(uint64_t s, uint64_t a, XrPath sub, XrPosef pose, uint64_t *out) {
	XrActionSpaceCreateInfo ci = {XR_TYPE_ACTION_SPACE_CREATE_INFO};
	ci.action = H(XrAction, a);
	ci.subactionPath = sub;
	ci.poseInActionSpace = pose;
	XrSpace sp = XR_NULL_HANDLE;
	XrResult r = xrCreateActionSpace(H(XrSession, s), &ci, &sp);
	*out = U(sp);
	return r;
}

static XrResult oxr_locate_space(uint64_t space, uint64_t base, XrTime t, XrSpaceLocation *loc) {
	loc->type = XR_TYPE_SPACE_LOCATION;
	loc->next = NULL;
	return xrLocateSpace(H(XrSpace, space), H(XrSpace, base), t, loc);
}

static XrResult oxr_destroy_space(uint64_t space) { return xrDestroySpace(H(XrSpace, space)); }

static XrResult oxr_string_to_path(uint64_t inst, const char *s, XrPath *out) {
	return xrStringToPath(H(XrInstance, inst), s, out);
}

static XrResult oxr_path_to_string(uint64_t inst, XrPath p, uint32_t cap, uint32_t *n, char *buf) {
	return xrPathToString(H(XrInstance, inst), p, cap, n, buf);
}

static XrResult oxr_create_action_set(uint64_t inst, const char *name, const char *localized, uint32_t priority, uint64_t *out) {
	XrActionSetCreateInfo ci = {XR_TYPE_ACTION_SET_CREATE_INFO};
	strncpy(ci.actionSetName, name, XR_MAX_ACTION_SET_NAME_SIZE - 1);
	strncpy(ci.localizedActionSetName, localized, XR_MAX_LOCALIZED_ACTION_SET_NAME_SIZE - 1);
	ci.priority = priority;
	XrActionSet set = XR_NULL_HANDLE;
	XrResult r = xrCreateActionSet(H(XrInstance, inst), &ci, &set);
	*out = U(set);
	return r;
}

static XrResult oxr_create_action(uint64_t set, const char *name, const char *localized, XrActionType t,
		const XrPath *subs, uint32_t sub_count, uint64_t *out) {
	XrActionCreateInfo ci = {XR_TYPE_ACTION_CREATE_INFO};
	strncpy(ci.actionName, name, XR_MAX_ACTION_NAME_SIZE - 1);
	strncpy(ci.localizedActionName, localized, XR_MAX_LOCALIZED_ACTION_NAME_SIZE - 1);
	ci.actionType = t;
	ci.countSubactionPaths = sub_count;
	ci.subactionPaths = sub_count > 0 ? subs : NULL;
	XrAction a = XR_NULL_HANDLE;
	XrResult r = xrCreateAction(H(XrActionSet, set), &ci, &a);
	*out = U(a);
	return r;
}

static XrResult oxr_suggest_bindings(uint64_t inst, XrPath profile, const uint64_t *actions, const XrPath *paths, uint32_t n) {
	XrActionSuggestedBinding *b = calloc(n > 0 ? n : 1, sizeof(*b));
	if (b == NULL) {
		return XR_ERROR_OUT_OF_MEMORY;
	}
	for (uint32_t i = 0; i < n; i++) {
		b[i].action = H(XrAction, actions[i]);
		b[i].binding = paths[i];
	}
	XrInteractionProfileSuggestedBinding sb = {XR_TYPE_INTERACTION_PROFILE_SUGGESTED_BINDING};
	sb.interactionProfile = profile;
	sb.countSuggestedBindings = n;
	sb.suggestedBindings = b;
	XrResult r = xrSuggestInteractionProfileBindings(H(XrInstance, inst), &sb);
	free(b);
	return r;
}

static XrResult oxr_attach_action_sets(uint64_t s, const uint64_t *sets, uint32_t n) {
	XrActionSet *hs = calloc(n > 0 ? n : 1, sizeof(*hs));
	if (hs == NULL) {
		return XR_ERROR_OUT_OF_MEMORY;
	}
	for (uint32_t i = 0; i < n; i++) {
		hs[i] = H(XrActionSet, sets[i]);
	}
	XrSessionActionSetsAttachInfo ai = {XR_TYPE_SESSION_ACTION_SETS_ATTACH_INFO};
	ai.countActionSets = n;
	ai.actionSets = hs;
	XrResult r = xrAttachSessionActionSets(H(XrSession, s), &ai);
	free(hs);
	return r;
}

static XrResult oxr_sync_actions(uint64_t s, const uint64_t *sets, const XrPath *subs, uint32_t n) {
	XrActiveActionSet *as = calloc(n > 0 ? n : 1, sizeof(*as));
	if (as == NULL) {
		return XR_ERROR_OUT_OF_MEMORY;
	}
	for (uint32_t i = 0; i < n; i++) {
		as[i].actionSet = H(XrActionSet, sets[i]);
		as[i].subactionPath = subs[i];
	}
	XrActionsSyncInfo si = {XR_TYPE_ACTIONS_SYNC_INFO};
	si.countActiveActionSets = n;
	si.activeActionSets = as;
	XrResult r = xrSyncActions(H(XrSession, s), &si);
	free(as);
	return r;
}

static XrActionStateGetInfo oxr_get_info(uint64_t a, XrPath sub) {
	XrActionStateGetInfo gi = {XR_TYPE_ACTION_STATE_GET_INFO};
	gi.action = H(XrAction, a);
	gi.subactionPath = sub;
	return gi;
}

static XrResult oxr_state_boolean(uint64_t s, uint64_t a, XrPath sub, XrActionStateBoolean *st) {
	XrActionStateGetInfo gi = oxr_get_info(a, sub);
	st->type = XR_TYPE_ACTION_STATE_BOOLEAN;
	st->next = NULL;
	return xrGetActionStateBoolean(H(XrSession, s), &gi, st);
}

static XrResult oxr_state_float(uint64_t s, uint64_t a, XrPath sub, XrActionStateFloat *st) {
	XrActionStateGetInfo gi = oxr_get_info(a, sub);
	st->type = XR_TYPE_ACTION_STATE_FLOAT;
	st->next = NULL;
	return xrGetActionStateFloat(H(XrSession, s), &gi, st);
}

static XrResult oxr_state_vector2f(uint64_t s, uint64_t a, XrPath sub, XrActionStateVector2f *st) {
	XrActionStateGetInfo gi = oxr_get_info(a, sub);
	st->type = XR_TYPE_ACTION_STATE_VECTOR2F;
	st->next = NULL;
	return xrGetActionStateVector2f(H(XrSession, s), &gi, st);
}

static XrResult oxr_state_pose(uint64_t s, uint64_t a, XrPath sub, XrActionStatePose *st) {
	XrActionStateGetInfo gi = oxr_get_info(a, sub);
	st->type = XR_TYPE_ACTION_STATE_POSE;
	st->next = NULL;
	return xrGetActionStatePose(H(XrSession, s), &gi, st);
}

static XrResult oxr_apply_haptic(uint64_t s, uint64_t a, XrPath sub, XrDuration d, float freq, float amp) {
	XrHapticActionInfo hi = {XR_TYPE_HAPTIC_ACTION_INFO};
	hi.action = H(XrAction, a);
	hi.subactionPath = sub;
	XrHapticVibration v = {XR_TYPE_HAPTIC_VIBRATION};
	v.duration = d;
	v.frequency = freq;
	v.amplitude = amp;
	return xrApplyHapticFeedback(H(XrSession, s), &hi, (const XrHapticBaseHeader *)&v);
}

static XrResult oxr_stop_haptic(uint64_t s, uint64_t a, XrPath sub) {
	XrHapticActionInfo hi = {XR_TYPE_HAPTIC_ACTION_INFO};
	hi.action = H(XrAction, a);
	hi.subactionPath = sub;
	return xrStopHapticFeedback(H(XrSession, s), &hi);
}

static XrResult oxr_create_hand_tracker(uint64_t s, XrHandEXT hand, uint64_t *out) {
	if (pfnCreateHandTracker == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	XrHandTrackerCreateInfoEXT ci = {XR_TYPE_HAND_TRACKER_CREATE_INFO_EXT};
	ci.hand = hand;
	ci.handJointSet = XR_HAND_JOINT_SET_DEFAULT_EXT;
	XrHandTrackerEXT t = XR_NULL_HANDLE;
	XrResult r = pfnCreateHandTracker(H(XrSession, s), &ci, &t);
	*out = U(t);
	return r;
}

static XrResult oxr_destroy_hand_tracker(uint64_t t) {
	if (pfnDestroyHandTracker == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	return pfnDestroyHandTracker(H(XrHandTrackerEXT, t));
}

static XrResult oxr_locate_hand_joints(uint64_t t, uint64_t base, XrTime at,
		XrBool32 *active, XrHandJointLocationEXT *joints, uint32_t n) {
	if (pfnLocateHandJoints == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	XrHandJointsLocateInfoEXT li = {XR_TYPE_HAND_JOINTS_LOCATE_INFO_EXT};
	li.baseSpace = H(XrSpace, base);
	li.time = at;
	XrHandJointLocationsEXT locs = {XR_TYPE_HAND_JOINT_LOCATIONS_EXT};
	locs.jointCount = n;
	locs.jointLocations = joints;
	XrResult r = pfnLocateHandJoints(H(XrHandTrackerEXT, t), &li, &locs);
	*active = locs.isActive;
	return r;
}

static XrResult oxr_create_passthrough(uint64_t s, uint64_t *out) {
	if (pfnCreatePassthrough == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	XrPassthroughCreateInfoFB ci = {XR_TYPE_PASSTHROUGH_CREATE_INFO_FB};
	XrPassthroughFB p = XR_NULL_HANDLE;
	XrResult r = pfnCreatePassthrough(H(XrSession, s), &ci, &p);
	*out = U(p);
	return r;
}

static XrResult oxr_destroy_passthrough(uint64_t p) {
	if (pfnDestroyPassthrough == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	return pfnDestroyPassthrough(H(XrPassthroughFB, p));
}

static XrResult oxr_passthrough_start(uint64_t p) {
	if (pfnPassthroughStart == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	return pfnPassthroughStart(H(XrPassthroughFB, p));
}

static XrResult oxr_create_passthrough_layer(uint64_t s, uint64_t p, uint64_t *out) {
	if (pfnCreatePassthroughLayer == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	XrPassthroughLayerCreateInfoFB ci = {XR_TYPE_PASSTHROUGH_LAYER_CREATE_INFO_FB};
	ci.passthrough = H(XrPassthroughFB, p);
	ci.purpose = XR_PASSTHROUGH_LAYER_PURPOSE_RECONSTRUCTION_FB;
	XrPassthroughLayerFB l = XR_NULL_HANDLE;
	XrResult r = pfnCreatePassthroughLayer(H(XrSession, s), &ci, &l);
	*out = U(l);
	return r;
}

static XrResult oxr_destroy_passthrough_layer(uint64_t l) {
	if (pfnDestroyPassthroughLayer == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	return pfnDestroyPassthroughLayer(H(XrPassthroughLayerFB, l));
}

static XrResult oxr_passthrough_layer_resume(uint64_t l) {
	if (pfnPassthroughLayerResume == NULL) {
		return XR_ERROR_FUNCTION_UNSUPPORTED;
	}
	return pfnPassthroughLayerResume(H(XrPassthroughLayerFB, l));
}
*/
import "C"

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// nativeRuntime calls the system OpenXR loader. Extension entry points are
// process-global, so one instance at a time is supported.
type nativeRuntime struct{}

// NewNativeRuntime returns the cgo OpenXR runtime.
func NewNativeRuntime() (Runtime, error) {
	return nativeRuntime{}, nil
}

func res(r C.XrResult) Result { return Result(r) }

func poseToC(p Pose) C.XrPosef {
	var c C.XrPosef
	c.orientation.x = C.float(p.Orientation.V[0])
	c.orientation.y = C.float(p.Orientation.V[1])
	c.orientation.z = C.float(p.Orientation.V[2])
	c.orientation.w = C.float(p.Orientation.W)
	c.position.x = C.float(p.Position[0])
	c.position.y = C.float(p.Position[1])
	c.position.z = C.float(p.Position[2])
	return c
}

func poseFromC(c C.XrPosef) Pose {
	return Pose{
		Orientation: mgl32.Quat{
			W: float32(c.orientation.w),
			V: mgl32.Vec3{float32(c.orientation.x), float32(c.orientation.y), float32(c.orientation.z)},
		},
		Position: mgl32.Vec3{float32(c.position.x), float32(c.position.y), float32(c.position.z)},
	}
}

func fovToC(f Fovf) C.XrFovf {
	return C.XrFovf{
		angleLeft:  C.float(f.AngleLeft),
		angleRight: C.float(f.AngleRight),
		angleUp:    C.float(f.AngleUp),
		angleDown:  C.float(f.AngleDown),
	}
}

func fovFromC(c C.XrFovf) Fovf {
	return Fovf{
		AngleLeft:  float32(c.angleLeft),
		AngleRight: float32(c.angleRight),
		AngleUp:    float32(c.angleUp),
		AngleDown:  float32(c.angleDown),
	}
}

func goBool(b C.XrBool32) bool { return b != 0 }

func (nativeRuntime) InitializeLoader(p PlatformContext) Result {
	return res(C.oxr_initialize_loader(C.uintptr_t(p.VM), C.uintptr_t(p.Activity)))
}

func (nativeRuntime) EnumerateInstanceExtensions() ([]string, Result) {
	var n C.uint32_t
	if r := res(C.oxr_enumerate_extensions(0, &n, nil)); r.Failed() || n == 0 {
		return nil, r
	}
	props := make([]C.XrExtensionProperties, n)
	if r := res(C.oxr_enumerate_extensions(n, &n, &props[0])); r.Failed() {
		return nil, r
	}
	out := make([]string, 0, n)
	for i := range props[:n] {
		out = append(out, C.GoString(&props[i].extensionName[0]))
	}
	return out, Success
}

func (nativeRuntime) CreateInstance(info InstanceCreateInfo) (Instance, Result) {
	app := C.CString(info.Application.ApplicationName)
	defer C.free(unsafe.Pointer(app))
	engine := C.CString(info.Application.EngineName)
	defer C.free(unsafe.Pointer(engine))

	var exts **C.char
	if n := len(info.Extensions); n > 0 {
		arr := unsafe.Slice((**C.char)(C.malloc(C.size_t(n)*C.size_t(unsafe.Sizeof((*C.char)(nil))))), n)
		for i, e := range info.Extensions {
			arr[i] = C.CString(e)
		}
		defer func() {
			for _, p := range arr {
				C.free(unsafe.Pointer(p))
			}
			C.free(unsafe.Pointer(&arr[0]))
		}()
		exts = &arr[0]
	}

	var out C.uint64_t
	r := res(C.oxr_create_instance(
		C.uintptr_t(info.Platform.VM), C.uintptr_t(info.Platform.Activity),
		app, C.uint32_t(info.Application.ApplicationVersion),
		engine, C.uint32_t(info.Application.EngineVersion),
		C.uint64_t(info.Application.APIVersion),
		exts, C.uint32_t(len(info.Extensions)), &out))
	if r.Succeeded() {
		C.oxr_load_extensions(out)
	}
	return Instance(out), r
}

func (nativeRuntime) DestroyInstance(inst Instance) Result {
	return res(C.oxr_destroy_instance(C.uint64_t(inst)))
}

func (nativeRuntime) InstanceProperties(inst Instance) (InstanceProperties, Result) {
	var p C.XrInstanceProperties
	r := res(C.oxr_instance_properties(C.uint64_t(inst), &p))
	if r.Failed() {
		return InstanceProperties{}, r
	}
	return InstanceProperties{
		RuntimeName:    C.GoString(&p.runtimeName[0]),
		RuntimeVersion: Version(p.runtimeVersion),
	}, r
}

func (nativeRuntime) GetSystem(inst Instance, ff FormFactor) (SystemID, Result) {
	var id C.XrSystemId
	r := res(C.oxr_get_system(C.uint64_t(inst), C.XrFormFactor(ff), &id))
	return SystemID(id), r
}

func (nativeRuntime) SystemProperties(inst Instance, sys SystemID) (SystemProperties, Result) {
	var p C.XrSystemProperties
	r := res(C.oxr_system_properties(C.uint64_t(inst), C.XrSystemId(sys), &p))
	if r.Failed() {
		return SystemProperties{}, r
	}
	return SystemProperties{
		SystemID:                SystemID(p.systemId),
		VendorID:                uint32(p.vendorId),
		SystemName:              C.GoString(&p.systemName[0]),
		MaxSwapchainImageWidth:  uint32(p.graphicsProperties.maxSwapchainImageWidth),
		MaxSwapchainImageHeight: uint32(p.graphicsProperties.maxSwapchainImageHeight),
		MaxLayerCount:           uint32(p.graphicsProperties.maxLayerCount),
		OrientationTracking:     goBool(p.trackingProperties.orientationTracking),
		PositionTracking:        goBool(p.trackingProperties.positionTracking),
	}, r
}

func (nativeRuntime) GraphicsRequirements(inst Instance, sys SystemID) (GraphicsRequirements, Result) {
	var lo, hi C.XrVersion
	r := res(C.oxr_gles_requirements(C.uint64_t(inst), C.XrSystemId(sys), &lo, &hi))
	return GraphicsRequirements{MinAPIVersionSupported: Version(lo), MaxAPIVersionSupported: Version(hi)}, r
}

func (nativeRuntime) EnumerateViewConfigurationViews(inst Instance, sys SystemID, vt ViewConfigurationType) ([]ViewConfigurationView, Result) {
	var n C.uint32_t
	r := res(C.oxr_view_configuration_views(C.uint64_t(inst), C.XrSystemId(sys), C.XrViewConfigurationType(vt), 0, &n, nil))
	if r.Failed() || n == 0 {
		return nil, r
	}
	views := make([]C.XrViewConfigurationView, n)
	r = res(C.oxr_view_configuration_views(C.uint64_t(inst), C.XrSystemId(sys), C.XrViewConfigurationType(vt), n, &n, &views[0]))
	if r.Failed() {
		return nil, r
	}
	out := make([]ViewConfigurationView, n)
	for i, v := range views[:n] {
		out[i] = ViewConfigurationView{
			RecommendedImageRectWidth:       uint32(v.recommendedImageRectWidth),
			MaxImageRectWidth:               uint32(v.maxImageRectWidth),
			RecommendedImageRectHeight:      uint32(v.recommendedImageRectHeight),
			MaxImageRectHeight:              uint32(v.maxImageRectHeight),
			RecommendedSwapchainSampleCount: uint32(v.recommendedSwapchainSampleCount),
			MaxSwapchainSampleCount:         uint32(v.maxSwapchainSampleCount),
		}
	}
	return out, r
}

func (nativeRuntime) CreateSession(inst Instance, sys SystemID, b GraphicsBinding) (Session, Result) {
	var out C.uint64_t
	r := res(C.oxr_create_session(C.uint64_t(inst), C.XrSystemId(sys),
		C.uintptr_t(b.Display), C.uintptr_t(b.Config), C.uintptr_t(b.Context), &out))
	return Session(out), r
}

func (nativeRuntime) DestroySession(s Session) Result {
	return res(C.oxr_destroy_session(C.uint64_t(s)))
}

func (nativeRuntime) BeginSession(s Session, vt ViewConfigurationType) Result {
	return res(C.oxr_begin_session(C.uint64_t(s), C.XrViewConfigurationType(vt)))
}

func (nativeRuntime) EndSession(s Session) Result { return res(C.oxr_end_session(C.uint64_t(s))) }

func (nativeRuntime) RequestExitSession(s Session) Result {
	return res(C.oxr_request_exit(C.uint64_t(s)))
}

func (nativeRuntime) PollEvent(inst Instance) (Event, Result) {
	var buf C.XrEventDataBuffer
	r := res(C.oxr_poll_event(C.uint64_t(inst), &buf))
	if r != Success {
		return nil, r
	}
	p := unsafe.Pointer(&buf)
	session := Session(C.oxr_event_session(&buf))
	switch buf._type {
	case C.XR_TYPE_EVENT_DATA_SESSION_STATE_CHANGED:
		ev := (*C.XrEventDataSessionStateChanged)(p)
		return EventSessionStateChanged{Session: session, State: SessionState(ev.state), Time: Time(ev.time)}, r
	case C.XR_TYPE_EVENT_DATA_INSTANCE_LOSS_PENDING:
		ev := (*C.XrEventDataInstanceLossPending)(p)
		return EventInstanceLossPending{LossTime: Time(ev.lossTime)}, r
	case C.XR_TYPE_EVENT_DATA_INTERACTION_PROFILE_CHANGED:
		return EventInteractionProfileChanged{Session: session}, r
	case C.XR_TYPE_EVENT_DATA_REFERENCE_SPACE_CHANGE_PENDING:
		ev := (*C.XrEventDataReferenceSpaceChangePending)(p)
		return EventReferenceSpaceChangePending{
			Session:             session,
			ReferenceSpaceType:  ReferenceSpaceType(ev.referenceSpaceType),
			ChangeTime:          Time(ev.changeTime),
			PoseValid:           goBool(ev.poseValid),
			PoseInPreviousSpace: poseFromC(ev.poseInPreviousSpace),
		}, r
	case C.XR_TYPE_EVENT_DATA_EVENTS_LOST:
		ev := (*C.XrEventDataEventsLost)(p)
		return EventEventsLost{LostEventCount: uint32(ev.lostEventCount)}, r
	}
	return EventUnknown{Type: int32(buf._type)}, r
}

func (nativeRuntime) CreateSwapchain(s Session, info SwapchainCreateInfo) (Swapchain, Result) {
	var out C.uint64_t
	r := res(C.oxr_create_swapchain(C.uint64_t(s), C.XrSwapchainUsageFlags(info.UsageFlags), C.int64_t(info.Format),
		C.uint32_t(info.SampleCount), C.uint32_t(info.Width), C.uint32_t(info.Height),
		C.uint32_t(info.FaceCount), C.uint32_t(info.ArraySize), C.uint32_t(info.MipCount), &out))
	return Swapchain(out), r
}

func (nativeRuntime) DestroySwapchain(sc Swapchain) Result {
	return res(C.oxr_destroy_swapchain(C.uint64_t(sc)))
}

func (nativeRuntime) EnumerateSwapchainImages(sc Swapchain) ([]SwapchainImage, Result) {
	var n C.uint32_t
	r := res(C.oxr_swapchain_images(C.uint64_t(sc), 0, &n, nil))
	if r.Failed() || n == 0 {
		return nil, r
	}
	imgs := make([]C.XrSwapchainImageOpenGLESKHR, n)
	if r = res(C.oxr_swapchain_images(C.uint64_t(sc), n, &n, &imgs[0])); r.Failed() {
		return nil, r
	}
	out := make([]SwapchainImage, n)
	for i, img := range imgs[:n] {
		out[i] = SwapchainImage{Image: uint32(img.image)}
	}
	return out, r
}

func (nativeRuntime) AcquireSwapchainImage(sc Swapchain) (uint32, Result) {
	var idx C.uint32_t
	r := res(C.oxr_acquire_image(C.uint64_t(sc), &idx))
	return uint32(idx), r
}

func (nativeRuntime) WaitSwapchainImage(sc Swapchain, timeout Duration) Result {
	return res(C.oxr_wait_image(C.uint64_t(sc), C.XrDuration(timeout)))
}

func (nativeRuntime) ReleaseSwapchainImage(sc Swapchain) Result {
	return res(C.oxr_release_image(C.uint64_t(sc)))
}

func (nativeRuntime) WaitFrame(s Session) (FrameState, Result) {
	var st C.XrFrameState
	r := res(C.oxr_wait_frame(C.uint64_t(s), &st))
	return FrameState{
		PredictedDisplayTime:   Time(st.predictedDisplayTime),
		PredictedDisplayPeriod: Duration(st.predictedDisplayPeriod),
		ShouldRender:           goBool(st.shouldRender),
	}, r
}

func (nativeRuntime) BeginFrame(s Session) Result { return res(C.oxr_begin_frame(C.uint64_t(s))) }

func (nativeRuntime) EndFrame(s Session, info FrameEndInfo) Result {
	var (
		layers     []C.oxr_layer
		views      []C.XrCompositionLayerProjectionView
		swapchains []C.uint64_t
	)
	for _, l := range info.Layers {
		switch l := l.(type) {
		case *CompositionLayerProjection:
			layers = append(layers, C.oxr_layer{
				kind:        C.OXR_LAYER_PROJECTION,
				flags:       C.uint64_t(l.Flags),
				handle:      C.uint64_t(l.Space),
				view_offset: C.uint32_t(len(views)),
				view_count:  C.uint32_t(len(l.Views)),
			})
			for _, v := range l.Views {
				var cv C.XrCompositionLayerProjectionView
				cv.pose = poseToC(v.Pose)
				cv.fov = fovToC(v.Fov)
				cv.subImage.imageRect.offset.x = C.int32_t(v.SubImage.ImageRect.Offset.X)
				cv.subImage.imageRect.offset.y = C.int32_t(v.SubImage.ImageRect.Offset.Y)
				cv.subImage.imageRect.extent.width = C.int32_t(v.SubImage.ImageRect.Extent.Width)
				cv.subImage.imageRect.extent.height = C.int32_t(v.SubImage.ImageRect.Extent.Height)
				cv.subImage.imageArrayIndex = C.uint32_t(v.SubImage.ImageArrayIndex)
				views = append(views, cv)
				swapchains = append(swapchains, C.uint64_t(v.SubImage.Swapchain))
			}
		case *CompositionLayerPassthrough:
			layers = append(layers, C.oxr_layer{
				kind:   C.OXR_LAYER_PASSTHROUGH,
				flags:  C.uint64_t(l.Flags),
				handle: C.uint64_t(l.Layer),
			})
		default:
			return ErrorLayerInvalid
		}
	}
	var (
		lp *C.oxr_layer
		vp *C.XrCompositionLayerProjectionView
		sp *C.uint64_t
	)
	if len(layers) > 0 {
		lp = &layers[0]
	}
	if len(views) > 0 {
		// The runtime-owned swapchain pointers are written into this array,
		// so it lives in C memory.
		vp = (*C.XrCompositionLayerProjectionView)(C.calloc(C.size_t(len(views)), C.size_t(unsafe.Sizeof(views[0]))))
		defer C.free(unsafe.Pointer(vp))
		copy(unsafe.Slice(vp, len(views)), views)
		sp = &swapchains[0]
	}
	return res(C.oxr_end_frame(C.uint64_t(s), C.XrTime(info.DisplayTime), C.XrEnvironmentBlendMode(info.EnvironmentBlendMode),
		lp, C.uint32_t(len(layers)), vp, sp))
}

func (nativeRuntime) LocateViews(s Session, info ViewLocateInfo) (ViewState, []View, Result) {
	var (
		vs C.XrViewState
		n  C.uint32_t
	)
	vt := C.XrViewConfigurationType(info.ViewConfigurationType)
	r := res(C.oxr_locate_views(C.uint64_t(s), vt, C.XrTime(info.DisplayTime), C.uint64_t(info.Space), &vs, 0, &n, nil))
	if r.Failed() || n == 0 {
		return ViewState{}, nil, r
	}
	views := make([]C.XrView, n)
	r = res(C.oxr_locate_views(C.uint64_t(s), vt, C.XrTime(info.DisplayTime), C.uint64_t(info.Space), &vs, n, &n, &views[0]))
	if r.Failed() {
		return ViewState{}, nil, r
	}
	out := make([]View, n)
	for i, v := range views[:n] {
		out[i] = View{Pose: poseFromC(v.pose), Fov: fovFromC(v.fov)}
	}
	return ViewState{Flags: ViewStateFlags(vs.viewStateFlags)}, out, r
}

func (nativeRuntime) CreateReferenceSpace(s Session, t ReferenceSpaceType, pose Pose) (Space, Result) {
	var out C.uint64_t
	r := res(C.oxr_create_reference_space(C.uint64_t(s), C.XrReferenceSpaceType(t), poseToC(pose), &out))
	return Space(out), r
}

func (nativeRuntime) CreateActionSpace(s Session, a Action, sub Path, pose Pose) (Space, Result) {
	var out C.uint64_t
	r := res(C.oxr_create_action_space(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub), poseToC(pose), &out))
	return Space(out), r
}

func (nativeRuntime) LocateSpace(space, base Space, t Time) (SpaceLocation, Result) {
	var loc C.XrSpaceLocation
	r := res(C.oxr_locate_space(C.uint64_t(space), C.uint64_t(base), C.XrTime(t), &loc))
	if r.Failed() {
		return SpaceLocation{}, r
	}
	return SpaceLocation{Flags: SpaceLocationFlags(loc.locationFlags), Pose: poseFromC(loc.pose)}, r
}

func (nativeRuntime) DestroySpace(space Space) Result {
	return res(C.oxr_destroy_space(C.uint64_t(space)))
}

func (nativeRuntime) StringToPath(inst Instance, s string) (Path, Result) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	var p C.XrPath
	r := res(C.oxr_string_to_path(C.uint64_t(inst), cs, &p))
	return Path(p), r
}

func (nativeRuntime) PathToString(inst Instance, p Path) (string, Result) {
	var n C.uint32_t
	if r := res(C.oxr_path_to_string(C.uint64_t(inst), C.XrPath(p), 0, &n, nil)); r.Failed() || n == 0 {
		return "", r
	}
	buf := make([]C.char, n)
	r := res(C.oxr_path_to_string(C.uint64_t(inst), C.XrPath(p), n, &n, &buf[0]))
	if r.Failed() {
		return "", r
	}
	return C.GoString(&buf[0]), r
}

func (nativeRuntime) CreateActionSet(inst Instance, info ActionSetCreateInfo) (ActionSet, Result) {
	name := C.CString(info.Name)
	defer C.free(unsafe.Pointer(name))
	loc := C.CString(info.LocalizedName)
	defer C.free(unsafe.Pointer(loc))
	var out C.uint64_t
	r := res(C.oxr_create_action_set(C.uint64_t(inst), name, loc, C.uint32_t(info.Priority), &out))
	return ActionSet(out), r
}

func (nativeRuntime) CreateAction(set ActionSet, info ActionCreateInfo) (Action, Result) {
	name := C.CString(info.Name)
	defer C.free(unsafe.Pointer(name))
	loc := C.CString(info.LocalizedName)
	defer C.free(unsafe.Pointer(loc))
	subs := make([]C.XrPath, len(info.SubactionPaths))
	for i, p := range info.SubactionPaths {
		subs[i] = C.XrPath(p)
	}
	var sp *C.XrPath
	if len(subs) > 0 {
		sp = &subs[0]
	}
	var out C.uint64_t
	r := res(C.oxr_create_action(C.uint64_t(set), name, loc, C.XrActionType(info.Type), sp, C.uint32_t(len(subs)), &out))
	return Action(out), r
}

func (nativeRuntime) SuggestInteractionProfileBindings(inst Instance, profile Path, bindings []ActionSuggestedBinding) Result {
	if len(bindings) == 0 {
		return ErrorValidationFailure
	}
	actions := make([]C.uint64_t, len(bindings))
	paths := make([]C.XrPath, len(bindings))
	for i, b := range bindings {
		actions[i] = C.uint64_t(b.Action)
		paths[i] = C.XrPath(b.Binding)
	}
	return res(C.oxr_suggest_bindings(C.uint64_t(inst), C.XrPath(profile), &actions[0], &paths[0], C.uint32_t(len(bindings))))
}

func (nativeRuntime) AttachSessionActionSets(s Session, sets []ActionSet) Result {
	if len(sets) == 0 {
		return ErrorValidationFailure
	}
	hs := make([]C.uint64_t, len(sets))
	for i, set := range sets {
		hs[i] = C.uint64_t(set)
	}
	return res(C.oxr_attach_action_sets(C.uint64_t(s), &hs[0], C.uint32_t(len(hs))))
}

func (nativeRuntime) SyncActions(s Session, active []ActiveActionSet) Result {
	if len(active) == 0 {
		return ErrorValidationFailure
	}
	sets := make([]C.uint64_t, len(active))
	subs := make([]C.XrPath, len(active))
	for i, a := range active {
		sets[i] = C.uint64_t(a.ActionSet)
		subs[i] = C.XrPath(a.SubactionPath)
	}
	return res(C.oxr_sync_actions(C.uint64_t(s), &sets[0], &subs[0], C.uint32_t(len(active))))
}

func (nativeRuntime) GetActionStateBoolean(s Session, a Action, sub Path) (ActionStateBoolean, Result) {
	var st C.XrActionStateBoolean
	r := res(C.oxr_state_boolean(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub), &st))
	return ActionStateBoolean{
		CurrentState:         goBool(st.currentState),
		ChangedSinceLastSync: goBool(st.changedSinceLastSync),
		LastChangeTime:       Time(st.lastChangeTime),
		IsActive:             goBool(st.isActive),
	}, r
}

func (nativeRuntime) GetActionStateFloat(s Session, a Action, sub Path) (ActionStateFloat, Result) {
	var st C.XrActionStateFloat
	r := res(C.oxr_state_float(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub), &st))
	return ActionStateFloat{
		CurrentState:         float32(st.currentState),
		ChangedSinceLastSync: goBool(st.changedSinceLastSync),
		LastChangeTime:       Time(st.lastChangeTime),
		IsActive:             goBool(st.isActive),
	}, r
}

func (nativeRuntime) GetActionStateVector2f(s Session, a Action, sub Path) (ActionStateVector2f, Result) {
	var st C.XrActionStateVector2f
	r := res(C.oxr_state_vector2f(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub), &st))
	return ActionStateVector2f{
		CurrentState:         mgl32.Vec2{float32(st.currentState.x), float32(st.currentState.y)},
		ChangedSinceLastSync: goBool(st.changedSinceLastSync),
		LastChangeTime:       Time(st.lastChangeTime),
		IsActive:             goBool(st.isActive),
	}, r
}

func (nativeRuntime) GetActionStatePose(s Session, a Action, sub Path) (ActionStatePose, Result) {
	var st C.XrActionStatePose
	r := res(C.oxr_state_pose(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub), &st))
	return ActionStatePose{IsActive: goBool(st.isActive)}, r
}

func (nativeRuntime) ApplyHapticFeedback(s Session, a Action, sub Path, v HapticVibration) Result {
	return res(C.oxr_apply_haptic(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub),
		C.XrDuration(v.Duration), C.float(v.Frequency), C.float(v.Amplitude)))
}

func (nativeRuntime) StopHapticFeedback(s Session, a Action, sub Path) Result {
	return res(C.oxr_stop_haptic(C.uint64_t(s), C.uint64_t(a), C.XrPath(sub)))
}

func (nativeRuntime) CreateHandTracker(s Session, hand int) (HandTracker, Result) {
	h := C.XrHandEXT(C.XR_HAND_LEFT_EXT)
	if hand == 1 {
		h = C.XR_HAND_RIGHT_EXT
	}
	var out C.uint64_t
	r := res(C.oxr_create_hand_tracker(C.uint64_t(s), h, &out))
	return HandTracker(out), r
}

func (nativeRuntime) DestroyHandTracker(t HandTracker) Result {
	return res(C.oxr_destroy_hand_tracker(C.uint64_t(t)))
}

func (nativeRuntime) LocateHandJoints(t HandTracker, base Space, at Time) (HandJointLocations, Result) {
	var (
		joints [HandJointCount]C.XrHandJointLocationEXT
		active C.XrBool32
	)
	r := res(C.oxr_locate_hand_joints(C.uint64_t(t), C.uint64_t(base), C.XrTime(at), &active, &joints[0], HandJointCount))
	if r.Failed() {
		return HandJointLocations{}, r
	}
	out := HandJointLocations{IsActive: goBool(active)}
	for i, j := range joints {
		out.Joints[i] = HandJointLocation{
			Flags:  SpaceLocationFlags(j.locationFlags),
			Pose:   poseFromC(j.pose),
			Radius: float32(j.radius),
		}
	}
	return out, r
}

func (nativeRuntime) CreatePassthrough(s Session) (Passthrough, Result) {
	var out C.uint64_t
	r := res(C.oxr_create_passthrough(C.uint64_t(s), &out))
	return Passthrough(out), r
}

func (nativeRuntime) DestroyPassthrough(p Passthrough) Result {
	return res(C.oxr_destroy_passthrough(C.uint64_t(p)))
}

func (nativeRuntime) PassthroughStart(p Passthrough) Result {
	return res(C.oxr_passthrough_start(C.uint64_t(p)))
}

func (nativeRuntime) CreatePassthroughLayer(s Session, p Passthrough) (PassthroughLayer, Result) {
	var out C.uint64_t
	r := res(C.oxr_create_passthrough_layer(C.uint64_t(s), C.uint64_t(p), &out))
	return PassthroughLayer(out), r
}

func (nativeRuntime) DestroyPassthroughLayer(l PassthroughLayer) Result {
	return res(C.oxr_destroy_passthrough_layer(C.uint64_t(l)))
}

func (nativeRuntime) PassthroughLayerResume(l PassthroughLayer) Result {
	return res(C.oxr_passthrough_layer_resume(C.uint64_t(l)))
}

var (
	_ Runtime             = nativeRuntime{}
	_ ExtensionEnumerator = nativeRuntime{}
	_ HandTracking        = nativeRuntime{}
	_ PassthroughSupport  = nativeRuntime{}
)
