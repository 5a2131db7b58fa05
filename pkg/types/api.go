package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: session not running
	Error string `json:"error" example:"session not running"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}

// FrameStats counts ticks by outcome since bring-up.
type FrameStats struct {
	// Frames that submitted a projection layer.
	// example: 7200
	Rendered uint64 `json:"rendered" example:"7200"`
	// Frames ended without a projection layer.
	// example: 12
	Empty uint64 `json:"empty" example:"12"`
	// Ticks that issued no frame calls because the session was not running.
	// example: 40
	Skipped uint64 `json:"skipped" example:"40"`
	// Ticks where wait-frame or begin-frame failed.
	// example: 0
	Failed uint64 `json:"failed" example:"0"`
	// Swapchain image waits that hit the configured timeout.
	// example: 0
	ImageTimeouts uint64 `json:"image_timeouts" example:"0"`
}

// ViewStatus describes one view surface.
type ViewStatus struct {
	// View index in the view configuration.
	// example: 0
	Index int `json:"index" example:"0"`
	// Swapchain image width in pixels.
	// example: 1440
	Width int32 `json:"width" example:"1440"`
	// Swapchain image height in pixels.
	// example: 1584
	Height int32 `json:"height" example:"1584"`
	// Number of runtime-owned images in the swapchain.
	// example: 3
	Images int `json:"images" example:"3"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Latest session state reported by the runtime.
	// example: XR_SESSION_STATE_FOCUSED
	State string `json:"state" example:"XR_SESSION_STATE_FOCUSED"`
	// Whether the runtime has granted frame production.
	// example: true
	Running bool `json:"running" example:"true"`
	// Whether the session asked the application to exit.
	ExitRequested bool `json:"exit_requested"`
	// Whether bring-up must be repeated against a fresh instance.
	RestartRequested bool `json:"restart_requested"`
	// Runtime name reported at instance creation.
	// example: Oculus
	Runtime string `json:"runtime" example:"Oculus"`
	// Runtime version as major.minor.patch.
	// example: 1.0.34
	RuntimeVersion string `json:"runtime_version" example:"1.0.34"`
	// HMD system name.
	// example: Oculus Quest2
	System string `json:"system" example:"Oculus Quest2"`
	// Active GLES context version.
	// example: 3.1.0
	GraphicsVersion string `json:"graphics_version" example:"3.1.0"`
	// Frame mode used while the session is not running (skip or empty).
	// example: skip
	FrameMode string `json:"frame_mode" example:"skip"`
	// Enabled instance extensions.
	Extensions []string `json:"extensions"`
	// Optional capabilities and whether they were enabled.
	Capabilities map[string]bool `json:"capabilities"`
	// Per-view surfaces.
	Views []ViewStatus `json:"views"`
	// Frame counters.
	Frames FrameStats `json:"frames"`
	// Last predicted display time in nanoseconds.
	// example: 1000000000
	LastDisplayTime int64 `json:"last_display_time" example:"1000000000"`
	// Events the runtime reported as dropped from its queue.
	// example: 0
	EventsLost uint64 `json:"events_lost" example:"0"`
	// Last failed runtime call (if any).
	// example: xrWaitFrame: XR_ERROR_SESSION_NOT_RUNNING
	LastError string `json:"last_error,omitempty" example:"xrWaitFrame: XR_ERROR_SESSION_NOT_RUNNING"`
	// Uptime of the manager in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ProfilesResponse wraps the binding profiles returned by GET /profiles.
type ProfilesResponse struct {
	// Known interaction profiles.
	Profiles []Profile `json:"profiles"`
}
