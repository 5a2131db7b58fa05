package xr

import "github.com/go-gl/mathgl/mgl32"

// ActionType is the value kind of an action.
type ActionType int32

const (
	ActionTypeBooleanInput    ActionType = 1
	ActionTypeFloatInput      ActionType = 2
	ActionTypeVector2fInput   ActionType = 3
	ActionTypePoseInput       ActionType = 4
	ActionTypeVibrationOutput ActionType = 100
)

func (t ActionType) String() string {
	switch t {
	case ActionTypeBooleanInput:
		return "boolean"
	case ActionTypeFloatInput:
		return "float"
	case ActionTypeVector2fInput:
		return "vector2"
	case ActionTypePoseInput:
		return "pose"
	case ActionTypeVibrationOutput:
		return "vibration"
	}
	return "unknown"
}

// ActionSetCreateInfo describes an action set.
type ActionSetCreateInfo struct {
	Name          string
	LocalizedName string
	Priority      uint32
}

// ActionCreateInfo describes one action.
type ActionCreateInfo struct {
	Name           string
	LocalizedName  string
	Type           ActionType
	SubactionPaths []Path
}

// ActionSuggestedBinding pairs an action with an input or output path.
type ActionSuggestedBinding struct {
	Action  Action
	Binding Path
}

// ActiveActionSet selects an attached set for SyncActions.
type ActiveActionSet struct {
	ActionSet     ActionSet
	SubactionPath Path
}

// ActionStateBoolean is the state of a boolean action.
type ActionStateBoolean struct {
	CurrentState         bool
	ChangedSinceLastSync bool
	LastChangeTime       Time
	IsActive             bool
}

// ActionStateFloat is the state of a float action.
type ActionStateFloat struct {
	CurrentState         float32
	ChangedSinceLastSync bool
	LastChangeTime       Time
	IsActive             bool
}

// ActionStateVector2f is the state of a 2D axis action.
type ActionStateVector2f struct {
	CurrentState         mgl32.Vec2
	ChangedSinceLastSync bool
	LastChangeTime       Time
	IsActive             bool
}

// ActionStatePose is the state of a pose action.
type ActionStatePose struct {
	IsActive bool
}

// HapticVibration describes one vibration pulse.
type HapticVibration struct {
	Duration  Duration
	Frequency float32
	Amplitude float32
}
