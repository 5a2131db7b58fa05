package registry

import (
	"fmt"
	"strings"
)

// Action value kinds accepted in profile files.
const (
	KindPose      = "pose"
	KindFloat     = "float"
	KindVector2   = "vector2"
	KindBoolean   = "boolean"
	KindVibration = "vibration"
)

// Hand subaction paths.
const (
	HandLeft  = "/user/hand/left"
	HandRight = "/user/hand/right"
)

// Profile is one interaction-profile binding table: the action set to
// declare, its actions and the input paths suggested for them.
type Profile struct {
	Name      string        `json:"name" yaml:"name" toml:"name"`
	Path      string        `json:"path" yaml:"path" toml:"path"`
	ActionSet ActionSetSpec `json:"action_set" yaml:"action_set" toml:"action_set"`
	Actions   []ActionSpec  `json:"actions" yaml:"actions" toml:"actions"`
	Bindings  []Binding     `json:"bindings" yaml:"bindings" toml:"bindings"`
}

type ActionSetSpec struct {
	Name          string `json:"name" yaml:"name" toml:"name"`
	LocalizedName string `json:"localized_name" yaml:"localized_name" toml:"localized_name"`
	Priority      uint32 `json:"priority" yaml:"priority" toml:"priority"`
}

// ActionSpec declares one action. Hands lists the subaction paths the
// action is scoped to; empty means unscoped.
type ActionSpec struct {
	Name          string   `json:"name" yaml:"name" toml:"name"`
	LocalizedName string   `json:"localized_name" yaml:"localized_name" toml:"localized_name"`
	Kind          string   `json:"kind" yaml:"kind" toml:"kind"`
	Hands         []string `json:"hands,omitempty" yaml:"hands,omitempty" toml:"hands,omitempty"`
}

// Binding pairs an action name with an input or output path. Paths are
// matched literally by the runtime.
type Binding struct {
	Action string `json:"action" yaml:"action" toml:"action"`
	Path   string `json:"path" yaml:"path" toml:"path"`
}

// Action returns the spec named name.
func (p Profile) Action(name string) (ActionSpec, bool) {
	for _, a := range p.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionSpec{}, false
}

// Validate checks that every binding names a declared action and that kinds
// and hand paths are known.
func (p Profile) Validate() error {
	if !strings.HasPrefix(p.Path, "/interaction_profiles/") {
		return fmt.Errorf("profile %q: path %q is not an interaction profile", p.Name, p.Path)
	}
	if p.ActionSet.Name == "" {
		return fmt.Errorf("profile %q: missing action set name", p.Name)
	}
	seen := make(map[string]bool, len(p.Actions))
	for _, a := range p.Actions {
		if a.Name == "" {
			return fmt.Errorf("profile %q: action without name", p.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("profile %q: duplicate action %q", p.Name, a.Name)
		}
		seen[a.Name] = true
		switch a.Kind {
		case KindPose, KindFloat, KindVector2, KindBoolean, KindVibration:
		default:
			return fmt.Errorf("profile %q: action %q has unknown kind %q", p.Name, a.Name, a.Kind)
		}
		for _, h := range a.Hands {
			if h != HandLeft && h != HandRight {
				return fmt.Errorf("profile %q: action %q has unknown hand %q", p.Name, a.Name, h)
			}
		}
	}
	for _, b := range p.Bindings {
		if !seen[b.Action] {
			return fmt.Errorf("profile %q: binding %q references unknown action %q", p.Name, b.Path, b.Action)
		}
		if !strings.HasPrefix(b.Path, "/user/") {
			return fmt.Errorf("profile %q: binding path %q must start with /user/", p.Name, b.Path)
		}
	}
	return nil
}

// OculusTouch is the default controller table. The binding strings are
// matched literally by the runtime and must not change.
func OculusTouch() Profile {
	const (
		inL  = HandLeft + "/input"
		inR  = HandRight + "/input"
		outL = HandLeft + "/output"
		outR = HandRight + "/output"
	)
	both := []string{HandLeft, HandRight}
	return Profile{
		Name: "oculus_touch",
		Path: "/interaction_profiles/oculus/touch_controller",
		ActionSet: ActionSetSpec{
			Name:          "app_action_set",
			LocalizedName: "AppActionSet",
		},
		Actions: []ActionSpec{
			{Name: "grip_pose", LocalizedName: "Grip Pose", Kind: KindPose, Hands: both},
			{Name: "aim_pose", LocalizedName: "Aim Pose", Kind: KindPose, Hands: both},
			{Name: "squeeze", LocalizedName: "Squeeze", Kind: KindFloat, Hands: both},
			{Name: "trigger", LocalizedName: "Trigger", Kind: KindFloat, Hands: both},
			{Name: "thumbstick", LocalizedName: "Thumbstick", Kind: KindVector2, Hands: both},
			{Name: "haptic", LocalizedName: "Haptic", Kind: KindVibration, Hands: both},
			{Name: "click_s", LocalizedName: "Click S", Kind: KindBoolean, Hands: both},
			{Name: "click_a", LocalizedName: "Click A", Kind: KindBoolean},
			{Name: "click_b", LocalizedName: "Click B", Kind: KindBoolean},
			{Name: "click_x", LocalizedName: "Click X", Kind: KindBoolean},
			{Name: "click_y", LocalizedName: "Click Y", Kind: KindBoolean},
			{Name: "menu_quit", LocalizedName: "Menu Quit", Kind: KindBoolean},
		},
		Bindings: []Binding{
			{Action: "grip_pose", Path: inL + "/grip/pose"},
			{Action: "grip_pose", Path: inR + "/grip/pose"},
			{Action: "aim_pose", Path: inL + "/aim/pose"},
			{Action: "aim_pose", Path: inR + "/aim/pose"},
			{Action: "squeeze", Path: inL + "/squeeze/value"},
			{Action: "squeeze", Path: inR + "/squeeze/value"},
			{Action: "trigger", Path: inL + "/trigger/value"},
			{Action: "trigger", Path: inR + "/trigger/value"},
			{Action: "thumbstick", Path: inL + "/thumbstick"},
			{Action: "thumbstick", Path: inR + "/thumbstick"},
			{Action: "haptic", Path: outL + "/haptic"},
			{Action: "haptic", Path: outR + "/haptic"},
			{Action: "click_s", Path: inR + "/thumbstick/click"},
			{Action: "click_s", Path: inL + "/thumbstick/click"},
			{Action: "click_a", Path: inR + "/a/click"},
			{Action: "click_b", Path: inR + "/b/click"},
			{Action: "click_x", Path: inL + "/x/click"},
			{Action: "click_y", Path: inL + "/y/click"},
			{Action: "menu_quit", Path: inL + "/menu/click"},
		},
	}
}
