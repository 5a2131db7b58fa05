package types

// Profile summarizes one interaction-profile binding table.
type Profile struct {
	// Registry name of the table.
	// example: oculus_touch
	Name string `json:"name" example:"oculus_touch"`
	// Interaction profile path the bindings are suggested for.
	// example: /interaction_profiles/oculus/touch_controller
	Path string `json:"path" example:"/interaction_profiles/oculus/touch_controller"`
	// Action set name.
	// example: app_action_set
	ActionSet string `json:"action_set" example:"app_action_set"`
	// Number of declared actions.
	// example: 12
	Actions int `json:"actions" example:"12"`
	// Number of suggested bindings.
	// example: 19
	Bindings int `json:"bindings" example:"19"`
}
