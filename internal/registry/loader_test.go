package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const yamlProfile = `
name: khr_simple
path: /interaction_profiles/khr/simple_controller
action_set:
  name: simple_set
  localized_name: Simple
actions:
  - name: select
    localized_name: Select
    kind: boolean
    hands: [/user/hand/left, /user/hand/right]
bindings:
  - action: select
    path: /user/hand/left/input/select/click
  - action: select
    path: /user/hand/right/input/select/click
`

func TestOculusTouch_Valid(t *testing.T) {
	p := OculusTouch()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	if len(p.Actions) != 12 || len(p.Bindings) != 19 {
		t.Fatalf("unexpected table size: %d actions, %d bindings", len(p.Actions), len(p.Bindings))
	}
	want := map[string]bool{
		"/user/hand/left/input/grip/pose":         true,
		"/user/hand/right/input/thumbstick/click": true,
		"/user/hand/left/output/haptic":           true,
		"/user/hand/left/input/menu/click":        true,
		"/user/hand/right/input/a/click":          true,
	}
	for _, b := range p.Bindings {
		delete(want, b.Path)
	}
	if len(want) != 0 {
		t.Fatalf("missing bindings: %v", want)
	}
	if a, ok := p.Action("menu_quit"); !ok || len(a.Hands) != 0 {
		t.Fatalf("menu_quit should be unscoped: %+v", a)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]func(p *Profile){
		"bad path":       func(p *Profile) { p.Path = "/user/hand/left" },
		"no set":         func(p *Profile) { p.ActionSet.Name = "" },
		"dup action":     func(p *Profile) { p.Actions = append(p.Actions, p.Actions[0]) },
		"unknown kind":   func(p *Profile) { p.Actions[0].Kind = "haptics" },
		"unknown hand":   func(p *Profile) { p.Actions[0].Hands = []string{"/user/head"} },
		"unknown action": func(p *Profile) { p.Bindings[0].Action = "nope" },
		"binding path":   func(p *Profile) { p.Bindings[0].Path = "input/grip" },
	}
	for name, mutate := range cases {
		p := OculusTouch()
		mutate(&p)
		if err := p.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadDir_AllFormats(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "simple.yaml", yamlProfile)
	writeProfile(t, dir, "pad.json", `{"path":"/interaction_profiles/microsoft/xbox_controller","action_set":{"name":"pad","localized_name":"Pad"},"actions":[{"name":"a","localized_name":"A","kind":"boolean"}],"bindings":[{"action":"a","path":"/user/gamepad/input/a/click"}]}`)
	writeProfile(t, dir, "remote.toml", "path = \"/interaction_profiles/oculus/go_controller\"\n[action_set]\nname = \"remote\"\nlocalized_name = \"Remote\"\n[[actions]]\nname = \"click\"\nlocalized_name = \"Click\"\nkind = \"boolean\"\n[[bindings]]\naction = \"click\"\npath = \"/user/hand/right/input/trackpad/click\"\n")
	writeProfile(t, dir, "notes.txt", "ignored")

	ps, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(ps) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(ps))
	}
	names := []string{ps[0].Name, ps[1].Name, ps[2].Name}
	if strings.Join(names, ",") != "khr_simple,pad,remote" {
		t.Fatalf("unexpected order/names: %v", names)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(writeProfile(t, dir, "x.ini", "a=b")); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := LoadFile(writeProfile(t, dir, "bad.yaml", "path: /interaction_profiles/x\n")); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestRegistry_OverrideBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "touch.yaml", strings.Replace(yamlProfile, "name: khr_simple", "name: oculus_touch", 1))
	r := New()
	if _, ok := r.Get("oculus_touch"); !ok {
		t.Fatalf("built-in missing")
	}
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := r.Get("oculus_touch")
	if p.ActionSet.Name != "simple_set" {
		t.Fatalf("override not applied: %+v", p.ActionSet)
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(r.List()))
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRegistry_Summaries(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "simple.yaml", yamlProfile)
	r := New()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	sums := r.Summaries()
	if len(sums) != 2 {
		t.Fatalf("summaries=%d want 2", len(sums))
	}
	if sums[0].Name != "khr_simple" || sums[0].Actions != 1 || sums[0].Bindings != 2 || sums[0].ActionSet != "simple_set" {
		t.Fatalf("unexpected first summary: %+v", sums[0])
	}
	if sums[1].Name != "oculus_touch" || sums[1].Actions != 12 || sums[1].Bindings != 19 {
		t.Fatalf("unexpected touch summary: %+v", sums[1])
	}
}
