package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/rs/zerolog"

	"oxrsession/internal/config"
	"oxrsession/internal/session"
	"oxrsession/pkg/types"
)

// setEnv sets key in the process environment and refreshes envy's view of
// it. Both are restored when the test ends.
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Cleanup(envy.Reload)
	t.Setenv(key, value)
	envy.Reload()
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errb bytes.Buffer
	err := Execute(append(args, "--env-file", ""), &out, &errb)
	return out.String(), errb.String(), err
}

// mustContain fails when any of want is missing from got.
func mustContain(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Fatalf("missing %q in:\n%s", w, got)
		}
	}
}

func TestExecute_RunOnSim(t *testing.T) {
	_, logs, err := execute(t, "run", "--frames", "3", "--log-format", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	mustContain(t, logs, `"message":"session finished"`, `"rendered":3`)
}

func TestExecute_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"bad frame mode", []string{"run", "--frames", "1", "--frame-mode", "sometimes"}, "invalid frame mode"},
		{"unknown runtime", []string{"info", "--runtime", "quantum"}, "unknown runtime"},
		{"bad log level", []string{"profiles", "--log-level", "loud"}, "invalid log level"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := execute(t, c.args...)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err=%v want %q", err, c.want)
			}
		})
	}
}

func TestExecute_Info(t *testing.T) {
	out, _, err := execute(t, "info")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	mustContain(t, out,
		"Simulated OpenXR Runtime",
		"XR_KHR_opengl_es_enable",
		"view 0:",
		"view 1:",
		"1440x1584 recommended",
	)
}

func TestExecute_ProfilesTableAndJSON(t *testing.T) {
	out, _, err := execute(t, "profiles")
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	mustContain(t, out, "NAME", "oculus_touch", "/interaction_profiles/oculus/touch_controller")

	out, _, err = execute(t, "profiles", "--json")
	if err != nil {
		t.Fatalf("profiles --json: %v", err)
	}
	var resp types.ProfilesResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(resp.Profiles) != 1 || resp.Profiles[0].Name != "oculus_touch" {
		t.Fatalf("profiles %+v", resp.Profiles)
	}
}

func TestResolveConfig_FlagsOverrideEnv(t *testing.T) {
	setEnv(t, config.EnvRuntime, "native")
	setEnv(t, config.EnvLogLevel, "warn")
	cfg, err := resolveConfig(globalFlags{runtime: "sim"})
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Runtime != "sim" || cfg.LogLevel != "warn" || cfg.FrameMode != "skip" {
		t.Fatalf("resolved runtime=%q level=%q mode=%q", cfg.Runtime, cfg.LogLevel, cfg.FrameMode)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "WARN", "json")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter: %s", buf.String())
	}
	if _, err := newLogger(&buf, "info", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLogPublisher_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	logPublisher{log: log}.Publish(session.Event{
		Name:   session.EventExitRequested,
		Fields: map[string]any{"state": "STOPPING"},
	})
	mustContain(t, buf.String(), `"event":"exit_requested"`, `"state":"STOPPING"`)
}

func TestSimOptions(t *testing.T) {
	cfg := config.Config{}.Defaults()
	cfg.Sim.Views = 1
	cfg.Sim.DisplayHz = 90
	opts, err := simOptions(cfg)
	if err != nil {
		t.Fatalf("simOptions: %v", err)
	}
	if len(opts.Views) != 1 || opts.Views[0].RecommendedImageRectWidth != 1440 {
		t.Fatalf("views %+v", opts.Views)
	}
	if opts.DisplayPeriod != time.Second/90 {
		t.Fatalf("display period=%v", opts.DisplayPeriod)
	}
	if got := opts.GraphicsMin.String(); got != "3.0.0" {
		t.Fatalf("graphics min=%s", got)
	}

	cfg.GLES.RuntimeMax = "three"
	if _, err := simOptions(cfg); err == nil {
		t.Fatalf("expected error for bad version")
	}
}

// simSetup builds the default sim backend, registry and session config.
func simSetup(t *testing.T) (config.Config, backend, session.Config) {
	t.Helper()
	cfg := config.Config{}.Defaults()
	b, err := newBackend(cfg)
	if err != nil {
		t.Fatalf("newBackend: %v", err)
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		t.Fatalf("loadRegistry: %v", err)
	}
	scfg, err := sessionConfig(cfg, b, reg, zerolog.Nop())
	if err != nil {
		t.Fatalf("sessionConfig: %v", err)
	}
	return cfg, b, scfg
}

func TestSessionConfig_Errors(t *testing.T) {
	cfg, b, scfg := simSetup(t)
	if scfg.Profile == nil || scfg.Profile.Name != "oculus_touch" {
		t.Fatalf("default profile %+v", scfg.Profile)
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		t.Fatalf("loadRegistry: %v", err)
	}

	bad := cfg
	bad.Profile = "steam_deck"
	if _, err := sessionConfig(bad, b, reg, zerolog.Nop()); err == nil || !strings.Contains(err.Error(), "unknown profile") {
		t.Fatalf("unknown profile err=%v", err)
	}

	bad = cfg
	bad.ReferenceSpace = "orbit"
	if _, err := sessionConfig(bad, b, reg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for bad reference space")
	}
}

func TestDiagService_FollowsCurrentManager(t *testing.T) {
	cfg, _, scfg := simSetup(t)
	reg, err := loadRegistry(cfg)
	if err != nil {
		t.Fatalf("loadRegistry: %v", err)
	}

	d := &diagService{reg: reg}
	if st := d.Status().State; st != "XR_SESSION_STATE_UNKNOWN" {
		t.Fatalf("state without manager=%s", st)
	}
	if d.Ready() || len(d.Profiles()) == 0 {
		t.Fatalf("ready=%v profiles=%d", d.Ready(), len(d.Profiles()))
	}

	m := session.NewWithConfig(scfg)
	defer m.Close()
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	d.set(m)
	m.PollEvents()
	st := d.Status()
	if !d.Ready() || !st.Running || !strings.HasPrefix(st.State, "XR_SESSION_STATE_") {
		t.Fatalf("ready=%v status %+v", d.Ready(), st)
	}
}
