package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "runtime: native\nframe_mode: empty\nimage_wait_timeout_ms: 50\nhand_tracking: true\ncors_origins: [\"http://a\"]\nsim:\n  display_hz: 90\n  images: 4\ngles:\n  version: \"3.2\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Runtime != "native" || cfg.FrameMode != "empty" || cfg.ImageWaitTimeoutMS != 50 || !cfg.HandTracking {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Sim.DisplayHz != 90 || cfg.Sim.Images != 4 || cfg.GLES.Version != "3.2" || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected nested cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"app_name":"demo","diag_addr":":7070","passthrough":true,"sim":{"width":800,"height":600}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "demo" || cfg.DiagAddr != ":7070" || !cfg.Passthrough || cfg.Sim.Width != 800 || cfg.Sim.Height != 600 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "reference_space=\"stage\"\nmax_restarts=3\nprofiles_dir=\"/p\"\n[sim]\nviews=1\npace=true\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReferenceSpace != "stage" || cfg.MaxRestarts != 3 || cfg.ProfilesDir != "/p" || cfg.Sim.Views != 1 || !cfg.Sim.Pace {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Config{}.Defaults()
	if cfg.AppName != "OXR_GLES_APP" || cfg.Runtime != "sim" || cfg.FrameMode != "skip" || cfg.ReferenceSpace != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Sim.DisplayHz != 72 || cfg.Sim.Views != 2 || cfg.Sim.Width != 1440 || cfg.Sim.Height != 1584 || cfg.Sim.Images != 3 {
		t.Fatalf("unexpected sim defaults: %+v", cfg.Sim)
	}
	if cfg.GLES.Version != "3.1" || cfg.GLES.RuntimeMin != "3.0" || cfg.GLES.RuntimeMax != "3.2" {
		t.Fatalf("unexpected gles defaults: %+v", cfg.GLES)
	}
	kept := Config{Runtime: "native", Sim: Sim{Images: 5}}.Defaults()
	if kept.Runtime != "native" || kept.Sim.Images != 5 {
		t.Fatalf("defaults overwrote explicit values: %+v", kept)
	}
}
