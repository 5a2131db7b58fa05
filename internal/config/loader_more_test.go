package config

import (
	"os"
	"runtime"
	"testing"

	"github.com/gobuffalo/envy"
)

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.yaml", "runtime: sim\n: broken\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected YAML unmarshal error")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.json", `{ "runtime": "sim", "frame_mode": }`)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected JSON unmarshal error")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.toml", "runtime=sim\nframe_mode\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected TOML unmarshal error")
	}
}

// setEnv sets key in the process environment and refreshes envy's view of
// it. Both are restored when the test ends.
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Cleanup(envy.Reload)
	t.Setenv(key, value)
	envy.Reload()
}

// unsetOnCleanup removes key after the test for variables the code under
// test sets itself.
func unsetOnCleanup(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
		envy.Reload()
	})
}

// withStartupEnv replaces the startup environment snapshot for one test.
func withStartupEnv(t *testing.T, env map[string]string, known bool) {
	t.Helper()
	orig := startupEnv
	startupEnv = func() (map[string]string, bool) { return env, known }
	t.Cleanup(func() { startupEnv = orig })
}

// chdir moves the test into dir for its duration.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestFromEnv_Overlay(t *testing.T) {
	setEnv(t, EnvRuntime, "native")
	setEnv(t, EnvFrameMode, " empty ")
	setEnv(t, EnvDiagAddr, ":9100")
	cfg := FromEnv(Config{Runtime: "sim", LogLevel: "warn"})
	if cfg.Runtime != "native" || cfg.FrameMode != "empty" || cfg.DiagAddr != ":9100" {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unset variable overwrote log level: %q", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "app.env", EnvProfilesDir+"=/from/dotenv\n"+EnvLogLevel+"=debug\n")
	setEnv(t, EnvLogLevel, "error")
	unsetOnCleanup(t, EnvProfilesDir)
	_ = os.Unsetenv(EnvProfilesDir)
	withStartupEnv(t, nil, false)

	if err := LoadDotEnv(p); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg := FromEnv(Config{})
	if cfg.ProfilesDir != "/from/dotenv" {
		t.Fatalf("profiles dir=%q", cfg.ProfilesDir)
	}
	if got := os.Getenv(EnvProfilesDir); got != "/from/dotenv" {
		t.Fatalf("process env not updated: %q", got)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("existing variable overridden: %q", cfg.LogLevel)
	}
}

func TestLoadDotEnv_StartupEnvBeatsWorkingDirDotEnv(t *testing.T) {
	d := t.TempDir()
	writeTempFile(t, d, ".env", EnvLogLevel+"=debug\n"+EnvProfilesDir+"=/from/dotenv\n")
	chdir(t, d)
	unsetOnCleanup(t, EnvProfilesDir)
	_ = os.Unsetenv(EnvProfilesDir)
	// What envy's init leaves behind after overloading ./.env.
	setEnv(t, EnvLogLevel, "debug")
	withStartupEnv(t, map[string]string{EnvLogLevel: "error"}, true)

	if err := LoadDotEnv(".env"); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg := FromEnv(Config{})
	if cfg.LogLevel != "error" {
		t.Fatalf("log level=%q want the startup value", cfg.LogLevel)
	}
	if got := os.Getenv(EnvLogLevel); got != "error" {
		t.Fatalf("process env=%q want error", got)
	}
	if cfg.ProfilesDir != "/from/dotenv" {
		t.Fatalf("profiles dir=%q", cfg.ProfilesDir)
	}
}

func TestLoadDotEnv_RestoresEvenWithoutFile(t *testing.T) {
	d := t.TempDir()
	writeTempFile(t, d, ".env", EnvLogLevel+"=debug\n")
	chdir(t, d)
	setEnv(t, EnvLogLevel, "debug")
	withStartupEnv(t, map[string]string{EnvLogLevel: "warn"}, true)

	if err := LoadDotEnv(""); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := FromEnv(Config{}).LogLevel; got != "warn" {
		t.Fatalf("log level=%q want warn", got)
	}
}

func TestStartupEnv_ReadsProc(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("/proc/self/environ is linux only")
	}
	env, ok := startupEnv()
	if !ok {
		t.Fatalf("startup environment unavailable")
	}
	if len(os.Environ()) > 0 && len(env) == 0 {
		t.Fatalf("empty startup environment")
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(t.TempDir() + "/nope.env"); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Fatalf("empty path should be ignored: %v", err)
	}
}
