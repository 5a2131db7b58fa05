package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"oxrsession/internal/common/fsutil"
)

// Config holds runtime parameters for the session host.
// Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	AppName        string `json:"app_name" yaml:"app_name" toml:"app_name"`
	Runtime        string `json:"runtime" yaml:"runtime" toml:"runtime"`
	FrameMode      string `json:"frame_mode" yaml:"frame_mode" toml:"frame_mode"`
	ReferenceSpace string `json:"reference_space" yaml:"reference_space" toml:"reference_space"`
	// ImageWaitTimeoutMS bounds swapchain image waits; 0 waits forever.
	ImageWaitTimeoutMS int `json:"image_wait_timeout_ms" yaml:"image_wait_timeout_ms" toml:"image_wait_timeout_ms"`
	MaxRestarts        int `json:"max_restarts" yaml:"max_restarts" toml:"max_restarts"`

	HandTracking bool `json:"hand_tracking" yaml:"hand_tracking" toml:"hand_tracking"`
	Passthrough  bool `json:"passthrough" yaml:"passthrough" toml:"passthrough"`

	ProfilesDir string `json:"profiles_dir" yaml:"profiles_dir" toml:"profiles_dir"`
	Profile     string `json:"profile" yaml:"profile" toml:"profile"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	DiagAddr    string   `json:"diag_addr" yaml:"diag_addr" toml:"diag_addr"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	Sim  Sim  `json:"sim" yaml:"sim" toml:"sim"`
	GLES GLES `json:"gles" yaml:"gles" toml:"gles"`
}

// Sim shapes the simulated runtime.
type Sim struct {
	DisplayHz int   `json:"display_hz" yaml:"display_hz" toml:"display_hz"`
	Views     int   `json:"views" yaml:"views" toml:"views"`
	Width     int32 `json:"width" yaml:"width" toml:"width"`
	Height    int32 `json:"height" yaml:"height" toml:"height"`
	Images    int   `json:"images" yaml:"images" toml:"images"`
	// Pace makes frame waits sleep for the display period.
	Pace bool `json:"pace" yaml:"pace" toml:"pace"`
}

// GLES describes the local context version and the range the simulated
// runtime accepts, as "major.minor".
type GLES struct {
	Version    string `json:"version" yaml:"version" toml:"version"`
	RuntimeMin string `json:"runtime_min" yaml:"runtime_min" toml:"runtime_min"`
	RuntimeMax string `json:"runtime_max" yaml:"runtime_max" toml:"runtime_max"`
}

// Environment variables read by FromEnv.
const (
	EnvRuntime     = "OXR_RUNTIME"
	EnvFrameMode   = "OXR_FRAME_MODE"
	EnvLogLevel    = "OXR_LOG_LEVEL"
	EnvDiagAddr    = "OXR_DIAG_ADDR"
	EnvProfilesDir = "OXR_PROFILES_DIR"
	EnvCORSOrigins = "OXR_CORS_ORIGINS"
)

// Defaults fills every unset field.
func (c Config) Defaults() Config {
	if c.AppName == "" {
		c.AppName = "OXR_GLES_APP"
	}
	if c.Runtime == "" {
		c.Runtime = "sim"
	}
	if c.FrameMode == "" {
		c.FrameMode = "skip"
	}
	if c.ReferenceSpace == "" {
		c.ReferenceSpace = "local"
	}
	if c.MaxRestarts < 0 {
		c.MaxRestarts = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
	if c.Sim.DisplayHz <= 0 {
		c.Sim.DisplayHz = 72
	}
	if c.Sim.Views <= 0 {
		c.Sim.Views = 2
	}
	if c.Sim.Width <= 0 {
		c.Sim.Width = 1440
	}
	if c.Sim.Height <= 0 {
		c.Sim.Height = 1584
	}
	if c.Sim.Images <= 0 {
		c.Sim.Images = 3
	}
	if c.GLES.Version == "" {
		c.GLES.Version = "3.1"
	}
	if c.GLES.RuntimeMin == "" {
		c.GLES.RuntimeMin = "3.0"
	}
	if c.GLES.RuntimeMax == "" {
		c.GLES.RuntimeMax = "3.2"
	}
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv overlays the OXR_* environment variables onto cfg. Empty values
// are ignored.
func FromEnv(cfg Config) Config {
	for key, dst := range map[string]*string{
		EnvRuntime:     &cfg.Runtime,
		EnvFrameMode:   &cfg.FrameMode,
		EnvLogLevel:    &cfg.LogLevel,
		EnvDiagAddr:    &cfg.DiagAddr,
		EnvProfilesDir: &cfg.ProfilesDir,
	} {
		if v := strings.TrimSpace(envy.Get(key, "")); v != "" {
			*dst = v
		}
	}
	if origins := splitCSV(envy.Get(EnvCORSOrigins, "")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	return cfg
}

// splitCSV splits a comma-separated list, dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// startupEnv returns the environment the process was started with. envy
// overloads ./.env into the process environment during init; the kernel's
// copy in /proc is not affected. ok is false where /proc is unavailable.
var startupEnv = func() (map[string]string, bool) {
	b, err := os.ReadFile("/proc/self/environ")
	if err != nil {
		return nil, false
	}
	env := make(map[string]string)
	for _, kv := range strings.Split(string(b), "\x00") {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env, true
}

// LoadDotEnv reads KEY=VALUE pairs from a .env file into the environment.
// Precedence, highest first: the process environment at startup, then the
// file. Values envy loaded from ./.env during init are put back to their
// startup values first. A missing file is not an error. Call it before
// FromEnv.
func LoadDotEnv(path string) error {
	startup, known := startupEnv()
	if known {
		if err := restoreStartupEnv(startup); err != nil {
			return err
		}
	}
	if path == "" || !fsutil.PathExists(path) {
		return nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	for k, v := range vals {
		if known {
			if _, set := startup[k]; set {
				continue
			}
		} else if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := envy.MustSet(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// restoreStartupEnv undoes envy's init-time overload of ./.env for keys
// that were already set when the process started.
func restoreStartupEnv(startup map[string]string) error {
	if !fsutil.PathExists(".env") {
		return nil
	}
	implicit, err := godotenv.Read(".env")
	if err != nil {
		// envy skips an unreadable ./.env as well.
		return nil
	}
	for k := range implicit {
		v, set := startup[k]
		if !set || os.Getenv(k) == v {
			continue
		}
		if err := envy.MustSet(k, v); err != nil {
			return fmt.Errorf("restore %s: %w", k, err)
		}
	}
	return nil
}
