package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"oxrsession/internal/config"
	"oxrsession/internal/registry"
	"oxrsession/internal/session"
	"oxrsession/internal/xr"
)

// loadRegistry returns the built-in tables plus any found in ProfilesDir.
func loadRegistry(cfg config.Config) (*registry.Registry, error) {
	reg := registry.New()
	if cfg.ProfilesDir != "" {
		if err := reg.LoadDir(cfg.ProfilesDir); err != nil {
			return nil, fmt.Errorf("profiles: %w", err)
		}
	}
	return reg, nil
}

// sessionConfig translates the file configuration into session tunables.
func sessionConfig(cfg config.Config, b backend, reg *registry.Registry, log zerolog.Logger) (session.Config, error) {
	mode, ok := session.ParseFrameMode(cfg.FrameMode)
	if !ok {
		return session.Config{}, fmt.Errorf("invalid frame mode %q: want skip|empty", cfg.FrameMode)
	}
	space, err := xr.ParseReferenceSpace(cfg.ReferenceSpace)
	if err != nil {
		return session.Config{}, err
	}
	name := cfg.Profile
	if name == "" {
		name = registry.OculusTouch().Name
	}
	prof, ok := reg.Get(name)
	if !ok {
		return session.Config{}, fmt.Errorf("unknown profile %q", name)
	}
	return session.Config{
		AppName:          cfg.AppName,
		Runtime:          b.rt,
		Allocator:        b.alloc,
		Context:          b.ctx,
		FrameMode:        mode,
		AppSpace:         space,
		Profile:          &prof,
		ImageWaitTimeout: time.Duration(cfg.ImageWaitTimeoutMS) * time.Millisecond,
		HandTracking:     cfg.HandTracking,
		Passthrough:      cfg.Passthrough,
		Logger:           log,
		Publisher:        logPublisher{log: log},
	}, nil
}
