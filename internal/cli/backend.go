package cli

import (
	"fmt"
	"time"

	"oxrsession/internal/config"
	"oxrsession/internal/gfx"
	"oxrsession/internal/xr"
	"oxrsession/internal/xr/simrt"
)

// backend is the runtime and graphics pair a session is brought up on. It
// outlives individual sessions so restarts reconnect to the same runtime.
type backend struct {
	name  string
	rt    xr.Runtime
	alloc gfx.Allocator
	ctx   gfx.ContextProvider
}

func newBackend(cfg config.Config) (backend, error) {
	switch cfg.Runtime {
	case "sim":
		opts, err := simOptions(cfg)
		if err != nil {
			return backend{}, err
		}
		v, err := xr.ParseVersion(cfg.GLES.Version)
		if err != nil {
			return backend{}, fmt.Errorf("gles version: %w", err)
		}
		return backend{
			name:  "sim",
			rt:    simrt.New(opts),
			alloc: gfx.NewHeadless(v),
			ctx:   gfx.StaticContext{DisplayHandle: 1, ConfigHandle: 2, ContextHandle: 3},
		}, nil
	case "native":
		rt, err := xr.NewNativeRuntime()
		if err != nil {
			return backend{}, err
		}
		alloc, err := gfx.NewGLES()
		if err != nil {
			return backend{}, err
		}
		ctx, err := gfx.CurrentContext()
		if err != nil {
			return backend{}, err
		}
		return backend{name: "native", rt: rt, alloc: alloc, ctx: ctx}, nil
	}
	return backend{}, fmt.Errorf("unknown runtime %q: want sim|native", cfg.Runtime)
}

// simOptions maps the sim section of the config onto the simulated runtime.
func simOptions(cfg config.Config) (simrt.Options, error) {
	lo, err := xr.ParseVersion(cfg.GLES.RuntimeMin)
	if err != nil {
		return simrt.Options{}, fmt.Errorf("gles runtime_min: %w", err)
	}
	hi, err := xr.ParseVersion(cfg.GLES.RuntimeMax)
	if err != nil {
		return simrt.Options{}, fmt.Errorf("gles runtime_max: %w", err)
	}
	w, h := uint32(cfg.Sim.Width), uint32(cfg.Sim.Height)
	view := xr.ViewConfigurationView{
		RecommendedImageRectWidth:       w,
		MaxImageRectWidth:               2 * w,
		RecommendedImageRectHeight:      h,
		MaxImageRectHeight:              2 * h,
		RecommendedSwapchainSampleCount: 1,
		MaxSwapchainSampleCount:         4,
	}
	views := make([]xr.ViewConfigurationView, cfg.Sim.Views)
	for i := range views {
		views[i] = view
	}
	return simrt.Options{
		DisplayPeriod: time.Second / time.Duration(cfg.Sim.DisplayHz),
		Pace:          cfg.Sim.Pace,
		Views:         views,
		ImageCount:    cfg.Sim.Images,
		GraphicsMin:   lo,
		GraphicsMax:   hi,
	}, nil
}
