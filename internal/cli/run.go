package cli

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog"

	"oxrsession/internal/config"
	"oxrsession/internal/httpapi"
	"oxrsession/internal/session"
)

// runOptions are the run command's flags on top of the config file.
type runOptions struct {
	frames      int
	maxRestarts int
}

// traceRenderer logs each view at trace level. Content rendering belongs to
// the host application; the CLI only drives the lifecycle.
type traceRenderer struct {
	log zerolog.Logger
}

func (r traceRenderer) RenderView(ctx session.ViewContext) {
	r.log.Trace().
		Int("view", ctx.Index).
		Uint32("fbo", ctx.Target.Framebuffer).
		Int64("elapsed_us", ctx.ElapsedUS).
		Bool("head_valid", ctx.Head.Valid()).
		Msg("render view")
}

// runSessions brings a session up, ticks it until exit, frame budget or
// cancellation, and repeats the whole bring-up after instance loss up to
// maxRestarts times.
func runSessions(ctx context.Context, cfg config.Config, opts runOptions, log zerolog.Logger) error {
	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	scfg, err := sessionConfig(cfg, b, reg, log)
	if err != nil {
		return err
	}

	diag := &diagService{reg: reg}
	diagDone := make(chan error, 1)
	dctx, stopDiag := context.WithCancel(ctx)
	defer func() {
		stopDiag()
		if cfg.DiagAddr != "" {
			if err := <-diagDone; err != nil {
				log.Error().Err(err).Msg("diagnostics server")
			}
		}
	}()
	if cfg.DiagAddr != "" {
		ln, err := net.Listen("tcp", cfg.DiagAddr)
		if err != nil {
			return err
		}
		httpapi.SetLogger(log)
		httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
		log.Info().Str("addr", ln.Addr().String()).Msg("diagnostics listening")
		go func() { diagDone <- httpapi.Serve(dctx, ln, httpapi.NewMux(diag)) }()
	}

	r := traceRenderer{log: log}
	for attempt := 0; ; attempt++ {
		m := session.NewWithConfig(scfg)
		diag.set(m)
		if err := m.Init(); err != nil {
			_ = m.Close()
			return err
		}
		err := m.Run(ctx, r, opts.frames)
		snap := m.Snapshot()
		cerr := m.Close()
		log.Info().
			Uint64("rendered", snap.Frames.Rendered).
			Uint64("empty", snap.Frames.Empty).
			Uint64("skipped", snap.Frames.Skipped).
			Uint64("failed", snap.Frames.Failed).
			Msg("session finished")

		if session.IsRestartRequested(err) && attempt < opts.maxRestarts {
			log.Warn().Int("attempt", attempt+1).Msg("instance lost, restarting bring-up")
			continue
		}
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err == nil {
			err = cerr
		}
		return err
	}
}
