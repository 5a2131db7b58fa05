package session

import (
	"time"

	"oxrsession/internal/gfx"
	"oxrsession/internal/xr"
)

// ViewContext is everything a renderer needs to draw one view. The target is
// already bound when RenderView is called.
type ViewContext struct {
	Index       int
	Target      gfx.RenderTarget
	Viewport    xr.Rect2Di
	View        xr.View
	DisplayTime xr.Time
	// ElapsedUS is microseconds since the first rendered display time.
	ElapsedUS int64

	Stage xr.SpaceLocation
	Head  xr.SpaceLocation
	Input InputSnapshot
	Hands [HandCount]xr.HandJointLocations
}

// Renderer draws one view into the bound target. It must leave the
// framebuffer binding alone; the orchestrator rebinds for every view.
type Renderer interface {
	RenderView(ctx ViewContext)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx ViewContext)

func (f RendererFunc) RenderView(ctx ViewContext) { f(ctx) }

// FrameOutcome classifies one tick.
type FrameOutcome string

const (
	// FrameRendered submitted a projection layer.
	FrameRendered FrameOutcome = "rendered"
	// FrameEmpty ended the frame without a projection layer.
	FrameEmpty FrameOutcome = "empty"
	// FrameSkipped issued no frame calls.
	FrameSkipped FrameOutcome = "skipped"
	// FrameFailed could not open a frame; nothing needed ending.
	FrameFailed FrameOutcome = "failed"
)

// FrameResult describes what one RenderFrame call did.
type FrameResult struct {
	Outcome     FrameOutcome
	DisplayTime xr.Time
	Views       int
	Layers      int
	TimedOut    bool
}

// FrameCounters accumulate frame outcomes for Status.
type FrameCounters struct {
	Rendered      uint64
	Empty         uint64
	Skipped       uint64
	Failed        uint64
	ImageTimeouts uint64
}

func (c *FrameCounters) add(r FrameResult) {
	switch r.Outcome {
	case FrameRendered:
		c.Rendered++
	case FrameEmpty:
		c.Empty++
	case FrameSkipped:
		c.Skipped++
	case FrameFailed:
		c.Failed++
	}
	if r.TimedOut {
		c.ImageTimeouts++
	}
}

// BeginFrame blocks in wait-frame until the runtime paces the next frame,
// then begins it. begun is false when either call failed, in which case no
// EndFrame may follow.
func (m *Manager) BeginFrame() (fs xr.FrameState, begun bool) {
	start := time.Now()
	fs, res := m.rt.WaitFrame(m.session)
	frameWaitSeconds.Observe(time.Since(start).Seconds())
	if m.chk.check(res, "xrWaitFrame") != nil {
		return fs, false
	}
	if m.chk.check(m.rt.BeginFrame(m.session), "xrBeginFrame") != nil {
		return fs, false
	}
	return fs, true
}

// EndFrame submits layers, back to front, for displayTime.
func (m *Manager) EndFrame(displayTime xr.Time, layers []xr.CompositionLayer) error {
	return m.chk.check(m.rt.EndFrame(m.session, xr.FrameEndInfo{
		DisplayTime:          displayTime,
		EnvironmentBlendMode: m.cfg.BlendMode,
		Layers:               layers,
	}), "xrEndFrame")
}

// LocateViews returns one pose and field of view per view at displayTime in
// the app space. Without valid position and orientation it returns no views;
// that is not an error.
func (m *Manager) LocateViews(displayTime xr.Time) []xr.View {
	vs, views, res := m.rt.LocateViews(m.session, xr.ViewLocateInfo{
		ViewConfigurationType: xr.ViewConfigurationPrimaryStereo,
		DisplayTime:           displayTime,
		Space:                 m.spaces.App,
	})
	if m.chk.check(res, "xrLocateViews") != nil {
		return nil
	}
	if !vs.PoseValid() {
		return nil
	}
	if len(views) > len(m.surfaces) {
		views = views[:len(m.surfaces)]
	}
	return views
}

// RenderFrame runs one frame: wait and begin, locate, render each view and
// end with the assembled layers. Every begun frame is ended exactly once.
func (m *Manager) RenderFrame(r Renderer) FrameResult {
	res := m.renderFrame(r)
	framesTotal.WithLabelValues(string(res.Outcome)).Inc()
	m.mu.Lock()
	m.frames.add(res)
	if res.DisplayTime != 0 {
		m.lastTime = res.DisplayTime
	}
	m.mu.Unlock()
	return res
}

func (m *Manager) renderFrame(r Renderer) FrameResult {
	running := m.sm.IsRunning()
	if !running && m.cfg.FrameMode == FrameModeSkip {
		return FrameResult{Outcome: FrameSkipped}
	}

	fs, begun := m.BeginFrame()
	if !begun {
		return FrameResult{Outcome: FrameFailed}
	}
	t := fs.PredictedDisplayTime
	result := FrameResult{Outcome: FrameEmpty, DisplayTime: t}

	if !running || !fs.ShouldRender {
		_ = m.EndFrame(t, nil)
		return result
	}

	if m.firstTime == 0 {
		m.firstTime = t
	}
	elapsed := int64(t-m.firstTime) / 1000

	input := m.PollActions(t)
	stage := m.locate(m.spaces.Stage, t)
	head := m.locate(m.spaces.View, t)
	hands := m.locateHands(t)

	var layers []xr.CompositionLayer
	var projFlags xr.CompositionLayerFlags
	if pt := m.passthroughLayer(); pt != nil {
		layers = append(layers, pt)
		projFlags |= xr.LayerBlendTextureSourceAlpha
	}

	views := m.LocateViews(t)
	result.Views = len(views)
	if len(views) > 0 {
		proj, err := m.renderViews(r, views, ViewContext{
			DisplayTime: t,
			ElapsedUS:   elapsed,
			Stage:       stage,
			Head:        head,
			Input:       input,
			Hands:       hands,
		})
		switch {
		case err == nil:
			layers = append(layers, &xr.CompositionLayerProjection{
				Flags: projFlags,
				Space: m.spaces.App,
				Views: proj,
			})
			result.Outcome = FrameRendered
		case IsImageWaitTimeout(err):
			result.TimedOut = true
		}
	}

	result.Layers = len(layers)
	_ = m.EndFrame(t, layers)
	return result
}

// renderViews acquires, draws and releases every view in order. It returns
// the first acquire error; views drawn before it were released.
func (m *Manager) renderViews(r Renderer, views []xr.View, base ViewContext) ([]xr.CompositionLayerProjectionView, error) {
	proj := make([]xr.CompositionLayerProjectionView, 0, len(views))
	for i, view := range views {
		surface := m.surfaces[i]
		target, sub, err := surface.Acquire(m.cfg.ImageWaitTimeout)
		if err != nil {
			if IsImageWaitTimeout(err) {
				m.log.Warn().Err(err).Int("view", i).Msg("skipping projection layer")
				m.pub.Publish(Event{Name: EventImageWaitStall, Fields: map[string]any{"view": i}})
			}
			return nil, err
		}

		m.alloc.Bind(target)
		ctx := base
		ctx.Index = i
		ctx.Target = target
		ctx.Viewport = sub.ImageRect
		ctx.View = view
		if r != nil {
			r.RenderView(ctx)
		}
		m.alloc.Unbind()
		surface.Release()

		proj = append(proj, xr.CompositionLayerProjectionView{
			Pose:     view.Pose,
			Fov:      view.Fov,
			SubImage: sub,
		})
	}
	return proj, nil
}
