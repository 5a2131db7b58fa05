package session

import (
	"context"
	"time"
)

// idleBackoff paces the loop while frames are skipped, standing in for the
// host looper blocking until the next lifecycle event.
const idleBackoff = 10 * time.Millisecond

// Tick is one cooperative step: drain events, then produce at most one frame.
// It reports the frame result and whether the caller should stop.
func (m *Manager) Tick(r Renderer) (FrameResult, bool) {
	exit, restart := m.PollEvents()
	if exit || restart {
		return FrameResult{Outcome: FrameSkipped}, true
	}
	return m.RenderFrame(r), false
}

// Run ticks until the session exits, maxFrames ticks have run (0 means no
// limit) or ctx is cancelled. On cancellation it requests a clean session
// exit and keeps ticking until the runtime confirms. It returns
// ErrRestartRequested when the instance was lost.
func (m *Manager) Run(ctx context.Context, r Renderer, maxFrames int) error {
	cancelled := false
	for n := 0; maxFrames <= 0 || n < maxFrames; n++ {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
			if !m.sm.IsRunning() {
				return ctx.Err()
			}
			_ = m.RequestExit()
		}
		res, stop := m.Tick(r)
		if stop {
			if m.sm.RestartRequested() {
				return ErrRestartRequested
			}
			return nil
		}
		if res.Outcome == FrameSkipped {
			select {
			case <-ctx.Done():
				if !m.sm.IsRunning() {
					return ctx.Err()
				}
			case <-time.After(idleBackoff):
			}
		}
	}
	return nil
}

// RequestExit asks the runtime to end the session; the state machine then
// walks STOPPING to EXITING.
func (m *Manager) RequestExit() error {
	if err := m.chk.check(m.rt.RequestExitSession(m.session), "xrRequestExitSession"); err != nil {
		return err
	}
	m.pub.Publish(Event{Name: EventExitRequested})
	return nil
}

// PollTimeout is the host looper timeout in milliseconds: 0 (do not block)
// while the host is resumed, the session runs or destruction is pending, and
// -1 (block until the next host event) otherwise.
func (m *Manager) PollTimeout(resumed, destroyRequested bool) int {
	if resumed || destroyRequested || m.sm.IsRunning() {
		return 0
	}
	return -1
}

// Ready reports whether bring-up completed and the session is running.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized && m.running
}

// syncState mirrors the state machine into fields Status may read.
func (m *Manager) syncState() {
	m.mu.Lock()
	m.state = m.sm.State()
	m.running = m.sm.IsRunning()
	m.exit = m.sm.ExitRequested()
	m.restart = m.sm.RestartRequested()
	m.mu.Unlock()
}

// Close destroys everything Init created, in reverse order: render targets
// and swapchains, action spaces, capabilities, reference spaces, the session
// and the instance. It is safe after a partial Init and on repeat calls.
func (m *Manager) Close() error {
	m.mu.Lock()
	surfaces := m.surfaces
	m.surfaces = nil
	caps := m.caps
	m.caps = Capabilities{}
	m.initialized = false
	m.mu.Unlock()

	for i := len(surfaces) - 1; i >= 0; i-- {
		surfaces[i].Destroy()
	}
	if m.input != nil {
		m.input.destroySpaces()
	}
	if caps.hands != nil {
		caps.destroyHandTrackers(m.chk)
	}
	if caps.pt != nil {
		caps.destroyPassthrough(m.chk)
	}
	m.spaces.destroy(m.rt, m.chk)
	m.spaces = Spaces{}

	var err error
	if m.session != 0 {
		err = m.chk.check(m.rt.DestroySession(m.session), "xrDestroySession")
		m.session = 0
	}
	if m.instance != 0 {
		if e := m.chk.check(m.rt.DestroyInstance(m.instance), "xrDestroyInstance"); err == nil {
			err = e
		}
		m.instance = 0
	}
	m.input = nil
	m.log.Info().Msg("session torn down")
	return err
}
