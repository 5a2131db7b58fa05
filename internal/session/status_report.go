package session

import (
	"sort"
	"time"

	"oxrsession/internal/xr"
	"oxrsession/pkg/types"
)

// Snapshot is a read-only view of the lifecycle flags.
type Snapshot struct {
	State            xr.SessionState
	Running          bool
	ExitRequested    bool
	RestartRequested bool
	Initialized      bool
	Frames           FrameCounters
}

// Snapshot returns the lifecycle flags. Safe from any goroutine.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:            m.state,
		Running:          m.running,
		ExitRequested:    m.exit,
		RestartRequested: m.restart,
		Initialized:      m.initialized,
		Frames:           m.frames,
	}
}

// Status builds a detailed status response for /status. Safe from any
// goroutine.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := types.StatusResponse{
		State:            m.state.String(),
		Running:          m.running,
		ExitRequested:    m.exit,
		RestartRequested: m.restart,
		Runtime:          m.instProps.RuntimeName,
		System:           m.sysProps.SystemName,
		FrameMode:        string(m.cfg.FrameMode),
		Capabilities:     m.caps.Enabled(),
		Frames: types.FrameStats{
			Rendered:      m.frames.Rendered,
			Empty:         m.frames.Empty,
			Skipped:       m.frames.Skipped,
			Failed:        m.frames.Failed,
			ImageTimeouts: m.frames.ImageTimeouts,
		},
		LastDisplayTime: int64(m.lastTime),
		EventsLost:      m.eventsLost,
		LastError:       m.lastErr,
		UptimeSeconds:   int64(time.Since(m.startedAt).Seconds()),
		ServerTimeUnix:  time.Now().Unix(),
	}
	if m.instProps.RuntimeVersion != 0 {
		resp.RuntimeVersion = m.instProps.RuntimeVersion.String()
	}
	if m.gfxVersion != 0 {
		resp.GraphicsVersion = m.gfxVersion.String()
	}
	resp.Extensions = make([]string, 0, len(m.extensions))
	for e, on := range m.extensions {
		if on {
			resp.Extensions = append(resp.Extensions, e)
		}
	}
	sort.Strings(resp.Extensions)
	resp.Views = make([]types.ViewStatus, 0, len(m.surfaces))
	for i, s := range m.surfaces {
		w, h := s.Size()
		resp.Views = append(resp.Views, types.ViewStatus{
			Index:  i,
			Width:  w,
			Height: h,
			Images: s.ImageCount(),
		})
	}
	return resp
}
