package cli

import (
	"sync/atomic"

	"oxrsession/internal/registry"
	"oxrsession/internal/session"
	"oxrsession/pkg/types"
)

// diagService serves the diagnostics API from whichever session manager is
// current. The run loop swaps managers on restart.
type diagService struct {
	reg *registry.Registry
	cur atomic.Pointer[session.Manager]
}

func (d *diagService) set(m *session.Manager) { d.cur.Store(m) }

func (d *diagService) Status() types.StatusResponse {
	if m := d.cur.Load(); m != nil {
		return m.Status()
	}
	return types.StatusResponse{State: "XR_SESSION_STATE_UNKNOWN"}
}

func (d *diagService) Ready() bool {
	m := d.cur.Load()
	return m != nil && m.Ready()
}

func (d *diagService) Profiles() []types.Profile {
	if d.reg == nil {
		return nil
	}
	return d.reg.Summaries()
}
