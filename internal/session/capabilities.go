package session

import "oxrsession/internal/xr"

// Capability names reported in Status and capability_disabled events.
const (
	CapabilityHandTracking = "hand_tracking"
	CapabilityPassthrough  = "passthrough"
)

// Capabilities is the optional-feature table resolved at bring-up. A feature
// is enabled only when it was requested, its extension was enabled and the
// runtime implements the matching interface.
type Capabilities struct {
	HandTracking bool
	Passthrough  bool

	hands    xr.HandTracking
	trackers [HandCount]xr.HandTracker

	pt      xr.PassthroughSupport
	ptFeat  xr.Passthrough
	ptLayer xr.PassthroughLayer
}

// Enabled maps capability names to their resolved state.
func (c Capabilities) Enabled() map[string]bool {
	return map[string]bool{
		CapabilityHandTracking: c.HandTracking,
		CapabilityPassthrough:  c.Passthrough,
	}
}

func (m *Manager) disableCapability(name, reason string) {
	m.log.Warn().Str("capability", name).Str("reason", reason).Msg("capability disabled")
	m.pub.Publish(Event{Name: EventCapabilityOff, Fields: map[string]any{
		"capability": name,
		"reason":     reason,
	}})
}

func (m *Manager) resolveCapabilities() {
	var caps Capabilities
	if m.cfg.HandTracking {
		caps.HandTracking = m.enableHandTracking(&caps)
	}
	if m.cfg.Passthrough {
		caps.Passthrough = m.enablePassthrough(&caps)
	}
	m.mu.Lock()
	m.caps = caps
	m.mu.Unlock()
}

func (m *Manager) enableHandTracking(caps *Capabilities) bool {
	if !m.extensions[xr.ExtHandTracking] {
		m.disableCapability(CapabilityHandTracking, "extension not enabled")
		return false
	}
	ht, ok := m.rt.(xr.HandTracking)
	if !ok {
		m.disableCapability(CapabilityHandTracking, "runtime does not implement hand tracking")
		return false
	}
	caps.hands = ht
	for h := HandLeft; h < HandCount; h++ {
		t, res := ht.CreateHandTracker(m.session, int(h))
		if m.chk.check(res, "xrCreateHandTrackerEXT") != nil {
			caps.destroyHandTrackers(m.chk)
			m.disableCapability(CapabilityHandTracking, "hand tracker creation failed")
			return false
		}
		caps.trackers[h] = t
	}
	m.log.Info().Msg("hand tracking enabled")
	return true
}

func (m *Manager) enablePassthrough(caps *Capabilities) bool {
	if !m.extensions[xr.ExtPassthroughFB] {
		m.disableCapability(CapabilityPassthrough, "extension not enabled")
		return false
	}
	pt, ok := m.rt.(xr.PassthroughSupport)
	if !ok {
		m.disableCapability(CapabilityPassthrough, "runtime does not implement passthrough")
		return false
	}
	caps.pt = pt
	feat, res := pt.CreatePassthrough(m.session)
	if m.chk.check(res, "xrCreatePassthroughFB") != nil {
		m.disableCapability(CapabilityPassthrough, "passthrough creation failed")
		return false
	}
	caps.ptFeat = feat
	if m.chk.check(pt.PassthroughStart(feat), "xrPassthroughStartFB") != nil {
		caps.destroyPassthrough(m.chk)
		m.disableCapability(CapabilityPassthrough, "passthrough start failed")
		return false
	}
	layer, res := pt.CreatePassthroughLayer(m.session, feat)
	if m.chk.check(res, "xrCreatePassthroughLayerFB") != nil {
		caps.destroyPassthrough(m.chk)
		m.disableCapability(CapabilityPassthrough, "passthrough layer creation failed")
		return false
	}
	caps.ptLayer = layer
	m.log.Info().Msg("passthrough enabled")
	return true
}

// locateHands returns joint locations for both hands at t in the app space.
// Disabled or failed lookups report inactive hands.
func (m *Manager) locateHands(t xr.Time) [HandCount]xr.HandJointLocations {
	var out [HandCount]xr.HandJointLocations
	if !m.caps.HandTracking {
		return out
	}
	for h := HandLeft; h < HandCount; h++ {
		loc, res := m.caps.hands.LocateHandJoints(m.caps.trackers[h], m.spaces.App, t)
		if m.chk.check(res, "xrLocateHandJointsEXT") == nil {
			out[h] = loc
		}
	}
	return out
}

// passthroughLayer resumes the reconstruction layer and returns it for
// submission behind the projection layer, or nil when unavailable this frame.
func (m *Manager) passthroughLayer() xr.CompositionLayer {
	if !m.caps.Passthrough {
		return nil
	}
	if m.chk.check(m.caps.pt.PassthroughLayerResume(m.caps.ptLayer), "xrPassthroughLayerResumeFB") != nil {
		return nil
	}
	return &xr.CompositionLayerPassthrough{Layer: m.caps.ptLayer}
}

func (c *Capabilities) destroyHandTrackers(chk *checker) {
	for h := range c.trackers {
		if c.trackers[h] != 0 {
			_ = chk.check(c.hands.DestroyHandTracker(c.trackers[h]), "xrDestroyHandTrackerEXT")
			c.trackers[h] = 0
		}
	}
	c.HandTracking = false
}

func (c *Capabilities) destroyPassthrough(chk *checker) {
	if c.ptLayer != 0 {
		_ = chk.check(c.pt.DestroyPassthroughLayer(c.ptLayer), "xrDestroyPassthroughLayerFB")
		c.ptLayer = 0
	}
	if c.ptFeat != 0 {
		_ = chk.check(c.pt.DestroyPassthrough(c.ptFeat), "xrDestroyPassthroughFB")
		c.ptFeat = 0
	}
	c.Passthrough = false
}
