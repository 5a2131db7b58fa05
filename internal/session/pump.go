package session

import "oxrsession/internal/xr"

// PollEvents drains the runtime event queue until it is empty and reports
// whether the application should exit and whether it must redo bring-up. It
// must run once per tick before frame production. An empty queue changes
// nothing.
func (m *Manager) PollEvents() (exit, restart bool) {
	for {
		ev, res := m.rt.PollEvent(m.instance)
		if res == xr.EventUnavailable {
			break
		}
		if err := m.chk.check(res, "xrPollEvent"); err != nil {
			if res == xr.ErrorInstanceLost {
				m.instanceLost("poll failed")
				return true, true
			}
			break
		}
		name := xr.EventTypeName(ev)
		eventsTotal.WithLabelValues(name).Inc()

		switch e := ev.(type) {
		case xr.EventInstanceLossPending:
			m.log.Warn().Int64("loss_time", int64(e.LossTime)).Msg("instance loss pending")
			m.instanceLost("loss pending")
			return true, true
		case xr.EventSessionStateChanged:
			// Rejections are logged by the state machine.
			_ = m.sm.Handle(e)
		case xr.EventInteractionProfileChanged:
			m.log.Info().Uint64("session", uint64(e.Session)).Msg("interaction profile changed")
		case xr.EventReferenceSpaceChangePending:
			m.log.Info().
				Str("space", e.ReferenceSpaceType.String()).
				Int64("change_time", int64(e.ChangeTime)).
				Bool("pose_valid", e.PoseValid).
				Msg("reference space change pending")
		case xr.EventEventsLost:
			m.log.Warn().Uint32("lost", e.LostEventCount).Msg("runtime events lost")
			m.mu.Lock()
			m.eventsLost += uint64(e.LostEventCount)
			m.mu.Unlock()
			m.pub.Publish(Event{Name: EventEventsLost, Fields: map[string]any{"count": e.LostEventCount}})
		default:
			m.log.Warn().Str("type", name).Msg("unexpected event ignored")
		}
	}
	return m.sm.ExitRequested(), m.sm.RestartRequested()
}

func (m *Manager) instanceLost(reason string) {
	m.sm.requestRestart()
	m.syncState()
	m.pub.Publish(Event{Name: EventInstanceLoss, Fields: map[string]any{"reason": reason}})
}
