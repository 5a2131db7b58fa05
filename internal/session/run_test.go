package session

import (
	"context"
	"errors"
	"testing"

	"oxrsession/internal/xr"
	"oxrsession/internal/xr/simrt"
)

func TestRun_StopsAfterMaxFrames(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{}, nil)
	rec := &recordingRenderer{}
	if err := m.Run(context.Background(), rec, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.Snapshot().Frames.Rendered; got != 3 {
		t.Fatalf("rendered=%d want 3", got)
	}
	if len(rec.views) != 6 {
		t.Fatalf("views=%d want 6", len(rec.views))
	}
	st := rt.Stats()
	if st.BeginFrames != st.EndFrames {
		t.Fatalf("begin=%d end=%d", st.BeginFrames, st.EndFrames)
	}
}

func TestRun_ExitsWhenRendererRequestsIt(t *testing.T) {
	m, rt, alloc := newTestManager(t, simrt.Options{}, nil)
	calls := 0
	r := RendererFunc(func(ViewContext) {
		calls++
		if calls == 4 {
			if err := m.RequestExit(); err != nil {
				t.Errorf("RequestExit: %v", err)
			}
		}
	})
	if err := m.Run(context.Background(), r, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.Snapshot().Frames.Rendered; got != 2 {
		t.Fatalf("rendered=%d want 2", got)
	}
	if m.StateMachine().State() != xr.SessionStateExiting {
		t.Fatalf("state=%s want EXITING", m.StateMachine().State())
	}
	if rt.Stats().EndSessions != 1 {
		t.Fatalf("end sessions=%d want 1", rt.Stats().EndSessions)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !rt.Live().Zero() || alloc.Live() != 0 {
		t.Fatalf("leaked handles %+v targets=%d", rt.Live(), alloc.Live())
	}
	if v := violations(rt); len(v) != 0 {
		t.Fatalf("violations: %v", v)
	}
}

func TestRun_InstanceLossRequestsRestart(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{}, nil)
	rt.LoseInstance(m.Instance())
	err := m.Run(context.Background(), &recordingRenderer{}, 0)
	if !IsRestartRequested(err) || !errors.Is(err, ErrRestartRequested) {
		t.Fatalf("expected restart, got %v", err)
	}
	_ = m.Close()
	if !rt.Live().Zero() {
		t.Fatalf("leaked handles after loss: %+v", rt.Live())
	}
}

func TestRun_CancelledBeforeRunning(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx, &recordingRenderer{}, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	if rt.Stats().ExitRequests != 0 {
		t.Fatalf("exit requested for a session that never ran")
	}
}

func TestRun_CancelledWhileRunningExitsCleanly(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{}, nil)
	untilRunning(t, m)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx, &recordingRenderer{}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	st := rt.Stats()
	if st.ExitRequests != 1 || st.EndSessions != 1 {
		t.Fatalf("exit requests=%d end sessions=%d want 1/1", st.ExitRequests, st.EndSessions)
	}
	if !m.Snapshot().ExitRequested {
		t.Fatalf("snapshot missing exit flag")
	}
}

func TestTick_SkipsBeforeRunning(t *testing.T) {
	m, rt, _ := newTestManager(t, simrt.Options{ManualLifecycle: true}, nil)
	res, stop := m.Tick(&recordingRenderer{})
	if stop || res.Outcome != FrameSkipped {
		t.Fatalf("outcome=%s stop=%v", res.Outcome, stop)
	}
	if rt.Stats().WaitFrames != 0 {
		t.Fatalf("waited on a frame while idle")
	}
}

func TestPollTimeout(t *testing.T) {
	m, _, _ := newTestManager(t, simrt.Options{}, nil)
	cases := []struct {
		resumed, destroy bool
		want             int
	}{
		{false, false, -1},
		{true, false, 0},
		{false, true, 0},
		{true, true, 0},
	}
	for _, c := range cases {
		if got := m.PollTimeout(c.resumed, c.destroy); got != c.want {
			t.Fatalf("PollTimeout(%v, %v)=%d want %d", c.resumed, c.destroy, got, c.want)
		}
	}
	untilRunning(t, m)
	if got := m.PollTimeout(false, false); got != 0 {
		t.Fatalf("running session should not block, got %d", got)
	}
}

func TestStatus_ReportsBringUp(t *testing.T) {
	m, _, _ := newTestManager(t, simrt.Options{}, nil)
	if m.Ready() {
		t.Fatalf("ready before the session runs")
	}
	untilRunning(t, m)
	if !m.Ready() {
		t.Fatalf("not ready while focused")
	}
	m.RenderFrame(&recordingRenderer{})

	st := m.Status()
	if st.State != "XR_SESSION_STATE_FOCUSED" || !st.Running {
		t.Fatalf("state=%s running=%v", st.State, st.Running)
	}
	if st.Runtime != "Simulated OpenXR Runtime" || st.GraphicsVersion == "" || st.RuntimeVersion == "" {
		t.Fatalf("identity %+v", st)
	}
	if st.FrameMode != string(FrameModeSkip) {
		t.Fatalf("frame mode=%q", st.FrameMode)
	}
	if len(st.Views) != 2 {
		t.Fatalf("views=%d want 2", len(st.Views))
	}
	for _, v := range st.Views {
		if v.Width != 1440 || v.Height != 1584 || v.Images != 3 {
			t.Fatalf("view %+v", v)
		}
	}
	if st.Frames.Rendered != 1 || st.LastDisplayTime == 0 {
		t.Fatalf("frames %+v last=%d", st.Frames, st.LastDisplayTime)
	}
	if st.LastError != "" {
		t.Fatalf("unexpected error %q", st.LastError)
	}
}
