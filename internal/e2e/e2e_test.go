package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"oxrsession/internal/session"
	"oxrsession/internal/xr"
	"oxrsession/internal/xr/simrt"
	"oxrsession/pkg/types"
)

func TestE2E_Lifecycle_Status_Ready(t *testing.T) {
	srv, m, rt, alloc := newSessionServer(t, simrt.Options{})

	// 1) Before the runtime grants the session, /readyz is 503.
	resp, body := httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz expected 503, got %d body=%s", resp.StatusCode, string(body))
	}
	resp, body = httpGet(t, srv.URL+"/status")
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if st.Running || st.State != "XR_SESSION_STATE_UNKNOWN" {
		t.Fatalf("initial status %+v", st)
	}

	// 2) Render a few frames through the normal loop.
	if err := m.Run(context.Background(), session.RendererFunc(func(session.ViewContext) {}), 5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	resp, body = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz expected 200, got %d body=%s", resp.StatusCode, string(body))
	}
	resp, body = httpGet(t, srv.URL+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v", err)
	}
	if !st.Running || st.Frames.Rendered != 5 || len(st.Views) != 2 {
		t.Fatalf("running status %+v", st)
	}

	// 3) Exit drains to EXITING and the session stops being ready.
	if err := m.RequestExit(); err != nil {
		t.Fatalf("RequestExit: %v", err)
	}
	if exit, _ := m.PollEvents(); !exit {
		t.Fatalf("exit not observed")
	}
	if m.StateMachine().State() != xr.SessionStateExiting {
		t.Fatalf("state=%s", m.StateMachine().State())
	}
	resp, _ = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz after exit expected 503, got %d", resp.StatusCode)
	}

	// 4) Teardown releases every handle.
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !rt.Live().Zero() || alloc.Live() != 0 {
		t.Fatalf("leaked %+v targets=%d", rt.Live(), alloc.Live())
	}
}

func TestE2E_Profiles(t *testing.T) {
	srv, _, _, _ := newSessionServer(t, simrt.Options{})
	resp, body := httpGet(t, srv.URL+"/profiles")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/profiles status=%d body=%s", resp.StatusCode, string(body))
	}
	var pr types.ProfilesResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		t.Fatalf("/profiles json: %v", err)
	}
	if len(pr.Profiles) != 1 || pr.Profiles[0].Name != "oculus_touch" || pr.Profiles[0].Actions != 12 {
		t.Fatalf("profiles %+v", pr.Profiles)
	}
}

func TestE2E_InstanceLossSurfacesRestart(t *testing.T) {
	srv, m, rt, _ := newSessionServer(t, simrt.Options{})
	rt.LoseInstance(m.Instance())
	err := m.Run(context.Background(), session.RendererFunc(func(session.ViewContext) {}), 0)
	if !session.IsRestartRequested(err) {
		t.Fatalf("expected restart request, got %v", err)
	}
	_, body := httpGet(t, srv.URL+"/status")
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v", err)
	}
	if !st.RestartRequested {
		t.Fatalf("status missing restart flag: %+v", st)
	}
}
