package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oxrsession/pkg/types"
)

type mockService struct {
	status   types.StatusResponse
	ready    bool
	profiles []types.Profile
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Profiles() []types.Profile {
	return append([]types.Profile(nil), m.profiles...)
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{
		State:   "XR_SESSION_STATE_FOCUSED",
		Running: true,
		Views:   []types.ViewStatus{{Index: 0, Width: 1440, Height: 1584, Images: 3}},
	}}
	w := serve(t, NewMux(svc), http.MethodGet, "/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "XR_SESSION_STATE_FOCUSED" || !body.Running || len(body.Views) != 1 || body.Views[0].Width != 1440 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestProfilesHandler(t *testing.T) {
	svc := &mockService{profiles: []types.Profile{{Name: "oculus_touch", Actions: 12}, {Name: "khr_simple"}}}
	w := serve(t, NewMux(svc), http.MethodGet, "/profiles")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ProfilesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Profiles) != 2 || body.Profiles[0].Actions != 12 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	w := serve(t, NewMux(&mockService{}), http.MethodGet, "/healthz")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
}

func TestReadyz(t *testing.T) {
	w := serve(t, NewMux(&mockService{ready: true}), http.MethodGet, "/readyz")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotRunning(t *testing.T) {
	w := serve(t, NewMux(&mockService{}), http.MethodGet, "/readyz")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not running") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestNotFound_JSONError(t *testing.T) {
	w := serve(t, NewMux(&mockService{}), http.MethodGet, "/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusNotFound || body.Error == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestCORS_OptIn(t *testing.T) {
	t.Cleanup(func() { SetCORSOptions(false, nil, nil, nil) })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://viewer.local")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("CORS header without opt-in: %q", got)
	}

	SetCORSOptions(true, []string{"http://viewer.local"}, nil, nil)
	w = httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://viewer.local" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestSetCORSOptions_Defaults(t *testing.T) {
	t.Cleanup(func() { SetCORSOptions(false, nil, nil, nil) })
	SetCORSOptions(true, []string{"*"}, nil, nil)
	if !corsEnabled || len(corsAllowedMethods) != 2 || len(corsAllowedHeaders) != 2 {
		t.Fatalf("defaults not applied: %v %v", corsAllowedMethods, corsAllowedHeaders)
	}
	SetCORSOptions(true, nil, []string{"GET"}, []string{"X-A"})
	if len(corsAllowedMethods) != 1 || corsAllowedHeaders[0] != "X-A" {
		t.Fatalf("explicit values lost: %v %v", corsAllowedMethods, corsAllowedHeaders)
	}
}
