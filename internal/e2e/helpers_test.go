package e2e

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"oxrsession/internal/gfx"
	"oxrsession/internal/httpapi"
	"oxrsession/internal/registry"
	"oxrsession/internal/session"
	"oxrsession/internal/xr"
	"oxrsession/internal/xr/simrt"
	"oxrsession/pkg/types"
)

// sessionService exposes one manager and the built-in profiles over HTTP.
type sessionService struct {
	m   *session.Manager
	reg *registry.Registry
}

func (s sessionService) Status() types.StatusResponse { return s.m.Status() }
func (s sessionService) Ready() bool                  { return s.m.Ready() }
func (s sessionService) Profiles() []types.Profile    { return s.reg.Summaries() }

// newSessionServer brings a session up on the simulated runtime and serves
// its diagnostics from an httptest server.
func newSessionServer(t *testing.T, opts simrt.Options) (*httptest.Server, *session.Manager, *simrt.Runtime, *gfx.Headless) {
	t.Helper()
	rt := simrt.New(opts)
	alloc := gfx.NewHeadless(xr.MakeVersion(3, 1, 0))
	reg := registry.New()
	prof, _ := reg.Get(registry.OculusTouch().Name)
	m := session.NewWithConfig(session.Config{
		AppName:   "e2e",
		Runtime:   rt,
		Allocator: alloc,
		Context:   gfx.StaticContext{DisplayHandle: 1, ConfigHandle: 2, ContextHandle: 3},
		Profile:   &prof,
		Logger:    zerolog.Nop(),
	})
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(sessionService{m: m, reg: reg}))
	t.Cleanup(func() {
		srv.Close()
		_ = m.Close()
	})
	return srv, m, rt, alloc
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
