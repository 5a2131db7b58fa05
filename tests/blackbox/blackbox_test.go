//go:build !windows

package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	return port, func() { _ = ln.Close() }
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	binPath := filepath.Join(t.TempDir(), "oxrsession")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/oxrsession")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// command runs the binary from an empty directory so no stray .env is read.
func command(t *testing.T, bin string, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = t.TempDir()
	return cmd
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_RunFrameBudget(t *testing.T) {
	bin := buildBinary(t)
	var stderr bytes.Buffer
	cmd := command(t, bin, "run", "--frames", "10", "--log-format", "json")
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), `"rendered":10`) {
		t.Fatalf("expected 10 rendered frames in log:\n%s", stderr.String())
	}
}

func TestBlackbox_Profiles(t *testing.T) {
	bin := buildBinary(t)
	out, err := command(t, bin, "profiles", "--json").Output()
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	var resp struct {
		Profiles []struct {
			Name string `json:"name"`
		} `json:"profiles"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("profiles json: %v out=%s", err, string(out))
	}
	if len(resp.Profiles) != 1 || resp.Profiles[0].Name != "oculus_touch" {
		t.Fatalf("profiles %+v", resp.Profiles)
	}
}

func TestBlackbox_BadFlagExitsNonZero(t *testing.T) {
	bin := buildBinary(t)
	err := command(t, bin, "run", "--frame-mode", "sometimes").Run()
	var ee *exec.ExitError
	if !errors.As(err, &ee) || ee.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
}

func TestBlackbox_DiagnosticsAndSignal(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "oxr.yaml")
	if err := os.WriteFile(cfgPath, []byte("sim:\n  pace: true\n  display_hz: 90\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	port, release := findFreePort(t)
	release()
	base := fmt.Sprintf("http://127.0.0.1:%d", port)

	cmd := command(t, bin, "run", "--config", cfgPath, "--diag-addr", fmt.Sprintf("127.0.0.1:%d", port))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/readyz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("session did not become ready in time")
		}
		time.Sleep(50 * time.Millisecond)
	}

	resp, body := get(t, base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/status content-type=%s", ct)
	}
	var st struct {
		State   string `json:"state"`
		Running bool   `json:"running"`
		Runtime string `json:"runtime"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if !st.Running || st.State != "XR_SESSION_STATE_FOCUSED" || st.Runtime == "" {
		t.Fatalf("status %+v", st)
	}

	resp, body = get(t, base+"/metrics")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("oxr_")) {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("signal: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("exit after interrupt: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("process did not exit after interrupt")
	}
}
