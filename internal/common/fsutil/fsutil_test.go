package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	cases := []struct{ in, want string }{
		{"", ""},
		{"/etc/oxr", "/etc/oxr"},
		{"~", home},
		{"~/oxr/profiles", filepath.Join(home, "oxr", "profiles")},
		{"~other/profiles", "~other/profiles"},
		{"profiles/~", "profiles/~"},
	}
	for _, c := range cases {
		got, err := ExpandHome(c.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ExpandHome(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "touch.yaml")
	if err := os.WriteFile(f, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !PathExists(f) || !PathExists(dir) {
		t.Fatalf("existing paths reported missing")
	}
	if PathExists(filepath.Join(dir, "missing.yaml")) {
		t.Fatalf("missing path reported present")
	}
}
