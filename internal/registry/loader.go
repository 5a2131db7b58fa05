package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"oxrsession/internal/common/fsutil"
	"oxrsession/pkg/types"
)

// LoadFile reads one profile table. The format is chosen by extension:
// .yaml/.yml, .json or .toml.
func LoadFile(path string) (Profile, error) {
	var p Profile
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &p)
	case ".json":
		err = json.Unmarshal(b, &p)
	case ".toml":
		err = toml.Unmarshal(b, &p)
	default:
		return p, fmt.Errorf("unsupported profile extension: %s", ext)
	}
	if err != nil {
		return p, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// LoadDir scans a directory for profile files and returns them sorted by
// name. Files with other extensions are ignored.
func LoadDir(dir string) ([]Profile, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []Profile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json", ".toml":
		default:
			continue
		}
		p, err := LoadFile(filepath.Join(abs, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Registry holds the known profile tables keyed by name.
type Registry struct {
	profiles map[string]Profile
}

// New returns a registry seeded with the built-in OculusTouch table.
func New() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	d := OculusTouch()
	r.profiles[d.Name] = d
	return r
}

// LoadDir adds the profiles found in dir, replacing built-ins of the same name.
func (r *Registry) LoadDir(dir string) error {
	ps, err := LoadDir(dir)
	if err != nil {
		return err
	}
	for _, p := range ps {
		r.profiles[p.Name] = p
	}
	return nil
}

// Get returns the profile named name.
func (r *Registry) Get(name string) (Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// List returns all profiles sorted by name.
func (r *Registry) List() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summaries lists every profile in its wire form, sorted by name.
func (r *Registry) Summaries() []types.Profile {
	ps := r.List()
	out := make([]types.Profile, 0, len(ps))
	for _, p := range ps {
		out = append(out, types.Profile{
			Name:      p.Name,
			Path:      p.Path,
			ActionSet: p.ActionSet.Name,
			Actions:   len(p.Actions),
			Bindings:  len(p.Bindings),
		})
	}
	return out
}
