package scenes

import (
	"sort"
	"strings"

	"github.com/AndreyAkinshin/benchcheck/internal/config"
	"github.com/AndreyAkinshin/benchcheck/internal/errors"
)

// Registry is an immutable, name-sorted table of scenes.
type Registry struct {
	scenes map[string]Scene
	names  []string
}

// NewRegistry creates a registry from a list of scenes. Duplicate names are
// a configuration error.
func NewRegistry(list []Scene) (*Registry, error) {
	r := &Registry{
		scenes: make(map[string]Scene, len(list)),
		names:  make([]string, 0, len(list)),
	}
	for _, s := range list {
		if s.Name == "" {
			return nil, errors.Config("scene name must not be empty")
		}
		if _, dup := r.scenes[s.Name]; dup {
			return nil, errors.Configf("duplicate scene %q", s.Name)
		}
		r.scenes[s.Name] = clone(s)
		r.names = append(r.names, s.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// FromConfig builds the registry from the scene table of cfg.
func FromConfig(cfg *config.Config) (*Registry, error) {
	list := make([]Scene, 0, len(cfg.Scenes))
	for name, sc := range cfg.Scenes {
		list = append(list, Scene{
			Name: name,
			File: sc.File,
			Camera: Camera{
				Position: Vec3(sc.Camera.Position),
				Up:       Vec3(sc.Camera.Up),
				Focus:    Vec3(sc.Camera.Focus),
			},
			Params: sc.Params,
		})
	}
	return NewRegistry(list)
}

// Get retrieves a scene by name.
func (r *Registry) Get(name string) (Scene, bool) {
	s, ok := r.scenes[name]
	if !ok {
		return Scene{}, false
	}
	return clone(s), true
}

// Len returns the number of scenes.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns all scene names sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// All returns all scenes sorted by name.
func (r *Registry) All() []Scene {
	all := make([]Scene, 0, len(r.names))
	for _, name := range r.names {
		all = append(all, clone(r.scenes[name]))
	}
	return all
}

// Select returns the named scenes sorted by name. Names may repeat; each
// scene is returned once. Nil or empty names select every scene. An unknown
// name is a configuration error and nothing is returned.
func (r *Registry) Select(names []string) ([]Scene, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	seen := make(map[string]bool, len(names))
	var unknown []string
	for _, name := range names {
		if _, ok := r.scenes[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		seen[name] = true
	}
	if len(unknown) > 0 {
		return nil, errors.Configf("unknown test(s): %s (use --tests-list to see available tests)", strings.Join(unknown, ", "))
	}

	selected := make([]Scene, 0, len(seen))
	for _, name := range r.names {
		if seen[name] {
			selected = append(selected, clone(r.scenes[name]))
		}
	}
	return selected, nil
}

// ParseSelection splits a comma-separated test list, dropping blanks.
func ParseSelection(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func clone(s Scene) Scene {
	if s.Params != nil {
		s.Params = append([]string(nil), s.Params...)
	}
	return s
}
