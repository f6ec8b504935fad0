package components

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-formfields/pkg/render/template"
)

// Renderer writes the control markup for one field into buf.
type Renderer func(buf *bytes.Buffer, field Field, data ComponentData) error

// ComponentData carries helpers and configuration for component renderers.
// ThemePartials maps partial keys such as "forms.select" to template
// overrides; Theme carries tokens and CSS variables into the templates.
type ComponentData struct {
	Template      rendertemplate.TemplateRenderer
	ThemePartials map[string]string
	Theme         map[string]any
	Config        map[string]any
}

// Registry maps component names to renderers. The vanilla renderer resolves
// a field's component by its kind, or by the name a component override
// assigns to the field. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Clone returns a copy that can be extended without touching r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{renderers: maps.Clone(r.renderers)}
}

// Register binds name to renderer, replacing any existing binding.
func (r *Registry) Register(name string, renderer Renderer) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[name] = renderer
	return nil
}

// MustRegister is Register for static setup; it panics on error.
func (r *Registry) MustRegister(name string, renderer Renderer) {
	if err := r.Register(name, renderer); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer bound to name.
func (r *Registry) Lookup(name string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[normalize(name)]
	return renderer, ok
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.renderers))
}

// Missing returns the names with no renderer, normalized, sorted and without
// duplicates. Blank names are ignored.
func (r *Registry) Missing(names ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for _, name := range names {
		name = normalize(name)
		if name == "" {
			continue
		}
		if _, ok := r.renderers[name]; !ok {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
