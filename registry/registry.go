// Package registry implements a registry of named capabilities.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/reglet-dev/reglet-capmark/capability"
	"github.com/reglet-dev/reglet-capmark/manifest"
)

// ErrAlreadyRegistered is returned when a name is registered twice.
var ErrAlreadyRegistered = errors.New("capability already registered")

// Default names bound by WithDefaults.
const (
	DefaultFooName = "foo"
	DefaultBarName = "bar"
)

// Registry implements CapabilityRegistry using in-memory storage.
type Registry struct {
	caps map[string]capability.Capability
	mu   sync.RWMutex
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithDefaults registers the two marker variants under their own names.
func WithDefaults() RegistryOption {
	return func(r *Registry) {
		r.caps[DefaultFooName] = capability.Foo{}
		r.caps[DefaultBarName] = capability.Bar{}
	}
}

// NewRegistry creates a new capability registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		caps: make(map[string]capability.Capability),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds name to c.
func (r *Registry) Register(name string, c capability.Capability) error {
	if name == "" {
		return fmt.Errorf("capability name is empty")
	}
	if capability.IsNil(c) {
		return fmt.Errorf("capability %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.caps[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.caps[name] = c
	return nil
}

// Lookup returns the capability bound to name.
func (r *Registry) Lookup(name string) (capability.Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[name]
	return c, ok
}

// List returns all registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.caps))
	for k := range r.caps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Match returns the sorted names matching pattern. Names are matched as
// slash-separated paths, so "team/*" does not cross a slash and "team/**" does.
func (r *Registry) Match(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var out []string
	for _, name := range r.List() {
		if doublestar.MatchUnvalidated(pattern, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// LoadDocument registers every binding in doc. The document is validated first.
// Registration stops at the first conflicting name.
func LoadDocument(reg CapabilityRegistry, doc *manifest.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	for _, b := range doc.Bindings {
		c, err := b.Capability()
		if err != nil {
			return fmt.Errorf("binding %q: %w", b.Name, err)
		}
		if err := reg.Register(b.Name, c); err != nil {
			return err
		}
	}
	return nil
}
