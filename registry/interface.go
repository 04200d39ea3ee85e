package registry

import "github.com/reglet-dev/reglet-capmark/capability"

// CapabilityRegistry maps names to capability values.
type CapabilityRegistry interface {
	// Register binds a name to a capability. Names are unique.
	Register(name string, c capability.Capability) error

	// Lookup returns the capability bound to name.
	Lookup(name string) (capability.Capability, bool)

	// List returns all registered names in sorted order.
	List() []string

	// Match returns the sorted names matching a doublestar glob pattern.
	Match(pattern string) ([]string, error)
}
