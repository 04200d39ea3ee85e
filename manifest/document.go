// Package manifest describes binding documents that name capability variants.
package manifest

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/reglet-capmark/capability"
)

// SupportedVersions is the document version range this module reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// ErrInvalidDocument is returned when a document fails semantic checks.
var ErrInvalidDocument = errors.New("invalid binding document")

// Document is a set of named capability bindings.
type Document struct {
	Version  string    `json:"version" yaml:"version" jsonschema:"description=Document format version (semver)"`
	Bindings []Binding `json:"bindings" yaml:"bindings"`
}

// Binding attaches a name to a capability variant.
type Binding struct {
	Name        string             `json:"name" yaml:"name" jsonschema:"minLength=1"`
	Variant     capability.Variant `json:"variant" yaml:"variant" jsonschema:"type=string,enum=foo,enum=bar"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the version gate and binding names.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return fmt.Errorf("%w: version %q: %w", ErrInvalidDocument, d.Version, err)
	}

	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid supported version range: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: version %s does not satisfy %q", ErrInvalidDocument, v.Original(), SupportedVersions)
	}

	seen := make(map[string]struct{}, len(d.Bindings))
	for i, b := range d.Bindings {
		if b.Name == "" {
			return fmt.Errorf("%w: binding %d has no name", ErrInvalidDocument, i)
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("%w: duplicate binding %q", ErrInvalidDocument, b.Name)
		}
		if !b.Variant.Valid() {
			return fmt.Errorf("%w: binding %q: %w", ErrInvalidDocument, b.Name, capability.ErrUnknownVariant)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// Capability resolves the binding to its marker value.
func (b Binding) Capability() (capability.Capability, error) {
	return b.Variant.Capability()
}
