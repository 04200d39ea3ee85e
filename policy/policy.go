// Package policy routes capability predicates through denial reporting.
package policy

import (
	"github.com/reglet-dev/reglet-capmark/capability"
)

// ReasonPredicateFalse is the reason reported when a capability answers false.
const ReasonPredicateFalse = "capability predicate is false"

// ReasonNilCapability is the reason reported for a nil capability.
const ReasonNilCapability = "no capability bound"

type defaultPolicy struct {
	denialHandler DenialHandler
}

// Option configures a Policy.
type Option func(*defaultPolicy)

// WithDenialHandler sets the handler called on denials.
func WithDenialHandler(h DenialHandler) Option {
	return func(p *defaultPolicy) {
		if h != nil {
			p.denialHandler = h
		}
	}
}

// NewPolicy creates a Policy. Denials are logged with slog unless a handler is set.
func NewPolicy(opts ...Option) Policy {
	p := &defaultPolicy{
		denialHandler: &SlogDenialHandler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *defaultPolicy) Evaluate(c capability.Capability) bool {
	return capability.Evaluate(c)
}

func (p *defaultPolicy) Check(name string, c capability.Capability) bool {
	if capability.IsNil(c) {
		p.denialHandler.OnDenial(name, "", ReasonNilCapability)
		return false
	}
	if c.How() {
		return true
	}
	p.denialHandler.OnDenial(name, variantName(c), ReasonPredicateFalse)
	return false
}

func variantName(c capability.Capability) string {
	if v, ok := capability.VariantOf(c); ok {
		return v.String()
	}
	return "custom"
}
