package policy

import "github.com/reglet-dev/reglet-capmark/capability"

// Policy answers capability predicates for named callers.
type Policy interface {
	// Check returns the capability's answer and reports a denial when it is false.
	Check(name string, c capability.Capability) bool

	// Evaluate returns the decision without side effects (like logging denials).
	Evaluate(c capability.Capability) bool
}

// DenialHandler is called when a policy check denies a request.
type DenialHandler interface {
	// OnDenial is called when a capability answers false.
	OnDenial(name string, variant string, reason string)
}
