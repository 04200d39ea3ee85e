// Package capability defines the capability contract and its two marker variants.
package capability

import "reflect"

// Capability answers a single fixed predicate.
// Implementations must return the same value on every call and must not
// consult external state.
type Capability interface {
	How() bool
}

// Ensure the markers satisfy the contract.
var (
	_ Capability = Foo{}
	_ Capability = Bar{}
)

// Foo is a zero-size marker that always answers false.
type Foo struct{}

// How always returns false.
func (Foo) How() bool { return false }

// Bar is a zero-size marker that always answers true.
type Bar struct{}

// How always returns true.
func (Bar) How() bool { return true }

// Evaluate returns c.How(). A nil capability, including a nil pointer
// held in the interface, answers false.
func Evaluate(c Capability) bool {
	if IsNil(c) {
		return false
	}
	return c.How()
}

// IsNil reports whether c is nil or a nil pointer, map, slice, func or chan.
func IsNil(c Capability) bool {
	if c == nil {
		return true
	}
	switch v := reflect.ValueOf(c); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
