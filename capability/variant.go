package capability

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned when a variant name or value is not recognized.
var ErrUnknownVariant = errors.New("unknown capability variant")

// Variant is the closed set of marker variants.
type Variant int

const (
	VariantFoo Variant = iota
	VariantBar
)

// Variants lists every defined variant in declaration order.
func Variants() []Variant {
	return []Variant{VariantFoo, VariantBar}
}

// How answers the predicate for the variant. Values outside the set answer false.
func (v Variant) How() bool {
	switch v {
	case VariantFoo:
		return false
	case VariantBar:
		return true
	default:
		return false
	}
}

// String returns the lower-case variant name.
func (v Variant) String() string {
	switch v {
	case VariantFoo:
		return "foo"
	case VariantBar:
		return "bar"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Valid reports whether v is a defined variant.
func (v Variant) Valid() bool {
	return v == VariantFoo || v == VariantBar
}

// Capability returns the marker value for the variant.
func (v Variant) Capability() (Capability, error) {
	switch v {
	case VariantFoo:
		return Foo{}, nil
	case VariantBar:
		return Bar{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
}

// ParseVariant converts a name such as "foo" or "Bar" into a Variant.
// Case and surrounding space are ignored; documents use UnmarshalText instead.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "foo":
		return VariantFoo, nil
	case "bar":
		return VariantBar, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// VariantOf reports which variant a capability value is.
// Non-nil pointers to markers are accepted.
func VariantOf(c Capability) (Variant, bool) {
	if IsNil(c) {
		return 0, false
	}
	switch c.(type) {
	case Foo, *Foo:
		return VariantFoo, true
	case Bar, *Bar:
		return VariantBar, true
	default:
		return 0, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the exact
// names written by MarshalText are accepted.
func (v *Variant) UnmarshalText(text []byte) error {
	switch string(text) {
	case "foo":
		*v = VariantFoo
	case "bar":
		*v = VariantBar
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, text)
	}
	return nil
}
