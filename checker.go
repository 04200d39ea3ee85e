// Package capmark evaluates named capabilities through a registry and policy.
package capmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/reglet-capmark/capability"
	"github.com/reglet-dev/reglet-capmark/decisionstore"
	"github.com/reglet-dev/reglet-capmark/policy"
	"github.com/reglet-dev/reglet-capmark/registry"
)

var (
	// ErrUnknownCapability is returned when a name has no registered capability.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrDenied is returned by Check when a capability answers false.
	ErrDenied = errors.New("capability denied")
)

// DeniedError describes a denied capability check.
type DeniedError struct {
	Name    string
	Variant string
}

func (e *DeniedError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("capability denied: %s", e.Name)
	}
	return fmt.Sprintf("capability denied: %s (%s)", e.Name, e.Variant)
}

// Is allows errors.Is(err, ErrDenied).
func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}

// DecisionStore persists evaluated outcomes.
type DecisionStore interface {
	Load() (decisionstore.Decisions, error)
	Save(decisionstore.Decisions) error
	ConfigPath() string
}

// DenialHandler is called when a capability is denied.
// It allows custom logging or auditing.
type DenialHandler func(ctx context.Context, caller, name string)

// Checker evaluates capabilities by name.
type Checker struct {
	registry      registry.CapabilityRegistry
	policy        policy.Policy
	store         DecisionStore
	logger        *slog.Logger
	denialHandler DenialHandler
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithRegistry sets the capability registry.
func WithRegistry(r registry.CapabilityRegistry) CheckerOption {
	return func(c *Checker) {
		c.registry = r
	}
}

// WithPolicy sets the policy used for checks.
func WithPolicy(p policy.Policy) CheckerOption {
	return func(c *Checker) {
		c.policy = p
	}
}

// WithDecisionStore records EvaluateAll results in s.
func WithDecisionStore(s DecisionStore) CheckerOption {
	return func(c *Checker) {
		c.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = l
	}
}

// WithDenialHandler sets the handler for denied capabilities.
func WithDenialHandler(h DenialHandler) CheckerOption {
	return func(c *Checker) {
		c.denialHandler = h
	}
}

// NewChecker creates a Checker. Without options it knows the default
// "foo" and "bar" bindings and logs denials with slog.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.registry == nil {
		c.registry = registry.NewRegistry(registry.WithDefaults())
	}
	if c.policy == nil {
		c.policy = policy.NewPolicy(policy.WithDenialHandler(&policy.SlogDenialHandler{Logger: c.logger}))
	}
	return c
}

// Registry returns the underlying registry.
func (c *Checker) Registry() registry.CapabilityRegistry {
	return c.registry
}

// Evaluate returns the answer of the capability bound to name without
// reporting denials.
func (c *Checker) Evaluate(ctx context.Context, name string) (bool, error) {
	target, ok := c.registry.Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	return c.policy.Evaluate(target), nil
}

// Check returns nil when the capability bound to name answers true.
func (c *Checker) Check(ctx context.Context, name string) error {
	target, ok := c.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	if c.policy.Check(name, target) {
		return nil
	}

	caller, _ := CallerNameFromContext(ctx)
	c.logger.DebugContext(ctx, "capability check denied", "name", name, "caller", caller)
	if c.denialHandler != nil {
		c.denialHandler(ctx, caller, name)
	}

	denied := &DeniedError{Name: name}
	if v, ok := capability.VariantOf(target); ok {
		denied.Variant = v.String()
	}
	return denied
}

// EvaluateAll evaluates every registered capability. When a decision store is
// configured the results are merged into it and saved.
func (c *Checker) EvaluateAll(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, name := range c.registry.List() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		allowed, err := c.Evaluate(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = allowed
	}

	if c.store == nil {
		return out, nil
	}

	decisions, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading decisions: %w", err)
	}
	if decisions == nil {
		decisions = decisionstore.Decisions{}
	}
	for name, allowed := range out {
		decisions.Record(name, allowed)
	}
	if err := c.store.Save(decisions); err != nil {
		return nil, fmt.Errorf("saving decisions: %w", err)
	}
	c.logger.InfoContext(ctx, "capability decisions saved", "path", c.store.ConfigPath(), "count", len(out))
	return out, nil
}

// Context helpers for caller name propagation
type callerContextKey struct {
	name string
}

var callerNameContextKey = &callerContextKey{name: "caller_name"}

// WithCallerName adds the caller name to the context.
func WithCallerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, callerNameContextKey, name)
}

// CallerNameFromContext retrieves the caller name from the context.
func CallerNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(callerNameContextKey).(string)
	return name, ok
}
