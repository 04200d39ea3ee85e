package capmark_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	capmark "github.com/reglet-dev/reglet-capmark"
	"github.com/reglet-dev/reglet-capmark/capability"
	"github.com/reglet-dev/reglet-capmark/decisionstore"
	"github.com/reglet-dev/reglet-capmark/policy"
	"github.com/reglet-dev/reglet-capmark/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietChecker(opts ...capmark.CheckerOption) *capmark.Checker {
	base := []capmark.CheckerOption{
		capmark.WithPolicy(policy.NewPolicy(policy.WithDenialHandler(&policy.NopDenialHandler{}))),
	}
	return capmark.NewChecker(append(base, opts...)...)
}

func TestChecker_Evaluate(t *testing.T) {
	c := quietChecker()
	ctx := context.Background()

	got, err := c.Evaluate(ctx, "foo")
	require.NoError(t, err)
	assert.False(t, got)

	got, err = c.Evaluate(ctx, "bar")
	require.NoError(t, err)
	assert.True(t, got)

	_, err = c.Evaluate(ctx, "baz")
	assert.ErrorIs(t, err, capmark.ErrUnknownCapability)
}

func TestChecker_Check(t *testing.T) {
	var denied []string
	c := quietChecker(capmark.WithDenialHandler(func(ctx context.Context, caller, name string) {
		denied = append(denied, caller+":"+name)
	}))
	ctx := capmark.WithCallerName(context.Background(), "deployer")

	assert.NoError(t, c.Check(ctx, "bar"))

	err := c.Check(ctx, "foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, capmark.ErrDenied)

	var de *capmark.DeniedError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "foo", de.Name)
	assert.Equal(t, "foo", de.Variant)
	assert.Equal(t, "capability denied: foo (foo)", de.Error())

	assert.ErrorIs(t, c.Check(ctx, "nope"), capmark.ErrUnknownCapability)
	assert.Equal(t, []string{"deployer:foo"}, denied)
}

func TestChecker_RepeatedAndInterleaved(t *testing.T) {
	c := quietChecker()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, c.Check(ctx, "foo"), capmark.ErrDenied)
		assert.NoError(t, c.Check(ctx, "bar"))
	}
	for i := 0; i < 5; i++ {
		assert.NoError(t, c.Check(ctx, "bar"))
		assert.ErrorIs(t, c.Check(ctx, "foo"), capmark.ErrDenied)
	}
}

func TestChecker_CustomRegistry(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register("release/prod", capability.Foo{}))
	require.NoError(t, reg.Register("release/staging", capability.Bar{}))

	c := quietChecker(capmark.WithRegistry(reg))
	assert.Same(t, reg, c.Registry())

	ctx := context.Background()
	assert.ErrorIs(t, c.Check(ctx, "release/prod"), capmark.ErrDenied)
	assert.NoError(t, c.Check(ctx, "release/staging"))
	assert.ErrorIs(t, c.Check(ctx, "foo"), capmark.ErrUnknownCapability)
}

func TestChecker_DefaultPolicyLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := capmark.NewChecker(capmark.WithLogger(logger))

	assert.Error(t, c.Check(context.Background(), "foo"))
	assert.Contains(t, buf.String(), "capability denied")
}

func TestChecker_EvaluateAll(t *testing.T) {
	c := quietChecker()
	got, err := c.EvaluateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"foo": false, "bar": true}, got)
}

func TestChecker_EvaluateAllRecordsDecisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.yaml")
	store := decisionstore.NewFileStore(decisionstore.WithPath(path))
	require.NoError(t, store.Save(decisionstore.Decisions{"legacy": true}))

	c := quietChecker(capmark.WithDecisionStore(store))
	_, err := c.EvaluateAll(context.Background())
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, decisionstore.Decisions{"legacy": true, "foo": false, "bar": true}, loaded)
}

func TestChecker_EvaluateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietChecker().EvaluateAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallerNameFromContext(t *testing.T) {
	_, ok := capmark.CallerNameFromContext(context.Background())
	assert.False(t, ok)

	name, ok := capmark.CallerNameFromContext(capmark.WithCallerName(context.Background(), "svc"))
	require.True(t, ok)
	assert.Equal(t, "svc", name)
}

// emptyStore returns a nil Decisions map from Load.
type emptyStore struct {
	saved decisionstore.Decisions
}

func (s *emptyStore) Load() (decisionstore.Decisions, error) { return nil, nil }
func (s *emptyStore) Save(d decisionstore.Decisions) error    { s.saved = d; return nil }
func (s *emptyStore) ConfigPath() string                      { return "memory" }

func TestChecker_EvaluateAllNilDecisions(t *testing.T) {
	store := &emptyStore{}
	c := quietChecker(capmark.WithDecisionStore(store))

	got, err := c.EvaluateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"foo": false, "bar": true}, got)
	assert.Equal(t, decisionstore.Decisions{"foo": false, "bar": true}, store.saved)
}

// staticRegistry hands back whatever capability it holds, nil pointers included.
type staticRegistry struct {
	name string
	c    capability.Capability
}

func (r *staticRegistry) Register(string, capability.Capability) error { return nil }
func (r *staticRegistry) Lookup(name string) (capability.Capability, bool) {
	return r.c, name == r.name
}
func (r *staticRegistry) List() []string                 { return []string{r.name} }
func (r *staticRegistry) Match(string) ([]string, error) { return []string{r.name}, nil }

func TestChecker_NilPointerCapability(t *testing.T) {
	c := quietChecker(capmark.WithRegistry(&staticRegistry{name: "broken", c: (*capability.Bar)(nil)}))
	ctx := context.Background()

	got, err := c.Evaluate(ctx, "broken")
	require.NoError(t, err)
	assert.False(t, got)

	err = c.Check(ctx, "broken")
	assert.ErrorIs(t, err, capmark.ErrDenied)

	var de *capmark.DeniedError
	require.True(t, errors.As(err, &de))
	assert.Empty(t, de.Variant)
}
