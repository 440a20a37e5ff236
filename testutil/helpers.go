package testutil

import (
	"reflect"
	"testing"

	"github.com/kbukum/typeioc/di"
)

// THelper provides testing.T integration for overrides.
type THelper struct {
	t       testing.TB
	manager *Manager
}

// T wraps a test and a container. All overrides made through the helper are
// restored when the test ends.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    h := testutil.T(t, c)
//	    h.OverrideValue(di.Key[Store](), &fakeStore{})
//	}
func T(t testing.TB, c *di.Container) *THelper {
	t.Helper()
	h := &THelper{t: t, manager: NewManager(c)}
	t.Cleanup(func() {
		if err := h.manager.RestoreAll(); err != nil {
			t.Errorf("failed to restore bindings: %v", err)
		}
	})
	return h
}

// Override replaces t's provider for the rest of the test.
func (h *THelper) Override(t reflect.Type, p di.Provider) *THelper {
	h.t.Helper()
	if err := h.manager.Override(t, p); err != nil {
		h.t.Fatalf("failed to override %s: %v", t, err)
	}
	return h
}

// OverrideValue makes t resolve to v for the rest of the test.
func (h *THelper) OverrideValue(t reflect.Type, v any) *THelper {
	h.t.Helper()
	if err := h.manager.OverrideValue(t, v); err != nil {
		h.t.Fatalf("failed to override %s: %v", t, err)
	}
	return h
}

// Isolate snapshots each type so any change the test makes to its binding,
// through the helper or not, is undone at the end of the test.
func (h *THelper) Isolate(types ...reflect.Type) *THelper {
	h.t.Helper()
	for _, t := range types {
		if err := h.manager.Track(t); err != nil {
			h.t.Fatalf("failed to isolate %s: %v", t, err)
		}
	}
	return h
}

// Resolve resolves T from the helper's container, failing the test on error.
func Resolve[T any](h *THelper) T {
	h.t.Helper()
	v, err := di.Resolve[T](h.manager.Container())
	if err != nil {
		h.t.Fatalf("failed to resolve %s: %v", reflect.TypeFor[T](), err)
	}
	return v
}
