package testutil

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/typeioc/di"
)

// Manager tracks the bindings overridden on one container.
type Manager struct {
	container *di.Container

	mu    sync.Mutex
	types []reflect.Type
	seen  map[reflect.Type]bool
}

// NewManager creates a manager for c.
func NewManager(c *di.Container) *Manager {
	return &Manager{
		container: c,
		seen:      make(map[reflect.Type]bool),
	}
}

// Container returns the managed container.
func (m *Manager) Container() *di.Container {
	return m.container
}

// Track snapshots t's binding unless it is already tracked, so repeated
// overrides still restore the state from before the first one.
func (m *Manager) Track(t reflect.Type) error {
	canonical, err := di.ResolveCanonical(t)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[canonical] {
		return nil
	}
	if err := m.container.Snapshot(canonical); err != nil {
		return err
	}
	m.seen[canonical] = true
	m.types = append(m.types, canonical)
	return nil
}

// Override replaces t's provider until RestoreAll.
func (m *Manager) Override(t reflect.Type, p di.Provider) error {
	if err := m.Track(t); err != nil {
		return err
	}
	return m.container.Bind(t).Provider(p).Err()
}

// OverrideValue makes t resolve to v until RestoreAll.
func (m *Manager) OverrideValue(t reflect.Type, v any) error {
	return m.Override(t, func() (any, error) { return v, nil })
}

// Types returns the tracked types in tracking order.
func (m *Manager) Types() []reflect.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]reflect.Type, len(m.types))
	copy(result, m.types)
	return result
}

// RestoreAll restores every tracked type in reverse order and forgets them.
// Even if some restores fail, continues with the others and returns a
// combined error with all failures.
func (m *Manager) RestoreAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for i := len(m.types) - 1; i >= 0; i-- {
		t := m.types[i]
		if err := m.container.Restore(t); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", t, err))
		}
	}
	m.types = nil
	m.seen = make(map[reflect.Type]bool)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Cleanup is an alias for RestoreAll, provided for convenience.
func (m *Manager) Cleanup() error {
	return m.RestoreAll()
}
