package di

import (
	"reflect"
	"sync"

	"github.com/kbukum/typeioc/errors"
	"github.com/kbukum/typeioc/logger"
)

// snapshotTable holds at most one saved state per canonical type.
type snapshotTable struct {
	mu      sync.Mutex
	entries map[reflect.Type]savedState
}

func newSnapshotTable() *snapshotTable {
	return &snapshotTable{entries: make(map[reflect.Type]savedState)}
}

func (s *snapshotTable) put(t reflect.Type, st savedState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[t] = st
}

func (s *snapshotTable) get(t reflect.Type) (savedState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[t]
	return st, ok
}

// Snapshot saves the provider and scope of t's binding, creating the binding
// if needed. A later snapshot of the same type overwrites the earlier one.
func (c *Container) Snapshot(t reflect.Type) error {
	b := c.Bind(t)
	if b.source == nil {
		return b.Err()
	}
	c.snapshots.put(b.source, b.save())
	c.log.Debug("binding snapshotted", logger.TypeFields("snapshot", b.source))
	return nil
}

// Restore returns t's binding to the provider and scope saved by the last
// Snapshot. Cached singleton instances of t are dropped. The snapshot stays
// in place, so Restore may be called repeatedly.
func (c *Container) Restore(t reflect.Type) error {
	canonical, err := ResolveCanonical(t)
	if err != nil {
		return err
	}
	saved, ok := c.snapshots.get(canonical)
	if !ok {
		return errors.NotSnapshotted(typeName(canonical))
	}
	b := c.Bind(canonical)
	b.restore(saved)
	c.log.Debug("binding restored", logger.TypeFields("restore", canonical))
	return nil
}

func (b *Binding) restore(saved savedState) {
	b.mu.Lock()
	old := b.scope
	b.target = saved.target
	b.provider = saved.provider
	b.scope = saved.scope
	b.blocked = saved.scope != nil && isSingleton(saved.scope)
	b.mu.Unlock()

	if old != nil {
		old.Reset(b.source)
	}
	if saved.scope != nil {
		saved.scope.Reset(b.source)
	}
}
