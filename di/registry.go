package di

import (
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/typeioc/errors"
)

// registry maps canonical types to their bindings. It is the only place
// bindings are created.
type registry struct {
	mu       sync.RWMutex
	engine   *Container
	bindings map[reflect.Type]*Binding
}

func newRegistry(engine *Container) *registry {
	return &registry{
		engine:   engine,
		bindings: make(map[reflect.Type]*Binding),
	}
}

// isBound reports whether a binding exists for t's canonical type.
func (r *registry) isBound(t reflect.Type) (bool, error) {
	_, ok, err := r.lookup(t)
	return ok, err
}

func (r *registry) lookup(t reflect.Type) (*Binding, bool, error) {
	canonical, err := ResolveCanonical(t)
	if err != nil {
		return nil, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[canonical]
	return b, ok, nil
}

// bind returns the binding for t's canonical type, creating an empty one
// (no provider, no scope) on first use. The boolean reports creation.
func (r *registry) bind(t reflect.Type) (*Binding, bool, error) {
	canonical, err := ResolveCanonical(t)
	if err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	b, ok := r.bindings[canonical]
	r.mu.RUnlock()
	if ok {
		return b, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Double-check pattern
	if b, ok := r.bindings[canonical]; ok {
		return b, false, nil
	}
	b = newBinding(r.engine, canonical)
	r.bindings[canonical] = b
	return b, true, nil
}

// canonicalTarget returns the type instantiated for t. It never creates a
// binding.
func (r *registry) canonicalTarget(t reflect.Type) (reflect.Type, error) {
	b, ok, err := r.lookup(t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotRegistered(typeName(t))
	}
	return b.Target(), nil
}

// all returns every binding ordered by source type name.
func (r *registry) all() []*Binding {
	r.mu.RLock()
	out := make([]*Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].source.String() < out[j].source.String()
	})
	return out
}
