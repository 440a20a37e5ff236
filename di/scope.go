package di

import (
	"reflect"
	"sync"

	"github.com/kbukum/typeioc/errors"
)

// Provider produces one instance on demand.
type Provider func() (any, error)

// Scope is an object-lifetime policy applied uniformly by the container.
type Scope interface {
	// Name identifies the scope in logs, metrics and introspection.
	Name() string
	// Reset drops any instance cached for t.
	Reset(t reflect.Type)
	// Resolve returns an instance for t, calling p as the policy requires.
	Resolve(p Provider, t reflect.Type) (any, error)
}

// LocalScope creates a new instance on every request.
type LocalScope struct{}

// Local is the shared LocalScope value.
var Local Scope = LocalScope{}

func (LocalScope) Name() string { return "local" }

func (LocalScope) Reset(reflect.Type) {}

func (LocalScope) Resolve(p Provider, t reflect.Type) (any, error) {
	if p == nil {
		return nil, errors.InvalidArgument("provider", "no provider bound for "+typeName(t))
	}
	return p()
}

// SingletonScope caches exactly one instance per canonical type, created on
// first request.
type SingletonScope struct {
	mu        sync.Mutex
	instances map[reflect.Type]any
	// generation is bumped by Reset so an instance built from a replaced
	// provider is never stored.
	generation map[reflect.Type]uint64
}

// NewSingletonScope creates an empty singleton scope. Every container owns
// one, see [Container.Singleton].
func NewSingletonScope() *SingletonScope {
	return &SingletonScope{
		instances:  make(map[reflect.Type]any),
		generation: make(map[reflect.Type]uint64),
	}
}

func (s *SingletonScope) Name() string { return "singleton" }

func (s *SingletonScope) Reset(t reflect.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, t)
	s.generation[t]++
}

// Resolve returns the cached instance for t or builds it with p. The
// provider runs without the lock held so it can resolve other singletons;
// when two callers race, the first stored instance wins and is returned to
// both. Provider errors are not cached.
func (s *SingletonScope) Resolve(p Provider, t reflect.Type) (any, error) {
	s.mu.Lock()
	if instance, ok := s.instances[t]; ok {
		s.mu.Unlock()
		return instance, nil
	}
	gen := s.generation[t]
	s.mu.Unlock()

	if p == nil {
		return nil, errors.InvalidArgument("provider", "no provider bound for "+typeName(t))
	}
	instance, err := p()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.instances[t]; ok {
		return existing, nil
	}
	if s.generation[t] == gen {
		s.instances[t] = instance
	}
	return instance, nil
}

// Cached reports whether an instance for t is currently cached.
func (s *SingletonScope) Cached(t reflect.Type) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.instances[t]
	return ok
}

func isSingleton(s Scope) bool {
	_, ok := s.(*SingletonScope)
	return ok
}
