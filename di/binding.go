package di

import (
	"context"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/typeioc/errors"
	"github.com/kbukum/typeioc/logger"
)

// ValueFunc produces the value of one injection point.
type ValueFunc func() (any, error)

// producer is the context-aware form of Provider and ValueFunc used inside
// the engine, so nested resolutions join the caller's trace.
type producer func(ctx context.Context) (any, error)

func fromProvider(p func() (any, error)) producer {
	return func(context.Context) (any, error) { return p() }
}

// paramSource is one constructor argument: a type resolved through the
// container, or a value function.
type paramSource struct {
	typ   reflect.Type
	value producer
}

// Binding is the mutable configuration of one canonical type. Configuration
// methods return the binding for chaining; the first configuration error is
// kept and reported by [Binding.Err] and by every later resolution of the
// binding.
type Binding struct {
	mu     sync.RWMutex
	engine *Container

	id        uuid.UUID
	createdAt time.Time
	source    reflect.Type

	target     reflect.Type
	provider   producer
	scope      Scope
	ctor       reflect.Value
	params     []paramSource
	properties map[string]producer
	blocked    bool

	err error
}

func newBinding(engine *Container, source reflect.Type) *Binding {
	return &Binding{
		engine:    engine,
		id:        uuid.New(),
		createdAt: time.Now(),
		source:    source,
	}
}

// failedBinding is returned by Bind for requests that never reach the
// registry (nil or unidentifiable types).
func failedBinding(engine *Container, err error) *Binding {
	return &Binding{engine: engine, err: err}
}

// ID returns the binding's unique identifier.
func (b *Binding) ID() uuid.UUID { return b.id }

// Source returns the canonical type this binding governs.
func (b *Binding) Source() reflect.Type { return b.source }

// Target returns the type instantiated for Source: the redirect target when
// one was set with To, otherwise Source.
func (b *Binding) Target() reflect.Type {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.target != nil {
		return b.target
	}
	return b.source
}

// ScopeName returns the name of the active scope, or "" before one is set.
func (b *Binding) ScopeName() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.scope == nil {
		return ""
	}
	return b.scope.Name()
}

// Err returns the first configuration error recorded on the binding.
func (b *Binding) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

func (b *Binding) fail(err error) *Binding {
	b.mu.Lock()
	if b.err == nil {
		b.err = err
	}
	b.mu.Unlock()
	b.engine.log.Warn("binding configuration rejected", logger.MergeWithError(logger.TypeFields("configure", b.source), err))
	return b
}

// To sets the type instantiated for this binding. Binding a type to itself
// installs a provider that constructs it (honouring WithParams and
// ToConstructor); binding to another type installs a live redirect that
// resolves target through the container on every request.
func (b *Binding) To(target reflect.Type) *Binding {
	if b.source == nil {
		return b
	}
	if target == nil {
		return b.fail(errors.InvalidArgument("target", "type is not defined"))
	}
	canonical, err := ResolveCanonical(target)
	if err != nil {
		return b.fail(err)
	}

	b.mu.Lock()
	b.target = canonical
	if canonical == b.source {
		b.provider = b.selfProvider()
	} else {
		b.provider = func(ctx context.Context) (any, error) { return b.engine.GetContext(ctx, target) }
	}
	scope := b.scope
	b.mu.Unlock()

	if scope != nil {
		scope.Reset(b.source)
	}
	b.engine.log.Debug("binding target set", logger.Fields(
		logger.FieldType, typeName(b.source),
		logger.FieldTarget, typeName(canonical),
		logger.FieldBindingID, b.id.String(),
	))
	return b
}

// Provider replaces the provider outright.
func (b *Binding) Provider(p Provider) *Binding {
	if b.source == nil {
		return b
	}
	if p == nil {
		return b.fail(errors.InvalidArgument("provider", "provider is not defined"))
	}
	b.setProvider(fromProvider(p))
	b.engine.log.Debug("binding provider replaced", logger.Fields(
		logger.FieldType, typeName(b.source),
		logger.FieldBindingID, b.id.String(),
	))
	return b
}

func (b *Binding) setProvider(p producer) {
	b.mu.Lock()
	b.provider = p
	scope := b.scope
	b.mu.Unlock()
	if scope != nil {
		scope.Reset(b.source)
	}
}

// Scope installs a lifetime policy. Switching to a singleton scope blocks
// direct instantiation of the type and clears the scope's cached instance;
// switching to any other scope lifts the block.
func (b *Binding) Scope(s Scope) *Binding {
	if b.source == nil {
		return b
	}
	if s == nil {
		return b.fail(errors.InvalidArgument("scope", "scope is not defined"))
	}
	b.mu.Lock()
	b.setScopeLocked(s)
	b.mu.Unlock()
	b.engine.log.Debug("binding scope set", logger.Fields(
		logger.FieldType, typeName(b.source),
		logger.FieldScope, s.Name(),
		logger.FieldBindingID, b.id.String(),
	))
	return b
}

func (b *Binding) setScopeLocked(s Scope) {
	b.scope = s
	b.blocked = isSingleton(s)
	if b.blocked {
		s.Reset(b.source)
	}
}

// WithParams sets the ordered list of types resolved and passed to the
// constructor, replacing automatic parameter discovery.
func (b *Binding) WithParams(types ...reflect.Type) *Binding {
	if b.source == nil {
		return b
	}
	params := make([]paramSource, 0, len(types))
	for i, t := range types {
		if t == nil {
			return b.fail(errors.InvalidArgument("params", "parameter type "+strconv.Itoa(i)+" is not defined"))
		}
		params = append(params, paramSource{typ: t})
	}
	b.mu.Lock()
	b.params = params
	b.mu.Unlock()
	return b
}

// ToConstructor sets the function used to build the type when it is bound to
// itself. ctor must be a non-variadic function returning T or (T, error).
func (b *Binding) ToConstructor(ctor any) *Binding {
	if b.source == nil {
		return b
	}
	fn, err := validateConstructor(ctor)
	if err != nil {
		return b.fail(err)
	}
	b.mu.Lock()
	b.ctor = fn
	b.mu.Unlock()
	return b
}

// prependParam adds a value function before the existing parameters.
// Declarative injection registers parameters from last to first, so
// prepending restores declaration order.
func (b *Binding) prependParam(p paramSource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params = append([]paramSource{p}, b.params...)
}

func (b *Binding) setProperty(name string, v producer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.properties == nil {
		b.properties = make(map[string]producer)
	}
	b.properties[name] = v
}

// ensureProvider binds the type to itself if no provider was installed.
// A binding without a provider has nothing cached, so no reset is needed.
func (b *Binding) ensureProvider() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.provider != nil {
		return
	}
	b.target = b.source
	b.provider = b.selfProvider()
}

// selfProvider constructs the binding's own type. The type is fixed when the
// provider is installed, so a snapshot of it keeps building that type after
// the binding is re-targeted.
func (b *Binding) selfProvider() producer {
	target := b.source
	return func(ctx context.Context) (any, error) { return b.engine.construct(ctx, b, target) }
}

func (b *Binding) info() RegistrationInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	info := RegistrationInfo{
		ID:          b.id.String(),
		Type:        typeName(b.source),
		Target:      typeName(b.source),
		HasProvider: b.provider != nil,
		Blocked:     b.blocked,
		CreatedAt:   b.createdAt,
	}
	if b.target != nil {
		info.Target = typeName(b.target)
	}
	if b.scope != nil {
		info.Scope = b.scope.Name()
	}
	return info
}

// getInstance resolves an instance through the active scope, installing the
// container's default scope first if none was set.
func (b *Binding) getInstance(ctx context.Context) (any, error) {
	b.mu.Lock()
	if b.err != nil {
		err := b.err
		b.mu.Unlock()
		return nil, err
	}
	if b.scope == nil {
		b.setScopeLocked(b.engine.defaultScope)
	}
	scope, produce := b.scope, b.provider
	b.mu.Unlock()

	var provider Provider
	if produce != nil {
		provider = func() (any, error) { return produce(ctx) }
	}
	return scope.Resolve(provider, b.source)
}

// savedState is the part of a binding captured by Snapshot.
type savedState struct {
	target   reflect.Type
	provider producer
	scope    Scope
}

func (b *Binding) save() savedState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return savedState{target: b.target, provider: b.provider, scope: b.scope}
}

// blueprint is an immutable copy of everything construct needs.
type blueprint struct {
	target     reflect.Type
	ctor       reflect.Value
	params     []paramSource
	properties map[string]producer
}

// blueprint copies the construction settings for target.
func (b *Binding) blueprint(target reflect.Type) blueprint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	props := make(map[string]producer, len(b.properties))
	for k, v := range b.properties {
		props[k] = v
	}
	var params []paramSource
	if b.params != nil {
		params = make([]paramSource, len(b.params))
		copy(params, b.params)
	}
	return blueprint{
		target:     target,
		ctor:       b.ctor,
		params:     params,
		properties: props,
	}
}

func (b *Binding) isBlocked() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.blocked
}

