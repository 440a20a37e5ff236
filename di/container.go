package di

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/typeioc/errors"
	"github.com/kbukum/typeioc/logger"
	"github.com/kbukum/typeioc/observability"
)

// Container is the binding registry and resolution engine. Create one with
// [New] at process start and pass it to the code that needs it; [Default]
// holds a process-wide instance for code that cannot.
type Container struct {
	registry  *registry
	snapshots *snapshotTable
	singleton *SingletonScope

	defaultScope Scope
	hints        TypeHintSource
	store        MetadataStore

	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ResolutionMetrics

	// inflight counts engine constructions per type; AssertConstructible
	// passes while a type is being built by the container.
	inflightMu sync.Mutex
	inflight   map[reflect.Type]int
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for binding and resolution events.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.log = l }
}

// WithTypeHints sets the source of declared property and parameter types.
func WithTypeHints(h TypeHintSource) Option {
	return func(c *Container) { c.hints = h }
}

// WithMetadataStore sets the per-instance store backing [Lazy] fields.
func WithMetadataStore(s MetadataStore) Option {
	return func(c *Container) { c.store = s }
}

// WithDefaultScope sets the scope installed on bindings resolved before any
// scope was chosen. The default is [Local].
func WithDefaultScope(s Scope) Option {
	return func(c *Container) { c.defaultScope = s }
}

// WithSingletonDefault makes the container's own singleton scope the default.
func WithSingletonDefault() Option {
	return func(c *Container) { c.defaultScope = c.singleton }
}

// WithTracer enables tracing. Every resolution, including the nested
// resolution of dependencies, gets a span, and every self construction gets a
// child span of its resolution.
func WithTracer(t trace.Tracer) Option {
	return func(c *Container) { c.tracer = t }
}

// WithMetrics enables resolution and construction metrics. Nested
// resolutions of dependencies and redirects are counted like top-level ones.
func WithMetrics(m *observability.ResolutionMetrics) Option {
	return func(c *Container) { c.metrics = m }
}

// New creates an empty container. The container binds itself, so
// constructors may declare a *Container parameter.
func New(opts ...Option) *Container {
	c := &Container{
		snapshots:    newSnapshotTable(),
		singleton:    NewSingletonScope(),
		defaultScope: Local,
		hints:        NewStructTagHints(DefaultTag),
		store:        NewMemoryMetadataStore(),
		log:          logger.Get("di"),
		inflight:     make(map[reflect.Type]int),
	}
	c.registry = newRegistry(c)
	for _, opt := range opts {
		opt(c)
	}

	c.Bind(reflect.TypeFor[Container]()).Provider(func() (any, error) { return c, nil })
	return c
}

// Singleton returns the container's singleton scope.
func (c *Container) Singleton() Scope {
	return c.singleton
}

// IsBound reports whether a binding exists for t's canonical type.
func (c *Container) IsBound(t reflect.Type) (bool, error) {
	return c.registry.isBound(t)
}

// Bind returns the binding for t, creating it on first use. A newly created
// binding is bound to its own type, so every bound type is resolvable
// without further configuration. Errors for nil or unidentifiable types are
// reported by the returned binding's Err.
func (c *Container) Bind(t reflect.Type) *Binding {
	b, created, err := c.registry.bind(t)
	if err != nil {
		c.log.Debug("bind rejected", logger.MergeWithError(logger.TypeFields("bind", t), err))
		return failedBinding(c, err)
	}
	if created {
		b.To(b.source)
	}
	return b
}

// Get returns an instance of t. An unbound type is bound to itself first.
// This is the single entry point used for constructor and property
// dependencies as well.
func (c *Container) Get(t reflect.Type) (any, error) {
	return c.GetContext(context.Background(), t)
}

// GetContext is Get with a context carrying the parent span.
func (c *Container) GetContext(ctx context.Context, t reflect.Type) (any, error) {
	start := time.Now()
	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, observability.SpanGet,
			trace.WithAttributes(attribute.String(observability.AttrType, typeName(t))))
	}

	b, instance, err := c.get(ctx, t)

	scope := ""
	if b != nil {
		scope = b.ScopeName()
	}
	if span != nil {
		span.SetAttributes(attribute.String(observability.AttrScope, scope))
		observability.EndSpan(span, err)
	}
	if c.metrics != nil {
		c.metrics.RecordResolve(ctx, typeName(t), scope, time.Since(start), string(errors.CodeOf(err)))
	}
	if err != nil {
		c.log.Debug("resolution failed", logger.MergeWithError(logger.TypeFields("get", t), err))
	}
	return instance, err
}

func (c *Container) get(ctx context.Context, t reflect.Type) (*Binding, any, error) {
	b, _, err := c.registry.bind(t)
	if err != nil {
		return nil, nil, err
	}
	b.ensureProvider()

	instance, err := b.getInstance(ctx)
	if err != nil && !errors.IsAppError(err) {
		err = errors.ProviderFailed(typeName(b.source), err)
	}
	return b, instance, err
}

// MustGet is Get that panics on error.
func (c *Container) MustGet(t reflect.Type) any {
	instance, err := c.Get(t)
	if err != nil {
		panic(err)
	}
	return instance
}

// GetType returns the type instantiated for t. It fails with
// ErrNotRegistered if t was never bound or resolved.
func (c *Container) GetType(t reflect.Type) (reflect.Type, error) {
	return c.registry.canonicalTarget(t)
}

// AssertConstructible fails with ErrIllegalInstantiation when t is bound to a
// singleton scope and the container is not currently constructing it.
// Constructors of singleton types call it to refuse direct use.
func (c *Container) AssertConstructible(t reflect.Type) error {
	b, ok, err := c.registry.lookup(t)
	if err != nil {
		return err
	}
	if !ok || !b.isBlocked() || c.constructing(b.source) {
		return nil
	}
	return errors.IllegalInstantiation(typeName(b.source))
}

// Construct builds a zero value of t's canonical type outside the container,
// subject to AssertConstructible. No dependencies are injected.
func (c *Container) Construct(t reflect.Type) (any, error) {
	canonical, err := ResolveCanonical(t)
	if err != nil {
		return nil, err
	}
	if err := c.AssertConstructible(canonical); err != nil {
		return nil, err
	}
	if canonical.Kind() == reflect.Interface {
		return nil, errors.InvalidArgument("type", "interface "+typeName(canonical)+" cannot be instantiated")
	}
	return reflect.New(canonical).Interface(), nil
}

func (c *Container) enter(t reflect.Type) {
	c.inflightMu.Lock()
	defer c.inflightMu.Unlock()
	c.inflight[t]++
}

func (c *Container) leave(t reflect.Type) {
	c.inflightMu.Lock()
	defer c.inflightMu.Unlock()
	if c.inflight[t]--; c.inflight[t] <= 0 {
		delete(c.inflight, t)
	}
}

func (c *Container) constructing(t reflect.Type) bool {
	c.inflightMu.Lock()
	defer c.inflightMu.Unlock()
	return c.inflight[t] > 0
}

// RegistrationInfo describes a binding for introspection.
type RegistrationInfo struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Target      string    `json:"target"`
	Scope       string    `json:"scope,omitempty"`
	HasProvider bool      `json:"has_provider"`
	Blocked     bool      `json:"direct_instantiation_blocked"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registrations returns info about every binding, ordered by type name.
func (c *Container) Registrations() []RegistrationInfo {
	bindings := c.registry.all()
	result := make([]RegistrationInfo, 0, len(bindings))
	for _, b := range bindings {
		result = append(result, b.info())
	}
	return result
}

// Registration returns the binding with the given ID.
func (c *Container) Registration(id uuid.UUID) (RegistrationInfo, bool) {
	for _, b := range c.registry.all() {
		if b.id == id {
			return b.info(), true
		}
	}
	return RegistrationInfo{}, false
}
