package di

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/typeioc/errors"
	"github.com/kbukum/typeioc/logger"
	"github.com/kbukum/typeioc/observability"
)

// Key returns the reflect.Type used to bind and resolve T.
//
// Example:
//
//	c.Bind(di.Key[Store]()).To(di.Key[MemoryStore]())
func Key[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// ToType binds b to T. It is shorthand for b.To(Key[T]()).
func ToType[T any](b *Binding) *Binding {
	return b.To(Key[T]())
}

// Resolve resolves T with type safety, returns error on failure.
// A *T instance satisfies a request for a struct type T by copy.
//
// Example:
//
//	store, err := di.Resolve[Store](c)
//	if err != nil {
//	    return fmt.Errorf("failed to get store: %w", err)
//	}
func Resolve[T any](c *Container) (T, error) {
	return ResolveContext[T](context.Background(), c)
}

// ResolveContext is Resolve with a context carrying the parent span.
func ResolveContext[T any](ctx context.Context, c *Container) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	instance, err := c.GetContext(ctx, t)
	if err != nil {
		return zero, err
	}
	out, err := coerce(t, instance)
	if err != nil {
		return zero, err
	}
	result, _ := out.Interface().(T)
	return result, nil
}

// MustResolve resolves T, panics on error.
// Use this during wiring when a missing dependency is a programming error.
func MustResolve[T any](c *Container) T {
	result, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", reflect.TypeFor[T](), err))
	}
	return result
}

// TryResolve resolves T, returns zero value and false on failure.
// Use this when a dependency is optional.
//
// Example:
//
//	if m, ok := di.TryResolve[*Metrics](c); ok {
//	    m.Record(...)
//	}
func TryResolve[T any](c *Container) (T, bool) {
	result, err := Resolve[T](c)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}

// Construct builds a zero *T directly, refusing when T is bound to a
// singleton scope and the container is not the caller.
func Construct[T any](c *Container) (*T, error) {
	instance, err := c.Construct(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return instance.(*T), nil
}

// construct builds one instance of a self-bound type: arguments first,
// left to right, then the constructor call, then property injection.
func (c *Container) construct(ctx context.Context, b *Binding, target reflect.Type) (_ any, err error) {
	bp := b.blueprint(target)
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, observability.SpanConstruct,
			trace.WithAttributes(attribute.String(observability.AttrType, typeName(bp.target))))
		defer func() { observability.EndSpan(span, err) }()
	}

	args, err := c.arguments(ctx, bp)
	if err != nil {
		return nil, err
	}
	instance, err := c.instantiate(bp, args)
	if err != nil {
		return nil, err
	}
	if err = c.injectProperties(ctx, instance, bp.properties); err != nil {
		return nil, err
	}

	c.log.Debug("instance constructed", logger.TypeFields("construct", bp.target))
	if c.metrics != nil {
		c.metrics.RecordInstanceCreated(ctx, typeName(bp.target))
	}
	if !instance.IsValid() {
		return nil, nil
	}
	return instance.Interface(), nil
}

// arguments produces constructor arguments from the explicit parameter list
// when one is set, otherwise from the hints for each constructor parameter.
func (c *Container) arguments(ctx context.Context, bp blueprint) ([]any, error) {
	if bp.params != nil {
		args := make([]any, 0, len(bp.params))
		for _, p := range bp.params {
			var (
				v   any
				err error
			)
			if p.value != nil {
				v, err = p.value(ctx)
			} else {
				v, err = c.GetContext(ctx, p.typ)
			}
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return args, nil
	}

	if !bp.ctor.IsValid() {
		return nil, nil
	}
	ft := bp.ctor.Type()
	args := make([]any, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		pt, ok := c.hints.ParameterType(bp.target, ft, i)
		if !ok {
			return nil, errors.MissingTypeHint(typeName(bp.target), "parameter "+strconv.Itoa(i))
		}
		v, err := c.GetContext(ctx, pt)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (c *Container) instantiate(bp blueprint, args []any) (reflect.Value, error) {
	c.enter(bp.target)
	defer c.leave(bp.target)

	if bp.ctor.IsValid() {
		return callConstructor(bp.ctor, args)
	}
	if len(args) > 0 {
		return reflect.Value{}, errors.InvalidArgument("params",
			fmt.Sprintf("%s has no constructor accepting %d arguments, set one with ToConstructor", typeName(bp.target), len(args)))
	}
	if bp.target.Kind() == reflect.Interface {
		return reflect.Value{}, errors.InvalidArgument("type",
			"interface "+typeName(bp.target)+" cannot be instantiated, bind it to a concrete type")
	}
	return reflect.New(bp.target), nil
}

var errorType = reflect.TypeFor[error]()

// validateConstructor checks that ctor is a non-variadic function returning
// T or (T, error).
func validateConstructor(ctor any) (reflect.Value, error) {
	if ctor == nil {
		return reflect.Value{}, errors.InvalidArgument("constructor", "constructor is not defined")
	}
	fn := reflect.ValueOf(ctor)
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return reflect.Value{}, errors.InvalidArgument("constructor", fmt.Sprintf("expected a function, got %s", ft))
	}
	if ft.IsVariadic() {
		return reflect.Value{}, errors.InvalidArgument("constructor", "variadic constructors are not supported")
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0) != errorType:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return reflect.Value{}, errors.InvalidArgument("constructor", fmt.Sprintf("%s must return T or (T, error)", ft))
	}
	return fn, nil
}

// callConstructor calls fn with args, converting each to the declared
// parameter type.
func callConstructor(fn reflect.Value, args []any) (reflect.Value, error) {
	ft := fn.Type()
	if len(args) != ft.NumIn() {
		return reflect.Value{}, errors.InvalidArgument("params",
			fmt.Sprintf("constructor %s expects %d arguments, got %d", ft, ft.NumIn(), len(args)))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := coerce(ft.In(i), a)
		if err != nil {
			return reflect.Value{}, err
		}
		in[i] = v
	}
	return handleConstructorResults(fn.Call(in))
}

// handleConstructorResults splits (T) or (T, error) results.
func handleConstructorResults(results []reflect.Value) (reflect.Value, error) {
	if len(results) == 2 && !results[1].IsNil() {
		return reflect.Value{}, results[1].Interface().(error)
	}
	return results[0], nil
}

// coerce adapts v to want: as is when assignable, dereferenced when v is a
// pointer to an assignable value, the zero value for nil.
func coerce(want reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type().AssignableTo(want) {
		return rv.Elem(), nil
	}
	return reflect.Value{}, errors.TypeMismatch(want.String(), rv.Type().String())
}
