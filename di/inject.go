package di

import (
	"context"
	"reflect"
	"sort"
	"strconv"

	"github.com/kbukum/typeioc/errors"
	"github.com/kbukum/typeioc/logger"
)

// InjectParamValue registers a value function for the next-earlier
// constructor parameter of target. Parameters are registered from last to
// first; each registration is prepended, so the final list is in
// declaration order. Once any parameter is registered, the list replaces
// hint-based parameter discovery for target.
func (c *Container) InjectParamValue(target reflect.Type, value ValueFunc) error {
	if value == nil {
		return errors.InvalidArgument("value", "value function is not defined")
	}
	b, _, err := c.registry.bind(target)
	if err != nil {
		return err
	}
	b.prependParam(paramSource{value: fromProvider(value)})
	return nil
}

// InjectParam registers constructor parameter index of target. The value is
// resolved through the container as explicit, or as the hinted type of the
// parameter when explicit is nil. The hint is looked up at construction,
// so the constructor may be set after the parameter.
func (c *Container) InjectParam(target reflect.Type, index int, explicit reflect.Type) error {
	if index < 0 {
		return errors.InvalidArgument("index", "parameter index must not be negative")
	}
	b, _, err := c.registry.bind(target)
	if err != nil {
		return err
	}
	b.prependParam(paramSource{value: func(ctx context.Context) (any, error) {
		t := explicit
		if t == nil {
			bp := b.blueprint(b.source)
			var ok bool
			if bp.ctor.IsValid() {
				t, ok = c.hints.ParameterType(bp.target, bp.ctor.Type(), index)
			}
			if !ok {
				return nil, errors.MissingTypeHint(typeName(b.source), "parameter "+strconv.Itoa(index))
			}
		}
		return c.GetContext(ctx, t)
	}})
	return nil
}

// InjectPropertyValue registers a value function for the named field of
// target, overriding hint-based resolution of that field.
func (c *Container) InjectPropertyValue(target reflect.Type, property string, value ValueFunc) error {
	if property == "" {
		return errors.InvalidArgument("property", "property name is empty")
	}
	if value == nil {
		return errors.InvalidArgument("value", "value function is not defined")
	}
	b, _, err := c.registry.bind(target)
	if err != nil {
		return err
	}
	b.setProperty(property, fromProvider(value))
	return nil
}

// InjectProperty registers the named field of target for injection. The
// value is resolved as explicit, or as the hinted type of the field when
// explicit is nil.
func (c *Container) InjectProperty(target reflect.Type, property string, explicit reflect.Type) error {
	canonical, err := ResolveCanonical(target)
	if err != nil {
		return err
	}
	if property == "" {
		return errors.InvalidArgument("property", "property name is empty")
	}
	value := c.propertyValue(canonical, property)
	if explicit != nil {
		value = func(ctx context.Context) (any, error) { return c.GetContext(ctx, explicit) }
	}
	b, _, err := c.registry.bind(canonical)
	if err != nil {
		return err
	}
	b.setProperty(property, value)
	return nil
}

func (c *Container) propertyValue(owner reflect.Type, property string) producer {
	return func(ctx context.Context) (any, error) {
		t, ok := c.hints.PropertyType(owner, property)
		if !ok {
			return nil, errors.MissingTypeHint(typeName(owner), "property "+property)
		}
		return c.GetContext(ctx, t)
	}
}

// injectProperties assigns the hinted and registered properties of a
// constructed struct pointer. Lazy fields are wired to resolve on first
// access; all others are resolved now.
func (c *Container) injectProperties(ctx context.Context, instance reflect.Value, registered map[string]producer) error {
	v := instance
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		if len(registered) > 0 {
			return errors.InvalidArgument("property", "instance of "+typeName(instance.Type())+" has no fields to inject")
		}
		return nil
	}
	elem := v.Elem()
	owner := elem.Type()

	for _, name := range propertyNames(c.hints.Properties(owner), registered) {
		field := elem.FieldByName(name)
		if !field.IsValid() {
			return errors.InvalidArgument("property", name+" is not a field of "+typeName(owner))
		}
		if !field.CanSet() {
			return errors.InvalidArgument("property", name+" of "+typeName(owner)+" is unexported")
		}
		value := registered[name]
		if value == nil {
			value = c.propertyValue(owner, name)
		}

		if lz, ok := field.Addr().Interface().(lazyBinder); ok {
			// resolved after construction, outside the caller's trace
			lz.bind(func() (any, error) { return value(context.Background()) }, c.store, v.Interface(), name)
			continue
		}
		got, err := value(ctx)
		if err != nil {
			return err
		}
		out, err := coerce(field.Type(), got)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return appErr.WithDetail("property", owner.String()+"."+name)
			}
			return err
		}
		field.Set(out)
		c.log.Debug("property injected", logger.Fields(
			logger.FieldType, typeName(owner),
			logger.FieldProperty, name,
		))
	}
	return nil
}

// propertyNames merges hinted names (in declaration order) with registered
// names not already present (sorted).
func propertyNames(hinted []string, registered map[string]producer) []string {
	seen := make(map[string]bool, len(hinted))
	names := make([]string, 0, len(hinted)+len(registered))
	for _, n := range hinted {
		seen[n] = true
		names = append(names, n)
	}
	var extra []string
	for n := range registered {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
