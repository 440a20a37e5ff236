package di

import (
	"reflect"

	"github.com/kbukum/typeioc/errors"
)

// Wrapper marks a struct type as a wrapper around another type. A wrapper
// declares Wrapper as its first, embedded field and the wrapped type as its
// second field; lookups through the wrapper resolve to the wrapped type's
// binding.
type Wrapper struct{}

// Wrapped decorates T without changing its identity in the container:
// Wrapped[T], *Wrapped[T] and T all share one binding.
type Wrapped[T any] struct {
	Wrapper
	Inner T
}

var wrapperType = reflect.TypeFor[Wrapper]()

// IsWrapper reports whether t is a wrapper type.
func IsWrapper(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct || t.NumField() < 2 {
		return false
	}
	f := t.Field(0)
	return f.Anonymous && f.Type == wrapperType
}

// isNamed reports whether t carries a stable declared name.
func isNamed(t reflect.Type) bool {
	return t.Name() != "" && !IsWrapper(t)
}

// parentOf follows the single-step back-reference from t to the type it
// stands for, or returns nil when there is none.
func parentOf(t reflect.Type) reflect.Type {
	switch {
	case t.Kind() == reflect.Pointer:
		return t.Elem()
	case IsWrapper(t):
		return t.Field(1).Type
	default:
		return nil
	}
}

// ResolveCanonical returns the declared type t stands for: t itself when it
// is named, otherwise the first named type reached by following pointer
// element and wrapper links.
func ResolveCanonical(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, errors.InvalidArgument("type", "type is not defined")
	}
	seen := make(map[reflect.Type]bool)
	for cur := t; cur != nil && !seen[cur]; cur = parentOf(cur) {
		if isNamed(cur) {
			return cur, nil
		}
		seen[cur] = true
	}
	return nil, errors.TypeIdentity(t.String())
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
