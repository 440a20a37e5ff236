package di

import (
	"reflect"

	"github.com/kbukum/typeioc/errors"
)

// Lazy is a struct field resolved on first access instead of at
// construction. The first Get resolves T through the container and caches
// the result for the owning instance; later Gets return the cached value.
// Set overrides the cached value.
//
//	type Service struct {
//	    Log di.Lazy[*Logger] `inject:""`
//	}
type Lazy[T any] struct {
	resolve ValueFunc
	store   MetadataStore
	owner   any
	key     string

	value T
	set   bool
}

// lazyBinder lets the container wire a Lazy field without knowing T.
type lazyBinder interface {
	bind(resolve ValueFunc, store MetadataStore, owner any, key string)
	elemType() reflect.Type
}

func (l *Lazy[T]) bind(resolve ValueFunc, store MetadataStore, owner any, key string) {
	l.resolve, l.store, l.owner, l.key = resolve, store, owner, key
}

func (l *Lazy[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Get returns the cached value, resolving it on first access.
func (l *Lazy[T]) Get() (T, error) {
	var zero T
	if v, ok := l.cached(); ok {
		return v, nil
	}
	if l.resolve == nil {
		return zero, errors.InvalidArgument("lazy", "value of "+reflect.TypeFor[T]().String()+" was not injected by a container")
	}

	v, err := l.resolve()
	if err != nil {
		return zero, err
	}
	out, err := coerce(reflect.TypeFor[T](), v)
	if err != nil {
		return zero, err
	}
	result, _ := out.Interface().(T)
	l.Set(result)
	return result, nil
}

// MustGet is Get that panics on error.
func (l *Lazy[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Set replaces the value; later Gets return it without resolving.
func (l *Lazy[T]) Set(v T) {
	if l.store != nil {
		l.store.Set(l.owner, l.key, v)
		return
	}
	l.value, l.set = v, true
}

func (l *Lazy[T]) cached() (T, bool) {
	if l.store == nil {
		return l.value, l.set
	}
	v, ok := l.store.Get(l.owner, l.key)
	if !ok {
		var zero T
		return zero, false
	}
	result, _ := v.(T)
	return result, true
}
