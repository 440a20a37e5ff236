package di

import (
	"reflect"
	"strings"
)

// DefaultTag is the struct tag read by [StructTagHints].
const DefaultTag = "inject"

// TypeHintSource supplies the declared types of injection points. The
// container asks it for a struct's eagerly injected properties, for the type
// of a named property, and for the type of a constructor parameter.
type TypeHintSource interface {
	// Properties returns the fields of owner injected on construction.
	Properties(owner reflect.Type) []string
	// PropertyType returns the type resolved for the named field.
	PropertyType(owner reflect.Type, property string) (reflect.Type, bool)
	// ParameterType returns the type resolved for parameter index of ctor,
	// the constructor registered for owner.
	ParameterType(owner, ctor reflect.Type, index int) (reflect.Type, bool)
}

// StructTagHints reads hints from Go type information. A field is injected
// when it carries the tag (any value other than "-"); its declared type is
// the type resolved, or T for a [Lazy] field. Constructor parameters resolve
// to their declared types.
type StructTagHints struct {
	tag string
}

// NewStructTagHints returns hints keyed on the given struct tag.
func NewStructTagHints(tag string) StructTagHints {
	if tag == "" {
		tag = DefaultTag
	}
	return StructTagHints{tag: tag}
}

// Properties returns the tagged fields of owner (or of the struct owner
// points to) in declaration order.
func (h StructTagHints) Properties(owner reflect.Type) []string {
	st := structOf(owner)
	if st == nil {
		return nil
	}
	var names []string
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if v, ok := f.Tag.Lookup(h.tag); ok && strings.TrimSpace(v) != "-" {
			names = append(names, f.Name)
		}
	}
	return names
}

func (h StructTagHints) PropertyType(owner reflect.Type, property string) (reflect.Type, bool) {
	st := structOf(owner)
	if st == nil {
		return nil, false
	}
	f, ok := st.FieldByName(property)
	if !ok {
		return nil, false
	}
	if lz, ok := reflect.New(f.Type).Interface().(lazyBinder); ok {
		return lz.elemType(), true
	}
	return f.Type, true
}

func (h StructTagHints) ParameterType(_, ctor reflect.Type, index int) (reflect.Type, bool) {
	if ctor == nil || ctor.Kind() != reflect.Func || index < 0 || index >= ctor.NumIn() {
		return nil, false
	}
	return ctor.In(index), true
}

func structOf(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
