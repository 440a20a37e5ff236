package di

import (
	"reflect"
	"sync"
)

var defaultContainer = sync.OnceValue(func() *Container { return New() })

// Default returns the process-wide container used by the package-level
// functions. Prefer passing an explicit *Container where possible.
func Default() *Container {
	return defaultContainer()
}

// Bind is Default().Bind.
func Bind(t reflect.Type) *Binding { return Default().Bind(t) }

// Get is Default().Get.
func Get(t reflect.Type) (any, error) { return Default().Get(t) }

// GetType is Default().GetType.
func GetType(t reflect.Type) (reflect.Type, error) { return Default().GetType(t) }

// Snapshot is Default().Snapshot.
func Snapshot(t reflect.Type) error { return Default().Snapshot(t) }

// Restore is Default().Restore.
func Restore(t reflect.Type) error { return Default().Restore(t) }
