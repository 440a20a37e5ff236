// Package di is a type-keyed dependency injection registry.
//
// Every requested type is normalized to its canonical, declared type and
// mapped to exactly one [Binding]: a provider plus a [Scope] that decides
// whether the provider runs on every request or only once. Bindings are
// created lazily the first time a type is bound or resolved, so any struct
// type is resolvable without registration.
//
// # Binding
//
//	c := di.New()
//	c.Bind(reflect.TypeFor[Store]()).To(reflect.TypeFor[MemStore]())
//	c.Bind(reflect.TypeFor[Clock]()).Scope(c.Singleton())
//	c.Bind(reflect.TypeFor[Service]()).ToConstructor(NewService)
//
// # Resolution
//
//	svc, err := di.Resolve[*Service](c)
//
// Constructor arguments and fields tagged `inject:""` are resolved through
// the same container, depth first and left to right. Fields of type
// [Lazy] are resolved on first access and cached per instance.
//
// # Singletons
//
// A type bound to the singleton scope may only be obtained from the
// container. Constructors guard themselves with [Container.AssertConstructible]
// and [Container.Construct] refuses to build such types directly.
//
// Circular constructor dependencies are not detected; they recurse until the
// goroutine stack is exhausted.
package di
