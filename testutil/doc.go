// Package testutil overrides container bindings for the duration of a test.
//
// Overrides are built on [di.Container.Snapshot] and [di.Container.Restore]:
// the first override of a type snapshots its binding, and cleanup restores
// every overridden type in reverse order.
//
// # Quick Start
//
//	func TestCheckout(t *testing.T) {
//	    testutil.T(t, container).OverrideValue(di.Key[PaymentGateway](), fakeGateway)
//	    // binding is restored when the test ends
//	}
//
// Outside testing.T, use a Manager directly:
//
//	m := testutil.NewManager(container)
//	m.Override(di.Key[Clock](), fixedClock)
//	defer m.RestoreAll()
//
// # Thread Safety
//
// Manager operations are thread-safe. Overrides change the shared container,
// so tests overriding the same container must not run in parallel.
package testutil
