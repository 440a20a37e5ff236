package testutil_test

import (
	"testing"

	"github.com/kbukum/typeioc/di"
	"github.com/kbukum/typeioc/testutil"
)

func TestT_RestoresOnCleanup(t *testing.T) {
	c := newContainer()

	t.Run("override", func(t *testing.T) {
		h := testutil.T(t, c).OverrideValue(di.Key[Gateway](), &fakeGateway{name: "fake"})
		if got := testutil.Resolve[Gateway](h).Charge(1); got != "fake" {
			t.Errorf("expected 'fake', got %q", got)
		}
	})

	if got := charge(t, c); got != "live" {
		t.Errorf("expected binding restored after subtest, got %q", got)
	}
}

func TestT_Isolate(t *testing.T) {
	c := newContainer()

	t.Run("direct change", func(t *testing.T) {
		testutil.T(t, c).Isolate(di.Key[Gateway]())
		c.Bind(di.Key[Gateway]()).Provider(func() (any, error) { return &fakeGateway{name: "direct"}, nil })
		if got := charge(t, c); got != "direct" {
			t.Errorf("expected 'direct', got %q", got)
		}
	})

	if got := charge(t, c); got != "live" {
		t.Errorf("expected binding restored after subtest, got %q", got)
	}
}
