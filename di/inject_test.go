package di_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/typeioc/di"
)

func TestPropertyInjection_Eager(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Logger]()).Scope(c.Singleton())
	c.Bind(di.Key[Store]()).To(di.Key[MemoryStore]())
	c.Bind(di.Key[Repo]()).ToConstructor(NewRepo)

	svc := di.MustResolve[*Service](c)
	assert.Same(t, c.MustGet(di.Key[Logger]()), svc.Log)
	require.NotNil(t, svc.Repo)
	assert.Same(t, svc.Log, svc.Repo.Log)
	assert.Empty(t, svc.Note, "untagged fields are left alone")
}

func TestPropertyInjection_LazyCachedPerInstance(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Store]()).To(di.Key[MemoryStore]())
	c.Bind(di.Key[Repo]()).ToConstructor(NewRepo)

	var calls int
	c.Bind(di.Key[Clock]()).Provider(func() (any, error) {
		calls++
		return &Clock{ID: int64(calls)}, nil
	})

	a := di.MustResolve[*Service](c)
	b := di.MustResolve[*Service](c)
	assert.Zero(t, calls, "lazy fields are not resolved at construction")

	first := a.Clock.MustGet()
	assert.Same(t, first, a.Clock.MustGet())
	assert.Equal(t, 1, calls)

	other := b.Clock.MustGet()
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, calls)

	replacement := &Clock{ID: 99}
	a.Clock.Set(replacement)
	assert.Same(t, replacement, a.Clock.MustGet())
	assert.Same(t, other, b.Clock.MustGet())
	assert.Equal(t, 2, calls)
}

func TestLazy_Unbound(t *testing.T) {
	var l di.Lazy[*Clock]
	_, err := l.Get()
	assert.ErrorIs(t, err, di.ErrInvalidArgument)

	clock := &Clock{ID: 1}
	l.Set(clock)
	got, err := l.Get()
	require.NoError(t, err)
	assert.Same(t, clock, got)
}

type Config struct {
	DSN string
}

type Database struct {
	Config  *Config
	Primary Store
	Replica Store
}

func NewDatabase(cfg *Config, primary, replica Store) *Database {
	return &Database{Config: cfg, Primary: primary, Replica: replica}
}

func TestInjectParam_OrderIndependentOfRegistration(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Database]()).ToConstructor(NewDatabase)
	c.Bind(di.Key[Config]()).Provider(func() (any, error) { return &Config{DSN: "mem://"}, nil })

	// registered last parameter first
	require.NoError(t, c.InjectParam(di.Key[Database](), 2, di.Key[*FileStore]()))
	require.NoError(t, c.InjectParam(di.Key[Database](), 1, di.Key[*MemoryStore]()))
	require.NoError(t, c.InjectParam(di.Key[Database](), 0, nil))

	db := di.MustResolve[*Database](c)
	assert.Equal(t, "mem://", db.Config.DSN)
	assert.Equal(t, "memory", db.Primary.Name())
	assert.Equal(t, "file", db.Replica.Name())
}

func TestInjectParamValue(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Pair]()).ToConstructor(NewPair)
	require.NoError(t, c.InjectParamValue(di.Key[Pair](), func() (any, error) { return "b", nil }))
	require.NoError(t, c.InjectParamValue(di.Key[Pair](), func() (any, error) { return "a", nil }))

	p := di.MustResolve[*Pair](c)
	assert.Equal(t, "a", p.First)
	assert.Equal(t, "b", p.Second)

	assert.ErrorIs(t, c.InjectParamValue(di.Key[Pair](), nil), di.ErrInvalidArgument)
	assert.ErrorIs(t, c.InjectParam(di.Key[Pair](), -1, nil), di.ErrInvalidArgument)
}

func TestInjectParam_MissingHint(t *testing.T) {
	c := di.New()
	// no constructor, so the parameter type cannot be discovered
	require.NoError(t, c.InjectParam(di.Key[Pair](), 0, nil))
	_, err := c.Get(di.Key[Pair]())
	assert.ErrorIs(t, err, di.ErrMissingTypeHint)
}

type Mailer struct {
	Transport Store
	Log       *Logger
}

func TestInjectProperty(t *testing.T) {
	c := di.New()
	require.NoError(t, c.InjectProperty(di.Key[Mailer](), "Transport", di.Key[*FileStore]()))
	require.NoError(t, c.InjectProperty(di.Key[Mailer](), "Log", nil))

	m := di.MustResolve[*Mailer](c)
	assert.Equal(t, "file", m.Transport.Name())
	assert.NotNil(t, m.Log)
}

func TestInjectPropertyValue_Errors(t *testing.T) {
	c := di.New()
	assert.ErrorIs(t, c.InjectPropertyValue(di.Key[Mailer](), "", func() (any, error) { return nil, nil }), di.ErrInvalidArgument)
	assert.ErrorIs(t, c.InjectPropertyValue(di.Key[Mailer](), "Log", nil), di.ErrInvalidArgument)

	require.NoError(t, c.InjectPropertyValue(di.Key[Mailer](), "Missing", func() (any, error) { return nil, nil }))
	_, err := c.Get(di.Key[Mailer]())
	assert.ErrorIs(t, err, di.ErrInvalidArgument)
}

func TestInjectProperty_TypeMismatch(t *testing.T) {
	c := di.New()
	require.NoError(t, c.InjectPropertyValue(di.Key[Mailer](), "Log", func() (any, error) { return "text", nil }))
	_, err := c.Get(di.Key[Mailer]())
	assert.ErrorIs(t, err, di.ErrTypeMismatch)
}

// fixedHints declares every constructor parameter as *FileStore and no
// properties, so a custom hint source is visible in the result.
type fixedHints struct{}

func (fixedHints) Properties(reflect.Type) []string { return nil }

func (fixedHints) PropertyType(reflect.Type, string) (reflect.Type, bool) { return nil, false }

func (fixedHints) ParameterType(_, _ reflect.Type, _ int) (reflect.Type, bool) {
	return di.Key[*FileStore](), true
}

type Mirror struct {
	A, B Store
	Log  *Logger `inject:""`
}

func NewMirror(a, b Store) *Mirror { return &Mirror{A: a, B: b} }

func TestWithTypeHints(t *testing.T) {
	c := di.New(di.WithTypeHints(fixedHints{}))
	c.Bind(di.Key[Mirror]()).ToConstructor(NewMirror)

	m := di.MustResolve[*Mirror](c)
	assert.Equal(t, "file", m.A.Name())
	assert.Equal(t, "file", m.B.Name())
	assert.Nil(t, m.Log, "tags are ignored by a custom hint source")
}

func TestStructTagHints(t *testing.T) {
	h := di.NewStructTagHints("")

	assert.Equal(t, []string{"Log", "Repo", "Clock"}, h.Properties(di.Key[*Service]()))
	assert.Nil(t, h.Properties(di.Key[Store]()))

	pt, ok := h.PropertyType(di.Key[Service](), "Clock")
	require.True(t, ok)
	assert.Equal(t, di.Key[*Clock](), pt)

	pt, ok = h.PropertyType(di.Key[Service](), "Log")
	require.True(t, ok)
	assert.Equal(t, di.Key[*Logger](), pt)

	_, ok = h.PropertyType(di.Key[Service](), "Nope")
	assert.False(t, ok)

	ctor := reflect.TypeOf(NewRepo)
	pt, ok = h.ParameterType(di.Key[Repo](), ctor, 1)
	require.True(t, ok)
	assert.Equal(t, di.Key[Store](), pt)
	_, ok = h.ParameterType(di.Key[Repo](), ctor, 2)
	assert.False(t, ok)
}

func TestStructTagHints_CustomTag(t *testing.T) {
	type tagged struct {
		A *Logger `wire:""`
		B *Logger `wire:"-"`
		C *Logger `inject:""`
	}
	h := di.NewStructTagHints("wire")
	assert.Equal(t, []string{"A"}, h.Properties(di.Key[tagged]()))
}

func TestMemoryMetadataStore(t *testing.T) {
	s := di.NewMemoryMetadataStore()
	a, b := &Logger{}, &Logger{}

	s.Set(a, "k", 1)
	v, ok := s.Get(a, "k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get(b, "k")
	assert.False(t, ok, "values are never shared between owners")

	s.Set(b, "k", 2)
	assert.Equal(t, 2, s.Len())
	s.Forget(a)
	assert.Equal(t, 1, s.Len())
	_, ok = s.Get(a, "k")
	assert.False(t, ok)
}
