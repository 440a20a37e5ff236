package di_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/typeioc/di"
)

func TestSnapshotRestore(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Store]()).To(di.Key[MemoryStore]())
	require.NoError(t, c.Snapshot(di.Key[Store]()))

	c.Bind(di.Key[Store]()).To(di.Key[FileStore]()).Scope(c.Singleton())
	assert.Equal(t, "file", di.MustResolve[Store](c).Name())

	require.NoError(t, c.Restore(di.Key[Store]()))
	assert.Equal(t, "memory", di.MustResolve[Store](c).Name())
	assert.Equal(t, "local", c.Bind(di.Key[Store]()).ScopeName())

	// the snapshot stays in place
	c.Bind(di.Key[Store]()).Provider(func() (any, error) { return &FileStore{}, nil })
	require.NoError(t, c.Restore(di.Key[Store]()))
	assert.Equal(t, "memory", di.MustResolve[Store](c).Name())
}

func TestSnapshotRestore_SingletonInstanceDropped(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Logger]()).Scope(c.Singleton())
	before := c.MustGet(di.Key[Logger]())
	require.NoError(t, c.Snapshot(di.Key[Logger]()))

	c.Bind(di.Key[Logger]()).Provider(func() (any, error) { return &Logger{Prefix: "mock"}, nil })
	mocked := di.MustResolve[*Logger](c)
	assert.Equal(t, "mock", mocked.Prefix)

	require.NoError(t, c.Restore(di.Key[Logger]()))
	after := di.MustResolve[*Logger](c)
	assert.Empty(t, after.Prefix)
	assert.NotSame(t, before, after)
	assert.Same(t, after, c.MustGet(di.Key[Logger]()))
}

func TestRestore_WithoutSnapshot(t *testing.T) {
	c := di.New()
	err := c.Restore(di.Key[Logger]())
	assert.ErrorIs(t, err, di.ErrNotSnapshotted)

	c.Bind(di.Key[Logger]())
	assert.ErrorIs(t, c.Restore(di.Key[Logger]()), di.ErrNotSnapshotted)
}

func TestSnapshot_Overwrites(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Store]()).To(di.Key[MemoryStore]())
	require.NoError(t, c.Snapshot(di.Key[Store]()))
	c.Bind(di.Key[Store]()).To(di.Key[FileStore]())
	require.NoError(t, c.Snapshot(di.Key[Store]()))

	c.Bind(di.Key[Store]()).To(di.Key[MemoryStore]())
	require.NoError(t, c.Restore(di.Key[Store]()))
	assert.Equal(t, "file", di.MustResolve[Store](c).Name())
}

func TestSnapshot_InvalidType(t *testing.T) {
	c := di.New()
	assert.ErrorIs(t, c.Snapshot(nil), di.ErrInvalidArgument)
	assert.ErrorIs(t, c.Restore(nil), di.ErrInvalidArgument)
}

func TestSnapshotRestore_KeepsConstructedType(t *testing.T) {
	c := di.New()
	c.Bind(di.Key[Logger]())
	require.NoError(t, c.Snapshot(di.Key[Logger]()))

	c.Bind(di.Key[Logger]()).To(di.Key[MemoryStore]())
	assert.IsType(t, &MemoryStore{}, c.MustGet(di.Key[Logger]()))

	require.NoError(t, c.Restore(di.Key[Logger]()))
	assert.IsType(t, &Logger{}, c.MustGet(di.Key[Logger]()))

	target, err := c.GetType(di.Key[Logger]())
	require.NoError(t, err)
	assert.Equal(t, di.Key[Logger](), target)
}

// labelScope is a Local-like scope whose values are not comparable.
type labelScope struct {
	labels []string
	resets *int
}

func (s labelScope) Name() string { return "label" }

func (s labelScope) Reset(reflect.Type) { *s.resets++ }

func (s labelScope) Resolve(p di.Provider, _ reflect.Type) (any, error) {
	return p()
}

func TestSnapshotRestore_NonComparableScope(t *testing.T) {
	var savedResets, liveResets int
	c := di.New()
	c.Bind(di.Key[Logger]()).Scope(labelScope{labels: []string{"saved"}, resets: &savedResets})
	require.NoError(t, c.Snapshot(di.Key[Logger]()))

	c.Bind(di.Key[Logger]()).Scope(labelScope{labels: []string{"live"}, resets: &liveResets})

	require.NotPanics(t, func() {
		require.NoError(t, c.Restore(di.Key[Logger]()))
	})
	assert.Equal(t, 1, savedResets)
	assert.Equal(t, 1, liveResets)
	assert.IsType(t, &Logger{}, c.MustGet(di.Key[Logger]()))
}
