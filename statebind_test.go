package statebind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statebind/statebind"
	"github.com/statebind/statebind/internal/testutil"
)

type Counter struct {
	statebind.Handle
	Count *statebind.Field[int] `state:"count"`
}

// TestCounterScenario walks the canonical rerun flow: build an instance,
// mutate a field, rerun with the same id, then with a different one.
func TestCounterScenario(t *testing.T) {
	reg := statebind.New()

	a, err := statebind.Obtain[Counter](reg, "a", nil)
	require.NoError(t, err)
	_, err = a.Count.Set(1)
	require.NoError(t, err)

	// Rerun with id "a": same instance, count preserved, init ignored.
	again, err := statebind.Obtain[Counter](reg, "a", func(c *Counter) {
		t.Error("initializer must not run on a rerun")
	})
	require.NoError(t, err)
	assert.Same(t, a, again)
	view, err := again.Count.Get()
	require.NoError(t, err)
	assert.True(t, view.Equal(1))

	// A different id is independent of "a"'s state.
	b, err := statebind.Obtain[Counter](reg, "b", nil)
	require.NoError(t, err)
	bView, err := b.Count.Get()
	require.NoError(t, err)
	assert.False(t, bView.Present())
	assert.True(t, bView.Equal(nil))
}

func TestNewDefaultsToInMemoryStore(t *testing.T) {
	reg := statebind.New()
	require.NotNil(t, reg.Store())

	_, err := statebind.Obtain[Counter](reg, "x", nil)
	assert.NoError(t, err)
}

func TestObtainWithInjectedStore(t *testing.T) {
	store := testutil.NewRecordingStore()
	reg := statebind.New(func(o *statebind.Options) {
		o.Store = store
	})

	c, err := statebind.Obtain[Counter](reg, "a", nil)
	require.NoError(t, err)
	_, err = c.Count.Set(5)
	require.NoError(t, err)

	writes := store.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "statebind_test_Counter_a", writes[0])
	assert.Equal(t, "statebind_test_Counter_a.count", writes[1])
}

func TestObtainMissingIDStoresNothing(t *testing.T) {
	store := testutil.NewRecordingStore()
	reg := statebind.New(func(o *statebind.Options) {
		o.Store = store
	})

	_, err := statebind.Obtain[Counter](reg, "", nil)
	require.ErrorIs(t, err, statebind.ErrMissingInstanceID)
	assert.Zero(t, store.Len())
	assert.Empty(t, store.Writes())
}

func TestFieldsIntrospection(t *testing.T) {
	reg := statebind.New()
	c, err := statebind.Obtain[Counter](reg, "a", nil)
	require.NoError(t, err)

	infos := statebind.Fields(c)
	require.Len(t, infos, 1)
	assert.Equal(t, "count", infos[0].Name)
	assert.Equal(t, "statebind_test_Counter_a.count", infos[0].Key)
}

func TestViewKeyIsImmutable(t *testing.T) {
	reg := statebind.New()
	c, err := statebind.Obtain[Counter](reg, "a", nil)
	require.NoError(t, err)

	view, err := c.Count.Set(1)
	require.NoError(t, err)
	assert.Equal(t, "statebind_test_Counter_a.count", view.Key())
	assert.Error(t, view.SetAttr("key", "other"))
}
