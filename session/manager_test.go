package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerScopesStoresPerSession(t *testing.T) {
	manager := NewManager()

	a := manager.Session("user-a")
	b := manager.Session("user-b")
	require.NotSame(t, a, b)

	a.Set("app_Counter_x.count", 1)
	assert.False(t, b.Contains("app_Counter_x.count"), "sessions must be isolated")

	// Lookups are stable: the same ID yields the same store.
	assert.Same(t, a, manager.Session("user-a"))
	assert.Equal(t, 2, manager.Len())
}

func TestManagerOpen(t *testing.T) {
	manager := NewManager()

	id1, store1 := manager.Open()
	id2, store2 := manager.Open()

	require.NotEmpty(t, id1)
	require.NotEqual(t, id1, id2)
	assert.NotSame(t, store1, store2)
	assert.Same(t, store1, manager.Session(id1))
}

func TestManagerAppliesPoliciesToNewStores(t *testing.T) {
	policy, err := ExprPolicy(`!(key startsWith "tmp.")`)
	require.NoError(t, err)

	manager := NewManager(policy)
	store := manager.Session("user-a")
	assert.Error(t, store.ValidateKey("tmp.scratch"))
	assert.NoError(t, store.ValidateKey("app_Counter_a.count"))
}
