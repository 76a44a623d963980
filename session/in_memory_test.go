package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statebind/statebind/core"
)

func TestInMemoryStoreBasics(t *testing.T) {
	store := NewInMemoryStore()

	assert.False(t, store.Contains("app_Counter_a.count"))
	_, ok := store.Get("app_Counter_a.count")
	assert.False(t, ok)

	store.Set("app_Counter_a.count", 1)
	assert.True(t, store.Contains("app_Counter_a.count"))
	value, ok := store.Get("app_Counter_a.count")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	// Set is an upsert.
	store.Set("app_Counter_a.count", 2)
	value, _ = store.Get("app_Counter_a.count")
	assert.Equal(t, 2, value)
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryStoreDefaultKeyRule(t *testing.T) {
	store := NewInMemoryStore()

	assert.NoError(t, store.ValidateKey("app_Counter_a.count"))

	for _, key := range []string{"", "$$internal", "bad\nkey"} {
		err := store.ValidateKey(key)
		var ike *core.InvalidKeyError
		assert.ErrorAs(t, err, &ike, "key %q", key)
	}
}

func TestExprPolicy(t *testing.T) {
	policy, err := ExprPolicy(`len(key) < 24 && !(key startsWith "tmp.")`)
	require.NoError(t, err)

	store := NewInMemoryStore(policy)
	assert.NoError(t, store.ValidateKey("app_Counter_a.count"))

	err = store.ValidateKey("tmp.app_Counter_a.count")
	var ike *core.InvalidKeyError
	require.ErrorAs(t, err, &ike)
	assert.Contains(t, ike.Reason, "key policy")

	assert.Error(t, store.ValidateKey("a_very_long_key_over_the_limit.value"))
}

func TestExprPolicyCompileError(t *testing.T) {
	_, err := ExprPolicy("len(key <")
	assert.Error(t, err)
}

func TestKeyPolicyOrdering(t *testing.T) {
	calls := 0
	first := func(key string) error {
		calls++
		return errors.New("first rejects everything")
	}
	second := func(key string) error {
		t.Fatal("second policy must not run after the first rejects")
		return nil
	}

	store := NewInMemoryStore(first, second)
	assert.Error(t, store.ValidateKey("ok_key"))
	assert.Equal(t, 1, calls)
}
