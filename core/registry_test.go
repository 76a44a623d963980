package core

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/statebind/statebind/logging"
)

// memStore is a minimal in-package Store for tests; the session package
// provides the real implementations.
type memStore struct {
	entries map[string]any
}

func newMemStore() *memStore { return &memStore{entries: map[string]any{}} }

func (s *memStore) Contains(key string) bool     { _, ok := s.entries[key]; return ok }
func (s *memStore) Get(key string) (any, bool)   { v, ok := s.entries[key]; return v, ok }
func (s *memStore) Set(key string, value any)    { s.entries[key] = value }
func (s *memStore) ValidateKey(key string) error { return ValidateKey(key) }

type counter struct {
	Handle
	Count *Field[int] `state:"count"`
	Label string
}

func TestObtainDistinctIDs(t *testing.T) {
	reg := NewRegistry(newMemStore())

	a, err := Obtain[counter](reg, "a", nil)
	if err != nil {
		t.Fatalf("Obtain a: %v", err)
	}
	b, err := Obtain[counter](reg, "b", nil)
	if err != nil {
		t.Fatalf("Obtain b: %v", err)
	}
	if a == b {
		t.Fatal("distinct ids should yield distinct instances")
	}

	if _, err := a.Count.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	bView, err := b.Count.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if bView.Present() {
		t.Error("b's field storage should be independent of a's")
	}
}

func TestObtainSameIDIsCacheHit(t *testing.T) {
	reg := NewRegistry(newMemStore())

	first, err := Obtain[counter](reg, "a", func(c *counter) {
		if _, err := c.Count.Set(1); err != nil {
			t.Fatalf("Set in init: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}

	// Rerun with the same id: identical instance, initializer discarded.
	second, err := Obtain[counter](reg, "a", func(c *counter) {
		t.Error("initializer must not run on a cache hit")
	})
	if err != nil {
		t.Fatalf("Obtain again: %v", err)
	}
	if first != second {
		t.Fatal("same id should yield the identical instance")
	}

	view, err := second.Count.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !view.Equal(1) {
		t.Errorf("count = %s, want 1", view)
	}
}

func TestObtainMissingID(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)

	_, err := Obtain[counter](reg, "", nil)
	if !errors.Is(err, ErrMissingInstanceID) {
		t.Fatalf("err = %v, want ErrMissingInstanceID", err)
	}
	if len(store.entries) != 0 {
		t.Error("nothing should be stored when the id is missing")
	}
}

func TestObtainInvalidID(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)

	_, err := Obtain[counter](reg, "bad\nid", nil)
	var ike *InvalidKeyError
	if !errors.As(err, &ike) {
		t.Fatalf("err = %v, want *InvalidKeyError", err)
	}
	if len(store.entries) != 0 {
		t.Error("nothing should be stored when the key is invalid")
	}
}

type plainStruct struct {
	Count *Field[int]
}

func TestObtainRequiresHandle(t *testing.T) {
	reg := NewRegistry(newMemStore())

	_, err := Obtain[plainStruct](reg, "a", nil)
	if err == nil || !strings.Contains(err.Error(), "Handle") {
		t.Fatalf("err = %v, want embed-Handle error", err)
	}
}

func TestObtainStoredTypeMismatch(t *testing.T) {
	store := newMemStore()
	store.Set("core_counter_a", "not an instance")
	reg := NewRegistry(store)

	if _, err := Obtain[counter](reg, "a", nil); err == nil {
		t.Fatal("expected type mismatch error for foreign stored value")
	}
}

func TestPlainMembersStayInMemory(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store, func(o *RegistryOptions) {
		o.Logger = logging.NoOpLogger{}
	})

	c, err := Obtain[counter](reg, "a", func(c *counter) {
		c.Label = "local"
	})
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	if c.Label != "local" {
		t.Errorf("Label = %q, want %q", c.Label, "local")
	}
	// Only the instance itself is stored; the plain member never produced
	// a field key.
	if len(store.entries) != 1 {
		t.Errorf("store holds %d entries, want 1", len(store.entries))
	}
}

func TestObtainScopesLoggerWithInstanceKey(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	reg := NewRegistry(newMemStore(), func(o *RegistryOptions) {
		o.Logger = logging.NewSlogAdapter(slog.New(handler))
	})

	if _, err := Obtain[counter](reg, "scoped", nil); err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	if _, err := Obtain[counter](reg, "scoped", func(c *counter) {}); err != nil {
		t.Fatalf("Obtain again: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "instance_key=core_counter_scoped") {
		t.Errorf("debug output should carry the instance key, got %q", out)
	}
	if !strings.Contains(out, "initializer discarded") {
		t.Errorf("cache hit should be logged, got %q", out)
	}
}

func TestFieldsIntrospection(t *testing.T) {
	reg := NewRegistry(newMemStore())

	c, err := Obtain[counter](reg, "a", nil)
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	infos := Fields(c)
	if len(infos) != 1 {
		t.Fatalf("Fields returned %d entries, want 1", len(infos))
	}
	if infos[0].Name != "count" || infos[0].Key != "core_counter_a.count" {
		t.Errorf("unexpected field info %+v", infos[0])
	}

	if got := Fields(&counter{}); len(got) != 0 {
		t.Errorf("unbound instance should expose no fields, got %v", got)
	}
}
