package session

import (
	"fmt"
	"sync"

	exprlang "github.com/expr-lang/expr"

	"github.com/statebind/statebind/core"
)

// KeyPolicy vets a key after the default validity rule has passed. Stores
// apply their policies in order and reject the key on the first error.
type KeyPolicy func(key string) error

// ExprPolicy compiles an expr-lang boolean predicate into a KeyPolicy. The
// key under test is in scope as `key`:
//
//	policy, err := session.ExprPolicy(`len(key) < 128 && !(key startsWith "tmp.")`)
//
// Compile errors surface here; keys the predicate rejects fail validation
// with a *core.InvalidKeyError.
func ExprPolicy(src string) (KeyPolicy, error) {
	program, err := exprlang.Compile(src, exprlang.Env(map[string]any{"key": ""}), exprlang.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile key policy %q: %w", src, err)
	}
	return func(key string) error {
		out, err := exprlang.Run(program, map[string]any{"key": key})
		if err != nil {
			return &core.InvalidKeyError{Key: key, Reason: fmt.Sprintf("key policy failed: %v", err)}
		}
		if allowed, ok := out.(bool); !ok || !allowed {
			return &core.InvalidKeyError{Key: key, Reason: "rejected by key policy"}
		}
		return nil
	}, nil
}

// InMemoryStore is a volatile core.Store keeping session state in a
// process-local map. It is safe for concurrent access and best suited for
// tests, demos and single-process hosts; swap in a durable backend for
// anything that must survive the process.
type InMemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]any
	policies []KeyPolicy
}

// NewInMemoryStore constructs an empty in-memory store. Optional key
// policies are applied by ValidateKey on top of the default rule.
func NewInMemoryStore(policies ...KeyPolicy) *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]any), policies: policies}
}

// Contains reports whether a value is stored under key.
func (s *InMemoryStore) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Get returns the value stored under key and an existence flag.
func (s *InMemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// Set stores value under key, replacing any previous value. There is no
// deletion path.
func (s *InMemoryStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// ValidateKey applies the default validity rule followed by the store's
// key policies in registration order.
func (s *InMemoryStore) ValidateKey(key string) error {
	if err := core.ValidateKey(key); err != nil {
		return err
	}
	for _, policy := range s.policies {
		if err := policy(key); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of stored entries.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// snapshot returns a shallow copy of the entries map.
func (s *InMemoryStore) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}
