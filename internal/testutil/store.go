// Package testutil contains helper stores used across tests to reduce
// boilerplate when seeding session state and asserting store interactions.
// These helpers are intentionally minimal and avoid adding third-party
// dependencies. They are not intended for production usage.
package testutil

import "github.com/statebind/statebind/core"

// RecordingStore is a core.Store that remembers every key written to it,
// in order. Seed it fluently:
//
//	store := testutil.NewRecordingStore().Seed("app_Counter_a.count", 1)
type RecordingStore struct {
	entries map[string]any
	writes  []string
	keyRule func(key string) error
}

// NewRecordingStore creates an empty recording store using the default
// key-validity rule.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{entries: map[string]any{}, keyRule: core.ValidateKey}
}

// Seed stores a value without recording a write (chainable).
func (s *RecordingStore) Seed(key string, value any) *RecordingStore {
	s.entries[key] = value
	return s
}

// RejectKeys replaces the key rule (chainable). Use it to force validation
// failures in tests.
func (s *RecordingStore) RejectKeys(rule func(key string) error) *RecordingStore {
	s.keyRule = rule
	return s
}

// Contains reports whether a value is stored under key.
func (s *RecordingStore) Contains(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Get returns the value stored under key and an existence flag.
func (s *RecordingStore) Get(key string) (any, bool) {
	value, ok := s.entries[key]
	return value, ok
}

// Set stores value under key and records the write.
func (s *RecordingStore) Set(key string, value any) {
	s.entries[key] = value
	s.writes = append(s.writes, key)
}

// ValidateKey applies the configured key rule.
func (s *RecordingStore) ValidateKey(key string) error {
	return s.keyRule(key)
}

// Writes returns the keys written so far, in order.
func (s *RecordingStore) Writes() []string {
	out := make([]string, len(s.writes))
	copy(out, s.writes)
	return out
}

// Len reports the number of stored entries.
func (s *RecordingStore) Len() int { return len(s.entries) }
