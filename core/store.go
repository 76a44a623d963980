package core

import (
	"errors"
	"fmt"
)

// Store is the external per-user session key/value collaborator. The host
// framework owns its lifetime; this module only consumes membership tests,
// reads, writes and the store's key-validity rule.
//
// Contract:
//   - ValidateKey rejects malformed keys before any read or write is
//     attempted
//   - Set is an upsert; there is no deletion path
//   - Within one user session access is serialized by the store.
type Store interface {
	// Contains reports whether a value is stored under key.
	Contains(key string) bool

	// Get returns the value stored under key and an existence flag.
	Get(key string) (any, bool)

	// Set stores value under key, replacing any previous value.
	Set(key string, value any)

	// ValidateKey reports whether key is acceptable to this store.
	// Implementations should apply at least the default rule (see
	// ValidateKey in this package) and return a *InvalidKeyError on
	// violations.
	ValidateKey(key string) error
}

// ErrMissingInstanceID is returned by Obtain when the caller-supplied
// identifier is empty. Instances cannot participate in session state
// without one.
var ErrMissingInstanceID = errors.New("statebind: an instance id is required to use session state")

// ErrUnbound is returned when a field accessor is used on an instance that
// was not obtained through a Registry.
var ErrUnbound = errors.New("statebind: instance was not obtained through a registry")

// InvalidKeyError reports a key rejected by a store's validity rule.
type InvalidKeyError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid session key %q: %s", e.Key, e.Reason)
}

// ProtectedFieldError reports a write aimed at one of a value view's own
// read-only fields.
type ProtectedFieldError struct {
	Name string
}

// Error implements the error interface.
func (e *ProtectedFieldError) Error() string {
	return fmt.Sprintf("cannot modify protected view field %q", e.Name)
}
