// Package statebind persists per-instance struct fields inside an injected
// per-user session store and deduplicates instances across reruns of a
// host framework's request/render cycle. Most applications interact with
// this package by:
//  1. Embedding Handle in a struct and declaring Field members for every
//     attribute that should live in session state
//  2. Creating a Registry via New() (optionally overriding the default
//     in-memory store)
//  3. Calling Obtain with a per-session unique identifier, which returns
//     either a freshly built or a previously cached instance
//
// The façade delegates the mechanism to the core package while keeping
// setup ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable store
// implementation and a structured logger.
//
//	type Counter struct {
//	    statebind.Handle
//	    Count *statebind.Field[int] `state:"count"`
//	}
//
//	reg := statebind.New()
//	c, err := statebind.Obtain[Counter](reg, "sidebar", nil)
//	c.Count.Set(1)
package statebind

import (
	"github.com/statebind/statebind/core"
	"github.com/statebind/statebind/logging"
	"github.com/statebind/statebind/session"
)

// Options configures a Registry built through New.
type Options struct {
	// Store is the session store backing all instances and fields.
	// Defaults to a fresh in-memory store.
	Store core.Store

	// Logger receives debug diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// New builds a Registry with in-memory defaults.
func New(optFns ...func(*Options)) *Registry {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = session.NewInMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return core.NewRegistry(opts.Store, func(o *core.RegistryOptions) {
		o.Logger = opts.Logger
	})
}

// Obtain returns the instance stored under the key derived from T and id,
// or constructs, binds and stores a new one, running init only in that
// case. See core.Obtain for the full contract.
func Obtain[T any](r *Registry, id string, init func(*T)) (*T, error) {
	return core.Obtain(r, id, init)
}

// Fields enumerates the bound field accessors of a managed instance.
func Fields(inst any) []FieldInfo {
	return core.Fields(inst)
}

// Re-exported core types so simple applications only import this package.
type (
	// Registry builds and deduplicates managed instances against a store.
	Registry = core.Registry
	// Handle carries a managed instance's identity; embed it.
	Handle = core.Handle
	// Store is the injected session key/value collaborator.
	Store = core.Store
	// FieldInfo describes one bound field accessor.
	FieldInfo = core.FieldInfo
	// Field is a typed accessor bound to one named field.
	Field[T any] = core.Field[T]
	// Value is the ephemeral view returned by field reads and writes.
	Value[T any] = core.Value[T]
)

// Re-exported error values; see the core package for the typed errors
// (InvalidKeyError, ProtectedFieldError).
var (
	ErrMissingInstanceID = core.ErrMissingInstanceID
	ErrUnbound           = core.ErrUnbound
)
