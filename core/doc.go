// Package core provides the foundational contracts and the binding
// mechanism used by statebind. It defines the core abstractions for:
//
//   - Store (the injected per-user session key/value collaborator)
//   - Managed instances (application objects deduplicated by instance key)
//   - Field accessors (typed getter/setter pairs backed by the store)
//   - Value views (ephemeral forwarding wrappers pairing a value with its
//     storage key)
//   - The Registry and Obtain factory (instance construction and lookup)
//
// The package intentionally keeps implementation concerns (concrete store
// backends, session scoping, snapshot persistence) out of scope, exposing
// small interfaces to enable custom backends. All exported identifiers
// include concise documentation to aid discoverability.
package core
