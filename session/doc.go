// Package session houses concrete implementations of core.Store. The
// interface itself lives in the core package to centralize domain
// contracts; keeping only implementations here prevents application code
// from depending on concrete storage.
//
// Three pieces are provided:
//
//   - InMemoryStore, a volatile process-local store with configurable
//     key policies (including expr-lang predicates)
//   - SnapshotStore, an InMemoryStore that loads from and saves its
//     serializable entries to a YAML file
//   - Manager, which scopes one store per user session the way a host
//     framework owns one state bag per user
//
// Additional backends (Redis, Postgres, etc.) can be added here without
// changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
