// Package logging provides a minimal logging interface and adapters for
// statebind.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the registry and stores use for diagnostics. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogLogger adapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (the default everywhere)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	reg := statebind.New(func(o *statebind.Options) { o.Logger = logger })
//
// Nothing in this module logs above debug level on its read/write paths, so
// leaving the default NoOpLogger in place yields a completely silent core.
package logging
