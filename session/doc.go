// Package session houses concrete implementations of the core.SessionStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (orchestrator, server) from depending on concrete
// storage.
//
//   - InMemoryStore: volatile map, best for tests and demos.
//   - FileStore: one JSON document per session under a directory, matching
//     the durable single-node deployment model.
//
// Add additional backends (Redis, Postgres, etc.) in sub-packages without
// changing any calling code - only the wiring layer decides which
// implementation to instantiate.
package session
