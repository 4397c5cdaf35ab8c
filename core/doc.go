// Package core provides the foundational domain types and interfaces used by
// AgentStream. It defines the core abstractions for:
//
//   - Runs (one generation attempt scoped to a session)
//   - StreamEvents (the normalized, ordered event sequence of a run)
//   - Fragments (opaque units of generation engine output)
//   - Pluggable contracts for stop signals, generation sources and sessions
//
// The package intentionally keeps implementation concerns (Redis, provider
// SDKs, HTTP transport) out of scope, exposing small interfaces so that
// backends can be swapped without touching the streaming pipeline. All
// exported identifiers include concise documentation to aid discoverability
// and external consumption.
package core
