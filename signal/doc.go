// Package signal houses concrete implementations of the core.SignalStore
// stop-signal contract. The interface itself lives in the core package to
// centralize domain contracts; keeping only implementations here prevents the
// streaming pipeline from depending on concrete storage.
//
// Two backends are provided:
//
//   - RedisStore: a Redis-backed store using SET with expiry for writes and
//     the atomic GETDEL for the destructive read. This is the production
//     backend; stop requesters and stream servers may live in different
//     processes.
//   - InMemoryStore: a process-local map with the same atomic take-and-clear
//     semantics, guarded per store. Suited for tests and single-process
//     deployments.
//
// Both backends are fail-open by policy: a backend failure is logged and
// reported as "no signal detected" so that losing the ability to cancel never
// also breaks the ability to generate. This is deliberate, not an accident -
// do not "fix" it into fail-closed.
package signal
