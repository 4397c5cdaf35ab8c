// Package testutil contains helper stubs and utilities used across tests to
// reduce boilerplate when exercising the streaming pipeline (scripted signal
// stores, channel draining helpers). These helpers are intentionally minimal
// and avoid adding third‑party dependencies. They are not intended for
// production usage.
package testutil
