package core

import "context"

// SignalStore is the contract for the out-of-band stop channel: a key-value
// store holding at most one time-bounded stop marker per session.
//
// The destructive read is the mechanism, not a side effect: only the first
// reader after a write observes true, so a single stop request is consumed
// exactly once. Implementations must preserve this contract; a
// non-destructive read would let one stop request be observed repeatedly or
// never, depending on timing.
//
// Store failures are absorbed by implementations (fail-open): a SetStop or
// CheckAndConsumeStop that cannot reach the backend returns false and logs.
// Losing the ability to cancel must not also break the ability to generate.
type SignalStore interface {
	// SetStop creates or refreshes the time-bounded stop marker for the
	// session. Idempotent: repeated calls before a consume leave a single
	// consumable signal. Returns whether the write succeeded.
	SetStop(ctx context.Context, sessionID string) bool

	// CheckAndConsumeStop atomically reads and clears the marker, returning
	// true exactly once per SetStop (assuming no overlapping consumers for
	// the same session, which the design does not require supporting).
	CheckAndConsumeStop(ctx context.Context, sessionID string) bool

	// Ping probes backend liveness. Used at startup and for the
	// degraded-but-serving health report.
	Ping(ctx context.Context) bool
}
