package signal

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentstream/core"
)

// InMemoryStore is a volatile core.SignalStore keeping stop markers in a
// process-local map with the same atomic take-and-clear semantics as the
// Redis backend. Expiry is enforced lazily on read. Safe for concurrent use.
type InMemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	expires map[string]time.Time
	now     func() time.Time
}

// Compile-time interface assertion.
var _ core.SignalStore = (*InMemoryStore)(nil)

// InMemoryOptions configures the in-memory signal store.
type InMemoryOptions struct {
	// StopTTL is the expiry applied to stop markers.
	StopTTL time.Duration
}

// NewInMemoryStore constructs an empty in-memory signal store.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{StopTTL: DefaultStopTTL}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{ttl: opts.StopTTL, expires: make(map[string]time.Time), now: time.Now}
}

// SetStop records (or refreshes) the stop marker for the session.
func (s *InMemoryStore) SetStop(_ context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[sessionID] = s.now().Add(s.ttl)
	return true
}

// CheckAndConsumeStop takes and clears the marker, returning true exactly
// once per SetStop. Expired markers are discarded as if never written.
func (s *InMemoryStore) CheckAndConsumeStop(_ context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.expires[sessionID]
	if !ok {
		return false
	}
	delete(s.expires, sessionID)
	return s.now().Before(deadline)
}

// Ping always reports healthy; there is no backend to lose.
func (s *InMemoryStore) Ping(context.Context) bool { return true }
