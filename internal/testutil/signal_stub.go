package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/agentstream/core"
)

// StubSignalStore is a controllable core.SignalStore for tests. Consume
// results are scripted per call: the nth CheckAndConsumeStop returns the nth
// entry of ConsumeScript (false once the script is exhausted). Every call is
// counted so tests can assert polling cadence.
type StubSignalStore struct {
	mu sync.Mutex

	// ConsumeScript holds the return values for successive consume calls.
	ConsumeScript []bool
	// SetResult is returned by SetStop (defaults to true via NewStubSignalStore).
	SetResult bool
	// Healthy is returned by Ping.
	Healthy bool

	consumeCalls int
	setCalls     int
}

// Compile-time interface assertion.
var _ core.SignalStore = (*StubSignalStore)(nil)

// NewStubSignalStore returns a healthy stub whose consume calls all report
// "no stop pending" unless a script is installed.
func NewStubSignalStore() *StubSignalStore {
	return &StubSignalStore{SetResult: true, Healthy: true}
}

// StopAfter returns a stub that reports a pending stop on the nth consume
// call (1-based) and no stop before it.
func StopAfter(n int) *StubSignalStore {
	s := NewStubSignalStore()
	script := make([]bool, n)
	script[n-1] = true
	s.ConsumeScript = script
	return s
}

// SetStop records the call and returns the configured result.
func (s *StubSignalStore) SetStop(_ context.Context, _ string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	return s.SetResult
}

// CheckAndConsumeStop pops the next scripted result.
func (s *StubSignalStore) CheckAndConsumeStop(_ context.Context, _ string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumeCalls++
	if s.consumeCalls <= len(s.ConsumeScript) {
		return s.ConsumeScript[s.consumeCalls-1]
	}
	return false
}

// Ping reports the configured health.
func (s *StubSignalStore) Ping(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Healthy
}

// ConsumeCalls returns how many times CheckAndConsumeStop ran.
func (s *StubSignalStore) ConsumeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumeCalls
}

// SetCalls returns how many times SetStop ran.
func (s *StubSignalStore) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}
