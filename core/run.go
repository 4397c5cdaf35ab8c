package core

import "sync/atomic"

// RunState describes the lifecycle position of a Run.
type RunState string

const (
	// RunCreated is the initial state before any fragment has been pulled.
	RunCreated RunState = "created"
	// RunStreaming indicates fragments are being pulled and forwarded.
	RunStreaming RunState = "streaming"
	// RunStopped is the terminal state after a consumed stop signal.
	RunStopped RunState = "stopped"
	// RunCompleted is the terminal state after the fragment sequence ended naturally.
	RunCompleted RunState = "completed"
	// RunErrored is the terminal state after a generation failure.
	RunErrored RunState = "errored"
)

// Terminal reports whether the state ends a run's lifecycle.
func (s RunState) Terminal() bool {
	return s == RunStopped || s == RunCompleted || s == RunErrored
}

// Run represents one generation attempt for one session. A Run is owned by a
// single orchestrator goroutine; State is only mutated by that owner. The
// stop flag may be flipped from outside the owner and is therefore atomic.
// Once a run reaches a terminal state it is discarded - no state is retained.
type Run struct {
	// ID uniquely identifies this run and correlates all wire envelopes
	// emitted for it.
	ID string
	// SessionID is the caller-supplied session identity. It keys both the
	// signal store and the generation source.
	SessionID string
	// State tracks lifecycle position. Owner-mutated only.
	State RunState

	stop atomic.Bool
}

// NewRun creates a run in the Created state.
func NewRun(id, sessionID string) *Run {
	return &Run{ID: id, SessionID: sessionID, State: RunCreated}
}

// RequestStop records that termination was requested. The flag is monotonic:
// it transitions false to true exactly once and never resets within the
// run's lifetime.
func (r *Run) RequestStop() { r.stop.Store(true) }

// StopRequested reports whether a stop has been recorded for this run.
func (r *Run) StopRequested() bool { return r.stop.Load() }
