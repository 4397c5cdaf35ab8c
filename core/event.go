package core

// EventKind discriminates the closed set of normalized stream event variants.
// Modeling the sequence as a tagged variant (rather than open key/value maps)
// lets consumers enforce the "exactly one terminal event" invariant through
// exhaustive switches.
type EventKind int

const (
	// EventContent carries a textual delta produced by the generation source.
	EventContent EventKind = iota
	// EventStopped terminates a run after a consumed stop signal.
	EventStopped
	// EventCompleted terminates a run whose fragment sequence ended naturally.
	EventCompleted
	// EventErrored terminates a run after a generation failure.
	EventErrored
)

// String returns a stable lower-case name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventContent:
		return "content"
	case EventStopped:
		return "stopped"
	case EventCompleted:
		return "completed"
	case EventErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// StreamEvent is one element of the normalized event sequence of a run.
// It is produced exclusively by the orchestrator and consumed exclusively by
// the protocol bridge. Ordering within a run is the only guarantee consumers
// may rely on; there are no concurrent producers per run.
type StreamEvent struct {
	Kind EventKind
	// Text is the content delta. Only meaningful for EventContent; the empty
	// string is a valid delta and is forwarded as-is.
	Text string
	// Err is the failure cause. Only meaningful for EventErrored.
	Err error
}

// NewContentEvent wraps a textual delta.
func NewContentEvent(text string) StreamEvent {
	return StreamEvent{Kind: EventContent, Text: text}
}

// NewStoppedEvent marks termination by a consumed stop signal.
func NewStoppedEvent() StreamEvent { return StreamEvent{Kind: EventStopped} }

// NewCompletedEvent marks natural end of the fragment sequence.
func NewCompletedEvent() StreamEvent { return StreamEvent{Kind: EventCompleted} }

// NewErroredEvent marks termination by a generation failure.
func NewErroredEvent(err error) StreamEvent {
	return StreamEvent{Kind: EventErrored, Err: err}
}

// Terminal reports whether the event ends the normalized sequence.
func (e StreamEvent) Terminal() bool { return e.Kind != EventContent }
