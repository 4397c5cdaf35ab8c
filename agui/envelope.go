package agui

// EventType discriminates the closed set of wire envelope variants.
type EventType string

const (
	// EventTypeRunStarted opens every run's envelope sequence.
	EventTypeRunStarted EventType = "RUN_STARTED"
	// EventTypeTextMessageChunk carries one content delta of the assistant message.
	EventTypeTextMessageChunk EventType = "TEXT_MESSAGE_CHUNK"
	// EventTypeRunFinished terminates a run that completed or was stopped.
	EventTypeRunFinished EventType = "RUN_FINISHED"
	// EventTypeRunError terminates a run that failed. It carries a
	// human-readable message only - no internal state or traces.
	EventTypeRunError EventType = "RUN_ERROR"
)

// Envelope is one unit of the outward wire protocol. Optional fields are
// pointers so that a present-but-empty delta survives encoding - empty
// content deltas are valid and forwarded as-is.
type Envelope struct {
	Type EventType `json:"type"`
	// ThreadID is the session identity. Set on RUN_STARTED / RUN_FINISHED.
	ThreadID string `json:"thread_id,omitempty"`
	// RunID correlates all envelopes of one run.
	RunID string `json:"run_id,omitempty"`
	// MessageID identifies the assistant message a delta belongs to. It is
	// assigned lazily on the first delta of a run and stable afterwards.
	MessageID string `json:"message_id,omitempty"`
	// Delta is the content chunk for TEXT_MESSAGE_CHUNK envelopes.
	Delta *string `json:"delta,omitempty"`
	// Message is the human-readable description for RUN_ERROR envelopes.
	Message string `json:"message,omitempty"`
}

// NewRunStarted builds the opening envelope of a run.
func NewRunStarted(runID, threadID string) Envelope {
	return Envelope{Type: EventTypeRunStarted, RunID: runID, ThreadID: threadID}
}

// NewTextMessageChunk builds a content delta envelope.
func NewTextMessageChunk(runID, messageID, delta string) Envelope {
	return Envelope{Type: EventTypeTextMessageChunk, RunID: runID, MessageID: messageID, Delta: &delta}
}

// NewRunFinished builds the successful terminal envelope.
func NewRunFinished(runID, threadID string) Envelope {
	return Envelope{Type: EventTypeRunFinished, RunID: runID, ThreadID: threadID}
}

// NewRunError builds the failure terminal envelope.
func NewRunError(runID, message string) Envelope {
	return Envelope{Type: EventTypeRunError, RunID: runID, Message: message}
}

// Terminal reports whether the envelope ends its run's sequence.
func (e Envelope) Terminal() bool {
	return e.Type == EventTypeRunFinished || e.Type == EventTypeRunError
}

// DeltaText returns the delta content, or the empty string for envelopes
// without one.
func (e Envelope) DeltaText() string {
	if e.Delta == nil {
		return ""
	}
	return *e.Delta
}
