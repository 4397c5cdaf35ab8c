package core

import "context"

// FragmentKind discriminates generation source output units.
type FragmentKind int

const (
	// FragmentText carries a textual payload to forward to the client.
	FragmentText FragmentKind = iota
	// FragmentControl is a control-only unit (message boundaries, tool
	// bookkeeping, keep-alives). Control fragments are dropped silently by
	// the orchestrator.
	FragmentControl
)

// Fragment is one opaque unit of output from a generation engine. A fragment
// may or may not carry textual content.
type Fragment struct {
	Kind FragmentKind
	// Text is the textual payload for FragmentText fragments. It may be the
	// empty string, which is still forwarded downstream.
	Text string
}

// TextFragment wraps a textual delta.
func TextFragment(text string) Fragment { return Fragment{Kind: FragmentText, Text: text} }

// ControlFragment returns a content-free control unit.
func ControlFragment() Fragment { return Fragment{Kind: FragmentControl} }

// GenerationSource produces a lazy, possibly long sequence of fragments for a
// given session and input.
//
// Contract:
//   - Generate returns immediately; fragments arrive on the fragment channel
//     which is closed when the sequence ends (naturally or on failure).
//   - The error channel carries at most one terminal error and is closed
//     after the fragment channel. A closed, empty error channel means the
//     sequence ended naturally.
//   - Abort is a best-effort, fire-and-forget hint to stop producing. A
//     source may ignore it; callers must simply stop consuming regardless.
type GenerationSource interface {
	Generate(ctx context.Context, sessionID, input string) (<-chan Fragment, <-chan error)
	Abort(sessionID string)
}
