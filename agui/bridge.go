package agui

import (
	"fmt"

	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/internal/util"
	"github.com/hupe1980/agentstream/logging"
)

// StopMarker is the fixed human-readable delta appended when a run is
// stopped after content already flowed, so clients can show why the message
// ended mid-sentence.
const StopMarker = "\n[Agent stopped by user]"

// Options configures a Bridge.
type Options struct {
	// Logger receives bridge diagnostics.
	Logger logging.Logger
}

// Bridge converts the normalized event sequence of exactly one run into a
// well-formed envelope sequence. It is single-use: one bridge per run.
type Bridge struct {
	runID    string
	threadID string

	// messageID is assigned lazily on the first content delta and reused for
	// all subsequent deltas of the run. A run that stops before producing
	// any content never allocates one.
	messageID string

	logger logging.Logger
}

// NewBridge creates a bridge for one run. threadID is the session identity
// carried on run boundary envelopes.
func NewBridge(runID, threadID string, optFns ...func(o *Options)) *Bridge {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Bridge{runID: runID, threadID: threadID, logger: opts.Logger}
}

// Bridge consumes the normalized events and produces the ordered envelope
// sequence on a channel that is closed after the terminal envelope.
//
// Guarantees, regardless of how the event sequence behaves:
//   - RUN_STARTED is emitted unconditionally and first.
//   - Exactly one terminal envelope (RUN_FINISHED or RUN_ERROR) is emitted
//     last; no envelope follows it.
//   - A defect while consuming or converting events is absorbed as RUN_ERROR
//     rather than propagated - the wire sequence never ends without a
//     terminal envelope.
func (b *Bridge) Bridge(events <-chan core.StreamEvent) <-chan Envelope {
	out := make(chan Envelope, 16)

	go func() {
		terminal := false
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("bridge failure run_id=%s: %v", b.runID, r)
				if !terminal {
					out <- NewRunError(b.runID, fmt.Sprintf("internal error: %v", r))
				}
			}
		}()

		out <- NewRunStarted(b.runID, b.threadID)
		b.logger.Debug("run stream opened thread_id=%s run_id=%s", b.threadID, b.runID)

		for ev := range events {
			switch ev.Kind {
			case core.EventContent:
				out <- NewTextMessageChunk(b.runID, b.ensureMessageID(), ev.Text)

			case core.EventStopped:
				if b.messageID != "" {
					out <- NewTextMessageChunk(b.runID, b.messageID, StopMarker)
				}
				out <- NewRunFinished(b.runID, b.threadID)
				terminal = true

			case core.EventCompleted:
				out <- NewRunFinished(b.runID, b.threadID)
				terminal = true

			case core.EventErrored:
				out <- NewRunError(b.runID, describe(ev.Err))
				terminal = true
			}
			if terminal {
				b.logger.Debug("run stream closed thread_id=%s run_id=%s", b.threadID, b.runID)
				return
			}
		}

		// The producer closed the sequence without a terminal event. That is
		// a defect upstream, not a generation error, but the client stream
		// must still end with a terminal envelope.
		b.logger.Error("event sequence ended without terminal event run_id=%s", b.runID)
		out <- NewRunError(b.runID, "stream ended unexpectedly")
	}()

	return out
}

// ensureMessageID lazily allocates the stable message identity for this
// run's content deltas.
func (b *Bridge) ensureMessageID() string {
	if b.messageID == "" {
		b.messageID = util.NewID()
	}
	return b.messageID
}

// describe renders a failure cause as a user-safe message.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
