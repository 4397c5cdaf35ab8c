package stream

import (
	"context"

	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// EventBufferSize sets channel buffering for emitted events.
	EventBufferSize int
	// Logger receives per-run diagnostics.
	Logger logging.Logger
}

// Orchestrator drives runs: it alternates between pulling the next fragment
// and polling the signal store, never performing the two concurrently for a
// given run, so the normalized event ordering stays trivially sequential.
// Runs for different sessions are fully independent and may execute
// concurrently; there is no shared mutable state between them. Public methods
// are safe for concurrent use.
type Orchestrator struct {
	source  core.GenerationSource
	signals core.SignalStore

	eventBufferSize int
	logger          logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(source core.GenerationSource, signals core.SignalStore, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		EventBufferSize: 64,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		source:          source,
		signals:         signals,
		eventBufferSize: opts.EventBufferSize,
		logger:          opts.Logger,
	}
}

// Run drives the given run to a terminal state, returning the ordered,
// finite normalized event sequence on a channel that is closed after the
// terminal event. The sequence is not restartable.
//
// The stop signal is checked once per fragment boundary, not on a wall-clock
// timer, so cancellation latency is bounded by however long the source takes
// to produce its next fragment. That bound is the accepted best-effort
// contract of the system, not instantaneous cancellation.
func (o *Orchestrator) Run(ctx context.Context, run *core.Run, input string) <-chan core.StreamEvent {
	out := make(chan core.StreamEvent, o.eventBufferSize)

	go func() {
		defer close(out)
		o.drive(ctx, run, input, out)
	}()

	return out
}

func (o *Orchestrator) drive(ctx context.Context, run *core.Run, input string, out chan<- core.StreamEvent) {
	fragCh, errCh := o.source.Generate(ctx, run.SessionID, input)
	run.State = core.RunStreaming
	o.logger.Debug("run started session_id=%s run_id=%s", run.SessionID, run.ID)

	for {
		select {
		case <-ctx.Done():
			// Caller cancellation (disconnect, timeout) ends the run the
			// same way a consumed stop signal does.
			o.stop(ctx, run, out)
			return

		case frag, ok := <-fragCh:
			if !ok {
				o.finish(ctx, run, errCh, out)
				return
			}

			if run.StopRequested() {
				// Stop already recorded: discard the buffered fragment and
				// terminate without a second, potentially racy consume
				// against the store.
				o.stop(ctx, run, out)
				return
			}

			if o.signals.CheckAndConsumeStop(ctx, run.SessionID) {
				o.logger.Info("stop detected during streaming session_id=%s run_id=%s", run.SessionID, run.ID)
				o.stop(ctx, run, out)
				return
			}

			if frag.Kind != core.FragmentText {
				continue // control-only fragment, dropped silently
			}
			if !o.emit(ctx, out, core.NewContentEvent(frag.Text)) {
				o.stop(ctx, run, out)
				return
			}
		}
	}
}

// finish handles natural end of the fragment sequence: the source has closed
// its fragment channel and its error channel now holds the terminal error, if
// any. Generation failures are surfaced, never retried here - the fragment
// sequence is not guaranteed to be replayable from the same position.
func (o *Orchestrator) finish(ctx context.Context, run *core.Run, errCh <-chan error, out chan<- core.StreamEvent) {
	if err := <-errCh; err != nil {
		o.logger.Error("generation failed session_id=%s run_id=%s: %v", run.SessionID, run.ID, err)
		run.State = core.RunErrored
		o.emitTerminal(ctx, out, core.NewErroredEvent(err))
		return
	}
	o.logger.Debug("run completed session_id=%s run_id=%s", run.SessionID, run.ID)
	run.State = core.RunCompleted
	o.emitTerminal(ctx, out, core.NewCompletedEvent())
}

// stop records the stop, hints the source to abort and emits the terminal
// Stopped event. The abort is fire-and-forget; the source may ignore it and
// the orchestrator simply stops consuming output regardless.
func (o *Orchestrator) stop(ctx context.Context, run *core.Run, out chan<- core.StreamEvent) {
	run.RequestStop()
	o.source.Abort(run.SessionID)
	run.State = core.RunStopped
	o.emitTerminal(ctx, out, core.NewStoppedEvent())
}

// emit delivers an event unless the caller has gone away. Returns false when
// the context ended before the event could be delivered.
func (o *Orchestrator) emit(ctx context.Context, out chan<- core.StreamEvent, ev core.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// emitTerminal delivers the terminal event. Unlike content deltas it is not
// abandoned under backpressure: a slow but live consumer must still observe
// the terminal event, so the send blocks until the consumer catches up. The
// buffered fast path keeps delivery deterministic when the context has
// already ended; once the context is done and the buffer is full, the event
// is dropped because no consumer remains to read the sequence.
func (o *Orchestrator) emitTerminal(ctx context.Context, out chan<- core.StreamEvent, ev core.StreamEvent) {
	select {
	case out <- ev:
		return
	default:
	}
	select {
	case out <- ev:
	case <-ctx.Done():
	}
}
