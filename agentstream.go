// Package agentstream provides a high-level façade over the streaming
// pipeline (orchestrator, protocol bridge) and service abstractions (signal,
// session & logging) enabling out-of-band cancellable generation streams.
// Most applications interact with this package by:
//  1. Creating an AgentStream via New() with a generation source (optionally
//     overriding the default in-memory stores)
//  2. Starting runs with Stream(), consuming the returned envelope channel
//  3. Requesting early termination from anywhere via RequestStop()
//
// The façade delegates run ownership to stream.Orchestrator and wire
// representation to agui.Bridge while keeping setup and usage ergonomics
// concise. All defaults are safe for local development and testing;
// production deployments typically supply the Redis signal store, a durable
// session store and a structured logger.
package agentstream

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentstream/agui"
	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/internal/util"
	"github.com/hupe1980/agentstream/logging"
	"github.com/hupe1980/agentstream/session"
	"github.com/hupe1980/agentstream/signal"
	"github.com/hupe1980/agentstream/stream"
)

// Options configures the AgentStream instance.
type Options struct {
	// SignalStore carries out-of-band stop requests (defaults to in-memory).
	SignalStore core.SignalStore
	// SessionStore persists conversation history (defaults to in-memory).
	SessionStore core.SessionStore
	// EventBufferSize sets the channel buffer size for event processing.
	// Larger buffers reduce blocking but increase memory usage.
	EventBufferSize int
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentStream is the high-level façade aggregating the orchestrator and services.
type AgentStream struct {
	source       core.GenerationSource
	signals      core.SignalStore
	sessions     core.SessionStore
	orchestrator *stream.Orchestrator
	logger       logging.Logger
}

// New creates a new AgentStream instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(source core.GenerationSource, optFns ...func(o *Options)) *AgentStream {
	opts := Options{
		SignalStore:     signal.NewInMemoryStore(),
		SessionStore:    session.NewInMemoryStore(),
		EventBufferSize: 64,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch := stream.New(source, opts.SignalStore, func(o *stream.Options) {
		o.EventBufferSize = opts.EventBufferSize
		o.Logger = opts.Logger
	})

	return &AgentStream{
		source:       source,
		signals:      opts.SignalStore,
		sessions:     opts.SessionStore,
		orchestrator: orch,
		logger:       opts.Logger,
	}
}

// Stream starts a run with a generated run id. See StreamRun.
func (a *AgentStream) Stream(ctx context.Context, sessionID, message string) (string, <-chan agui.Envelope, error) {
	return a.StreamRun(ctx, util.NewID(), sessionID, message)
}

// StreamRun starts one run for the session and returns the ordered envelope
// sequence. The channel is closed after the terminal envelope; the sequence
// always starts with RUN_STARTED and ends with RUN_FINISHED or RUN_ERROR.
// Cancel the context to end the run early from the caller's side; use
// RequestStop for out-of-band termination.
func (a *AgentStream) StreamRun(ctx context.Context, runID, sessionID, message string) (string, <-chan agui.Envelope, error) {
	if sessionID == "" {
		return "", nil, fmt.Errorf("session id is required")
	}
	if message == "" {
		return "", nil, fmt.Errorf("message is required")
	}
	if runID == "" {
		runID = util.NewID()
	}

	a.logger.Info("starting run session_id=%s run_id=%s", sessionID, runID)

	run := core.NewRun(runID, sessionID)
	events := a.orchestrator.Run(ctx, run, message)

	bridge := agui.NewBridge(runID, sessionID, func(o *agui.Options) { o.Logger = a.logger })
	return runID, bridge.Bridge(events), nil
}

// RequestStop sets the out-of-band stop signal for the session. The active
// run, if any, consumes it at its next fragment boundary; cancellation
// latency is bounded by the generation engine's fragment cadence. Returns
// whether the signal was written.
func (a *AgentStream) RequestStop(ctx context.Context, sessionID string) bool {
	return a.signals.SetStop(ctx, sessionID)
}

// Healthy probes the signal store. A false result means stop requests may be
// lost while generation itself keeps working (degraded but serving).
func (a *AgentStream) Healthy(ctx context.Context) bool {
	return a.signals.Ping(ctx)
}

// Sessions exposes the session store for the management API.
func (a *AgentStream) Sessions() core.SessionStore { return a.sessions }
