// Package anthropic provides a streaming generation source backed by the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
)

// Options configures the Anthropic source adapter (model id, temperature,
// max tokens, API key, system prompt). Extend via functional options to
// preserve stability.
type Options struct {
	Model        anthropic.Model
	Temperature  float64
	MaxTokens    int64
	APIKey       string
	SystemPrompt string
	// Sessions, when set, supplies prior conversation turns so the model
	// sees the full history of the session, not just the new input.
	Sessions core.SessionStore
	Logger   logging.Logger
}

// Source adapts the Anthropic Messages streaming API to the
// core.GenerationSource contract. Each Generate call opens one streaming
// request; Abort cancels the in-flight request for a session.
type Source struct {
	client *anthropic.Client
	opts   Options

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// Compile-time interface assertion.
var _ core.GenerationSource = (*Source)(nil)

// New creates a new Anthropic source using the official client.
func New(optFns ...func(o *Options)) *Source {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   2048,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Source{client: &client, opts: opts, cancels: make(map[string]context.CancelFunc)}
}

// NewFromClient creates a new Anthropic source from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Source {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   2048,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Source{client: client, opts: opts, cancels: make(map[string]context.CancelFunc)}
}

// Generate opens a streaming Messages request and adapts its events into
// fragments. Text deltas become text fragments; every other stream event
// (message/content block boundaries) is surfaced as a control fragment.
func (s *Source) Generate(ctx context.Context, sessionID, input string) (<-chan core.Fragment, <-chan error) {
	out := make(chan core.Fragment, 32)
	errCh := make(chan error, 1)

	genCtx, cancel := context.WithCancel(ctx)
	s.track(sessionID, cancel)

	go func() {
		defer close(errCh)
		defer close(out)
		defer s.untrack(sessionID)

		params := anthropic.MessageNewParams{
			Model:       s.opts.Model,
			MaxTokens:   s.opts.MaxTokens,
			Temperature: anthropic.Float(s.opts.Temperature),
			Messages:    s.buildMessages(sessionID, input),
		}
		if s.opts.SystemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: s.opts.SystemPrompt}}
		}

		stream := s.client.Messages.NewStreaming(genCtx, params)
		for stream.Next() {
			event := stream.Current()

			frag := core.ControlFragment()
			switch eventVariant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if deltaVariant, ok := eventVariant.Delta.AsAny().(anthropic.TextDelta); ok {
					frag = core.TextFragment(deltaVariant.Text)
				}
			}

			select {
			case <-genCtx.Done():
				return
			case out <- frag:
			}
		}
		if err := stream.Err(); err != nil && genCtx.Err() == nil {
			errCh <- fmt.Errorf("anthropic streaming error: %w", err)
		}
	}()

	return out, errCh
}

// Abort cancels the in-flight request for the session, if any. Best-effort:
// a session without an active stream is a no-op.
func (s *Source) Abort(sessionID string) {
	s.mu.Lock()
	cancel, ok := s.cancels[sessionID]
	s.mu.Unlock()
	if ok {
		s.opts.Logger.Info("aborting anthropic stream session_id=%s", sessionID)
		cancel()
	}
}

// buildMessages converts persisted session history plus the new input into
// Anthropic message params. Without a session store only the new input is sent.
func (s *Source) buildMessages(sessionID, input string) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	if s.opts.Sessions != nil {
		if sess, err := s.opts.Sessions.Get(sessionID); err == nil {
			for _, msg := range sess.GetMessages() {
				switch msg.Role {
				case "user":
					messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
				case "assistant":
					messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
				}
			}
		}
	}
	return append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(input)))
}

func (s *Source) track(sessionID string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels[sessionID] = cancel
}

func (s *Source) untrack(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[sessionID]; ok {
		delete(s.cancels, sessionID)
		cancel()
	}
}
