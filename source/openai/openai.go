// Package openai provides a streaming generation source backed by the OpenAI
// Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"

	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
)

// Options configure the OpenAI source adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	SystemPrompt        string
	// Sessions, when set, supplies prior conversation turns so the model
	// sees the full history of the session, not just the new input.
	Sessions core.SessionStore
	Logger   logging.Logger
}

// Source adapts OpenAI Chat Completions streaming to the
// core.GenerationSource contract.
type Source struct {
	client *openai.Client
	opts   Options

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// Compile-time interface assertion.
var _ core.GenerationSource = (*Source)(nil)

// New creates a new OpenAI source using the official client (API key from env).
func New(optFns ...func(o *Options)) *Source {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI source from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Source {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 2048,
		Logger:              logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Source{client: client, opts: opts, cancels: make(map[string]context.CancelFunc)}
}

// Generate opens a streaming completion request and adapts its chunks into
// fragments. Content deltas become text fragments; chunks without content
// (role preludes, finish bookkeeping) are surfaced as control fragments.
func (s *Source) Generate(ctx context.Context, sessionID, input string) (<-chan core.Fragment, <-chan error) {
	out := make(chan core.Fragment, 32)
	errCh := make(chan error, 1)

	genCtx, cancel := context.WithCancel(ctx)
	s.track(sessionID, cancel)

	go func() {
		defer close(errCh)
		defer close(out)
		defer s.untrack(sessionID)

		params := openai.ChatCompletionNewParams{
			Model:               s.opts.Model,
			Temperature:         openai.Float(s.opts.Temperature),
			MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
			Messages:            s.buildMessages(sessionID, input),
		}

		stream := s.client.Chat.Completions.NewStreaming(genCtx, params)
		for stream.Next() {
			ck := stream.Current()
			for _, choice := range ck.Choices {
				frag := core.ControlFragment()
				if choice.Delta.Content != "" {
					frag = core.TextFragment(choice.Delta.Content)
				}
				select {
				case <-genCtx.Done():
					return
				case out <- frag:
				}
			}
		}
		if err := stream.Err(); err != nil && genCtx.Err() == nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
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
		s.opts.Logger.Info("aborting openai stream session_id=%s", sessionID)
		cancel()
	}
}

// buildMessages converts persisted session history plus the new input into
// chat messages. Without a session store only the new input is sent.
func (s *Source) buildMessages(sessionID, input string) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if s.opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(s.opts.SystemPrompt))
	}
	if s.opts.Sessions != nil {
		if sess, err := s.opts.Sessions.Get(sessionID); err == nil {
			for _, msg := range sess.GetMessages() {
				switch msg.Role {
				case "user":
					messages = append(messages, openai.UserMessage(msg.Content))
				case "assistant":
					messages = append(messages, openai.AssistantMessage(msg.Content))
				}
			}
		}
	}
	return append(messages, openai.UserMessage(input))
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
