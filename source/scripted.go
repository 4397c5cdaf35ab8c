package source

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agentstream/core"
)

// ScriptedSource is a lightweight in-memory GenerationSource useful for tests
// and examples. It replays a fixed fragment script for every Generate call
// and can optionally end the sequence with an error to simulate a generation
// failure mid-stream.
type ScriptedSource struct {
	fragments []core.Fragment
	err       error
	delay     time.Duration

	mu      sync.Mutex
	aborted map[string]bool
}

// Compile-time interface assertion.
var _ core.GenerationSource = (*ScriptedSource)(nil)

// ScriptedOptions configures a ScriptedSource.
type ScriptedOptions struct {
	// Err, when set, is delivered as the terminal error after all scripted
	// fragments have been emitted.
	Err error
	// Delay inserts a pause before each fragment to simulate engine latency.
	Delay time.Duration
}

// NewScriptedSource constructs a source replaying the given fragments.
func NewScriptedSource(fragments []core.Fragment, optFns ...func(o *ScriptedOptions)) *ScriptedSource {
	opts := ScriptedOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ScriptedSource{
		fragments: fragments,
		err:       opts.Err,
		delay:     opts.Delay,
		aborted:   make(map[string]bool),
	}
}

// TextScript is a convenience helper converting plain strings into text fragments.
func TextScript(texts ...string) []core.Fragment {
	fragments := make([]core.Fragment, len(texts))
	for i, t := range texts {
		fragments[i] = core.TextFragment(t)
	}
	return fragments
}

// Generate replays the script. The input is ignored; scripted output does not
// depend on it.
func (s *ScriptedSource) Generate(ctx context.Context, sessionID, _ string) (<-chan core.Fragment, <-chan error) {
	out := make(chan core.Fragment, len(s.fragments))
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(out)
		for _, frag := range s.fragments {
			if s.delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.delay):
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- frag:
			}
		}
		if s.err != nil {
			errCh <- s.err
		}
	}()

	return out, errCh
}

// Abort records the hint so tests can assert it was issued.
func (s *ScriptedSource) Abort(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted[sessionID] = true
}

// Aborted reports whether Abort was called for the session.
func (s *ScriptedSource) Aborted(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted[sessionID]
}
