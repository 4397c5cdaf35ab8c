package testutil

import (
	"time"

	"github.com/hupe1980/agentstream/core"
)

// CollectEvents drains the event channel into a slice, failing fast with a
// timeout so a stuck pipeline does not hang the test binary.
func CollectEvents(ch <-chan core.StreamEvent, timeout time.Duration) ([]core.StreamEvent, bool) {
	var out []core.StreamEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out, true
			}
			out = append(out, ev)
		case <-deadline:
			return out, false
		}
	}
}
