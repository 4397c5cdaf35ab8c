package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRun(t *testing.T) {
	run := NewRun("run-1", "sess-1")
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "sess-1", run.SessionID)
	assert.Equal(t, RunCreated, run.State)
	assert.False(t, run.StopRequested())
}

func TestRun_StopIsMonotonic(t *testing.T) {
	run := NewRun("run-1", "sess-1")

	run.RequestStop()
	assert.True(t, run.StopRequested())
	run.RequestStop()
	assert.True(t, run.StopRequested(), "stop flag never resets")
}

func TestRun_ConcurrentStop(t *testing.T) {
	run := NewRun("run-1", "sess-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run.RequestStop()
		}()
	}
	wg.Wait()
	assert.True(t, run.StopRequested())
}

func TestRunState_Terminal(t *testing.T) {
	assert.False(t, RunCreated.Terminal())
	assert.False(t, RunStreaming.Terminal())
	assert.True(t, RunStopped.Terminal())
	assert.True(t, RunCompleted.Terminal())
	assert.True(t, RunErrored.Terminal())
}
