package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamEvent_Terminal(t *testing.T) {
	assert.False(t, NewContentEvent("x").Terminal())
	assert.True(t, NewStoppedEvent().Terminal())
	assert.True(t, NewCompletedEvent().Terminal())
	assert.True(t, NewErroredEvent(errors.New("boom")).Terminal())
}

func TestStreamEvent_Constructors(t *testing.T) {
	ev := NewContentEvent("")
	assert.Equal(t, EventContent, ev.Kind)
	assert.Equal(t, "", ev.Text, "empty deltas are valid")

	cause := errors.New("boom")
	errored := NewErroredEvent(cause)
	assert.Equal(t, EventErrored, errored.Kind)
	assert.True(t, errors.Is(errored.Err, cause))
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "content", EventContent.String())
	assert.Equal(t, "stopped", EventStopped.String())
	assert.Equal(t, "completed", EventCompleted.String())
	assert.Equal(t, "errored", EventErrored.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}

func TestFragment_Kinds(t *testing.T) {
	assert.Equal(t, FragmentText, TextFragment("hi").Kind)
	assert.Equal(t, FragmentControl, ControlFragment().Kind)
}
