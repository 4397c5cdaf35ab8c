package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentstream/core"
)

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_AppendAndGet(t *testing.T) {
	store, dir := newFileStore(t)

	require.NoError(t, store.AppendMessage("sess-1", core.Message{Role: "user", Content: "hi"}))
	require.NoError(t, store.AppendMessage("sess-1", core.Message{Role: "assistant", Content: "hello"}))

	_, err := os.Stat(filepath.Join(dir, "sess-1.json"))
	require.NoError(t, err, "session must be persisted as one JSON document")

	got, err := store.Get("sess-1")
	require.NoError(t, err)
	msgs := got.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	store, dir := newFileStore(t)
	require.NoError(t, store.AppendMessage("sess-1", core.Message{Role: "user", Content: "hi"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := reopened.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.MessageCount())
}

func TestFileStore_GetUnknown(t *testing.T) {
	store, _ := newFileStore(t)
	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, core.ErrSessionNotFound))
}

func TestFileStore_ListSkipsCorruptFiles(t *testing.T) {
	store, dir := newFileStore(t)
	require.NoError(t, store.AppendMessage("good", core.Message{Role: "user", Content: "hi"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "good", sessions[0].ID)
}

func TestFileStore_Delete(t *testing.T) {
	store, dir := newFileStore(t)
	require.NoError(t, store.AppendMessage("sess-1", core.Message{Role: "user", Content: "hi"}))

	require.NoError(t, store.Delete("sess-1"))
	_, err := os.Stat(filepath.Join(dir, "sess-1.json"))
	assert.True(t, os.IsNotExist(err))

	assert.True(t, errors.Is(store.Delete("sess-1"), core.ErrSessionNotFound))
}
