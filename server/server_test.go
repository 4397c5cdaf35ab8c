package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentstream"
	"github.com/hupe1980/agentstream/agui"
	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/internal/testutil"
	"github.com/hupe1980/agentstream/source"
)

func newTestServer(t *testing.T, src core.GenerationSource, optFns ...func(o *agentstream.Options)) (*echo.Echo, *agentstream.AgentStream) {
	t.Helper()
	app := agentstream.New(src, optFns...)
	srv := New(app)
	e := echo.New()
	srv.RegisterRoutes(e)
	return e, app
}

func postChat(e *echo.Echo, chatID, message, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/"+chatID, strings.NewReader(`{"message":"`+message+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// parseSSE decodes each "data: {...}" frame of an SSE body.
func parseSSE(t *testing.T, body string) []agui.Envelope {
	t.Helper()
	var out []agui.Envelope
	for _, frame := range strings.Split(body, "\n\n") {
		frame = strings.TrimSpace(frame)
		if frame == "" {
			continue
		}
		require.True(t, strings.HasPrefix(frame, "data: "), "unexpected frame %q", frame)
		var env agui.Envelope
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &env))
		out = append(out, env)
	}
	return out
}

func TestStartChat_StreamsEnvelopes(t *testing.T) {
	e, app := newTestServer(t, source.NewScriptedSource(source.TextScript("Hello ", "world")))

	rec := postChat(e, "chat-1", "hi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/event-stream")

	envs := parseSSE(t, rec.Body.String())
	require.NotEmpty(t, envs)
	assert.Equal(t, agui.EventTypeRunStarted, envs[0].Type)
	assert.Equal(t, agui.EventTypeRunFinished, envs[len(envs)-1].Type)

	var text strings.Builder
	for _, env := range envs {
		if env.Type == agui.EventTypeTextMessageChunk {
			text.WriteString(env.DeltaText())
		}
	}
	assert.Equal(t, "Hello world", text.String())

	// The whole turn is persisted after the stream ends.
	sess, err := app.Sessions().Get("chat-1")
	require.NoError(t, err)
	msgs := sess.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "Hello world", msgs[1].Content)
}

func TestStartChat_StoppedRunPersistsWithoutMarker(t *testing.T) {
	// The stop lands at the second fragment boundary, after one delta flowed.
	e, app := newTestServer(t, source.NewScriptedSource(source.TextScript("Hello ", "world")), func(o *agentstream.Options) {
		o.SignalStore = testutil.StopAfter(2)
	})

	rec := postChat(e, "chat-1", "hi", "")
	require.Equal(t, http.StatusOK, rec.Code)

	envs := parseSSE(t, rec.Body.String())
	assert.Equal(t, agui.EventTypeRunFinished, envs[len(envs)-1].Type)

	var chunks []string
	for _, env := range envs {
		if env.Type == agui.EventTypeTextMessageChunk {
			chunks = append(chunks, env.DeltaText())
		}
	}
	require.Len(t, chunks, 2)
	assert.Equal(t, agui.StopMarker, chunks[1], "the client still sees the marker delta")

	sess, err := app.Sessions().Get("chat-1")
	require.NoError(t, err)
	msgs := sess.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello ", msgs[1].Content, "persisted history excludes the marker")
}

func TestStartChat_NDJSON(t *testing.T) {
	e, _ := newTestServer(t, source.NewScriptedSource(source.TextScript("hi")))

	rec := postChat(e, "chat-1", "hi", "application/x-ndjson")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get(echo.HeaderContentType))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		var env agui.Envelope
		require.NoError(t, json.Unmarshal([]byte(line), &env))
	}
}

func TestStartChat_EmptyMessage(t *testing.T) {
	e, _ := newTestServer(t, source.NewScriptedSource(nil))

	rec := postChat(e, "chat-1", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartChat_GenerationError(t *testing.T) {
	e, _ := newTestServer(t, source.NewScriptedSource(source.TextScript("partial"), func(o *source.ScriptedOptions) {
		o.Err = assert.AnError
	}))

	rec := postChat(e, "chat-1", "hi", "")
	require.Equal(t, http.StatusOK, rec.Code, "the error arrives in-band after streaming started")

	envs := parseSSE(t, rec.Body.String())
	last := envs[len(envs)-1]
	assert.Equal(t, agui.EventTypeRunError, last.Type)
	assert.NotEmpty(t, last.Message)
}

func TestStopChat(t *testing.T) {
	e, _ := newTestServer(t, source.NewScriptedSource(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stop/chat-9", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StopResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chat-9", resp.ChatID)
	assert.Equal(t, "accepted", resp.Status)
}

func TestStopChat_StoreFailure(t *testing.T) {
	signals := testutil.NewStubSignalStore()
	signals.SetResult = false
	e, _ := newTestServer(t, source.NewScriptedSource(nil), func(o *agentstream.Options) {
		o.SignalStore = signals
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stop/chat-9", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetChat(t *testing.T) {
	e, app := newTestServer(t, source.NewScriptedSource(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/unknown", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new", resp.Status)
	assert.Equal(t, 0, resp.MessageCount)

	require.NoError(t, app.Sessions().AppendMessage("chat-1", core.Message{Role: "user", Content: "hi", CreatedAt: time.Now()}))
	req = httptest.NewRequest(http.MethodGet, "/api/v1/chat/chat-1", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, 1, resp.MessageCount)
}

func TestListChats(t *testing.T) {
	e, app := newTestServer(t, source.NewScriptedSource(nil))
	for _, id := range []string{"a", "b"} {
		_, err := app.Sessions().Create(id)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Chats, 2)
	assert.Equal(t, "a", resp.Chats[0].ChatID)
}

func TestDeleteChat(t *testing.T) {
	e, app := newTestServer(t, source.NewScriptedSource(nil))
	_, err := app.Sessions().Create("chat-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chat/chat-1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeleteChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "deleted", resp.Status)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/chat/chat-1", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Status)
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t, source.NewScriptedSource(nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.SignalStore)
}

func TestHealth_Degraded(t *testing.T) {
	signals := testutil.NewStubSignalStore()
	signals.Healthy = false
	e, _ := newTestServer(t, source.NewScriptedSource(nil), func(o *agentstream.Options) {
		o.SignalStore = signals
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "disconnected", resp.SignalStore)
}
