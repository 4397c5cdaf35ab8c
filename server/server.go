package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hupe1980/agentstream"
	"github.com/hupe1980/agentstream/agui"
	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
)

// Options configures the HTTP server.
type Options struct {
	// Logger receives request-scoped diagnostics.
	Logger logging.Logger
}

// Server binds the agentstream façade to HTTP routes.
type Server struct {
	app    *agentstream.AgentStream
	logger logging.Logger
}

// New creates a Server around the given façade.
func New(app *agentstream.AgentStream, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{app: app, logger: opts.Logger}
}

// RegisterRoutes attaches all endpoints to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/chat/:chat_id", s.StartChat)
	v1.GET("/chat/:chat_id", s.GetChat)
	v1.DELETE("/chat/:chat_id", s.DeleteChat)
	v1.GET("/chats", s.ListChats)
	v1.POST("/stop/:chat_id", s.StopChat)
	e.GET("/health", s.Health)
}

// StartChat starts or continues a chat session, streaming the run's envelope
// sequence in the framing negotiated from the Accept header. The response is
// flushed per envelope so clients render partial output incrementally.
func (s *Server) StartChat(c echo.Context) error {
	chatID := c.Param("chat_id")

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	s.logger.Info("chat request session_id=%s", chatID)

	ctx := c.Request().Context()
	runID, envelopes, err := s.app.Stream(ctx, chatID, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enc := agui.NewEventEncoder(c.Request().Header.Get(echo.HeaderAccept))
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, enc.ContentType())
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	var assistant strings.Builder
	for env := range envelopes {
		data, err := enc.Encode(env)
		if err != nil {
			s.logger.Error("failed to encode envelope run_id=%s: %v", runID, err)
			continue
		}
		if _, err := resp.Write(data); err != nil {
			// Client went away; keep draining so the run winds down.
			for range envelopes {
			}
			break
		}
		resp.Flush()

		// The stop marker is a client-facing affordance, not assistant
		// output; it stays off the persisted history so later provider
		// calls do not replay it as model text.
		if env.Type == agui.EventTypeTextMessageChunk && env.DeltaText() != agui.StopMarker {
			assistant.WriteString(env.DeltaText())
		}
	}

	s.persistTurn(chatID, req.Message, assistant.String())
	return nil
}

// persistTurn records the exchanged turn after the run terminated. Storage
// failures must not fail a stream that already happened.
func (s *Server) persistTurn(chatID, userMsg, assistantMsg string) {
	now := time.Now().UTC()
	if err := s.app.Sessions().AppendMessage(chatID, core.Message{Role: "user", Content: userMsg, CreatedAt: now}); err != nil {
		s.logger.Error("failed to save user message session_id=%s: %v", chatID, err)
	}
	if assistantMsg == "" {
		return
	}
	if err := s.app.Sessions().AppendMessage(chatID, core.Message{Role: "assistant", Content: assistantMsg, CreatedAt: now}); err != nil {
		s.logger.Error("failed to save assistant message session_id=%s: %v", chatID, err)
	}
}

// StopChat sets the out-of-band stop signal for an active chat session. The
// run consumes it at its next fragment boundary and terminates gracefully.
func (s *Server) StopChat(c echo.Context) error {
	chatID := c.Param("chat_id")
	s.logger.Info("stop requested session_id=%s", chatID)

	if !s.app.RequestStop(c.Request().Context(), chatID) {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to set stop signal")
	}
	return c.JSON(http.StatusOK, StopResponse{
		ChatID:  chatID,
		Status:  "accepted",
		Message: "Stop signal sent to agent",
	})
}

// ListChats lists all chat sessions.
func (s *Server) ListChats(c echo.Context) error {
	sessions, err := s.app.Sessions().List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chats")
	}

	chats := make([]ChatListItem, 0, len(sessions))
	for _, sess := range sessions {
		chats = append(chats, ChatListItem{
			ChatID:       sess.ID,
			Status:       "active",
			MessageCount: sess.MessageCount(),
			UpdatedAt:    sess.Updated.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, ChatListResponse{Chats: chats, Count: len(chats)})
}

// GetChat returns chat session details. An unknown chat id reports a fresh
// "new" chat rather than 404.
func (s *Server) GetChat(c echo.Context) error {
	chatID := c.Param("chat_id")

	sess, err := s.app.Sessions().Get(chatID)
	if errors.Is(err, core.ErrSessionNotFound) {
		return c.JSON(http.StatusOK, ChatResponse{ChatID: chatID, MessageCount: 0, Status: "new"})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load chat")
	}
	return c.JSON(http.StatusOK, ChatResponse{ChatID: chatID, MessageCount: sess.MessageCount(), Status: "active"})
}

// DeleteChat deletes a chat session. Deleting a chat that was never created
// is a distinct, non-fatal result.
func (s *Server) DeleteChat(c echo.Context) error {
	chatID := c.Param("chat_id")

	err := s.app.Sessions().Delete(chatID)
	if errors.Is(err, core.ErrSessionNotFound) {
		return c.JSON(http.StatusOK, DeleteChatResponse{Status: "not_found", ChatID: chatID})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete chat")
	}
	s.logger.Info("deleted chat session_id=%s", chatID)
	return c.JSON(http.StatusOK, DeleteChatResponse{Status: "deleted", ChatID: chatID})
}

// Health reports service health: degraded (but still serving) when the
// signal store is unreachable, since only cancellation is impaired.
func (s *Server) Health(c echo.Context) error {
	if s.app.Healthy(c.Request().Context()) {
		return c.JSON(http.StatusOK, HealthResponse{Status: "healthy", SignalStore: "connected"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "degraded", SignalStore: "disconnected"})
}
