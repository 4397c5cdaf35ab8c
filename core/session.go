package core

import (
	"sync"
	"time"
)

// Message is one conversational turn persisted within a session.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents a durable conversation identity with an ordered message
// history. It is safe for concurrent access.
//
// Contract:
//   - Message appends update the Updated timestamp
//   - GetMessages returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of slices for safe divergence.
type Session struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	mu       sync.RWMutex
}

// NewSession creates a new session with the given ID.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, Messages: []Message{}, Created: now, Updated: now}
}

// AddMessage appends a message to the history updating the Updated timestamp.
func (s *Session) AddMessage(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.Messages = append(s.Messages, msg)
	s.Updated = time.Now().UTC()
}

// GetMessages returns a defensive copy of the full message slice.
func (s *Session) GetMessages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// MessageCount returns the number of persisted messages.
func (s *Session) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Messages)
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Messages: make([]Message, len(s.Messages)), Created: s.Created, Updated: s.Updated}
	copy(clone.Messages, s.Messages)
	return clone
}

// SessionStore persists sessions and their message history. The streaming
// core never depends on persistence; the store backs the session management
// API and optionally feeds conversation history to generation sources.
type SessionStore interface {
	// Get returns an existing session or ErrSessionNotFound.
	Get(sessionID string) (*Session, error)
	// Create forces the creation of a session with the given id.
	Create(sessionID string) (*Session, error)
	// AppendMessage adds a message, creating the session lazily if needed.
	AppendMessage(sessionID string, msg Message) error
	// List returns all known sessions.
	List() ([]*Session, error)
	// Delete removes a session, returning ErrSessionNotFound when the
	// session was never created. That condition is a distinct, non-fatal
	// result - not an internal error.
	Delete(sessionID string) error
}
