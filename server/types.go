package server

// ChatRequest is the body of the streamed chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse describes one chat session.
type ChatResponse struct {
	ChatID       string `json:"chat_id"`
	MessageCount int    `json:"message_count"`
	Status       string `json:"status"` // "new" or "active"
}

// ChatListItem is one entry of the chat listing.
type ChatListItem struct {
	ChatID       string `json:"chat_id"`
	Status       string `json:"status"`
	MessageCount int    `json:"message_count"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ChatListResponse lists all known chat sessions.
type ChatListResponse struct {
	Chats []ChatListItem `json:"chats"`
	Count int            `json:"count"`
}

// StopResponse acknowledges an out-of-band stop request.
type StopResponse struct {
	ChatID  string `json:"chat_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DeleteChatResponse reports the outcome of a chat deletion.
type DeleteChatResponse struct {
	Status string `json:"status"` // "deleted" or "not_found"
	ChatID string `json:"chat_id"`
}

// HealthResponse reports service health. The server keeps serving while the
// signal store is down; only the ability to cancel degrades.
type HealthResponse struct {
	Status      string `json:"status"` // "healthy" or "degraded"
	SignalStore string `json:"signal_store"`
}
