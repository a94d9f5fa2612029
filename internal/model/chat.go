package model

import "time"

// Conversation represents a stored conversation. UserEmail is the owning
// principal, matching the subject claim of the access token.
type Conversation struct {
	ID        int64
	Title     string
	UserEmail string
	CreatedAt time.Time
}

// Message represents a single chat message within a conversation.
type Message struct {
	ID             int64
	ConversationID int64
	Role           string
	Content        string
}

// SaveConversationRequest represents a conversation upload.
type SaveConversationRequest struct {
	Title    string           `json:"title"`
	Messages []MessagePayload `json:"messages"`
}

// MessagePayload represents a single message in an upload or download.
type MessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationResponse represents a conversation with its messages.
type ConversationResponse struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"created_at"`
	Messages  []MessagePayload `json:"messages"`
}
