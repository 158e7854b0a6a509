package session

import "time"

// Message is a single request/response exchange inside a conversation.
// MessageRating is set only once a user has rated the assistant response.
type Message struct {
	Request       string     `json:"request"`
	Response      string     `json:"response"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	MessageRating *int       `json:"messageRating,omitempty"`
	RatedAt       *time.Time `json:"ratedAt,omitempty"`
}

// Rating is the derived conversation-level score. It is always recomputed
// from the rated subset of messages, never patched incrementally.
type Rating struct {
	Score             int `json:"score"`
	RatedMessageCount int `json:"ratedMessageCount"`
	TotalMessageCount int `json:"totalMessageCount"`
}

// Conversation is the persisted per-session message log.
type Conversation struct {
	Messages           []Message `json:"messages"`
	ConversationRating *Rating   `json:"conversationRating,omitempty"`
}

// Exchange mirrors the conversation history shape submitted by the chat
// widget alongside a first rating.
type Exchange struct {
	UserMessage       string `json:"userMessage"`
	AssistantResponse string `json:"assistantResponse"`
}

// Record is the full persisted session row as returned to API consumers.
type Record struct {
	SessionID    string       `json:"sessionId"`
	Conversation Conversation `json:"conversation"`
	UserFeedback int          `json:"userFeedback"`
	SessionDate  time.Time    `json:"sessionDate"`
}

// UserSession tracks widget session lifecycle independent of the chat log.
type UserSession struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// RatingResult reports the outcome of a rating update.
type RatingResult struct {
	MessageRating      int
	ConversationRating int
}
