package api

import "github.com/dipos-tr/zetachat/internal/session"

type chatRequest struct {
	Message   string `json:"message"`
	ThreadID  string `json:"threadId"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Message  string   `json:"message"`
	ThreadID string   `json:"threadId"`
	Images   []string `json:"images,omitempty"`
}

type feedbackRequest struct {
	SessionID           string             `json:"sessionId"`
	MessageIndex        *int               `json:"messageIndex"`
	Rating              *int               `json:"rating"`
	ConversationHistory []session.Exchange `json:"conversationHistory"`
}

type feedbackResponse struct {
	Success            bool `json:"success"`
	MessageRating      int  `json:"messageRating"`
	ConversationRating int  `json:"conversationRating"`
	MessageIndex       int  `json:"messageIndex"`
}

type sessionRequest struct {
	Action    string `json:"action"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}
