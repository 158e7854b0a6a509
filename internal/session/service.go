package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dipos-tr/zetachat/internal/common"
)

var (
	// ErrValidation marks malformed input; surfaced as 400.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing session or message; surfaced as 404.
	ErrNotFound = errors.New("not found")
)

// Store is the persistence contract the service needs. Absent rows are
// reported as (nil, nil), not as errors.
type Store interface {
	GetConversation(ctx context.Context, sessionID string) (*Conversation, error)
	SaveConversation(ctx context.Context, sessionID string, conv *Conversation, score int) error
	GetRecord(ctx context.Context, sessionID string) (*Record, error)
	CreateUserSession(ctx context.Context, us UserSession) error
	GetUserSession(ctx context.Context, sessionID string) (*UserSession, error)
	TouchUserSession(ctx context.Context, sessionID string) error
}

// Service implements rating aggregation and session bookkeeping over a
// Store. Concurrent updates to one session are last-write-wins; clients
// issue rating calls sequentially.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// UpdateMessageRating applies a 1..5 rating to one message of a session and
// recomputes the conversation score. When the session is unknown and the
// widget supplied its conversation history, the session is materialized
// from that history first; when the supplied history is longer than the
// stored conversation, the new tail is appended before rating.
func (s *Service) UpdateMessageRating(ctx context.Context, sessionID string, messageIndex, rating int, history []Exchange) (RatingResult, error) {
	logger := common.Logger()
	if rating < 1 || rating > 5 {
		return RatingResult{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	conv, err := s.store.GetConversation(ctx, sessionID)
	if err != nil {
		return RatingResult{}, fmt.Errorf("load session: %w", err)
	}
	now := time.Now().UTC()
	switch {
	case conv == nil && len(history) > 0:
		logger.Info("session: materializing session from history", "session", sessionID, "messages", len(history))
		conv = &Conversation{Messages: make([]Message, 0, len(history))}
		for i, ex := range history {
			msg := Message{Request: ex.UserMessage, Response: ex.AssistantResponse}
			if i == messageIndex {
				msg.MessageRating = &rating
				msg.RatedAt = &now
			}
			conv.Messages = append(conv.Messages, msg)
		}
	case conv != nil && len(history) > 0:
		if extra := len(history) - len(conv.Messages); extra > 0 {
			logger.Info("session: appending new messages", "session", sessionID, "count", extra)
			for i := len(conv.Messages); i < len(history); i++ {
				conv.Messages = append(conv.Messages, Message{
					Request:  history[i].UserMessage,
					Response: history[i].AssistantResponse,
				})
			}
		}
		if messageIndex >= 0 && messageIndex < len(conv.Messages) {
			conv.Messages[messageIndex].MessageRating = &rating
			conv.Messages[messageIndex].RatedAt = &now
		}
	case conv != nil:
		if messageIndex < 0 || messageIndex >= len(conv.Messages) {
			return RatingResult{}, fmt.Errorf("%w: message index %d out of range", ErrNotFound, messageIndex)
		}
		conv.Messages[messageIndex].MessageRating = &rating
		conv.Messages[messageIndex].RatedAt = &now
	default:
		return RatingResult{}, fmt.Errorf("%w: session unknown and no conversation history provided", ErrNotFound)
	}

	score := Score(conv.Messages)
	conv.ConversationRating = &Rating{
		Score:             score,
		RatedMessageCount: len(ratedValues(conv.Messages)),
		TotalMessageCount: len(conv.Messages),
	}
	if err := s.store.SaveConversation(ctx, sessionID, conv, score); err != nil {
		return RatingResult{}, fmt.Errorf("save session: %w", err)
	}
	logger.Info("session: rating updated", "session", sessionID, "message", messageIndex, "rating", rating, "score", score)
	return RatingResult{MessageRating: rating, ConversationRating: score}, nil
}

// LogExchange appends a request/response pair to a session's conversation,
// creating the record on first use. The stored score is untouched.
func (s *Service) LogExchange(ctx context.Context, sessionID, request, response string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id required", ErrValidation)
	}
	conv, err := s.store.GetConversation(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if conv == nil {
		conv = &Conversation{}
	}
	now := time.Now().UTC()
	conv.Messages = append(conv.Messages, Message{Request: request, Response: response, Timestamp: &now})
	score := 0
	if conv.ConversationRating != nil {
		score = conv.ConversationRating.Score
		conv.ConversationRating.TotalMessageCount = len(conv.Messages)
	}
	return s.store.SaveConversation(ctx, sessionID, conv, score)
}

// History returns the persisted session record.
func (s *Service) History(ctx context.Context, sessionID string) (*Record, error) {
	record, err := s.store.GetRecord(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	return record, nil
}

// CreateSession registers a new widget session and returns its identifier.
func (s *Service) CreateSession(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "guest"
	}
	now := time.Now().UTC()
	id := fmt.Sprintf("%s_%d_%s", userID, now.UnixMilli(), uuid.NewString()[:8])
	us := UserSession{SessionID: id, UserID: userID, CreatedAt: now, LastActivity: now}
	if err := s.store.CreateUserSession(ctx, us); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	common.Logger().Info("session: created", "session", id)
	return id, nil
}

// GetSession returns a widget session and refreshes its activity stamp.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*UserSession, error) {
	us, err := s.store.GetUserSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load user session: %w", err)
	}
	if us == nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	if err := s.store.TouchUserSession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("touch user session: %w", err)
	}
	return us, nil
}

// TouchSession refreshes a widget session's activity stamp.
func (s *Service) TouchSession(ctx context.Context, sessionID string) error {
	us, err := s.store.GetUserSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load user session: %w", err)
	}
	if us == nil {
		return fmt.Errorf("%w: session", ErrNotFound)
	}
	return s.store.TouchUserSession(ctx, sessionID)
}
