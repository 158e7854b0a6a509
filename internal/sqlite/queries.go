package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dipos-tr/zetachat/internal/session"
)

// Store satisfies session.Store. Conversations are persisted as a single
// JSON blob per session, rewritten whole on every update; last write wins
// when two writers race, which the caller contract accepts.

type chatLogRow struct {
	ID           int64     `db:"id"`
	SessionID    string    `db:"session_id"`
	Conversation string    `db:"conversation"`
	UserFeedback int       `db:"user_feedback"`
	SessionDate  time.Time `db:"session_date"`
}

type userSessionRow struct {
	ID           int64     `db:"id"`
	SessionID    string    `db:"session_id"`
	UserID       string    `db:"user_id"`
	CreatedAt    time.Time `db:"created_at"`
	LastActivity time.Time `db:"last_activity"`
}

// GetConversation loads the stored conversation for a session, or (nil,
// nil) when the session has no record yet.
func (s *Store) GetConversation(ctx context.Context, sessionID string) (*session.Conversation, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("chatdb store not initialised")
	}
	var row chatLogRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM chat_log WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select chat log: %w", err)
	}
	var conv session.Conversation
	if err := json.Unmarshal([]byte(row.Conversation), &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &conv, nil
}

// SaveConversation upserts the full conversation blob together with the
// derived feedback score.
func (s *Store) SaveConversation(ctx context.Context, sessionID string, conv *session.Conversation, score int) error {
	if s == nil || s.db == nil {
		return errors.New("chatdb store not initialised")
	}
	if conv == nil {
		return errors.New("conversation required")
	}
	blob, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
                INSERT INTO chat_log (session_id, conversation, user_feedback, session_date)
                VALUES (?, ?, ?, ?)
                ON CONFLICT(session_id) DO UPDATE SET
                        conversation = excluded.conversation,
                        user_feedback = excluded.user_feedback,
                        session_date = excluded.session_date`,
		sessionID, string(blob), score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert chat log: %w", err)
	}
	return nil
}

// GetRecord returns the full persisted session row, or (nil, nil) when the
// session is unknown.
func (s *Store) GetRecord(ctx context.Context, sessionID string) (*session.Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("chatdb store not initialised")
	}
	var row chatLogRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM chat_log WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select chat log: %w", err)
	}
	var conv session.Conversation
	if err := json.Unmarshal([]byte(row.Conversation), &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &session.Record{
		SessionID:    row.SessionID,
		Conversation: conv,
		UserFeedback: row.UserFeedback,
		SessionDate:  row.SessionDate,
	}, nil
}

// CreateUserSession inserts a widget session row.
func (s *Store) CreateUserSession(ctx context.Context, us session.UserSession) error {
	if s == nil || s.db == nil {
		return errors.New("chatdb store not initialised")
	}
	_, err := s.db.ExecContext(ctx, `
                INSERT INTO user_sessions (session_id, user_id, created_at, last_activity)
                VALUES (?, ?, ?, ?)`,
		us.SessionID, us.UserID, us.CreatedAt, us.LastActivity)
	if err != nil {
		return fmt.Errorf("insert user session: %w", err)
	}
	return nil
}

// GetUserSession returns a widget session row, or (nil, nil) when unknown.
func (s *Store) GetUserSession(ctx context.Context, sessionID string) (*session.UserSession, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("chatdb store not initialised")
	}
	var row userSessionRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM user_sessions WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user session: %w", err)
	}
	return &session.UserSession{
		SessionID:    row.SessionID,
		UserID:       row.UserID,
		CreatedAt:    row.CreatedAt,
		LastActivity: row.LastActivity,
	}, nil
}

// TouchUserSession refreshes a widget session's last-activity stamp.
func (s *Store) TouchUserSession(ctx context.Context, sessionID string) error {
	if s == nil || s.db == nil {
		return errors.New("chatdb store not initialised")
	}
	_, err := s.db.ExecContext(ctx, `UPDATE user_sessions SET last_activity = ? WHERE session_id = ?`,
		time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("touch user session: %w", err)
	}
	return nil
}
