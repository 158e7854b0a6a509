package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dipos-tr/zetachat/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := Config{Path: filepath.Join(t.TempDir(), "chat.db")}
	cfg.applyDefaults()
	store, err := OpenWithConfig(cfg)
	if err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestConversationRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	conv, err := store.GetConversation(ctx, "s1")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if conv != nil {
		t.Fatalf("unknown session must yield nil, got %+v", conv)
	}

	rating := 4
	saved := &session.Conversation{
		Messages: []session.Message{
			{Request: "q1", Response: "a1"},
			{Request: "q2", Response: "a2", MessageRating: &rating},
		},
		ConversationRating: &session.Rating{Score: 4, RatedMessageCount: 1, TotalMessageCount: 2},
	}
	if err := store.SaveConversation(ctx, "s1", saved, 4); err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}

	loaded, err := store.GetConversation(ctx, "s1")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if loaded == nil || len(loaded.Messages) != 2 {
		t.Fatalf("loaded = %+v, want 2 messages", loaded)
	}
	if loaded.Messages[1].MessageRating == nil || *loaded.Messages[1].MessageRating != 4 {
		t.Fatalf("message rating = %v, want 4", loaded.Messages[1].MessageRating)
	}
	if loaded.ConversationRating == nil || loaded.ConversationRating.Score != 4 {
		t.Fatalf("conversation rating = %+v", loaded.ConversationRating)
	}
}

func TestSaveConversationUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := &session.Conversation{Messages: []session.Message{{Request: "q1", Response: "a1"}}}
	if err := store.SaveConversation(ctx, "s1", first, 0); err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}
	second := &session.Conversation{Messages: []session.Message{
		{Request: "q1", Response: "a1"},
		{Request: "q2", Response: "a2"},
	}}
	if err := store.SaveConversation(ctx, "s1", second, 3); err != nil {
		t.Fatalf("SaveConversation (update): %v", err)
	}

	record, err := store.GetRecord(ctx, "s1")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if record == nil || len(record.Conversation.Messages) != 2 {
		t.Fatalf("record = %+v, want 2 messages", record)
	}
	if record.UserFeedback != 3 {
		t.Fatalf("user feedback = %d, want 3", record.UserFeedback)
	}
}

func TestGetRecordUnknownSession(t *testing.T) {
	store := openTestStore(t)
	record, err := store.GetRecord(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if record != nil {
		t.Fatalf("unknown session must yield nil, got %+v", record)
	}
}

func TestUserSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	us := session.UserSession{SessionID: "s1", UserID: "user42", CreatedAt: now, LastActivity: now}
	if err := store.CreateUserSession(ctx, us); err != nil {
		t.Fatalf("CreateUserSession: %v", err)
	}

	loaded, err := store.GetUserSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetUserSession: %v", err)
	}
	if loaded == nil || loaded.UserID != "user42" {
		t.Fatalf("loaded = %+v", loaded)
	}

	if err := store.TouchUserSession(ctx, "s1"); err != nil {
		t.Fatalf("TouchUserSession: %v", err)
	}
	touched, err := store.GetUserSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetUserSession: %v", err)
	}
	if touched.LastActivity.Before(loaded.LastActivity) {
		t.Fatalf("last activity went backwards: %v -> %v", loaded.LastActivity, touched.LastActivity)
	}

	missing, err := store.GetUserSession(ctx, "ghost")
	if err != nil {
		t.Fatalf("GetUserSession: %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown session must yield nil, got %+v", missing)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CHATDB_CONFIG_FILE", "")
	t.Setenv("CHATDB_PATH", "")
	t.Setenv("CHATDB_MAX_OPEN_CONNS", "")
	t.Setenv("CHATDB_MAX_IDLE_CONNS", "")
	t.Setenv("CHATDB_CONN_MAX_LIFETIME", "")
	t.Setenv("CHATDB_BUSY_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxOpenConns != 8 || cfg.MaxIdleConns != 8 {
		t.Fatalf("pool defaults = %d/%d, want 8/8", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 15*time.Minute {
		t.Fatalf("lifetime default = %v, want 15m", cfg.ConnMaxLifetime)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Fatalf("busy timeout default = %v, want 5s", cfg.BusyTimeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CHATDB_CONFIG_FILE", "")
	t.Setenv("CHATDB_PATH", "/tmp/override.db")
	t.Setenv("CHATDB_MAX_OPEN_CONNS", "2")
	t.Setenv("CHATDB_MAX_IDLE_CONNS", "1")
	t.Setenv("CHATDB_CONN_MAX_LIFETIME", "1m")
	t.Setenv("CHATDB_BUSY_TIMEOUT", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Path != "/tmp/override.db" {
		t.Fatalf("path = %q", cfg.Path)
	}
	if cfg.MaxOpenConns != 2 || cfg.MaxIdleConns != 1 {
		t.Fatalf("pool = %d/%d, want 2/1", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != time.Minute {
		t.Fatalf("lifetime = %v, want 1m", cfg.ConnMaxLifetime)
	}
	if cfg.BusyTimeout != 250*time.Millisecond {
		t.Fatalf("busy timeout = %v, want 250ms", cfg.BusyTimeout)
	}
}
