package llm

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_VECTOR_STORE_ID", "vs_123")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing api key must fail")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_VECTOR_STORE_ID", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing vector store id must fail")
	}
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_VECTOR_STORE_ID", "vs_123")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OPENAI_HTTP_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model != defaultModel {
		t.Fatalf("model = %q, want default %q", cfg.Model, defaultModel)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("timeout = %v, want unset", cfg.HTTPTimeout)
	}

	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_HTTP_TIMEOUT", "30s")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", cfg.HTTPTimeout)
	}
}

func TestLoadConfigInvalidTimeoutIgnored(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_VECTOR_STORE_ID", "vs_123")
	t.Setenv("OPENAI_HTTP_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("timeout = %v, want ignored invalid value", cfg.HTTPTimeout)
	}
}

func TestNewOpenAIBackendValidates(t *testing.T) {
	if _, err := NewOpenAIBackend(Config{VectorStoreID: "vs_123"}); err == nil {
		t.Fatal("missing api key must fail")
	}
	if _, err := NewOpenAIBackend(Config{APIKey: "sk-test"}); err == nil {
		t.Fatal("missing vector store id must fail")
	}
	backend, err := NewOpenAIBackend(Config{APIKey: "sk-test", VectorStoreID: "vs_123"})
	if err != nil {
		t.Fatalf("NewOpenAIBackend: %v", err)
	}
	if backend.model != defaultModel {
		t.Fatalf("model = %q, want default %q", backend.model, defaultModel)
	}
	if backend.Name() != "openai" {
		t.Fatalf("name = %q", backend.Name())
	}
}
