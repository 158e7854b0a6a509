package llm

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/dipos-tr/zetachat/internal/common"
)

const defaultModel = "gpt-4o-mini"

// Config carries the generative-backend settings. APIKey and VectorStoreID
// are mandatory; their absence is a construction-time error, not a
// first-request surprise.
type Config struct {
	APIKey        string
	Model         string
	VectorStoreID string
	HTTPTimeout   time.Duration
}

// LoadConfig reads backend settings from the environment and validates the
// required credentials.
func LoadConfig() (Config, error) {
	logger := common.Logger()
	cfg := Config{
		APIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:         strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
		VectorStoreID: strings.TrimSpace(os.Getenv("OPENAI_VECTOR_STORE_ID")),
	}
	if cfg.APIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY is not set")
	}
	if cfg.VectorStoreID == "" {
		return Config{}, errors.New("OPENAI_VECTOR_STORE_ID is not set")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if raw := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", raw, "error", err)
		} else {
			cfg.HTTPTimeout = timeout
		}
	}
	return cfg, nil
}
