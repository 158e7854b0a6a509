package kb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dipos-tr/zetachat/internal/common"
)

// Store holds the immutable knowledge corpus. Entries are loaded from disk
// on first access and cached for the lifetime of the process; a missing or
// malformed corpus degrades to an empty corpus rather than an error, so
// callers must treat "no knowledge" as a valid state.
type Store struct {
	path    string
	once    sync.Once
	entries []Entry
}

// Config controls where the corpus file is looked up.
type Config struct {
	Path string
}

// LoadConfig reads the corpus location from the environment.
func LoadConfig() Config {
	return Config{Path: strings.TrimSpace(os.Getenv("KNOWLEDGE_BASE_PATH"))}
}

// DefaultPath is used when no explicit corpus location is configured.
func DefaultPath() string {
	return filepath.Join("data", "knowledge.json")
}

// candidatePaths lists fallback corpus locations tried in order when the
// configured file does not exist.
func candidatePaths(primary string) []string {
	return []string{
		primary,
		DefaultPath(),
		"knowledge.json",
		filepath.Join("data", "kb_dataset_w_images.json"),
	}
}

// NewStore constructs a corpus store rooted at path. The file is not opened
// until the first call to Entries.
func NewStore(path string) *Store {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = DefaultPath()
	}
	return &Store{path: trimmed}
}

// NewStoreFromEntries constructs a store over an already-materialized
// corpus, bypassing the file load.
func NewStoreFromEntries(entries []Entry) *Store {
	s := &Store{path: "<memory>"}
	s.once.Do(func() { s.entries = entries })
	return s
}

// Entries returns the cached corpus, loading it on first use. The returned
// slice is shared and must not be mutated.
func (s *Store) Entries() []Entry {
	if s == nil {
		return nil
	}
	s.once.Do(s.load)
	return s.entries
}

// Len reports the number of loaded entries.
func (s *Store) Len() int {
	return len(s.Entries())
}

func (s *Store) load() {
	logger := common.Logger()
	var path string
	for _, candidate := range candidatePaths(s.path) {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		logger.Warn("kb: corpus file not found", "path", s.path)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("kb: corpus read failed", "path", path, "error", err)
		return
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("kb: corpus parse failed", "path", path, "error", err)
		return
	}
	s.entries = entries
	logger.Info("kb: corpus loaded", "path", path, "entries", len(entries))
}
