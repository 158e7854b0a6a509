package llm

import (
	"context"
	"errors"
)

// ErrAuth marks backend failures caused by rejected or missing credentials
// so the transport layer can answer 401 instead of a generic 500.
var ErrAuth = errors.New("backend authentication failed")

// Relevance is the decoded outcome of a constrained relevance query. The
// backend's raw answer is kept alongside the parsed verdict so callers never
// have to re-inspect response shapes downstream.
type Relevance struct {
	Relevant bool
	Content  string
}

// Backend is the minimal contract the response resolver needs from a
// generative service: a yes/no relevance check restricted to the fixed
// knowledge corpus.
type Backend interface {
	CheckRelevance(ctx context.Context, query string) (Relevance, error)
	Name() string
}
