package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/dipos-tr/zetachat/internal/common"
	"github.com/dipos-tr/zetachat/internal/kb"
	"github.com/dipos-tr/zetachat/internal/llm"
)

const (
	// DefaultBackendTimeout bounds the generative backend consultation;
	// past it the request gets a timeout message instead of hanging.
	DefaultBackendTimeout = 45 * time.Second
	// minDirectContentLength keeps trivially short corpus bodies from
	// being served verbatim as a direct answer.
	minDirectContentLength = 50
)

// Fixed user-facing messages. Backend and corpus failures are folded into
// these rather than propagated; only auth misconfiguration escapes so the
// transport can answer 401.
const (
	notFoundMessage       = "Sorry, I couldn't find any information about that in the knowledge base. Could you rephrase your question?"
	imagesOnlyMessage     = "I couldn't compose a full answer, but the images below may help. Please review them."
	cannotPinpointMessage = "I found related material but couldn't pinpoint an exact answer. Could you be more specific?"
	searchErrorMessage    = "Something went wrong while searching. Please try again."
	timeoutMessage        = "The search took too long to complete. Please try again."
	notConfiguredMessage  = "The assistant service is not configured. Please contact support."
)

// Envelope is the resolved answer returned to the transport layer. Images
// is omitted from the wire encoding when empty.
type Envelope struct {
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// Resolver turns a user question into an answer envelope: a confident
// lexical match answers directly from the corpus; otherwise the generative
// backend is consulted for a corpus-restricted relevance verdict; failing
// both, a fixed fallback message is used. Images are attached last.
type Resolver struct {
	corpus  *kb.Store
	backend llm.Backend
	timeout time.Duration
}

type Option func(*Resolver)

// WithBackendTimeout overrides the backend consultation bound.
func WithBackendTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New constructs a Resolver. A nil backend is valid and yields the
// not-configured message on the backend path.
func New(corpus *kb.Store, backend llm.Backend, opts ...Option) *Resolver {
	r := &Resolver{corpus: corpus, backend: backend, timeout: DefaultBackendTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve runs the full pipeline for one question.
func (r *Resolver) Resolve(ctx context.Context, query string) (Envelope, error) {
	logger := common.Logger()
	var content string
	if match := r.corpus.Match(query); match != nil && len(match.Entry.Content) > minDirectContentLength {
		logger.Info("resolver: direct corpus match", "entry", match.Entry.ID, "score", match.Score)
		content = match.Entry.Content
	} else {
		answer, err := r.consultBackend(ctx, query)
		if err != nil {
			return Envelope{}, err
		}
		content = answer
	}

	images := r.corpus.ResolveImages(content, query)
	if content == "" {
		if len(images) > 0 {
			content = imagesOnlyMessage
		} else {
			content = notFoundMessage
		}
	}
	return Envelope{Content: content, Images: images}, nil
}

// consultBackend performs the relevance-check-then-rematch flow. The empty
// string means the corpus has nothing relevant; any non-auth failure comes
// back as a safe user-facing message.
func (r *Resolver) consultBackend(ctx context.Context, query string) (string, error) {
	logger := common.Logger()
	if r.backend == nil {
		logger.Warn("resolver: backend not configured", "query", trimForLog(query))
		return notConfiguredMessage, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	relevance, err := r.backend.CheckRelevance(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrAuth):
			logger.Error("resolver: backend auth failed", "error", err)
			return "", err
		case errors.Is(err, context.DeadlineExceeded):
			logger.Error("resolver: backend timed out", "query", trimForLog(query))
			return timeoutMessage, nil
		default:
			logger.Error("resolver: backend call failed", "error", err, "query", trimForLog(query))
			return searchErrorMessage, nil
		}
	}
	if !relevance.Relevant {
		logger.Info("resolver: backend reports no relevant material", "query", trimForLog(query))
		return "", nil
	}
	if match := r.corpus.MatchWithThreshold(query, kb.RelaxedThreshold); match != nil {
		logger.Info("resolver: relaxed match after relevance confirmation", "entry", match.Entry.ID, "score", match.Score)
		return match.Entry.Content, nil
	}
	return cannotPinpointMessage, nil
}

func trimForLog(query string) string {
	const limit = 80
	runes := []rune(query)
	if len(runes) <= limit {
		return query
	}
	return string(runes[:limit]) + "…"
}
