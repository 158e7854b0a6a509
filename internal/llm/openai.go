package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
	"github.com/openai/openai-go/v2/shared"

	"github.com/dipos-tr/zetachat/internal/common"
)

const relevanceInstruction = "You are a relevance checker for a product support knowledge base. " +
	"Search the attached document store and decide whether it contains material relevant to the user's question. " +
	"Answer with exactly one word: yes or no.\n\nQuestion: "

// OpenAIBackend answers relevance queries through the Responses API with a
// file_search tool pinned to the knowledge-base vector store, so the model
// can only draw on the fixed corpus.
type OpenAIBackend struct {
	client        openai.Client
	model         string
	vectorStoreID string
}

// NewOpenAIBackend validates the configuration and constructs the client.
func NewOpenAIBackend(cfg Config) (*OpenAIBackend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm: api key required")
	}
	if strings.TrimSpace(cfg.VectorStoreID) == "" {
		return nil, errors.New("llm: vector store id required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.HTTPTimeout))
	}
	logger := common.Logger()
	logger.Info("llm: OpenAI backend configured", "model", model)
	return &OpenAIBackend{
		client:        openai.NewClient(opts...),
		model:         model,
		vectorStoreID: cfg.VectorStoreID,
	}, nil
}

// CheckRelevance asks the backend whether the corpus holds material for the
// query, constrained to the configured vector store. The raw answer is
// decoded once here; callers only see the tagged Relevance result.
func (b *OpenAIBackend) CheckRelevance(ctx context.Context, query string) (Relevance, error) {
	if b == nil {
		return Relevance{}, errors.New("llm: backend not initialised")
	}
	logger := common.Logger()
	logger.Debug("llm: relevance check", "model", b.model, "query_length", len(query))
	resp, err := b.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(b.model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(relevanceInstruction + query)},
		Tools: []responses.ToolUnionParam{{
			OfFileSearch: &responses.FileSearchToolParam{
				VectorStoreIDs: []string{b.vectorStoreID},
			},
		}},
	})
	if err != nil {
		return Relevance{}, classifyError(err)
	}
	answer := strings.TrimSpace(resp.OutputText())
	verdict := strings.ToLower(answer)
	result := Relevance{
		Relevant: strings.HasPrefix(verdict, "yes"),
		Content:  answer,
	}
	logger.Debug("llm: relevance answer", "relevant", result.Relevant)
	return result, nil
}

func (b *OpenAIBackend) Name() string {
	return "openai"
}

func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}
	return err
}
