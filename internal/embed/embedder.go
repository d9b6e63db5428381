// Package embed wraps the external embedding service. The pipeline
// treats it as an opaque capability: a failed call degrades the record
// to a nil vector, it never aborts the batch.
package embed

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAI embeds via the OpenAI embeddings API (token read from
// OPENAI_API_KEY). Calls are throttled so a large batch doesn't trip the
// provider's rate limits.
type OpenAI struct {
	llm     *openai.LLM
	limiter *rate.Limiter
}

func NewOpenAI(model string, requestsPerSec float64) (*OpenAI, error) {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 2
	}

	llm, err := openai.New(openai.WithEmbeddingModel(model))
	if err != nil {
		return nil, fmt.Errorf("embedder init: %w", err)
	}
	return &OpenAI{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
	}, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("embed: empty text")
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vecs, err := o.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vecs) == 0 {
		return nil, errors.New("embed: empty response")
	}
	return vecs[0], nil
}
