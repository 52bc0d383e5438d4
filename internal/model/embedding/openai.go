// Package embedding provides the sentence-embedding collaborator behind the
// semantic similarity layer. The concrete provider is the OpenAI embeddings
// API; an optional Redis read-through cache sits in front of it.
package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/protect-ed/backend/pkg/circuitbreaker"
	"github.com/protect-ed/backend/pkg/logger"
	"github.com/protect-ed/backend/pkg/retry"
)

// OpenAIEmbedder calls the embeddings API behind a circuit breaker with
// retried attempts. The classification core never retries; all of that
// machinery lives here, inside the collaborator.
type OpenAIEmbedder struct {
	client      *openai.Client
	model       string
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.NewCircuitBreaker("embedding", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Embedding client initialized", zap.String("model", model))

	return &OpenAIEmbedder{
		client:      client,
		model:       model,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (e *OpenAIEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (e *OpenAIEmbedder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var embeddings [][]float32

	err := e.cb.Execute(ctx, func() error {
		return retry.Do(ctx, e.retryConfig, func() error {
			resp, err := e.client.CreateEmbeddings(
				ctx,
				openai.EmbeddingRequest{
					Input: texts,
					Model: openai.EmbeddingModel(e.model),
				},
			)

			if err != nil {
				return fmt.Errorf("failed to generate embeddings: %w", err)
			}
			if len(resp.Data) != len(texts) {
				return fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(texts))
			}

			embeddings = make([][]float32, len(resp.Data))
			for i, item := range resp.Data {
				vector := make([]float32, len(item.Embedding))
				copy(vector, item.Embedding)
				embeddings[i] = vector
			}

			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return embeddings, nil
}
