package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/metrics"
	"github.com/protect-ed/backend/pkg/logger"
	"github.com/protect-ed/backend/pkg/utils"
)

// Cache is the subset of the Redis client the embedder needs.
type Cache interface {
	GetEmbedding(ctx context.Context, textHash string) ([]float32, bool, error)
	SetEmbedding(ctx context.Context, textHash string, embedding []float32, ttl time.Duration) error
}

// CachedEmbedder is a read-through cache over another embedder, keyed by the
// md5 of the text. Cache failures degrade to the inner embedder; they never
// fail the encode.
type CachedEmbedder struct {
	inner Embedder
	cache Cache
	ttl   time.Duration
}

// Embedder mirrors the classify package's collaborator contract so this
// package does not import it.
type Embedder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
}

func NewCachedEmbedder(inner Embedder, cache Cache, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (e *CachedEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	textHash := utils.HashString(text)

	cached, found, err := e.cache.GetEmbedding(ctx, textHash)
	if err != nil {
		logger.Warn("Embedding cache read failed", zap.Error(err))
	}
	if found {
		metrics.EmbeddingCacheHits.Inc()
		return cached, nil
	}
	metrics.EmbeddingCacheMisses.Inc()

	embedding, err := e.inner.Encode(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.cache.SetEmbedding(ctx, textHash, embedding, e.ttl); err != nil {
		logger.Warn("Embedding cache write failed", zap.Error(err))
	}

	return embedding, nil
}

func (e *CachedEmbedder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))

	for i, text := range texts {
		cached, found, err := e.cache.GetEmbedding(ctx, utils.HashString(text))
		if err != nil {
			logger.Warn("Embedding cache read failed", zap.Error(err))
		}
		if found {
			metrics.EmbeddingCacheHits.Inc()
			embeddings[i] = cached
			continue
		}
		metrics.EmbeddingCacheMisses.Inc()
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return embeddings, nil
	}

	fresh, err := e.inner.EncodeBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, embedding := range fresh {
		embeddings[missingIdx[j]] = embedding
		if err := e.cache.SetEmbedding(ctx, utils.HashString(missing[j]), embedding, e.ttl); err != nil {
			logger.Warn("Embedding cache write failed", zap.Error(err))
		}
	}

	return embeddings, nil
}
