package classify

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/taxonomy"
	"github.com/protect-ed/backend/pkg/logger"
)

// SimilarityThreshold is the minimum cosine similarity against any anchor
// embedding for the semantic layer to claim a category.
const SimilarityThreshold = 0.35

// Embedder is the external sentence-embedding collaborator.
type Embedder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// AnchorSet holds the precomputed embeddings of the taxonomy's exemplar
// sentences. Built once at startup and read-only afterwards.
type AnchorSet struct {
	anchors map[taxonomy.Category][][]float32
}

// BuildAnchorSet embeds every anchor sentence per category. It fails if any
// category's sentences cannot be embedded; the caller disables the semantic
// layer in that case.
func BuildAnchorSet(ctx context.Context, embedder Embedder, sentences map[taxonomy.Category][]string) (*AnchorSet, error) {
	set := &AnchorSet{anchors: make(map[taxonomy.Category][][]float32, len(sentences))}

	for category, texts := range sentences {
		embeddings, err := embedder.EncodeBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed anchors for %q: %w", category, err)
		}
		if len(embeddings) != len(texts) {
			return nil, fmt.Errorf("anchor embedding count mismatch for %q: got %d, want %d", category, len(embeddings), len(texts))
		}
		set.anchors[category] = embeddings
	}

	logger.Info("Anchor embeddings built", zap.Int("categories", len(set.anchors)))

	return set, nil
}

// Size returns the total number of anchor embeddings.
func (s *AnchorSet) Size() int {
	n := 0
	for _, vecs := range s.anchors {
		n += len(vecs)
	}
	return n
}

// SemanticLayer embeds the input and picks the category whose anchor has the
// globally maximum cosine similarity. Scores at or below the threshold
// abstain so the engine falls through to its default.
type SemanticLayer struct {
	embedder  Embedder
	anchors   *AnchorSet
	threshold float64
}

func NewSemanticLayer(embedder Embedder, anchors *AnchorSet) *SemanticLayer {
	return &SemanticLayer{
		embedder:  embedder,
		anchors:   anchors,
		threshold: SimilarityThreshold,
	}
}

func (l *SemanticLayer) Name() string {
	return "semantic"
}

func (l *SemanticLayer) Classify(ctx context.Context, text string) (Result, bool) {
	if l.embedder == nil || l.anchors == nil {
		return Result{}, false
	}

	embedding, err := l.embedder.Encode(ctx, text)
	if err != nil {
		logger.Warn("Failed to embed text, skipping semantic layer", zap.Error(err))
		return Result{}, false
	}

	bestCategory := taxonomy.NeutralUnclassified
	highScore := 0.0
	for category, anchors := range l.anchors.anchors {
		for _, anchor := range anchors {
			score := cosineSimilarity(embedding, anchor)
			if score > highScore {
				highScore = score
				bestCategory = category
			}
		}
	}

	if highScore <= l.threshold {
		return Result{}, false
	}

	return Result{
		Category:   bestCategory,
		Method:     MethodSemantic,
		Confidence: clampUnit(highScore),
	}, true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
