package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/taxonomy"
	"github.com/protect-ed/backend/pkg/logger"
)

// TopicModel is the external pretrained topic-model collaborator. Transform
// returns the cluster ID assigned to the text plus whatever probability
// signal the model exposes: a full per-class vector, a single scalar, or
// nothing at all (nil).
type TopicModel interface {
	Transform(ctx context.Context, text string) (topicID int, probs []float64, err error)
}

// TopicLayer maps topic-cluster IDs to categories through the fixed taxonomy
// table. IDs outside the table abstain; a model error abstains rather than
// failing the request.
type TopicLayer struct {
	model TopicModel
}

func NewTopicLayer(model TopicModel) *TopicLayer {
	return &TopicLayer{model: model}
}

func (l *TopicLayer) Name() string {
	return "topic"
}

func (l *TopicLayer) Classify(ctx context.Context, text string) (Result, bool) {
	if l.model == nil {
		return Result{}, false
	}

	topicID, probs, err := l.model.Transform(ctx, text)
	if err != nil {
		logger.Warn("Topic model transform failed, skipping layer", zap.Error(err))
		return Result{}, false
	}

	category, ok := taxonomy.TopicCategory(topicID)
	if !ok {
		return Result{}, false
	}

	return Result{
		Category:   category,
		Method:     fmt.Sprintf("AI Cluster %d", topicID),
		Confidence: clampUnit(topicConfidence(probs)),
	}, true
}

// topicConfidence tolerates both probability shapes the underlying model may
// produce: a per-class vector (take the maximum) or a single scalar. When the
// model reports nothing, confidence defaults to 0.5.
func topicConfidence(probs []float64) float64 {
	switch {
	case len(probs) == 0:
		return 0.5
	case len(probs) == 1:
		return probs[0]
	default:
		max := probs[0]
		for _, p := range probs[1:] {
			if p > max {
				max = p
			}
		}
		return max
	}
}
