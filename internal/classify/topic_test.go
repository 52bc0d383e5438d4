package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protect-ed/backend/internal/taxonomy"
)

type fakeTopicModel struct {
	topicID int
	probs   []float64
	err     error
}

func (f *fakeTopicModel) Transform(_ context.Context, _ string) (int, []float64, error) {
	return f.topicID, f.probs, f.err
}

func TestTopicLayer_MappedIDWithProbabilityVector(t *testing.T) {
	layer := NewTopicLayer(&fakeTopicModel{topicID: 2, probs: []float64{0.1, 0.7, 0.2}})

	result, ok := layer.Classify(context.Background(), "he checks my phone")
	require.True(t, ok)
	assert.Equal(t, taxonomy.ControlManipulation, result.Category)
	assert.Equal(t, "AI Cluster 2", result.Method)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9, "vector probabilities take the maximum")
}

func TestTopicLayer_MappedIDWithScalarProbability(t *testing.T) {
	layer := NewTopicLayer(&fakeTopicModel{topicID: 5, probs: []float64{0.42}})

	result, ok := layer.Classify(context.Background(), "he shouts at me")
	require.True(t, ok)
	assert.Equal(t, taxonomy.VerbalEmotionalAbuse, result.Category)
	assert.Equal(t, "AI Cluster 5", result.Method)
	assert.InDelta(t, 0.42, result.Confidence, 1e-9)
}

func TestTopicLayer_NoProbabilityDefaultsToHalf(t *testing.T) {
	layer := NewTopicLayer(&fakeTopicModel{topicID: 4, probs: nil})

	result, ok := layer.Classify(context.Background(), "he ignores me for days")
	require.True(t, ok)
	assert.Equal(t, taxonomy.NeglectEmotionalWithdrawal, result.Category)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestTopicLayer_ConfidenceStaysInUnitInterval(t *testing.T) {
	layer := NewTopicLayer(&fakeTopicModel{topicID: 2, probs: []float64{1.3}})

	result, ok := layer.Classify(context.Background(), "he tracks my location")
	require.True(t, ok)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestTopicLayer_UnmappedIDAbstains(t *testing.T) {
	layer := NewTopicLayer(&fakeTopicModel{topicID: 7, probs: []float64{0.9}})

	_, ok := layer.Classify(context.Background(), "something else entirely")
	assert.False(t, ok)
}

func TestTopicLayer_ModelErrorAbstains(t *testing.T) {
	layer := NewTopicLayer(&fakeTopicModel{err: errors.New("session gone")})

	_, ok := layer.Classify(context.Background(), "any text at all")
	assert.False(t, ok)
}

func TestTopicLayer_NilModelAbstains(t *testing.T) {
	layer := NewTopicLayer(nil)

	_, ok := layer.Classify(context.Background(), "any text at all")
	assert.False(t, ok)
}
