package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protect-ed/backend/internal/taxonomy"
)

func TestKeywordLayer_Match(t *testing.T) {
	layer := NewKeywordLayer(taxonomy.KeywordRules())

	result, ok := layer.Classify(context.Background(), "he will kill me")
	require.True(t, ok)
	assert.Equal(t, taxonomy.PhysicalAbuse, result.Category)
	assert.Equal(t, MethodKeyword, result.Method)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestKeywordLayer_CaseInsensitive(t *testing.T) {
	layer := NewKeywordLayer(taxonomy.KeywordRules())

	result, ok := layer.Classify(context.Background(), "He THREATENS me constantly")
	require.True(t, ok)
	assert.Equal(t, taxonomy.ControlManipulation, result.Category)
}

func TestKeywordLayer_FirstMatchWins(t *testing.T) {
	rules := []taxonomy.KeywordRule{
		{Trigger: "he", Category: taxonomy.NeglectEmotionalWithdrawal},
		{Trigger: "hit", Category: taxonomy.PhysicalAbuse},
	}
	layer := NewKeywordLayer(rules)

	result, ok := layer.Classify(context.Background(), "he hit me")
	require.True(t, ok)
	assert.Equal(t, taxonomy.NeglectEmotionalWithdrawal, result.Category,
		"iteration order decides overlapping triggers")
}

func TestKeywordLayer_SubstringContainment(t *testing.T) {
	layer := NewKeywordLayer(taxonomy.KeywordRules())

	// "hit" inside "hitting" still matches: containment, not word boundaries.
	result, ok := layer.Classify(context.Background(), "he keeps hitting the wall")
	require.True(t, ok)
	assert.Equal(t, taxonomy.PhysicalAbuse, result.Category)
}

func TestKeywordLayer_Abstains(t *testing.T) {
	layer := NewKeywordLayer(taxonomy.KeywordRules())

	_, ok := layer.Classify(context.Background(), "we had a quiet evening together")
	assert.False(t, ok)
}
