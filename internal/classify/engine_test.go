package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protect-ed/backend/internal/taxonomy"
)

type stubLayer struct {
	name   string
	result Result
	match  bool
	calls  int
}

func (s *stubLayer) Name() string { return s.name }

func (s *stubLayer) Classify(_ context.Context, _ string) (Result, bool) {
	s.calls++
	return s.result, s.match
}

func TestEngine_ShortTextGuard(t *testing.T) {
	layer := &stubLayer{name: "stub", match: true, result: Result{Category: taxonomy.PhysicalAbuse}}
	engine := NewEngine(layer)

	for _, text := range []string{"", "   ", "hi", "a b ", "1234"} {
		result := engine.Classify(context.Background(), text)
		assert.Equal(t, taxonomy.HealthyLowRisk, result.Category, "text %q", text)
		assert.Equal(t, MethodInsufficient, result.Method)
		assert.Equal(t, 0.0, result.Confidence)
	}

	assert.Zero(t, layer.calls, "guarded texts never reach the layers")
}

func TestEngine_FirstConfidentLayerWins(t *testing.T) {
	first := &stubLayer{name: "keyword", match: true, result: Result{
		Category: taxonomy.PhysicalAbuse, Method: MethodKeyword, Confidence: 1.0,
	}}
	second := &stubLayer{name: "topic", match: true, result: Result{
		Category: taxonomy.ControlManipulation, Method: "AI Cluster 2", Confidence: 0.9,
	}}
	engine := NewEngine(first, second)

	result := engine.Classify(context.Background(), "he hit me")
	assert.Equal(t, taxonomy.PhysicalAbuse, result.Category)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Zero(t, second.calls, "short-circuit on first confident match")
}

func TestEngine_FallsThroughAbstainingLayers(t *testing.T) {
	first := &stubLayer{name: "keyword"}
	second := &stubLayer{name: "topic", match: true, result: Result{
		Category: taxonomy.VerbalEmotionalAbuse, Method: "AI Cluster 8", Confidence: 0.6,
	}}
	engine := NewEngine(first, second)

	result := engine.Classify(context.Background(), "he belittles me daily")
	assert.Equal(t, taxonomy.VerbalEmotionalAbuse, result.Category)
	assert.Equal(t, 1, first.calls)
}

func TestEngine_SystemDefaultWhenAllAbstain(t *testing.T) {
	engine := NewEngine(&stubLayer{name: "keyword"}, &stubLayer{name: "topic"}, &stubLayer{name: "semantic"})

	result := engine.Classify(context.Background(), "a perfectly ordinary sentence")
	assert.Equal(t, taxonomy.HealthyLowRisk, result.Category)
	assert.Equal(t, MethodDefault, result.Method)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestEngine_NoLayers(t *testing.T) {
	engine := NewEngine()

	result := engine.Classify(context.Background(), "a perfectly ordinary sentence")
	assert.Equal(t, taxonomy.HealthyLowRisk, result.Category)
	assert.Equal(t, MethodDefault, result.Method)
}

func TestEngine_SkipsNilLayers(t *testing.T) {
	engine := NewEngine(nil, &stubLayer{name: "topic", match: true, result: Result{
		Category: taxonomy.ControlManipulation, Method: "AI Cluster 3", Confidence: 0.5,
	}})

	result := engine.Classify(context.Background(), "he reads my messages")
	assert.Equal(t, taxonomy.ControlManipulation, result.Category)
}

func TestEngine_KeywordPriorityEndToEnd(t *testing.T) {
	// Real keyword layer over a confident stub: the keyword match must win
	// regardless of what the model layers would say.
	topic := &stubLayer{name: "topic", match: true, result: Result{
		Category: taxonomy.NeglectEmotionalWithdrawal, Method: "AI Cluster 4", Confidence: 0.99,
	}}
	engine := NewEngine(NewKeywordLayer(taxonomy.KeywordRules()), topic)

	result := engine.Classify(context.Background(), "he will kill me")
	assert.Equal(t, taxonomy.PhysicalAbuse, result.Category)
	assert.Equal(t, MethodKeyword, result.Method)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Zero(t, topic.calls)
}
