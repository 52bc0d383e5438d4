// Package classify implements the hybrid classification engine: an ordered
// list of fallback layers (keyword match, topic-model lookup, semantic
// similarity) evaluated in strict priority order with early exit.
package classify

import (
	"context"

	"github.com/protect-ed/backend/internal/taxonomy"
)

// Method names reported in classification results.
const (
	MethodKeyword      = "Manual Keyword Match"
	MethodSemantic     = "AI Semantic Similarity"
	MethodInsufficient = "Insufficient Data"
	MethodDefault      = "System Default"
)

// Result is the outcome of a single classification call.
type Result struct {
	Category   taxonomy.Category `json:"category"`
	Method     string            `json:"method"`
	Confidence float64           `json:"confidence"`
}

// Layer is one stage of the fallback pipeline. Classify returns ok=false to
// abstain, handing the text to the next layer. Layers must be safe for
// concurrent use: they only read process-wide model state.
type Layer interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, bool)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
