package classify

import (
	"context"
	"strings"

	"github.com/protect-ed/backend/internal/taxonomy"
)

// minTextLength is the minimum trimmed length for a text to be classifiable.
const minTextLength = 5

// Engine runs the layers in priority order and returns the first confident
// result. Layer unavailability (a model that failed to load) is handled by
// the layer abstaining, never by an error. Classification is pure over
// read-only model state, so one Engine serves concurrent requests.
type Engine struct {
	layers []Layer
}

func NewEngine(layers ...Layer) *Engine {
	return &Engine{layers: layers}
}

// Classify resolves text into exactly one category. Texts shorter than five
// characters after trimming carry no signal and short-circuit to
// Healthy/Low Risk; if every layer abstains, the system default applies.
func (e *Engine) Classify(ctx context.Context, text string) Result {
	if len(strings.TrimSpace(text)) < minTextLength {
		return Result{
			Category:   taxonomy.HealthyLowRisk,
			Method:     MethodInsufficient,
			Confidence: 0.0,
		}
	}

	for _, layer := range e.layers {
		if layer == nil {
			continue
		}
		if result, ok := layer.Classify(ctx, text); ok {
			return result
		}
	}

	return Result{
		Category:   taxonomy.HealthyLowRisk,
		Method:     MethodDefault,
		Confidence: 0.0,
	}
}
