package classify

import (
	"context"
	"strings"

	"github.com/protect-ed/backend/internal/taxonomy"
)

// KeywordLayer is the first-priority layer: case-insensitive substring
// matching against a fixed, ordered trigger list. A match is an unconditional
// signal with confidence 1.0.
type KeywordLayer struct {
	rules []taxonomy.KeywordRule
}

func NewKeywordLayer(rules []taxonomy.KeywordRule) *KeywordLayer {
	return &KeywordLayer{rules: rules}
}

func (l *KeywordLayer) Name() string {
	return "keyword"
}

func (l *KeywordLayer) Classify(_ context.Context, text string) (Result, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range l.rules {
		if strings.Contains(lowered, rule.Trigger) {
			return Result{
				Category:   rule.Category,
				Method:     MethodKeyword,
				Confidence: 1.0,
			}, true
		}
	}
	return Result{}, false
}
