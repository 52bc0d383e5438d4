package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protect-ed/backend/internal/risk"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "he hit me", "he hit me"},
		{"trims whitespace", "  he hit me \n", "he hit me"},
		{"strips markup", "<p>he <b>hit</b> me</p>", "he hit me"},
		{"drops scripts", "<script>alert(1)</script>fine text", "fine text"},
		{"removes nul bytes", "he\x00 hit me", "he hit me"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeText(tt.input))
		})
	}
}

func TestSanitizeGroupedAnswers(t *testing.T) {
	grouped := map[string][]risk.AnswerItem{
		"S": {
			{Text: "  <i>he yells</i>  ", Weight: 2},
			{Text: "plain", Weight: 1},
		},
	}

	sanitizeGroupedAnswers(grouped)

	assert.Equal(t, "he yells", grouped["S"][0].Text)
	assert.Equal(t, 2.0, grouped["S"][0].Weight, "weights are untouched")
	assert.Equal(t, "plain", grouped["S"][1].Text)
}
