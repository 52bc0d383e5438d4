package handlers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/protect-ed/backend/internal/risk"
)

// sanitizeGroupedAnswers normalizes submitted answer text in place: HTML
// markup is reduced to its text content, NUL bytes are dropped, and
// whitespace is trimmed. Questionnaire answers arrive from a web form and may
// carry pasted rich text.
func sanitizeGroupedAnswers(grouped map[string][]risk.AnswerItem) {
	for name, items := range grouped {
		for i := range items {
			items[i].Text = sanitizeText(items[i].Text)
		}
		grouped[name] = items
	}
}

func sanitizeText(text string) string {
	if strings.ContainsAny(text, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}

	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}
