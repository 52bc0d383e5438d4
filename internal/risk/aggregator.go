// Package risk turns grouped survey answers into per-section and overall
// risk outcomes. Section text flows through the hybrid classification engine;
// summed answer weights drive the threshold policy.
package risk

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/protect-ed/backend/internal/classify"
	"github.com/protect-ed/backend/internal/taxonomy"
)

// AnswerItem is one survey answer with its question weight.
type AnswerItem struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// Risk levels and their display colors.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
	RiskSevere   = "Severe"

	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorOrange = "orange"
	ColorRed    = "red"
)

// Weight thresholds for the per-section and overall policies.
const (
	sectionHighThreshold     = 6.0
	sectionModerateThreshold = 2.0
	overallHighThreshold     = 10.0
	overallModerateThreshold = 3.0
)

// SectionOutcome is the assessment of one named answer group.
type SectionOutcome struct {
	Category   taxonomy.Category `json:"category"`
	Risk       string            `json:"risk"`
	Color      string            `json:"color"`
	Confidence string            `json:"confidence"`
}

// OverallOutcome is the whole-response assessment, classified independently
// from the concatenation of all section texts.
type OverallOutcome struct {
	Category   taxonomy.Category `json:"category"`
	Risk       string            `json:"risk"`
	Color      string            `json:"color"`
	Advice     string            `json:"advice"`
	Method     string            `json:"method"`
	Confidence string            `json:"confidence"`
}

// Report is the structured result returned to the boundary layer and
// serialized into the persisted assessment record.
type Report struct {
	General   OverallOutcome            `json:"general"`
	Breakdown map[string]SectionOutcome `json:"breakdown"`
}

// Aggregator applies the risk-scoring policy on top of a classification
// engine. It is stateless across calls.
type Aggregator struct {
	engine *classify.Engine
}

func NewAggregator(engine *classify.Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// Analyze assesses each section, then re-runs classification on the full
// concatenated text for the overall outcome. The total score is the sum of
// all section scores; the overall category is never derived from the section
// categories. Sections are visited in name order so the concatenation is
// deterministic.
func (a *Aggregator) Analyze(ctx context.Context, grouped map[string][]AnswerItem) *Report {
	breakdown := make(map[string]SectionOutcome, len(grouped))
	allTexts := make([]string, 0, len(grouped))
	totalScore := 0.0

	for _, name := range sortedSectionNames(grouped) {
		items := grouped[name]
		if len(items) == 0 {
			continue
		}

		texts := make([]string, 0, len(items))
		score := 0.0
		for _, item := range items {
			texts = append(texts, item.Text)
			score += item.Weight
		}
		sectionText := strings.Join(texts, " ")
		allTexts = append(allTexts, sectionText)

		result := a.engine.Classify(ctx, sectionText)
		level, color := riskFor(result.Category, score, sectionHighThreshold, sectionModerateThreshold)

		breakdown[name] = SectionOutcome{
			Category:   result.Category,
			Risk:       level,
			Color:      color,
			Confidence: formatConfidence(result.Confidence),
		}
		totalScore += score
	}

	fullText := strings.Join(allTexts, " ")
	general := a.engine.Classify(ctx, fullText)
	level, color := riskFor(general.Category, totalScore, overallHighThreshold, overallModerateThreshold)

	return &Report{
		General: OverallOutcome{
			Category:   general.Category,
			Risk:       level,
			Color:      color,
			Advice:     taxonomy.Advice(general.Category),
			Method:     general.Method,
			Confidence: formatConfidence(general.Confidence),
		},
		Breakdown: breakdown,
	}
}

// riskFor evaluates the policy in strict priority order: Physical Abuse
// forces Severe regardless of score, then the weight thresholds apply.
func riskFor(category taxonomy.Category, score, highThreshold, moderateThreshold float64) (string, string) {
	switch {
	case category == taxonomy.PhysicalAbuse:
		return RiskSevere, ColorRed
	case score >= highThreshold:
		return RiskHigh, ColorOrange
	case score >= moderateThreshold:
		return RiskModerate, ColorYellow
	default:
		return RiskLow, ColorGreen
	}
}

func formatConfidence(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}

func sortedSectionNames(grouped map[string][]AnswerItem) []string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
