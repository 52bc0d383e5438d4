// Package taxonomy holds the fixed abuse-risk classification vocabulary:
// the six categories, their advice strings, the keyword triggers, the
// topic-cluster mapping, and the anchor sentences used for semantic matching.
// All of it is static configuration; nothing here performs I/O.
package taxonomy

type Category string

const (
	PhysicalAbuse              Category = "Physical Abuse"
	ControlManipulation        Category = "Control & Manipulation"
	VerbalEmotionalAbuse       Category = "Verbal & Emotional Abuse"
	NeglectEmotionalWithdrawal Category = "Neglect & Emotional Withdrawal"
	HealthyLowRisk             Category = "Healthy/Low Risk"
	NeutralUnclassified        Category = "Neutral / Unclassified"
)

// Categories returns every category the classifier can produce.
func Categories() []Category {
	return []Category{
		PhysicalAbuse,
		ControlManipulation,
		VerbalEmotionalAbuse,
		NeglectEmotionalWithdrawal,
		HealthyLowRisk,
		NeutralUnclassified,
	}
}

// KeywordRule maps a trigger substring to its category. Rules are evaluated
// in slice order and the first containment match wins.
type KeywordRule struct {
	Trigger  string
	Category Category
}

var keywordRules = []KeywordRule{
	{"hit", PhysicalAbuse},
	{"slap", PhysicalAbuse},
	{"punch", PhysicalAbuse},
	{"kick", PhysicalAbuse},
	{"weapon", PhysicalAbuse},
	{"kill", PhysicalAbuse},
	{"threat", ControlManipulation},
}

func KeywordRules() []KeywordRule {
	return keywordRules
}

// topicTable maps opaque topic-cluster IDs produced by the pretrained topic
// model to categories. The table is deliberately partial: unmapped IDs carry
// no confident signal and fall through to the next classification layer.
var topicTable = map[int]Category{
	1: NeglectEmotionalWithdrawal,
	2: ControlManipulation,
	3: ControlManipulation,
	4: NeglectEmotionalWithdrawal,
	5: VerbalEmotionalAbuse,
	6: ControlManipulation,
	8: VerbalEmotionalAbuse,
}

// TopicCategory resolves a topic ID; ok is false for unmapped IDs.
func TopicCategory(id int) (Category, bool) {
	cat, ok := topicTable[id]
	return cat, ok
}

var anchorSentences = map[Category][]string{
	ControlManipulation:        {"He controls who I see.", "He demands passwords.", "He tracks my location."},
	VerbalEmotionalAbuse:       {"He calls me names.", "He yells and screams.", "He blames me for everything."},
	PhysicalAbuse:              {"He hurts me physically.", "He pushes and shoves.", "He throws things."},
	NeglectEmotionalWithdrawal: {"He ignores me for days.", "He isolates me from family."},
}

// AnchorSentences returns the exemplar sentences whose embeddings anchor the
// semantic similarity layer.
func AnchorSentences() map[Category][]string {
	return anchorSentences
}

var adviceTable = map[Category]string{
	ControlManipulation:        "Document incidents. Do not share your location if unsafe.",
	VerbalEmotionalAbuse:       "Prioritize your mental health. Do not engage in escalating arguments.",
	NeglectEmotionalWithdrawal: "Seek counseling or support from trusted friends.",
	PhysicalAbuse:              "Go to a safe place immediately. Call 911.",
	HealthyLowRisk:             "Maintain open communication.",
	NeutralUnclassified:        "No specific pattern detected.",
}

const defaultAdvice = "No advice available."

// Advice returns the guidance string for a category. The mapping is total:
// unknown categories get a default string rather than an empty one.
func Advice(c Category) string {
	if advice, ok := adviceTable[c]; ok {
		return advice
	}
	return defaultAdvice
}
