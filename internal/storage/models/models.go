package models

// Assessment is one persisted analysis outcome. Rows are written once per
// request and never mutated or deleted by this service.
type Assessment struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	RiskLevel    string `json:"risk_level"`
	MainCategory string `json:"main_category"`
	Confidence   string `json:"confidence"`
	FullReport   string `json:"full_report"`
	CreatedAt    int64  `json:"created_at"`
}
