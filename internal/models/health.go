package models

// HealthFactor is one sub-score of the financial health rubric.
type HealthFactor struct {
	Score  float64 `json:"score"`
	Max    float64 `json:"max"`
	Detail string  `json:"detail"`
}

// HealthScore is the composite financial health assessment.
// Factors are keyed savings_rate, diversification, emergency_fund and
// age_allocation; Total is their sum, capped at 100.
type HealthScore struct {
	Total           float64                 `json:"total_score"`
	Grade           string                  `json:"grade"`
	Factors         map[string]HealthFactor `json:"factors"`
	Recommendations []string                `json:"recommendations"`
}
