// internal/workers/eligibility/evaluate-eligibility/models.go
package evaluateeligibility

type Input struct {
	ApplicationID string `json:"applicationId"`
	EvaluatedBy   string `json:"evaluatedBy,omitempty"`
	Trigger       string `json:"trigger,omitempty"`
}

type Output struct {
	ApplicationID     string   `json:"applicationId"`
	EligibilityStatus string   `json:"eligibilityStatus"`
	Score             *float64 `json:"score,omitempty"`
	Reasons           []string `json:"reasons"`
	EvaluatedAt       string   `json:"evaluatedAt"`
}
