package models

// DecisionStatus is the business decision for a statement.
type DecisionStatus string

const (
	StatusApproved            DecisionStatus = "APPROVED"
	StatusApprovedWithCaution DecisionStatus = "APPROVED_WITH_CAUTION"
	StatusReviewNeeded        DecisionStatus = "REVIEW_NEEDED"
	StatusDeclined            DecisionStatus = "DECLINED"
)

// ScoringSource records which path produced a decision.
type ScoringSource string

const (
	SourceModel    ScoringSource = "model"
	SourceFallback ScoringSource = "fallback"
)

// ScoringResult is the raw classifier outcome for one request.
type ScoringResult struct {
	Label       int
	Probability *float64 // nil when the classifier only predicts labels
	Source      ScoringSource
	ModelType   string
}

// DecisionOutcome is the decision half of the prediction payload.
type DecisionOutcome struct {
	Status       DecisionStatus    `json:"decision_status"`
	Score        float64           `json:"alt_score"`
	InterestRate float64           `json:"synthetic_interest_rate"`
	Limit        float64           `json:"recommended_limit"`
	ModelUsed    bool              `json:"model_used"`
	Probability  *float64          `json:"approval_probability,omitempty"`
	ModelType    string            `json:"model_type,omitempty"`
	ReasonCodes  []string          `json:"reason_codes"`
	Breakdown    map[string]string `json:"breakdown,omitempty"`
}

func (d DecisionOutcome) Source() ScoringSource {
	if d.ModelUsed {
		return SourceModel
	}
	return SourceFallback
}
