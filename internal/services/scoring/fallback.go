package scoring

import (
	"fmt"

	"msme-credit-scoring-backend/internal/models"
)

// FallbackResult is the outcome of the rule-based scorer.
type FallbackResult struct {
	Score  float64
	Status models.DecisionStatus
	Limit  float64
}

// FallbackScore rates a statement from four features without a classifier.
func FallbackScore(fv models.FeatureVector) FallbackResult {
	score := 0.0

	switch {
	case fv.NetCashFlow > 0:
		score += 40
	case fv.NetCashFlow > -1000:
		score += 20
	}

	switch {
	case fv.Repayments > 3:
		score += 30
	case fv.Repayments > 0:
		score += 15
	}

	switch {
	case fv.BalanceVolatility < 1000:
		score += 20
	case fv.BalanceVolatility < 3000:
		score += 10
	}

	if fv.TransactionCount > 50 {
		score += 10
	}

	score = clamp(score, 0, 100)

	switch {
	case score >= 60:
		return FallbackResult{score, models.StatusApproved, clamp(score*500, 5000, 50000)}
	case score >= 40:
		return FallbackResult{score, models.StatusApprovedWithCaution, clamp(score*200, 1000, 10000)}
	case score >= 20:
		return FallbackResult{score, models.StatusReviewNeeded, 0}
	default:
		return FallbackResult{score, models.StatusDeclined, 0}
	}
}

// Probability expresses the fallback score on the classifier's scale.
func (r FallbackResult) Probability() float64 {
	return r.Score / 100
}

// Label is 1 when the fallback would approve outright.
func (r FallbackResult) Label() int {
	if r.Score >= 60 {
		return 1
	}
	return 0
}

// DecideFallback builds the outcome for a request scored without a classifier.
func DecideFallback(fb FallbackResult, fv models.FeatureVector) models.DecisionOutcome {
	return models.DecisionOutcome{
		Status:       fb.Status,
		Score:        round(fb.Score, 2),
		InterestRate: InterestRate(fb.Probability()),
		Limit:        round(fb.Limit, 2),
		ModelUsed:    false,
		ReasonCodes: []string{
			fmt.Sprintf("Fallback scoring: Net flow KES %.0f, Repayments: %d, Volatility: %.0f",
				fv.NetCashFlow, fv.Repayments, fv.BalanceVolatility),
		},
		Breakdown: map[string]string{
			"fallback_analysis": "Rule-based scoring used",
			"scoring_factors":   "Cash flow, repayments, stability",
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
