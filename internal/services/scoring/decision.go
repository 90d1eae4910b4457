package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"msme-credit-scoring-backend/internal/models"
)

const (
	baseInterestRate   = 12.0
	riskRatePremium    = 15.0
	approvedLimitCap   = 50000.0
	cautionLimitCap    = 20000.0
	labelApprovedScore = 100.0
)

// Band is a decision status with its recommended limit.
type Band struct {
	Status models.DecisionStatus
	Limit  float64
}

// MapProbability bands an approval probability. Lower bounds are inclusive.
func MapProbability(p float64) Band {
	switch {
	case p >= 0.7:
		return Band{models.StatusApproved, p * approvedLimitCap}
	case p >= 0.5:
		return Band{models.StatusApprovedWithCaution, p * cautionLimitCap}
	case p >= 0.3:
		return Band{models.StatusReviewNeeded, 0}
	default:
		return Band{models.StatusDeclined, 0}
	}
}

// InterestRate prices risk on top of the base rate, rounded to 2 decimals.
func InterestRate(p float64) float64 {
	return round(baseInterestRate+(1-p)*riskRatePremium, 2)
}

// Decide maps a classifier result to an outcome, using the probability when
// the classifier produced one and the bare label otherwise.
func Decide(res models.ScoringResult, fv models.FeatureVector) models.DecisionOutcome {
	if res.Probability != nil {
		return fromProbability(*res.Probability, res.ModelType, fv)
	}
	return fromLabel(res.Label, res.ModelType)
}

func fromProbability(p float64, modelType string, fv models.FeatureVector) models.DecisionOutcome {
	band := MapProbability(p)
	score := round(p*100, 2)
	approval := round(p, 4)

	cashFlow := "Needs improvement"
	if fv.NetCashFlow > 0 {
		cashFlow = "Positive"
	}

	return models.DecisionOutcome{
		Status:       band.Status,
		Score:        score,
		InterestRate: InterestRate(p),
		Limit:        round(band.Limit, 2),
		ModelUsed:    true,
		Probability:  &approval,
		ModelType:    modelType,
		ReasonCodes: []string{
			fmt.Sprintf("Transaction pattern analysis: %s%% confidence", decimal(score)),
			"Cash flow: " + cashFlow,
			fmt.Sprintf("Repayment history: %d transactions identified", fv.Repayments),
		},
		Breakdown: map[string]string{
			"cash_flow_analysis": fmt.Sprintf("KES %.0f net monthly flow", fv.NetCashFlow),
			"repayment_behavior": fmt.Sprintf("%d repayment transactions", fv.Repayments),
			"balance_stability":  fmt.Sprintf("Volatility: KES %.0f", fv.BalanceVolatility),
			"transaction_volume": fmt.Sprintf("%d total transactions", fv.TransactionCount),
		},
	}
}

func fromLabel(label int, modelType string) models.DecisionOutcome {
	out := models.DecisionOutcome{
		Status:      models.StatusDeclined,
		ModelUsed:   true,
		ModelType:   modelType,
		ReasonCodes: []string{"AI classification: Not creditworthy"},
		Breakdown: map[string]string{
			"ai_assessment":  "Model classification completed",
			"decision_basis": "Trained on transaction patterns",
		},
	}
	if label == 1 {
		out.Status = models.StatusApproved
		out.Score = labelApprovedScore
		out.Limit = approvedLimitCap
		out.InterestRate = baseInterestRate
		out.ReasonCodes = []string{"AI classification: Creditworthy"}
	}
	return out
}

func round(x float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(x*pow) / pow
}

// decimal prints a float with at least one fractional digit: 75 -> "75.0".
func decimal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
