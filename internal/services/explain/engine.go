// Package explain produces the human-readable rationale for a credit
// decision from the statement features.
package explain

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"msme-credit-scoring-backend/internal/models"
)

// ErrNoFeatures is returned when an explain request carries no features.
var ErrNoFeatures = errors.New("explain: no features provided")

const (
	maxExplanations = 4
	defaultCurrency = "KES"
	ruleBasedNote   = "Explanations generated using rule-based logic."
)

// Verdict is the upstream decision being explained. A nil Label is
// neither creditworthy nor an explicit rejection; a nil or zero
// Probability reads as no probability.
type Verdict struct {
	Label       *int
	Probability *float64
}

func LabelVerdict(label int) Verdict {
	return Verdict{Label: &label}
}

func ProbabilityVerdict(label int, p float64) Verdict {
	return Verdict{Label: &label, Probability: &p}
}

func (v Verdict) creditworthy() bool { return v.Label != nil && *v.Label == 1 }
func (v Verdict) rejected() bool     { return v.Label != nil && *v.Label == 0 }

func (v Verdict) probability() (float64, bool) {
	if v.Probability == nil || *v.Probability == 0 {
		return 0, false
	}
	return *v.Probability, true
}

// Engine is stateless apart from the currency label used in amounts.
type Engine struct {
	currency string
}

func NewEngine(currency string) *Engine {
	if currency == "" {
		currency = defaultCurrency
	}
	return &Engine{currency: currency}
}

func (e *Engine) Explain(fv models.FeatureVector, v Verdict) models.ExplanationPackage {
	risk := AssessRisk(fv)
	if v.rejected() {
		risk = models.RiskHigh
	}

	explanations := []string{
		confidenceStatement(v),
		e.cashFlowStatement(fv.NetCashFlow),
		repaymentStatement(fv.Repayments),
		e.volatilityStatement(fv.BalanceVolatility),
		volumeStatement(fv.TransactionCount),
	}

	return models.ExplanationPackage{
		BusinessBehavior: ClassifyBehavior(fv),
		RiskAssessment:   risk,
		Explanations:     explanations[:maxExplanations],
		KeyMetrics: models.KeyMetrics{
			NetMonthlyCashFlow:  e.money(fv.NetCashFlow),
			MonthlyTransactions: fv.TransactionCount,
			DetectedRepayments:  fv.Repayments,
			BalanceStability:    e.money(fv.BalanceVolatility) + " volatility",
		},
		Note: ruleBasedNote,
	}
}

// ClassifyBehavior applies the behavior rules in priority order.
func ClassifyBehavior(fv models.FeatureVector) models.BusinessBehavior {
	vol, net := fv.BalanceVolatility, fv.NetCashFlow
	switch {
	case vol < 1000 && fv.TransactionCount > 50:
		return models.BehaviorStable
	case net > 10000 && fv.MonthlyInflow > 50000:
		return models.BehaviorGrowing
	case vol > 3000 || math.Abs(net) > 5000:
		return models.BehaviorVolatile
	case fv.TransactionCount < 20:
		return models.BehaviorLowActivity
	case fv.RepaymentRatio > 0.1:
		return models.BehaviorCreditConscious
	default:
		return models.BehaviorTypical
	}
}

// RiskScore accumulates risk points; negative is safer.
func RiskScore(fv models.FeatureVector) int {
	score := 0
	if fv.NetCashFlow > 0 {
		score--
	}
	if fv.Repayments >= 3 {
		score--
	}
	if fv.BalanceVolatility < 1500 {
		score--
	}
	if fv.NetCashFlow < -2000 {
		score += 2
	}
	if fv.BalanceVolatility > 4000 {
		score += 2
	}
	if fv.Repayments == 0 {
		score++
	}
	return score
}

// AssessRisk maps the risk score to a level without any label override.
func AssessRisk(fv models.FeatureVector) models.RiskLevel {
	switch score := RiskScore(fv); {
	case score <= -2:
		return models.RiskLow
	case score <= 0:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func confidenceStatement(v Verdict) string {
	p, ok := v.probability()
	if v.creditworthy() {
		if !ok {
			return "AI model classifies as creditworthy based on transaction patterns"
		}
		confidence := "moderate"
		if p > 0.8 {
			confidence = "high"
		}
		return fmt.Sprintf("AI model indicates %s confidence in creditworthiness (%s)", confidence, percent(p))
	}

	if !ok {
		return "AI model identifies elevated risk factors in transaction history"
	}
	confidence := "moderate"
	if p < 0.3 {
		confidence = "high"
	}
	return fmt.Sprintf("AI model shows %s confidence in elevated risk (%s)", confidence, percent(1-p))
}

func (e *Engine) cashFlowStatement(net float64) string {
	switch {
	case net > 5000:
		return fmt.Sprintf("Strong positive cash flow: Business generates %s more than it spends monthly", e.money(net))
	case net > 0:
		return fmt.Sprintf("Positive cash flow: Business maintains a healthy financial buffer of %s", e.money(net))
	case net < 0:
		return fmt.Sprintf("Cash flow concern: Monthly spending exceeds income by %s", e.money(math.Abs(net)))
	default:
		return "Balanced cash flow: Income and expenses are closely matched"
	}
}

func repaymentStatement(n int) string {
	switch {
	case n >= 4:
		return fmt.Sprintf("Excellent repayment history: %d loan/credit transactions indicate strong financial discipline", n)
	case n >= 2:
		return fmt.Sprintf("Good repayment pattern: %d credit-related transactions show credit awareness", n)
	case n == 1:
		return "Limited credit history: Only 1 credit-related transaction detected"
	default:
		return "No detected repayment history: Consider establishing credit relationships"
	}
}

func (e *Engine) volatilityStatement(vol float64) string {
	switch {
	case vol < 1000:
		return fmt.Sprintf("High financial stability: Low balance volatility (%s) indicates consistent operations", e.money(vol))
	case vol < 3000:
		return fmt.Sprintf("Moderate financial stability: Balance volatility of %s suggests typical business fluctuations", e.money(vol))
	default:
		return fmt.Sprintf("Financial variability: High balance volatility (%s) may indicate inconsistent cash management", e.money(vol))
	}
}

func volumeStatement(n int) string {
	switch {
	case n > 100:
		return fmt.Sprintf("High transaction volume: %d transactions monthly show active business operations", n)
	case n > 30:
		return fmt.Sprintf("Healthy transaction activity: %d monthly transactions indicate regular business flow", n)
	default:
		return fmt.Sprintf("Limited transaction activity: %d transactions may suggest seasonal or low-volume business", n)
	}
}

// money renders a whole-unit amount with thousands separators: "KES 12,500".
func (e *Engine) money(x float64) string {
	r := math.RoundToEven(x)
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return e.currency + " " + humanize.Commaf(r)
}

func percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p*100)
}
