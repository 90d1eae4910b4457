package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"msme-credit-scoring-backend/internal/models"
)

func TestClassifyBehavior(t *testing.T) {
	tests := []struct {
		name string
		fv   models.FeatureVector
		want models.BusinessBehavior
	}{
		{"stable wins over growing", models.FeatureVector{BalanceVolatility: 500, TransactionCount: 60, NetCashFlow: 20000, MonthlyInflow: 90000}, models.BehaviorStable},
		{"growing", models.FeatureVector{BalanceVolatility: 5000, NetCashFlow: 20000, MonthlyInflow: 90000}, models.BehaviorGrowing},
		{"volatile by balance", models.FeatureVector{BalanceVolatility: 3001, TransactionCount: 40}, models.BehaviorVolatile},
		{"volatile by negative flow", models.FeatureVector{NetCashFlow: -5001, TransactionCount: 40}, models.BehaviorVolatile},
		{"low activity", models.FeatureVector{BalanceVolatility: 2000, TransactionCount: 19}, models.BehaviorLowActivity},
		{"credit conscious", models.FeatureVector{BalanceVolatility: 2000, TransactionCount: 25, RepaymentRatio: 0.11}, models.BehaviorCreditConscious},
		{"typical", models.FeatureVector{BalanceVolatility: 2000, TransactionCount: 25, RepaymentRatio: 0.1}, models.BehaviorTypical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBehavior(tt.fv))
		})
	}
}

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		name  string
		fv    models.FeatureVector
		score int
		want  models.RiskLevel
	}{
		{"all good", models.FeatureVector{NetCashFlow: 100, Repayments: 3, BalanceVolatility: 1000}, -3, models.RiskLow},
		{"two good", models.FeatureVector{NetCashFlow: 100, Repayments: 1, BalanceVolatility: 1000}, -2, models.RiskLow},
		{"no repayments", models.FeatureVector{NetCashFlow: 100, BalanceVolatility: 1000}, -1, models.RiskMedium},
		{"neutral", models.FeatureVector{NetCashFlow: -100, Repayments: 1, BalanceVolatility: 2000}, 0, models.RiskMedium},
		{"deficit and swings", models.FeatureVector{NetCashFlow: -3000, BalanceVolatility: 5000}, 5, models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.score, RiskScore(tt.fv))
			assert.Equal(t, tt.want, AssessRisk(tt.fv))
		})
	}
}

func TestExplain_VolatileDeficit(t *testing.T) {
	fv := models.FeatureVector{NetCashFlow: -3000, BalanceVolatility: 5000, Repayments: 2, TransactionCount: 45}

	pkg := NewEngine("").Explain(fv, ProbabilityVerdict(0, 0.2))

	assert.Equal(t, 4, RiskScore(fv))
	assert.Equal(t, models.RiskHigh, pkg.RiskAssessment)
	assert.Equal(t, models.BehaviorVolatile, pkg.BusinessBehavior)
	assert.Equal(t, []string{
		"AI model shows high confidence in elevated risk (80%)",
		"Cash flow concern: Monthly spending exceeds income by KES 3,000",
		"Good repayment pattern: 2 credit-related transactions show credit awareness",
		"Financial variability: High balance volatility (KES 5,000) may indicate inconsistent cash management",
	}, pkg.Explanations)
	assert.Equal(t, models.KeyMetrics{
		NetMonthlyCashFlow:  "KES -3,000",
		MonthlyTransactions: 45,
		DetectedRepayments:  2,
		BalanceStability:    "KES 5,000 volatility",
	}, pkg.KeyMetrics)
	assert.NotEmpty(t, pkg.Note)
}

func TestExplain_RejectionForcesHighRisk(t *testing.T) {
	fv := models.FeatureVector{NetCashFlow: 8000, Repayments: 5, BalanceVolatility: 200, TransactionCount: 120}
	e := NewEngine("KES")

	assert.Equal(t, models.RiskLow, e.Explain(fv, LabelVerdict(1)).RiskAssessment)
	assert.Equal(t, models.RiskHigh, e.Explain(fv, LabelVerdict(0)).RiskAssessment)
	assert.Equal(t, models.RiskLow, e.Explain(fv, Verdict{}).RiskAssessment)
}

func TestExplain_ConfidenceStatement(t *testing.T) {
	zero := 0.0
	one := 1
	tests := []struct {
		name    string
		verdict Verdict
		want    string
	}{
		{"high approval", ProbabilityVerdict(1, 0.92), "AI model indicates high confidence in creditworthiness (92%)"},
		{"moderate approval", ProbabilityVerdict(1, 0.8), "AI model indicates moderate confidence in creditworthiness (80%)"},
		{"label only approval", LabelVerdict(1), "AI model classifies as creditworthy based on transaction patterns"},
		{"zero probability reads as absent", Verdict{Label: &one, Probability: &zero}, "AI model classifies as creditworthy based on transaction patterns"},
		{"moderate risk", ProbabilityVerdict(0, 0.45), "AI model shows moderate confidence in elevated risk (55%)"},
		{"label only risk", LabelVerdict(0), "AI model identifies elevated risk factors in transaction history"},
		{"no label", Verdict{}, "AI model identifies elevated risk factors in transaction history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := NewEngine("KES").Explain(models.FeatureVector{}, tt.verdict)
			assert.Equal(t, tt.want, pkg.Explanations[0])
		})
	}
}

func TestExplain_Statements(t *testing.T) {
	e := NewEngine("KES")

	tests := []struct {
		name string
		fv   models.FeatureVector
		want []string
	}{
		{
			name: "strong and stable",
			fv:   models.FeatureVector{NetCashFlow: 12500.5, Repayments: 4, BalanceVolatility: 999.4},
			want: []string{
				"Strong positive cash flow: Business generates KES 12,500 more than it spends monthly",
				"Excellent repayment history: 4 loan/credit transactions indicate strong financial discipline",
				"High financial stability: Low balance volatility (KES 999) indicates consistent operations",
			},
		},
		{
			name: "modest buffer",
			fv:   models.FeatureVector{NetCashFlow: 4200, Repayments: 1, BalanceVolatility: 1500},
			want: []string{
				"Positive cash flow: Business maintains a healthy financial buffer of KES 4,200",
				"Limited credit history: Only 1 credit-related transaction detected",
				"Moderate financial stability: Balance volatility of KES 1,500 suggests typical business fluctuations",
			},
		},
		{
			name: "balanced",
			fv:   models.FeatureVector{BalanceVolatility: 3000},
			want: []string{
				"Balanced cash flow: Income and expenses are closely matched",
				"No detected repayment history: Consider establishing credit relationships",
				"Financial variability: High balance volatility (KES 3,000) may indicate inconsistent cash management",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := e.Explain(tt.fv, LabelVerdict(1))
			assert.Len(t, pkg.Explanations, 4)
			assert.Equal(t, tt.want, pkg.Explanations[1:])
		})
	}
}

func TestMoney(t *testing.T) {
	e := NewEngine("KES")

	tests := []struct {
		in   float64
		want string
	}{
		{12500.4, "KES 12,500"},
		{2.5, "KES 2"},
		{-3000, "KES -3,000"},
		{-0.4, "KES 0"},
		{2e19, "KES 20,000,000,000,000,000,000"},
		{-2e19, "KES -20,000,000,000,000,000,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.money(tt.in), "%v", tt.in)
	}

	pkg := e.Explain(models.FeatureVector{NetCashFlow: 2e19}, LabelVerdict(1))
	assert.Equal(t, "Strong positive cash flow: Business generates KES 20,000,000,000,000,000,000 more than it spends monthly",
		pkg.Explanations[1])
}

func TestVolumeStatement(t *testing.T) {
	assert.Equal(t, "High transaction volume: 101 transactions monthly show active business operations", volumeStatement(101))
	assert.Equal(t, "Healthy transaction activity: 31 monthly transactions indicate regular business flow", volumeStatement(31))
	assert.Equal(t, "Limited transaction activity: 30 transactions may suggest seasonal or low-volume business", volumeStatement(30))
}
