package models

type BusinessBehavior string

const (
	BehaviorStable          BusinessBehavior = "Stable Business"
	BehaviorGrowing         BusinessBehavior = "Growing Business"
	BehaviorVolatile        BusinessBehavior = "Volatile Business"
	BehaviorLowActivity     BusinessBehavior = "Low Activity Business"
	BehaviorCreditConscious BusinessBehavior = "Credit-Conscious Business"
	BehaviorTypical         BusinessBehavior = "Typical MSME"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low Risk"
	RiskMedium RiskLevel = "Medium Risk"
	RiskHigh   RiskLevel = "High Risk"
)

// KeyMetrics carries display-ready figures.
type KeyMetrics struct {
	NetMonthlyCashFlow  string `json:"net_monthly_cash_flow"`
	MonthlyTransactions int    `json:"monthly_transactions"`
	DetectedRepayments  int    `json:"detected_repayments"`
	BalanceStability    string `json:"balance_stability"`
}

// ExplanationPackage is the rationale attached to a decision.
type ExplanationPackage struct {
	BusinessBehavior BusinessBehavior `json:"business_behavior"`
	RiskAssessment   RiskLevel        `json:"risk_assessment"`
	Explanations     []string         `json:"explanations"`
	KeyMetrics       KeyMetrics       `json:"key_metrics"`
	Note             string           `json:"note,omitempty"`
}
