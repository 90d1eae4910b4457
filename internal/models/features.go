package models

// FeatureName identifies one numeric feature of a FeatureVector.
type FeatureName string

const (
	FeatureMonthlyInflow          FeatureName = "monthly_inflow"
	FeatureMonthlyOutflow         FeatureName = "monthly_outflow"
	FeatureNetCashFlow            FeatureName = "net_cash_flow"
	FeatureRepayments             FeatureName = "repayments"
	FeatureRepaymentRatio         FeatureName = "repayment_ratio"
	FeatureBalanceVolatility      FeatureName = "balance_volatility"
	FeatureAvgTransactionAmount   FeatureName = "avg_transaction_amount"
	FeatureTransactionCount       FeatureName = "transaction_count"
	FeatureDaysCovered            FeatureName = "days_covered"
	FeatureTransactionsPerDay     FeatureName = "transactions_per_day"
	FeatureInflowTrend            FeatureName = "inflow_trend"
	FeatureTransactionConsistency FeatureName = "transaction_consistency"
)

// AllFeatures lists every feature in training order.
var AllFeatures = []FeatureName{
	FeatureMonthlyInflow,
	FeatureMonthlyOutflow,
	FeatureNetCashFlow,
	FeatureRepayments,
	FeatureRepaymentRatio,
	FeatureBalanceVolatility,
	FeatureAvgTransactionAmount,
	FeatureTransactionCount,
	FeatureDaysCovered,
	FeatureTransactionsPerDay,
	FeatureInflowTrend,
	FeatureTransactionConsistency,
}

// FeatureVector is the fixed-schema output of feature extraction.
// Undefined ratios are stored as 0, never NaN.
type FeatureVector struct {
	MonthlyInflow          float64 `json:"monthly_inflow"`
	MonthlyOutflow         float64 `json:"monthly_outflow"`
	NetCashFlow            float64 `json:"net_cash_flow"`
	Repayments             int     `json:"repayments"`
	RepaymentRatio         float64 `json:"repayment_ratio"`
	BalanceVolatility      float64 `json:"balance_volatility"`
	AvgTransactionAmount   float64 `json:"avg_transaction_amount"`
	TransactionCount       int     `json:"transaction_count"`
	DaysCovered            int     `json:"days_covered"`
	TransactionsPerDay     float64 `json:"transactions_per_day"`
	InflowTrend            float64 `json:"inflow_trend"`
	TransactionConsistency float64 `json:"transaction_consistency"`
	HasTemporalData        bool    `json:"has_temporal_data"`
}

// Value returns the numeric value of the named feature.
func (fv FeatureVector) Value(name FeatureName) (float64, bool) {
	switch name {
	case FeatureMonthlyInflow:
		return fv.MonthlyInflow, true
	case FeatureMonthlyOutflow:
		return fv.MonthlyOutflow, true
	case FeatureNetCashFlow:
		return fv.NetCashFlow, true
	case FeatureRepayments:
		return float64(fv.Repayments), true
	case FeatureRepaymentRatio:
		return fv.RepaymentRatio, true
	case FeatureBalanceVolatility:
		return fv.BalanceVolatility, true
	case FeatureAvgTransactionAmount:
		return fv.AvgTransactionAmount, true
	case FeatureTransactionCount:
		return float64(fv.TransactionCount), true
	case FeatureDaysCovered:
		return float64(fv.DaysCovered), true
	case FeatureTransactionsPerDay:
		return fv.TransactionsPerDay, true
	case FeatureInflowTrend:
		return fv.InflowTrend, true
	case FeatureTransactionConsistency:
		return fv.TransactionConsistency, true
	}
	return 0, false
}

// Set assigns the named feature. Integer features are truncated.
func (fv *FeatureVector) Set(name FeatureName, v float64) bool {
	switch name {
	case FeatureMonthlyInflow:
		fv.MonthlyInflow = v
	case FeatureMonthlyOutflow:
		fv.MonthlyOutflow = v
	case FeatureNetCashFlow:
		fv.NetCashFlow = v
	case FeatureRepayments:
		fv.Repayments = int(v)
	case FeatureRepaymentRatio:
		fv.RepaymentRatio = v
	case FeatureBalanceVolatility:
		fv.BalanceVolatility = v
	case FeatureAvgTransactionAmount:
		fv.AvgTransactionAmount = v
	case FeatureTransactionCount:
		fv.TransactionCount = int(v)
	case FeatureDaysCovered:
		fv.DaysCovered = int(v)
	case FeatureTransactionsPerDay:
		fv.TransactionsPerDay = v
	case FeatureInflowTrend:
		fv.InflowTrend = v
	case FeatureTransactionConsistency:
		fv.TransactionConsistency = v
	default:
		return false
	}
	return true
}
