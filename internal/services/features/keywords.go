package features

// DefaultRepaymentKeywords flag loan and credit activity in a description.
// Matching is a case-insensitive substring test.
var DefaultRepaymentKeywords = []string{
	"repay", "loan", "lend", "borrow", "credit",
	"finance", "microfinance", "branch", "equity",
	"kcb", "cooperative", "sacco", "m-shwari",
}

const (
	// peerTransferPhrase marks a peer transfer that may be servicing a debt.
	peerTransferPhrase = "send money"
	// peerTransferWeight counts each peer transfer as a partial repayment.
	peerTransferWeight = 0.3
)
