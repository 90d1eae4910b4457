package statement

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"msme-credit-scoring-backend/internal/models"
)

// Required columns, in canonical form.
const (
	ColumnReceiptNo         = "receipt_no"
	ColumnCompletionTime    = "completion_time"
	ColumnDetails           = "details"
	ColumnTransactionStatus = "transaction_status"
	ColumnPaidIn            = "paid_in"
	ColumnWithdrawn         = "withdrawn"
	ColumnBalance           = "balance"
)

var RequiredColumns = []string{
	ColumnReceiptNo,
	ColumnCompletionTime,
	ColumnDetails,
	ColumnTransactionStatus,
	ColumnPaidIn,
	ColumnWithdrawn,
	ColumnBalance,
}

// Validate returns a *SchemaError listing every required column the table lacks.
func Validate(t *Table) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Normalize converts table rows into records ordered ascending by timestamp.
// Records without a timestamp keep their relative order after the dated ones.
// The table is not modified.
func Normalize(t *Table) ([]models.TransactionRecord, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	records := make([]models.TransactionRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		balance, hasBalance := parseAmount(row[ColumnBalance])
		paidIn, _ := parseAmount(row[ColumnPaidIn])
		withdrawn, _ := parseAmount(row[ColumnWithdrawn])

		records = append(records, models.TransactionRecord{
			Index:       i,
			ReceiptNo:   row[ColumnReceiptNo],
			RawDate:     row[ColumnCompletionTime],
			Timestamp:   ParseTimestamp(row[ColumnCompletionTime]),
			Description: row[ColumnDetails],
			Status:      row[ColumnTransactionStatus],
			AmountIn:    math.Abs(paidIn),
			AmountOut:   math.Abs(withdrawn),
			Balance:     balance,
			HasBalance:  hasBalance,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Timestamp, records[j].Timestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return records, nil
}

// parseAmount reads a money cell such as "1,250.00". Blank or malformed
// cells report ok=false and a zero value.
func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
