package models

import "time"

// TransactionRecord is one normalized statement line.
type TransactionRecord struct {
	Index       int // row position in the uploaded statement
	ReceiptNo   string
	RawDate     string
	Timestamp   *time.Time
	Description string
	Status      string
	AmountIn    float64
	AmountOut   float64
	Balance     float64
	HasBalance  bool
}

func (r TransactionRecord) HasTimestamp() bool {
	return r.Timestamp != nil
}

// TransactionType tags a display row by the direction of money.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// TransactionView is the display form of a record consumed by the front end.
type TransactionView struct {
	ID          int             `json:"id"`
	ReceiptNo   string          `json:"receipt_no"`
	Date        string          `json:"date"`
	DateISO     string          `json:"date_iso"`
	DateDisplay string          `json:"date_display"`
	DateShort   string          `json:"date_short"`
	MonthYear   string          `json:"month_year"`
	DayOfWeek   string          `json:"day_of_week"`
	TimeOnly    string          `json:"time_only"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	AmountIn    float64         `json:"amount_in"`
	AmountOut   float64         `json:"amount_out"`
	Balance     float64         `json:"balance"`
	Type        TransactionType `json:"type"`
}
