package statement

import (
	"sort"
	"time"

	"msme-credit-scoring-backend/internal/models"
)

// BuildViews formats records for display, sorted by ISO date string.
// Undated rows have empty date strings and therefore sort first.
func BuildViews(records []models.TransactionRecord) []models.TransactionView {
	views := make([]models.TransactionView, 0, len(records))
	for _, rec := range records {
		v := models.TransactionView{
			ID:          rec.Index,
			ReceiptNo:   rec.ReceiptNo,
			Date:        rec.RawDate,
			Description: rec.Description,
			Status:      rec.Status,
			AmountIn:    rec.AmountIn,
			AmountOut:   rec.AmountOut,
			Balance:     rec.Balance,
			Type:        models.TransactionWithdrawal,
		}
		if rec.AmountIn > 0 {
			v.Type = models.TransactionDeposit
		}
		if rec.Timestamp != nil {
			t := *rec.Timestamp
			v.DateISO = isoFormat(t)
			v.DateDisplay = t.Format("Jan 02, 2006 03:04 PM")
			v.DateShort = t.Format("2006-01-02")
			v.MonthYear = t.Format("Jan 2006")
			v.DayOfWeek = t.Format("Monday")
			v.TimeOnly = t.Format("03:04 PM")
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].DateISO < views[j].DateISO
	})
	return views
}

// isoFormat renders zone-less timestamps without an offset and keeps
// microseconds only when present.
func isoFormat(t time.Time) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".000000"
	}
	if _, offset := t.Zone(); offset != 0 || t.Location() != time.UTC {
		layout += "-07:00"
	}
	return t.Format(layout)
}
