package features

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"msme-credit-scoring-backend/internal/models"
)

// ErrNonFinite is returned when a computed feature is NaN or infinite.
var ErrNonFinite = errors.New("features: non-finite value")

const (
	defaultDaysCovered = 30
	// consistencyMinDates is the number of dated rows that must be exceeded
	// before cadence is measured; consistencyWindow caps the dates examined.
	consistencyMinDates = 5
	consistencyWindow   = 10
)

// Extractor turns a normalized statement into a FeatureVector.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	keywords []string
}

func NewExtractor(keywords []string) *Extractor {
	if len(keywords) == 0 {
		keywords = DefaultRepaymentKeywords
	}
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lower = append(lower, k)
		}
	}
	return &Extractor{keywords: lower}
}

// Extract computes the feature vector. records must be in the order produced
// by statement.Normalize: dated rows ascending, undated rows last.
func (e *Extractor) Extract(records []models.TransactionRecord) (models.FeatureVector, error) {
	n := len(records)
	fv := models.FeatureVector{TransactionCount: n}

	var inflows, balances []float64
	var repaymentHits, transferHits int
	for _, rec := range records {
		if rec.AmountIn > 0 {
			fv.MonthlyInflow += rec.AmountIn
			inflows = append(inflows, rec.AmountIn)
		}
		if rec.AmountOut > 0 {
			fv.MonthlyOutflow += rec.AmountOut
		}
		if rec.HasBalance {
			balances = append(balances, rec.Balance)
		}

		desc := strings.ToLower(rec.Description)
		if e.isRepayment(desc) {
			repaymentHits++
		}
		if strings.Contains(desc, peerTransferPhrase) {
			transferHits++
		}
	}
	fv.NetCashFlow = fv.MonthlyInflow - fv.MonthlyOutflow

	potential := float64(repaymentHits) + float64(transferHits)*peerTransferWeight
	fv.Repayments = int(potential)
	if n > 0 {
		fv.RepaymentRatio = potential / float64(n)
	}

	fv.BalanceVolatility = sampleStdDev(balances)
	fv.AvgTransactionAmount = mean(inflows)

	e.temporal(records, &fv)

	if err := checkFinite(fv); err != nil {
		return models.FeatureVector{}, err
	}
	return fv, nil
}

func (e *Extractor) isRepayment(desc string) bool {
	for _, k := range e.keywords {
		if strings.Contains(desc, k) {
			return true
		}
	}
	return false
}

// temporal fills the date-derived block. Fewer than two dated rows leave
// the 30-day defaults in place.
func (e *Extractor) temporal(records []models.TransactionRecord, fv *models.FeatureVector) {
	n := len(records)
	var dates []time.Time
	for _, rec := range records {
		if rec.Timestamp != nil {
			dates = append(dates, *rec.Timestamp)
		}
	}
	fv.HasTemporalData = len(dates) > 0

	fv.DaysCovered = defaultDaysCovered
	fv.TransactionsPerDay = float64(n) / defaultDaysCovered
	fv.InflowTrend = 0
	fv.TransactionConsistency = 0
	if len(dates) < 2 {
		return
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	days := int(dates[len(dates)-1].Sub(dates[0]) / (24 * time.Hour))
	fv.DaysCovered = max(1, days)
	fv.TransactionsPerDay = float64(n) / float64(fv.DaysCovered)

	fv.InflowTrend = inflowTrend(records)

	if len(dates) > consistencyMinDates {
		fv.TransactionConsistency = cadenceDeviation(dates)
	}
}

// inflowTrend compares positive inflow in the second half of the ordered
// statement with the first half. Growth from a zero base reports 1.
func inflowTrend(records []models.TransactionRecord) float64 {
	half := len(records) / 2
	var first, second float64
	for i, rec := range records {
		if rec.AmountIn <= 0 {
			continue
		}
		if i < half {
			first += rec.AmountIn
		} else {
			second += rec.AmountIn
		}
	}

	switch {
	case first > 0:
		return (second - first) / first
	case second == 0:
		return 0
	default:
		return 1
	}
}

// cadenceDeviation is the population standard deviation of the positive
// day gaps between the first consistencyWindow calendar dates. dates must
// be sorted ascending.
func cadenceDeviation(dates []time.Time) float64 {
	limit := min(consistencyWindow, len(dates))
	var gaps []float64
	for i := 1; i < limit; i++ {
		gap := calendarDays(dates[i-1], dates[i])
		if gap > 0 {
			gaps = append(gaps, float64(gap))
		}
	}
	return populationStdDev(gaps)
}

func calendarDays(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func checkFinite(fv models.FeatureVector) error {
	for _, name := range models.AllFeatures {
		v, _ := fv.Value(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, name)
		}
	}
	return nil
}
