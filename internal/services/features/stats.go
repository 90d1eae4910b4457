package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// sampleStdDev is the n-1 standard deviation; fewer than two values give 0.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return finiteOrZero(stat.StdDev(xs, nil))
}

// populationStdDev is the n standard deviation; an empty slice gives 0.
func populationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return finiteOrZero(math.Sqrt(stat.PopVariance(xs, nil)))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return finiteOrZero(stat.Mean(xs, nil))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
