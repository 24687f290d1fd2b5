package math

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Valid returns the non NaN, finite elements of the slice.
func Valid(xx []float64) []float64 {
	vv := make([]float64, 0, len(xx))
	for _, x := range xx {
		if IsValid(x) {
			vv = append(vv, x)
		}
	}
	return vv
}

// Quantile returns the q-quantile of the valid values,
// interpolating linearly between the closest ranks e.g. rank = q * (n-1).
// It returns NaN if there are no valid values.
func Quantile(xx []float64, q float64) float64 {
	vv := Valid(xx)
	if len(vv) == 0 {
		return math.NaN()
	}
	sort.Float64s(vv)
	rank := q * float64(len(vv)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return vv[lo]
	}
	return vv[lo] + (rank-float64(lo))*(vv[hi]-vv[lo])
}

// Median returns the median of the valid values.
func Median(xx []float64) float64 {
	return Quantile(xx, 0.5)
}

// IQR returns the inter-quartile range of the valid values.
func IQR(xx []float64) float64 {
	return Quantile(xx, 0.75) - Quantile(xx, 0.25)
}

// MeanStd returns the mean and the population standard deviation of the valid values.
func MeanStd(xx []float64) (float64, float64) {
	vv := Valid(xx)
	switch len(vv) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return vv[0], 0
	}
	mean, variance := stat.MeanVariance(vv, nil)
	n := float64(len(vv))
	return mean, math.Sqrt(variance * (n - 1) / n)
}

// Summary holds the descriptive statistics of a series.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Describe summarises the valid values of the series.
func Describe(xx []float64) Summary {
	vv := Valid(xx)
	if len(vv) == 0 {
		return Summary{}
	}
	mean, variance := stat.MeanVariance(vv, nil)
	return Summary{
		Count:  len(vv),
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    floats.Min(vv),
		Median: Median(vv),
		Max:    floats.Max(vv),
	}
}

// FillNaN replaces all invalid values with the given one, in place.
// It returns the number of replaced elements.
func FillNaN(xx []float64, v float64) int {
	n := 0
	for i, x := range xx {
		if !IsValid(x) {
			xx[i] = v
			n++
		}
	}
	return n
}
