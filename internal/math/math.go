package math

import (
	"math"
	"strconv"

	"github.com/drakos74/go-ex-machina/xmath"
)

// Format formats a float with 2 decimals.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Round rounds the number to the given amount of decimals.
func Round(f float64, digits int) float64 {
	return xmath.Round(digits)(f)
}

// IsValid reports if the number is neither NaN nor infinite.
func IsValid(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Column extracts the column at index j of a row major table.
func Column(xx [][]float64, j int) []float64 {
	col := make([]float64, len(xx))
	for i, row := range xx {
		col[i] = row[j]
	}
	return col
}

// ClipByNorm scales all gradient slices down, so that their global L2 norm does not exceed maxNorm.
// It returns the norm before clipping.
func ClipByNorm(maxNorm float64, gradients ...[]float64) float64 {
	total := 0.0
	for _, grad := range gradients {
		n := xmath.Vector(grad).Norm()
		total += n * n
	}
	total = math.Sqrt(total)

	if total > maxNorm {
		scale := maxNorm / (total + 1e-6)
		for _, grad := range gradients {
			for i := range grad {
				grad[i] *= scale
			}
		}
	}
	return total
}
