package net

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MSE returns the mean squared error of the predictions and its gradient with respect to them.
func MSE(y *mat.Dense, target []float64) (float64, *mat.Dense, error) {
	n, c := y.Dims()
	if c != 1 || n != len(target) {
		return 0, nil, fmt.Errorf("prediction shape %dx%d does not match %d targets", n, c, len(target))
	}
	grad := mat.NewDense(n, 1, nil)
	loss := 0.0
	for i := 0; i < n; i++ {
		d := y.At(i, 0) - target[i]
		loss += d * d
		grad.Set(i, 0, 2*d/float64(n))
	}
	return loss / float64(n), grad, nil
}
