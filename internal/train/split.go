package train

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Set is a feature matrix with its targets.
type Set struct {
	X [][]float64
	Y []float64
}

// Len returns the number of samples.
func (s Set) Len() int {
	return len(s.X)
}

// Split shuffles the samples and holds out the given ratio for validation.
func Split(xx [][]float64, yy []float64, ratio float64, seed uint64) (Set, Set, error) {
	if len(xx) != len(yy) {
		return Set{}, Set{}, fmt.Errorf("features and targets have different length %d vs %d", len(xx), len(yy))
	}
	if ratio <= 0 || ratio >= 1 {
		return Set{}, Set{}, fmt.Errorf("invalid validation ratio %f", ratio)
	}
	n := len(xx)
	nVal := int(math.Ceil(float64(n) * ratio))
	if nVal == 0 || nVal >= n {
		return Set{}, Set{}, fmt.Errorf("not enough samples %d to split by %f", n, ratio)
	}

	idx := rand.New(rand.NewSource(seed)).Perm(n)
	train := Set{X: make([][]float64, 0, n-nVal), Y: make([]float64, 0, n-nVal)}
	val := Set{X: make([][]float64, 0, nVal), Y: make([]float64, 0, nVal)}
	for i, k := range idx {
		if i < nVal {
			val.X = append(val.X, xx[k])
			val.Y = append(val.Y, yy[k])
			continue
		}
		train.X = append(train.X, xx[k])
		train.Y = append(train.Y, yy[k])
	}
	return train, val, nil
}

// batches returns the index ranges of consecutive batches over the permutation.
func batches(idx []int, size int) [][]int {
	bb := make([][]int, 0, len(idx)/size+1)
	for start := 0; start < len(idx); start += size {
		end := start + size
		if end > len(idx) {
			end = len(idx)
		}
		bb = append(bb, idx[start:end])
	}
	return bb
}

func (s Set) subset(idx []int) ([][]float64, []float64) {
	xx := make([][]float64, len(idx))
	yy := make([]float64, len(idx))
	for i, k := range idx {
		xx[i] = s.X[k]
		yy[i] = s.Y[k]
	}
	return xx, yy
}
