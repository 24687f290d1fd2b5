package preprocess

import (
	"errors"
	"fmt"

	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/go-ex-machina/xmath"
)

// ScalerKind defines the statistics used for scaling.
type ScalerKind string

const (
	// Standard scales with the mean and the standard deviation.
	Standard ScalerKind = "standard"
	// Robust scales with the median and the inter-quartile range.
	Robust ScalerKind = "robust"
)

// ErrNotFitted is returned when a scaler is used before being fitted.
var ErrNotFitted = errors.New("scaler not fitted")

// ScalerParams are the fitted parameters of a scaler, as persisted in a checkpoint.
// Center is the mean or median, Scale the standard deviation or IQR of each column.
type ScalerParams struct {
	Kind   ScalerKind `json:"kind"`
	Center []float64  `json:"center"`
	Scale  []float64  `json:"scale"`
}

// Scaler normalises numeric columns.
type Scaler interface {
	Fit(xx [][]float64) error
	Transform(x []float64) ([]float64, error)
	Params() ScalerParams
}

// NewScaler creates an un-fitted scaler of the given kind.
func NewScaler(kind ScalerKind) (Scaler, error) {
	switch kind {
	case Standard:
		return &StandardScaler{}, nil
	case Robust:
		return &RobustScaler{}, nil
	}
	return nil, fmt.Errorf("unknown scaler kind '%s'", kind)
}

// FromParams recreates a fitted scaler.
func FromParams(p ScalerParams) (Scaler, error) {
	if len(p.Center) != len(p.Scale) {
		return nil, fmt.Errorf("inconsistent scaler params %d vs %d", len(p.Center), len(p.Scale))
	}
	b := base{center: copyOf(p.Center), scale: copyOf(p.Scale)}
	switch p.Kind {
	case Standard:
		return &StandardScaler{base: b}, nil
	case Robust:
		return &RobustScaler{base: b}, nil
	}
	return nil, fmt.Errorf("unknown scaler kind '%s'", p.Kind)
}

type base struct {
	center xmath.Vector
	scale  xmath.Vector
}

// Transform applies (x - center) / scale.
func (b *base) Transform(x []float64) ([]float64, error) {
	if b.center == nil {
		return nil, ErrNotFitted
	}
	if len(x) != len(b.center) {
		return nil, fmt.Errorf("expected %d features but got %d", len(b.center), len(x))
	}
	return xmath.Vector(x).
		Dop(func(v, c float64) float64 { return v - c }, b.center).
		Dop(func(v, s float64) float64 { return v / s }, b.scale), nil
}

func (b *base) fit(xx [][]float64, stats func(col []float64) (float64, float64)) error {
	if len(xx) == 0 {
		return errors.New("cannot fit scaler on empty data")
	}
	dim := len(xx[0])
	b.center = xmath.Vec(dim)
	b.scale = xmath.Vec(dim)
	for j := 0; j < dim; j++ {
		center, scale := stats(coinmath.Column(xx, j))
		if !coinmath.IsValid(scale) || scale == 0 {
			scale = 1
		}
		b.center[j] = center
		b.scale[j] = scale
	}
	return nil
}

func (b *base) params(kind ScalerKind) ScalerParams {
	return ScalerParams{
		Kind:   kind,
		Center: copyOf(b.center),
		Scale:  copyOf(b.scale),
	}
}

// StandardScaler scales with the mean and population standard deviation.
type StandardScaler struct {
	base
}

// Fit computes the column statistics.
func (s *StandardScaler) Fit(xx [][]float64) error {
	return s.fit(xx, coinmath.MeanStd)
}

// Params returns the fitted parameters.
func (s *StandardScaler) Params() ScalerParams {
	return s.params(Standard)
}

// RobustScaler scales with the median and inter-quartile range, making it less sensitive to outliers.
type RobustScaler struct {
	base
}

// Fit computes the column statistics.
func (s *RobustScaler) Fit(xx [][]float64) error {
	return s.fit(xx, func(col []float64) (float64, float64) {
		return coinmath.Median(col), coinmath.IQR(col)
	})
}

// Params returns the fitted parameters.
func (s *RobustScaler) Params() ScalerParams {
	return s.params(Robust)
}

func copyOf(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return xmath.Vector(v).Copy()
}
