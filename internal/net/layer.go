package net

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Param is a trainable tensor together with its gradient.
type Param struct {
	Name string
	W    *mat.Dense
	G    *mat.Dense
}

func newParam(name string, r, c int) *Param {
	return &Param{
		Name: name,
		W:    mat.NewDense(r, c, nil),
		G:    mat.NewDense(r, c, nil),
	}
}

// Values exposes the underlying row major values.
func (p *Param) Values() []float64 {
	return p.W.RawMatrix().Data
}

// Grad exposes the underlying row major gradient values.
func (p *Param) Grad() []float64 {
	return p.G.RawMatrix().Data
}

// Linear is a fully connected layer y = x * W^T + b.
type Linear struct {
	in, out int
	weight  *Param
	bias    *Param
	x       *mat.Dense
}

// NewLinear creates a linear layer with He uniform weights.
func NewLinear(name string, in, out int, src rand.Source) *Linear {
	l := &Linear{
		in:     in,
		out:    out,
		weight: newParam(name+".weight", out, in),
		bias:   newParam(name+".bias", 1, out),
	}
	wb := math.Sqrt(6 / float64(in))
	w := distuv.Uniform{Min: -wb, Max: wb, Src: src}
	for i := range l.weight.Values() {
		l.weight.Values()[i] = w.Rand()
	}
	bb := 1 / math.Sqrt(float64(in))
	b := distuv.Uniform{Min: -bb, Max: bb, Src: src}
	for i := range l.bias.Values() {
		l.bias.Values()[i] = b.Rand()
	}
	return l
}

func (l *Linear) forward(x *mat.Dense) *mat.Dense {
	l.x = x
	n, _ := x.Dims()
	y := mat.NewDense(n, l.out, nil)
	y.Mul(x, l.weight.W.T())
	bias := l.bias.Values()
	y.Apply(func(i, j int, v float64) float64 {
		return v + bias[j]
	}, y)
	return y
}

func (l *Linear) backward(dy *mat.Dense) *mat.Dense {
	l.weight.G.Mul(dy.T(), l.x)
	n, _ := dy.Dims()
	db := l.bias.Grad()
	for j := 0; j < l.out; j++ {
		s := 0.0
		for i := 0; i < n; i++ {
			s += dy.At(i, j)
		}
		db[j] = s
	}
	dx := mat.NewDense(n, l.in, nil)
	dx.Mul(dy, l.weight.W)
	return dx
}

func (l *Linear) params() []*Param {
	return []*Param{l.weight, l.bias}
}

// BatchNorm normalises each feature over the batch.
// In training mode it uses the batch statistics and tracks running estimates for evaluation.
type BatchNorm struct {
	dim      int
	momentum float64
	eps      float64
	gamma    *Param
	beta     *Param
	mean     []float64
	variance []float64
	// cached for the backward pass
	xhat   *mat.Dense
	invStd []float64
}

// NewBatchNorm creates a batch normalisation layer with unit scale and zero shift.
func NewBatchNorm(name string, dim int) *BatchNorm {
	bn := &BatchNorm{
		dim:      dim,
		momentum: Momentum,
		eps:      Epsilon,
		gamma:    newParam(name+".weight", 1, dim),
		beta:     newParam(name+".bias", 1, dim),
		mean:     make([]float64, dim),
		variance: make([]float64, dim),
	}
	for j := 0; j < dim; j++ {
		bn.gamma.Values()[j] = 1
		bn.variance[j] = 1
	}
	return bn
}

func (bn *BatchNorm) forward(x *mat.Dense, train bool) *mat.Dense {
	n, _ := x.Dims()
	gamma := bn.gamma.Values()
	beta := bn.beta.Values()
	y := mat.NewDense(n, bn.dim, nil)
	if !train {
		for j := 0; j < bn.dim; j++ {
			inv := 1 / math.Sqrt(bn.variance[j]+bn.eps)
			for i := 0; i < n; i++ {
				y.Set(i, j, gamma[j]*(x.At(i, j)-bn.mean[j])*inv+beta[j])
			}
		}
		return y
	}

	bn.xhat = mat.NewDense(n, bn.dim, nil)
	bn.invStd = make([]float64, bn.dim)
	for j := 0; j < bn.dim; j++ {
		mu := 0.0
		for i := 0; i < n; i++ {
			mu += x.At(i, j)
		}
		mu /= float64(n)
		v := 0.0
		for i := 0; i < n; i++ {
			d := x.At(i, j) - mu
			v += d * d
		}
		v /= float64(n)
		inv := 1 / math.Sqrt(v+bn.eps)
		bn.invStd[j] = inv
		for i := 0; i < n; i++ {
			xh := (x.At(i, j) - mu) * inv
			bn.xhat.Set(i, j, xh)
			y.Set(i, j, gamma[j]*xh+beta[j])
		}
		unbiased := v
		if n > 1 {
			unbiased = v * float64(n) / float64(n-1)
		}
		bn.mean[j] = (1-bn.momentum)*bn.mean[j] + bn.momentum*mu
		bn.variance[j] = (1-bn.momentum)*bn.variance[j] + bn.momentum*unbiased
	}
	return y
}

func (bn *BatchNorm) backward(dy *mat.Dense) *mat.Dense {
	n, _ := dy.Dims()
	gamma := bn.gamma.Values()
	dgamma := bn.gamma.Grad()
	dbeta := bn.beta.Grad()
	dx := mat.NewDense(n, bn.dim, nil)
	fn := float64(n)
	for j := 0; j < bn.dim; j++ {
		sumDy, sumDyXhat := 0.0, 0.0
		for i := 0; i < n; i++ {
			sumDy += dy.At(i, j)
			sumDyXhat += dy.At(i, j) * bn.xhat.At(i, j)
		}
		dgamma[j] = sumDyXhat
		dbeta[j] = sumDy
		k := gamma[j] * bn.invStd[j] / fn
		for i := 0; i < n; i++ {
			dx.Set(i, j, k*(fn*dy.At(i, j)-sumDy-bn.xhat.At(i, j)*sumDyXhat))
		}
	}
	return dx
}

func (bn *BatchNorm) params() []*Param {
	return []*Param{bn.gamma, bn.beta}
}

// Dropout zeroes activations with probability rate during training and rescales the rest.
type Dropout struct {
	rate float64
	rng  *rand.Rand
	mask *mat.Dense
}

// NewDropout creates a dropout layer.
func NewDropout(rate float64, src rand.Source) *Dropout {
	return &Dropout{rate: rate, rng: rand.New(src)}
}

func (d *Dropout) forward(x *mat.Dense, train bool) *mat.Dense {
	if !train || d.rate == 0 {
		d.mask = nil
		return x
	}
	n, c := x.Dims()
	keep := 1 - d.rate
	d.mask = mat.NewDense(n, c, nil)
	d.mask.Apply(func(i, j int, v float64) float64 {
		if d.rng.Float64() < keep {
			return 1 / keep
		}
		return 0
	}, d.mask)
	y := mat.NewDense(n, c, nil)
	y.MulElem(x, d.mask)
	return y
}

func (d *Dropout) backward(dy *mat.Dense) *mat.Dense {
	if d.mask == nil {
		return dy
	}
	n, c := dy.Dims()
	dx := mat.NewDense(n, c, nil)
	dx.MulElem(dy, d.mask)
	return dx
}

// relu applies the rectifier and returns the activation mask.
func relu(x *mat.Dense) (*mat.Dense, *mat.Dense) {
	n, c := x.Dims()
	y := mat.NewDense(n, c, nil)
	mask := mat.NewDense(n, c, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			if v := x.At(i, j); v > 0 {
				y.Set(i, j, v)
				mask.Set(i, j, 1)
			}
		}
	}
	return y, mask
}

func reluBackward(dy, mask *mat.Dense) *mat.Dense {
	n, c := dy.Dims()
	dx := mat.NewDense(n, c, nil)
	dx.MulElem(dy, mask)
	return dx
}
