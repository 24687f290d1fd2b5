package net

import (
	"math"

	coinmath "github.com/drakos74/free-cover/internal/math"
)

// OptimizerConfig holds the AdamW hyper-parameters.
type OptimizerConfig struct {
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
	WeightDecay  float64 `yaml:"weight_decay" json:"weight_decay"`
	Beta1        float64 `yaml:"beta1" json:"beta1"`
	Beta2        float64 `yaml:"beta2" json:"beta2"`
	Epsilon      float64 `yaml:"epsilon" json:"epsilon"`
	MaxGradNorm  float64 `yaml:"max_grad_norm" json:"max_grad_norm"`
}

// DefaultOptimizerConfig returns the training defaults.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		LearningRate: 1e-3,
		WeightDecay:  1e-2,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		MaxGradNorm:  0.5,
	}
}

// AdamW is the Adam optimiser with decoupled weight decay.
type AdamW struct {
	cfg    OptimizerConfig
	params []*Param
	m      [][]float64
	v      [][]float64
	t      int
}

// NewAdamW creates an optimiser for the given parameters.
func NewAdamW(cfg OptimizerConfig, params []*Param) *AdamW {
	m := make([][]float64, len(params))
	v := make([][]float64, len(params))
	for i, p := range params {
		m[i] = make([]float64, len(p.Values()))
		v[i] = make([]float64, len(p.Values()))
	}
	return &AdamW{
		cfg:    cfg,
		params: params,
		m:      m,
		v:      v,
	}
}

// Step clips the gradients by their global norm and updates the parameters.
// It returns the gradient norm before clipping.
func (o *AdamW) Step() float64 {
	norm := 0.0
	if o.cfg.MaxGradNorm > 0 {
		grads := make([][]float64, len(o.params))
		for i, p := range o.params {
			grads[i] = p.Grad()
		}
		norm = coinmath.ClipByNorm(o.cfg.MaxGradNorm, grads...)
	}

	o.t++
	lr := o.cfg.LearningRate
	c1 := 1 - math.Pow(o.cfg.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.cfg.Beta2, float64(o.t))
	for i, p := range o.params {
		w := p.Values()
		g := p.Grad()
		m := o.m[i]
		v := o.v[i]
		for k := range w {
			w[k] -= lr * o.cfg.WeightDecay * w[k]
			m[k] = o.cfg.Beta1*m[k] + (1-o.cfg.Beta1)*g[k]
			v[k] = o.cfg.Beta2*v[k] + (1-o.cfg.Beta2)*g[k]*g[k]
			mh := m[k] / c1
			vh := v[k] / c2
			w[k] -= lr * mh / (math.Sqrt(vh) + o.cfg.Epsilon)
		}
	}
	return norm
}

// Steps returns the number of updates applied so far.
func (o *AdamW) Steps() int {
	return o.t
}
