package net

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// Hidden1 is the width of the first hidden layer.
	Hidden1 = 64
	// Hidden2 is the width of the second hidden layer, also the width of the residual skip.
	Hidden2 = 32
	// Hidden3 is the width of the last hidden layer.
	Hidden3 = 16

	// DropoutRate is the default dropout probability of the hidden layers.
	DropoutRate = 0.2
	// Momentum of the batch norm running statistics.
	Momentum = 0.1
	// Epsilon is added to the batch norm variance.
	Epsilon = 1e-5
)

// Config defines the network instance.
type Config struct {
	InputSize int     `yaml:"input_size" json:"input_size"`
	Dropout   float64 `yaml:"dropout" json:"dropout"`
	Seed      uint64  `yaml:"seed" json:"seed"`
}

// NewConfig creates the default config for the given input size.
func NewConfig(inputSize int) Config {
	return Config{
		InputSize: inputSize,
		Dropout:   DropoutRate,
		Seed:      42,
	}
}

// block is a linear layer followed by batch norm, relu and dropout.
type block struct {
	fc   *Linear
	bn   *BatchNorm
	mask *mat.Dense
	drop *Dropout
}

func newBlock(name string, in, out int, rate float64, src rand.Source) *block {
	return &block{
		fc:   NewLinear("fc"+name, in, out, src),
		bn:   NewBatchNorm("bn"+name, out),
		drop: NewDropout(rate, src),
	}
}

func (b *block) forward(x *mat.Dense, train bool) *mat.Dense {
	z := b.bn.forward(b.fc.forward(x), train)
	a, mask := relu(z)
	b.mask = mask
	return b.drop.forward(a, train)
}

func (b *block) backward(dy *mat.Dense) *mat.Dense {
	d := b.drop.backward(dy)
	d = reluBackward(d, b.mask)
	d = b.bn.backward(d)
	return b.fc.backward(d)
}

func (b *block) params() []*Param {
	return append(b.fc.params(), b.bn.params()...)
}

// Network is the premium regression model.
// Three hidden blocks of 64, 32 and 16 units, with the first 32 activations of the first block
// added to the output of the second, and a rectified single unit output.
type Network struct {
	cfg  Config
	b1   *block
	b2   *block
	b3   *block
	out  *Linear
	mask *mat.Dense
	// guards the layer caches for concurrent predictions
	lock sync.Mutex
}

// New creates a new network with seeded initialisation.
func New(cfg Config) (*Network, error) {
	if cfg.InputSize <= 0 {
		return nil, fmt.Errorf("invalid input size %d", cfg.InputSize)
	}
	if cfg.Dropout < 0 || cfg.Dropout >= 1 {
		return nil, fmt.Errorf("invalid dropout rate %f", cfg.Dropout)
	}
	src := rand.NewSource(cfg.Seed)
	return &Network{
		cfg: cfg,
		b1:  newBlock("1", cfg.InputSize, Hidden1, cfg.Dropout, src),
		b2:  newBlock("2", Hidden1, Hidden2, cfg.Dropout, src),
		b3:  newBlock("3", Hidden2, Hidden3, cfg.Dropout, src),
		out: NewLinear("fc4", Hidden3, 1, src),
	}, nil
}

// InputSize returns the number of features the network expects.
func (n *Network) InputSize() int {
	return n.cfg.InputSize
}

// Config returns the network config.
func (n *Network) Config() Config {
	return n.cfg
}

// Forward runs the batch through the network.
// In training mode batch norm uses the batch statistics and dropout is active.
func (n *Network) Forward(x *mat.Dense, train bool) (*mat.Dense, error) {
	_, c := x.Dims()
	if c != n.cfg.InputSize {
		return nil, fmt.Errorf("expected %d features but got %d", n.cfg.InputSize, c)
	}
	x1 := n.b1.forward(x, train)
	x2 := n.b2.forward(x1, train)
	rows, _ := x2.Dims()
	// residual
	res := mat.NewDense(rows, Hidden2, nil)
	res.Add(x2, x1.Slice(0, rows, 0, Hidden2))
	x3 := n.b3.forward(res, train)
	y, mask := relu(n.out.forward(x3))
	n.mask = mask
	return y, nil
}

// Backward propagates the loss gradient of the last forward pass and sets the gradients of all parameters.
func (n *Network) Backward(dy *mat.Dense) {
	d := reluBackward(dy, n.mask)
	d = n.out.backward(d)
	dRes := n.b3.backward(d)
	dx1 := n.b2.backward(dRes)
	rows, _ := dx1.Dims()
	skip := dx1.Slice(0, rows, 0, Hidden2).(*mat.Dense)
	skip.Add(skip, dRes)
	n.b1.backward(dx1)
}

// Predict runs a single feature vector through the network in evaluation mode.
func (n *Network) Predict(x []float64) (float64, error) {
	if len(x) != n.cfg.InputSize {
		return 0, fmt.Errorf("expected %d features but got %d", n.cfg.InputSize, len(x))
	}
	v := make([]float64, len(x))
	copy(v, x)
	n.lock.Lock()
	defer n.lock.Unlock()
	y, err := n.Forward(mat.NewDense(1, len(v), v), false)
	if err != nil {
		return 0, err
	}
	return y.At(0, 0), nil
}

// PredictBatch runs the rows through the network in evaluation mode.
func (n *Network) PredictBatch(xx [][]float64) ([]float64, error) {
	if len(xx) == 0 {
		return []float64{}, nil
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	y, err := n.Forward(Matrix(xx), false)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, y), nil
}

// Params returns all trainable parameters in a stable order.
func (n *Network) Params() []*Param {
	pp := make([]*Param, 0)
	pp = append(pp, n.b1.params()...)
	pp = append(pp, n.b2.params()...)
	pp = append(pp, n.b3.params()...)
	pp = append(pp, n.out.params()...)
	return pp
}

// ZeroGrad resets all gradients.
func (n *Network) ZeroGrad() {
	for _, p := range n.Params() {
		p.G.Zero()
	}
}

// Matrix copies the rows into a dense matrix.
func Matrix(xx [][]float64) *mat.Dense {
	if len(xx) == 0 {
		return nil
	}
	m := mat.NewDense(len(xx), len(xx[0]), nil)
	for i, row := range xx {
		m.SetRow(i, row)
	}
	return m
}
