package net

import (
	"fmt"
)

// Tensor is the serialisable form of a parameter.
type Tensor struct {
	Name string    `json:"name"`
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Running holds the batch norm running statistics.
type Running struct {
	Name     string    `json:"name"`
	Mean     []float64 `json:"mean"`
	Variance []float64 `json:"variance"`
}

// State is the full snapshot of a network.
type State struct {
	Config  Config    `json:"config"`
	Params  []Tensor  `json:"params"`
	Running []Running `json:"running"`
}

// State exports the parameters and running statistics.
func (n *Network) State() State {
	params := n.Params()
	tt := make([]Tensor, len(params))
	for i, p := range params {
		r, c := p.W.Dims()
		data := make([]float64, r*c)
		copy(data, p.Values())
		tt[i] = Tensor{Name: p.Name, Rows: r, Cols: c, Data: data}
	}
	return State{
		Config:  n.cfg,
		Params:  tt,
		Running: n.running(),
	}
}

func (n *Network) norms() map[string]*BatchNorm {
	return map[string]*BatchNorm{
		"bn1": n.b1.bn,
		"bn2": n.b2.bn,
		"bn3": n.b3.bn,
	}
}

func (n *Network) running() []Running {
	rr := make([]Running, 0, 3)
	for _, name := range []string{"bn1", "bn2", "bn3"} {
		bn := n.norms()[name]
		mean := make([]float64, bn.dim)
		copy(mean, bn.mean)
		variance := make([]float64, bn.dim)
		copy(variance, bn.variance)
		rr = append(rr, Running{Name: name, Mean: mean, Variance: variance})
	}
	return rr
}

// FromState creates a network from the snapshot.
func FromState(s State) (*Network, error) {
	n, err := New(s.Config)
	if err != nil {
		return nil, fmt.Errorf("could not create network: %w", err)
	}
	if err := n.Load(s); err != nil {
		return nil, err
	}
	return n, nil
}

// Load overwrites the network parameters with the snapshot.
func (n *Network) Load(s State) error {
	params := make(map[string]*Param)
	for _, p := range n.Params() {
		params[p.Name] = p
	}
	if len(s.Params) != len(params) {
		return fmt.Errorf("expected %d parameters but got %d", len(params), len(s.Params))
	}
	for _, t := range s.Params {
		p, ok := params[t.Name]
		if !ok {
			return fmt.Errorf("unknown parameter '%s'", t.Name)
		}
		r, c := p.W.Dims()
		if r != t.Rows || c != t.Cols || len(t.Data) != r*c {
			return fmt.Errorf("shape mismatch for '%s': expected %dx%d but got %dx%d", t.Name, r, c, t.Rows, t.Cols)
		}
		copy(p.Values(), t.Data)
	}
	norms := n.norms()
	for _, rs := range s.Running {
		bn, ok := norms[rs.Name]
		if !ok {
			return fmt.Errorf("unknown batch norm '%s'", rs.Name)
		}
		if len(rs.Mean) != bn.dim || len(rs.Variance) != bn.dim {
			return fmt.Errorf("running stats mismatch for '%s'", rs.Name)
		}
		copy(bn.mean, rs.Mean)
		copy(bn.variance, rs.Variance)
	}
	return nil
}
