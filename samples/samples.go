// Package samples provides containers and persistence for MCMC sample chains:
// a dense (batch, time, dimension) tensor with axis-aware reductions, per-column
// summary statistics, CSV chain storage, and discrete-state posterior evaluation.
package samples

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense block of draws from b independent chains, t draws per
// chain, d dimensions per draw. Data is stored row-major so each chain is a
// contiguous (t x d) slab.
type Tensor struct {
	b, t, d int
	data    []float64
}

// NewTensor creates a tensor of shape (b, t, d). If data is nil a zeroed
// backing slice is allocated, otherwise it is used directly and must have
// length b*t*d.
func NewTensor(b, t, d int, data []float64) (*Tensor, error) {
	if b <= 0 || t <= 0 || d <= 0 {
		return nil, fmt.Errorf("samples: invalid tensor shape (%d, %d, %d)", b, t, d)
	}
	if data == nil {
		data = make([]float64, b*t*d)
	} else if len(data) != b*t*d {
		return nil, fmt.Errorf("samples: data length %d does not match shape (%d, %d, %d)", len(data), b, t, d)
	}
	return &Tensor{b: b, t: t, d: d, data: data}, nil
}

// Stack builds a (b, t, d) tensor from b chains of identical shape (t x d).
func Stack(chains []*mat.Dense) (*Tensor, error) {
	if len(chains) == 0 {
		return nil, errors.New("samples: no chains to stack")
	}
	t, d := chains[0].Dims()
	x, err := NewTensor(len(chains), t, d, nil)
	if err != nil {
		return nil, err
	}
	for i, c := range chains {
		ct, cd := c.Dims()
		if ct != t || cd != d {
			return nil, fmt.Errorf("samples: chain %d has shape (%d, %d), want (%d, %d)", i, ct, cd, t, d)
		}
		for j := 0; j < t; j++ {
			for k := 0; k < d; k++ {
				x.Set(i, j, k, c.At(j, k))
			}
		}
	}
	return x, nil
}

// Dims returns the tensor shape (chains, draws, dimensions).
func (x *Tensor) Dims() (b, t, d int) {
	return x.b, x.t, x.d
}

// At returns the value of dimension k of draw j in chain i.
func (x *Tensor) At(i, j, k int) float64 {
	return x.data[(i*x.t+j)*x.d+k]
}

// Set assigns the value of dimension k of draw j in chain i.
func (x *Tensor) Set(i, j, k int, v float64) {
	x.data[(i*x.t+j)*x.d+k] = v
}

// Chain returns chain i as a (t x d) matrix sharing the tensor's backing data.
func (x *Tensor) Chain(i int) *mat.Dense {
	start := i * x.t * x.d
	return mat.NewDense(x.t, x.d, x.data[start:start+x.t*x.d])
}

// MeanVar reduces over the chain and draw axes, returning the per-dimension
// mean and population variance across all b*t draws.
func (x *Tensor) MeanVar() (mu, variance []float64) {
	mu = make([]float64, x.d)
	variance = make([]float64, x.d)
	n := float64(x.b * x.t)
	for i := 0; i < len(x.data); i += x.d {
		for k := 0; k < x.d; k++ {
			mu[k] += x.data[i+k]
		}
	}
	for k := range mu {
		mu[k] /= n
	}
	for i := 0; i < len(x.data); i += x.d {
		for k := 0; k < x.d; k++ {
			diff := x.data[i+k] - mu[k]
			variance[k] += diff * diff
		}
	}
	for k := range variance {
		variance[k] /= n
	}
	return mu, variance
}
