// Package gelmanrubin implements the Gelman-Rubin potential scale reduction
// diagnostic R-hat for multi-chain MCMC convergence assessment.
//
// R-hat compares the between-chain variance to the within-chain variance of
// a pooled set of chains; values near 1 indicate the chains have converged
// to the same distribution, while values persistently above ~1.1 (a
// caller-side threshold) indicate non-convergence.
//
// References: Gelman and Rubin (1992); Brooks and Gelman (1998).
package gelmanrubin

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/statdiag/go-mcmc-diagnostics/samples"
)

// ErrSingleChain is returned when fewer than two chains are supplied; the
// between-chain variance cannot be estimated from one chain.
var ErrSingleChain = errors.New("gelmanrubin: diagnostic requires multiple chains of the same length")

type config struct {
	mu    *float64
	muVec []float64
}

// Option configures the diagnostic.
type Option func(*config)

// WithMean supplies the true (or accurately estimated) posterior mean to use
// as the grand mean instead of the mean of the per-chain means.
func WithMean(mu float64) Option {
	return func(c *config) {
		v := mu
		c.mu = &v
	}
}

// WithMeans supplies per-dimension reference means for RHatDims.
func WithMeans(mu []float64) Option {
	return func(c *config) {
		c.muVec = mu
	}
}

// RHat computes the potential scale reduction statistic for an (m x n)
// matrix of m >= 2 chains, each a row of n draws of a single scalar
// quantity.
//
// The statistic is sqrt(V-hat / W) where W is the within-chain variance and
// V-hat the pooled posterior variance estimate. A within-chain variance of
// zero (all chains constant) leaves the result undefined; that degenerate
// input is the caller's to rule out.
func RHat(chains mat.Matrix, opts ...Option) (float64, error) {
	m, n := chains.Dims()
	if m < 2 {
		return 0, ErrSingleChain
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	theta := make([]float64, m)
	sigma := make([]float64, m)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, chains)
		theta[i], sigma[i] = samples.MeanVariance(row)
	}

	grand := stat.Mean(theta, nil)
	if cfg.mu != nil {
		grand = *cfg.mu
	}

	// Between-chain variance.
	b := 0.0
	for i := range theta {
		diff := theta[i] - grand
		b += diff * diff
	}
	b *= float64(n) / float64(m-1)

	// Within-chain variance.
	w := 0.0
	for i := range sigma {
		w += sigma[i]
	}
	w /= float64(m)

	// Estimate of marginal posterior variance.
	vHat := float64(n-1)/float64(n)*w + float64(m+1)/float64(m*n)*b
	return math.Sqrt(vHat / w), nil
}

// RHatDims computes R-hat independently for every dimension of a (chains,
// draws, dims) tensor, returning one statistic per dimension.
func RHatDims(x *samples.Tensor, opts ...Option) ([]float64, error) {
	b, t, d := x.Dims()
	if b < 2 {
		return nil, ErrSingleChain
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.muVec != nil && len(cfg.muVec) != d {
		return nil, fmt.Errorf("gelmanrubin: %d means for %d dimensions", len(cfg.muVec), d)
	}

	out := make([]float64, d)
	chains := mat.NewDense(b, t, nil)
	for j := 0; j < d; j++ {
		for i := 0; i < b; i++ {
			for k := 0; k < t; k++ {
				chains.Set(i, k, x.At(i, k, j))
			}
		}
		var dimOpts []Option
		if cfg.muVec != nil {
			dimOpts = append(dimOpts, WithMean(cfg.muVec[j]))
		}
		r, err := RHat(chains, dimOpts...)
		if err != nil {
			return nil, err
		}
		out[j] = r
	}
	return out, nil
}
