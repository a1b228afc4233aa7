// Package actess estimates effective sample sizes from batched MCMC chains
// via autocorrelation times, in the manner popularized by A-NICE-MC. It sums
// tapered autocorrelations over lags until every dimension drops below a
// significance threshold. Less rigorous than the monotone sequence estimator
// of package monoess, but robust to multiple independent batches; the two are
// kept as separate, independently selectable diagnostics.
package actess

import (
	"fmt"

	"github.com/statdiag/go-mcmc-diagnostics/samples"
)

// DefaultSignificanceThreshold is the autocorrelation level below which a
// lag is treated as insignificant for a dimension and excluded from its
// inflation sum. Once no dimension exceeds it, all remaining lags are
// assumed negligible.
const DefaultSignificanceThreshold = 0.05

type config struct {
	mu        []float64
	variance  []float64
	threshold float64
}

// Option configures the estimator.
type Option func(*config)

// WithMean supplies per-dimension means instead of the empirical mean over
// the chain and draw axes. Make sure the values are correct: errors here
// bias every autocorrelation estimate.
func WithMean(mu []float64) Option {
	return func(c *config) {
		c.mu = mu
	}
}

// WithVariance supplies per-dimension variances; see WithMean.
func WithVariance(variance []float64) Option {
	return func(c *config) {
		c.variance = variance
	}
}

// WithThreshold overrides DefaultSignificanceThreshold.
func WithThreshold(threshold float64) Option {
	return func(c *config) {
		c.threshold = threshold
	}
}

// ESS returns the per-dimension effective sample size of a (chains, draws,
// dims) tensor: t divided by the accumulated autocorrelation inflation
// factor of each dimension. Each significant lag s contributes
// 2 * p * (1 - s/t) to its dimension's factor, the taper down-weighting high
// lags.
func ESS(x *samples.Tensor, opts ...Option) ([]float64, error) {
	_, t, d := x.Dims()
	if t < 2 {
		return nil, fmt.Errorf("actess: need at least 2 draws per chain, got %d", t)
	}
	cfg := config{threshold: DefaultSignificanceThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.mu != nil && len(cfg.mu) != d {
		return nil, fmt.Errorf("actess: %d means for %d dimensions", len(cfg.mu), d)
	}
	if cfg.variance != nil && len(cfg.variance) != d {
		return nil, fmt.Errorf("actess: %d variances for %d dimensions", len(cfg.variance), d)
	}

	mu, variance := cfg.mu, cfg.variance
	if mu == nil || variance == nil {
		empMu, empVar := x.MeanVar()
		if mu == nil {
			mu = empMu
		}
		if variance == nil {
			variance = empVar
		}
	}

	inflation := make([]float64, d)
	for j := range inflation {
		inflation[j] = 1
	}
	for s := 1; s < t; s++ {
		p := autoCorrelationTime(x, s, mu, variance)
		significant := false
		for j := 0; j < d; j++ {
			if p[j] > cfg.threshold {
				significant = true
				break
			}
		}
		if !significant {
			break
		}
		for j := 0; j < d; j++ {
			if p[j] > cfg.threshold {
				inflation[j] += 2 * p[j] * (1 - float64(s)/float64(t))
			}
		}
	}

	ess := make([]float64, d)
	for j := range ess {
		ess[j] = float64(t) / inflation[j]
	}
	return ess, nil
}

// autoCorrelationTime returns the lag-s autocorrelation for every dimension,
// averaged over the chains of the batch.
func autoCorrelationTime(x *samples.Tensor, s int, mu, variance []float64) []float64 {
	b, t, d := x.Dims()
	act := make([]float64, d)
	for i := 0; i < b; i++ {
		for j := 0; j < d; j++ {
			sum := 0.0
			for k := 0; k < t-s; k++ {
				sum += (x.At(i, k, j) - mu[j]) * (x.At(i, k+s, j) - mu[j])
			}
			act[j] += sum / float64(t-s) / variance[j]
		}
	}
	for j := range act {
		act[j] /= float64(b)
	}
	return act
}
