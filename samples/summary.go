package samples

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for one column of draws.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes per-column descriptive statistics for a (draws x dims)
// matrix. The standard deviation is the sample (n-1) estimate.
func Describe(draws mat.Matrix) []Summary {
	n, d := draws.Dims()
	out := make([]Summary, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, draws)
		sorted := make([]float64, n)
		copy(sorted, col)
		sort.Float64s(sorted)
		out[j] = Summary{
			Count:  n,
			Mean:   stat.Mean(col, nil),
			Std:    stat.StdDev(col, nil),
			Min:    sorted[0],
			Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
			Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
			Max:    sorted[n-1],
		}
	}
	return out
}

// ColumnMeans returns the mean of every column of a (draws x dims) matrix.
func ColumnMeans(draws mat.Matrix) []float64 {
	n, d := draws.Dims()
	means := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, draws)
		means[j] = stat.Mean(col, nil)
	}
	return means
}

// MeanVariance returns the mean and population variance of a scalar series.
func MeanVariance(x []float64) (mu, variance float64) {
	n := float64(len(x))
	for _, v := range x {
		mu += v
	}
	mu /= n
	for _, v := range x {
		diff := v - mu
		variance += diff * diff
	}
	variance /= n
	return mu, variance
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f std=%.4f min=%.4f q25=%.4f med=%.4f q75=%.4f max=%.4f",
		s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
}
