package samples

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StateHeatmap computes per-position state occupancy frequencies for a chain
// over a discrete state space. draws is (n x p): n draws of a p-position
// latent state path, each entry an integer-valued state in [0, numStates).
// The result is (numStates x p): entry (s, i) is the fraction of draws whose
// position i equals state s.
func StateHeatmap(draws mat.Matrix, numStates int) (*mat.Dense, error) {
	n, p := draws.Dims()
	if n == 0 || numStates <= 0 {
		return nil, fmt.Errorf("samples: heatmap needs draws and states, got %d draws of %d states", n, numStates)
	}
	heatmap := mat.NewDense(numStates, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < n; j++ {
			s := int(draws.At(j, i))
			if s < 0 || s >= numStates {
				return nil, fmt.Errorf("samples: state %d at draw %d position %d out of range [0, %d)", s, j, i, numStates)
			}
			heatmap.Set(s, i, heatmap.At(s, i)+1)
		}
	}
	heatmap.Scale(1/float64(n), heatmap)
	return heatmap, nil
}

// L2Distance returns the sum of squared elementwise differences between two
// matrices of identical shape.
func L2Distance(a, b mat.Matrix) (float64, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return 0, fmt.Errorf("samples: shape mismatch (%d, %d) vs (%d, %d)", ar, ac, br, bc)
	}
	sum := 0.0
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			diff := a.At(i, j) - b.At(i, j)
			sum += diff * diff
		}
	}
	return sum, nil
}

// PrefixL2Distances evaluates how the posterior state occupancy converges to
// a reference as more draws accumulate. The draws are split into groups of
// groupSize rows; for each group boundary the heatmap of the prefix up to that
// boundary is compared against truth by L2 distance. truth must be
// (numStates x p) like the heatmaps.
func PrefixL2Distances(draws *mat.Dense, truth mat.Matrix, numStates, groupSize int) ([]float64, error) {
	n, _ := draws.Dims()
	if groupSize <= 0 || groupSize > n {
		return nil, fmt.Errorf("samples: group size %d out of range for %d draws", groupSize, n)
	}
	groups := n / groupSize
	out := make([]float64, groups)
	for g := 0; g < groups; g++ {
		prefix := draws.Slice(0, groupSize*(g+1), 0, draws.RawMatrix().Cols)
		heatmap, err := StateHeatmap(prefix, numStates)
		if err != nil {
			return nil, err
		}
		out[g], err = L2Distance(heatmap, truth)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
