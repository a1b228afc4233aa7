package actess

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/statdiag/go-mcmc-diagnostics/samples"
)

func BenchmarkESS(b *testing.B) {
	shapes := []struct{ batches, draws, dims int }{
		{1, 5000, 1},
		{4, 1000, 4},
		{8, 2000, 16},
	}

	for _, shape := range shapes {
		b.Run(fmt.Sprintf("b%d_t%d_d%d", shape.batches, shape.draws, shape.dims), func(b *testing.B) {
			rng := rand.New(rand.NewSource(42))
			data := make([]float64, shape.batches*shape.draws*shape.dims)
			rho := 0.8
			for i := range data {
				if i == 0 {
					data[i] = rng.NormFloat64()
				} else {
					data[i] = rho*data[i-1] + rng.NormFloat64()
				}
			}
			x, err := samples.NewTensor(shape.batches, shape.draws, shape.dims, data)
			if err != nil {
				b.Fatalf("NewTensor() error = %v", err)
			}

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := ESS(x); err != nil {
					b.Fatalf("ESS() error = %v", err)
				}
			}
		})
	}
}
