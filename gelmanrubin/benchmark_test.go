package gelmanrubin

import (
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func BenchmarkRHat(b *testing.B) {
	shapes := []struct{ chains, draws int }{
		{2, 1000},
		{4, 5000},
		{8, 20000},
	}

	for _, shape := range shapes {
		b.Run(fmt.Sprintf("m%d_n%d", shape.chains, shape.draws), func(b *testing.B) {
			rng := rand.New(rand.NewSource(42))
			chains := mat.NewDense(shape.chains, shape.draws, nil)
			for i := 0; i < shape.chains; i++ {
				for j := 0; j < shape.draws; j++ {
					chains.Set(i, j, rng.NormFloat64())
				}
			}

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := RHat(chains); err != nil {
					b.Fatalf("RHat() error = %v", err)
				}
			}
		})
	}
}
