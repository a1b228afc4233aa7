package samples

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Chain is one loaded chain: the column names and the (draws x dims) matrix.
type Chain struct {
	Keys  []string
	Draws *mat.Dense
}

// ChainStore reads and writes per-chain CSV files under a directory. Files
// are named by the inference method and the 1-based chain number, with
// separate variants for post-burn-in draws and the full trace:
//
//	{inference}_chain_{i}_samples_after_burnin.csv
//	{inference}_chain_{i}_all_samples.csv
type ChainStore struct {
	Dir       string
	Inference string
}

// NewChainStore returns a store rooted at dir for the named inference method
// (e.g. "dhmc").
func NewChainStore(dir, inference string) *ChainStore {
	return &ChainStore{Dir: dir, Inference: inference}
}

// Path returns the file path for chain number i (1-based).
func (s *ChainStore) Path(i int, includeBurnin bool) string {
	suffix := "samples_after_burnin"
	if includeBurnin {
		suffix = "all_samples"
	}
	return filepath.Join(s.Dir, fmt.Sprintf("%s_chain_%d_%s.csv", s.Inference, i, suffix))
}

// SaveChain writes one chain to its CSV file, creating the store directory
// if needed. keys names the columns and must match the matrix width.
func (s *ChainStore) SaveChain(i int, keys []string, draws *mat.Dense, includeBurnin bool) error {
	n, d := draws.Dims()
	if len(keys) != d {
		return fmt.Errorf("samples: %d column names for %d columns", len(keys), d)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(s.Path(i, includeBurnin))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(keys); err != nil {
		return err
	}
	record := make([]string, d)
	for r := 0; r < n; r++ {
		for c := 0; c < d; c++ {
			record[c] = strconv.FormatFloat(draws.At(r, c), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// LoadChains reads chains 1..nChains from the store. Chains whose file does
// not exist are skipped; the result maps chain number to its loaded draws.
func (s *ChainStore) LoadChains(nChains int, includeBurnin bool) (map[int]*Chain, error) {
	chains := make(map[int]*Chain)
	for i := 1; i <= nChains; i++ {
		path := s.Path(i, includeBurnin)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		chain, err := readChain(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("samples: %s: %w", path, err)
		}
		chains[i] = chain
	}
	return chains, nil
}

// Header returns the column names of chain number i without loading the draws.
func (s *ChainStore) Header(i int, includeBurnin bool) ([]string, error) {
	f, err := os.Open(s.Path(i, includeBurnin))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).Read()
}

func readChain(r io.Reader) (*Chain, error) {
	reader := csv.NewReader(r)
	keys, err := reader.Read()
	if err != nil {
		return nil, err
	}
	var values []float64
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("no draws after header")
	}
	return &Chain{Keys: keys, Draws: mat.NewDense(rows, len(keys), values)}, nil
}
