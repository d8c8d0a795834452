package sim

import (
	"context"
	"math"
	"sync"
)

// Factory builds an independent simulator for one seed. Engines are not
// shareable, so every ensemble member gets its own.
type Factory func(seed int64) (*Simulator, error)

type Ensemble struct {
	build     Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MetricStats returns the mean and sample standard deviation of a named
// metric across ensemble results.
func MetricStats(results []*Result, name string) (mean, stddev float64) {
	var vals []float64
	for _, r := range results {
		if r == nil {
			continue
		}
		if v, ok := r.Metrics[name]; ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, 0
	}
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	if len(vals) < 2 {
		return mean, 0
	}
	for _, v := range vals {
		stddev += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(stddev / float64(len(vals)-1))
}
