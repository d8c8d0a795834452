package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/sim"
)

// Objective scores a finished run; lower is better.
type Objective func(result *sim.Result) float64

// MetricObjective minimises a named metric.
func MetricObjective(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

// TargetObjective minimises the distance of a named metric from target.
func TargetObjective(name string, target float64) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return math.Abs(v - target)
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Runs averages the objective over this many seeds per grid point.
	Runs int
	// Evaluated counts the grid points that produced a score.
	Evaluated int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, Runs: 1}
}

// Search evaluates every point of the grid against base and returns the
// best parameter set and its score. Points whose config fails validation
// are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, err := base.Get(name); err != nil {
			return nil, 0, err
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &bestParams)
	if err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, fmt.Errorf("grid search: no grid point produced a valid run")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, ok := g.evaluate(ctx, current, base, objective)
		if !ok {
			return nil
		}
		g.Evaluated++
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, objective Objective) (float64, bool) {
	cfg := base.Clone()
	if err := cfg.Apply(params); err != nil {
		return 0, false
	}
	runs := g.Runs
	if runs < 1 {
		runs = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	ens, err := experiment.NewEnsemble(cfg, runs, seed)
	if err != nil {
		return 0, false
	}
	results, err := ens.Run(ctx, cfg.SimConfig())
	if err != nil {
		return 0, false
	}

	var sum float64
	for _, r := range results {
		sum += objective(r)
	}
	return sum / float64(len(results)), true
}

// TuneSpawnRate picks the background spawn rate from rates whose late-run
// population lands closest to target.
func TuneSpawnRate(ctx context.Context, base *config.Config, target float64, rates []float64, runs int) (float64, float64, error) {
	g := NewGridSearch([]string{"spawn_rate"}, [][]float64{rates})
	g.Runs = runs
	best, score, err := g.Search(ctx, base, TargetObjective("population_tail", target))
	if err != nil {
		return 0, 0, err
	}
	return best["spawn_rate"], score, nil
}
