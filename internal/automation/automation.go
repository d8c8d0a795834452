package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/sim"
	"github.com/san-kum/bubblechamber/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of chamber runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the
// preset's value.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Integrator string             `yaml:"integrator"`
	Pattern    string             `yaml:"pattern"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Seed       int64              `yaml:"seed"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a scenario step with its run. RunID is empty unless the
// step was saved.
type StepResult struct {
	Label  string
	Seed   int64
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Resolve builds the configuration a step runs with.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Pattern != "" {
		cfg.Generator.Pattern = s.Pattern
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if err := cfg.Apply(s.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s ScenarioStep) label() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	case s.Config != "":
		return s.Config
	}
	return "default"
}

// RunScenario executes all steps in a scenario. Steps with SaveAs are
// written to store when it is non-nil. Progress lines go to out, which may
// be nil.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, out io.Writer) ([]StepResult, error) {
	if out == nil {
		out = io.Discard
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.label())

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.Build(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.WithDefaultMetrics().Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Label: step.label(), Seed: exp.Seed, Result: result}
		if step.SaveAs != "" && store != nil {
			id, err := store.Save(step.SaveAs, cfg, exp.Seed, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs ensembles across a range of one parameter's values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	// Runs is the ensemble size per value; seeds start at SeedStart.
	Runs      int
	SeedStart int64
}

// SweepResult holds ensemble statistics for one parameter value
type SweepResult struct {
	ParamValue     float64
	PopulationMean float64
	PopulationStd  float64
	PopulationPeak float64
	Splits         float64
	Unstable       int
}

// Values lists the swept parameter values, endpoints included.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps <= 1 {
		return []float64{sw.ParamMin}
	}
	step := (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	vals := make([]float64, sw.NumSteps)
	for i := range vals {
		vals[i] = sw.ParamMin + float64(i)*step
	}
	return vals
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, out io.Writer) ([]SweepResult, error) {
	if out == nil {
		out = io.Discard
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	runs := sweep.Runs
	if runs < 1 {
		runs = 1
	}
	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.Set(sweep.ParamName, v); err != nil {
			return nil, err
		}

		ens, err := experiment.NewEnsemble(cfg, runs, sweep.SeedStart)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}
		runResults, err := ens.Run(ctx, cfg.SimConfig())
		if err != nil {
			return nil, err
		}

		sr := SweepResult{ParamValue: v}
		sr.PopulationMean, sr.PopulationStd = sim.MetricStats(runResults, "population_mean")
		sr.PopulationPeak, _ = sim.MetricStats(runResults, "population_peak")
		sr.Splits, _ = sim.MetricStats(runResults, "splits")
		for _, r := range runResults {
			if len(r.Errors) > 0 {
				sr.Unstable++
			}
		}
		results = append(results, sr)

		fmt.Fprintf(out, "Sweep %d/%d: %s=%.4f\n", i+1, len(values), sweep.ParamName, v)
	}

	return results, nil
}

// MonteCarloConfig jitters parameters around a base configuration
type MonteCarloConfig struct {
	Base *config.Config
	// Perturb maps a parameter name to its relative jitter: each trial draws
	// value·(1 + u·jitter) with u uniform in [-1, 1).
	Perturb   map[string]float64
	NumTrials int
	Seed      int64
	// PopulationLimit marks a trial unstable when its peak exceeds it; 0
	// checks only for numerical failures.
	PopulationLimit int
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Peak    float64
	Stable  bool
}

// RunMonteCarlo executes trials with randomly perturbed parameters
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, out io.Writer) ([]MonteCarloResult, error) {
	if out == nil {
		out = io.Discard
	}
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	names := make([]string, 0, len(cfg.Perturb))
	for k := range cfg.Perturb {
		names = append(names, k)
	}
	sort.Strings(names)

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := base.Clone()
		trialCfg.Seed = seed + int64(trial) + 1
		params := make(map[string]float64, len(names))
		for _, name := range names {
			v, err := base.Get(name)
			if err != nil {
				return nil, err
			}
			params[name] = v * (1 + (2*rng.Float64()-1)*cfg.Perturb[name])
		}
		if err := trialCfg.Apply(params); err != nil {
			return nil, err
		}

		exp, err := experiment.Build(trialCfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		result, err := exp.WithDefaultMetrics().Run(ctx)
		if err != nil {
			return nil, err
		}

		peak := result.Metrics["population_peak"]
		stable := len(result.Errors) == 0
		if cfg.PopulationLimit > 0 && peak > float64(cfg.PopulationLimit) {
			stable = false
		}
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Params:  params,
			Peak:    peak,
			Stable:  stable,
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(out, "Monte Carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
