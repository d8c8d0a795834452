package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/storage"
)

const scenarioYAML = `
name: field-ramp
description: two runs at rising field strength
steps:
  - preset: classic
    duration: 0.5
    seed: 7
    params:
      field_z: 1.0
  - preset: calm
    integrator: rk4
    duration: 0.5
    seed: 8
    params:
      field_z: 3.0
    save_as: strong
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "field-ramp" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[1].Params["field_z"] != 3.0 {
		t.Errorf("params not parsed: %+v", sc.Steps[1].Params)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestResolveStep(t *testing.T) {
	step := ScenarioStep{
		Preset:     "classic",
		Integrator: "rk4",
		Pattern:    "vertex",
		Dt:         0.01,
		Params:     map[string]float64{"friction": 0.5},
	}
	cfg, err := step.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Integrator != "rk4" || cfg.Generator.Pattern != "vertex" || cfg.Dt != 0.01 || cfg.Chamber.Friction != 0.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if config.GetPreset("classic").Chamber.Friction == 0.5 {
		t.Error("resolve mutated the preset")
	}

	if _, err := (ScenarioStep{Preset: "nope"}).Resolve(); err == nil {
		t.Error("expected error for unknown preset")
	}
	_, err = (ScenarioStep{Params: map[string]float64{"gravity": 1}}).Resolve()
	if !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, store, nil)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID != "" {
		t.Errorf("unsaved step got run id %q", results[0].RunID)
	}
	if results[1].RunID == "" || results[1].Label != "strong" {
		t.Fatalf("saved step missing run id: %+v", results[1])
	}
	if results[1].Seed != 8 {
		t.Errorf("seed = %d, want 8", results[1].Seed)
	}

	meta, err := store.Load(results[1].RunID)
	if err != nil {
		t.Fatalf("load saved run: %v", err)
	}
	if meta.Integrator != "rk4" {
		t.Errorf("saved integrator = %q", meta.Integrator)
	}
}

func TestSweepValues(t *testing.T) {
	sw := &ParameterSweep{ParamMin: 0, ParamMax: 1, NumSteps: 5}
	got := sw.Values()
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %g, want %g", i, got[i], want[i])
		}
	}

	single := &ParameterSweep{ParamMin: 3, ParamMax: 9, NumSteps: 1}
	if v := single.Values(); len(v) != 1 || v[0] != 3 {
		t.Errorf("single-step sweep = %v", v)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "spawn_rate",
		ParamMin:  0,
		ParamMax:  20,
		NumSteps:  3,
		Runs:      2,
		SeedStart: 1,
	}, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.PopulationMean <= 0 {
			t.Errorf("%g: empty population mean", r.ParamValue)
		}
		if r.Unstable != 0 {
			t.Errorf("%g: %d unstable runs", r.ParamValue, r.Unstable)
		}
	}
	if base.Generator.SpawnRate != config.DefaultConfig().Generator.SpawnRate {
		t.Error("sweep mutated the base config")
	}

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "gravity", NumSteps: 2}, nil)
	if !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.5

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:      base,
		Perturb:   map[string]float64{"friction": 0.5, "field_z": 0.2},
		NumTrials: 4,
		Seed:      42,
	}, nil)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(results))
	}
	for _, r := range results {
		f := r.Params["friction"]
		if f < base.Chamber.Friction*0.5 || f > base.Chamber.Friction*1.5 {
			t.Errorf("trial %d friction %g outside jitter band", r.TrialID, f)
		}
	}
	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 4 {
		t.Errorf("stats do not add up: %d + %d", stable, unstable)
	}
}

func TestMonteCarloStats(t *testing.T) {
	s, u := MonteCarloStats([]MonteCarloResult{{Stable: true}, {Stable: false}, {Stable: true}})
	if s != 2 || u != 1 {
		t.Errorf("got %d stable, %d unstable", s, u)
	}
}
