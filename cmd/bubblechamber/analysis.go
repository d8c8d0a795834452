package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bubblechamber/internal/analysis"
	"github.com/san-kum/bubblechamber/internal/automation"
	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/metrics"
	"github.com/san-kum/bubblechamber/internal/optim"
	"github.com/san-kum/bubblechamber/internal/sim"
	"github.com/san-kum/bubblechamber/internal/storage"
	"github.com/spf13/cobra"
)

var (
	ensembleRuns int
	sweepRuns    int
	tuneRuns     int
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	target       float64
	rates        []float64
	perturb      map[string]string
	trials       int
	popLimit     int
	minPoints    int
)

func analysisCommands() []*cobra.Command {
	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run one configuration across many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one named parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 4, "seeds per value")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "pick the spawn rate that holds the population near a target",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&target, "target", 20, "target late-run population")
	tuneCmd.Flags().Float64SliceVar(&rates, "rates", []float64{0, 0.5, 1, 2, 4, 8}, "candidate spawn rates")
	tuneCmd.Flags().IntVar(&tuneRuns, "runs", 3, "seeds per candidate")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "jitter parameters and count unstable runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(mcCmd)
	mcCmd.Flags().StringToStringVar(&perturb, "perturb", map[string]string{"friction": "0.5"}, "relative jitter per parameter")
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().IntVar(&popLimit, "limit", 0, "population above which a trial counts as unstable")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "list metrics and tunable parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("metrics:")
			for _, n := range metrics.Names() {
				fmt.Printf("  %s\n", n)
			}
			fmt.Println("\nparameters:")
			for _, n := range config.ParamNames() {
				fmt.Printf("  %s\n", n)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "population spectrum and track momenta of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&minPoints, "min-points", 12, "shortest trail to fit")

	return []*cobra.Command{analyzeCmd, ensembleCmd, sweepCmd, tuneCmd, mcCmd, scenarioCmd, metricsCmd}
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	start := cfg.Seed
	if start == 0 {
		start = 1
	}

	ens, err := experiment.NewEnsemble(cfg, ensembleRuns, start)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("ensemble %s: %d runs, seeds %d..%d\n\n", label, ensembleRuns, start, start+int64(ensembleRuns)-1)
	results, err := ens.Run(ctx, cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV")
	for _, name := range metrics.Names() {
		mean, std := sim.MetricStats(results, name)
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\n", name, mean, std)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	start := cfg.Seed
	if start == 0 {
		start = 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Runs:      sweepRuns,
		SeedStart: start,
	}, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPOP_MEAN\tPOP_STD\tPEAK\tSPLITS\tUNSTABLE\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.2f\t%.2f\t%.1f\t%.1f\t%d\n",
			r.ParamValue, r.PopulationMean, r.PopulationStd, r.PopulationPeak, r.Splits, r.Unstable)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("tuning spawn rate on %s for population %.1f\n", label, target)
	rate, score, err := optim.TuneSpawnRate(ctx, cfg, target, rates, tuneRuns)
	if err != nil {
		return err
	}
	fmt.Printf("best spawn_rate: %.3f/s (off by %.2f)\n", rate, score)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	jitter := make(map[string]float64, len(perturb))
	for k, v := range perturb {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("--perturb %s: %w", k, err)
		}
		jitter[k] = f
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("monte carlo on %s: %d trials\n", label, trials)
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:            cfg,
		Perturb:         jitter,
		NumTrials:       trials,
		Seed:            cfg.Seed,
		PopulationLimit: popLimit,
	}, os.Stderr)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("stable: %d, unstable: %d\n", stable, unstable)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %s\n", sc.Name, sc.Description)
	results, err := automation.RunScenario(ctx, sc, st, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSEED\tPOP_MEAN\tSPLITS\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%s\n",
			r.Label, r.Seed, r.Result.Metrics["population_mean"], r.Result.Totals.Split, r.RunID)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	trails, err := st.LoadTrails(runID)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	if len(series) > 4 {
		pop := make([]float64, len(series))
		for i, s := range series {
			pop[i] = float64(s.Population)
		}
		step := series[1].Time - series[0].Time
		ps := analysis.PowerSpectrum(analysis.Detrend(pop))
		fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("population power spectrum"),
		))
		freq, _ := analysis.DominantFrequency(pop, step)
		fmt.Printf("\ndominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.3f s\n", 1.0/freq)
		}
		fmt.Println()
	}

	field := dynamo.Vec3{Z: config.DefaultFieldZ}
	if meta.Config != nil {
		field = dynamo.V3(meta.Config.Chamber.Field)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHARGE\tMASS\tGEN\tPOINTS\tRADIUS\tMOMENTUM\tTURN")
	fitted := 0
	for _, tr := range trails {
		if len(tr.Points) < minPoints {
			continue
		}
		pts := make([]dynamo.Vec3, len(tr.Points))
		for i, p := range tr.Points {
			pts[i] = dynamo.V3(p)
		}
		fit := analysis.FitTrack(pts, field, tr.Charge, 3)
		turn := "?"
		switch fit.Sense {
		case 1:
			turn = "ccw"
		case -1:
			turn = "cw"
		}
		fmt.Fprintf(w, "%+d\t%d\t%d\t%d\t%.2f\t%.2f\t%s\n",
			tr.Charge, tr.Mass, tr.Generation, len(tr.Points), fit.Radius, fit.Momentum, turn)
		fitted++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d of %d trails fitted\n", fitted, len(trails))
	return nil
}
