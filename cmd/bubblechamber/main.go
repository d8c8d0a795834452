package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/gui"
	"github.com/san-kum/bubblechamber/internal/integrators"
	"github.com/san-kum/bubblechamber/internal/sim"
	"github.com/san-kum/bubblechamber/internal/storage"
	"github.com/san-kum/bubblechamber/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	dt         float64
	duration   float64
	integrator string
	pattern    string
	friction   float64
	fieldZ     float64
	spawnRate  float64
	count      int
	overrides  map[string]string
	theme      string
	saveName   string
)

// main registers the commands and runs the root command. With no
// subcommand it opens the terminal preset picker.
func main() {
	log.SetFlags(0)
	log.SetPrefix("bubblechamber: ")

	rootCmd := &cobra.Command{
		Use:   "bubblechamber",
		Short: "bubble chamber particle simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(viz.NewInteractiveApp(seed))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bubblechamber", "data directory")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&saveName, "name", "", "run name (defaults to the preset)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch the chamber in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "watch the chamber in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tPATTERN\tFIELD\tFRICTION\tSPAWN\tCOUNT")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%v\t%.2f\t%.2f/s\t%d\n",
					name, c.Generator.Pattern, c.Chamber.Field, c.Chamber.Friction,
					c.Generator.SpawnRate, c.Generator.Count)
			}
			return w.Flush()
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot population and energy of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the population series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final trails of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 1024, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 1024, "image height")
	exportSVGCmd.Flags().Float64Var(&svgTilt, "tilt", 0, "rotate about x before projecting (radians)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "chart the population series of a run to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&pngOut, "output", "o", "population.png", "output file")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark engine throughput per integrator and timestep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same seed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, presetsCmd, plotCmd,
		exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, exportPNGCmd, benchCmd, compareCmd)
	rootCmd.AddCommand(analysisCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().StringVar(&pattern, "pattern", "", "spawn pattern (uniform, vertex, perlin)")
	cmd.Flags().Float64Var(&friction, "friction", config.DefaultFriction, "velocity damping per second")
	cmd.Flags().Float64Var(&fieldZ, "field", config.DefaultFieldZ, "magnetic field along z")
	cmd.Flags().Float64Var(&spawnRate, "spawn-rate", 0, "background roots per second")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "initial root count")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "named parameter overrides, e.g. split_kick=0.5,max_depth=4")
}

// resolveConfig layers a preset, then a config file, then explicitly set
// flags. A positional argument names the preset.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	label := "default"
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		label = name
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if name == "" {
			label = strings.TrimSuffix(baseName(configFile), ".yaml")
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("pattern") {
		cfg.Generator.Pattern = pattern
	}
	if flags.Changed("friction") {
		cfg.Chamber.Friction = friction
	}
	if flags.Changed("field") {
		cfg.Chamber.Field[2] = fieldZ
	}
	if flags.Changed("spawn-rate") {
		cfg.Generator.SpawnRate = spawnRate
	}
	if flags.Changed("count") {
		cfg.Generator.Count = count
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	for k, v := range overrides {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "", fmt.Errorf("--set %s: %w", k, err)
		}
		if err := cfg.Set(k, f); err != nil {
			return nil, "", err
		}
	}

	return cfg, label, nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// signalContext is canceled on interrupt so long runs stop cleanly and
// return what they have.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveName != "" {
		label = saveName
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	exp.WithDefaultMetrics()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (seed %d)...\n", label, exp.Seed)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.Printf("run stopped early: %v", runErr)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(label, cfg, exp.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	t := result.Totals
	fmt.Printf("events: %d decayed, %d split, %d daughters, %d spawned, %d removed\n",
		t.Decayed, t.Split, t.Daughters, t.Spawned, t.Removed)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, m[n])
	}
}

func runProgram(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		return runProgram(viz.NewInteractiveApp(seed))
	}

	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if theme != "" {
		viz.SetTheme(theme)
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	return runProgram(viz.NewModel(exp, label))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	return gui.Run(exp, label)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tINTEG\tPATTERN\tSEED\tSPLITS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Pattern,
			run.Seed,
			run.Totals.Split,
		)
	}

	return w.Flush()
}

func benchPreset(cmd *cobra.Command, args []string) error {
	name := "classic"
	if len(args) > 0 {
		name = args[0]
	}
	base := config.GetPreset(name)
	if base == nil {
		return fmt.Errorf("unknown preset: %s", name)
	}

	dts := []float64{1.0 / 30, 1.0 / 60, 1.0 / 120}
	base.Duration = 10
	base.Seed = 42

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tDT\tSTEPS\tPEAK\tTIME\tSTEPS/SEC")

	for _, integ := range integrators.Names() {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Integrator = integ
			cfg.Dt = step

			exp, err := experiment.Build(cfg)
			if err != nil {
				return err
			}
			exp.WithDefaultMetrics()

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%.0f\t%v\t%.0f\n",
				integ, step, result.StepsTaken, result.Metrics["population_peak"],
				elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args[1:]
	if len(names) == 0 {
		names = integrators.Names()
	}
	cfg, label, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	fmt.Printf("comparing integrators on %s (dt=%.4f, duration=%.1fs, seed=%d)\n\n",
		label, cfg.Dt, cfg.Duration, cfg.Seed)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "pop_mean", "energy_mean", "splits", "time_ms")
	fmt.Println(strings.Repeat("-", 66))

	var results []*sim.Result
	for _, intName := range names {
		c := cfg.Clone()
		c.Integrator = intName
		exp, err := experiment.Build(c)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", intName, err)
			continue
		}

		start := time.Now()
		result, err := exp.WithDefaultMetrics().Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", intName, err)
			continue
		}
		results = append(results, result)

		m := result.Metrics
		fmt.Printf("%-12s  %12.3f  %12.2f  %12.0f  %12.2f\n", intName,
			m["population_mean"], m["energy_mean"], m["splits"],
			float64(elapsed.Microseconds())/1000)
	}

	if len(results) > 1 {
		mean, std := sim.MetricStats(results, "energy_mean")
		fmt.Printf("\nenergy_mean spread across integrators: %.2f ± %.2f\n", mean, std)
	}
	return nil
}
