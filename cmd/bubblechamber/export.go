package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bubblechamber/internal/export"
	"github.com/san-kum/bubblechamber/internal/storage"
	"github.com/san-kum/bubblechamber/internal/viz"
	"github.com/spf13/cobra"
)

var (
	svgOut    string
	svgWidth  int
	svgHeight int
	svgTilt   float64
	pngOut    string
)

func plotRun(cmd *cobra.Command, args []string) error {
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

	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("pattern: %s, integrator: %s, seed: %d\n", meta.Pattern, meta.Integrator, meta.Seed)
	fmt.Printf("samples: %d\n\n", len(series))

	pop := make([]float64, len(series))
	decaying := make([]float64, len(series))
	energy := make([]float64, len(series))
	for i, s := range series {
		pop[i] = float64(s.Population)
		decaying[i] = float64(s.Decaying)
		energy[i] = s.Energy
	}

	fmt.Println(asciigraph.PlotMany([][]float64{pop, decaying},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("population (green) and decaying (red)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Println()

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "population", "alive", "decaying", "energy"}); err != nil {
		return err
	}
	for _, s := range series {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.Itoa(s.Population),
			strconv.Itoa(s.Alive),
			strconv.Itoa(s.Decaying),
			strconv.FormatFloat(s.Energy, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	trails, err := st.LoadTrails(args[0])
	if err != nil {
		return err
	}

	view := export.TopDown
	if svgTilt != 0 {
		cam := viz.NewCamera(1, 60)
		cam.RotateX(svgTilt)
		cam.Snap()
		view = export.CameraView(cam)
	}

	svg := export.TrailsToSVG(trails, svgWidth, svgHeight, view)
	if svg == "" {
		return fmt.Errorf("run %s has no trail points", args[0])
	}
	if svgOut == "" {
		_, err := fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d trails)\n", svgOut, len(trails))
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(pngOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.PopulationChart(f, series, args[0], 1024, 480); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d samples)\n", pngOut, len(series))
	return nil
}
