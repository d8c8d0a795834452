package export

import (
	"fmt"
	"io"

	"github.com/san-kum/bubblechamber/internal/sim"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	populationColor = drawing.Color{R: 80, G: 200, B: 120, A: 255}
	aliveColor      = drawing.Color{R: 90, G: 160, B: 255, A: 255}
	decayingColor   = drawing.Color{R: 255, G: 110, B: 90, A: 255}
)

// PopulationChart renders the population, alive and decaying counts of a
// run as a PNG line chart.
func PopulationChart(w io.Writer, samples []sim.Sample, title string, width, height int) error {
	if len(samples) < 2 {
		return fmt.Errorf("population chart needs at least 2 samples, got %d", len(samples))
	}

	times := make([]float64, len(samples))
	pop := make([]float64, len(samples))
	alive := make([]float64, len(samples))
	decaying := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		pop[i] = float64(s.Population)
		alive[i] = float64(s.Alive)
		decaying[i] = float64(s.Decaying)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "t (s)",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "particles",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "population",
				XValues: times,
				YValues: pop,
				Style:   chart.Style{StrokeColor: populationColor, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "alive",
				XValues: times,
				YValues: alive,
				Style:   chart.Style{StrokeColor: aliveColor, StrokeWidth: 1.5},
			},
			chart.ContinuousSeries{
				Name:    "decaying",
				XValues: times,
				YValues: decaying,
				Style:   chart.Style{StrokeColor: decayingColor, StrokeWidth: 1.5},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
