package gui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/viz"
)

// drawTrails strokes every trail segment with width equal to the
// particle's mass, colored by charge and fading toward the tail.
func (a *App) drawTrails(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	ps := a.exp.Engine.Particles()
	for i := range ps {
		p := &ps[i]
		if p.Path == nil {
			continue
		}
		n := p.Path.Len()
		width := float32(p.Mass)
		var px, py int
		var pv, pf bool
		p.Path.Each(func(j int, v dynamo.Vec3) {
			x, y, _, vis := a.camera.Project(v, sw, sh)
			front := a.camera.InFront(v)
			if j > 0 && front && pf && (vis || pv) {
				vector.StrokeLine(screen, float32(px), float32(py), float32(x), float32(y), width, trailColor(p.Charge, j+1, n), true)
			}
			px, py, pv, pf = x, y, vis, front
		})
	}
}

func trailColor(charge, i, n int) color.Color {
	r, g, b := viz.TrailColor(charge, i, n).Clamped().RGB255()
	return color.NRGBA{r, g, b, uint8(viz.Fade(i, n) * 255)}
}

// drawTelemetry plots the population history as a line strip.
func (a *App) drawTelemetry(screen *ebiten.Image) {
	if len(a.telemetry) < 2 {
		return
	}

	h := float32(screen.Bounds().Dy())
	rectX, rectY := float32(16), h-110
	width, height := float32(400), float32(60)

	lo, hi := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	step := width / float32(maxTelemetry)
	var prevX, prevY float32
	for i, val := range a.telemetry {
		x := rectX + float32(i)*step
		y := rectY + height - float32((val-lo)/(hi-lo))*height
		if i > 0 {
			vector.StrokeLine(screen, prevX, prevY, x, y, 1, ColGraph, true)
		}
		prevX, prevY = x, y
	}
	vector.StrokeLine(screen, rectX, rectY+height, rectX+width, rectY+height, 1, ColTextDim, false)
}
