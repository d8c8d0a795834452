package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/storage"
	"github.com/san-kum/bubblechamber/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG, one dot per lit sub-pixel
// in its cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dotRadius := scale * 0.4

	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			col := canvas.Colors[y/4][x/2].Clamped().Hex()
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, col)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// View projects a 3-D point onto the SVG plane. TopDown drops z.
type View func(p dynamo.Vec3) (x, y float64)

func TopDown(p dynamo.Vec3) (float64, float64) { return p.X, p.Y }

// CameraView looks through cam's current rotation, orthographically.
func CameraView(cam *viz.Camera) View {
	return func(p dynamo.Vec3) (float64, float64) {
		r := cam.RotatePoint(p)
		return r.X, r.Y
	}
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func trailBounds(trails []storage.Trail, view View) (bounds, bool) {
	var b bounds
	found := false
	for _, tr := range trails {
		for _, pt := range tr.Points {
			x, y := view(dynamo.V3(pt))
			if !found {
				b = bounds{x, x, y, y}
				found = true
				continue
			}
			if x < b.minX {
				b.minX = x
			}
			if x > b.maxX {
				b.maxX = x
			}
			if y < b.minY {
				b.minY = y
			}
			if y > b.maxY {
				b.maxY = y
			}
		}
	}
	return b, found
}

// padded widens b by 10% per side and keeps the aspect ratio square so
// circular tracks stay circular.
func (b bounds) padded() bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	r := rangeX
	if rangeY > r {
		r = rangeY
	}
	if r == 0 {
		r = 1
	}
	cx := (b.minX + b.maxX) / 2
	cy := (b.minY + b.maxY) / 2
	half := r * 0.6
	return bounds{cx - half, cx + half, cy - half, cy + half}
}

// TrailsToSVG renders stored trails as line segments. Each segment takes
// the trail's palette color and fade, so heads are bright and tails dim;
// stroke width is the particle's mass.
func TrailsToSVG(trails []storage.Trail, width, height int, view View) string {
	if view == nil {
		view = TopDown
	}
	b, ok := trailBounds(trails, view)
	if !ok {
		return ""
	}
	b = b.padded()
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	toScreen := func(pt [3]float64) (float64, float64) {
		x, y := view(dynamo.V3(pt))
		sx := (x - b.minX) / rangeX * float64(width)
		sy := float64(height) - (y-b.minY)/rangeY*float64(height)
		return sx, sy
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke-linecap="round">
`, width, height, width, height, background)

	for _, tr := range trails {
		n := len(tr.Points)
		for j := 0; j+1 < n; j++ {
			x1, y1 := toScreen(tr.Points[j])
			x2, y2 := toScreen(tr.Points[j+1])
			col := viz.TrailColor(tr.Charge, j+1, n).Clamped().Hex()
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%d"/>
`, x1, y1, x2, y2, col, viz.Fade(j+1, n), tr.Mass)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
