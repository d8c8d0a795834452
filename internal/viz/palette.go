package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const trailSaturation = 0.66

// ChargeHue maps a charge to a hue in [0, 1): charge/20 + 0.5, wrapped.
func ChargeHue(charge int) float64 {
	h := math.Mod(float64(charge)/20+0.5, 1)
	if h < 0 {
		h++
	}
	return h
}

// TrailColor is the color of point i of an n-point trail. Brightness is
// i/n, so the oldest point is black and the head is brightest.
func TrailColor(charge, i, n int) colorful.Color {
	if n <= 0 {
		return colorful.Color{}
	}
	return colorful.Hsv(ChargeHue(charge)*360, trailSaturation, float64(i)/float64(n))
}

// Fade is the alpha matching TrailColor's brightness.
func Fade(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i) / float64(n)
}

func toLipgloss(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

// GradientText colors text with a Lab blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return lipgloss.NewStyle().Foreground(start).Render(text)
	}

	var out []byte
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		st := lipgloss.NewStyle().Foreground(toLipgloss(a.BlendLab(b, t)))
		out = append(out, st.Render(string(r))...)
	}
	return string(out)
}
