package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/particle"
)

func TestChargeHue(t *testing.T) {
	tests := []struct {
		charge int
		want   float64
	}{
		{0, 0.5},
		{2, 0.6},
		{10, 0},
		{-12, 0.9},
		{-5, 0.25},
	}
	for _, tt := range tests {
		if got := ChargeHue(tt.charge); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ChargeHue(%d) = %v, want %v", tt.charge, got, tt.want)
		}
	}
}

func TestTrailColorFades(t *testing.T) {
	n := 10
	prev := -1.0
	for i := 0; i <= n; i++ {
		h, s, v := TrailColor(3, i, n).Hsv()
		if v < prev {
			t.Errorf("brightness drops at point %d", i)
		}
		prev = v
		if i > 0 && (math.Abs(s-trailSaturation) > 1e-6 || math.Abs(h-ChargeHue(3)*360) > 1e-6) {
			t.Errorf("point %d: hue %v sat %v", i, h, s)
		}
	}
	if math.Abs(prev-1) > 1e-9 {
		t.Errorf("head brightness %v, want 1", prev)
	}
	if (TrailColor(1, 0, 0) != colorful.Color{}) {
		t.Error("empty trail should be black")
	}
}

func TestCanvasSetAndRender(t *testing.T) {
	c := NewCanvas(4, 2)
	dim := colorful.Hsv(0, 1, 0.2)
	bright := colorful.Hsv(120, 1, 0.9)

	c.Set(0, 0, dim)
	c.Set(1, 3, bright)
	c.Set(-1, 0, bright)
	c.Set(100, 100, bright)

	if !c.Lit(0, 0) || !c.Lit(1, 3) || c.Lit(1, 0) {
		t.Error("wrong dots lit")
	}
	if c.Grid[0][0] != rune(brailleBlank|0x1|0x80) {
		t.Errorf("cell rune %U", c.Grid[0][0])
	}
	if c.Colors[0][0] != bright {
		t.Error("brightest color should win the cell")
	}

	plain := c.String()
	if strings.Count(plain, "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", plain)
	}
	if !strings.ContainsRune(c.Render(), c.Grid[0][0]) {
		t.Error("rendered canvas lost the lit cell")
	}

	c.Clear()
	if c.Lit(0, 0) || (c.Colors[0][0] != colorful.Color{}) {
		t.Error("Clear left state behind")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	col := colorful.Hsv(0, 0, 1)
	c.DrawLine(0, 0, 19, 0, col)
	for x := 0; x < 20; x++ {
		if !c.Lit(x, 0) {
			t.Fatalf("dot %d not lit", x)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(100, 60)

	x, y, _, ok := cam.Project(dynamo.Vec3{}, 160, 96)
	if !ok || x != 80 || y != 48 {
		t.Errorf("origin projects to (%d,%d,%v)", x, y, ok)
	}

	x, y, _, ok = cam.Project(dynamo.Vec3{X: 100}, 160, 96)
	if !ok || x != 128 || y != 48 {
		t.Errorf("extent projects to (%d,%d,%v)", x, y, ok)
	}

	x, y, _, _ = cam.Project(dynamo.Vec3{Y: 50}, 160, 96)
	if x != 80 || y != 24 {
		t.Errorf("+y should go up, got (%d,%d)", x, y)
	}

	if cam.InFront(dynamo.Vec3{Z: 1000}) {
		t.Error("point behind the eye reported in front")
	}
}

func TestCameraSpringSettles(t *testing.T) {
	cam := NewCamera(100, 60)
	cam.ZoomIn()
	cam.RotateZ(0.5)

	cam.Update()
	if cam.Zoom() == 1 || cam.Zoom() >= 1.2 {
		t.Errorf("zoom should move part way, got %v", cam.Zoom())
	}

	for i := 0; i < 600; i++ {
		cam.Update()
	}
	if math.Abs(cam.Zoom()-1.2) > 1e-3 || math.Abs(cam.Rotation()[2]-0.5) > 1e-3 {
		t.Errorf("camera did not settle: zoom %v rot %v", cam.Zoom(), cam.Rotation())
	}

	cam.Home()
	cam.Snap()
	if cam.Zoom() != 1 || cam.Rotation() != [3]float64{} {
		t.Error("Home+Snap did not restore the view")
	}
}

func TestRenderTrails(t *testing.T) {
	p := particle.New(dynamo.Vec3{}, dynamo.Vec3{}, 4, 1, 0, 1)
	p.Path.PushBack(dynamo.Vec3{X: 50})

	c := NewCanvas(40, 20)
	cam := NewCamera(100, 60)
	RenderTrails(c, []particle.Particle{p}, cam)

	x0, y0, _, _ := cam.Project(dynamo.Vec3{}, c.SubWidth(), c.SubHeight())
	x1, y1, _, _ := cam.Project(dynamo.Vec3{X: 50}, c.SubWidth(), c.SubHeight())
	if !c.Lit(x0, y0) || !c.Lit(x1, y1) {
		t.Error("trail endpoints not drawn")
	}
	if !c.Lit((x0+x1)/2, y0) {
		t.Error("trail segment not drawn")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty text should stay empty")
	}
	if !strings.Contains(GradientText("ab", "nope", "#ffffff"), "ab") {
		t.Error("bad colors should fall back to plain styling")
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme(ThemeFilm.Name)
	seen := map[string]bool{}
	for range Themes {
		seen[CurrentTheme.Name] = true
		NextTheme()
	}
	if len(seen) != len(Themes) || CurrentTheme.Name != ThemeFilm.Name {
		t.Errorf("cycled through %v, ended on %s", seen, CurrentTheme.Name)
	}
	if GetTheme("missing").Name != ThemeFilm.Name {
		t.Error("unknown theme should fall back to film")
	}
}

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 1
	exp, err := experiment.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(exp, "classic")
}

func TestModelTickSteps(t *testing.T) {
	m := testModel(t)

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.exp.Engine.Steps() != 1 {
		t.Errorf("engine stepped %d times", m.exp.Engine.Steps())
	}
	if len(m.popHistory) != 1 {
		t.Errorf("history length %d", len(m.popHistory))
	}
	if !strings.Contains(m.View(), "Particles") {
		t.Error("view missing stats panel")
	}
}

func TestModelPauseAndReset(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if m.running {
		t.Fatal("space should pause")
	}
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.exp.Engine.Steps() != 0 {
		t.Error("paused model stepped the engine")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}

	m.running = true
	for i := 0; i < 5; i++ {
		next, _ = m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if m.exp.Engine.Time() != 0 || len(m.popHistory) != 0 {
		t.Error("reset did not rewind the chamber")
	}
}

func TestModelResize(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 150, Height: 50})
	m = next.(Model)
	if m.canvas.Width != 150-panelWidth-4 || m.canvas.Height != 46 {
		t.Errorf("canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
}
