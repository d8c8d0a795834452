package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/sim"
	"github.com/san-kum/bubblechamber/internal/viz"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	tps          = 60
	maxTelemetry = 400
)

var (
	ColBg      = color.NRGBA{5, 5, 5, 255}
	ColTextDim = color.NRGBA{60, 60, 60, 255}
	ColGraph   = color.NRGBA{180, 180, 180, 255}
)

// App is the window host. ebiten calls Update and Draw on one goroutine,
// so the engine is only stepped in Update and only read in Draw.
type App struct {
	exp     *experiment.Experiment
	title   string
	camera  *viz.Camera
	running bool
	showHUD bool
	speed   float64
	totals  sim.StepStats

	telemetry []float64

	dragging     bool
	prevX, prevY int
}

func NewApp(exp *experiment.Experiment, title string) *App {
	extent := exp.Config.Generator.Spread * 2
	if extent <= 0 {
		extent = 200
	}
	return &App{
		exp:       exp,
		title:     title,
		camera:    viz.NewCamera(extent, tps),
		running:   true,
		showHUD:   true,
		speed:     1,
		telemetry: make([]float64, 0, maxTelemetry),
	}
}

// Run opens the window and blocks until it is closed.
func Run(exp *experiment.Experiment, title string) error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("bubblechamber :: " + title)
	ebiten.SetTPS(tps)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(NewApp(exp, title))
}

func (a *App) Update() error {
	if err := a.handleInput(); err != nil {
		return err
	}

	if a.running {
		e := a.exp.Engine
		a.totals.Add(a.exp.Step(a.exp.Config.Dt * a.speed))
		if len(a.telemetry) >= maxTelemetry {
			copy(a.telemetry, a.telemetry[1:])
			a.telemetry = a.telemetry[:len(a.telemetry)-1]
		}
		a.telemetry = append(a.telemetry, float64(e.Len()))
	}
	a.camera.Update()
	return nil
}

func (a *App) handleInput() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.running = !a.running
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.exp.Reset()
		a.totals = sim.StepStats{}
		a.telemetry = a.telemetry[:0]
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.showHUD = !a.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
		a.speed = min(8, a.speed*2)
	case inpututil.IsKeyJustPressed(ebiten.KeyComma):
		a.speed = max(0.125, a.speed/2)
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		a.camera.Home()
	}

	_, wheelY := ebiten.Wheel()
	if wheelY > 0 {
		a.camera.ZoomIn()
	} else if wheelY < 0 {
		a.camera.ZoomOut()
	}

	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if a.dragging {
			a.camera.RotateY(float64(mx-a.prevX) * 0.005)
			a.camera.RotateX(float64(my-a.prevY) * 0.005)
		}
		a.dragging = true
	} else {
		a.dragging = false
	}
	a.prevX, a.prevY = mx, my
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ColBg)
	a.drawTrails(screen)
	if a.showHUD {
		a.drawHUD(screen)
		a.drawTelemetry(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (a *App) drawHUD(screen *ebiten.Image) {
	e := a.exp.Engine
	alive, decaying := e.Counts()
	status := "RUNNING"
	if !a.running {
		status = "PAUSED"
	}
	hud := fmt.Sprintf("bubblechamber :: %s  [%s]\n"+
		"t=%.2fs  particles=%d  alive=%d  decaying=%d\n"+
		"splits=%d  spawned=%d  removed=%d  speed=%.3gx  zoom=%.2f\n"+
		"%.0f TPS",
		a.title, status,
		e.Time(), e.Len(), alive, decaying,
		a.totals.Split, a.totals.Spawned, a.totals.Removed, a.speed, a.camera.Zoom(),
		ebiten.ActualTPS())
	if gov := a.exp.Governor; gov != nil {
		hud += fmt.Sprintf("\ngoverned spawn %.2f/s toward %g", gov.Rate(), gov.PID.Target)
	}
	ebitenutil.DebugPrintAt(screen, hud, 16, 12)

	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, "[SPACE] pause  [R] reset  [,/.] speed  [wheel] zoom  [drag] rotate  [0] home  [H] hud  [Q] quit", 16, h-24)
}
