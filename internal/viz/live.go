package viz

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubblechamber/internal/experiment"
	"github.com/san-kum/bubblechamber/internal/sim"
)

const (
	fps             = 60
	defaultWidth    = 80
	defaultHeight   = 24
	panelWidth      = 48
	historyCapacity = 600
	maxGIFFrames    = 900
	rotateStep      = 0.15
	gifPath         = "bubblechamber.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live terminal view of one experiment. It steps the engine
// on every tick, so engine access stays on bubbletea's update goroutine.
type Model struct {
	exp    *experiment.Experiment
	title  string
	dt     float64
	speed  float64
	totals sim.StepStats

	running   bool
	showHelp  bool
	showBox   bool
	recording bool
	frames    []*image.Paletted
	notice    string

	width, height int
	canvas        *Canvas
	camera        *Camera
	box           *Wireframe

	popHistory    []float64
	energyHistory []float64

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

func NewModel(exp *experiment.Experiment, title string) Model {
	extent := exp.Config.Generator.Spread * 2
	if extent <= 0 {
		extent = 200
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		exp:           exp,
		title:         title,
		dt:            exp.Config.Dt,
		speed:         1,
		running:       true,
		showBox:       true,
		width:         defaultWidth,
		height:        defaultHeight,
		canvas:        NewCanvas(defaultWidth, defaultHeight),
		camera:        NewCamera(extent, fps),
		box:           ChamberBox(exp.Config.Generator.Spread, colorful.Color{}),
		popHistory:    make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		keys:          defaultKeys(),
		help:          help.New(),
		spinner:       sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(20, msg.Width-panelWidth-4)
		m.height = max(10, msg.Height-4)
		m.canvas = NewCanvas(m.width, m.height)
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.running {
			m.step()
		}
		m.camera.Update()
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	shift := msg.String() != strings.ToLower(msg.String())
	dir := 1.0
	if shift {
		dir = -1
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.running = !m.running
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Faster):
		m.speed = min(8, m.speed*2)
	case key.Matches(msg, m.keys.Slower):
		m.speed = max(0.125, m.speed/2)
	case key.Matches(msg, m.keys.ZoomIn):
		m.camera.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.camera.ZoomOut()
	case key.Matches(msg, m.keys.RotX):
		m.camera.RotateX(dir * rotateStep)
	case key.Matches(msg, m.keys.RotY):
		m.camera.RotateY(dir * rotateStep)
	case key.Matches(msg, m.keys.RotZ):
		m.camera.RotateZ(dir * rotateStep)
	case key.Matches(msg, m.keys.Home):
		m.camera.Home()
	case key.Matches(msg, m.keys.Theme):
		NextTheme()
	case key.Matches(msg, m.keys.Box):
		m.showBox = !m.showBox
	case key.Matches(msg, m.keys.Record):
		m.toggleRecording()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m *Model) step() {
	e := m.exp.Engine
	m.totals.Add(m.exp.Step(m.dt * m.speed))
	m.popHistory = pushBounded(m.popHistory, float64(e.Len()))
	m.energyHistory = pushBounded(m.energyHistory, e.Chamber().Energy(e.Particles()))
}

func pushBounded(s []float64, v float64) []float64 {
	if len(s) >= historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m *Model) reset() {
	m.exp.Reset()
	m.totals = sim.StepStats{}
	m.popHistory = m.popHistory[:0]
	m.energyHistory = m.energyHistory[:0]
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.showBox {
		frame, _ := colorful.Hex(string(CurrentTheme.Frame))
		for i := range m.box.Edges {
			m.box.Edges[i].Color = frame
		}
		RenderWireframe(m.canvas, m.box, m.camera)
	}
	RenderTrails(m.canvas, m.exp.Engine.Particles(), m.camera)
}

func (m Model) View() string {
	st := themeStyles(CurrentTheme)
	e := m.exp.Engine

	var s strings.Builder
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")

	status := st.running.Render(m.spinner.View() + " RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + st.recording.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	alive, decaying := e.Counts()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", e.Time()))
	row("Particles", fmt.Sprintf("%d", e.Len()))
	row("Alive", fmt.Sprintf("%d", alive))
	row("Decaying", fmt.Sprintf("%d", decaying))
	row("Splits", fmt.Sprintf("%d", m.totals.Split))
	row("Spawned", fmt.Sprintf("%d", m.totals.Spawned))
	row("Removed", fmt.Sprintf("%d", m.totals.Removed))
	if gov := m.exp.Governor; gov != nil {
		row("Spawn", fmt.Sprintf("%.2f/s -> %g", gov.Rate(), gov.PID.Target))
	}
	row("Speed", fmt.Sprintf("%.3gx", m.speed))
	row("Zoom", fmt.Sprintf("%.2f", m.camera.Zoom()))
	row("Theme", CurrentTheme.Name)

	if limit := m.exp.Config.Generator.MaxPopulation; limit > 0 {
		s.WriteString(st.label.Render("Capacity") + st.ProgressBar(float64(e.Len())/float64(limit), 20) + "\n")
	}

	if len(m.popHistory) > 1 {
		chart := asciigraph.Plot(m.popHistory, asciigraph.Height(6), asciigraph.Width(34), asciigraph.Caption("Population"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.label.Render("Energy") + st.Sparkline(m.energyHistory, 28) + "\n")

	if m.notice != "" {
		s.WriteString("\n" + st.subtle.Render(m.notice) + "\n")
	}
	s.WriteString("\n" + st.Separator(40) + "\n")

	panel := st.panel.Render(s.String())
	canvasView := st.canvasFrame.Render(m.canvas.Render())
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)
	return main + "\n" + m.help.View(m.keys)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0, maxGIFFrames)
		m.notice = ""
		return
	}
	m.recording = false
	if err := m.saveGIF(gifPath); err != nil {
		m.notice = "gif: " + err.Error()
	} else {
		m.notice = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	}
	m.frames = nil
}

// captureFrame rasterizes the braille canvas, one 4x4 block per dot.
func (m *Model) captureFrame() {
	if len(m.frames) >= maxGIFFrames {
		return
	}
	const dot = 4
	sw, sh := m.canvas.SubWidth(), m.canvas.SubHeight()
	img := image.NewPaletted(image.Rect(0, 0, sw*dot, sh*dot), palette.Plan9)
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !m.canvas.Lit(x, y) {
				continue
			}
			clr := m.canvas.Colors[y/4][x/2].Clamped()
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.Set(x*dot+px, y*dot+py, clr)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/fps+1)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
