package viz

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/experiment"
)

var presetInfo = map[string]string{
	"classic": "five heavy roots in a 1.5 T field",
	"dense":   "a crowded chamber with steady background",
	"vertex":  "every track leaves one collision point",
	"aurora":  "perlin-clustered sprays in a weak field",
	"calm":    "few slow, strongly damped tracks",
	"steady":  "spawn rate governed toward thirty particles",
}

type presetItem struct {
	name string
}

func (i presetItem) Title() string { return i.name }
func (i presetItem) Description() string {
	if d, ok := presetInfo[i.name]; ok {
		return d
	}
	return "custom preset"
}
func (i presetItem) FilterValue() string { return i.name }

// App starts on a preset picker and switches to the live view once a
// preset is chosen.
type App struct {
	list   list.Model
	live   *Model
	seed   int64
	err    error
	width  int
	height int
}

// NewInteractiveApp lists every preset; seed 0 picks a fresh seed per run.
func NewInteractiveApp(seed int64) *App {
	names := config.ListPresets()
	items := make([]list.Item, len(names))
	for i, n := range names {
		items[i] = presetItem{name: n}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(CurrentTheme.Primary).
		BorderLeftForeground(CurrentTheme.Secondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(CurrentTheme.Muted).
		BorderLeftForeground(CurrentTheme.Secondary)

	l := list.New(items, delegate, defaultWidth, 20)
	l.Title = "bubblechamber"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)

	return &App{list: l, seed: seed}
}

func (a *App) Init() tea.Cmd { return tea.SetWindowTitle("bubblechamber") }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.live != nil {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
			a.live = nil
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		lm := next.(Model)
		a.live = &lm
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.list.SetSize(msg.Width, msg.Height-2)
	case tea.KeyMsg:
		if a.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "enter":
			item, ok := a.list.SelectedItem().(presetItem)
			if !ok {
				return a, nil
			}
			return a, a.start(item.name)
		}
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a *App) start(name string) tea.Cmd {
	cfg := config.GetPreset(name)
	cfg.Seed = a.seed
	exp, err := experiment.Build(cfg)
	if err != nil {
		a.err = err
		return nil
	}
	a.err = nil
	live := NewModel(exp, name)
	a.live = &live

	cmds := []tea.Cmd{live.Init()}
	if a.width > 0 {
		size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}
	return tea.Batch(cmds...)
}

func (a *App) View() string {
	if a.live != nil {
		return a.live.View()
	}
	view := a.list.View()
	if a.err != nil {
		view += "\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(fmt.Sprintf("error: %v", a.err))
	}
	return view
}
