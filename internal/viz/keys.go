package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause   key.Binding
	Reset   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	RotX    key.Binding
	RotY    key.Binding
	RotZ    key.Binding
	Home    key.Binding
	Theme   key.Binding
	Record  key.Binding
	Box     key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Faster:  key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "faster")),
		Slower:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "slower")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		RotX:    key.NewBinding(key.WithKeys("x", "X"), key.WithHelp("x/X", "tilt")),
		RotY:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y/Y", "turn")),
		RotZ:    key.NewBinding(key.WithKeys("z", "Z"), key.WithHelp("z/Z", "roll")),
		Home:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "home view")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Record:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "record gif")),
		Box:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "chamber box")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.ZoomIn, k.ZoomOut, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Faster, k.Slower},
		{k.ZoomIn, k.ZoomOut, k.RotX, k.RotY, k.RotZ, k.Home},
		{k.Theme, k.Box, k.Record, k.Help, k.Quit},
	}
}
