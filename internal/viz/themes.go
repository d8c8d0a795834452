package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the UI chrome palette. Trail colors come from the particles'
// charge and are not themed.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	// Frame colors the chamber outline drawn behind the trails.
	Frame lipgloss.Color
}

var (
	ThemeFilm = Theme{
		Name:       "film",
		Primary:    lipgloss.Color("#e8e0d0"),
		Secondary:  lipgloss.Color("#a8c8ff"),
		Accent:     lipgloss.Color("#ffd166"),
		Background: lipgloss.Color("#050505"),
		Text:       lipgloss.Color("#f0f0f0"),
		Muted:      lipgloss.Color("#6b6b6b"),
		Success:    lipgloss.Color("#7bd88f"),
		Warning:    lipgloss.Color("#ffb454"),
		Error:      lipgloss.Color("#ff5f5f"),
		Frame:      lipgloss.Color("#2a2a2a"),
	}

	ThemePhosphor = Theme{
		Name:       "phosphor",
		Primary:    lipgloss.Color("#00ff00"),
		Secondary:  lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Success:    lipgloss.Color("#88ff88"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
		Frame:      lipgloss.Color("#003300"),
	}

	ThemeBlueprint = Theme{
		Name:       "blueprint",
		Primary:    lipgloss.Color("#e0f0ff"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
		Frame:      lipgloss.Color("#1d3b5a"),
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"),
		Secondary:  lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ff8800"),
		Error:      lipgloss.Color("#ff0000"),
		Frame:      lipgloss.Color("#330033"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"),
		Secondary:  lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
		Frame:      lipgloss.Color("#4a2f4b"),
	}

	CurrentTheme = ThemeFilm

	Themes = []Theme{
		ThemeFilm,
		ThemePhosphor,
		ThemeBlueprint,
		ThemeCyberpunk,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to film.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFilm
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
