package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette of the landing scene.
type Theme struct {
	Name     string
	Ink      lipgloss.Color // settled letter text
	Flap     lipgloss.Color // glyphs still flipping
	Paper    lipgloss.Color // letter background
	Border   lipgloss.Color
	Accent   lipgloss.Color
	Glow     lipgloss.Color
	Muted    lipgloss.Color
	Backdrop lipgloss.Color
}

var (
	ThemeMidnight = Theme{
		Name:     "midnight",
		Ink:      lipgloss.Color("#f2f4ff"),
		Flap:     lipgloss.Color("#7f8cff"),
		Paper:    lipgloss.Color("#12142a"),
		Border:   lipgloss.Color("#444466"),
		Accent:   lipgloss.Color("#9fb4ff"),
		Glow:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666688"),
		Backdrop: lipgloss.Color("#2a2f55"),
	}

	ThemePaper = Theme{
		Name:     "paper",
		Ink:      lipgloss.Color("#1d1b16"),
		Flap:     lipgloss.Color("#a0522d"),
		Paper:    lipgloss.Color("#f6f0e1"),
		Border:   lipgloss.Color("#b8a988"),
		Accent:   lipgloss.Color("#6b4f2a"),
		Glow:     lipgloss.Color("#ffd27f"),
		Muted:    lipgloss.Color("#8a7f6a"),
		Backdrop: lipgloss.Color("#d9ceb4"),
	}

	ThemeEmber = Theme{
		Name:     "ember",
		Ink:      lipgloss.Color("#fff5f5"),
		Flap:     lipgloss.Color("#ff6b6b"),
		Paper:    lipgloss.Color("#2d1b2e"),
		Border:   lipgloss.Color("#8b6b8c"),
		Accent:   lipgloss.Color("#feca57"),
		Glow:     lipgloss.Color("#ff9ff3"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Backdrop: lipgloss.Color("#4a2a3a"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Ink:      lipgloss.Color("#00ff00"),
		Flap:     lipgloss.Color("#00aa00"),
		Paper:    lipgloss.Color("#001100"),
		Border:   lipgloss.Color("#005500"),
		Accent:   lipgloss.Color("#88ff88"),
		Glow:     lipgloss.Color("#ccffcc"),
		Muted:    lipgloss.Color("#005500"),
		Backdrop: lipgloss.Color("#003300"),
	}

	Themes = []Theme{
		ThemeMidnight,
		ThemePaper,
		ThemeEmber,
		ThemeRetro,
	}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
