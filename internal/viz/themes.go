package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// shadeLevels is the number of colour steps used for density.
const shadeLevels = 8

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Fluid      lipgloss.Color
	Background lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:       "ocean",
		Fluid:      lipgloss.Color("#00a8ff"),
		Background: lipgloss.Color("#001a33"),
		Accent:     lipgloss.Color("#ffd700"),
		Muted:      lipgloss.Color("#4488aa"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Fluid:      lipgloss.Color("#00ff00"),
		Background: lipgloss.Color("#001100"),
		Accent:     lipgloss.Color("#88ff88"),
		Muted:      lipgloss.Color("#005500"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Fluid:      lipgloss.Color("#ff9f43"),
		Background: lipgloss.Color("#2d1b2e"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Muted:      lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{
		ThemeOcean,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// shadeStyles blends Background to Fluid in shadeLevels steps.
func (t Theme) shadeStyles() []lipgloss.Style {
	from, to := themeColor(t.Background), themeColor(t.Fluid)

	styles := make([]lipgloss.Style, shadeLevels)
	for i := range styles {
		f := float64(i) / float64(shadeLevels-1)
		c := from.BlendRgb(to, f).Clamped()
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return styles
}

// themeColor parses a "#rrggbb" colour; anything else reads as white.
func themeColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return col
}
