package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/sim"
)

var presetInfo = map[string]string{
	"reference": "single puff, still fluid",
	"puff":      "puff with a push",
	"jet":       "steady jet from the left",
	"cross":     "two crossing jets",
	"smoke":     "rising plume",
}

type screen int

const (
	screenPresets screen = iota
	screenParams
	screenLive
)

// tunable is one editable config value. Integer values are truncated on set.
type tunable struct {
	name string
	step float64
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
}

var tunables = []tunable{
	{"grid", 10,
		func(c *config.Config) float64 { return float64(c.Grid.N) },
		func(c *config.Config, v float64) { c.Grid.N = int(v) }},
	{"viscosity", 0.0001,
		func(c *config.Config) float64 { return c.Fluid.Viscosity },
		func(c *config.Config, v float64) { c.Fluid.Viscosity = v }},
	{"diffusion", 0.0001,
		func(c *config.Config) float64 { return c.Fluid.Diffusion },
		func(c *config.Config, v float64) { c.Fluid.Diffusion = v }},
	{"density", 100,
		func(c *config.Config) float64 { return c.Injection.Density },
		func(c *config.Config, v float64) { c.Injection.Density = v }},
	{"velocity", 100,
		func(c *config.Config) float64 { return c.Injection.Velocity },
		func(c *config.Config, v float64) { c.Injection.Velocity = v }},
	{"radius", 1,
		func(c *config.Config) float64 { return float64(c.Injection.Radius) },
		func(c *config.Config, v float64) { c.Injection.Radius = int(v) }},
}

// launcher picks a preset, lets the user tune it, then hands over to the
// live Model.
type launcher struct {
	screen  screen
	presets []string
	cursor  int
	cfg     *config.Config
	field   int
	input   *strings.Builder
	err     error
	live    Model
}

func newLauncher() launcher {
	return launcher{screen: screenPresets, presets: config.ListPresets()}
}

func (l launcher) Init() tea.Cmd { return nil }

func (l launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.screen == screenLive {
		next, cmd := l.live.Update(msg)
		l.live = next.(Model)
		return l, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	if l.screen == screenPresets {
		return l.onPresetKey(key)
	}
	if l.input != nil {
		return l.onInputKey(key), nil
	}
	return l.onParamKey(key)
}

func (l launcher) onPresetKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		return l, tea.Quit
	case "up", "k":
		l.cursor = max(0, l.cursor-1)
	case "down", "j":
		l.cursor = min(len(l.presets)-1, l.cursor+1)
	case "enter", " ":
		l.cfg = config.GetPreset(l.presets[l.cursor])
		l.screen, l.field, l.err = screenParams, 0, nil
	}
	return l, nil
}

func (l launcher) onParamKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := tunables[l.field]
	switch key.String() {
	case "q", "esc":
		l.screen = screenPresets
	case "up", "k":
		l.field = max(0, l.field-1)
	case "down", "j":
		l.field = min(len(tunables)-1, l.field+1)
	case "left", "h":
		t.set(l.cfg, max(0, t.get(l.cfg)-t.step))
	case "right", "l":
		t.set(l.cfg, t.get(l.cfg)+t.step)
	case "enter", " ":
		l.input = &strings.Builder{}
		l.input.WriteString(strconv.FormatFloat(t.get(l.cfg), 'g', -1, 64))
	case "s":
		return l.launch()
	}
	return l, nil
}

func (l launcher) onInputKey(key tea.KeyMsg) launcher {
	switch key.Type {
	case tea.KeyEnter:
		if v, err := strconv.ParseFloat(l.input.String(), 64); err == nil && v >= 0 {
			tunables[l.field].set(l.cfg, v)
		}
		l.input = nil
	case tea.KeyEsc:
		l.input = nil
	case tea.KeyBackspace:
		s := l.input.String()
		if s != "" {
			l.input.Reset()
			l.input.WriteString(s[:len(s)-1])
		}
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if strings.ContainsRune("0123456789.e-", r) {
				l.input.WriteRune(r)
			}
		}
	}
	return l
}

func (l launcher) launch() (tea.Model, tea.Cmd) {
	if err := l.cfg.Validate(); err != nil {
		l.err = err
		return l, nil
	}
	s, err := sim.New(l.cfg.Params())
	if err != nil {
		l.err = err
		return l, nil
	}
	l.live = NewModel(s, l.cfg.Preset, l.cfg.Emitters)
	l.screen = screenLive
	return l, l.live.Init()
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pointerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func header(title, sub string) string {
	return "\n\n    " + titleStyle.Render(title) +
		"\n    " + subStyle.Render(sub) +
		"\n    " + subStyle.Render(strings.Repeat("─", 25)) + "\n\n"
}

// menuLine renders one selectable row; the selected row gets a pointer.
func menuLine(selected bool, label, value string) string {
	if selected {
		return fmt.Sprintf("    %s %s  %s\n", pointerStyle.Render("▸"), selectedStyle.Render(label), descStyle.Render(value))
	}
	return fmt.Sprintf("      %s  %s\n", idleStyle.Render(label), idleDescStyle.Render(value))
}

func (l launcher) View() string {
	switch l.screen {
	case screenPresets:
		var b strings.Builder
		b.WriteString(header("FLUIDSIM", "stable fluids in the terminal"))
		for i, name := range l.presets {
			b.WriteString(menuLine(i == l.cursor, fmt.Sprintf("%-12s", name), presetInfo[name]))
		}
		b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
		return b.String()

	case screenParams:
		var b strings.Builder
		b.WriteString(header(strings.ToUpper(l.cfg.Preset), presetInfo[l.cfg.Preset]))
		for i, t := range tunables {
			val := fmt.Sprintf("%10g", t.get(l.cfg))
			if l.input != nil && i == l.field {
				val = fmt.Sprintf("%10s", l.input.String()+"_")
			}
			b.WriteString(menuLine(i == l.field, fmt.Sprintf("%-10s", t.name), val))
		}
		if l.err != nil {
			b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(l.err.Error()) + "\n")
		}
		b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "enter", "type", "s", "start", "esc", "back") + "\n")
		return b.String()

	default:
		return l.live.View()
	}
}

func RunInteractive() error {
	_, err := tea.NewProgram(newLauncher(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
