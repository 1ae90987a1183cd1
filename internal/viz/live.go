package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/render"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	canvasCols      = 64
	canvasRows      = 32
	historyCapacity = 600
	arrowGrid       = 16
	gifPath         = "fluidsim.gif"
	gifScale        = 3

	// Terminal cell of the canvas's top-left character, set by canvasStyle.
	originX = 2
	originY = 1
)

// fallbackMaxDt bounds frame time when the parameters leave it unbounded.
const fallbackMaxDt = 0.1

type viewMode int

const (
	viewDensity viewMode = iota
	viewVelocity
)

type TickMsg time.Time

// Model drives one simulator from the Bubble Tea event loop.
type Model struct {
	sim              *sim.Simulator
	preset           string
	emitters         []sim.Emitter
	cols, rows       int
	canvas           *Canvas
	theme            Theme
	shades           []lipgloss.Style
	cursorX, cursorY int
	running          bool
	view             viewMode
	lastTick         time.Time
	last             sim.FrameStats
	massHistory      []float64
	energyHistory    []float64
	recorder         *export.GIFRecorder
	recording        bool
	status           string
	showHelp         bool
	err              error
}

func NewModel(s *sim.Simulator, preset string, emitters []sim.Emitter) Model {
	n := s.Params().N
	theme := Themes[0]
	return Model{
		sim:           s,
		preset:        preset,
		emitters:      emitters,
		cols:          canvasCols,
		rows:          canvasRows,
		canvas:        NewCanvas(canvasCols, canvasRows),
		theme:         theme,
		shades:        theme.shadeStyles(),
		cursorX:       (n + 1) / 2,
		cursorY:       (n + 1) / 2,
		running:       true,
		massHistory:   make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		recorder:      export.NewGIFRecorder(gifScale, 2, render.Classic),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := m.sim.Params().N
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.lastTick = time.Time{}
		case "r":
			m.reset()
		case "tab":
			m.view = (m.view + 1) % 2
		case "t":
			m.theme = NextTheme(m.theme)
			m.shades = m.theme.shadeStyles()
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.recorder.Reset()
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		case "up", "k":
			m.cursorY = max(1, m.cursorY-1)
		case "down", "j":
			m.cursorY = min(n, m.cursorY+1)
		case "left", "h":
			m.cursorX = max(1, m.cursorX-1)
		case "right", "l":
			m.cursorX = min(n, m.cursorX+1)
		case "d":
			m.sim.Apply(sim.PointerEvent{X: m.cursorX, Y: m.cursorY, Density: true})
		case "v":
			m.sim.Apply(sim.PointerEvent{X: m.cursorX, Y: m.cursorY, Velocity: true})
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress && msg.Action != tea.MouseActionMotion {
			break
		}
		gx, gy, ok := m.gridAt(msg.X, msg.Y)
		if !ok {
			break
		}
		m.cursorX, m.cursorY = gx, gy
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.sim.Apply(sim.PointerEvent{X: gx, Y: gy, Density: true})
		case tea.MouseButtonRight:
			m.sim.Apply(sim.PointerEvent{X: gx, Y: gy, Velocity: true})
		}
	case TickMsg:
		now := time.Time(msg)
		if m.running {
			dt := 1.0 / 60
			if !m.lastTick.IsZero() {
				limit := m.sim.Params().MaxDt
				if limit <= 0 {
					limit = fallbackMaxDt
				}
				dt = sim.ClampDt(now.Sub(m.lastTick).Seconds(), limit)
			}
			if dt > 0 {
				m.step(dt)
			}
			m.lastTick = now
		}
		return m, tick()
	}
	return m, nil
}

// step fires the active emitters and advances the fluid by dt.
func (m *Model) step(dt float64) {
	for _, e := range m.emitters {
		if e.Active(m.sim.Frame()) {
			m.sim.Emit(e)
		}
	}
	if err := m.sim.Step(dt); err != nil {
		m.err = err
		m.running = false
		return
	}

	m.last = m.sim.Stats()
	m.massHistory = appendCapped(m.massHistory, m.last.Mass)
	m.energyHistory = appendCapped(m.energyHistory, m.last.KineticEnergy)

	if m.recording {
		m.recorder.Add(m.sim.State().Density)
	}
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) stopRecording() {
	m.recording = false
	if m.recorder.Len() == 0 {
		m.status = ""
		return
	}
	if err := m.recorder.Save(gifPath); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), gifPath)
	}
	m.recorder.Reset()
}

func (m *Model) reset() {
	m.sim.Reset()
	m.last = sim.FrameStats{}
	m.massHistory = m.massHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.lastTick = time.Time{}
	m.err = nil
}

// gridAt maps a terminal cell to the interior grid cell under it.
func (m Model) gridAt(tx, ty int) (int, int, bool) {
	cx, cy := tx-originX, ty-originY
	if cx < 0 || cy < 0 || cx >= m.cols || cy >= m.rows {
		return 0, 0, false
	}
	n := m.sim.Params().N
	return 1 + cx*n/m.cols, 1 + cy*n/m.rows, true
}

// cursorCell maps the cursor to its canvas character.
func (m Model) cursorCell() (int, int) {
	n := m.sim.Params().N
	return (m.cursorX - 1) * m.cols / n, (m.cursorY - 1) * m.rows / n
}

// View renders the TUI interface.
func (m Model) View() string {
	var canvas string
	if m.view == viewVelocity {
		canvas = m.velocityView()
	} else {
		canvas = m.densityView()
	}
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(canvas), statsStyle.Render(m.statsView()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) densityView() string {
	grid := render.Downsample(m.sim.State().Density, m.cols, m.rows)
	cx, cy := m.cursorCell()
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)

	var sb strings.Builder
	for r, row := range grid {
		if r > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		level := -1
		flush := func() {
			if run.Len() > 0 {
				sb.WriteString(m.shades[level].Render(run.String()))
				run.Reset()
			}
		}
		for c, v := range row {
			if r == cy && c == cx {
				flush()
				sb.WriteString(accent.Render("+"))
				continue
			}
			l := int(render.Intensity(v)) * shadeLevels / 256
			if l != level {
				flush()
				level = l
			}
			run.WriteRune(render.Shade(v))
		}
		flush()
	}
	return sb.String()
}

func (m Model) velocityView() string {
	st := m.sim.State()
	n := st.N()
	m.canvas.Clear()

	scale := max(render.MaxAbs(st.U), render.MaxAbs(st.V))
	pw, ph := m.canvas.Size()
	arrow := float64(pw) / arrowGrid
	stride := max(1, n/arrowGrid)

	for y := stride/2 + 1; y <= n; y += stride {
		for x := stride/2 + 1; x <= n; x += stride {
			px, py := (x-1)*pw/n, (y-1)*ph/n
			if scale == 0 {
				m.canvas.Set(px, py)
				continue
			}
			dx := int(st.U.At(x, y) / scale * arrow)
			dy := int(st.V.At(x, y) / scale * arrow)
			m.canvas.DrawLine(px, py, px+dx, py+dy)
		}
	}

	m.canvas.Cross((m.cursorX-1)*pw/n, (m.cursorY-1)*ph/n, 2)

	return lipgloss.NewStyle().Foreground(m.theme.Fluid).Render(m.canvas.String())
}

func (m Model) statsView() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.preset)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusRecording.Render("STOPPED: "+m.err.Error()) + "\n")
	case m.recording:
		s.WriteString(StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Len())) + "\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}
	if m.status != "" {
		s.WriteString(labelStyle.UnsetWidth().Render(m.status) + "\n")
	}

	if len(m.massHistory) > 1 {
		chart := asciigraph.Plot(m.massHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mass"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.sim.Frame()))
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Mass", fmt.Sprintf("%.3f", m.last.Mass))
	row("Peak", fmt.Sprintf("%.3f", m.last.Peak))
	row("Energy", fmt.Sprintf("%.4f", m.last.KineticEnergy))
	row("Div", fmt.Sprintf("%.2e", m.last.MaxDivergence))
	row("Cursor", fmt.Sprintf("%d,%d", m.cursorX, m.cursorY))
	row("Theme", m.theme.Name)
	s.WriteString("\n" + SparklineChart(m.energyHistory, 30) + "\n")

	s.WriteString(helpStyle.Render("─────────────────────\nD:Density V:Velocity SP:Pause\nTab:View R:Reset T:Theme\nG:Record ?:Help Q:Quit"))
	return s.String()
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Arrows   - Move injection cursor    ║
║  D        - Inject density           ║
║  V        - Inject velocity          ║
║  Mouse    - Left: density Right: vel ║
║  Tab      - Density/velocity view    ║
║  Space    - Pause/Resume simulation  ║
║  R        - Reset fluid              ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive opens the live view for s until the user quits.
func RunLive(s *sim.Simulator, preset string, emitters []sim.Emitter) error {
	p := tea.NewProgram(NewModel(s, preset, emitters), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
