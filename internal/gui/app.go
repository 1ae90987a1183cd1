package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/render"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Theme Colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColShade   = rl.NewColor(0, 0, 0, 160)
)

const (
	menuWidth  = 640
	menuHeight = 480
	// fallbackMaxDt bounds frame time when the parameters leave it unbounded.
	fallbackMaxDt = 0.1
	maxTelemetry  = 200
)

var paramNames = []string{"grid", "viscosity", "diffusion", "density", "velocity", "radius", "scale"}

var paramSteps = map[string]float64{
	"grid":      10,
	"viscosity": 0.0001,
	"diffusion": 0.0001,
	"density":   100,
	"velocity":  100,
	"radius":    1,
	"scale":     1,
}

type App struct {
	Sim      *sim.Simulator
	Preset   string
	Emitters []sim.Emitter
	Scale    int
	Palette  render.Palette
	Running  bool
	InMenu   bool
	InConfig bool

	Presets   []string
	Selected  int
	Cfg       *config.Config
	Params    map[string]float64
	ParamSel  int
	Telemetry []float64
	Err       error

	pixels  []color.RGBA
	texture rl.Texture2D
	loaded  bool
}

func initWindow(width, height int32) {
	rl.InitWindow(width, height, "fluidsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp creates an App. With a nil simulator it starts in the preset menu.
func NewApp(s *sim.Simulator, preset string, emitters []sim.Emitter, scale int) *App {
	if scale < 1 {
		scale = config.DefaultScale
	}
	app := &App{
		Sim:       s,
		Preset:    preset,
		Emitters:  emitters,
		Scale:     scale,
		Palette:   render.Classic,
		Presets:   config.ListPresets(),
		Params:    make(map[string]float64),
		Telemetry: make([]float64, 0, maxTelemetry),
		InMenu:    s == nil,
		Running:   s != nil,
	}
	if s != nil {
		app.loadTexture()
	}
	return app
}

// Run opens a window sized to the simulator's grid and blocks until it is
// closed.
func Run(s *sim.Simulator, preset string, emitters []sim.Emitter, scale int) error {
	if s == nil {
		return fmt.Errorf("gui: nil simulator")
	}
	side := windowSide(s.Params().N, scale)
	initWindow(side, side)
	defer rl.CloseWindow()
	app := NewApp(s, preset, emitters, scale)
	defer app.unloadTexture()
	app.RunLoop()
	return nil
}

// RunInteractive starts at the preset menu.
func RunInteractive() error {
	initWindow(menuWidth, menuHeight)
	defer rl.CloseWindow()
	app := NewApp(nil, "", nil, config.DefaultScale)
	defer app.unloadTexture()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

func windowSide(n, scale int) int32 {
	if scale < 1 {
		scale = 1
	}
	return int32((n + 2) * scale)
}

// cellAt maps window pixels to a grid cell. ok is false outside the
// interior.
func cellAt(mx, my, scale, n int) (x, y int, ok bool) {
	if scale < 1 || mx < 0 || my < 0 {
		return 0, 0, false
	}
	x, y = mx/scale, my/scale
	if x < 1 || x > n || y < 1 || y > n {
		return 0, 0, false
	}
	return x, y, true
}

// frameDt clamps a raw frame time to the simulator's limit.
func frameDt(frameTime float32, limit float64) float64 {
	if limit <= 0 {
		limit = fallbackMaxDt
	}
	return sim.ClampDt(float64(frameTime), limit)
}

func (a *App) loadTexture() {
	a.unloadTexture()
	side := a.Sim.Params().N + 2
	a.pixels = make([]color.RGBA, side*side)
	img := rl.GenImageColor(side, side, rl.Black)
	a.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(a.texture, rl.FilterPoint)
	a.loaded = true
}

func (a *App) unloadTexture() {
	if a.loaded {
		rl.UnloadTexture(a.texture)
		a.loaded = false
	}
}

func (a *App) loadParams() {
	a.Cfg = config.GetPreset(a.Presets[a.Selected])
	a.Params["grid"] = float64(a.Cfg.Grid.N)
	a.Params["viscosity"] = a.Cfg.Fluid.Viscosity
	a.Params["diffusion"] = a.Cfg.Fluid.Diffusion
	a.Params["density"] = a.Cfg.Injection.Density
	a.Params["velocity"] = a.Cfg.Injection.Velocity
	a.Params["radius"] = float64(a.Cfg.Injection.Radius)
	a.Params["scale"] = float64(a.Cfg.Scale)
}

func (a *App) start() {
	a.Cfg.Grid.N = int(a.Params["grid"])
	a.Cfg.Fluid.Viscosity = a.Params["viscosity"]
	a.Cfg.Fluid.Diffusion = a.Params["diffusion"]
	a.Cfg.Injection.Density = a.Params["density"]
	a.Cfg.Injection.Velocity = a.Params["velocity"]
	a.Cfg.Injection.Radius = int(a.Params["radius"])
	a.Cfg.Scale = int(a.Params["scale"])
	if err := a.Cfg.Validate(); err != nil {
		a.Err = err
		return
	}
	s, err := sim.New(a.Cfg.Params())
	if err != nil {
		a.Err = err
		return
	}
	a.Sim, a.Preset, a.Emitters, a.Scale, a.Err = s, a.Cfg.Preset, a.Cfg.Emitters, a.Cfg.Scale, nil
	a.Telemetry = a.Telemetry[:0]
	side := windowSide(s.Params().N, a.Scale)
	rl.SetWindowSize(int(side), int(side))
	a.loadTexture()
	a.InConfig = false
	a.Running = true
}

// Update handles one frame of input and simulation. It reports true when the
// app should exit.
func (a *App) Update() bool {
	if a.InMenu {
		return a.updateMenu()
	}
	if a.InConfig {
		a.updateConfig()
		return false
	}

	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}
	if rl.IsKeyPressed(rl.KeyEscape) && a.Cfg != nil {
		a.InMenu, a.Running = true, false
		rl.SetWindowSize(menuWidth, menuHeight)
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Reset()
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.Palette = nextPalette(a.Palette)
	}

	n := a.Sim.Params().N
	if x, y, ok := cellAt(int(rl.GetMouseX()), int(rl.GetMouseY()), a.Scale, n); ok {
		ev := sim.PointerEvent{
			X:        x,
			Y:        y,
			Density:  rl.IsMouseButtonDown(rl.MouseLeftButton),
			Velocity: rl.IsMouseButtonDown(rl.MouseRightButton),
		}
		if ev.Density || ev.Velocity {
			a.Sim.Apply(ev)
		}
	}

	if a.Running {
		dt := frameDt(rl.GetFrameTime(), a.Sim.Params().MaxDt)
		if dt > 0 {
			for _, e := range a.Emitters {
				if e.Active(a.Sim.Frame()) {
					a.Sim.Emit(e)
				}
			}
			if err := a.Sim.Step(dt); err != nil {
				a.Err = err
				a.Running = false
			}
			a.record(a.Sim.State().KineticEnergy())
		}
	}
	return false
}

func (a *App) record(v float64) {
	if len(a.Telemetry) >= maxTelemetry {
		copy(a.Telemetry, a.Telemetry[1:])
		a.Telemetry = a.Telemetry[:maxTelemetry-1]
	}
	a.Telemetry = append(a.Telemetry, v)
}

func nextPalette(p render.Palette) render.Palette {
	for i, q := range render.Palettes {
		if q.Name == p.Name {
			return render.Palettes[(i+1)%len(render.Palettes)]
		}
	}
	return render.Classic
}

func (a *App) updateMenu() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
		if a.Selected < 0 {
			a.Selected = len(a.Presets) - 1
		}
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		a.loadParams()
		a.InMenu, a.InConfig, a.ParamSel, a.Err = false, true, 0, nil
	}
	return false
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu, a.InConfig = true, false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.start()
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(paramNames)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(paramNames) - 1
		}
	}

	key := paramNames[a.ParamSel]
	step := paramSteps[key]
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Params[key] = max(0, a.Params[key]-step)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else if a.InConfig {
		a.drawConfig()
	} else {
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawSim() {
	render.FillRGBA(a.pixels, a.Sim.State().Density, a.Palette)
	rl.UpdateTexture(a.texture, a.pixels)
	rl.DrawTextureEx(a.texture, rl.NewVector2(0, 0), 0, float32(a.Scale), rl.White)
}

func (a *App) DrawHUD() {
	width := int32(rl.GetScreenWidth())
	height := int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, width, 22, ColShade)

	st := a.Sim.State()
	rl.DrawText(fmt.Sprintf("%s  t=%.2f  mass=%.1f", a.Preset, a.Sim.Time(), st.Density.Sum()), 6, 4, 14, ColSelect)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColText
	}
	rl.DrawText(status, width-70, 4, 14, col)

	a.DrawTelemetry(6, height-50, width/2, 30)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 6, height-16, 12, ColAccent)
	if a.Err != nil {
		rl.DrawText(a.Err.Error(), 6, 26, 12, rl.Red)
	}
}

// DrawTelemetry plots recent kinetic energy as a line strip.
func (a *App) DrawTelemetry(x, y, width, height int32) {
	if len(a.Telemetry) < 2 {
		return
	}
	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(x) + float32(i)/float32(len(a.Telemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("KE %.2e", a.Telemetry[len(a.Telemetry)-1]), x+width+6, y+height-12, 12, ColText)
}

func (a *App) drawMenu() {
	rl.DrawText("fluidsim", 40, 40, 40, ColSelect)
	rl.DrawText("Select Preset", 40, 90, 16, ColTextDim)

	y := int32(140)
	for i, name := range a.Presets {
		if i == a.Selected {
			rl.DrawText(fmt.Sprintf("> %s", name), 40, y, 20, ColSelect)
		} else {
			rl.DrawText(fmt.Sprintf("  %s", name), 40, y, 20, ColText)
		}
		y += 28
	}

	rl.DrawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 40, menuHeight-30, 14, ColTextDim)
}

func (a *App) drawConfig() {
	rl.DrawText("fluidsim", 40, 40, 40, ColTextDim)
	rl.DrawText("configure", 230, 55, 20, ColSelect)
	rl.DrawText(fmt.Sprintf("Preset: %s", a.Presets[a.Selected]), 40, 100, 16, ColAccent)

	y := int32(150)
	for i, key := range paramNames {
		line := fmt.Sprintf("  %-10s %g", key, a.Params[key])
		col := ColText
		if i == a.ParamSel {
			line = fmt.Sprintf("> %-10s %g", key, a.Params[key])
			col = ColSelect
		}
		rl.DrawText(line, 40, y, 20, col)
		y += 28
	}
	if a.Err != nil {
		rl.DrawText(a.Err.Error(), 40, y+10, 14, rl.Red)
	}

	rl.DrawText("ARROWS: ADJUST  ENTER: RUN  ESC: BACK", 40, menuHeight-30, 14, ColTextDim)
}
