package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/analysis"
	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/gui"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/render"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
	"github.com/san-kum/fluidsim/internal/viz"
)

var (
	dataDir string
	// Config file
	configFile string
	// Preset name
	preset string

	gridN       int
	iterations  int
	viscosity   float64
	diffusion   float64
	densityAmt  float64
	velocityAmt float64
	radius      int
	dt          float64
	maxDt       float64
	frames      int
	scale       int

	gifPath     string
	gifEvery    int
	paletteName string
	outPath     string
	benchSteps  int
	// Series selection per command
	plotSeries    string
	svgSeries     string
	analyzeSeries string
	// Phase plot axes
	xSeries string
	ySeries string
	// Sweep values
	diffusions []float64
)

func addFluidFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "use preset configuration")
	cmd.Flags().IntVar(&gridN, "n", sim.DefaultN, "interior grid size")
	cmd.Flags().IntVar(&iterations, "iterations", fluid.DefaultIterations, "relaxation sweeps per solve")
	cmd.Flags().Float64Var(&viscosity, "viscosity", sim.DefaultViscosity, "kinematic viscosity")
	cmd.Flags().Float64Var(&diffusion, "diffusion", sim.DefaultDiffusion, "density diffusion rate")
	cmd.Flags().Float64Var(&densityAmt, "density", sim.DefaultDensityAmount, "density added per pointer press")
	cmd.Flags().Float64Var(&velocityAmt, "velocity", sim.DefaultVelocityAmount, "velocity added per pointer press")
	cmd.Flags().IntVar(&radius, "radius", sim.DefaultRadius, "injection radius in cells")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&maxDt, "max-dt", sim.DefaultMaxDt, "largest accepted timestep (0 disables)")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	cmd.Flags().IntVar(&scale, "scale", config.DefaultScale, "pixels per cell")
}

// main registers the fluidsim commands and opens the graphical preset menu
// when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidsim",
		Short: "stable fluids simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addFluidFlags(runCmd)
	runCmd.Flags().StringVar(&gifPath, "gif", "", "record the density field to this GIF")
	runCmd.Flags().IntVar(&gifEvery, "gif-every", 2, "record every nth frame")
	runCmd.Flags().StringVar(&paletteName, "palette", render.Classic.Name, "colour palette")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotSeries, "series", "", "single series to plot (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and series as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame stats to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final density, or a series, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgSeries, "series", "", "plot this series instead of the density field")
	exportSVGCmd.Flags().StringVar(&paletteName, "palette", render.Classic.Name, "colour palette")
	exportSVGCmd.Flags().IntVar(&scale, "scale", config.DefaultScale, "pixels per cell")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary, decay and spectrum of a run series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeSeries, "series", "kinetic_energy", "series to analyze")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one series against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xSeries, "x", "mass", "series for the x-axis")
	phaseCmd.Flags().StringVar(&ySeries, "y", "kinetic_energy", "series for the y-axis")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addFluidFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addFluidFlags(guiCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal preset menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark solver steps across grid sizes",
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 100, "steps per grid size")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one preset across several diffusion rates",
		Args:  cobra.NoArgs,
		RunE:  sweepDiffusion,
	}
	addFluidFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&diffusions, "diffusions", []float64{0, 0.0001, 0.001, 0.01}, "diffusion rates to compare")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, analyzeCmd, phaseCmd, liveCmd, guiCmd, tuiCmd, presetsCmd, benchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig starts from the preset, lets a config file replace it, then
// applies any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.Grid.N = gridN
	}
	if flags.Changed("iterations") {
		cfg.Grid.Iterations = iterations
	}
	if flags.Changed("viscosity") {
		cfg.Fluid.Viscosity = viscosity
	}
	if flags.Changed("diffusion") {
		cfg.Fluid.Diffusion = diffusion
	}
	if flags.Changed("density") {
		cfg.Injection.Density = densityAmt
	}
	if flags.Changed("velocity") {
		cfg.Injection.Velocity = velocityAmt
	}
	if flags.Changed("radius") {
		cfg.Injection.Radius = radius
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("max-dt") {
		cfg.MaxDt = maxDt
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// gifObserver feeds every nth frame's density into a recorder.
type gifObserver struct {
	rec   *export.GIFRecorder
	every int
}

func (g *gifObserver) OnFrame(st *sim.State, fs sim.FrameStats) {
	if fs.Frame%g.every == 0 {
		g.rec.Add(st.Density)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.New(cfg.Params())
	if err != nil {
		return err
	}
	for _, m := range metrics.DefaultMetrics() {
		s.AddMetric(m)
	}

	var rec *export.GIFRecorder
	if gifPath != "" {
		palette, err := render.GetPalette(paletteName)
		if err != nil {
			return err
		}
		if gifEvery < 1 {
			gifEvery = 1
		}
		delay := max(1, int(100*cfg.Dt*float64(gifEvery)))
		rec = export.NewGIFRecorder(cfg.Scale, delay, palette)
		s.AddObserver(&gifObserver{rec: rec, every: gifEvery})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: N=%d, %d frames at dt=%.4f\n", cfg.Preset, cfg.Grid.N, cfg.Frames, cfg.Dt)
	start := time.Now()

	runCfg := cfg.RunConfig()
	result, err := s.Run(ctx, runCfg, cfg.Emitters)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Preset, s.Params(), runCfg, result, s.State().Density)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if rec != nil {
		if err := rec.Save(gifPath); err != nil {
			return fmt.Errorf("failed to save gif: %w", err)
		}
		fmt.Printf("\nsaved %d frames to %s\n", rec.Len(), gifPath)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tN\tFRAMES\tDT\tVISC\tDIFF")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%g\t%g\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.N,
			run.Frames,
			run.Config.Dt,
			run.Params.Viscosity,
			run.Params.Diffusion,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.FrameStats, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	names := []string{"mass", "peak", "kinetic_energy", "max_divergence"}
	if plotSeries != "" {
		names = []string{plotSeries}
	}

	for _, name := range names {
		data, err := analysis.Series(frames, name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return storage.ExportJSON(outPath, meta, frames)
	}
	return storage.WriteJSON(os.Stdout, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"frame"}, analysis.SeriesNames()...)
	if err := w.Write(header); err != nil {
		return err
	}

	columns := make([][]float64, 0, len(header)-1)
	for _, name := range analysis.SeriesNames() {
		col, err := analysis.Series(frames, name)
		if err != nil {
			return err
		}
		columns = append(columns, col)
	}

	for i, f := range frames {
		row := []string{strconv.Itoa(f.Frame)}
		for _, col := range columns {
			row = append(row, strconv.FormatFloat(col[i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// fieldFromRows rebuilds a density field from its stored interior rows.
func fieldFromRows(rows [][]float64) (*fluid.Field, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("empty density snapshot")
	}
	f := fluid.NewField(n)
	for y, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("density row %d has %d cells, want %d", y+1, len(row), n)
		}
		for x, v := range row {
			f.Set(x+1, y+1, v)
		}
	}
	return f, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	var svg string
	if svgSeries != "" {
		_, frames, err := loadRun(runID)
		if err != nil {
			return err
		}
		data, err := analysis.Series(frames, svgSeries)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(data, 800, 300, "#00aaff")
	} else {
		palette, err := render.GetPalette(paletteName)
		if err != nil {
			return err
		}
		rows, err := storage.New(dataDir).LoadDensity(runID)
		if err != nil {
			return err
		}
		f, err := fieldFromRows(rows)
		if err != nil {
			return err
		}
		svg = export.DensityToSVG(f, float64(scale), palette)
	}

	if outPath == "" {
		fmt.Print(svg)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data, err := analysis.Series(frames, analyzeSeries)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("series: %s\n\n", analyzeSeries)

	sum, err := analysis.Summarize(data)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIRST\tLAST\tMIN\tMAX\tMEAN\tSTD")
	fmt.Fprintf(w, "%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n", sum.First, sum.Last, sum.Min, sum.Max, sum.Mean, sum.Std)
	if err := w.Flush(); err != nil {
		return err
	}

	frameDt := meta.Config.Dt
	if rate, err := analysis.DecayRate(data, frameDt); err == nil {
		fmt.Printf("\ndecay rate: %.4g /s\n", rate)
	} else {
		fmt.Printf("\ndecay rate: n/a (%v)\n", err)
	}

	if len(data) < 4 {
		return nil
	}

	ps := analysis.PowerSpectrum(data)
	graph := asciigraph.Plot(ps[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+analyzeSeries+")"),
	)
	fmt.Println()
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, frameDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	xs, err := analysis.Series(frames, xSeries)
	if err != nil {
		return err
	}
	ys, err := analysis.Series(frames, ySeries)
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("%s vs %s\n\n", ySeries, xSeries)

	portrait := analysis.NewPhasePortrait(xSeries, xs, ySeries, ys)
	fmt.Println(portrait.ToASCII(80, 24))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(cfg.Params())
	if err != nil {
		return err
	}
	return viz.RunLive(s, cfg.Preset, cfg.Emitters)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(cfg.Params())
	if err != nil {
		return err
	}
	return gui.Run(s, cfg.Preset, cfg.Emitters, cfg.Scale)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tVISC\tDIFF\tFRAMES\tEMITTERS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\t%d\n",
			name, p.Grid.N, p.Fluid.Viscosity, p.Fluid.Diffusion, p.Frames, len(p.Emitters))
	}
	return w.Flush()
}

func benchSolver(cmd *cobra.Command, args []string) error {
	sizes := []int{32, 64, 128, 256}
	steps := max(1, benchSteps)

	fmt.Printf("benchmarking %d steps per grid\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tSTEPS\tTIME\tSTEPS/SEC\tMS/STEP")

	for _, n := range sizes {
		p := sim.DefaultParams()
		p.N = n
		s, err := sim.New(p)
		if err != nil {
			return err
		}
		s.Apply(sim.PointerEvent{X: n / 2, Y: n / 2, Density: true, Velocity: true})

		start := time.Now()
		for i := 0; i < steps; i++ {
			if err := s.Step(config.DefaultDt); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3f\n",
			n, steps, elapsed, float64(steps)/elapsed.Seconds(),
			float64(elapsed.Microseconds())/1000/float64(steps))
	}
	return w.Flush()
}

func sweepDiffusion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(diffusions) == 0 {
		return fmt.Errorf("no diffusion rates given")
	}

	params := make([]sim.Params, len(diffusions))
	for i, d := range diffusions {
		p := cfg.Params()
		p.Diffusion = d
		params[i] = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %d diffusion rates\n\n", cfg.Preset, len(diffusions))
	start := time.Now()
	results, err := sim.NewEnsemble(params, metrics.DefaultMetrics).Run(ctx, cfg.RunConfig(), cfg.Emitters)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIFFUSION\tFRAMES\tMASS\tPEAK\tKE\tSTABILITY")
	for i, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.4g\t%.4g\t%.4g\t%.3f\n",
			diffusions[i], r.FramesTaken,
			r.Metrics["mass"], r.Metrics["peak_density"], r.Metrics["kinetic_energy"], r.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}
