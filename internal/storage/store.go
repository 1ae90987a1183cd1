package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	densityFile  = "density.csv"
)

var framesHeader = []string{"frame", "time", "mass", "peak", "kinetic_energy", "max_divergence"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Params    sim.Params         `json:"params"`
	Config    sim.Config         `json:"config"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// Save writes a run directory holding the metadata, per-frame stats and the
// final interior density. density may be nil.
func (s *Store) Save(preset string, params sim.Params, cfg sim.Config, result *sim.Result, density *fluid.Field) (string, error) {
	now := time.Now()
	runID, err := s.makeRunDir(fmt.Sprintf("%s_%d", preset, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Params:    params,
		Config:    cfg,
		Frames:    result.FramesTaken,
		Metrics:   make(map[string]float64, len(result.Metrics)),
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}
	// JSON has no NaN or Inf; a diverged metric is reported as an error.
	for name, v := range result.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			meta.Errors = append(meta.Errors, fmt.Sprintf("metric %s is %v", name, v))
			continue
		}
		meta.Metrics[name] = v
	}

	if err := writeJSON(s.Path(runID, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(s.Path(runID, framesFile), result.Frames); err != nil {
		return "", err
	}
	if density != nil {
		if err := writeDensity(s.Path(runID, densityFile), density); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// makeRunDir creates a fresh run directory, suffixing base until the name
// is unused, and returns its ID.
func (s *Store) makeRunDir(base string) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	id := base
	for i := 1; ; i++ {
		err := os.Mkdir(s.Path(id, ""), 0755)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFrames(path string, frames []sim.FrameStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, fs := range frames {
		row := []string{
			strconv.Itoa(fs.Frame),
			formatFloat(fs.Time),
			formatFloat(fs.Mass),
			formatFloat(fs.Peak),
			formatFloat(fs.KineticEnergy),
			formatFloat(fs.MaxDivergence),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeDensity(path string, density *fluid.Field) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, density.N())
	for y := 1; y <= density.N(); y++ {
		for i, v := range density.Row(y) {
			row[i] = formatFloat(v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.Path(runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) LoadFrames(runID string) ([]sim.FrameStats, error) {
	records, err := readCSV(s.Path(runID, framesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.FrameStats{}, nil
	}

	frames := make([]sim.FrameStats, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != len(framesHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d columns, got %d", framesFile, line+2, len(framesHeader), len(record))
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+2, err)
		}
		vals := make([]float64, 5)
		for i := range vals {
			vals[i], err = strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, line+2, err)
			}
		}
		frames = append(frames, sim.FrameStats{
			Frame:         frame,
			Time:          vals[0],
			Mass:          vals[1],
			Peak:          vals[2],
			KineticEnergy: vals[3],
			MaxDivergence: vals[4],
		})
	}

	return frames, nil
}

// LoadDensity returns the final density snapshot as rows of interior cells,
// row y-1 holding grid row y.
func (s *Store) LoadDensity(runID string) ([][]float64, error) {
	records, err := readCSV(s.Path(runID, densityFile))
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, len(records))
	for y, record := range records {
		grid[y] = make([]float64, len(record))
		for x, cell := range record {
			grid[y][x], err = strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", densityFile, y+1, err)
			}
		}
	}
	return grid, nil
}

// Path returns the on-disk location of a run file.
func (s *Store) Path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}
