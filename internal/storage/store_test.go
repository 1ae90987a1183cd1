package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.FrameStats{
			{Frame: 1, Time: 0.01, Mass: 4, Peak: 1, KineticEnergy: 0.5, MaxDivergence: 1e-6},
			{Frame: 2, Time: 0.02, Mass: 3.9, Peak: 0.8, KineticEnergy: 0.25, MaxDivergence: 2e-6},
		},
		FramesTaken: 2,
		Metrics: map[string]float64{
			"mass": 3.9,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	density := fluid.NewField(3)
	density.Set(1, 1, 0.25)
	density.Set(3, 2, 7)
	density.Set(0, 0, 99)

	params := sim.DefaultParams()
	params.N = 3
	runID, err := st.Save("test", params, sim.Config{Dt: 0.01, Frames: 2}, testResult(), density)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Preset != "test" {
		t.Errorf("expected preset 'test', got '%s'", meta.Preset)
	}
	if meta.Params.N != 3 || meta.Config.Dt != 0.01 || meta.Frames != 2 {
		t.Errorf("metadata not round-tripped: %+v", meta)
	}
	if meta.Metrics["mass"] != 3.9 {
		t.Errorf("expected mass 3.9, got %f", meta.Metrics["mass"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1] != testResult().Frames[1] {
		t.Errorf("frame mismatch: %+v", frames[1])
	}

	grid, err := st.LoadDensity(runID)
	if err != nil {
		t.Fatalf("load density failed: %v", err)
	}
	if len(grid) != 3 || len(grid[0]) != 3 {
		t.Fatalf("expected a 3x3 snapshot, got %d rows", len(grid))
	}
	if grid[0][0] != 0.25 || grid[1][2] != 7 {
		t.Errorf("density not round-tripped: %v", grid)
	}
}

func TestStoreSaveNonFiniteMetric(t *testing.T) {
	st := New(t.TempDir())

	result := testResult()
	result.Metrics["peak_density"] = math.NaN()
	result.Errors = []error{sim.SimError{Frame: 3, Time: 0.03, Message: "invalid state (NaN/Inf)"}}

	runID, err := st.Save("bad", sim.DefaultParams(), sim.DefaultConfig(), result, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := meta.Metrics["peak_density"]; ok {
		t.Error("non-finite metric should not be stored")
	}
	if len(meta.Errors) != 2 {
		t.Errorf("expected 2 recorded errors, got %v", meta.Errors)
	}
	if _, err := st.LoadDensity(runID); !os.IsNotExist(err) {
		t.Errorf("expected no density snapshot, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save("test", sim.DefaultParams(), sim.DefaultConfig(), testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("test", sim.DefaultParams(), sim.DefaultConfig(), testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("run ids collide: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save("test", sim.DefaultParams(), sim.DefaultConfig(), testResult(), fluid.NewField(4))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv", "density.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if got := st.Path(runID, "frames.csv"); got != filepath.Join(tmpDir, runID, "frames.csv") {
		t.Errorf("unexpected path %s", got)
	}
}

func TestLoadFramesMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "frame,time,mass,peak,kinetic_energy,max_divergence\n1,0.1,oops,0,0,0\n"
	if err := os.WriteFile(filepath.Join(runDir, "frames.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadFrames("broken"); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteJSON(t *testing.T) {
	meta := &RunMetadata{ID: "puff_1", Preset: "puff", Metrics: map[string]float64{"mass": 1}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, testResult().Frames); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ID != "puff_1" || len(decoded.Series) != 2 {
		t.Errorf("unexpected export %+v", decoded)
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, meta, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}
}
