package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fluidsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Series []sim.FrameStats `json:"series"`
}

func ExportJSON(path string, meta *RunMetadata, frames []sim.FrameStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, frames)
}

func WriteJSON(w io.Writer, meta *RunMetadata, frames []sim.FrameStats) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Series: frames})
}
