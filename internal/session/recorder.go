package session

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvHeader matches the original batch log column layout.
var csvHeader = []string{
	"frame", "ms", "fps", "quality", "similarity",
	"scale", "spp", "gamma", "ramp", "controller",
}

// CSVRecorder writes one CSV row per frame.
type CSVRecorder struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVRecorder creates the file, truncating any existing one, and writes
// the header row.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create csv log %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	return &CSVRecorder{file: f, writer: w}, nil
}

// Record appends one frame row.
func (c *CSVRecorder) Record(rec FrameRecord) error {
	row := []string{
		strconv.Itoa(rec.Frame),
		strconv.FormatFloat(rec.Ms, 'f', 3, 64),
		strconv.FormatFloat(rec.FPS, 'f', 2, 64),
		strconv.FormatFloat(rec.Quality, 'f', 4, 64),
		strconv.FormatFloat(rec.Similarity, 'f', 4, 64),
		strconv.FormatFloat(rec.Params.ResolutionScale, 'f', 2, 64),
		strconv.Itoa(rec.Params.SamplesPerPixel),
		strconv.FormatFloat(rec.Params.Gamma, 'f', 2, 64),
		strconv.Itoa(rec.Params.RampSize),
		rec.Controller,
	}
	return c.writer.Write(row)
}

// Close flushes buffered rows and closes the file.
func (c *CSVRecorder) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.file.Close()
		return fmt.Errorf("failed to flush csv log: %w", err)
	}
	return c.file.Close()
}

// MultiRecorder fans a record out to several recorders, stopping at the
// first error.
type MultiRecorder []Recorder

// Record delivers the record to each recorder in order.
func (m MultiRecorder) Record(rec FrameRecord) error {
	for _, r := range m {
		if err := r.Record(rec); err != nil {
			return err
		}
	}
	return nil
}
