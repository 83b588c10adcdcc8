package session

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/pstagner/toruscope/internal/tuner"
)

func sampleRecord(frame int) FrameRecord {
	return FrameRecord{
		Frame:      frame,
		Ms:         12.5,
		FPS:        80.0,
		Quality:    0.123,
		Similarity: 0.9,
		Params: tuner.ParamVector{
			ResolutionScale: 0.75,
			SamplesPerPixel: 2,
			Gamma:           1.2,
			NormalSmooth:    0.1,
			RampSize:        12,
		},
		Controller: tuner.ModeK,
	}
}

func TestCSVRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.csv")

	rec, err := NewCSVRecorder(path)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := rec.Record(sampleRecord(i)); err != nil {
			t.Fatalf("failed to record frame %d: %v", i, err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("failed to close recorder: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "frame" || rows[0][9] != "controller" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "0" || rows[3][0] != "2" {
		t.Errorf("unexpected frame indices: %v, %v", rows[1], rows[3])
	}
	if rows[1][9] != tuner.ModeK {
		t.Errorf("expected controller column %q, got %q", tuner.ModeK, rows[1][9])
	}
	if rows[1][5] != "0.75" {
		t.Errorf("expected scale column 0.75, got %q", rows[1][5])
	}
}

func TestCSVRecorderBadPath(t *testing.T) {
	if _, err := NewCSVRecorder(filepath.Join(t.TempDir(), "missing", "frames.csv")); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}

func TestMultiRecorder(t *testing.T) {
	a := &collectRecorder{}
	b := &collectRecorder{}
	multi := MultiRecorder{a, b}

	if err := multi.Record(sampleRecord(0)); err != nil {
		t.Fatalf("multi record failed: %v", err)
	}
	if len(a.records) != 1 || len(b.records) != 1 {
		t.Errorf("expected both recorders to receive the record")
	}

	failing := MultiRecorder{&collectRecorder{err: os.ErrClosed}, b}
	if err := failing.Record(sampleRecord(1)); err == nil {
		t.Fatalf("expected error from failing recorder")
	}
	if len(b.records) != 1 {
		t.Errorf("record after a failure must not reach later recorders")
	}
}
