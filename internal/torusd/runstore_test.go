package torusd

import (
	"testing"

	"github.com/pstagner/toruscope/internal/session"
)

func TestRunStoreCreateGeneratesID(t *testing.T) {
	store := NewRunStore()

	rec, err := store.Create("", 60)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected a generated run ID")
	}
	if rec.Frames != 60 {
		t.Errorf("expected 60 frames, got %d", rec.Frames)
	}
	if rec.CreatedAtUnixMs == 0 {
		t.Error("expected a creation timestamp")
	}
}

func TestRunStoreCreateDuplicate(t *testing.T) {
	store := NewRunStore()

	if _, err := store.Create("run-1", 60); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create("run-1", 60); err == nil {
		t.Error("expected error for duplicate run ID")
	}
}

func TestRunStoreSetSummaries(t *testing.T) {
	store := NewRunStore()

	if _, err := store.Create("run-1", 60); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	summaries := []session.Summary{
		{Mode: "off", Frames: 60, AvgFPS: 30.0},
		{Mode: "K", Frames: 60, AvgFPS: 32.5},
	}
	if err := store.SetSummaries("run-1", summaries); err != nil {
		t.Fatalf("SetSummaries failed: %v", err)
	}

	rec, ok := store.Get("run-1")
	if !ok {
		t.Fatal("expected to find run-1")
	}
	if len(rec.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(rec.Summaries))
	}
	if rec.Summaries[1].Mode != "K" {
		t.Errorf("expected second summary mode K, got %s", rec.Summaries[1].Mode)
	}
}

func TestRunStoreSetSummariesUnknownRun(t *testing.T) {
	store := NewRunStore()
	if err := store.SetSummaries("missing", nil); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestRunStoreGetMissing(t *testing.T) {
	store := NewRunStore()
	if _, ok := store.Get("missing"); ok {
		t.Error("expected Get to report missing run")
	}
}

func TestRunStoreListNewestFirst(t *testing.T) {
	store := NewRunStore()

	first, err := store.Create("run-a", 60)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := store.Create("run-b", 60)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Force distinct timestamps so ordering is deterministic.
	first.CreatedAtUnixMs = 100
	second.CreatedAtUnixMs = 200

	runs := store.List(0)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-b" || runs[1].ID != "run-a" {
		t.Errorf("expected newest-first ordering, got %s then %s", runs[0].ID, runs[1].ID)
	}
}

func TestRunStoreListLimit(t *testing.T) {
	store := NewRunStore()
	for _, id := range []string{"r1", "r2", "r3"} {
		if _, err := store.Create(id, 60); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	runs := store.List(2)
	if len(runs) != 2 {
		t.Errorf("expected limit of 2 runs, got %d", len(runs))
	}
}
