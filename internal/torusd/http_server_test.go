package torusd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pstagner/toruscope/pkg/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Render.BaseWidth = 40
	cfg.Render.BaseHeight = 12
	cfg.Controller.IntervalFrames = 20
	return cfg
}

func newTestServer(t *testing.T) (*HTTPServer, *RunStore) {
	t.Helper()
	store := NewRunStore()
	return NewHTTPServer(store, testConfig()), store
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestFrameEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/frame?a=0.6&b=0.4", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain content type, got %s", ct)
	}

	body := rec.Body.String()
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(lines))
	}
	if len(lines[0]) != 40 {
		t.Errorf("expected 40 columns, got %d", len(lines[0]))
	}
	if !strings.ContainsAny(body, "@#%*+=-:.") {
		t.Error("expected non-blank frame")
	}
}

func TestFrameEndpointClampsParams(t *testing.T) {
	srv, _ := newTestServer(t)

	// Out-of-domain scale and gamma must be clamped, not rejected.
	req := httptest.NewRequest(http.MethodGet, "/v1/frame?scale=9.0&gamma=-2&ramp=100", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for clamped params, got %d", rec.Code)
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 12 {
		t.Errorf("expected scale clamped to 1.0 (12 rows), got %d rows", len(lines))
	}
}

func TestFrameEndpointMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/frame", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestBenchmarkEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping benchmark endpoint test in short mode")
	}
	srv, store := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/benchmark", strings.NewReader(`{"frames": 60}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	runID, _ := body["id"].(string)
	if runID == "" {
		t.Fatal("expected a run ID in the response")
	}
	summaries, _ := body["summaries"].([]any)
	if len(summaries) != 3 {
		t.Errorf("expected 3 mode summaries, got %d", len(summaries))
	}

	stored, ok := store.Get(runID)
	if !ok {
		t.Fatal("expected the run to be stored")
	}
	if len(stored.Summaries) != 3 {
		t.Errorf("expected 3 stored summaries, got %d", len(stored.Summaries))
	}
}

func TestRunsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	if _, err := store.Create("run-1", 60); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	runs, _ := body["runs"].([]any)
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestRunByIDEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	if _, err := store.Create("run-1", 60); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run-1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["id"] != "run-1" {
		t.Errorf("expected id run-1, got %v", body["id"])
	}
}

func TestRunByIDNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/missing", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
