package torusd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pstagner/toruscope/internal/render"
	"github.com/pstagner/toruscope/internal/session"
	"github.com/pstagner/toruscope/internal/tuner"
	"github.com/pstagner/toruscope/pkg/config"
	"github.com/pstagner/toruscope/pkg/logger"
)

// HTTPServer exposes the renderer and benchmark runner over plain HTTP.
// Render and benchmark requests are serialized: timed renders feed the
// controller's FPS term, and concurrent renders would steal CPU time from
// each other and bias it.
type HTTPServer struct {
	mux   *http.ServeMux
	store *RunStore
	cfg   *config.Config

	renderGate chan struct{}
}

// NewHTTPServer creates the server around a run store and a base
// configuration.
func NewHTTPServer(store *RunStore, cfg *config.Config) *HTTPServer {
	s := &HTTPServer{
		mux:        http.NewServeMux(),
		store:      store,
		cfg:        cfg,
		renderGate: make(chan struct{}, 1),
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/frame", s.handleFrame)
	s.mux.HandleFunc("/v1/benchmark", s.handleBenchmark)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)

	return s
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

// acquireRender blocks until the render gate is free.
func (s *HTTPServer) acquireRender() func() {
	s.renderGate <- struct{}{}
	return func() { <-s.renderGate }
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

// handleFrame renders a single frame from query parameters and returns it
// as plain text. Unknown or out-of-domain values are clamped, never
// rejected.
func (s *HTTPServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cfg := *s.cfg
	q := r.URL.Query()

	pv := tuner.FromRenderConfig(cfg.Render)
	if v, err := strconv.ParseFloat(q.Get("scale"), 64); err == nil {
		pv.ResolutionScale = v
	}
	if v, err := strconv.ParseFloat(q.Get("gamma"), 64); err == nil {
		pv.Gamma = v
	}
	if v, err := strconv.Atoi(q.Get("ramp")); err == nil {
		pv.RampSize = v
	}
	pv = pv.Clamp()

	angleA := 0.6
	angleB := 0.4
	if v, err := strconv.ParseFloat(q.Get("a"), 64); err == nil {
		angleA = v
	}
	if v, err := strconv.ParseFloat(q.Get("b"), 64); err == nil {
		angleB = v
	}

	width := int(float64(cfg.Render.BaseWidth)*pv.ResolutionScale + 0.5)
	height := int(float64(cfg.Render.BaseHeight)*pv.ResolutionScale + 0.5)
	fb := render.NewFrameBuffer(width, height)
	model := render.TorusModel{MajorRadius: cfg.Torus.MajorRadius, MinorRadius: cfg.Torus.MinorRadius}

	release := s.acquireRender()
	render.RenderTorus(fb, angleA, angleB, model, render.BuildRamp(pv.RampSize), pv.Gamma, cfg.Camera.Distance)
	release()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(fb.String())); err != nil {
		logger.Error("failed to write frame response", "error", err)
	}
}

type benchmarkRequest struct {
	Frames int `json:"frames"`
}

// handleBenchmark runs a benchmark over the three controller modes, stores
// the result, and returns it.
func (s *HTTPServer) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req benchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.store.Create("", req.Frames)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	release := s.acquireRender()
	summaries, err := session.RunBenchmark(r.Context(), s.cfg, req.Frames)
	release()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.SetSummaries(rec.ID, summaries); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("benchmark completed", "run_id", rec.ID, "modes", len(summaries))
	s.writeJSON(w, http.StatusOK, convertRunToJSON(rec))
}

// handleRuns lists completed runs.
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = v
	}

	runs := s.store.List(limit)
	out := make([]map[string]any, 0, len(runs))
	for _, rec := range runs {
		out = append(out, convertRunToJSON(rec))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

// handleRunByID returns a single run record.
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if runID == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found: "+runID)
		return
	}
	s.writeJSON(w, http.StatusOK, convertRunToJSON(rec))
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

func convertRunToJSON(rec *RunRecord) map[string]any {
	summaries := make([]map[string]any, 0, len(rec.Summaries))
	for _, sum := range rec.Summaries {
		summaries = append(summaries, map[string]any{
			"mode":           sum.Mode,
			"frames":         sum.Frames,
			"avg_fps":        sum.AvgFPS,
			"avg_quality":    sum.AvgQuality,
			"avg_similarity": sum.AvgSimilarity,
			"params": map[string]any{
				"resolution_scale":  sum.Params.ResolutionScale,
				"samples_per_pixel": sum.Params.SamplesPerPixel,
				"gamma":             sum.Params.Gamma,
				"normal_smooth":     sum.Params.NormalSmooth,
				"ramp_size":         sum.Params.RampSize,
			},
		})
	}
	return map[string]any{
		"id":                 rec.ID,
		"created_at_unix_ms": rec.CreatedAtUnixMs,
		"frames":             rec.Frames,
		"summaries":          summaries,
	}
}
