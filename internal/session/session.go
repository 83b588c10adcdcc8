// Package session drives the render/score/tune loop: it owns the live
// parameter vector, the frame and reference buffers, rotation state, and the
// periodic controller consultation, and hands per-frame records to pluggable
// recorders.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pstagner/toruscope/internal/quality"
	"github.com/pstagner/toruscope/internal/render"
	"github.com/pstagner/toruscope/internal/tuner"
	"github.com/pstagner/toruscope/pkg/config"
	"github.com/pstagner/toruscope/pkg/logger"
)

// Rotation advance per frame, in radians.
const (
	RotationStepA = 0.05
	RotationStepB = 0.03
)

// Reference frame parameters: rendered once at session start at base
// resolution so later frames can be compared against a known-good image.
const (
	refAngleA   = 0.6
	refAngleB   = 0.4
	refGamma    = 1.0
	refRampSize = 16
)

// FrameRecord is the per-frame measurement handed to recorders.
type FrameRecord struct {
	Frame      int
	Ms         float64
	FPS        float64
	Quality    float64
	Similarity float64
	Params     tuner.ParamVector
	Controller string
}

// Recorder consumes per-frame records. Implementations decide format and
// destination (CSV file, SQLite, HUD, ...).
type Recorder interface {
	Record(rec FrameRecord) error
}

// Summary aggregates a finished run.
type Summary struct {
	Mode          string
	Frames        int
	AvgFPS        float64
	AvgQuality    float64
	AvgSimilarity float64
	Params        tuner.ParamVector
}

// Session is a single render/tune loop. It is owned by one goroutine; every
// render and controller step runs to completion on the calling thread.
type Session struct {
	cfg    config.Config
	log    *slog.Logger
	pv     tuner.ParamVector
	model  render.TorusModel
	cam    render.Camera
	scorer *tuner.Scorer

	ramp string
	fb   *render.FrameBuffer
	ref  *render.FrameBuffer

	a, b  float64
	frame int

	recorder Recorder
	pace     bool

	sumFPS, sumQuality, sumSimilarity float64

	// HUD metrics, exponentially smoothed.
	SmoothedFPS     float64
	SmoothedQuality float64
}

// New creates a session from a normalized configuration and renders the
// reference frame.
func New(cfg *config.Config) *Session {
	c := *cfg
	c.Normalize()

	s := &Session{
		cfg:   c,
		log:   logger.Default,
		model: render.TorusModel{MajorRadius: c.Torus.MajorRadius, MinorRadius: c.Torus.MinorRadius},
		cam:   render.Camera{Distance: c.Camera.Distance},
		pv:    tuner.FromRenderConfig(c.Render),
	}
	s.scorer = tuner.NewScorer(&c)
	s.ramp = render.BuildRamp(s.pv.RampSize)
	s.fb = render.NewFrameBuffer(s.liveDims())

	s.ref = render.NewFrameBuffer(c.Render.BaseWidth, c.Render.BaseHeight)
	render.RenderTorus(s.ref, refAngleA, refAngleB, s.model, render.BuildRamp(refRampSize), refGamma, s.cam.Distance)

	return s
}

// WithRecorder attaches a per-frame recorder.
func (s *Session) WithRecorder(r Recorder) *Session {
	s.recorder = r
	return s
}

// WithLogger sets the session logger.
func (s *Session) WithLogger(log *slog.Logger) *Session {
	s.log = log
	return s
}

// WithPacing enables sleeping after each frame to hold the target FPS.
func (s *Session) WithPacing(pace bool) *Session {
	s.pace = pace
	return s
}

// Params returns the live parameter vector.
func (s *Session) Params() tuner.ParamVector {
	return s.pv
}

// Buffer returns the live frame buffer.
func (s *Session) Buffer() *render.FrameBuffer {
	return s.fb
}

// Config returns the session configuration.
func (s *Session) Config() config.Config {
	return s.cfg
}

// SetControllerMode switches the controller mode at runtime. Invalid modes
// are ignored.
func (s *Session) SetControllerMode(mode string) {
	switch mode {
	case config.ControllerOff, config.ControllerK, config.ControllerKH:
		s.cfg.Controller.Mode = mode
	}
}

// SetTargetFPS adjusts the pacing and scoring target at runtime.
func (s *Session) SetTargetFPS(fps int) {
	if fps < 1 {
		fps = 1
	}
	s.cfg.Render.TargetFPS = fps
	s.scorer.TargetFPS = fps
}

// liveDims derives the live buffer dimensions from the current resolution
// scale. Unlike probe renders there is no lower floor: the scale domain
// keeps the buffer usable.
func (s *Session) liveDims() (int, int) {
	w := int(math.Round(float64(s.cfg.Render.BaseWidth) * s.pv.ResolutionScale))
	h := int(math.Round(float64(s.cfg.Render.BaseHeight) * s.pv.ResolutionScale))
	return w, h
}

// controllerLabel names the active controller mode for records and HUDs.
func (s *Session) controllerLabel() string {
	switch s.cfg.Controller.Mode {
	case config.ControllerK:
		return tuner.ModeK
	case config.ControllerKH:
		return tuner.ModeKH
	default:
		return config.ControllerOff
	}
}

// Step renders one frame, measures it, and periodically consults the
// controller. It returns the frame's record.
func (s *Session) Step() FrameRecord {
	start := time.Now()
	render.RenderTorus(s.fb, s.a, s.b, s.model, s.ramp, s.pv.Gamma, s.cam.Distance)
	ms := float64(time.Since(start).Nanoseconds()) / 1e6

	fps := 0.0
	if ms > 0 {
		fps = 1000.0 / ms
	}

	q := quality.EstimateQuality(s.fb.Glyphs, s.fb.W, s.fb.H)
	sim := 0.0
	if s.fb.W == s.ref.W && s.fb.H == s.ref.H {
		sim = quality.EstimateSimilarity(s.fb.Glyphs, s.ref.Glyphs, s.fb.W, s.fb.H)
	}

	s.sumFPS += fps
	s.sumQuality += q
	s.sumSimilarity += sim
	s.SmoothedFPS = quality.MovingAverage(s.SmoothedFPS, fps, quality.DefaultSmoothing)
	s.SmoothedQuality = quality.MovingAverage(s.SmoothedQuality, q, quality.DefaultSmoothing)

	rec := FrameRecord{
		Frame:      s.frame,
		Ms:         ms,
		FPS:        fps,
		Quality:    q,
		Similarity: sim,
		Params:     s.pv,
		Controller: s.controllerLabel(),
	}

	if s.cfg.Controller.Mode != config.ControllerOff && s.frame%s.cfg.Controller.IntervalFrames == 0 {
		s.consultController()
	}

	s.frame++
	s.a += RotationStepA
	s.b += RotationStepB

	return rec
}

// consultController runs one controller step at the current rotation angles
// and applies the suggested parameters to the live session.
func (s *Session) consultController() {
	s.scorer.AngleA = s.a
	s.scorer.AngleB = s.b

	useSynergy := s.cfg.Controller.Mode == config.ControllerKH
	suggestion := tuner.SuggestStep(s.pv, s.scorer.Score, useSynergy)
	if suggestion.Next == s.pv {
		return
	}

	s.log.Debug("controller accepted step",
		"mode", suggestion.Mode,
		"scale", suggestion.Next.ResolutionScale,
		"spp", suggestion.Next.SamplesPerPixel,
		"gamma", suggestion.Next.Gamma,
		"ramp", suggestion.Next.RampSize)

	s.applyParams(suggestion.Next)
}

// applyParams installs a new parameter vector, rebuilding the ramp and
// reallocating the frame buffer when the dimensions change.
func (s *Session) applyParams(pv tuner.ParamVector) {
	s.pv = pv.Clamp()
	s.cfg.Render.ResolutionScale = s.pv.ResolutionScale
	s.cfg.Render.SamplesPerPixel = s.pv.SamplesPerPixel
	s.cfg.Render.Gamma = s.pv.Gamma
	s.cfg.Render.NormalSmooth = s.pv.NormalSmooth
	s.cfg.Render.RampSize = s.pv.RampSize

	s.ramp = render.BuildRamp(s.pv.RampSize)
	if w, h := s.liveDims(); w != s.fb.W || h != s.fb.H {
		s.fb = render.NewFrameBuffer(w, h)
	}
}

// Run drives the loop for the given number of frames, honoring ctx
// cancellation between frames. When pacing is enabled the loop sleeps after
// each frame to approach the target frame interval.
func (s *Session) Run(ctx context.Context, frames int) (Summary, error) {
	if frames <= 0 {
		frames = math.MaxInt
	}

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}

		start := time.Now()
		rec := s.Step()

		if s.recorder != nil {
			if err := s.recorder.Record(rec); err != nil {
				return s.Summary(), fmt.Errorf("failed to record frame %d: %w", rec.Frame, err)
			}
		}

		if s.pace {
			targetMs := 1000.0 / float64(s.cfg.Render.TargetFPS)
			elapsedMs := float64(time.Since(start).Nanoseconds()) / 1e6
			if elapsedMs < targetMs {
				time.Sleep(time.Duration((targetMs - elapsedMs) * float64(time.Millisecond)))
			}
		}
	}

	return s.Summary(), nil
}

// Summary returns the running averages for the frames stepped so far.
func (s *Session) Summary() Summary {
	sum := Summary{
		Mode:   s.controllerLabel(),
		Frames: s.frame,
		Params: s.pv,
	}
	if s.frame > 0 {
		inv := 1.0 / float64(s.frame)
		sum.AvgFPS = s.sumFPS * inv
		sum.AvgQuality = s.sumQuality * inv
		sum.AvgSimilarity = s.sumSimilarity * inv
	}
	return sum
}
