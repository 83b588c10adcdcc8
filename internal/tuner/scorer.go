package tuner

import (
	"math"
	"time"

	"github.com/pstagner/toruscope/internal/quality"
	"github.com/pstagner/toruscope/internal/render"
	"github.com/pstagner/toruscope/pkg/config"
)

// minProbeDim is the smallest width or height a probe render may use after
// applying the resolution scale.
const minProbeDim = 10

// Scorer maps a candidate parameter vector to a scalar objective: a
// weighted blend of frame-rate (normalized against the target FPS) and edge
// quality, each term clamped to [0, 1]. Scoring performs a full timed
// render and dominates the cost of every controller step.
type Scorer struct {
	BaseWidth  int
	BaseHeight int
	// AngleA and AngleB are the rotation angles probe frames are rendered
	// at; the session loop keeps them in sync with the live rotation.
	AngleA      float64
	AngleB      float64
	Model       render.TorusModel
	CamDistance float64
	TargetFPS   int
	WeightFPS   float64
	WeightQual  float64
}

// NewScorer builds a scorer from a session configuration, correcting a
// non-positive weight sum to the 0.5/0.5 default.
func NewScorer(cfg *config.Config) *Scorer {
	s := &Scorer{
		BaseWidth:   cfg.Render.BaseWidth,
		BaseHeight:  cfg.Render.BaseHeight,
		Model:       render.TorusModel{MajorRadius: cfg.Torus.MajorRadius, MinorRadius: cfg.Torus.MinorRadius},
		CamDistance: cfg.Camera.Distance,
		TargetFPS:   cfg.Render.TargetFPS,
		WeightFPS:   cfg.Score.WeightFPS,
		WeightQual:  cfg.Score.WeightQuality,
	}
	if s.TargetFPS < 1 {
		s.TargetFPS = 1
	}
	if s.WeightFPS+s.WeightQual <= 0 {
		s.WeightFPS = 0.5
		s.WeightQual = 0.5
	}
	return s
}

// Score renders one frame at the candidate's resolution and ramp, times it,
// and blends the FPS and quality terms. The candidate is clamped before use.
func (s *Scorer) Score(pv ParamVector) float64 {
	pv = pv.Clamp()

	w := int(math.Round(float64(s.BaseWidth) * pv.ResolutionScale))
	h := int(math.Round(float64(s.BaseHeight) * pv.ResolutionScale))
	if w < minProbeDim {
		w = minProbeDim
	}
	if h < minProbeDim {
		h = minProbeDim
	}

	ramp := render.BuildRamp(pv.RampSize)
	fb := render.NewFrameBuffer(w, h)

	start := time.Now()
	render.RenderTorus(fb, s.AngleA, s.AngleB, s.Model, ramp, pv.Gamma, s.CamDistance)
	ms := float64(time.Since(start).Nanoseconds()) / 1e6

	fps := 0.0
	if ms > 0 {
		fps = 1000.0 / ms
	}
	fpsNorm := math.Min(fps/float64(s.TargetFPS), 1.0)

	q := quality.EstimateQuality(fb.Glyphs, w, h)

	return s.WeightFPS*fpsNorm + s.WeightQual*q
}
