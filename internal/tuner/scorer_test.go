package tuner

import (
	"testing"

	"github.com/pstagner/toruscope/pkg/config"
)

func TestNewScorerDefaults(t *testing.T) {
	cfg := config.Default()
	s := NewScorer(cfg)

	if s.BaseWidth != 80 || s.BaseHeight != 24 {
		t.Errorf("expected base dims 80x24, got %dx%d", s.BaseWidth, s.BaseHeight)
	}
	if s.WeightFPS != 0.5 || s.WeightQual != 0.5 {
		t.Errorf("expected default weights 0.5/0.5, got %f/%f", s.WeightFPS, s.WeightQual)
	}
}

func TestNewScorerCorrectsWeights(t *testing.T) {
	cfg := config.Default()
	cfg.Score.WeightFPS = -1
	cfg.Score.WeightQuality = 0

	s := NewScorer(cfg)
	if s.WeightFPS != 0.5 || s.WeightQual != 0.5 {
		t.Errorf("non-positive weight sum must default to 0.5/0.5, got %f/%f", s.WeightFPS, s.WeightQual)
	}
}

func TestNewScorerCorrectsTargetFPS(t *testing.T) {
	cfg := config.Default()
	cfg.Render.TargetFPS = 0

	s := NewScorer(cfg)
	if s.TargetFPS != 1 {
		t.Errorf("expected target FPS raised to 1, got %d", s.TargetFPS)
	}
}

func TestScoreWithinUnitInterval(t *testing.T) {
	cfg := config.Default()
	s := NewScorer(cfg)
	s.AngleA, s.AngleB = 0.6, 0.4

	vectors := []ParamVector{
		interiorVector(),
		{ResolutionScale: 0.25, SamplesPerPixel: 1, Gamma: 0.5, NormalSmooth: 0, RampSize: 8},
		{ResolutionScale: 1.0, SamplesPerPixel: 4, Gamma: 3.0, NormalSmooth: 1, RampSize: 16},
		// Out-of-domain input is clamped before scoring.
		{ResolutionScale: 50, SamplesPerPixel: -3, Gamma: 0, NormalSmooth: 9, RampSize: 1},
	}

	for _, pv := range vectors {
		score := s.Score(pv)
		if score < 0 || score > 1 {
			t.Errorf("Score(%+v) = %f, expected value in [0,1] for 0.5/0.5 weights", pv, score)
		}
	}
}

func TestScoreEnforcesMinimumProbeDims(t *testing.T) {
	cfg := config.Default()
	cfg.Render.BaseWidth = 12
	cfg.Render.BaseHeight = 8
	s := NewScorer(cfg)

	// 12*0.25=3 and 8*0.25=2 both fall below the 10x10 floor; the probe
	// must still render and produce a finite score.
	pv := ParamVector{ResolutionScale: 0.25, SamplesPerPixel: 1, Gamma: 1.0, NormalSmooth: 0, RampSize: 8}
	score := s.Score(pv)
	if score < 0 || score > 1 {
		t.Errorf("expected score in [0,1] at minimum probe dims, got %f", score)
	}
}
