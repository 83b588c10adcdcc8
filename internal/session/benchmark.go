package session

import (
	"context"
	"fmt"

	"github.com/pstagner/toruscope/internal/tuner"
	"github.com/pstagner/toruscope/pkg/config"
)

// minBenchmarkFrames is the smallest per-mode frame count a benchmark runs.
const minBenchmarkFrames = 60

// benchmarkModes are compared in order, all starting from the same
// configuration.
var benchmarkModes = []string{config.ControllerOff, config.ControllerK, config.ControllerKH}

// RunBenchmark runs one session per controller mode (off, K, K+H) from the
// same starting configuration and returns the per-mode summaries. Sessions
// run sequentially: a concurrent run would steal CPU time from the timed
// renders and bias the FPS term of the score.
func RunBenchmark(ctx context.Context, cfg *config.Config, frames int) ([]Summary, error) {
	if frames < minBenchmarkFrames {
		frames = minBenchmarkFrames
	}

	results := make([]Summary, 0, len(benchmarkModes))
	for _, mode := range benchmarkModes {
		c := *cfg
		c.Controller.Mode = mode

		s := New(&c)
		summary, err := s.Run(ctx, frames)
		if err != nil {
			return results, fmt.Errorf("benchmark session %s failed: %w", mode, err)
		}
		results = append(results, summary)
	}

	return results, nil
}

// SynergyReport captures a one-shot comparison of the controller modes at a
// fixed scene: the base score, the K-mode suggestion, and the K+H
// suggestion, each re-scored.
type SynergyReport struct {
	Base    float64
	K       tuner.StepSuggestion
	KScore  float64
	KH      tuner.StepSuggestion
	KHScore float64
}

// ProbeSynergy evaluates a single controller step in both modes against a
// fixed scene and reports the scores side by side.
func ProbeSynergy(cfg *config.Config) SynergyReport {
	c := *cfg
	c.Normalize()

	scorer := tuner.NewScorer(&c)
	scorer.AngleA = refAngleA
	scorer.AngleB = refAngleB

	pv := tuner.FromRenderConfig(c.Render)

	report := SynergyReport{Base: scorer.Score(pv)}
	report.K = tuner.SuggestStep(pv, scorer.Score, false)
	report.KH = tuner.SuggestStep(pv, scorer.Score, true)
	report.KScore = scorer.Score(report.K.Next)
	report.KHScore = scorer.Score(report.KH.Next)

	return report
}
