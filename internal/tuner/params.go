// Package tuner holds the tunable render parameter vector, the objective
// scorer, and the greedy auto-tuning controller that probes single axes
// ("K") and fixed axis pairs for synergistic gains ("K+H").
package tuner

import (
	"github.com/pstagner/toruscope/pkg/config"
	"github.com/pstagner/toruscope/pkg/utils"
)

// Parameter domains. Every ParamVector is clamped to these before it is
// scored or rendered.
const (
	MinResolutionScale = 0.25
	MaxResolutionScale = 1.0
	MinSamplesPerPixel = 1
	MaxSamplesPerPixel = 4
	MinGamma           = 0.5
	MaxGamma           = 3.0
	MinNormalSmooth    = 0.0
	MaxNormalSmooth    = 1.0
	MinRampSize        = 8
	MaxRampSize        = 16
)

// ParamVector is the tunable render configuration the controller searches
// over. SamplesPerPixel and NormalSmooth are carried as search axes but do
// not yet influence the baseline rasterizer.
type ParamVector struct {
	ResolutionScale float64
	SamplesPerPixel int
	Gamma           float64
	NormalSmooth    float64
	RampSize        int
}

// FromRenderConfig builds a ParamVector from the tunable fields of a render
// configuration.
func FromRenderConfig(rc config.RenderConfig) ParamVector {
	return ParamVector{
		ResolutionScale: rc.ResolutionScale,
		SamplesPerPixel: rc.SamplesPerPixel,
		Gamma:           rc.Gamma,
		NormalSmooth:    rc.NormalSmooth,
		RampSize:        rc.RampSize,
	}.Clamp()
}

// Clamp returns a copy with every field forced into its domain. Clamping is
// absorbing: an in-domain vector comes back unchanged.
func (p ParamVector) Clamp() ParamVector {
	p.ResolutionScale = utils.ClampFloat64(p.ResolutionScale, MinResolutionScale, MaxResolutionScale)
	p.SamplesPerPixel = utils.Clamp(p.SamplesPerPixel, MinSamplesPerPixel, MaxSamplesPerPixel)
	p.Gamma = utils.ClampFloat64(p.Gamma, MinGamma, MaxGamma)
	p.NormalSmooth = utils.ClampFloat64(p.NormalSmooth, MinNormalSmooth, MaxNormalSmooth)
	p.RampSize = utils.Clamp(p.RampSize, MinRampSize, MaxRampSize)
	return p
}

// InDomain reports whether every field already lies inside its domain.
func (p ParamVector) InDomain() bool {
	return p == p.Clamp()
}
