package tuner

import (
	"testing"

	"github.com/pstagner/toruscope/pkg/config"
)

func interiorVector() ParamVector {
	return ParamVector{
		ResolutionScale: 0.5,
		SamplesPerPixel: 2,
		Gamma:           1.0,
		NormalSmooth:    0.5,
		RampSize:        12,
	}
}

func TestClampAbsorbing(t *testing.T) {
	p := interiorVector()
	if p.Clamp() != p {
		t.Errorf("clamping an in-domain vector must be a no-op: %+v vs %+v", p.Clamp(), p)
	}
	if !p.InDomain() {
		t.Errorf("interior vector should report InDomain")
	}
}

func TestClampOutOfDomain(t *testing.T) {
	tests := []struct {
		name     string
		in       ParamVector
		expected ParamVector
	}{
		{
			"all fields above",
			ParamVector{ResolutionScale: 5, SamplesPerPixel: 10, Gamma: 9, NormalSmooth: 3, RampSize: 99},
			ParamVector{ResolutionScale: 1.0, SamplesPerPixel: 4, Gamma: 3.0, NormalSmooth: 1.0, RampSize: 16},
		},
		{
			"all fields below",
			ParamVector{ResolutionScale: 0, SamplesPerPixel: 0, Gamma: 0, NormalSmooth: -1, RampSize: 0},
			ParamVector{ResolutionScale: 0.25, SamplesPerPixel: 1, Gamma: 0.5, NormalSmooth: 0.0, RampSize: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			if got != tt.expected {
				t.Errorf("Clamp(%+v) = %+v, expected %+v", tt.in, got, tt.expected)
			}
			if !got.InDomain() {
				t.Errorf("clamped vector must be in domain: %+v", got)
			}
		})
	}
}

func TestFromRenderConfig(t *testing.T) {
	rc := config.RenderConfig{
		ResolutionScale: 0.75,
		SamplesPerPixel: 2,
		Gamma:           1.8,
		NormalSmooth:    0.3,
		RampSize:        10,
	}

	pv := FromRenderConfig(rc)
	expected := ParamVector{ResolutionScale: 0.75, SamplesPerPixel: 2, Gamma: 1.8, NormalSmooth: 0.3, RampSize: 10}
	if pv != expected {
		t.Errorf("FromRenderConfig = %+v, expected %+v", pv, expected)
	}

	// Out-of-domain config values are clamped on the way in.
	rc.Gamma = 100
	if got := FromRenderConfig(rc).Gamma; got != MaxGamma {
		t.Errorf("expected gamma clamped to %f, got %f", float64(MaxGamma), got)
	}
}
