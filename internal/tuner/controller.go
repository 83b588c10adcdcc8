package tuner

// EvaluateFunc scores a candidate parameter vector. It is expected to be
// expensive (a full render per call) and is the controller's only view of a
// candidate's effect.
type EvaluateFunc func(ParamVector) float64

// Controller mode tags.
const (
	ModeK  = "K"
	ModeKH = "K+H"
)

// StepSuggestion is the controller's answer: the best candidate found and
// the mode that produced it.
type StepSuggestion struct {
	Next ParamVector
	Mode string
}

// ProbeDeltas are the fixed per-axis nudge sizes used when probing
// neighboring candidates.
type ProbeDeltas struct {
	Scale   float64
	Samples int
	Gamma   float64
	Smooth  float64
	Ramp    int
}

// DefaultProbeDeltas returns the standard probe step sizes.
func DefaultProbeDeltas() ProbeDeltas {
	return ProbeDeltas{
		Scale:   0.05,
		Samples: 1,
		Gamma:   0.1,
		Smooth:  0.1,
		Ramp:    2,
	}
}

// SuggestStep runs one controller step: single-axis probing, optionally
// augmented with pairwise synergy probing. The returned candidate's score is
// never below the input's, since the baseline is always among the probed
// candidates.
func SuggestStep(current ParamVector, evaluate EvaluateFunc, useSynergy bool) StepSuggestion {
	d := DefaultProbeDeltas()
	if useSynergy {
		return SuggestStepKH(current, evaluate, d)
	}
	return SuggestStepK(current, evaluate, d)
}

// axisProbes returns the single-axis candidate generators in their fixed
// scan order: resolution scale, samples per pixel, gamma, normal smooth,
// ramp size, each nudged plus then minus. The order is part of the
// reproducibility contract: ties keep the first-found candidate.
func axisProbes(d ProbeDeltas) []func(ParamVector) ParamVector {
	return []func(ParamVector) ParamVector{
		func(p ParamVector) ParamVector { p.ResolutionScale += d.Scale; return p },
		func(p ParamVector) ParamVector { p.ResolutionScale -= d.Scale; return p },
		func(p ParamVector) ParamVector { p.SamplesPerPixel += d.Samples; return p },
		func(p ParamVector) ParamVector { p.SamplesPerPixel -= d.Samples; return p },
		func(p ParamVector) ParamVector { p.Gamma += d.Gamma; return p },
		func(p ParamVector) ParamVector { p.Gamma -= d.Gamma; return p },
		func(p ParamVector) ParamVector { p.NormalSmooth += d.Smooth; return p },
		func(p ParamVector) ParamVector { p.NormalSmooth -= d.Smooth; return p },
		func(p ParamVector) ParamVector { p.RampSize += d.Ramp; return p },
		func(p ParamVector) ParamVector { p.RampSize -= d.Ramp; return p },
	}
}

// SuggestStepK probes each axis with a fixed delta in both directions and
// returns the strictly best candidate, keeping the incumbent on ties.
func SuggestStepK(current ParamVector, evaluate EvaluateFunc, d ProbeDeltas) StepSuggestion {
	base := evaluate(current)

	best := current
	bestScore := base
	for _, probe := range axisProbes(d) {
		candidate := probe(current).Clamp()
		if s := evaluate(candidate); s > bestScore {
			best = candidate
			bestScore = s
		}
	}

	return StepSuggestion{Next: best, Mode: ModeK}
}

// pairProbes returns the fixed axis pairs considered for synergy, in order:
// resolution scale with samples per pixel (both up), gamma with normal
// smooth (both up), and resolution scale down with gamma up.
func pairProbes(d ProbeDeltas) [][2]func(ParamVector) ParamVector {
	return [][2]func(ParamVector) ParamVector{
		{
			func(p ParamVector) ParamVector { p.ResolutionScale += d.Scale; return p },
			func(p ParamVector) ParamVector { p.SamplesPerPixel += d.Samples; return p },
		},
		{
			func(p ParamVector) ParamVector { p.Gamma += d.Gamma; return p },
			func(p ParamVector) ParamVector { p.NormalSmooth += d.Smooth; return p },
		},
		{
			func(p ParamVector) ParamVector { p.ResolutionScale -= d.Scale; return p },
			func(p ParamVector) ParamVector { p.Gamma += d.Gamma; return p },
		},
	}
}

// SuggestStepKH runs K-mode first, then probes the fixed axis pairs for
// super-additive gains. A combined candidate is accepted only when its
// synergy against the unmodified starting vector is positive and its score
// beats the running best. Each pair probes independently from the starting
// vector; an earlier accepted pair does not move the baseline for later
// pairs.
func SuggestStepKH(current ParamVector, evaluate EvaluateFunc, d ProbeDeltas) StepSuggestion {
	best := SuggestStepK(current, evaluate, d)
	bestScore := evaluate(best.Next)

	for _, pair := range pairProbes(d) {
		applyA, applyB := pair[0], pair[1]

		pa := applyA(current).Clamp()
		pb := applyB(current).Clamp()
		pab := applyB(pa).Clamp()

		s0 := evaluate(current)
		sa := evaluate(pa)
		sb := evaluate(pb)
		sab := evaluate(pab)

		synergy := (sab - s0) - ((sa - s0) + (sb - s0))
		if synergy > 0 && sab > bestScore {
			best = StepSuggestion{Next: pab, Mode: ModeKH}
			bestScore = sab
		}
	}

	return best
}
