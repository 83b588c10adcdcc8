// Package quality derives scalar image metrics from rendered glyph buffers:
// a luminance-like per-glyph density, an edge-sharpness estimate, and a
// similarity measure against a reference frame. All functions are pure and
// total; size mismatches and degenerate buffers yield a defined minimum
// score instead of an error.
package quality

import (
	"math"
	"strings"
)

// referenceRamp ranks the ten canonical shading glyphs from dark to bright.
const referenceRamp = " .:-=+*#%@"

// DefaultSmoothing is the smoothing factor used for HUD metric averaging.
const DefaultSmoothing = 0.1

// CharDensity maps a glyph to a luminance-like value in [0, 1]. Glyphs in
// the reference ramp return their rank; anything else falls back to a
// normalized ASCII-code heuristic.
func CharDensity(c byte) float64 {
	if i := strings.IndexByte(referenceRamp, c); i >= 0 {
		return float64(i) / float64(len(referenceRamp)-1)
	}
	d := (float64(c) - 32.0) / (126.0 - 32.0)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// EstimateQuality returns the mean central-difference gradient magnitude of
// glyph density over the buffer's interior, clamped to [0, 1]. Higher means
// crisper edges. Buffers smaller than 3x3 score zero.
func EstimateQuality(buf []byte, w, h int) float64 {
	if w < 3 || h < 3 || len(buf) < w*h {
		return 0
	}

	acc := 0.0
	cnt := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			off := y*w + x
			gx := 0.5 * (CharDensity(buf[off+1]) - CharDensity(buf[off-1]))
			gy := 0.5 * (CharDensity(buf[off+w]) - CharDensity(buf[off-w]))
			acc += math.Sqrt(gx*gx + gy*gy)
			cnt++
		}
	}
	if cnt == 0 {
		return 0
	}

	avg := acc / float64(cnt)
	if avg < 0 {
		return 0
	}
	if avg > 1 {
		return 1
	}
	return avg
}

// EstimateSimilarity compares a buffer against a reference in density space
// and returns 1 - MSE clamped to [0, 1]. A 1.0 means a pixel-for-pixel
// density match; any dimension or length mismatch returns 0.
func EstimateSimilarity(buf, ref []byte, w, h int) float64 {
	if len(buf) != len(ref) || len(buf) != w*h {
		return 0
	}
	cnt := w * h
	if cnt == 0 {
		return 0
	}

	acc := 0.0
	for i := 0; i < cnt; i++ {
		e := CharDensity(buf[i]) - CharDensity(ref[i])
		acc += e * e
	}

	sim := 1.0 - acc/float64(cnt)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// MovingAverage exponentially smooths a scalar metric.
func MovingAverage(prev, current, alpha float64) float64 {
	return alpha*current + (1.0-alpha)*prev
}
