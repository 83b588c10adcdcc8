package render

import "math"

// MasterRamp is the fixed glyph sequence, darkest to brightest, that all
// shading ramps are resampled from.
const MasterRamp = " .:-=+*#%@adkfkajnondvakdfaoivqevlasdkjfacvu"

// BuildRamp resamples MasterRamp down (or up) to the requested size using
// nearest-neighbor selection. The result is a pure function of size: the
// same size always yields the same ramp, and the master ramp's own length
// returns it unmodified.
func BuildRamp(size int) string {
	base := MasterRamp
	if size == len(base) {
		return base
	}
	if size < 1 {
		size = 1
	}

	ramp := make([]byte, 0, size)
	for i := 0; i < size; i++ {
		t := 0.0
		if size > 1 {
			t = float64(i) / float64(size-1)
		}
		idx := t * float64(len(base)-1)
		i0 := int(math.Floor(idx))
		i1 := i0 + 1
		if i1 > len(base)-1 {
			i1 = len(base) - 1
		}
		if idx-float64(i0) < 0.5 {
			ramp = append(ramp, base[i0])
		} else {
			ramp = append(ramp, base[i1])
		}
	}
	return string(ramp)
}
