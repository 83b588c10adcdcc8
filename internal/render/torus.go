package render

import "math"

// TorusModel is the per-session torus geometry: major radius R (center of
// torus to center of tube) and minor radius r (tube radius), with r < R.
type TorusModel struct {
	MajorRadius float64
	MinorRadius float64
}

// Camera holds the perspective divisor offset along +z after rotation.
type Camera struct {
	Distance float64
}

// Projection and sampling constants. The angular steps are fixed rather than
// derived from resolution, so point density per screen cell rises as the
// resolution scale drops.
const (
	// ProjectionScale is the K1 perspective scale factor.
	ProjectionScale = 20.0
	// VerticalAspect corrects for character cells being taller than wide.
	VerticalAspect = 0.5
	// ThetaStep is the sampling step around the tube, in radians.
	ThetaStep = 0.07
	// PhiStep is the sampling step around the torus, in radians.
	PhiStep = 0.02
)

// Fixed light direction.
const (
	lightX = 0.0
	lightY = 1.0
	lightZ = -1.0
)

// RenderTorus rasterizes one torus frame into fb. The surface is swept in
// theta/phi, rotated about Z by b then about X by a, perspective-projected,
// shaded from the analytic normal against the fixed light, inverse-gamma
// tone mapped onto the ramp, and depth-tested with strict greater-than so a
// later point at the same pixel never displaces an equally near earlier one.
// The function is pure and total: identical inputs yield identical buffers,
// and points projecting outside the buffer are discarded silently.
func RenderTorus(fb *FrameBuffer, a, b float64, model TorusModel, ramp string, gamma, camDistance float64) {
	fb.Reset()

	bigR := model.MajorRadius
	r := model.MinorRadius

	cosA, sinA := math.Cos(a), math.Sin(a)
	cosB, sinB := math.Cos(b), math.Sin(b)

	w, h := fb.W, fb.H

	for theta := 0.0; theta < 2*math.Pi; theta += ThetaStep {
		cosTheta, sinTheta := math.Cos(theta), math.Sin(theta)
		for phi := 0.0; phi < 2*math.Pi; phi += PhiStep {
			cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

			// Surface point before rotation
			cx := (bigR + r*cosTheta) * cosPhi
			cy := (bigR + r*cosTheta) * sinPhi
			cz := r * sinTheta

			// Rotate about Z by b, then about X by a
			x := cx*cosB - cy*sinB
			y := cx*sinB + cy*cosB
			z := cz

			y2 := y*cosA - z*sinA
			z2 := y*sinA + z*cosA

			ooz := 1.0 / (z2 + camDistance)

			xp := int(float64(w)/2 + ProjectionScale*ooz*x)
			yp := int(float64(h)/2 + ProjectionScale*ooz*y2*VerticalAspect)

			// Analytic surface normal, rotated through the same sequence
			nx := cosTheta * cosPhi
			ny := cosTheta * sinPhi
			nz := sinTheta

			nxr := nx*cosB - ny*sinB
			nyr := nx*sinB + ny*cosB
			nzr := nz

			nny := nyr*cosA - nzr*sinA
			nnz := nyr*sinA + nzr*cosA
			nnx := nxr

			lum := nnx*lightX + nny*lightY + nnz*lightZ
			if lum < 0 {
				lum = 0
			}

			shade := lum
			if gamma > 0 {
				shade = math.Pow(lum, 1.0/gamma)
			}
			idx := int(math.Floor(shade * float64(len(ramp)-1)))
			if idx < 0 {
				idx = 0
			} else if idx > len(ramp)-1 {
				idx = len(ramp) - 1
			}

			if xp >= 0 && xp < w && yp >= 0 && yp < h {
				off := yp*w + xp
				if ooz > fb.Depth[off] {
					fb.Depth[off] = ooz
					fb.Glyphs[off] = ramp[idx]
				}
			}
		}
	}
}
