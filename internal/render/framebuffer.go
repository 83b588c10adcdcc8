package render

import "strings"

// FrameBuffer is a fixed-size glyph grid with a parallel depth grid. Depth
// entries are a "larger = nearer" distance proxy; a cell is only overwritten
// when a candidate is strictly nearer than the stored value.
type FrameBuffer struct {
	W, H   int
	Glyphs []byte
	Depth  []float64
}

// NewFrameBuffer allocates a cleared w×h frame buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		W:      w,
		H:      h,
		Glyphs: make([]byte, w*h),
		Depth:  make([]float64, w*h),
	}
	fb.Reset()
	return fb
}

// Reset clears every glyph to space and every depth entry to zero.
func (f *FrameBuffer) Reset() {
	for i := range f.Glyphs {
		f.Glyphs[i] = ' '
		f.Depth[i] = 0
	}
}

// At returns the glyph at (x, y). Out-of-bounds coordinates return space.
func (f *FrameBuffer) At(x, y int) byte {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return ' '
	}
	return f.Glyphs[y*f.W+x]
}

// String renders the buffer as H newline-terminated rows.
func (f *FrameBuffer) String() string {
	var sb strings.Builder
	sb.Grow((f.W + 1) * f.H)
	for y := 0; y < f.H; y++ {
		sb.Write(f.Glyphs[y*f.W : (y+1)*f.W])
		sb.WriteByte('\n')
	}
	return sb.String()
}
