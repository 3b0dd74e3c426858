package orb

import "image/color"

type spySurface struct {
	w, h int

	clears  int
	arcs    int
	fills   int
	strokes int
	lines   int
	alphas  []float64
	fillsBy []color.Color
}

func newSpySurface(w, h int) *spySurface {
	return &spySurface{w: w, h: h}
}

func (s *spySurface) Size() (int, int) { return s.w, s.h }

func (s *spySurface) ClearRect(x, y, w, h float64) { s.clears++ }
func (s *spySurface) BeginPath()                   {}
func (s *spySurface) ClosePath()                   {}
func (s *spySurface) MoveTo(x, y float64)          {}
func (s *spySurface) LineTo(x, y float64)          { s.lines++ }
func (s *spySurface) Arc(x, y, r, a0, a1 float64)  { s.arcs++ }
func (s *spySurface) SetGlobalAlpha(a float64)     { s.alphas = append(s.alphas, a) }
func (s *spySurface) SetFillStyle(c color.Color)   { s.fillsBy = append(s.fillsBy, c) }
func (s *spySurface) SetStrokeStyle(c color.Color) {}
func (s *spySurface) SetLineWidth(w float64)       {}
func (s *spySurface) Fill()                        { s.fills++ }
func (s *spySurface) Stroke()                      { s.strokes++ }

func (s *spySurface) drawCalls() int {
	return s.clears + s.arcs + s.fills + s.strokes + s.lines
}

// constAnalyser reports the same byte in every bin.
type constAnalyser struct {
	bins  int
	value byte
	calls int
}

func (a *constAnalyser) FrequencyBinCount() int { return a.bins }

func (a *constAnalyser) ByteFrequencyData(dst []byte) {
	a.calls++
	for i := range dst {
		dst[i] = a.value
	}
}

func (a *constAnalyser) ByteTimeDomainData(dst []byte) {
	for i := range dst {
		dst[i] = a.value
	}
}

func flatNoise(v float64) NoiseFunc {
	return func(x, y, z float64) float64 { return v }
}
