package orb

import (
	"image/color"
	"sync/atomic"
)

// DefaultScopeColor is the trace colour of the oscilloscope scene.
var DefaultScopeColor = color.RGBA{R: 0xff, G: 0x75, B: 0xdd, A: 0xff}

// Scope traces the analyser's time-domain samples across the surface.
type Scope struct {
	surface Surface
	get     Accessor
	stroke  color.Color

	width, height float64

	stopped atomic.Bool
}

// NewScope builds an oscilloscope scene. A nil stroke uses DefaultScopeColor.
func NewScope(s Surface, get Accessor, stroke color.Color) (*Scope, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	if get == nil {
		return nil, ErrNoAccessor
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptySurface
	}
	if stroke == nil {
		stroke = DefaultScopeColor
	}
	return &Scope{
		surface: s,
		get:     get,
		stroke:  stroke,
		width:   float64(w),
		height:  float64(h),
	}, nil
}

// Frame draws the current waveform. Without an analyser it draws the
// silent centre line.
func (sc *Scope) Frame(float64) bool {
	if sc.stopped.Load() {
		return false
	}

	s := sc.surface
	s.ClearRect(0, 0, sc.width, sc.height)
	s.SetGlobalAlpha(1)
	s.SetLineWidth(2)
	s.SetStrokeStyle(sc.stroke)
	s.BeginPath()

	mid := sc.height / 2
	st := sc.get()
	if st.Analyser == nil || len(st.Data) == 0 {
		s.MoveTo(0, mid)
		s.LineTo(sc.width, mid)
		s.Stroke()
		return true
	}

	st.Analyser.ByteTimeDomainData(st.Data)

	step := sc.width / float64(len(st.Data))
	x := 0.0
	for i, b := range st.Data {
		y := float64(b) / 128 * sc.height / 2
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
		x += step
	}
	s.LineTo(sc.width, mid)
	if sc.stopped.Load() {
		return false
	}
	s.Stroke()
	return true
}

// Stop cancels the scope. It is safe to call more than once.
func (sc *Scope) Stop() { sc.stopped.Store(true) }

// Running reports whether Stop has not been called yet.
func (sc *Scope) Running() bool { return !sc.stopped.Load() }
