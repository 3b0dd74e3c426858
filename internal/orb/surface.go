package orb

import "image/color"

// Surface is a 2D raster drawing context with canvas-style path semantics:
// BeginPath starts a new path, Arc and MoveTo/LineTo extend it, Fill and
// Stroke paint it with the current style and global alpha.
type Surface interface {
	Size() (width, height int)
	ClearRect(x, y, w, h float64)

	BeginPath()
	ClosePath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)

	SetGlobalAlpha(a float64)
	SetFillStyle(c color.Color)
	SetStrokeStyle(c color.Color)
	SetLineWidth(w float64)

	Fill()
	Stroke()
}
