package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// Image is an anti-aliased surface backed by an RGBA image.
type Image struct {
	img        *image.RGBA
	raster     *vector.Rasterizer
	background color.Color

	path      path
	alpha     float64
	fill      color.Color
	stroke    color.Color
	lineWidth float64
}

// NewImage returns a w×h surface cleared to bg. A nil bg is opaque black.
func NewImage(w, h int, bg color.Color) *Image {
	if bg == nil {
		bg = color.Black
	}
	im := &Image{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		raster:     vector.NewRasterizer(w, h),
		background: bg,
		alpha:      1,
		fill:       color.White,
		stroke:     color.White,
		lineWidth:  1,
	}
	im.ClearRect(0, 0, float64(w), float64(h))
	return im
}

// RGBA exposes the backing image.
func (im *Image) RGBA() *image.RGBA { return im.img }

func (im *Image) Size() (int, int) {
	b := im.img.Bounds()
	return b.Dx(), b.Dy()
}

// ClearRect paints the rectangle with the background colour.
func (im *Image) ClearRect(x, y, w, h float64) {
	r := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(im.img.Bounds())
	draw.Draw(im.img, r, image.NewUniform(im.background), image.Point{}, draw.Src)
}

func (im *Image) BeginPath()                   { im.path.reset() }
func (im *Image) ClosePath()                   { im.path.closePath() }
func (im *Image) MoveTo(x, y float64)          { im.path.moveTo(x, y) }
func (im *Image) LineTo(x, y float64)          { im.path.lineTo(x, y) }
func (im *Image) SetGlobalAlpha(a float64)     { im.alpha = clamp01(a) }
func (im *Image) SetFillStyle(c color.Color)   { im.fill = c }
func (im *Image) SetStrokeStyle(c color.Color) { im.stroke = c }
func (im *Image) SetLineWidth(w float64)       { im.lineWidth = w }

func (im *Image) Arc(x, y, r, a0, a1 float64) {
	im.path.arcs = append(im.path.arcs, arc{x, y, r, a0, a1})
}

// Fill paints each arc as a disc and each polyline of three or more points
// as a closed polygon.
func (im *Image) Fill() {
	if im.alpha == 0 {
		return
	}
	w, h := im.Size()
	z := im.raster
	z.Reset(w, h)
	for _, a := range im.path.arcs {
		circle(z, a.x, a.y, a.r)
	}
	for _, line := range im.path.lines {
		if len(line) < 3 {
			continue
		}
		z.MoveTo(float32(line[0].x), float32(line[0].y))
		for _, p := range line[1:] {
			z.LineTo(float32(p.x), float32(p.y))
		}
		z.ClosePath()
	}
	im.paint(im.fill)
}

// Stroke outlines polylines and arcs with the current line width.
func (im *Image) Stroke() {
	if im.alpha == 0 || im.lineWidth <= 0 {
		return
	}
	w, h := im.Size()
	z := im.raster
	z.Reset(w, h)
	half := im.lineWidth / 2
	for _, line := range im.path.lines {
		for i := 1; i < len(line); i++ {
			quad(z, line[i-1], line[i], half)
		}
	}
	for _, a := range im.path.arcs {
		pts := arcPoints(a)
		for i := 1; i < len(pts); i++ {
			quad(z, pts[i-1], pts[i], half)
		}
	}
	im.paint(im.stroke)
}

func (im *Image) paint(c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * im.alpha))
	im.raster.Draw(im.img, im.img.Bounds(), image.NewUniform(n), image.Point{})
}

// circle adds a closed circle built from four cubic Béziers.
func circle(z *vector.Rasterizer, cx, cy, r float64) {
	k := r * kappa
	f := func(v float64) float32 { return float32(v) }
	z.MoveTo(f(cx+r), f(cy))
	z.CubeTo(f(cx+r), f(cy+k), f(cx+k), f(cy+r), f(cx), f(cy+r))
	z.CubeTo(f(cx-k), f(cy+r), f(cx-r), f(cy+k), f(cx-r), f(cy))
	z.CubeTo(f(cx-r), f(cy-k), f(cx-k), f(cy-r), f(cx), f(cy-r))
	z.CubeTo(f(cx+k), f(cy-r), f(cx+r), f(cy-k), f(cx+r), f(cy))
	z.ClosePath()
}

// quad adds a segment as a rectangle of the given half width. Every quad
// winds the same way so overlaps do not cancel.
func quad(z *vector.Rasterizer, p0, p1 pt, half float64) {
	dx, dy := p1.x-p0.x, p1.y-p0.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	z.MoveTo(float32(p0.x+nx), float32(p0.y+ny))
	z.LineTo(float32(p1.x+nx), float32(p1.y+ny))
	z.LineTo(float32(p1.x-nx), float32(p1.y-ny))
	z.LineTo(float32(p0.x-nx), float32(p0.y-ny))
	z.ClosePath()
}

// WritePNG encodes the surface as PNG.
func (im *Image) WritePNG(w io.Writer) error {
	if err := png.Encode(w, im.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
