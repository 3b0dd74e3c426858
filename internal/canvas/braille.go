// Package canvas provides drawing surfaces for the orb: a braille grid for
// the terminal and an RGBA image for snapshots.
package canvas

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

type cell struct {
	pattern uint8
	alpha   float64
	color   colorful.Color
}

type arc struct {
	x, y, r, a0, a1 float64
}

type pt struct{ x, y float64 }

// path is the current canvas path: whole arcs plus polylines.
type path struct {
	arcs  []arc
	lines [][]pt
}

func (p *path) reset() {
	p.arcs = p.arcs[:0]
	p.lines = p.lines[:0]
}

func (p *path) moveTo(x, y float64) {
	p.lines = append(p.lines, []pt{{x, y}})
}

func (p *path) lineTo(x, y float64) {
	if len(p.lines) == 0 {
		p.moveTo(x, y)
		return
	}
	last := len(p.lines) - 1
	p.lines[last] = append(p.lines[last], pt{x, y})
}

func (p *path) closePath() {
	if len(p.lines) == 0 {
		return
	}
	last := p.lines[len(p.lines)-1]
	if len(last) > 1 {
		p.lineTo(last[0].x, last[0].y)
	}
}

// arcPoints flattens an arc outline into a polyline.
func arcPoints(a arc) []pt {
	sweep := a.a1 - a.a0
	n := max(8, int(math.Ceil(math.Abs(sweep)*a.r)))
	out := make([]pt, n+1)
	for i := range out {
		t := a.a0 + sweep*float64(i)/float64(n)
		out[i] = pt{a.x + a.r*math.Cos(t), a.y + a.r*math.Sin(t)}
	}
	return out
}

// Braille is a surface whose pixels are the dots of a cols×rows grid of
// Unicode braille cells. Each cell takes the colour of the most opaque fill
// that touched it. Surface sizes are in dots.
type Braille struct {
	cols, rows int
	cells      []cell

	path   path
	alpha  float64
	fill   color.Color
	stroke color.Color

	profile termenv.Profile
	seqs    map[string]string
}

// NewBraille returns a blank grid coloured for the terminal's profile.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{
		profile: termenv.EnvColorProfile(),
		seqs:    make(map[string]string),
	}
	b.Resize(cols, rows)
	return b
}

// Resize reallocates the grid and discards its contents.
func (b *Braille) Resize(cols, rows int) {
	b.cols, b.rows = max(cols, 0), max(rows, 0)
	b.cells = make([]cell, b.cols*b.rows)
	b.alpha = 1
	b.fill = color.White
	b.stroke = color.White
	b.path.reset()
}

// SetProfile overrides the detected colour profile.
func (b *Braille) SetProfile(p termenv.Profile) {
	b.profile = p
	b.seqs = make(map[string]string)
}

func (b *Braille) Size() (int, int) { return b.cols * 2, b.rows * 4 }

func (b *Braille) ClearRect(x, y, w, h float64) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for dy := max(y0, 0); dy < min(y1, b.rows*4); dy++ {
		for dx := max(x0, 0); dx < min(x1, b.cols*2); dx++ {
			c := &b.cells[(dy/4)*b.cols+dx/2]
			c.pattern &^= 1 << brailleBits[dx%2][dy%4]
			if c.pattern == 0 {
				*c = cell{}
			}
		}
	}
}

func (b *Braille) BeginPath()                   { b.path.reset() }
func (b *Braille) ClosePath()                   { b.path.closePath() }
func (b *Braille) MoveTo(x, y float64)          { b.path.moveTo(x, y) }
func (b *Braille) LineTo(x, y float64)          { b.path.lineTo(x, y) }
func (b *Braille) SetGlobalAlpha(a float64)     { b.alpha = clamp01(a) }
func (b *Braille) SetFillStyle(c color.Color)   { b.fill = c }
func (b *Braille) SetStrokeStyle(c color.Color) { b.stroke = c }

// SetLineWidth is a no-op: strokes are always one dot wide.
func (b *Braille) SetLineWidth(float64) {}

func (b *Braille) Arc(x, y, r, a0, a1 float64) {
	b.path.arcs = append(b.path.arcs, arc{x, y, r, a0, a1})
}

// Fill paints every arc of the path as a whole disc. Polylines are only
// stroked.
func (b *Braille) Fill() {
	if b.alpha == 0 {
		return
	}
	col := shade(b.fill, b.alpha)
	for _, a := range b.path.arcs {
		b.disc(a.x, a.y, a.r, col)
	}
}

// Stroke traces the polylines and arc outlines one dot wide.
func (b *Braille) Stroke() {
	if b.alpha == 0 {
		return
	}
	col := shade(b.stroke, b.alpha)
	for _, line := range b.path.lines {
		b.polyline(line, col)
	}
	for _, a := range b.path.arcs {
		b.polyline(arcPoints(a), col)
	}
}

func (b *Braille) disc(cx, cy, r float64, col colorful.Color) {
	b.set(int(math.Floor(cx)), int(math.Floor(cy)), col)
	r2 := r * r
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				b.set(x, y, col)
			}
		}
	}
}

func (b *Braille) polyline(line []pt, col colorful.Color) {
	if len(line) == 1 {
		b.set(int(math.Floor(line[0].x)), int(math.Floor(line[0].y)), col)
		return
	}
	for i := 1; i < len(line); i++ {
		b.segment(line[i-1], line[i], col)
	}
}

// segment draws a Bresenham line between two points.
func (b *Braille) segment(p0, p1 pt, col colorful.Color) {
	x0, y0 := int(math.Floor(p0.x)), int(math.Floor(p0.y))
	x1, y1 := int(math.Floor(p1.x)), int(math.Floor(p1.y))

	// Keep far-off points from turning into enormous loops.
	limit := 4 * (b.cols*2 + b.rows*4)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	if dx > limit || -dy > limit {
		return
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		b.set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (b *Braille) set(x, y int, col colorful.Color) {
	if x < 0 || y < 0 || x >= b.cols*2 || y >= b.rows*4 {
		return
	}
	c := &b.cells[(y/4)*b.cols+x/2]
	c.pattern |= 1 << brailleBits[x%2][y%4]
	if b.alpha >= c.alpha {
		c.alpha = b.alpha
		c.color = col
	}
}

// Cell returns the braille rune at a grid position and whether any of its
// dots are lit.
func (b *Braille) Cell(col, row int) (rune, bool) {
	if col < 0 || row < 0 || col >= b.cols || row >= b.rows {
		return 0, false
	}
	c := b.cells[row*b.cols+col]
	return rune(0x2800 + uint(c.pattern)), c.pattern != 0
}

// View renders the grid as rows of braille runes with ANSI colour.
func (b *Braille) View() string {
	var sb strings.Builder
	sb.Grow(b.rows * (b.cols*3 + 1))
	ansi := newANSIState(b.profile, b.seqs)
	for row := range b.rows {
		if row > 0 {
			ansi.reset(&sb)
			sb.WriteByte('\n')
		}
		for col := range b.cols {
			c := b.cells[row*b.cols+col]
			if c.pattern != 0 {
				ansi.set(&sb, c.color)
			}
			sb.WriteRune(rune(0x2800 + uint(c.pattern)))
		}
	}
	ansi.reset(&sb)
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
