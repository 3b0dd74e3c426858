package orb

import (
	"errors"
	"math"
	"math/rand/v2"
)

// ErrInvalidDotCount is returned when a cloud is requested with a negative size.
var ErrInvalidDotCount = errors.New("dot count must not be negative")

// Vec3 is a position in scene space.
type Vec3 struct {
	X, Y, Z float64
}

// Projection is a point's screen position and perspective scale for the
// current frame. It is scratch space, overwritten every frame.
type Projection struct {
	X, Y, Size float64
}

// Point is one particle on the sphere. Its angles are fixed at creation;
// only the radius it is placed at changes.
type Point struct {
	Location   Vec3
	Projection Projection

	theta, phi float64

	// cached trig of the fixed angles
	sinTheta, cosTheta float64
	sinPhi, cosPhi     float64
}

func newPoint(theta, phi float64) Point {
	p := Point{theta: theta, phi: phi}
	p.sinTheta, p.cosTheta = math.Sincos(theta)
	p.sinPhi, p.cosPhi = math.Sincos(phi)
	return p
}

// Theta returns the azimuth in [0, 2π).
func (p *Point) Theta() float64 { return p.theta }

// Phi returns the polar angle in [0, π].
func (p *Point) Phi() float64 { return p.phi }

// place moves the point to radius r along its fixed direction.
func (p *Point) place(r, centerZ float64) {
	p.Location.X = r * p.sinPhi * p.cosTheta
	p.Location.Y = r * p.sinPhi * p.sinTheta
	p.Location.Z = r*p.cosPhi + centerZ
}

// Cloud is a fixed-size set of points on a sphere.
type Cloud struct {
	points []Point
}

// NewCloud distributes n points over the surface of a sphere of the given
// radius centred at (0, 0, centerZ). Polar angles are drawn through the
// inverse CDF so the density is uniform per unit area rather than bunched at
// the poles. A nil rng uses a fixed seed.
func NewCloud(n int, radius, centerZ float64, rng *rand.Rand) (*Cloud, error) {
	if n < 0 {
		return nil, ErrInvalidDotCount
	}
	if rng == nil {
		rng = newRand(0)
	}

	c := &Cloud{points: make([]Point, n)}
	for i := range c.points {
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(rng.Float64()*2 - 1)
		c.points[i] = newPoint(theta, phi)
		c.points[i].place(radius, centerZ)
	}
	return c, nil
}

// Len returns the number of points.
func (c *Cloud) Len() int { return len(c.points) }

// At returns the i-th point.
func (c *Cloud) At(i int) *Point { return &c.points[i] }

// Place moves the i-th point to radius r.
func (c *Cloud) Place(i int, r, centerZ float64) {
	c.points[i].place(r, centerZ)
}

func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
