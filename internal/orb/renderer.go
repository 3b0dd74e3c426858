package orb

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync/atomic"
)

var (
	ErrNoSurface    = errors.New("no drawing surface")
	ErrEmptySurface = errors.New("drawing surface has no area")
	ErrNoAccessor   = errors.New("no audio state accessor")
)

// Renderer animates the audio-reactive sphere.
//
// Frame is meant to be called from a single goroutine. Stop may be called
// from anywhere; a frame in progress abandons its remaining dots.
type Renderer struct {
	surface Surface
	get     Accessor
	cfg     Config
	noise   NoiseFunc
	camera  Camera
	cloud   *Cloud

	width, height float64

	radius   float64
	rotation float64
	energy   float64

	stopped atomic.Bool
}

// NewRenderer validates its inputs and builds the point cloud. The surface
// size is read once; recreate the renderer when the surface is resized.
func NewRenderer(s Surface, get Accessor, cfg Config) (*Renderer, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	if get == nil {
		return nil, ErrNoAccessor
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptySurface, w, h)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	noise := cfg.Noise
	if noise == nil {
		noise = NewSimplexNoise(cfg.Seed)
	}
	if cfg.Tint == nil {
		cfg.Tint = color.White
	}

	cloud, err := NewCloud(cfg.DotCount, cfg.InactiveRadius, cfg.CenterZ, newRand(cfg.Seed))
	if err != nil {
		return nil, err
	}

	return &Renderer{
		surface: s,
		get:     get,
		cfg:     cfg,
		noise:   noise,
		camera: Camera{
			FieldOfView: cfg.FieldOfView,
			CenterZ:     cfg.CenterZ,
			CenterX:     float64(w) / 2,
			CenterY:     float64(h) / 2,
		},
		cloud:  cloud,
		width:  float64(w),
		height: float64(h),
		radius: cfg.InactiveRadius,
	}, nil
}

// Frame advances the animation to ts and paints it.
func (r *Renderer) Frame(ts float64) bool {
	if r.stopped.Load() {
		return false
	}

	r.surface.ClearRect(0, 0, r.width, r.height)

	st := r.get()

	target := r.cfg.InactiveRadius
	dotRadius := r.cfg.DotRadius
	if st.Active {
		target = r.cfg.ActiveRadius
		dotRadius = r.cfg.ActiveDotRadius
	}
	r.radius += (target - r.radius) / r.cfg.Smoothing

	r.rotation = ts * r.cfg.RotationRate
	sin, cos := math.Sincos(r.rotation)

	r.energy = Energy(st.Analyser, st.Data, r.cfg.EnergyDivisor)

	span := r.cfg.MaxRadius - r.cfg.MinRadius
	z := ts * r.cfg.NoiseTimeScale

	for i := range r.cloud.points {
		if r.stopped.Load() {
			return false
		}
		p := &r.cloud.points[i]
		n := sanitizeNoise(r.noise(p.Location.X/r.cfg.NoiseScale, p.Location.Y/r.cfg.NoiseScale, z))

		radius := r.radius
		if st.Active {
			radius = clamp(r.radius+n*span*r.energy, r.cfg.MinRadius, r.cfg.MaxRadius)
		}
		p.place(radius, r.cfg.CenterZ)

		r.draw(r.camera.Project(p, sin, cos), dotRadius, n)
	}
	return true
}

func (r *Renderer) draw(pr Projection, dotRadius, noise float64) {
	c := r.cfg.Tint
	if r.cfg.Mode == ColorByNoise {
		c = r.cfg.Palette.ByNoise(noise)
	}

	s := r.surface
	s.BeginPath()
	s.Arc(pr.X, pr.Y, dotRadius*pr.Size, 0, 2*math.Pi)
	s.ClosePath()
	s.SetGlobalAlpha(clamp(pr.Size, 0, 1))
	s.SetFillStyle(c)
	s.Fill()
}

// Stop cancels the renderer. It is safe to call more than once.
func (r *Renderer) Stop() { r.stopped.Store(true) }

// Running reports whether Stop has not been called yet.
func (r *Renderer) Running() bool { return !r.stopped.Load() }

// SetMode switches between palette and monochrome colouring.
func (r *Renderer) SetMode(m Mode) { r.cfg.Mode = m }

// Mode returns the colouring mode.
func (r *Renderer) Mode() Mode { return r.cfg.Mode }

// Radius returns the smoothed sphere radius.
func (r *Renderer) Radius() float64 { return r.radius }

// Rotation returns the rotation angle of the last frame.
func (r *Renderer) Rotation() float64 { return r.rotation }

// Energy returns the noise factor sampled in the last frame.
func (r *Renderer) Energy() float64 { return r.energy }

// Cloud exposes the point cloud.
func (r *Renderer) Cloud() *Cloud { return r.cloud }

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() Config { return r.cfg }

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
