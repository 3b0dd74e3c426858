package orb

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid orb config")

// Mode selects how dots are coloured.
type Mode int

const (
	// ColorByNoise looks each dot's colour up in the palette.
	ColorByNoise Mode = iota
	// Monochrome paints every dot in Tint; depth shows through alpha only.
	Monochrome
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case Monochrome:
		return "mono"
	default:
		return "color"
	}
}

// Next cycles to the other mode.
func (m Mode) Next() Mode {
	if m == Monochrome {
		return ColorByNoise
	}
	return Monochrome
}

// Config holds the tunables of the orb. Lengths are in surface pixels,
// angles in radians and times in milliseconds.
//
// MinRadius and MaxRadius clamp only the audio-deformed radius of an active
// orb. The idle sphere rests at InactiveRadius, which may sit below
// MinRadius, and the smoothed radius passes through the gap while it
// settles.
type Config struct {
	DotCount        int
	DotRadius       float64 // idle dot radius before perspective scaling
	ActiveDotRadius float64

	InactiveRadius float64 // sphere radius targeted while idle
	ActiveRadius   float64 // sphere radius targeted while audio is live
	MinRadius      float64 // lower clamp of the audio-deformed radius
	MaxRadius      float64 // upper clamp of the audio-deformed radius

	// Smoothing divides the remaining distance to the target radius each
	// frame, so it sets the settle time in frames. Must be >= 1.
	Smoothing float64

	FieldOfView float64
	CenterZ     float64

	RotationRate   float64 // radians per millisecond
	NoiseScale     float64 // spatial divisor applied before sampling noise
	NoiseTimeScale float64 // noise z per millisecond
	EnergyDivisor  float64

	Palette Palette
	Mode    Mode
	Tint    color.Color

	Seed  int64
	Noise NoiseFunc // nil selects simplex noise seeded with Seed
}

// DefaultConfig returns the standard orb sized for a surface of the given
// height.
func DefaultConfig(height float64) Config {
	active := height * 0.4
	return Config{
		DotCount:        1500,
		DotRadius:       1,
		ActiveDotRadius: 1.25,
		InactiveRadius:  height * 0.15,
		ActiveRadius:    active,
		MinRadius:       height * 0.35,
		MaxRadius:       height * 0.65,
		Smoothing:       4,
		FieldOfView:     height * 0.8,
		CenterZ:         -active,
		RotationRate:    0.0002,
		NoiseScale:      80,
		NoiseTimeScale:  0.001,
		EnergyDivisor:   DefaultEnergyDivisor,
		Palette:         DefaultPalette,
		Mode:            ColorByNoise,
		Tint:            color.White,
	}
}

// reach is the furthest any dot can get from the sphere centre.
func (c Config) reach() float64 {
	return math.Max(math.Max(c.InactiveRadius, c.ActiveRadius), c.MaxRadius)
}

// Validate checks the invariants the render loop relies on.
func (c Config) Validate() error {
	switch {
	case c.DotCount < 0:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidDotCount)
	case c.Smoothing < 1:
		return fmt.Errorf("%w: smoothing %.3g must be >= 1", ErrInvalidConfig, c.Smoothing)
	case c.InactiveRadius <= 0 || c.ActiveRadius <= 0:
		return fmt.Errorf("%w: target radii must be positive", ErrInvalidConfig)
	case c.MinRadius <= 0 || c.MinRadius > c.MaxRadius:
		return fmt.Errorf("%w: radius clamp [%.3g, %.3g] is empty", ErrInvalidConfig, c.MinRadius, c.MaxRadius)
	case c.NoiseScale <= 0:
		return fmt.Errorf("%w: noise scale must be positive", ErrInvalidConfig)
	case c.FieldOfView <= 0 || c.CenterZ+c.reach() >= c.FieldOfView:
		return fmt.Errorf("%w: field of view %.3g does not clear the sphere", ErrInvalidConfig, c.FieldOfView)
	}
	return nil
}
