package orb

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// NoiseFunc is a smooth 3D noise field with values in [-1, 1].
type NoiseFunc func(x, y, z float64) float64

// NewSimplexNoise returns OpenSimplex noise for the given seed.
func NewSimplexNoise(seed int64) NoiseFunc {
	n := opensimplex.New(seed)
	return n.Eval3
}

// sanitizeNoise clamps a sample into [-1, 1]; NaN becomes 0.
func sanitizeNoise(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}
