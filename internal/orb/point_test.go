package orb

import (
	"errors"
	"math"
	"testing"
)

func TestNewCloudPhiFollowsSineWeightedDistribution(t *testing.T) {
	const n = 20000
	const bins = 10

	c, err := NewCloud(n, 100, 0, newRand(7))
	if err != nil {
		t.Fatalf("NewCloud returned error: %v", err)
	}

	var hist [bins]int
	for i := range c.Len() {
		phi := c.At(i).Phi()
		b := int(phi / math.Pi * bins)
		if b == bins {
			b--
		}
		hist[b]++
	}

	for b := range bins {
		lo := float64(b) * math.Pi / bins
		hi := float64(b+1) * math.Pi / bins
		want := (math.Cos(lo) - math.Cos(hi)) / 2
		got := float64(hist[b]) / n
		if math.Abs(got-want) > 0.015 {
			t.Fatalf("bin %d: expected fraction %.4f, got %.4f", b, want, got)
		}
	}

	// Naive uniform phi would put a tenth of the points in each polar bin.
	if pole := float64(hist[0]) / n; pole > 0.05 {
		t.Fatalf("expected sparse poles, got %.4f of points in the first bin", pole)
	}
}

func TestNewCloudPlacesPointsOnSphere(t *testing.T) {
	const r, cz = 120.0, -40.0
	c, err := NewCloud(500, r, cz, newRand(1))
	if err != nil {
		t.Fatalf("NewCloud returned error: %v", err)
	}
	for i := range c.Len() {
		p := c.At(i)
		if th := p.Theta(); th < 0 || th >= 2*math.Pi {
			t.Fatalf("point %d: theta %v out of range", i, th)
		}
		l := p.Location
		d := math.Sqrt(l.X*l.X + l.Y*l.Y + (l.Z-cz)*(l.Z-cz))
		if math.Abs(d-r) > 1e-9 {
			t.Fatalf("point %d: expected distance %v from centre, got %v", i, r, d)
		}
	}
}

func TestNewCloudRejectsNegativeCount(t *testing.T) {
	if _, err := NewCloud(-1, 10, 0, nil); !errors.Is(err, ErrInvalidDotCount) {
		t.Fatalf("expected ErrInvalidDotCount, got %v", err)
	}
}

func TestNewCloudAllowsEmpty(t *testing.T) {
	c, err := NewCloud(0, 10, 0, nil)
	if err != nil {
		t.Fatalf("NewCloud returned error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cloud, got %d points", c.Len())
	}
}

func TestCloudPlaceKeepsDirection(t *testing.T) {
	c, _ := NewCloud(1, 10, 0, newRand(3))
	p := c.At(0)
	before := p.Location

	c.Place(0, 20, 0)
	after := p.Location
	if math.Abs(after.X-2*before.X) > 1e-9 || math.Abs(after.Y-2*before.Y) > 1e-9 || math.Abs(after.Z-2*before.Z) > 1e-9 {
		t.Fatalf("expected location scaled by 2, got %+v from %+v", after, before)
	}
}
