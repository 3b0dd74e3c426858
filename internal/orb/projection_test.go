package orb

import (
	"math"
	"testing"
)

func TestProjectCloserPointsRenderLarger(t *testing.T) {
	cam := Camera{FieldOfView: 320, CenterZ: -160, CenterX: 200, CenterY: 150}

	far := &Point{Location: Vec3{X: 10, Y: 5, Z: -200}}
	near := &Point{Location: Vec3{X: 10, Y: 5, Z: -50}}

	sf := cam.Project(far, 0, 1).Size
	sn := cam.Project(near, 0, 1).Size
	if sn <= sf {
		t.Fatalf("expected nearer point to be larger, got near=%v far=%v", sn, sf)
	}
	if sf <= 0 {
		t.Fatalf("expected positive size, got %v", sf)
	}
}

func TestProjectWritesScratchAndCentres(t *testing.T) {
	cam := Camera{FieldOfView: 100, CenterZ: 0, CenterX: 50, CenterY: 40}
	p := &Point{Location: Vec3{}}

	got := cam.Project(p, 0, 1)
	if got != p.Projection {
		t.Fatalf("expected returned projection to match scratch, got %+v vs %+v", got, p.Projection)
	}
	if got.X != 50 || got.Y != 40 || got.Size != 1 {
		t.Fatalf("expected origin at screen centre with size 1, got %+v", got)
	}
}

func TestProjectRotatesAroundVerticalAxis(t *testing.T) {
	cam := Camera{FieldOfView: 1000, CenterZ: -100}
	p := &Point{Location: Vec3{X: 0, Y: 7, Z: -50}}

	// A quarter turn moves the +z offset onto the x axis.
	sin, cos := math.Sincos(math.Pi / 2)
	pr := cam.Project(p, sin, cos)

	wantSize := 1000.0 / (1000.0 - -100.0)
	if math.Abs(pr.Size-wantSize) > 1e-9 {
		t.Fatalf("expected size %v, got %v", wantSize, pr.Size)
	}
	if math.Abs(pr.X-50*wantSize) > 1e-9 {
		t.Fatalf("expected x %v, got %v", 50*wantSize, pr.X)
	}
	if math.Abs(pr.Y-7*wantSize) > 1e-9 {
		t.Fatalf("expected unrotated y %v, got %v", 7*wantSize, pr.Y)
	}
}
