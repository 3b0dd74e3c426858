package orb

// Camera is a fixed pinhole camera looking down the Z axis. The scene rotates
// around the vertical axis through (0, *, CenterZ).
type Camera struct {
	FieldOfView float64
	CenterZ     float64
	CenterX     float64
	CenterY     float64
}

// Project rotates p around the vertical axis by the angle whose sine and
// cosine are given, applies the perspective divide and stores the result in
// p.Projection. Size stays positive as long as the rotated depth is in front
// of the camera (rotZ < FieldOfView).
func (c Camera) Project(p *Point, sin, cos float64) Projection {
	dz := p.Location.Z - c.CenterZ
	rotX := cos*p.Location.X + sin*dz
	rotZ := -sin*p.Location.X + cos*dz + c.CenterZ

	size := c.FieldOfView / (c.FieldOfView - rotZ)
	p.Projection.Size = size
	p.Projection.X = rotX*size + c.CenterX
	p.Projection.Y = p.Location.Y*size + c.CenterY
	return p.Projection
}
