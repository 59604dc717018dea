package mesh

import (
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// FacePlane is a 2D frame in the plane of a face: origin at the first vertex,
// X along the first side, Y = normal × X.
type FacePlane struct {
	Origin geometry.Vector3
	X, Y   geometry.Vector3
	Normal geometry.Vector3
}

// Project maps a 3D point onto the plane frame
func (p FacePlane) Project(point geometry.Vector3) geometry.Vector2 {
	d := point.Sub(p.Origin)
	return geometry.NewVector2(d.Dot(p.X), d.Dot(p.Y))
}

// FacePlane returns the plane frame of face f. The normal is the Newell
// average, so a near-planar face is projected along it; all side lengths are
// preserved exactly only when the face is planar.
func (m *Mesh) FacePlane(f int) FacePlane {
	points := m.FacePositions(f)
	normal := geometry.NewellNormal(points)

	first := points[1].Sub(points[0])
	xAxis := first.Sub(normal.Mul(first.Dot(normal))).Normalize()

	return FacePlane{
		Origin: points[0],
		X:      xAxis,
		Y:      normal.Cross(xAxis),
		Normal: normal,
	}
}

// FaceDeviation returns the largest distance of a vertex of face f from
// the face plane, relative to the longest side. Planar faces give zero up
// to rounding.
func (m *Mesh) FaceDeviation(f int) float64 {
	plane := m.FacePlane(f)
	points := m.FacePositions(f)
	var dist, side float64
	for i, p := range points {
		dist = math.Max(dist, math.Abs(p.Sub(plane.Origin).Dot(plane.Normal)))
		side = math.Max(side, p.Distance(points[(i+1)%len(points)]))
	}
	if side == 0 {
		return 0
	}
	return dist / side
}

// FaceLocalShape flattens face f into its own 2D frame. The first vertex
// lands on the origin and the first side on the positive X axis; the
// polygon winds counter-clockwise.
func (m *Mesh) FaceLocalShape(f int) []geometry.Vector2 {
	plane := m.FacePlane(f)
	points := m.FacePositions(f)
	shape := make([]geometry.Vector2, len(points))
	for i, p := range points {
		shape[i] = plane.Project(p)
	}
	return shape
}
