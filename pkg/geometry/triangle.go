package geometry

// Triangle represents a triangle in 3D space
type Triangle struct {
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(v1, v2, v3 Vector3) Triangle {
	return Triangle{V1: v1, V2: v2, V3: v3}
}

// Normal computes the unit normal from the winding order
func (t Triangle) Normal() Vector3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Triangle2 represents a triangle in the plane
type Triangle2 [3]Vector2

// SignedArea returns the area, positive for counter-clockwise winding
func (t Triangle2) SignedArea() float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])) / 2.0
}

// Contains reports whether p lies inside or on the triangle
func (t Triangle2) Contains(p Vector2) bool {
	d1 := t[1].Sub(t[0]).Cross(p.Sub(t[0]))
	d2 := t[2].Sub(t[1]).Cross(p.Sub(t[1]))
	d3 := t[0].Sub(t[2]).Cross(p.Sub(t[2]))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
