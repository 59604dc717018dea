package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

// Vector2 represents a 2D point or vector in millimetres (page space) or
// model units (face-local space)
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector2 creates a new 2D vector
func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// FromPoint converts an r2 point
func FromPoint(p r2.Point) Vector2 {
	return Vector2{X: p.X, Y: p.Y}
}

// Point converts the vector to an r2 point
func (v Vector2) Point() r2.Point {
	return r2.Point{X: v.X, Y: v.Y}
}

// Add returns the sum of two vectors
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul multiplies the vector by a scalar
func (v Vector2) Mul(scalar float64) Vector2 {
	return Vector2{X: v.X * scalar, Y: v.Y * scalar}
}

// Dot returns the dot product of two vectors
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product
func (v Vector2) Cross(other Vector2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude of the vector
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points
func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Length()
}

// Normalize returns a unit vector in the same direction
func (v Vector2) Normalize() Vector2 {
	length := v.Length()
	if length == 0 {
		return Vector2{}
	}
	return v.Mul(1.0 / length)
}

// Perp returns the vector rotated by +90 degrees
func (v Vector2) Perp() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Rotate returns the vector rotated counter-clockwise by angle radians
func (v Vector2) Rotate(angle float64) Vector2 {
	s, c := math.Sincos(angle)
	return Vector2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Angle returns the direction of the vector in radians
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}


// ApproxEqual reports whether both components differ by at most tol
func (v Vector2) ApproxEqual(other Vector2, tol float64) bool {
	return math.Abs(v.X-other.X) <= tol && math.Abs(v.Y-other.Y) <= tol
}

// PolygonArea returns the signed area of a polygon (positive when
// counter-clockwise)
func PolygonArea(points []Vector2) float64 {
	if len(points) < 3 {
		return 0
	}
	area := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		area += points[i].Cross(points[j])
	}
	return area / 2.0
}

// Centroid returns the average of the given points
func Centroid(points []Vector2) Vector2 {
	if len(points) == 0 {
		return Vector2{}
	}
	var sum Vector2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}
