package geometry

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// SingularTolerance is the determinant magnitude below which a transform is
// treated as non-invertible.
const SingularTolerance = 1e-12

// Affine is a 2D affine transform in page space. The coefficients are kept
// in PDF/SVG order [a b c d e f], mapping (x, y) to (a·x + c·y + e, b·x + d·y + f).
type Affine matrix.Matrix

// Identity returns the identity transform
func Identity() Affine {
	return Affine(matrix.Identity)
}

// Translation returns a transform translating by v
func Translation(v Vector2) Affine {
	return Affine(matrix.Translate(v.X, v.Y))
}

// Rotation returns a counter-clockwise rotation by angle radians about the origin
func Rotation(angle float64) Affine {
	s, c := math.Sincos(angle)
	return Affine{c, s, -s, c, 0, 0}
}

// Scaling returns a uniform scale
func Scaling(s float64) Affine {
	return Affine(matrix.Scale(s, s))
}

// RigidTransform returns the rotation by angle followed by a translation by offset
func RigidTransform(angle float64, offset Vector2) Affine {
	return Translation(offset).Mul(Rotation(angle))
}

// Basis returns the transform sending (0,0), (1,0) and (0,1) to o, x and y
func Basis(o, x, y Vector2) Affine {
	return Affine{x.X - o.X, x.Y - o.Y, y.X - o.X, y.Y - o.Y, o.X, o.Y}
}

// Mul returns the composition m∘other: other is applied first.
func (m Affine) Mul(other Affine) Affine {
	return Affine(matrix.Matrix(other).Mul(matrix.Matrix(m)))
}

// Determinant returns the determinant of the linear part
func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse transform. The second result is false when the
// transform is singular.
func (m Affine) Invert() (Affine, bool) {
	if math.Abs(m.Determinant()) < SingularTolerance {
		return Affine{}, false
	}
	return Affine(matrix.Matrix(m).Inv()), true
}

// TransformPoint applies the transform to a point
func (m Affine) TransformPoint(p Vector2) Vector2 {
	return Vector2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// TransformVector applies only the linear part
func (m Affine) TransformVector(v Vector2) Vector2 {
	return Vector2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// TranslationPart returns the translation
func (m Affine) TranslationPart() Vector2 {
	return Vector2{X: m[4], Y: m[5]}
}

// RotationAngle returns the rotation of a rigid (or uniformly scaled) transform
func (m Affine) RotationAngle() float64 {
	return math.Atan2(m[1], m[0])
}

// ApproxEqual reports whether all coefficients differ by at most tol
func (m Affine) ApproxEqual(other Affine, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

// SVG returns the six coefficients in SVG/PDF order (a b c d e f)
func (m Affine) SVG() [6]float64 {
	return [6]float64(m)
}
