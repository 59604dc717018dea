// Package export turns a papercraft project into page geometry ready for a
// vector writer, and writes it as SVG.
package export

import "github.com/philipparndt/gocraft/pkg/geometry"

// FanTriangulate splits a convex polygon with n vertices into n-2
// triangles sharing vertex 0. Fewer than three vertices give none.
func FanTriangulate(n int) [][3]int {
	if n < 3 {
		return nil
	}
	triangles := make([][3]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		triangles = append(triangles, [3]int{0, i, i + 1})
	}
	return triangles
}

// TextureMatrix returns the affine transform M with M(uv) = point for the
// three uv/point pairs, built as the point basis composed with the inverse
// uv basis. It reports false when the uv points are collinear.
func TextureMatrix(uvs, points [3]geometry.Vector2) (geometry.Affine, bool) {
	inv, ok := geometry.Basis(uvs[0], uvs[1], uvs[2]).Invert()
	if !ok {
		return geometry.Affine{}, false
	}
	return geometry.Basis(points[0], points[1], points[2]).Mul(inv), true
}

// PixelTextureMatrix maps texture pixels instead of uv coordinates onto the
// triangle. Image rows run top-down while v runs bottom-up, so v is flipped.
func PixelTextureMatrix(uvs, points [3]geometry.Vector2, width, height int) (geometry.Affine, bool) {
	if width <= 0 || height <= 0 {
		return geometry.Affine{}, false
	}
	var pixels [3]geometry.Vector2
	for i, uv := range uvs {
		pixels[i] = geometry.NewVector2(uv.X*float64(width), (1-uv.Y)*float64(height))
	}
	return TextureMatrix(pixels, points)
}
