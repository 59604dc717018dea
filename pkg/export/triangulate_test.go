package export

import (
	"math"
	"testing"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regularPolygon(n int, radius float64) []geometry.Vector2 {
	pts := make([]geometry.Vector2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geometry.NewVector2(radius*math.Cos(a), radius*math.Sin(a))
	}
	return pts
}

func TestFanTriangulate(t *testing.T) {
	for n := 0; n < 3; n++ {
		assert.Empty(t, FanTriangulate(n), "n=%d", n)
	}

	for n := 3; n <= 12; n++ {
		tris := FanTriangulate(n)
		require.Len(t, tris, n-2, "n=%d", n)

		poly := regularPolygon(n, 7)
		var sum float64
		for i, tri := range tris {
			assert.Equal(t, [3]int{0, i + 1, i + 2}, tri)
			area := geometry.Triangle2{poly[tri[0]], poly[tri[1]], poly[tri[2]]}.SignedArea()
			assert.Positive(t, area)
			sum += area
		}
		assert.InDelta(t, geometry.PolygonArea(poly), sum, 1e-9, "n=%d", n)

		// the triangles cover the polygon without overlap: every sample
		// point inside lies in exactly one triangle interior
		for _, p := range []geometry.Vector2{{X: 0.1, Y: 0.2}, {X: -2, Y: 1.3}, {X: 3, Y: -2.5}} {
			hits := 0
			for _, tri := range tris {
				if (geometry.Triangle2{poly[tri[0]], poly[tri[1]], poly[tri[2]]}).Contains(p) {
					hits++
				}
			}
			assert.LessOrEqual(t, hits, 1, "n=%d point %v", n, p)
		}
	}
}

func TestTextureMatrixMapsCorrespondences(t *testing.T) {
	tests := []struct {
		name   string
		uvs    [3]geometry.Vector2
		points [3]geometry.Vector2
	}{
		{
			"rotated and sheared",
			[3]geometry.Vector2{{X: 0.1, Y: 0.2}, {X: 0.9, Y: 0.3}, {X: 0.4, Y: 0.8}},
			[3]geometry.Vector2{{X: 12, Y: 40}, {X: 55, Y: 31}, {X: 20, Y: 77}},
		},
		{
			"mirrored",
			[3]geometry.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
			[3]geometry.Vector2{{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 30, Y: 0}},
		},
		{
			"tiny uv patch",
			[3]geometry.Vector2{{X: 0.5, Y: 0.5}, {X: 0.501, Y: 0.5}, {X: 0.5, Y: 0.502}},
			[3]geometry.Vector2{{X: 100, Y: 100}, {X: 110, Y: 100}, {X: 100, Y: 120}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := TextureMatrix(tt.uvs, tt.points)
			require.True(t, ok)
			for i := range tt.uvs {
				got := m.TransformPoint(tt.uvs[i])
				assert.True(t, got.ApproxEqual(tt.points[i], 1e-5), "corner %d: got %v want %v", i, got, tt.points[i])
			}
		})
	}
}

func TestTextureMatrixDegenerate(t *testing.T) {
	collinear := [3]geometry.Vector2{{X: 0, Y: 0}, {X: 0.5, Y: 0.5}, {X: 1, Y: 1}}
	points := [3]geometry.Vector2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}

	m, ok := TextureMatrix(collinear, points)
	assert.False(t, ok)
	assert.Equal(t, geometry.Affine{}, m)

	same := [3]geometry.Vector2{{X: 0.3, Y: 0.3}, {X: 0.3, Y: 0.3}, {X: 0.3, Y: 0.3}}
	_, ok = TextureMatrix(same, points)
	assert.False(t, ok)
}

func TestUnitQuadIsPureScale(t *testing.T) {
	uvs := []geometry.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	points := []geometry.Vector2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	tris := FanTriangulate(4)
	require.Len(t, tris, 2)
	for _, tri := range tris {
		m, ok := TextureMatrix(
			[3]geometry.Vector2{uvs[tri[0]], uvs[tri[1]], uvs[tri[2]]},
			[3]geometry.Vector2{points[tri[0]], points[tri[1]], points[tri[2]]},
		)
		require.True(t, ok)
		assert.True(t, m.ApproxEqual(geometry.Scaling(10), 1e-9), "got %v", m)
	}
}

func TestPixelTextureMatrixFlipsV(t *testing.T) {
	uvs := [3]geometry.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	points := [3]geometry.Vector2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}

	m, ok := PixelTextureMatrix(uvs, points, 200, 100)
	require.True(t, ok)

	// uv (0,0) is the bottom-left pixel corner
	assert.True(t, m.TransformPoint(geometry.NewVector2(0, 100)).ApproxEqual(points[0], 1e-9))
	assert.True(t, m.TransformPoint(geometry.NewVector2(200, 100)).ApproxEqual(points[1], 1e-9))
	assert.True(t, m.TransformPoint(geometry.NewVector2(0, 0)).ApproxEqual(points[2], 1e-9))

	_, ok = PixelTextureMatrix(uvs, points, 0, 100)
	assert.False(t, ok)
}
