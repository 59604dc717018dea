package mesh

import (
	"math"
	"testing"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeAdjacency(t *testing.T) {
	m := Cube(1)

	assert.Equal(t, 24, m.NumVertices())
	assert.Equal(t, 6, m.NumFaces())
	require.Equal(t, 12, m.NumEdges())

	for i := 0; i < m.NumEdges(); i++ {
		e := m.Edge(i)
		assert.False(t, e.IsBoundary(), "edge %d", i)
		assert.Equal(t, Mountain, e.Fold(), "edge %d", i)
		assert.InDelta(t, math.Pi/2, e.Angle, 1e-9, "edge %d", i)
		assert.InDelta(t, 1.0, m.EdgeLength(i), 1e-12, "edge %d", i)
	}

	for f := 0; f < m.NumFaces(); f++ {
		for side, e := range m.FaceEdges(f) {
			edge := m.Edge(e)
			slot := edge.Slot(f)
			require.NotEqual(t, -1, slot)
			assert.Equal(t, side, edge.Sides[slot])
			assert.Equal(t, side, m.SideOf(f, e))
		}
	}
}

func TestTetrahedronFolds(t *testing.T) {
	m := Tetrahedron(2)

	require.Equal(t, 6, m.NumEdges())
	for i := 0; i < m.NumEdges(); i++ {
		assert.Equal(t, Mountain, m.Edge(i).Fold(), "edge %d", i)
	}
}

func TestValleyFold(t *testing.T) {
	// Two squares forming a concave V seen from +Z
	vertices := []Vertex{
		{Pos: geometry.NewVector3(0, 0, 1)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(1, 1, 0)},
		{Pos: geometry.NewVector3(0, 1, 1)},
		{Pos: geometry.NewVector3(2, 0, 1)},
		{Pos: geometry.NewVector3(2, 1, 1)},
	}
	faces := []Face{
		{Vertices: []int{0, 1, 2, 3}},
		{Vertices: []int{1, 4, 5, 2}},
	}

	m, err := New(vertices, faces, nil)
	require.NoError(t, err)

	interior := 0
	for i := 0; i < m.NumEdges(); i++ {
		e := m.Edge(i)
		if e.IsBoundary() {
			assert.Equal(t, Flat, e.Fold())
			continue
		}
		interior++
		assert.Equal(t, Valley, e.Fold())
		assert.Less(t, e.Angle, 0.0)
	}
	assert.Equal(t, 1, interior)
}

func TestFaceLocalShapePreservesLengths(t *testing.T) {
	vertices := []Vertex{
		{Pos: geometry.NewVector3(1, 2, 3)},
		{Pos: geometry.NewVector3(4, 2, 5)},
		{Pos: geometry.NewVector3(3, 6, 4)},
	}
	m, err := New(vertices, []Face{{Vertices: []int{0, 1, 2}}}, nil)
	require.NoError(t, err)

	shape := m.FaceLocalShape(0)
	points := m.FacePositions(0)
	require.Len(t, shape, 3)

	assert.Equal(t, geometry.Vector2{}, shape[0])
	assert.InDelta(t, 0, shape[1].Y, 1e-12)
	assert.Greater(t, geometry.PolygonArea(shape), 0.0)

	for i := range shape {
		j := (i + 1) % len(shape)
		assert.InDelta(t, points[i].Distance(points[j]), shape[i].Distance(shape[j]), 1e-12)
	}
}

func TestFaceDeviation(t *testing.T) {
	cube := Cube(10)
	for f := 0; f < cube.NumFaces(); f++ {
		assert.InDelta(t, 0, cube.FaceDeviation(f), 1e-12, "face %d", f)
	}

	vertices := []Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(1, 1, 0.05)},
		{Pos: geometry.NewVector3(0, 1, 0)},
	}
	bent, err := New(vertices, []Face{{Vertices: []int{0, 1, 2, 3}}}, nil)
	require.NoError(t, err)
	assert.Greater(t, bent.FaceDeviation(0), 1e-3)
	assert.Less(t, bent.FaceDeviation(0), 0.05)
}

func TestNewValidation(t *testing.T) {
	square := []Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(1, 1, 0)},
		{Pos: geometry.NewVector3(0, 1, 0)},
	}

	tests := []struct {
		name     string
		vertices []Vertex
		faces    []Face
		err      error
	}{
		{"no faces", square, nil, ErrNoFaces},
		{"two vertices", square, []Face{{Vertices: []int{0, 1}}}, ErrInvalidFace},
		{"index out of range", square, []Face{{Vertices: []int{0, 1, 7}}}, ErrVertexIndex},
		{"negative index", square, []Face{{Vertices: []int{0, -1, 2}}}, ErrVertexIndex},
		{"repeated position", square, []Face{{Vertices: []int{0, 0, 2}}}, ErrDegenerateEdge},
		{
			"same winding",
			square,
			[]Face{{Vertices: []int{0, 1, 2}}, {Vertices: []int{0, 2, 3}}, {Vertices: []int{0, 1, 3}}},
			ErrInconsistentWinding,
		},
		{
			"three faces on one edge",
			append(square, Vertex{Pos: geometry.NewVector3(0, 0, 1)}),
			[]Face{{Vertices: []int{0, 1, 2}}, {Vertices: []int{1, 0, 3}}, {Vertices: []int{1, 0, 4}}},
			ErrNonManifold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vertices, tt.faces, nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestStats(t *testing.T) {
	s := Cube(2).Stats()

	assert.Equal(t, 6, s.Faces)
	assert.Equal(t, 12, s.Edges)
	assert.Equal(t, 12, s.Mountain)
	assert.Equal(t, 0, s.BoundaryEdges)
	assert.InDelta(t, 24.0, s.SurfaceArea, 1e-9)
	assert.InDelta(t, 2.0, s.AvgEdgeLength, 1e-12)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), s.BoundingBox.Size())
}
