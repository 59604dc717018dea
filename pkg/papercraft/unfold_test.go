package papercraft

import (
	"math"
	"testing"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfoldCube(t *testing.T) {
	p := newProject(t, mesh.Cube(1))

	require.Equal(t, 1, p.NumIslands())
	assert.Len(t, edgesWithStatus(p, Joined), 5)
	assert.Len(t, edgesWithStatus(p, Cut), 7)

	for _, e := range edgesWithStatus(p, Cut) {
		assert.True(t, p.EdgeState(e).Flap, "edge %d", e)
	}
	isl := p.Islands()[0]
	assert.Equal(t, IslandID(1), isl.ID)
	assert.Equal(t, uint32(1), isl.Version)
	assert.Equal(t, 0, isl.Root)
	checkInvariants(t, p)
}

func TestUnfoldIsDeterministic(t *testing.T) {
	a := newProject(t, mesh.Cube(3))
	b := newProject(t, mesh.Cube(3))
	for e := 0; e < a.mesh.NumEdges(); e++ {
		assert.Equal(t, a.EdgeState(e), b.EdgeState(e))
	}
	for f := 0; f < a.mesh.NumFaces(); f++ {
		assert.True(t, a.FacePageMatrix(f).ApproxEqual(b.FacePageMatrix(f), 0))
	}
}

func TestUnfoldPreservesFaceShapes(t *testing.T) {
	m := mesh.Tetrahedron(20)
	p := newProject(t, m)
	checkInvariants(t, p)

	for f := 0; f < m.NumFaces(); f++ {
		pts := p.FacePagePoints(f)
		shape := m.FaceLocalShape(f)
		for i := range pts {
			j := (i + 1) % len(pts)
			assert.InDelta(t, shape[i].Distance(shape[j]), pts[i].Distance(pts[j]), 1e-9)
		}
		assert.Greater(t, geometry.PolygonArea(pts), 0.0, "face %d keeps its winding", f)
	}
}

func TestUnfoldOpenSheet(t *testing.T) {
	// A flat 2x1 sheet with a third face folded along x = 2; the outer
	// edges stay cut without flaps
	vertices := []mesh.Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(2, 0, 0)},
		{Pos: geometry.NewVector3(0, 1, 0)},
		{Pos: geometry.NewVector3(1, 1, 0)},
		{Pos: geometry.NewVector3(2, 1, 0)},
		{Pos: geometry.NewVector3(2, 0, 1)},
		{Pos: geometry.NewVector3(2, 1, 1)},
	}
	faces := []mesh.Face{
		{Vertices: []int{0, 1, 4, 3}},
		{Vertices: []int{1, 2, 5, 4}},
		{Vertices: []int{2, 6, 7, 5}},
	}
	m, err := mesh.New(vertices, faces, nil)
	require.NoError(t, err)

	p := newProject(t, m)
	assert.Equal(t, 1, p.NumIslands())
	for e := 0; e < m.NumEdges(); e++ {
		edge := m.Edge(e)
		if edge.IsBoundary() {
			assert.Equal(t, Cut, p.EdgeState(e).Status)
			assert.False(t, p.EdgeState(e).Flap)
		} else {
			assert.Equal(t, Joined, p.EdgeState(e).Status, "edge %d", e)
		}
	}
	checkInvariants(t, p)
}

func TestUnfoldPrefersFlatFolds(t *testing.T) {
	// A low square pyramid: the sides meet at shallow angles, the base at
	// sharp ones, so only one base edge may be joined
	vertices := []mesh.Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(1, 1, 0)},
		{Pos: geometry.NewVector3(0, 1, 0)},
		{Pos: geometry.NewVector3(0.5, 0.5, 0.1)},
	}
	faces := []mesh.Face{
		{Vertices: []int{0, 3, 2, 1}},
		{Vertices: []int{0, 1, 4}},
		{Vertices: []int{1, 2, 4}},
		{Vertices: []int{2, 3, 4}},
		{Vertices: []int{3, 0, 4}},
	}
	m, err := mesh.New(vertices, faces, nil)
	require.NoError(t, err)

	p := newProject(t, m)
	base, sides := 0, 0
	for _, e := range edgesWithStatus(p, Joined) {
		if m.Edge(e).Slot(0) >= 0 {
			base++
		} else {
			sides++
		}
	}
	assert.Equal(t, 1, base)
	assert.Equal(t, 3, sides)
	checkInvariants(t, p)
}

func TestUnfoldRejectsEdgeLengthMismatch(t *testing.T) {
	// The quad is far from planar, so its flattened copy of the shared edge
	// comes out shorter than the triangle's.
	vertices := []mesh.Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(1, 1, 1)},
		{Pos: geometry.NewVector3(0, 1, 0)},
		{Pos: geometry.NewVector3(1, 1, 1)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(2, 0, 0)},
	}
	faces := []mesh.Face{
		{Vertices: []int{0, 1, 2, 3}},
		{Vertices: []int{4, 5, 6}},
	}
	m, err := mesh.New(vertices, faces, nil)
	require.NoError(t, err)

	p, err := New(m, DefaultOptions())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrEdgeLengthMismatch)
}

func TestUnfoldAcceptsSlightlyBentQuad(t *testing.T) {
	// Lifting one corner by 5% shortens the quad's copy of the shared edge
	// by about 0.03%, within the allowance for bent faces
	vertices := []mesh.Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(1, 1, 0.05)},
		{Pos: geometry.NewVector3(0, 1, 0)},
		{Pos: geometry.NewVector3(1, 1, 0.05)},
		{Pos: geometry.NewVector3(1, 0, 0)},
		{Pos: geometry.NewVector3(2, 0, 0)},
	}
	faces := []mesh.Face{
		{Vertices: []int{0, 1, 2, 3}},
		{Vertices: []int{4, 5, 6}},
	}
	m, err := mesh.New(vertices, faces, nil)
	require.NoError(t, err)
	require.Greater(t, m.FaceDeviation(0), PlanarTolerance)
	require.LessOrEqual(t, m.FaceDeviation(1), PlanarTolerance)

	p, err := New(m, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, p.NumIslands())

	joined := edgesWithStatus(p, Joined)
	require.Len(t, joined, 1)
	edge := m.Edge(joined[0])
	l0 := p.sideLength(edge.Faces[0], edge.Sides[0])
	l1 := p.sideLength(edge.Faces[1], edge.Sides[1])
	diff := math.Abs(l0-l1) / math.Max(l0, l1)
	assert.Greater(t, diff, EdgeLengthTolerance, "planar tolerance alone would reject it")
	assert.Less(t, diff, NearPlanarEdgeLengthTolerance)
}

func TestUnfoldRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.PageSize = [2]float64{0, 297}
	_, err := New(mesh.Cube(1), opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestUnfoldLargeIslandFallsBackToRow(t *testing.T) {
	p := newProject(t, mesh.Cube(400))
	require.Equal(t, 1, p.NumIslands())

	bounds := p.IslandBounds(p.Islands()[0].ID)
	assert.InDelta(t, p.Options().Margin.Left, bounds.X.Lo, 1e-9)
	assert.InDelta(t, p.Options().Margin.Top, bounds.Y.Lo, 1e-9)
}

func TestSpanningForestTieBreak(t *testing.T) {
	// All cube edges have the same angle, so the tree is decided by face
	// and vertex order alone
	m := mesh.Cube(1)
	tree := spanningForest(m)

	count := 0
	sets := newUnionFind(m.NumFaces())
	for e, joined := range tree {
		if !joined {
			continue
		}
		count++
		edge := m.Edge(e)
		assert.True(t, sets.union(edge.Faces[0], edge.Faces[1]), "edge %d closes a cycle", e)
	}
	assert.Equal(t, 5, count)
	assert.Equal(t, tree, spanningForest(m))
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, normalizeAngle(tt.in), 1e-12, "normalizeAngle(%v)", tt.in)
	}
}
