package papercraft

import (
	"testing"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/stretchr/testify/require"
)

// grid builds a flat w×h sheet of unit quads in the XY plane
func grid(t *testing.T, w, h int) *mesh.Mesh {
	t.Helper()
	var vertices []mesh.Vertex
	for j := 0; j <= h; j++ {
		for i := 0; i <= w; i++ {
			vertices = append(vertices, mesh.Vertex{
				Pos: geometry.NewVector3(float64(i), float64(j), 0),
				UV:  geometry.NewVector2(float64(i)/float64(w), float64(j)/float64(h)),
			})
		}
	}
	idx := func(i, j int) int { return j*(w+1) + i }
	var faces []mesh.Face
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			faces = append(faces, mesh.Face{Vertices: []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)}})
		}
	}
	m, err := mesh.New(vertices, faces, nil)
	require.NoError(t, err)
	return m
}

func newProject(t *testing.T, m *mesh.Mesh) *Project {
	t.Helper()
	p, err := New(m, DefaultOptions())
	require.NoError(t, err)
	return p
}

func edgesWithStatus(p *Project, status EdgeStatus) []int {
	var out []int
	for e := 0; e < p.mesh.NumEdges(); e++ {
		if p.mesh.Edge(e).IsBoundary() {
			continue
		}
		if p.EdgeState(e).Status == status {
			out = append(out, e)
		}
	}
	return out
}

// joinedReach runs a plain BFS over joined edges from face f
func joinedReach(p *Project, f int) map[int]bool {
	seen := map[int]bool{f: true}
	queue := []int{f}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range p.mesh.FaceEdges(cur) {
			if p.EdgeState(e).Status != Joined {
				continue
			}
			next := p.mesh.Edge(e).Other(cur)
			if next != mesh.NoFace && !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// checkInvariants verifies the island partition, that islands match joined
// connectivity and that joined faces meet along their shared edge
func checkInvariants(t *testing.T, p *Project) {
	t.Helper()
	n := p.mesh.NumFaces()

	owner := make(map[int]IslandID)
	for _, isl := range p.Islands() {
		require.NotEmpty(t, isl.Faces)
		for _, f := range isl.Faces {
			_, dup := owner[f]
			require.False(t, dup, "face %d in two islands", f)
			owner[f] = isl.ID
		}
	}
	require.Len(t, owner, n)

	for f := 0; f < n; f++ {
		require.Equal(t, owner[f], p.IslandOf(f))
		reach := joinedReach(p, f)
		for g := 0; g < n; g++ {
			require.Equal(t, reach[g], owner[f] == owner[g], "faces %d and %d", f, g)
		}
	}

	for _, e := range edgesWithStatus(p, Joined) {
		edge := p.mesh.Edge(e)
		a0, b0 := sideEnds(p, edge.Faces[0], edge.Sides[0])
		a1, b1 := sideEnds(p, edge.Faces[1], edge.Sides[1])
		require.True(t, a0.ApproxEqual(b1, 1e-9), "edge %d start", e)
		require.True(t, b0.ApproxEqual(a1, 1e-9), "edge %d end", e)
	}
}

func sideEnds(p *Project, f, side int) (geometry.Vector2, geometry.Vector2) {
	pts := p.FacePagePoints(f)
	return pts[side], pts[(side+1)%len(pts)]
}

// partition maps every face to the lowest face of its island
func partition(p *Project) []int {
	out := make([]int, p.mesh.NumFaces())
	for _, isl := range p.Islands() {
		for _, f := range isl.Faces {
			out[f] = isl.Faces[0]
		}
	}
	return out
}
