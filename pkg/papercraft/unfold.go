package papercraft

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
)

const (
	// EdgeLengthTolerance is the relative difference allowed between the
	// two flattened copies of a shared edge when both faces are planar
	EdgeLengthTolerance = 1e-6
	// NearPlanarEdgeLengthTolerance replaces it when either face is bent
	NearPlanarEdgeLengthTolerance = 1e-2
	// PlanarTolerance is the largest relative FaceDeviation of a planar face
	PlanarTolerance = 1e-6
)

// New unfolds a mesh into a project. Flat edges are preferred as folds, so
// the initial cuts run along the sharpest creases. Every interior cut edge
// starts with a flap and the islands are packed onto pages.
func New(m *mesh.Mesh, options PaperOptions) (*Project, error) {
	options, err := options.Validate()
	if err != nil {
		return nil, err
	}

	p := &Project{
		mesh:    m,
		options: options,
		edges:   make([]EdgeState, m.NumEdges()),
		shapes:  make([][]geometry.Vector2, m.NumFaces()),
		nextID:  1,
	}
	for f := range p.shapes {
		p.shapes[f] = m.FaceLocalShape(f)
	}
	if err := p.checkEdgeLengths(); err != nil {
		return nil, err
	}

	tree := spanningForest(m)
	for e := range p.edges {
		edge := m.Edge(e)
		switch {
		case tree[e]:
			p.edges[e] = EdgeState{Status: Joined}
		case edge.IsBoundary():
			p.edges[e] = EdgeState{Status: Cut}
		default:
			p.edges[e] = EdgeState{Status: Cut, Flap: true}
		}
	}

	p.rebuild(rebuildHint{cutEdge: -1, priorityFace: mesh.NoFace})

	if err := p.pack(false); err != nil {
		if !errors.Is(err, ErrIslandTooLarge) {
			return nil, err
		}
		p.layoutRow()
	}
	return p, nil
}

func (p *Project) checkEdgeLengths() error {
	planar := make([]bool, p.mesh.NumFaces())
	for f := range planar {
		planar[f] = p.mesh.FaceDeviation(f) <= PlanarTolerance
	}

	for e := 0; e < p.mesh.NumEdges(); e++ {
		edge := p.mesh.Edge(e)
		if edge.IsBoundary() {
			continue
		}
		tolerance := EdgeLengthTolerance
		if !planar[edge.Faces[0]] || !planar[edge.Faces[1]] {
			tolerance = NearPlanarEdgeLengthTolerance
		}
		l0 := p.sideLength(edge.Faces[0], edge.Sides[0])
		l1 := p.sideLength(edge.Faces[1], edge.Sides[1])
		if math.Abs(l0-l1) > tolerance*math.Max(l0, l1) {
			return fmt.Errorf("edge %d (faces %d and %d): %.6g vs %.6g: %w",
				e, edge.Faces[0], edge.Faces[1], l0, l1, ErrEdgeLengthMismatch)
		}
	}
	return nil
}

func (p *Project) sideLength(f, side int) float64 {
	shape := p.shapes[f]
	return shape[side].Distance(shape[(side+1)%len(shape)])
}

// spanningForest picks the joined edges of the initial unfolding with
// Kruskal's algorithm over the dual graph. Edges are taken flattest first;
// ties go to the lowest face pair and then the lowest vertex pair.
func spanningForest(m *mesh.Mesh) []bool {
	type candidate struct {
		edge  int
		score int64
		faces [2]int
		verts [2]int
	}

	var candidates []candidate
	for e := 0; e < m.NumEdges(); e++ {
		edge := m.Edge(e)
		if edge.IsBoundary() {
			continue
		}
		candidates = append(candidates, candidate{
			edge:  e,
			score: int64(math.Round(math.Abs(edge.Angle) * 1e9)),
			faces: [2]int{min(edge.Faces[0], edge.Faces[1]), max(edge.Faces[0], edge.Faces[1])},
			verts: [2]int{min(edge.Verts[0][0], edge.Verts[0][1]), max(edge.Verts[0][0], edge.Verts[0][1])},
		})
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.score, b.score),
			cmp.Compare(a.faces[0], b.faces[0]),
			cmp.Compare(a.faces[1], b.faces[1]),
			cmp.Compare(a.verts[0], b.verts[0]),
			cmp.Compare(a.verts[1], b.verts[1]),
		)
	})

	sets := newUnionFind(m.NumFaces())
	tree := make([]bool, m.NumEdges())
	for _, c := range candidates {
		if sets.union(c.faces[0], c.faces[1]) {
			tree[c.edge] = true
		}
	}
	return tree
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were distinct
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
	return true
}
