// Package papercraft turns a mesh into printable islands and keeps the
// island/edge graph consistent while it is edited.
package papercraft

import (
	"fmt"
	"slices"

	"github.com/golang/geo/r2"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
)

// EdgeStatus tells whether an edge keeps its two faces together
type EdgeStatus int

const (
	Joined EdgeStatus = iota
	Cut
)

func (s EdgeStatus) String() string {
	if s == Cut {
		return "cut"
	}
	return "joined"
}

// MarshalText encodes the status by name
func (s EdgeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EdgeState is the mutable part of an edge. Flap and FlapOffset only mean
// something while the edge is cut.
type EdgeState struct {
	Status     EdgeStatus
	Flap       bool
	FlapOffset float64
}

// Project is the live papercraft: the immutable mesh plus all layout state.
// A project is not safe for concurrent use; hosts serialize access.
type Project struct {
	mesh    *mesh.Mesh
	options PaperOptions
	edges   []EdgeState

	islands    []*Island // sorted by ID
	faceIsland []IslandID
	faceMatrix []geometry.Affine // face-local to island-local
	shapes     [][]geometry.Vector2

	nextID IslandID
}

// Mesh returns the model the project was unfolded from
func (p *Project) Mesh() *mesh.Mesh {
	return p.mesh
}

// Options returns the current paper options
func (p *Project) Options() PaperOptions {
	return p.options
}

// EdgeState returns the state of edge e
func (p *Project) EdgeState(e int) EdgeState {
	return p.edges[e]
}

// NumIslands returns the number of islands
func (p *Project) NumIslands() int {
	return len(p.islands)
}

// Islands returns copies of all islands ordered by id
func (p *Project) Islands() []Island {
	out := make([]Island, len(p.islands))
	for i, isl := range p.islands {
		out[i] = *isl.clone()
	}
	return out
}

// Island returns a copy of the island with the given id
func (p *Project) Island(id IslandID) (Island, bool) {
	isl := p.island(id)
	if isl == nil {
		return Island{}, false
	}
	return *isl.clone(), true
}

// IslandOf returns the island that owns face f
func (p *Project) IslandOf(f int) IslandID {
	return p.faceIsland[f]
}

func (p *Project) island(id IslandID) *Island {
	i, found := slices.BinarySearchFunc(p.islands, id, func(isl *Island, id IslandID) int {
		return int(isl.ID) - int(id)
	})
	if !found {
		return nil
	}
	return p.islands[i]
}

// FaceLocalShape returns the flattened shape of face f in its own frame
func (p *Project) FaceLocalShape(f int) []geometry.Vector2 {
	return p.shapes[f]
}

// FacePageMatrix maps face-local coordinates of f to page millimetres
func (p *Project) FacePageMatrix(f int) geometry.Affine {
	isl := p.island(p.faceIsland[f])
	return isl.transform(p.options.Scale).Mul(p.faceMatrix[f])
}

// FacePagePoints returns the vertices of face f in page space
func (p *Project) FacePagePoints(f int) []geometry.Vector2 {
	m := p.FacePageMatrix(f)
	shape := p.shapes[f]
	points := make([]geometry.Vector2, len(shape))
	for i, s := range shape {
		points[i] = m.TransformPoint(s)
	}
	return points
}

// IslandBounds returns the page-space bounding box of an island including
// its flaps
func (p *Project) IslandBounds(id IslandID) r2.Rect {
	bounds := r2.EmptyRect()
	isl := p.island(id)
	if isl == nil {
		return bounds
	}
	for _, f := range isl.Faces {
		for _, pt := range p.FacePagePoints(f) {
			bounds = bounds.AddPoint(pt.Point())
		}
		for _, e := range p.mesh.FaceEdges(f) {
			if flap, ok := p.flapOn(e, f); ok {
				for _, pt := range flap {
					bounds = bounds.AddPoint(pt.Point())
				}
			}
		}
	}
	return bounds
}

func (p *Project) checkEdge(op string, e int) (mesh.Edge, error) {
	if e < 0 || e >= len(p.edges) {
		return mesh.Edge{}, &EdgeError{Op: op, Edge: e, Err: ErrUnknownEdge}
	}
	edge := p.mesh.Edge(e)
	if edge.IsBoundary() {
		return edge, &EdgeError{Op: op, Edge: e, Err: ErrBoundaryEdge}
	}
	return edge, nil
}

func (p *Project) checkKey(key IslandKey) (*Island, error) {
	isl := p.island(key.ID)
	if isl == nil {
		return nil, fmt.Errorf("island %d: %w", key.ID, ErrUnknownIsland)
	}
	if isl.Version != key.Version {
		return nil, &VersionConflictError{Island: key.ID, Expected: key.Version, Actual: isl.Version}
	}
	return isl, nil
}

// touch bumps the version of the islands owning the given faces, skipping
// islands already bumped during the same operation
func (p *Project) touch(done map[IslandID]bool, faces ...int) {
	for _, f := range faces {
		if f == mesh.NoFace {
			continue
		}
		id := p.faceIsland[f]
		if done[id] {
			continue
		}
		done[id] = true
		p.island(id).Version++
	}
}
