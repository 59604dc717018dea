package mesh

import (
	"fmt"
	"math"
)

// NoFace marks the missing second face of a boundary edge
const NoFace = -1

// FlatAngleTolerance is the dihedral angle (radians) below which a fold is
// considered flat
const FlatAngleTolerance = 1e-3

// FoldKind classifies an edge by its dihedral angle
type FoldKind int

const (
	Flat FoldKind = iota
	Mountain
	Valley
)

func (k FoldKind) String() string {
	switch k {
	case Mountain:
		return "mountain"
	case Valley:
		return "valley"
	default:
		return "flat"
	}
}

// MarshalText encodes the fold kind by name
func (k FoldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Edge joins one or two faces. Verts[s] holds the two vertex indices of the
// edge in the winding of Faces[s]; Sides[s] is the side index inside that
// face. Angle is the signed dihedral angle: positive for convex (mountain)
// folds, negative for concave (valley) folds.
type Edge struct {
	Faces [2]int
	Verts [2][2]int
	Sides [2]int
	Angle float64
}

// IsBoundary reports whether the edge has only one face
func (e Edge) IsBoundary() bool {
	return e.Faces[1] == NoFace
}

// Fold returns the fold classification derived from the dihedral angle
func (e Edge) Fold() FoldKind {
	switch {
	case e.IsBoundary() || math.Abs(e.Angle) < FlatAngleTolerance:
		return Flat
	case e.Angle > 0:
		return Mountain
	default:
		return Valley
	}
}

// Slot returns 0 or 1 for the position of face f in the edge, or -1
func (e Edge) Slot(f int) int {
	switch f {
	case e.Faces[0]:
		return 0
	case e.Faces[1]:
		return 1
	}
	return -1
}

// Other returns the face across the edge from f, or NoFace
func (e Edge) Other(f int) int {
	switch f {
	case e.Faces[0]:
		return e.Faces[1]
	case e.Faces[1]:
		return e.Faces[0]
	}
	return NoFace
}

// NumEdges returns the edge count
func (m *Mesh) NumEdges() int {
	return len(m.edges)
}

// Edge returns edge i
func (m *Mesh) Edge(i int) Edge {
	return m.edges[i]
}

// EdgeLength returns the 3D length of an edge
func (m *Mesh) EdgeLength(i int) float64 {
	v := m.edges[i].Verts[0]
	return m.vertices[v[0]].Pos.Distance(m.vertices[v[1]].Pos)
}

// buildEdges numbers edges in order of first appearance (face order, then
// side order) so edge ids are reproducible for a given input.
func (m *Mesh) buildEdges() error {
	index := make(map[[2]int]int)

	for f, face := range m.faces {
		n := len(face.Vertices)
		m.faceEdges[f] = make([]int, n)

		for side := 0; side < n; side++ {
			a := face.Vertices[side]
			b := face.Vertices[(side+1)%n]
			pa, pb := m.positions[a], m.positions[b]
			if pa == pb {
				return fmt.Errorf("face %d side %d: %w", f, side, ErrDegenerateEdge)
			}

			key := [2]int{min(pa, pb), max(pa, pb)}
			i, ok := index[key]
			if !ok {
				index[key] = len(m.edges)
				m.faceEdges[f][side] = len(m.edges)
				m.edges = append(m.edges, Edge{
					Faces: [2]int{f, NoFace},
					Verts: [2][2]int{{a, b}, {-1, -1}},
					Sides: [2]int{side, -1},
				})
				continue
			}

			edge := &m.edges[i]
			if edge.Faces[1] != NoFace || edge.Faces[0] == f {
				return fmt.Errorf("edge %d at face %d: %w", i, f, ErrNonManifold)
			}
			if m.positions[edge.Verts[0][0]] == pa {
				return fmt.Errorf("edge %d between faces %d and %d: %w", i, edge.Faces[0], f, ErrInconsistentWinding)
			}
			edge.Faces[1] = f
			edge.Verts[1] = [2]int{a, b}
			edge.Sides[1] = side
			m.faceEdges[f][side] = i
		}
	}

	for i := range m.edges {
		m.edges[i].Angle = m.dihedralAngle(m.edges[i])
	}
	return nil
}

// dihedralAngle returns the signed angle between the normals of the two
// faces, measured around the edge direction as seen from Faces[0].
func (m *Mesh) dihedralAngle(e Edge) float64 {
	if e.IsBoundary() {
		return 0
	}
	n0 := m.FaceNormal(e.Faces[0])
	n1 := m.FaceNormal(e.Faces[1])
	dir := m.vertices[e.Verts[0][1]].Pos.Sub(m.vertices[e.Verts[0][0]].Pos).Normalize()
	return math.Atan2(n0.Cross(n1).Dot(dir), n0.Dot(n1))
}
