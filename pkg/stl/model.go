package stl

import (
	"fmt"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
)

// Model is a raw triangle soup as stored in an STL file
type Model struct {
	Name      string
	Triangles []geometry.Triangle
	Normals   []geometry.Vector3
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddFacet adds a triangle with the normal stored in the file
func (m *Model) AddFacet(normal geometry.Vector3, triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
	m.Normals = append(m.Normals, normal)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Mesh welds the triangles into an indexed mesh. Corners at the same
// position share one vertex, so neighbouring triangles become adjacent.
// Triangles without area are dropped.
func (m *Model) Mesh() (*mesh.Mesh, error) {
	index := make(map[geometry.Vector3]int)
	var vertices []mesh.Vertex
	var faces []mesh.Face

	for i, tri := range m.Triangles {
		if tri.Area() < 1e-12 {
			continue
		}
		normal := m.Normals[i]
		if normal.IsZero() {
			normal = tri.Normal()
		}
		var face mesh.Face
		for _, p := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			v, ok := index[p]
			if !ok {
				v = len(vertices)
				index[p] = v
				vertices = append(vertices, mesh.Vertex{Pos: p, Normal: normal})
			}
			face.Vertices = append(face.Vertices, v)
		}
		faces = append(faces, face)
	}

	result, err := mesh.New(vertices, faces, nil)
	if err != nil {
		return nil, fmt.Errorf("stl %q: %w", m.Name, err)
	}
	return result, nil
}
