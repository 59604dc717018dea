// Package mesh holds the immutable polyhedral model that papercraft projects
// are unfolded from: indexed vertices, convex faces and the edge adjacency
// between them.
package mesh

import (
	"fmt"
	"image"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// Vertex is a mesh corner. Two vertices may share a position (for example
// along a UV seam); edges are matched by position, not by vertex index.
type Vertex struct {
	Pos    geometry.Vector3
	Normal geometry.Vector3
	UV     geometry.Vector2
}

// Face is a convex polygon given as vertex indices in counter-clockwise
// order seen from outside.
type Face struct {
	Vertices []int
	Material int
}

// Texture is the image bound to a material
type Texture struct {
	Name  string
	Image image.Image
}

// Size returns the pixel dimensions, or zero when the texture has no image
func (t Texture) Size() (int, int) {
	if t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Mesh is the read-only model. Build it with New.
type Mesh struct {
	vertices  []Vertex
	faces     []Face
	edges     []Edge
	faceEdges [][]int
	textures  []Texture
	positions []int // position id per vertex
}

// New validates the input and builds the edge adjacency
func New(vertices []Vertex, faces []Face, textures []Texture) (*Mesh, error) {
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}

	m := &Mesh{
		vertices:  append([]Vertex(nil), vertices...),
		faces:     make([]Face, len(faces)),
		faceEdges: make([][]int, len(faces)),
		textures:  append([]Texture(nil), textures...),
	}

	for i, face := range faces {
		if len(face.Vertices) < 3 {
			return nil, fmt.Errorf("face %d: %w", i, ErrInvalidFace)
		}
		for _, v := range face.Vertices {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", i, v, len(vertices), ErrVertexIndex)
			}
		}
		m.faces[i] = Face{
			Vertices: append([]int(nil), face.Vertices...),
			Material: face.Material,
		}
	}

	m.positions = positionIDs(m.vertices)
	if err := m.buildEdges(); err != nil {
		return nil, err
	}
	return m, nil
}

// positionIDs assigns the same id to vertices with identical positions
func positionIDs(vertices []Vertex) []int {
	ids := make([]int, len(vertices))
	seen := make(map[geometry.Vector3]int, len(vertices))
	for i, v := range vertices {
		id, ok := seen[v.Pos]
		if !ok {
			id = len(seen)
			seen[v.Pos] = id
		}
		ids[i] = id
	}
	return ids
}

// NumVertices returns the vertex count
func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

// Vertex returns vertex i
func (m *Mesh) Vertex(i int) Vertex {
	return m.vertices[i]
}

// NumFaces returns the face count
func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// Face returns face i. The vertex slice must not be modified.
func (m *Mesh) Face(i int) Face {
	return m.faces[i]
}

// FaceEdges returns the edge index of every side of face f; side i runs
// from vertex i to vertex i+1.
func (m *Mesh) FaceEdges(f int) []int {
	return m.faceEdges[f]
}

// Textures returns the texture per material
func (m *Mesh) Textures() []Texture {
	return m.textures
}

// Texture returns the texture of a material if it carries an image
func (m *Mesh) Texture(material int) (Texture, bool) {
	if material < 0 || material >= len(m.textures) || m.textures[material].Image == nil {
		return Texture{}, false
	}
	return m.textures[material], true
}

// FacePositions returns the 3D positions of a face's vertices
func (m *Mesh) FacePositions(f int) []geometry.Vector3 {
	face := m.faces[f]
	points := make([]geometry.Vector3, len(face.Vertices))
	for i, v := range face.Vertices {
		points[i] = m.vertices[v].Pos
	}
	return points
}

// FaceUVs returns the texture coordinates of a face's vertices
func (m *Mesh) FaceUVs(f int) []geometry.Vector2 {
	face := m.faces[f]
	uvs := make([]geometry.Vector2, len(face.Vertices))
	for i, v := range face.Vertices {
		uvs[i] = m.vertices[v].UV
	}
	return uvs
}

// FaceNormal returns the average unit normal of face f
func (m *Mesh) FaceNormal(f int) geometry.Vector3 {
	return geometry.NewellNormal(m.FacePositions(f))
}

// SideOf returns the side index of face f that lies on edge e, or -1
func (m *Mesh) SideOf(f, e int) int {
	for side, edge := range m.faceEdges[f] {
		if edge == e {
			return side
		}
	}
	return -1
}
