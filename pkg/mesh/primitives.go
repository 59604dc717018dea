package mesh

import "github.com/philipparndt/gocraft/pkg/geometry"

// unitSquareUV maps the four corners of a quad onto the full texture
var unitSquareUV = [4]geometry.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

// Cube returns an axis-aligned cube with one corner at the origin. Every face
// has its own four vertices carrying the full texture square, so the cube
// also exercises position-matched edges across UV seams.
func Cube(size float64) *Mesh {
	corner := func(x, y, z float64) geometry.Vector3 {
		return geometry.NewVector3(x*size, y*size, z*size)
	}
	quads := [6][4]geometry.Vector3{
		{corner(0, 0, 0), corner(0, 1, 0), corner(1, 1, 0), corner(1, 0, 0)}, // bottom
		{corner(0, 0, 1), corner(1, 0, 1), corner(1, 1, 1), corner(0, 1, 1)}, // top
		{corner(0, 0, 0), corner(1, 0, 0), corner(1, 0, 1), corner(0, 0, 1)}, // front
		{corner(0, 1, 0), corner(0, 1, 1), corner(1, 1, 1), corner(1, 1, 0)}, // back
		{corner(0, 0, 0), corner(0, 0, 1), corner(0, 1, 1), corner(0, 1, 0)}, // left
		{corner(1, 0, 0), corner(1, 1, 0), corner(1, 1, 1), corner(1, 0, 1)}, // right
	}

	var vertices []Vertex
	faces := make([]Face, 0, len(quads))
	for _, quad := range quads {
		normal := geometry.NewellNormal(quad[:])
		face := Face{Vertices: make([]int, 4)}
		for i, p := range quad {
			face.Vertices[i] = len(vertices)
			vertices = append(vertices, Vertex{Pos: p, Normal: normal, UV: unitSquareUV[i]})
		}
		faces = append(faces, face)
	}

	m, err := New(vertices, faces, nil)
	if err != nil {
		panic(err)
	}
	return m
}

// Tetrahedron returns the corner tetrahedron spanned by the unit axes
// scaled by size
func Tetrahedron(size float64) *Mesh {
	vertices := []Vertex{
		{Pos: geometry.NewVector3(0, 0, 0)},
		{Pos: geometry.NewVector3(size, 0, 0)},
		{Pos: geometry.NewVector3(0, size, 0)},
		{Pos: geometry.NewVector3(0, 0, size)},
	}
	faces := []Face{
		{Vertices: []int{0, 2, 1}},
		{Vertices: []int{0, 1, 3}},
		{Vertices: []int{0, 3, 2}},
		{Vertices: []int{1, 2, 3}},
	}

	m, err := New(vertices, faces, nil)
	if err != nil {
		panic(err)
	}
	return m
}
