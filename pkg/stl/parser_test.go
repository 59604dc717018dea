package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTetrahedron = `solid corner
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 0
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid corner
`

func binarySTL(header string, triangles [][4][3]float32) []byte {
	var buf bytes.Buffer
	h := make([]byte, 80)
	copy(h, header)
	buf.Write(h)
	binary.Write(&buf, binary.LittleEndian, uint32(len(triangles)))
	for _, tri := range triangles {
		binary.Write(&buf, binary.LittleEndian, tri)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

var corner = [][4][3]float32{
	{{0, 0, -1}, {0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
	{{0, -1, 0}, {0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
}

func TestParseASCII(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiTetrahedron))
	require.NoError(t, err)

	assert.Equal(t, "corner", model.Name)
	require.Equal(t, 4, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(0, 0, -1), model.Normals[0])
	assert.Equal(t, geometry.NewVector3(0, 1, 0), model.Triangles[0].V2)
}

func TestParseASCIIErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad number", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 zero 0\n"},
		{"short vertex", "solid x\nfacet normal 0 0 1\nvertex 0 0\n"},
		{"two vertices", "solid x\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\nendfacet\n"},
		{"bad facet", "solid x\nfacet 0 0 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReader(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseBinary(t *testing.T) {
	model, err := ParseReader(bytes.NewReader(binarySTL("exported by test", corner)))
	require.NoError(t, err)

	assert.Equal(t, "exported by test", model.Name)
	require.Equal(t, 4, model.TriangleCount())
	assert.Equal(t, geometry.NewVector3(0, 0, 1), model.Triangles[1].V3)
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solid.stl")
	require.NoError(t, os.WriteFile(path, binarySTL("solid but binary", corner), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 4, model.TriangleCount())
}

func TestParseTruncatedBinary(t *testing.T) {
	data := binarySTL("short", corner)
	_, err := ParseReader(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestModelMesh(t *testing.T) {
	model, err := ParseReader(strings.NewReader(asciiTetrahedron))
	require.NoError(t, err)

	m, err := model.Mesh()
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 4, m.NumFaces())
	assert.Equal(t, 6, m.NumEdges())
	for e := 0; e < m.NumEdges(); e++ {
		assert.False(t, m.Edge(e).IsBoundary(), "edge %d", e)
	}
}

func TestModelMeshDropsSlivers(t *testing.T) {
	model := NewModel("sliver")
	for _, tri := range corner {
		model.AddFacet(geometry.Vector3{}, geometry.NewTriangle(
			geometry.NewVector3(float64(tri[1][0]), float64(tri[1][1]), float64(tri[1][2])),
			geometry.NewVector3(float64(tri[2][0]), float64(tri[2][1]), float64(tri[2][2])),
			geometry.NewVector3(float64(tri[3][0]), float64(tri[3][1]), float64(tri[3][2])),
		))
	}
	model.AddFacet(geometry.Vector3{}, geometry.NewTriangle(
		geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(2, 0, 0),
	))

	m, err := model.Mesh()
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumFaces())
}
