package mesh

import (
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// Stats summarises a mesh for reporting
type Stats struct {
	Vertices      int
	Faces         int
	Edges         int
	BoundaryEdges int
	Mountain      int
	Valley        int
	FlatEdges     int
	Materials     int
	BoundingBox   geometry.BoundingBox
	SurfaceArea   float64
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Stats computes the summary of the mesh
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices:    len(m.vertices),
		Faces:       len(m.faces),
		Edges:       len(m.edges),
		Materials:   len(m.textures),
		BoundingBox: geometry.NewBoundingBox(),
	}

	for _, v := range m.vertices {
		s.BoundingBox.Extend(v.Pos)
	}

	for f := range m.faces {
		points := m.FacePositions(f)
		for i := 1; i+1 < len(points); i++ {
			s.SurfaceArea += geometry.NewTriangle(points[0], points[i], points[i+1]).Area()
		}
	}

	s.MinEdgeLength = math.MaxFloat64
	total := 0.0
	for i, e := range m.edges {
		length := m.EdgeLength(i)
		total += length
		s.MinEdgeLength = math.Min(s.MinEdgeLength, length)
		s.MaxEdgeLength = math.Max(s.MaxEdgeLength, length)

		if e.IsBoundary() {
			s.BoundaryEdges++
			continue
		}
		switch e.Fold() {
		case Mountain:
			s.Mountain++
		case Valley:
			s.Valley++
		default:
			s.FlatEdges++
		}
	}
	if len(m.edges) > 0 {
		s.AvgEdgeLength = total / float64(len(m.edges))
	} else {
		s.MinEdgeLength = 0
	}
	return s
}
