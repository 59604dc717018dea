// Package preview renders a shaded 3D thumbnail of a model with each face
// tinted by the island it was unfolded into and the cut edges outlined
package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
)

// Options controls the rendered view
type Options struct {
	Width  int
	Height int
	// Yaw and Pitch orbit the camera around the model, in radians
	Yaw        float64
	Pitch      float64
	Background color.RGBA
}

// DefaultOptions returns a 512x512 three-quarter view
func DefaultOptions() Options {
	return Options{
		Width:      512,
		Height:     512,
		Yaw:        math.Pi / 6,
		Pitch:      math.Pi / 8,
		Background: color.RGBA{255, 255, 255, 255},
	}
}

// Palette colours islands in the order the project lists them
var Palette = []color.RGBA{
	{141, 211, 199, 255},
	{255, 237, 111, 255},
	{190, 186, 218, 255},
	{251, 128, 114, 255},
	{128, 177, 211, 255},
	{253, 180, 98, 255},
	{179, 222, 105, 255},
	{252, 205, 229, 255},
}

var cutColor = color.RGBA{180, 20, 20, 255}

// Render draws the mesh with every face in the first palette colour
func Render(m *mesh.Mesh, opts Options) *image.RGBA {
	return render(m, opts, func(int) color.RGBA { return Palette[0] }, nil)
}

// RenderProject draws the project's mesh with faces coloured by island and
// cut edges outlined
func RenderProject(p *papercraft.Project, opts Options) *image.RGBA {
	m := p.Mesh()
	var cuts []int
	for e := 0; e < m.NumEdges(); e++ {
		if p.EdgeState(e).Status == papercraft.Cut {
			cuts = append(cuts, e)
		}
	}
	return render(m, opts, islandColors(p), cuts)
}

func islandColors(p *papercraft.Project) func(f int) color.RGBA {
	index := make(map[papercraft.IslandID]int)
	for i, isl := range p.Islands() {
		index[isl.ID] = i
	}
	return func(f int) color.RGBA {
		return Palette[index[p.IslandOf(f)]%len(Palette)]
	}
}

func render(m *mesh.Mesh, opts Options, faceColor func(f int) color.RGBA, lines []int) *image.RGBA {
	width, height := max(opts.Width, 1), max(opts.Height, 1)
	c := newCanvas(width, height, opts.Background)

	bbox := geometry.NewBoundingBox()
	for i := 0; i < m.NumVertices(); i++ {
		bbox.Extend(m.Vertex(i).Pos)
	}
	camera := NewCamera(bbox, opts.Yaw, opts.Pitch)
	forward := camera.Forward()
	project := func(p geometry.Vector3) vertex {
		x, y, z := camera.Project(p, float64(width), float64(height))
		return vertex{x, y, z}
	}

	for f := 0; f < m.NumFaces(); f++ {
		points := m.FacePositions(f)
		col := shade(faceColor(f), m.FaceNormal(f), forward)
		first := project(points[0])
		for i := 1; i+1 < len(points); i++ {
			c.fillTriangle(first, project(points[i]), project(points[i+1]), col)
		}
	}

	bias := bbox.Size().Length() * 1e-3
	for _, e := range lines {
		edge := m.Edge(e)
		a := m.Vertex(edge.Verts[0][0]).Pos
		b := m.Vertex(edge.Verts[0][1]).Pos
		c.drawLine(project(a), project(b), cutColor, bias)
	}
	return c.img
}

// shade darkens a colour by the angle between the face and the view. Faces
// seen from behind are drawn darker still.
func shade(col color.RGBA, normal, forward geometry.Vector3) color.RGBA {
	facing := -normal.Dot(forward)
	light := 0.35 + 0.65*math.Abs(facing)
	if facing < 0 {
		light *= 0.6
	}
	scale := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * light))
	}
	return color.RGBA{scale(col.R), scale(col.G), scale(col.B), col.A}
}
