package export

import (
	"fmt"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
)

// LineKind tells a writer how to draw an edge line
type LineKind int

const (
	LineCut LineKind = iota
	LineMountain
	LineValley
)

func (k LineKind) String() string {
	switch k {
	case LineMountain:
		return "mountain"
	case LineValley:
		return "valley"
	default:
		return "cut"
	}
}

// Line is one edge drawn on a page
type Line struct {
	Edge int
	Kind LineKind
	A, B geometry.Vector2
}

// FacePolygon is the outline of a face on its page
type FacePolygon struct {
	Face     int
	Material int
	Points   []geometry.Vector2
}

// TexturedTriangle is one fan triangle of a textured face. Matrix maps uv
// coordinates onto Points.
type TexturedTriangle struct {
	Face     int
	Material int
	Matrix   geometry.Affine
	Points   [3]geometry.Vector2
	UVs      [3]geometry.Vector2
}

// FlapPolygon is the outline of a glue flap
type FlapPolygon struct {
	Edge   int
	Points []geometry.Vector2
}

// FooterFontSize is the height in millimetres of the page footer texts
const FooterFontSize = 3.0

// Signature is the footer line printed when self promotion is enabled
const Signature = "Created with gocraft. https://github.com/philipparndt/gocraft"

// TextAlign anchors a text at its position
type TextAlign int

const (
	AlignStart TextAlign = iota
	AlignMiddle
	AlignEnd
)

// Text is a label printed on a page. Size is the font height in millimetres.
type Text struct {
	Pos   geometry.Vector2
	Size  float64
	Align TextAlign
	Value string
}

// Page holds everything drawn on one sheet. Coordinates are millimetres
// from the top-left corner of the sheet.
type Page struct {
	Index     int
	Faces     []FacePolygon
	Triangles []TexturedTriangle
	Lines     []Line
	Flaps     []FlapPolygon
	Texts     []Text
}

// Layout is the printable form of a project
type Layout struct {
	Options  papercraft.PaperOptions
	PageSize [2]float64
	Pages    []Page
	Textures []mesh.Texture
	// Skipped counts triangles left out because their uvs are collinear
	Skipped int
}

// BuildLayout resolves every island to the page that holds the center of
// its bounding box and collects faces, textured triangles, fold and cut
// lines, flaps and texts per page
func BuildLayout(p *papercraft.Project) *Layout {
	m := p.Mesh()
	opts := p.Options()
	layout := &Layout{
		Options:  opts,
		PageSize: opts.PageSize,
		Pages:    make([]Page, opts.Pages),
		Textures: m.Textures(),
	}
	for i := range layout.Pages {
		layout.Pages[i].Index = i
	}

	islandPage := make(map[papercraft.IslandID]int)
	for _, isl := range p.Islands() {
		islandPage[isl.ID] = opts.PageOf(geometry.FromPoint(p.IslandBounds(isl.ID).Center()))
	}
	pageOf := func(f int) *Page {
		idx := islandPage[p.IslandOf(f)]
		for len(layout.Pages) <= idx {
			layout.Pages = append(layout.Pages, Page{Index: len(layout.Pages)})
		}
		return &layout.Pages[idx]
	}
	local := func(f int, pts []geometry.Vector2) []geometry.Vector2 {
		origin := opts.PagePosition(islandPage[p.IslandOf(f)])
		out := make([]geometry.Vector2, len(pts))
		for i, pt := range pts {
			out[i] = pt.Sub(origin)
		}
		return out
	}

	for f := 0; f < m.NumFaces(); f++ {
		face := m.Face(f)
		points := local(f, p.FacePagePoints(f))
		page := pageOf(f)
		page.Faces = append(page.Faces, FacePolygon{Face: f, Material: face.Material, Points: points})

		if !opts.Textures {
			continue
		}
		if _, ok := m.Texture(face.Material); !ok {
			continue
		}
		uvs := m.FaceUVs(f)
		for _, tri := range FanTriangulate(len(points)) {
			t := TexturedTriangle{
				Face:     f,
				Material: face.Material,
				Points:   [3]geometry.Vector2{points[tri[0]], points[tri[1]], points[tri[2]]},
				UVs:      [3]geometry.Vector2{uvs[tri[0]], uvs[tri[1]], uvs[tri[2]]},
			}
			matrix, ok := TextureMatrix(t.UVs, t.Points)
			if !ok {
				layout.Skipped++
				continue
			}
			t.Matrix = matrix
			page.Triangles = append(page.Triangles, t)
		}
	}

	for e := 0; e < m.NumEdges(); e++ {
		edge := m.Edge(e)
		state := p.EdgeState(e)

		if state.Status == papercraft.Joined {
			kind, ok := foldLine(edge.Fold())
			if !ok {
				continue
			}
			f := edge.Faces[0]
			a, b := faceSide(p, f, edge.Sides[0], local)
			page := pageOf(f)
			page.Lines = append(page.Lines, Line{Edge: e, Kind: kind, A: a, B: b})
			continue
		}

		for slot, f := range edge.Faces {
			if f == mesh.NoFace {
				continue
			}
			a, b := faceSide(p, f, edge.Sides[slot], local)
			page := pageOf(f)
			page.Lines = append(page.Lines, Line{Edge: e, Kind: LineCut, A: a, B: b})
		}
		if flap, ok := p.Flap(e); ok {
			f := edge.Faces[0]
			page := pageOf(f)
			page.Flaps = append(page.Flaps, FlapPolygon{Edge: e, Points: local(f, flap)})
		}
	}

	if opts.EdgeIDPosition != papercraft.LabelNone {
		size := opts.EdgeIDFontSize * 25.4 / 72
		for _, isl := range p.Islands() {
			page := pageOf(isl.Faces[0])
			center := geometry.FromPoint(p.IslandBounds(isl.ID).Center())
			page.Texts = append(page.Texts, Text{
				Pos:   center.Sub(opts.PagePosition(page.Index)),
				Size:  size,
				Align: AlignMiddle,
				Value: isl.Name(),
			})
		}
	}
	for i := range layout.Pages {
		layout.Pages[i].Texts = append(layout.Pages[i].Texts, footer(opts, i, len(layout.Pages))...)
	}
	return layout
}

// footer returns the signature and the page number of page i out of n
func footer(opts papercraft.PaperOptions, i, n int) []Text {
	width, height := opts.PageSize[0], opts.PageSize[1]
	y := min(height-opts.Margin.Bottom+FooterFontSize, height-FooterFontSize)

	var texts []Text
	if opts.ShowSelfPromotion {
		texts = append(texts, Text{
			Pos:   geometry.NewVector2(opts.Margin.Left, y),
			Size:  FooterFontSize,
			Align: AlignStart,
			Value: Signature,
		})
	}
	if opts.ShowPageNumber {
		texts = append(texts, Text{
			Pos:   geometry.NewVector2(width-opts.Margin.Right, y),
			Size:  FooterFontSize,
			Align: AlignEnd,
			Value: fmt.Sprintf("Page %d/%d", i+1, n),
		})
	}
	return texts
}

func foldLine(kind mesh.FoldKind) (LineKind, bool) {
	switch kind {
	case mesh.Mountain:
		return LineMountain, true
	case mesh.Valley:
		return LineValley, true
	}
	return LineCut, false
}

func faceSide(p *papercraft.Project, f, side int, local func(int, []geometry.Vector2) []geometry.Vector2) (geometry.Vector2, geometry.Vector2) {
	pts := local(f, p.FacePagePoints(f))
	return pts[side], pts[(side+1)%len(pts)]
}
