package papercraft

import (
	"math"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// FlapAction selects how ToggleFlap changes the flap of an edge
type FlapAction int

const (
	FlapToggle FlapAction = iota
	FlapOn
	FlapOff
)

func (a FlapAction) apply(current bool) bool {
	switch a {
	case FlapOn:
		return true
	case FlapOff:
		return false
	default:
		return !current
	}
}

// Flap returns the page-space polygon of the flap on edge e, or false when
// the edge has none. The flap hangs off the first face of the edge.
func (p *Project) Flap(e int) ([]geometry.Vector2, bool) {
	if e < 0 || e >= len(p.edges) {
		return nil, false
	}
	return p.flapOn(e, p.mesh.Edge(e).Faces[0])
}

func (p *Project) flapOn(e, f int) ([]geometry.Vector2, bool) {
	state := p.edges[e]
	edge := p.mesh.Edge(e)
	if state.Status != Cut || !state.Flap || edge.IsBoundary() || edge.Faces[0] != f {
		return nil, false
	}

	m := p.FacePageMatrix(f)
	shape := p.shapes[f]
	side := edge.Sides[0]
	a := m.TransformPoint(shape[side])
	b := m.TransformPoint(shape[(side+1)%len(shape)])
	return flapPolygon(a, b, p.options.TabWidth, p.options.TabAngle, state.FlapOffset), true
}

// flapPolygon builds the trapezoid glued along a→b. The face lies left of
// a→b, so the flap grows to the right. offset moves the start of the flap
// along the edge.
func flapPolygon(a, b geometry.Vector2, width, angleDeg, offset float64) []geometry.Vector2 {
	length := a.Distance(b)
	if length == 0 {
		return nil
	}
	dir := b.Sub(a).Mul(1 / length)
	out := geometry.NewVector2(dir.Y, -dir.X)

	start := math.Min(math.Max(offset, 0), 0.5*length)
	height := math.Min(width, 0.4*length)
	inset := height / math.Tan(angleDeg*math.Pi/180)
	inset = math.Min(inset, 0.45*(length-start))

	a = a.Add(dir.Mul(start))
	return []geometry.Vector2{
		a,
		a.Add(out.Mul(height)).Add(dir.Mul(inset)),
		b.Add(out.Mul(height)).Sub(dir.Mul(inset)),
		b,
	}
}
