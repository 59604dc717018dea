package papercraft

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r2"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// PackGap is the spacing in millimetres kept between packed islands
const PackGap = 2.0

type placement struct {
	island *Island
	bounds r2.Rect
	area   float64
	target r2.Rect
	page   int
}

// planPack lays the islands out on shelves, largest first. Rows fill the
// printable area of a page left to right, then top to bottom; a full page
// continues on the next one.
func (p *Project) planPack() ([]placement, int, error) {
	items := make([]placement, len(p.islands))
	for i, isl := range p.islands {
		bounds := p.IslandBounds(isl.ID)
		size := bounds.Size()
		// rounded so that moving an island never reorders equal shapes
		items[i] = placement{island: isl, bounds: bounds, area: math.Round(size.X * size.Y * 1e3)}
	}
	slices.SortStableFunc(items, func(a, b placement) int {
		return cmp.Or(
			cmp.Compare(b.area, a.area),
			cmp.Compare(a.island.ID, b.island.ID),
		)
	})

	usable := p.options.UsableSize()
	page := 0
	area := p.options.PrintableArea(page)
	cursor := area.Lo()
	var rowHeight float64
	for i := range items {
		size := items[i].bounds.Size()
		if size.X > usable.X || size.Y > usable.Y {
			return nil, 0, fmt.Errorf("island %d is %.1fx%.1f mm, page area is %.1fx%.1f mm: %w",
				items[i].island.ID, size.X, size.Y, usable.X, usable.Y, ErrIslandTooLarge)
		}
		cell := func() r2.Rect { return r2.RectFromPoints(cursor, cursor.Add(size)) }

		if cursor.X > area.X.Lo && cell().X.Hi > area.X.Hi {
			cursor = r2.Point{X: area.X.Lo, Y: cursor.Y + rowHeight + PackGap}
			rowHeight = 0
		}
		if cursor.Y > area.Y.Lo && cell().Y.Hi > area.Y.Hi {
			page++
			area = p.options.PrintableArea(page)
			cursor = area.Lo()
			rowHeight = 0
		}

		items[i].target = cell()
		items[i].page = page
		cursor.X = items[i].target.X.Hi + PackGap
		rowHeight = max(rowHeight, size.Y)
	}
	return items, page + 1, nil
}

// pack plans and applies a packing. With bump set, every island that moved
// gets a new version.
func (p *Project) pack(bump bool) error {
	plan, pages, err := p.planPack()
	if err != nil {
		return err
	}
	p.applyPlan(plan, pages, bump)
	return nil
}

func (p *Project) applyPlan(plan []placement, pages int, bump bool) {
	for _, it := range plan {
		delta := geometry.FromPoint(it.target.Lo().Sub(it.bounds.Lo()))
		if delta.Length() < 1e-9 {
			continue
		}
		it.island.Position = it.island.Position.Add(delta)
		if bump {
			it.island.Version++
		}
	}
	p.options.Pages = max(p.options.Pages, pages)
}

// layoutRow places islands in a single row starting at the first page. It
// is the fallback when some island is larger than a page.
func (p *Project) layoutRow() {
	x := p.options.Margin.Left
	for _, isl := range p.islands {
		bounds := p.IslandBounds(isl.ID)
		target := geometry.NewVector2(x, p.options.Margin.Top)
		isl.Position = isl.Position.Add(target.Sub(geometry.FromPoint(bounds.Lo())))
		x += bounds.Size().X + PackGap
	}
}
