package papercraft

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// PageSeparation is the gap in millimetres between pages of the page grid
const PageSeparation = 10.0

// LabelPosition tells whether island labels are printed and on which side
// of the cut line they go
type LabelPosition string

const (
	LabelNone    LabelPosition = "none"
	LabelInside  LabelPosition = "inside"
	LabelOutside LabelPosition = "outside"
)

// Margin is the unprintable border of a page in millimetres
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// PaperOptions configures the printed layout. Lengths are millimetres.
type PaperOptions struct {
	PageSize [2]float64 `json:"pageSize" yaml:"page_size"`
	Margin   Margin     `json:"margin" yaml:"margin"`
	TabWidth float64    `json:"tabWidth" yaml:"tab_width"`
	// TabAngle is the angle in degrees between a flap side and its edge
	TabAngle float64 `json:"tabAngle" yaml:"tab_angle"`
	PageCols int     `json:"pageCols" yaml:"page_cols"`
	Pages    int     `json:"pages" yaml:"pages"`
	Textures bool    `json:"textures" yaml:"textures"`
	// Scale converts model units to millimetres
	Scale float64 `json:"scale" yaml:"scale"`

	ShowPageNumber    bool          `json:"showPageNumber" yaml:"show_page_number"`
	ShowSelfPromotion bool          `json:"showSelfPromotion" yaml:"show_self_promotion"`
	EdgeIDPosition    LabelPosition `json:"edgeIdPosition" yaml:"edge_id_position"`
	// EdgeIDFontSize is in points
	EdgeIDFontSize float64 `json:"edgeIdFontSize" yaml:"edge_id_font_size"`
}

// DefaultOptions returns A4 portrait with 10 mm margins
func DefaultOptions() PaperOptions {
	return PaperOptions{
		PageSize: [2]float64{210, 297},
		Margin:   Margin{Top: 10, Left: 10, Right: 10, Bottom: 10},
		TabWidth: 5,
		TabAngle: 45,
		PageCols: 2,
		Pages:    1,
		Textures: true,
		Scale:    1,

		ShowPageNumber:    true,
		ShowSelfPromotion: true,
		EdgeIDPosition:    LabelOutside,
		EdgeIDFontSize:    8,
	}
}

// Validate returns a normalized copy of the options. Page size and scale
// must be positive; margins, counts, tab and label settings are clamped.
// Margins that leave no printable area are accepted: packing then fails.
func (o PaperOptions) Validate() (PaperOptions, error) {
	if !(o.PageSize[0] > 0) || !(o.PageSize[1] > 0) {
		return o, fmt.Errorf("page size %vx%v: %w", o.PageSize[0], o.PageSize[1], ErrInvalidOptions)
	}
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		return o, fmt.Errorf("scale %v: %w", o.Scale, ErrInvalidOptions)
	}

	o.Margin.Top = math.Max(o.Margin.Top, 0)
	o.Margin.Left = math.Max(o.Margin.Left, 0)
	o.Margin.Right = math.Max(o.Margin.Right, 0)
	o.Margin.Bottom = math.Max(o.Margin.Bottom, 0)
	o.Pages = max(o.Pages, 1)
	o.PageCols = max(o.PageCols, 1)
	o.TabWidth = math.Max(o.TabWidth, 0)
	if o.TabAngle <= 0 || o.TabAngle > 90 {
		o.TabAngle = DefaultOptions().TabAngle
	}
	switch o.EdgeIDPosition {
	case LabelNone, LabelInside, LabelOutside:
	default:
		o.EdgeIDPosition = LabelNone
	}
	if !(o.EdgeIDFontSize > 0) {
		o.EdgeIDFontSize = DefaultOptions().EdgeIDFontSize
	}
	return o, nil
}

// UsableSize returns the printable area of one page
func (o PaperOptions) UsableSize() geometry.Vector2 {
	return geometry.NewVector2(
		o.PageSize[0]-o.Margin.Left-o.Margin.Right,
		o.PageSize[1]-o.Margin.Top-o.Margin.Bottom,
	)
}

// PrintableArea returns the page-space rectangle inside the margins of a page
func (o PaperOptions) PrintableArea(page int) r2.Rect {
	corner := o.PagePosition(page)
	return r2.Rect{
		X: r1.Interval{Lo: corner.X + o.Margin.Left, Hi: corner.X + o.PageSize[0] - o.Margin.Right},
		Y: r1.Interval{Lo: corner.Y + o.Margin.Top, Hi: corner.Y + o.PageSize[1] - o.Margin.Bottom},
	}
}

// PagePosition returns the top-left corner of a page in the page grid
func (o PaperOptions) PagePosition(page int) geometry.Vector2 {
	cols := max(o.PageCols, 1)
	col := page % cols
	row := page / cols
	return geometry.NewVector2(
		float64(col)*(o.PageSize[0]+PageSeparation),
		float64(row)*(o.PageSize[1]+PageSeparation),
	)
}

// PageOf returns the page whose grid cell contains a point. Points left of
// or above the grid belong to the first column or row.
func (o PaperOptions) PageOf(point geometry.Vector2) int {
	cols := max(o.PageCols, 1)
	col := int(math.Floor(point.X / (o.PageSize[0] + PageSeparation)))
	row := int(math.Floor(point.Y / (o.PageSize[1] + PageSeparation)))
	col = min(max(col, 0), cols-1)
	row = max(row, 0)
	return row*cols + col
}
