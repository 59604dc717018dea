package export

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image/png"
	"io"

	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/papercraft"
)

const (
	svgHeader          = `<svg width="%gmm" height="%gmm" viewBox="0 0 %g %g" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" xmlns:xlink="http://www.w3.org/1999/xlink">`
	svgMultipageHeader = `<svg width="%gmm" height="%gmm" viewBox="0 0 %g %g" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd" xmlns:xlink="http://www.w3.org/1999/xlink">`
)

var lineStyles = map[LineKind]string{
	LineCut:      `stroke="black" stroke-width="0.2"`,
	LineMountain: `stroke="#c00000" stroke-width="0.2" stroke-dasharray="3 1 0.5 1"`,
	LineValley:   `stroke="#0050c0" stroke-width="0.2" stroke-dasharray="2 1"`,
}

var textAnchors = map[TextAlign]string{
	AlignStart:  "start",
	AlignMiddle: "middle",
	AlignEnd:    "end",
}

type writeFunc func(f string, args ...any)

// WriteSVG writes one page of the layout as a standalone SVG document in
// millimetres
func WriteSVG(w io.Writer, layout *Layout, page int) error {
	if page < 0 || page >= len(layout.Pages) {
		return fmt.Errorf("page %d out of range (%d pages)", page, len(layout.Pages))
	}
	pages := layout.Pages[page : page+1]

	return writeDocument(w, func(wr writeFunc) error {
		width, height := layout.PageSize[0], layout.PageSize[1]
		wr(svgHeader, width, height, width, height)
		wr("\n")
		if err := writeDefs(wr, layout, pages); err != nil {
			return err
		}
		writePage(wr, layout, pages[0])
		wr("</svg>\n")
		return nil
	})
}

// WriteSVGMultipage writes every page into one Inkscape document. Pages sit
// on the page grid and are declared in the named view so Inkscape shows and
// exports them as separate pages.
func WriteSVGMultipage(w io.Writer, layout *Layout) error {
	cols := max(layout.Options.PageCols, 1)
	rows := max((len(layout.Pages)+cols-1)/cols, 1)
	width, height := layout.PageSize[0], layout.PageSize[1]
	totalWidth := float64(cols)*(width+papercraft.PageSeparation) - papercraft.PageSeparation
	totalHeight := float64(rows)*(height+papercraft.PageSeparation) - papercraft.PageSeparation

	return writeDocument(w, func(wr writeFunc) error {
		wr(svgMultipageHeader, totalWidth, totalHeight, totalWidth, totalHeight)
		wr("\n")
		if err := writeDefs(wr, layout, layout.Pages); err != nil {
			return err
		}

		wr("<sodipodi:namedview>\n")
		for _, pg := range layout.Pages {
			at := layout.Options.PagePosition(pg.Index)
			wr(`<inkscape:page x="%g" y="%g" width="%g" height="%g" id="Page_%d"/>`+"\n",
				at.X, at.Y, width, height, pg.Index+1)
		}
		wr("</sodipodi:namedview>\n")

		for _, pg := range layout.Pages {
			at := layout.Options.PagePosition(pg.Index)
			wr(`<g inkscape:label="Page_%d" inkscape:groupmode="layer" id="page_%d" transform="translate(%g,%g)">`+"\n",
				pg.Index+1, pg.Index+1, at.X, at.Y)
			writePage(wr, layout, pg)
			wr("</g>\n")
		}
		wr("</svg>\n")
		return nil
	})
}

// writeDocument runs body with an error-latching writer and flushes it
func writeDocument(w io.Writer, body func(wr writeFunc) error) error {
	var werr error
	bw := bufio.NewWriter(w)
	wr := func(f string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, f, args...)
	}

	if err := body(wr); err != nil {
		return err
	}
	if werr == nil {
		werr = bw.Flush()
	}
	return werr
}

// writeDefs embeds the textures used on the given pages and the clip path
// of every textured triangle
func writeDefs(wr writeFunc, layout *Layout, pages []Page) error {
	used := make(map[int]bool)
	for _, pg := range pages {
		for _, t := range pg.Triangles {
			used[t.Material] = true
		}
	}

	wr("<defs>\n")
	for material, tex := range layout.Textures {
		if !used[material] || tex.Image == nil {
			continue
		}
		data, err := encodePNG(tex)
		if err != nil {
			return fmt.Errorf("texture %q: %w", tex.Name, err)
		}
		tw, th := tex.Size()
		wr(`<image id="tex%d" width="%d" height="%d" preserveAspectRatio="none" xlink:href="data:image/png;base64,%s"/>`+"\n", material, tw, th, data)
	}
	for _, pg := range pages {
		for i, t := range pg.Triangles {
			wr(`<clipPath id="clip%d_%d"><path d="%s"/></clipPath>`+"\n", pg.Index, i, pathData(t.Points[:]))
		}
	}
	wr("</defs>\n")
	return nil
}

func writePage(wr writeFunc, layout *Layout, pg Page) {
	wr(`<g inkscape:label="faces" fill="#f4f4f4" stroke="none">` + "\n")
	for _, f := range pg.Faces {
		wr(`<path d="%s"/>`+"\n", pathData(f.Points))
	}
	wr("</g>\n")

	wr(`<g inkscape:label="textures">` + "\n")
	for i, t := range pg.Triangles {
		if t.Material < 0 || t.Material >= len(layout.Textures) || layout.Textures[t.Material].Image == nil {
			continue
		}
		tw, th := layout.Textures[t.Material].Size()
		m, ok := PixelTextureMatrix(t.UVs, t.Points, tw, th)
		if !ok {
			continue
		}
		a := m.SVG()
		wr(`<g clip-path="url(#clip%d_%d)"><use xlink:href="#tex%d" transform="matrix(%g %g %g %g %g %g)"/></g>`+"\n",
			pg.Index, i, t.Material, a[0], a[1], a[2], a[3], a[4], a[5])
	}
	wr("</g>\n")

	wr(`<g inkscape:label="flaps" fill="#e8e8e8" stroke="black" stroke-width="0.2">` + "\n")
	for _, f := range pg.Flaps {
		wr(`<path d="%s"/>`+"\n", pathData(f.Points))
	}
	wr("</g>\n")

	wr(`<g inkscape:label="lines" fill="none">` + "\n")
	for _, l := range pg.Lines {
		wr(`<line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" %s/>`+"\n", l.A.X, l.A.Y, l.B.X, l.B.Y, lineStyles[l.Kind])
	}
	wr("</g>\n")

	wr(`<g inkscape:label="texts" font-family="sans-serif" fill="black">` + "\n")
	for _, t := range pg.Texts {
		wr(`<text x="%.3f" y="%.3f" font-size="%.3f" text-anchor="%s">%s</text>`+"\n",
			t.Pos.X, t.Pos.Y, t.Size, textAnchors[t.Align], html.EscapeString(t.Value))
	}
	wr("</g>\n")
}

func pathData(points []geometry.Vector2) string {
	var b bytes.Buffer
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&b, "M %.3f,%.3f", p.X, p.Y)
		} else {
			fmt.Fprintf(&b, " L %.3f,%.3f", p.X, p.Y)
		}
	}
	b.WriteString(" Z")
	return b.String()
}

func encodePNG(tex mesh.Texture) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, tex.Image); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
