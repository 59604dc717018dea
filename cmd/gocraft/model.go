package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/philipparndt/gocraft/pkg/export"
	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/obj"
	"github.com/philipparndt/gocraft/pkg/papercraft"
	"github.com/philipparndt/gocraft/pkg/preview"
	"github.com/philipparndt/gocraft/pkg/scad"
	"github.com/philipparndt/gocraft/pkg/stl"
)

// loadMesh reads an OBJ, STL or OpenSCAD file, or builds a primitive when
// the name is cube or tetrahedron
func loadMesh(name string, size float64) (*mesh.Mesh, error) {
	switch name {
	case "cube":
		return mesh.Cube(size), nil
	case "tetrahedron":
		return mesh.Tetrahedron(size), nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".obj":
		return obj.Load(name)
	case ".stl":
		model, err := stl.Parse(name)
		if err != nil {
			return nil, err
		}
		return model.Mesh()
	case ".scad":
		return scad.Load(context.Background(), name)
	}
	return nil, fmt.Errorf("unsupported model format: %s", name)
}

// modelSources lists the files a model is read from: the model itself and,
// for OBJ, its material libraries and texture images. OpenSCAD sources
// include every used or included file.
func modelSources(name string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".scad":
		return scad.Dependencies(name)
	case ".obj":
	default:
		return []string{name}, nil
	}
	sources := []string{name}

	model, err := obj.Parse(name)
	if err != nil {
		return nil, err
	}
	for _, lib := range model.Libraries {
		path := filepath.Join(model.Dir, lib)
		sources = append(sources, path)

		file, err := os.Open(path)
		if err != nil {
			continue
		}
		textures, err := obj.ParseMaterials(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		for _, image := range slices.Sorted(maps.Values(textures)) {
			sources = append(sources, filepath.Join(model.Dir, image))
		}
	}
	return sources, nil
}

// writePages exports every page of the project as <prefix>N.svg into dir,
// or all pages as one Inkscape document <prefix>all.svg when single is set
func writePages(p *papercraft.Project, dir, prefix string, single bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	layout := export.BuildLayout(p)
	if layout.Skipped > 0 {
		fmt.Printf("Warning: %d textured triangles skipped (degenerate uvs)\n", layout.Skipped)
	}

	if single {
		path := filepath.Join(dir, prefix+"all.svg")
		err := writeFile(path, func(w io.Writer) error {
			return export.WriteSVGMultipage(w, layout)
		})
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	var written []string
	for i := range layout.Pages {
		path := filepath.Join(dir, fmt.Sprintf("%s%d.svg", prefix, i+1))
		err := writeFile(path, func(w io.Writer) error {
			return export.WriteSVG(w, layout, i)
		})
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = write(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// writePreview renders the project's model as a PNG thumbnail
func writePreview(p *papercraft.Project, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return png.Encode(w, preview.RenderProject(p, preview.DefaultOptions()))
	})
}
