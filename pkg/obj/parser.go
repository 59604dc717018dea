// Package obj reads Wavefront OBJ models and their MTL material libraries
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/gocraft/pkg/geometry"
)

// Corner references one vertex of a face. Indices are zero based; UV and
// Normal are -1 when the file does not give them.
type Corner struct {
	Position int
	UV       int
	Normal   int
}

// Face is a polygon with the material that was active when it was read
type Face struct {
	Corners  []Corner
	Material int
}

// Model is the content of an OBJ file
type Model struct {
	Name      string
	Dir       string
	Positions []geometry.Vector3
	UVs       []geometry.Vector2
	Normals   []geometry.Vector3
	Faces     []Face
	// Materials lists material names in order of first use
	Materials []string
	Libraries []string
}

// Parse reads an OBJ file. Material libraries are resolved relative to the
// file's directory.
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	model, err := ParseReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	model.Dir = filepath.Dir(filename)
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return model, nil
}

// ParseReader reads OBJ statements from r
func ParseReader(r io.Reader) (*Model, error) {
	model := &Model{}
	materials := make(map[string]int)
	material := 0

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "o":
			if len(fields) > 1 && model.Name == "" {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "v", "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo, fields[0], err)
			}
			p := geometry.NewVector3(v[0], v[1], v[2])
			if fields[0] == "v" {
				model.Positions = append(model.Positions, p)
			} else {
				model.Normals = append(model.Normals, p)
			}

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: vt: %w", lineNo, err)
			}
			model.UVs = append(model.UVs, geometry.NewVector2(v[0], v[1]))

		case "f":
			face := Face{Material: material}
			for _, ref := range fields[1:] {
				c, err := model.parseCorner(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
				}
				face.Corners = append(face.Corners, c)
			}
			if len(face.Corners) < 3 {
				return nil, fmt.Errorf("line %d: face has %d corners", lineNo, len(face.Corners))
			}
			model.Faces = append(model.Faces, face)

		case "usemtl":
			name := strings.Join(fields[1:], " ")
			idx, ok := materials[name]
			if !ok {
				idx = len(model.Materials)
				materials[name] = idx
				model.Materials = append(model.Materials, name)
			}
			material = idx

		case "mtllib":
			model.Libraries = append(model.Libraries, fields[1:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	return model, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseCorner reads v, v/vt, v//vn or v/vt/vn. Negative indices count back
// from the last element read so far.
func (m *Model) parseCorner(ref string) (Corner, error) {
	parts := strings.Split(ref, "/")
	c := Corner{UV: -1, Normal: -1}

	var err error
	if c.Position, err = resolveIndex(parts[0], len(m.Positions)); err != nil {
		return c, fmt.Errorf("vertex %q: %w", ref, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.UV, err = resolveIndex(parts[1], len(m.UVs)); err != nil {
			return c, fmt.Errorf("uv %q: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveIndex(parts[2], len(m.Normals)); err != nil {
			return c, fmt.Errorf("normal %q: %w", ref, err)
		}
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (%d defined)", i, count)
}
