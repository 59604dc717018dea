package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gocraft/pkg/mesh"
	"github.com/philipparndt/gocraft/pkg/texture"
)

// ParseMaterials reads an MTL library and returns the diffuse texture map of
// every material that has one
func ParseMaterials(r io.Reader) (map[string]string, error) {
	maps := make(map[string]string)
	current := ""
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			current = strings.Join(fields[1:], " ")
		case "map_Kd":
			if current != "" {
				// options such as -s come before the file name
				maps[current] = fields[len(fields)-1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading MTL: %w", err)
	}
	return maps, nil
}

// Textures loads the textures of the model's materials, one per material
// index. Materials without a diffuse map get a texture without image.
func (m *Model) Textures() ([]mesh.Texture, error) {
	maps := make(map[string]string)
	for _, lib := range m.Libraries {
		file, err := os.Open(filepath.Join(m.Dir, lib))
		if err != nil {
			return nil, fmt.Errorf("material library: %w", err)
		}
		found, err := ParseMaterials(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lib, err)
		}
		for k, v := range found {
			maps[k] = v
		}
	}

	textures := make([]mesh.Texture, len(m.Materials))
	for i, name := range m.Materials {
		textures[i] = mesh.Texture{Name: name}
		path, ok := maps[name]
		if !ok {
			continue
		}
		tex, err := texture.Load(filepath.Join(m.Dir, path), name)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		textures[i] = tex
	}
	return textures, nil
}

// Mesh converts the model into an indexed mesh. Each distinct combination
// of position, uv and normal becomes one mesh vertex.
func (m *Model) Mesh(textures []mesh.Texture) (*mesh.Mesh, error) {
	index := make(map[Corner]int)
	var vertices []mesh.Vertex
	faces := make([]mesh.Face, 0, len(m.Faces))

	for _, f := range m.Faces {
		face := mesh.Face{Material: f.Material, Vertices: make([]int, len(f.Corners))}
		for i, c := range f.Corners {
			v, ok := index[c]
			if !ok {
				v = len(vertices)
				index[c] = v
				vertex := mesh.Vertex{Pos: m.Positions[c.Position]}
				if c.UV >= 0 {
					vertex.UV = m.UVs[c.UV]
				}
				if c.Normal >= 0 {
					vertex.Normal = m.Normals[c.Normal]
				}
				vertices = append(vertices, vertex)
			}
			face.Vertices[i] = v
		}
		faces = append(faces, face)
	}

	result, err := mesh.New(vertices, faces, textures)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", m.Name, err)
	}
	return result, nil
}

// Load reads an OBJ file with its materials and textures
func Load(filename string) (*mesh.Mesh, error) {
	model, err := Parse(filename)
	if err != nil {
		return nil, err
	}
	textures, err := model.Textures()
	if err != nil {
		return nil, err
	}
	return model.Mesh(textures)
}
