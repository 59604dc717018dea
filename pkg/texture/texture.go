// Package texture loads the images referenced by model materials
package texture

import (
	"fmt"
	"image"
	"io"
	"os"

	// decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/philipparndt/gocraft/pkg/mesh"
)

// Decode reads an image in any of the registered formats
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Load reads a texture from disk. The material name defaults to the file
// path.
func Load(path, name string) (mesh.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return mesh.Texture{}, fmt.Errorf("failed to open texture: %w", err)
	}
	defer file.Close()

	img, _, err := Decode(file)
	if err != nil {
		return mesh.Texture{}, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		name = path
	}
	return mesh.Texture{Name: name, Image: img}, nil
}
