package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func checker() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(3, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodeFormats(t *testing.T) {
	var pngData, bmpData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, checker()))
	require.NoError(t, bmp.Encode(&bmpData, checker()))

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", pngData.Bytes(), "png"},
		{"bmp", bmpData.Bytes(), "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := Decode(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())

			r, _, _, _ := img.At(0, 0).RGBA()
			assert.Equal(t, uint32(0xffff), r)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tex, err := Load(path, "paper")
	require.NoError(t, err)
	assert.Equal(t, "paper", tex.Name)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)

	tex, err = Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, tex.Name)

	_, err = Load(filepath.Join(dir, "missing.png"), "")
	assert.Error(t, err)
}
