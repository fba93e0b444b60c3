package imageio

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

func TestFormat(t *testing.T) {
	for path, want := range map[string]string{
		"a.png": "png", "b.JPG": "jpeg", "c.jpeg": "jpeg",
		"d.bmp": "bmp", "e.tga": "tga", "dir/f.WebP": "webp",
	} {
		got, err := Format(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := Format("scene.exr")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLosslessRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := testImage()
	for _, ext := range []string{"png", "bmp", "tga", "webp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "nested", "frame."+ext)
			require.NoError(t, Save(path, src))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), got.Bounds())
			assert.Equal(t, src.Pix, got.Pix)
		})
	}
}

func TestJPEGRoundTripIsClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	src := testImage()
	require.NoError(t, Save(path, src))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), got.Bounds())
	c := got.NRGBAAt(8, 4)
	assert.InDelta(t, 128, int(c.R), 24)
	assert.Equal(t, uint8(255), c.A)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	assert.ErrorIs(t, Save("out.gif", testImage()), ErrUnsupportedFormat)
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, testImage(), "gif"), ErrUnsupportedFormat)
}

func TestToNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(2, 2, 4, 4))
	gray.SetGray(3, 3, color.Gray{Y: 200})
	got := ToNRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())
	assert.Equal(t, color.NRGBA{200, 200, 200, 255}, got.NRGBAAt(1, 1))

	src := testImage()
	assert.Same(t, src, ToNRGBA(src))
}
