// Package imageio reads and writes 8-bit images by file extension.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for extensions with no codec.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// JPEGQuality is used when saving .jpg/.jpeg files.
const JPEGQuality = 92

// Format returns the normalized codec name for path ("png", "jpeg", "bmp",
// "tga" or "webp").
func Format(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".bmp":
		return "bmp", nil
	case ".tga":
		return "tga", nil
	case ".webp":
		return "webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Load reads path and returns it as NRGBA with bounds at the origin.
func Load(path string) (*image.NRGBA, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads one image of the given format from r.
func Decode(r io.Reader, format string) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case "png":
		img, err = png.Decode(r)
	case "jpeg":
		img, err = jpeg.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tga":
		img, err = tga.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// Save writes img to path, creating parent directories.
func Save(path string, img image.Image) error {
	format, err := Format(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("imageio: mkdir %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, img, format); err != nil {
		f.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes img to w in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case "bmp":
		return bmp.Encode(w, img)
	case "tga":
		return tga.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ToNRGBA converts any image to NRGBA. An NRGBA already at the origin is
// returned as is.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
