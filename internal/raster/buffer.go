package raster

import (
	"image"

	"foveal-renderer/internal/mathutil"
)

// FrameBuffer holds linear RGBA color and window-space depth as flat slices
// for cache locality. Color is unclamped; clamping happens at output.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []float64 // RGBA interleaved, len = W*H*4
	Depth  []float64 // window depth in [0,1] per pixel, cleared to 1 (far)
}

// NewFrameBuffer allocates a transparent black color buffer and a far-cleared
// depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	depth := make([]float64, n)
	for i := range depth {
		depth[i] = 1
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]float64, n*4),
		Depth:  depth,
	}
}

// NewColorBuffer allocates a buffer with no depth plane, for post-process
// outputs.
func NewColorBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{Width: w, Height: h, Color: make([]float64, w*h*4)}
}

// Clear fills the color plane with c and resets depth to far.
func (fb *FrameBuffer) Clear(c [4]float64) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3] = c[0], c[1], c[2], c[3]
	}
	for i := range fb.Depth {
		fb.Depth[i] = 1
	}
}

// At returns the RGBA color of pixel (x, y).
func (fb *FrameBuffer) At(x, y int) [4]float64 {
	i := (y*fb.Width + x) * 4
	return [4]float64{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

// Set stores the RGBA color of pixel (x, y).
func (fb *FrameBuffer) Set(x, y int, c [4]float64) {
	i := (y*fb.Width + x) * 4
	fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3] = c[0], c[1], c[2], c[3]
}

// DepthAt returns the window depth of pixel (x, y).
func (fb *FrameBuffer) DepthAt(x, y int) float64 {
	return fb.Depth[y*fb.Width+x]
}

// NRGBA clamps color to [0,1] and quantizes it to 8 bits.
func (fb *FrameBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		src := fb.Color[y*fb.Width*4 : (y+1)*fb.Width*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+fb.Width*4]
		for i, v := range src {
			dst[i] = clamp255(v * 255)
		}
	}
	return img
}

// FromImage converts an 8-bit image to a color buffer with values in [0,1].
func FromImage(img *image.NRGBA) *FrameBuffer {
	b := img.Bounds()
	fb := NewColorBuffer(b.Dx(), b.Dy())
	for y := 0; y < fb.Height; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < fb.Width*4; x++ {
			fb.Color[y*fb.Width*4+x] = float64(row[x]) / 255
		}
	}
	return fb
}

func clamp255(v float64) uint8 {
	return uint8(mathutil.Clamp(v, 0, 255) + 0.5)
}
