package postprocess

import (
	"math/rand/v2"

	"foveal-renderer/internal/raster"
)

func noiseBuffer(w, h int, seed uint64) *raster.FrameBuffer {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	fb := raster.NewFrameBuffer(w, h)
	for i := range fb.Color {
		fb.Color[i] = rng.Float64()
	}
	return fb
}

func uniformBuffer(w, h int, c [4]float64) *raster.FrameBuffer {
	fb := raster.NewFrameBuffer(w, h)
	fb.Clear(c)
	return fb
}

// directBlur sums the full (2r+1)² neighborhood with outer-product weights.
func directBlur(src *raster.FrameBuffer, x, y int, k Kernel) [4]float64 {
	r := k.Radius()
	var acc [4]float64
	for j := -r; j <= r; j++ {
		for i := -r; i <= r; i++ {
			c := src.Clamped(x+i, y+j)
			wt := k[i+r] * k[j+r]
			for ch := 0; ch < 4; ch++ {
				acc[ch] += c[ch] * wt
			}
		}
	}
	return acc
}
