package postprocess

import (
	"errors"
	"fmt"
	"sync/atomic"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/logging"
	"foveal-renderer/internal/parallel"
	"foveal-renderer/internal/raster"
)

var (
	ErrInvalidThresholds = errors.New("postprocess: invalid eccentricity thresholds")
	ErrInvalidRadii      = errors.New("postprocess: invalid layer radii")
)

const (
	DefaultMiddleRadius = 2
	DefaultOuterRadius  = 4
)

// Layer is the eccentricity band a pixel falls in.
type Layer uint8

const (
	Foveal Layer = iota
	Middle
	Outer
)

func (l Layer) String() string {
	switch l {
	case Foveal:
		return "foveal"
	case Middle:
		return "middle"
	case Outer:
		return "outer"
	}
	return fmt.Sprintf("Layer(%d)", uint8(l))
}

// FoveationConfig describes the three-layer foveated blur. E1 and E2 are
// eccentricities in degrees; PixelVA is the visual angle of one pixel in
// degrees. Zero radii take the defaults of 2 and 4 pixels; other radii
// are accepted as long as the outer layer blurs at least as wide as the
// middle one. Nil kernels are generated as Gaussians with the given sigma
// (radius/2 when zero).
type FoveationConfig struct {
	E1, E2  float64
	PixelVA float64

	MiddleRadius int
	OuterRadius  int
	MiddleSigma  float64
	OuterSigma   float64

	MiddleKernel Kernel
	OuterKernel  Kernel
}

// FoveatedBlur is a validated, immutable foveated blur stage.
type FoveatedBlur struct {
	e1, e2  float64
	pixelVA float64
	middle  Kernel
	outer   Kernel
}

// NewFoveatedBlur validates cfg and precomputes the kernels.
func NewFoveatedBlur(cfg FoveationConfig) (*FoveatedBlur, error) {
	if cfg.E1 < 0 || !(cfg.E2 > cfg.E1) {
		return nil, fmt.Errorf("%w: e1=%g e2=%g", ErrInvalidThresholds, cfg.E1, cfg.E2)
	}
	if !(cfg.PixelVA > 0) {
		return nil, fmt.Errorf("%w: pixel visual angle %g", ErrInvalidThresholds, cfg.PixelVA)
	}
	mRad, oRad := cfg.MiddleRadius, cfg.OuterRadius
	if mRad <= 0 {
		mRad = DefaultMiddleRadius
	}
	if oRad <= 0 {
		oRad = DefaultOuterRadius
	}
	if mRad > oRad {
		return nil, fmt.Errorf("%w: middle %d exceeds outer %d", ErrInvalidRadii, mRad, oRad)
	}

	middleK := cfg.MiddleKernel
	if middleK == nil {
		middleK = GaussianKernel(mRad, cfg.MiddleSigma)
	}
	outerK := cfg.OuterKernel
	if outerK == nil {
		outerK = GaussianKernel(oRad, cfg.OuterSigma)
	}
	if err := middleK.Check(mRad); err != nil {
		return nil, fmt.Errorf("middle layer: %w", err)
	}
	if err := outerK.Check(oRad); err != nil {
		return nil, fmt.Errorf("outer layer: %w", err)
	}

	return &FoveatedBlur{e1: cfg.E1, e2: cfg.E2, pixelVA: cfg.PixelVA, middle: middleK, outer: outerK}, nil
}

// Eccentricity returns the visual angle between the center of pixel (x, y)
// and the gaze point.
func (f *FoveatedBlur) Eccentricity(x, y int, gaze display.GazePoint) float64 {
	return gaze.DistanceTo(x, y) * f.pixelVA
}

// Layer classifies pixel (x, y) for the given gaze point.
func (f *FoveatedBlur) Layer(x, y int, gaze display.GazePoint) Layer {
	e := f.Eccentricity(x, y, gaze)
	switch {
	case e < f.e1:
		return Foveal
	case e < f.e2:
		return Middle
	}
	return Outer
}

// Kernels returns the middle and outer layer kernels.
func (f *FoveatedBlur) Kernels() (middle, outer Kernel) {
	return f.middle, f.outer
}

// Apply returns a new buffer. Foveal pixels are copied from src unchanged;
// middle and outer pixels take the edge-clamped Gaussian blur of their
// layer. src is only read.
func (f *FoveatedBlur) Apply(src *raster.FrameBuffer, gaze display.GazePoint) *raster.FrameBuffer {
	w, h := src.Width, src.Height
	layers := make([]Layer, w*h)
	var nMiddle, nOuter atomic.Int64

	parallel.Rows(h, func(y int) {
		var m, o int64
		for x := 0; x < w; x++ {
			l := f.Layer(x, y, gaze)
			layers[y*w+x] = l
			switch l {
			case Middle:
				m++
			case Outer:
				o++
			}
		}
		nMiddle.Add(m)
		nOuter.Add(o)
	})

	var middle, outer *raster.FrameBuffer
	if nMiddle.Load() > 0 {
		middle = SeparableBlur(src, f.middle)
	}
	if nOuter.Load() > 0 {
		outer = SeparableBlur(src, f.outer)
	}

	dst := raster.NewColorBuffer(w, h)
	if src.Depth != nil {
		dst.Depth = append([]float64(nil), src.Depth...)
	}
	parallel.Rows(h, func(y int) {
		for x := 0; x < w; x++ {
			i := y*w + x
			from := src
			switch layers[i] {
			case Middle:
				from = middle
			case Outer:
				from = outer
			}
			copy(dst.Color[i*4:i*4+4], from.Color[i*4:i*4+4])
		}
	})

	logging.Logger().Debug("postprocess: foveated blur",
		"gaze_x", gaze.X, "gaze_y", gaze.Y,
		"middle", nMiddle.Load(), "outer", nOuter.Load(),
		"foveal", int64(w*h)-nMiddle.Load()-nOuter.Load())

	return dst
}
