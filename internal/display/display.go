// Package display describes the physical viewing setup and the per-frame
// state a host hands to the transform pipeline.
package display

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"foveal-renderer/internal/mathutil"
)

var (
	ErrInvalidDisplay = errors.New("display: invalid display parameters")
	ErrInvalidFrame   = errors.New("display: invalid frame state")
)

// Parameters is the immutable per-session physical descriptor of the screen.
type Parameters struct {
	CanvasWidth          int     // pixels
	CanvasHeight         int     // pixels
	PixelPitch           float64 // mm per pixel
	DistanceScreenViewer float64 // mm
}

// NewParameters validates and returns display parameters.
func NewParameters(width, height int, pixelPitch, distance float64) (Parameters, error) {
	p := Parameters{
		CanvasWidth:          width,
		CanvasHeight:         height,
		PixelPitch:           pixelPitch,
		DistanceScreenViewer: distance,
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate rejects non-positive dimensions, pitch or viewing distance.
func (p Parameters) Validate() error {
	switch {
	case p.CanvasWidth <= 0 || p.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidDisplay, p.CanvasWidth, p.CanvasHeight)
	case !(p.PixelPitch > 0):
		return fmt.Errorf("%w: pixel pitch %g", ErrInvalidDisplay, p.PixelPitch)
	case !(p.DistanceScreenViewer > 0):
		return fmt.Errorf("%w: viewer distance %g", ErrInvalidDisplay, p.DistanceScreenViewer)
	}
	return nil
}

// HalfExtent returns the physical half width and half height of the canvas in mm.
func (p Parameters) HalfExtent() (halfW, halfH float64) {
	return float64(p.CanvasWidth) * p.PixelPitch / 2, float64(p.CanvasHeight) * p.PixelPitch / 2
}

// PixelVisualAngle returns the visual angle in degrees subtended by one
// pixel at the viewing distance.
func (p Parameters) PixelVisualAngle() float64 {
	return mathutil.Rad2Deg(2 * math.Atan(p.PixelPitch/2/p.DistanceScreenViewer))
}

// WindowSize returns the canvas size in pixels as floats.
func (p Parameters) WindowSize() [2]float64 {
	return [2]float64{float64(p.CanvasWidth), float64(p.CanvasHeight)}
}

// GazePoint is a window-space position in pixels, origin top-left. Pixel
// (i, j) covers [i, i+1)×[j, j+1), so its center is (i+0.5, j+0.5).
type GazePoint struct {
	X, Y float64
}

// ParseGaze reads a gaze point written as "x,y" in window pixels.
func ParseGaze(s string) (GazePoint, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return GazePoint{}, fmt.Errorf("gaze %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return GazePoint{}, fmt.Errorf("gaze %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return GazePoint{}, fmt.Errorf("gaze %q: %w", s, err)
	}
	return GazePoint{X: x, Y: y}, nil
}

// Center returns the gaze point at the middle of the canvas.
func (p Parameters) Center() GazePoint {
	return GazePoint{X: float64(p.CanvasWidth) / 2, Y: float64(p.CanvasHeight) / 2}
}

// DistanceTo returns the pixel distance from the center of pixel (x, y).
func (g GazePoint) DistanceTo(x, y int) float64 {
	return math.Hypot(float64(x)+0.5-g.X, float64(y)+0.5-g.Y)
}
