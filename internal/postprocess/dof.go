package postprocess

import (
	"errors"
	"fmt"
	"math"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/logging"
	"foveal-renderer/internal/mathutil"
	"foveal-renderer/internal/parallel"
	"foveal-renderer/internal/raster"
	"foveal-renderer/internal/transform"
)

var ErrInvalidLens = errors.New("postprocess: invalid lens")

// DefaultMaxBlurRadius caps the depth-of-field blur radius in pixels.
const DefaultMaxBlurRadius = 11.0

// ReconstructViewSpaceDistance returns the distance from the eye to the
// surface seen at window position (wx, wy) with window depth d. Window y
// grows downward; pixel centers sit at i+0.5.
//
// The clip w lost in the perspective divide is recovered from the third and
// fourth projection rows: z_ndc = (P[2][2]·z + P[2][3]) / (P[3][2]·z) gives
// w = P[2][3] / (z_ndc − P[2][2]/P[3][2]). An orthographic projection
// (P[3][2] = 0) has w = 1.
func ReconstructViewSpaceDistance(wx, wy, d float64, proj, invProj mathutil.Mat4, window [2]float64) float64 {
	ndc := mathutil.Vec3{
		2*wx/window[0] - 1,
		1 - 2*wy/window[1],
		2*d - 1,
	}

	w := 1.0
	if e := proj.At(3, 2); e != 0 {
		w = proj.At(2, 3) / (ndc[2] - proj.At(2, 2)/e)
	}

	clip := mathutil.Vec4{ndc[0] * w, ndc[1] * w, ndc[2] * w, w}
	view := invProj.MulVec4(clip)
	return view.XYZ().Len()
}

// ComputeCircleOfConfusion returns the blur-disk radius, in the units of
// pupil, that a point at fragDist casts on an image plane focalLength behind
// the pupil when the eye is focused at focusDist:
//
//	r = ½ · pupil · |frag − focus| / frag · focalLength / focus
//
// It is zero at the focus distance and grows with defocus on either side.
// Non-positive distances give 0.
func ComputeCircleOfConfusion(fragDist, focusDist, pupil, focalLength float64) float64 {
	if !(fragDist > 0) || !(focusDist > 0) {
		return 0
	}
	return 0.5 * pupil * math.Abs(fragDist-focusDist) / fragDist * focalLength / focusDist
}

// Lens holds the tunable optical constants of the depth-of-field stage.
// Lengths are in mm; MaxRadius is in pixels.
type Lens struct {
	PupilDiameter float64
	FocalLength   float64
	MaxRadius     float64
}

// DepthOfField is a validated gaze-contingent depth-of-field stage.
type DepthOfField struct {
	display display.Parameters
	lens    Lens
}

// NewDepthOfField validates the lens. A zero focal length places the image
// plane on the screen (the viewer distance), so radii are measured on the
// display and converted with the pixel pitch.
func NewDepthOfField(p display.Parameters, lens Lens) (*DepthOfField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if lens.FocalLength == 0 {
		lens.FocalLength = p.DistanceScreenViewer
	}
	if lens.MaxRadius == 0 {
		lens.MaxRadius = DefaultMaxBlurRadius
	}
	if !(lens.PupilDiameter > 0) || !(lens.FocalLength > 0) || !(lens.MaxRadius > 0) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidLens, lens)
	}
	return &DepthOfField{display: p, lens: lens}, nil
}

// Lens returns the resolved lens constants.
func (d *DepthOfField) Lens() Lens {
	return d.lens
}

// FocusDistance returns the reconstructed distance of the surface under the
// gaze point. Gaze positions off the canvas are clamped to the edge pixel.
func (d *DepthOfField) FocusDistance(fb *raster.FrameBuffer, mats transform.Matrices, gaze display.GazePoint) float64 {
	gx := mathutil.ClampInt(int(math.Floor(gaze.X)), 0, fb.Width-1)
	gy := mathutil.ClampInt(int(math.Floor(gaze.Y)), 0, fb.Height-1)
	window := [2]float64{float64(fb.Width), float64(fb.Height)}
	return ReconstructViewSpaceDistance(float64(gx)+0.5, float64(gy)+0.5,
		fb.ClampedDepth(gx, gy), mats.Projection, mats.InvProjection, window)
}

// CoCMap returns the per-pixel blur radius in pixels, capped at MaxRadius,
// together with the focus distance it was computed for.
func (d *DepthOfField) CoCMap(fb *raster.FrameBuffer, mats transform.Matrices, gaze display.GazePoint) ([]float64, float64) {
	w, h := fb.Width, fb.Height
	window := [2]float64{float64(w), float64(h)}
	focus := d.FocusDistance(fb, mats, gaze)
	coc := make([]float64, w*h)

	parallel.Rows(h, func(y int) {
		for x := 0; x < w; x++ {
			i := y*w + x
			dist := ReconstructViewSpaceDistance(float64(x)+0.5, float64(y)+0.5,
				fb.Depth[i], mats.Projection, mats.InvProjection, window)
			mm := ComputeCircleOfConfusion(dist, focus, d.lens.PupilDiameter, d.lens.FocalLength)
			coc[i] = math.Min(mm/d.display.PixelPitch, d.lens.MaxRadius)
		}
	})
	return coc, focus
}

// Apply blurs fb by its depth relative to the gaze point and returns the new
// buffer and the focus distance used. fb must carry a depth plane.
func (d *DepthOfField) Apply(fb *raster.FrameBuffer, mats transform.Matrices, gaze display.GazePoint) (*raster.FrameBuffer, float64) {
	coc, focus := d.CoCMap(fb, mats, gaze)
	out := ApplyDepthBlur(fb, coc)
	logging.Logger().Debug("postprocess: depth of field", "focus_mm", focus, "pupil_mm", d.lens.PupilDiameter)
	return out, focus
}

// ApplyDepthBlur averages each pixel over a disk of its own radius from coc,
// weighting samples by 1/(1+distance) and clamping at the edges. Pixels with
// a radius below half a pixel are copied unchanged.
func ApplyDepthBlur(src *raster.FrameBuffer, coc []float64) *raster.FrameBuffer {
	w, h := src.Width, src.Height
	dst := raster.NewColorBuffer(w, h)
	if src.Depth != nil {
		dst.Depth = append([]float64(nil), src.Depth...)
	}

	parallel.Rows(h, func(y int) {
		for x := 0; x < w; x++ {
			i := y*w + x
			r := coc[i]
			if r < 0.5 {
				copy(dst.Color[i*4:i*4+4], src.Color[i*4:i*4+4])
				continue
			}
			ri := int(math.Ceil(r))
			rSq := r * r
			var acc [4]float64
			var total float64
			for dy := -ri; dy <= ri; dy++ {
				for dx := -ri; dx <= ri; dx++ {
					dSq := float64(dx*dx + dy*dy)
					if dSq > rSq {
						continue
					}
					wt := 1 / (1 + math.Sqrt(dSq))
					c := src.Clamped(x+dx, y+dy)
					acc[0] += c[0] * wt
					acc[1] += c[1] * wt
					acc[2] += c[2] * wt
					acc[3] += c[3] * wt
					total += wt
				}
			}
			inv := 1 / total
			dst.Color[i*4] = acc[0] * inv
			dst.Color[i*4+1] = acc[1] * inv
			dst.Color[i*4+2] = acc[2] * inv
			dst.Color[i*4+3] = acc[3] * inv
		}
	})
	return dst
}
