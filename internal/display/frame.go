package display

import (
	"fmt"

	"foveal-renderer/internal/mathutil"
)

// Rotation holds model rotation angles in degrees.
type Rotation struct {
	X, Y float64
}

// FrameState is the per-frame snapshot produced by the host. The core reads
// it and never mutates it.
type FrameState struct {
	Rotation       Rotation
	Translation    mathutil.Vec3
	ClipNear       float64
	ClipFar        float64
	PerspectiveMat bool
	TopView        bool
}

// NewFrameState validates clip distances and returns the state.
func NewFrameState(rot Rotation, trans mathutil.Vec3, near, far float64, perspective, topView bool) (FrameState, error) {
	s := FrameState{
		Rotation:       rot,
		Translation:    trans,
		ClipNear:       near,
		ClipFar:        far,
		PerspectiveMat: perspective,
		TopView:        topView,
	}
	if err := s.Validate(); err != nil {
		return FrameState{}, err
	}
	return s, nil
}

// Validate requires 0 < near < far.
func (s FrameState) Validate() error {
	if !(s.ClipNear > 0) || !(s.ClipFar > s.ClipNear) {
		return fmt.Errorf("%w: clip near %g far %g", ErrInvalidFrame, s.ClipNear, s.ClipFar)
	}
	return nil
}
