// Package transform builds the model, view and projection matrices a host
// rasterizer consumes each frame.
package transform

import (
	"errors"
	"fmt"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/mathutil"
)

// ErrDegenerateFrustum is returned for zero-extent projection bounds.
var ErrDegenerateFrustum = errors.New("transform: degenerate frustum")

const (
	// DefaultViewDistance is the camera distance from the origin along +Z, in mm.
	DefaultViewDistance = 800.0

	topViewHeight = 1500.0
	topViewNear   = 1.0
	topViewFar    = 10000.0
)

// TopViewMatrix looks straight down the -Y axis: a 90° rotation about X
// followed by a translation of 1500 along the rotated view axis.
var TopViewMatrix = mathutil.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, -topViewHeight,
	0, 0, 0, 1,
}

// ComputeModelMatrix returns T · (Rx · Ry): the object is rotated about Y,
// then about X, then translated. Angles are in degrees.
func ComputeModelMatrix(rot display.Rotation, trans mathutil.Vec3) mathutil.Mat4 {
	rx := mathutil.RotX4(mathutil.Deg2Rad(rot.X))
	ry := mathutil.RotY4(mathutil.Deg2Rad(rot.Y))
	return mathutil.Mat4Mul(mathutil.Translate(trans), mathutil.Mat4Mul(rx, ry))
}

// ComputeViewMatrix places an axis-aligned camera at distance d on +Z.
// It is a pure translation; the camera never rotates.
func ComputeViewMatrix(d float64) mathutil.Mat4 {
	return mathutil.Translate(mathutil.Vec3{0, 0, -d})
}

func checkBounds(left, right, top, bottom, near, far float64) error {
	if right == left || top == bottom || far == near {
		return fmt.Errorf("%w: l=%g r=%g t=%g b=%g n=%g f=%g",
			ErrDegenerateFrustum, left, right, top, bottom, near, far)
	}
	return nil
}

// ComputePerspectiveMatrix maps the off-axis frustum with the given near-plane
// bounds to the canonical clip cube.
func ComputePerspectiveMatrix(left, right, top, bottom, near, far float64) (mathutil.Mat4, error) {
	if err := checkBounds(left, right, top, bottom, near, far); err != nil {
		return mathutil.Mat4{}, err
	}
	return mathutil.Mat4{
		2 * near / (right - left), 0, (right + left) / (right - left), 0,
		0, 2 * near / (top - bottom), (top + bottom) / (top - bottom), 0,
		0, 0, -(far + near) / (far - near), -2 * far * near / (far - near),
		0, 0, -1, 0,
	}, nil
}

// ComputeOrthographicMatrix maps the box [left,right]×[bottom,top]×[-near,-far]
// linearly onto the canonical clip cube.
func ComputeOrthographicMatrix(left, right, top, bottom, near, far float64) (mathutil.Mat4, error) {
	if err := checkBounds(left, right, top, bottom, near, far); err != nil {
		return mathutil.Mat4{}, err
	}
	return mathutil.Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	}, nil
}
