package postprocess

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrKernelMismatch      = errors.New("postprocess: kernel length does not match radius")
	ErrKernelNotNormalized = errors.New("postprocess: kernel weights do not sum to 1")
)

// Kernel is a 1-D normalized convolution kernel of odd length 2r+1, indexed
// by offset+r. Separable 2-D blurs apply it along x then y, which equals the
// outer-product kernel.
type Kernel []float64

// GaussianKernel returns a normalized Gaussian kernel of the given radius.
// A non-positive sigma defaults to radius/2, so the kernel spans ±2σ.
// Radius 0 yields the identity kernel.
func GaussianKernel(radius int, sigma float64) Kernel {
	if radius <= 0 {
		return Kernel{1}
	}
	if sigma <= 0 {
		sigma = float64(radius) / 2
	}
	k := make(Kernel, 2*radius+1)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// Radius returns r for a kernel of length 2r+1.
func (k Kernel) Radius() int {
	return len(k) / 2
}

// Sum returns the total weight.
func (k Kernel) Sum() float64 {
	s := 0.0
	for _, w := range k {
		s += w
	}
	return s
}

// Check verifies the kernel has length 2·radius+1 and unit sum.
func (k Kernel) Check(radius int) error {
	if len(k) != 2*radius+1 {
		return fmt.Errorf("%w: radius %d needs %d weights, have %d", ErrKernelMismatch, radius, 2*radius+1, len(k))
	}
	if s := k.Sum(); math.Abs(s-1) > 1e-6 {
		return fmt.Errorf("%w: sum %g", ErrKernelNotNormalized, s)
	}
	return nil
}
