package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussianKernel(t *testing.T) {
	for _, r := range []int{1, 2, 4, 7} {
		k := GaussianKernel(r, 0)
		assert.Len(t, k, 2*r+1)
		assert.Equal(t, r, k.Radius())
		assert.InDelta(t, 1.0, k.Sum(), 1e-12)
		for i := 0; i < r; i++ {
			assert.InDelta(t, k[i], k[len(k)-1-i], 1e-15, "symmetric")
			assert.Less(t, k[i], k[i+1], "peaks at center")
		}
		assert.NoError(t, k.Check(r))
	}
	assert.Equal(t, Kernel{1}, GaussianKernel(0, 1))
}

func TestKernelCheck(t *testing.T) {
	assert.ErrorIs(t, GaussianKernel(2, 0).Check(4), ErrKernelMismatch)
	assert.ErrorIs(t, Kernel{0.2, 0.2, 0.2}.Check(1), ErrKernelNotNormalized)
}
