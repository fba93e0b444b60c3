package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foveal-renderer/internal/mathutil"
)

func TestNewParameters(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		pitch   float64
		dist    float64
		wantErr bool
	}{
		{"valid", 800, 600, 0.3, 600, false},
		{"zero width", 0, 600, 0.3, 600, true},
		{"negative pitch", 800, 600, -0.3, 600, true},
		{"zero distance", 800, 600, 0.3, 0, true},
		{"nan pitch", 800, 600, math.NaN(), 600, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParameters(tt.w, tt.h, tt.pitch, tt.dist)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDisplay)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHalfExtentAndVisualAngle(t *testing.T) {
	p, err := NewParameters(800, 600, 0.3, 600)
	require.NoError(t, err)

	hw, hh := p.HalfExtent()
	assert.InDelta(t, 120.0, hw, 1e-12)
	assert.InDelta(t, 90.0, hh, 1e-12)

	// Small-angle: pitch/distance radians.
	assert.InDelta(t, mathutil.Rad2Deg(0.3/600), p.PixelVisualAngle(), 1e-9)
}

func TestGazeDistance(t *testing.T) {
	g := GazePoint{X: 10.5, Y: 20.5}
	assert.Equal(t, 0.0, g.DistanceTo(10, 20))
	assert.InDelta(t, 5.0, g.DistanceTo(13, 24), 1e-12)
}

func TestParseGaze(t *testing.T) {
	g, err := ParseGaze("320.5, 240")
	require.NoError(t, err)
	assert.Equal(t, GazePoint{X: 320.5, Y: 240}, g)

	for _, bad := range []string{"", "320", "a,1", "1,b", "1,2,3"} {
		_, err := ParseGaze(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewFrameState(t *testing.T) {
	_, err := NewFrameState(Rotation{}, mathutil.Vec3{}, 1, 1000, true, false)
	assert.NoError(t, err)

	_, err = NewFrameState(Rotation{}, mathutil.Vec3{}, 0, 1000, true, false)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = NewFrameState(Rotation{}, mathutil.Vec3{}, 10, 10, true, false)
	assert.ErrorIs(t, err, ErrInvalidFrame)
}
