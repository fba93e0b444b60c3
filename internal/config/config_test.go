package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/postprocess"
	"foveal-renderer/internal/shading"
)

const jsonConfig = `{
  "display": {"width": 800, "height": 600, "pixel_pitch": 0.3, "distance": 550},
  "frame": {"rotation_x": 10, "rotation_y": -20, "translation": [0, 5, 0], "clip_near": 200, "clip_far": 2500, "projection": "orthographic"},
  "foveation": {"e1": 4, "e2": 12, "outer_sigma": 3},
  "lens": {"pupil_diameter": 5},
  "lighting": {
    "ambient": [0.1, 0.1, 0.1],
    "attenuation": [1, 0.001, 0],
    "lights": [{"type": "point", "position": [0, 100, 200], "color": [1, 0.5, 0.5]}]
  },
  "material": {"ambient": [0.2, 0.2, 0.2], "diffuse": [0.5, 0.5, 0.5], "specular": [1, 1, 1], "shininess": 16},
  "supersample": 3,
  "shade_mode": "gouraud",
  "effects": ["foveated"],
  "format": "png",
  "frames": 4,
  "gaze": [400, 300]
}`

const tomlConfig = `
supersample = 3
shade_mode = "gouraud"
effects = ["foveated"]
format = "png"
frames = 4
gaze = [400.0, 300.0]

[display]
width = 800
height = 600
pixel_pitch = 0.3
distance = 550.0

[frame]
rotation_x = 10.0
rotation_y = -20.0
translation = [0.0, 5.0, 0.0]
clip_near = 200.0
clip_far = 2500.0
projection = "orthographic"

[foveation]
e1 = 4.0
e2 = 12.0
outer_sigma = 3.0

[lens]
pupil_diameter = 5.0

[lighting]
ambient = [0.1, 0.1, 0.1]
attenuation = [1.0, 0.001, 0.0]

[[lighting.lights]]
type = "point"
position = [0.0, 100.0, 200.0]
color = [1.0, 0.5, 0.5]

[material]
ambient = [0.2, 0.2, 0.2]
diffuse = [0.5, 0.5, 0.5]
specular = [1.0, 1.0, 1.0]
shininess = 16.0
`

const yamlConfig = `
display: {width: 800, height: 600, pixel_pitch: 0.3, distance: 550}
frame:
  rotation_x: 10
  rotation_y: -20
  translation: [0, 5, 0]
  clip_near: 200
  clip_far: 2500
  projection: orthographic
foveation: {e1: 4, e2: 12, outer_sigma: 3}
lens: {pupil_diameter: 5}
lighting:
  ambient: [0.1, 0.1, 0.1]
  attenuation: [1, 0.001, 0]
  lights:
    - type: point
      position: [0, 100, 200]
      color: [1, 0.5, 0.5]
material:
  ambient: [0.2, 0.2, 0.2]
  diffuse: [0.5, 0.5, 0.5]
  specular: [1, 1, 1]
  shininess: 16
supersample: 3
shade_mode: gouraud
effects: [foveated]
format: png
frames: 4
gaze: [400, 300]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	want, err := Load(writeFile(t, "render.json", jsonConfig))
	require.NoError(t, err)
	assert.Equal(t, 800, want.Display.Width)
	assert.Equal(t, "orthographic", want.Frame.Projection)
	require.NotNil(t, want.Gaze)
	assert.Equal(t, [2]float64{400, 300}, *want.Gaze)
	require.Len(t, want.Lighting.Lights, 1)

	for name, content := range map[string]string{
		"render.toml": tomlConfig,
		"render.yaml": yamlConfig,
		"render.yml":  yamlConfig,
	} {
		got, err := Load(writeFile(t, name, content))
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	for name, content := range map[string]string{
		"a.json": `{"display": {"widht": 10}}`,
		"a.toml": "[display]\nwidht = 10\n",
		"a.yaml": "display:\n  widht: 10\n",
	} {
		_, err := Load(writeFile(t, name, content))
		assert.Error(t, err, name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "render.ini", "x=1"))
	assert.ErrorContains(t, err, "unknown extension")
}

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(Flags{})
	assert.Equal(t, 640, c.Display.Width)
	assert.Equal(t, "perspective", c.Frame.Projection)
	assert.Equal(t, []string{EffectDepthOfField, EffectFoveated}, c.Effects)
	assert.Equal(t, 2, c.Supersample)
	assert.Equal(t, "webp", c.Format)
	assert.Positive(t, c.Workers)
	assert.Len(t, c.Lighting.Lights, 2)

	s, err := c.Validate()
	require.NoError(t, err)
	assert.True(t, s.DepthOfField)
	assert.True(t, s.Foveated)
	assert.Equal(t, shading.Phong, s.Mode)
	assert.True(t, s.Frame.PerspectiveMat)
	assert.Nil(t, s.Gaze)
	assert.Equal(t, s.Display.PixelVisualAngle(), s.Foveation.PixelVA)
}

func TestResolveFlagsOverride(t *testing.T) {
	c, err := Load(writeFile(t, "render.json", jsonConfig))
	require.NoError(t, err)
	c.Resolve(Flags{
		OutputDir: "out",
		Workers:   3,
		Frames:    12,
		Format:    "tga",
		ShadeMode: "phong",
		Effects:   " DOF , none",
		Gaze:      &[2]float64{1, 2},
	})
	assert.Equal(t, "out", c.OutputDir)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 12, c.Frames)
	assert.Equal(t, []string{"dof"}, c.Effects)
	assert.Equal(t, 3, c.Supersample, "file value kept")

	s, err := c.Validate()
	require.NoError(t, err)
	assert.True(t, s.DepthOfField)
	assert.False(t, s.Foveated)
	assert.False(t, s.Frame.PerspectiveMat)
	assert.Equal(t, &display.GazePoint{X: 1, Y: 2}, s.Gaze)
	assert.Equal(t, shading.Attenuation{Constant: 1, Linear: 0.001}, s.Lighting.Attenuation)
	assert.Equal(t, 5.0, s.Lens.PupilDiameter)

	c.Resolve(Flags{Effects: "none"})
	assert.Empty(t, c.Effects)
}

func TestValidateFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"thresholds", func(c *Config) { c.Foveation.E1, c.Foveation.E2 = 8, 3 }, postprocess.ErrInvalidThresholds},
		{"display", func(c *Config) { c.Display.PixelPitch = -1 }, display.ErrInvalidDisplay},
		{"clip", func(c *Config) { c.Frame.ClipFar = 100 }, display.ErrInvalidFrame},
		{"projection", func(c *Config) { c.Frame.Projection = "fisheye" }, ErrInvalidConfig},
		{"effect", func(c *Config) { c.Effects = []string{"bloom"} }, ErrInvalidConfig},
		{"light type", func(c *Config) { c.Lighting.Lights[0].Type = "spot" }, ErrInvalidConfig},
		{"attenuation", func(c *Config) { c.Lighting.Attenuation = Vec3{-1, 0, 0} }, shading.ErrInvalidAttenuation},
		{"supersample", func(c *Config) { c.Supersample = 32 }, ErrInvalidConfig},
		{"lens", func(c *Config) { c.Lens.PupilDiameter = -2 }, postprocess.ErrInvalidLens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.Resolve(Flags{})
			tt.mutate(&c)
			_, err := c.Validate()
			assert.ErrorIs(t, err, tt.err)
		})
	}

	var c Config
	c.Resolve(Flags{})
	c.Format = "gif"
	_, err := c.Validate()
	assert.Error(t, err)
	c.Format = "webp"
	c.ShadeMode = "flat"
	_, err = c.Validate()
	assert.Error(t, err)
}
