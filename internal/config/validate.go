package config

import (
	"fmt"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/imageio"
	"foveal-renderer/internal/postprocess"
	"foveal-renderer/internal/shading"
)

// Post-process effect names. Depth of field always runs before foveation
// because it needs the depth plane the foveated pass does not carry.
const (
	EffectDepthOfField = "dof"
	EffectFoveated     = "foveated"
)

// Settings is a resolved, validated config ready for the pipeline.
type Settings struct {
	Display      display.Parameters
	Frame        display.FrameState
	RotationStep float64
	Foveation    postprocess.FoveationConfig
	Lens         postprocess.Lens
	Lighting     shading.Lighting
	Material     shading.Material
	Mode         shading.Mode

	DepthOfField bool
	Foveated     bool
	Supersample  int
	Workers      int
	OutputDir    string
	Format       string
	Frames       int
	Gaze         *display.GazePoint
}

// Validate converts c into pipeline parameters. Call Resolve first; any
// zero value left in c is treated as invalid.
func (c Config) Validate() (Settings, error) {
	var s Settings
	var err error

	s.Display, err = display.NewParameters(c.Display.Width, c.Display.Height, c.Display.PixelPitch, c.Display.Distance)
	if err != nil {
		return Settings{}, fmt.Errorf("config: display: %w", err)
	}

	var perspective, top bool
	switch c.Frame.Projection {
	case "perspective":
		perspective = true
	case "orthographic":
	case "top":
		top = true
	default:
		return Settings{}, fmt.Errorf("%w: projection %q", ErrInvalidConfig, c.Frame.Projection)
	}
	s.Frame, err = display.NewFrameState(
		display.Rotation{X: c.Frame.RotationX, Y: c.Frame.RotationY},
		c.Frame.Translation, c.Frame.ClipNear, c.Frame.ClipFar, perspective, top)
	if err != nil {
		return Settings{}, fmt.Errorf("config: frame: %w", err)
	}
	s.RotationStep = c.Frame.RotationStep

	s.Foveation = postprocess.FoveationConfig{
		E1:           c.Foveation.E1,
		E2:           c.Foveation.E2,
		PixelVA:      s.Display.PixelVisualAngle(),
		MiddleRadius: c.Foveation.MiddleRadius,
		OuterRadius:  c.Foveation.OuterRadius,
		MiddleSigma:  c.Foveation.MiddleSigma,
		OuterSigma:   c.Foveation.OuterSigma,
	}
	if _, err := postprocess.NewFoveatedBlur(s.Foveation); err != nil {
		return Settings{}, fmt.Errorf("config: foveation: %w", err)
	}

	s.Lens = postprocess.Lens(c.Lens)
	if _, err := postprocess.NewDepthOfField(s.Display, s.Lens); err != nil {
		return Settings{}, fmt.Errorf("config: lens: %w", err)
	}

	s.Lighting, err = c.Lighting.build()
	if err != nil {
		return Settings{}, err
	}
	s.Material = shading.Material{
		Ambient:   c.Material.Ambient,
		Diffuse:   c.Material.Diffuse,
		Specular:  c.Material.Specular,
		Shininess: c.Material.Shininess,
	}
	if s.Material.Shininess < 0 {
		return Settings{}, fmt.Errorf("%w: shininess %g", ErrInvalidConfig, s.Material.Shininess)
	}

	s.Mode, err = shading.ParseMode(c.ShadeMode)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}

	for _, e := range c.Effects {
		switch e {
		case EffectDepthOfField:
			s.DepthOfField = true
		case EffectFoveated:
			s.Foveated = true
		default:
			return Settings{}, fmt.Errorf("%w: effect %q", ErrInvalidConfig, e)
		}
	}

	if c.Supersample < 1 || c.Supersample > 8 {
		return Settings{}, fmt.Errorf("%w: supersample %d", ErrInvalidConfig, c.Supersample)
	}
	if c.Frames < 1 {
		return Settings{}, fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	}
	if _, err := imageio.Format("frame." + c.Format); err != nil {
		return Settings{}, fmt.Errorf("config: format: %w", err)
	}
	s.Supersample = c.Supersample
	s.Workers = max(c.Workers, 1)
	s.OutputDir = c.OutputDir
	s.Format = c.Format
	s.Frames = c.Frames
	if c.Gaze != nil {
		s.Gaze = &display.GazePoint{X: c.Gaze[0], Y: c.Gaze[1]}
	}
	return s, nil
}

var lightTypes = []string{"point", "directional"}

func (l Lighting) build() (shading.Lighting, error) {
	out := shading.Lighting{
		Ambient: l.Ambient,
		Attenuation: shading.Attenuation{
			Constant:  l.Attenuation[0],
			Linear:    l.Attenuation[1],
			Quadratic: l.Attenuation[2],
		},
	}
	for i, li := range l.Lights {
		switch li.Type {
		case "point":
			out.Lights = append(out.Lights, shading.PointLight(li.Position, li.Color))
		case "directional":
			if li.Direction == (Vec3{}) {
				return shading.Lighting{}, fmt.Errorf("%w: light %d has no direction", ErrInvalidConfig, i)
			}
			out.Lights = append(out.Lights, shading.DirectionalLight(li.Direction, li.Color))
		default:
			return shading.Lighting{}, fmt.Errorf("%w: light %d type %q, want one of %v",
				ErrInvalidConfig, i, li.Type, lightTypes)
		}
	}
	if err := out.Validate(); err != nil {
		return shading.Lighting{}, fmt.Errorf("config: lighting: %w", err)
	}
	return out, nil
}
