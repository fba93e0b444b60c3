// Package config loads render settings from JSON, TOML or YAML and resolves
// them into validated pipeline parameters.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Vec3 is a color or position triple in config files.
type Vec3 = [3]float64

// Config holds every configurable setting. Fields not set in the file keep
// their zero values until Resolve fills in defaults.
type Config struct {
	Display   Display   `json:"display" toml:"display" yaml:"display"`
	Frame     Frame     `json:"frame" toml:"frame" yaml:"frame"`
	Foveation Foveation `json:"foveation" toml:"foveation" yaml:"foveation"`
	Lens      Lens      `json:"lens" toml:"lens" yaml:"lens"`
	Lighting  Lighting  `json:"lighting" toml:"lighting" yaml:"lighting"`
	Material  Material  `json:"material" toml:"material" yaml:"material"`

	// Render settings
	Supersample int      `json:"supersample" toml:"supersample" yaml:"supersample"`
	ShadeMode   string   `json:"shade_mode" toml:"shade_mode" yaml:"shade_mode"`
	Effects     []string `json:"effects" toml:"effects" yaml:"effects"`
	Workers     int      `json:"workers" toml:"workers" yaml:"workers"`
	OutputDir   string   `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	Format      string   `json:"format" toml:"format" yaml:"format"`
	Frames      int      `json:"frames" toml:"frames" yaml:"frames"`
	// Gaze pins every frame to one window position instead of sweeping.
	Gaze *[2]float64 `json:"gaze,omitempty" toml:"gaze,omitempty" yaml:"gaze,omitempty"`
}

// Display describes the physical screen. Lengths are in mm.
type Display struct {
	Width      int     `json:"width" toml:"width" yaml:"width"`
	Height     int     `json:"height" toml:"height" yaml:"height"`
	PixelPitch float64 `json:"pixel_pitch" toml:"pixel_pitch" yaml:"pixel_pitch"`
	Distance   float64 `json:"distance" toml:"distance" yaml:"distance"`
}

// Frame is the initial frame state. Projection is "perspective",
// "orthographic" or "top".
type Frame struct {
	RotationX   float64 `json:"rotation_x" toml:"rotation_x" yaml:"rotation_x"`
	RotationY   float64 `json:"rotation_y" toml:"rotation_y" yaml:"rotation_y"`
	Translation Vec3    `json:"translation" toml:"translation" yaml:"translation"`
	ClipNear    float64 `json:"clip_near" toml:"clip_near" yaml:"clip_near"`
	ClipFar     float64 `json:"clip_far" toml:"clip_far" yaml:"clip_far"`
	Projection  string  `json:"projection" toml:"projection" yaml:"projection"`
	// RotationStep is added to RotationY for every successive frame.
	RotationStep float64 `json:"rotation_step" toml:"rotation_step" yaml:"rotation_step"`
}

// Foveation thresholds are in degrees of visual angle.
type Foveation struct {
	E1           float64 `json:"e1" toml:"e1" yaml:"e1"`
	E2           float64 `json:"e2" toml:"e2" yaml:"e2"`
	MiddleRadius int     `json:"middle_radius" toml:"middle_radius" yaml:"middle_radius"`
	OuterRadius  int     `json:"outer_radius" toml:"outer_radius" yaml:"outer_radius"`
	MiddleSigma  float64 `json:"middle_sigma" toml:"middle_sigma" yaml:"middle_sigma"`
	OuterSigma   float64 `json:"outer_sigma" toml:"outer_sigma" yaml:"outer_sigma"`
}

type Lens struct {
	PupilDiameter float64 `json:"pupil_diameter" toml:"pupil_diameter" yaml:"pupil_diameter"`
	FocalLength   float64 `json:"focal_length" toml:"focal_length" yaml:"focal_length"`
	MaxRadius     float64 `json:"max_radius" toml:"max_radius" yaml:"max_radius"`
}

// Light is one world-space light. Type is "point" or "directional".
type Light struct {
	Type      string `json:"type" toml:"type" yaml:"type"`
	Position  Vec3   `json:"position" toml:"position" yaml:"position"`
	Direction Vec3   `json:"direction" toml:"direction" yaml:"direction"`
	Color     Vec3   `json:"color" toml:"color" yaml:"color"`
}

type Lighting struct {
	Ambient     Vec3    `json:"ambient" toml:"ambient" yaml:"ambient"`
	Lights      []Light `json:"lights" toml:"lights" yaml:"lights"`
	Attenuation Vec3    `json:"attenuation" toml:"attenuation" yaml:"attenuation"`
}

type Material struct {
	Ambient   Vec3    `json:"ambient" toml:"ambient" yaml:"ambient"`
	Diffuse   Vec3    `json:"diffuse" toml:"diffuse" yaml:"diffuse"`
	Specular  Vec3    `json:"specular" toml:"specular" yaml:"specular"`
	Shininess float64 `json:"shininess" toml:"shininess" yaml:"shininess"`
}

// Load reads a config file, choosing the decoder by extension. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return Config{}, fmt.Errorf("config: read %s: unknown extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Workers   int
	Frames    int
	Format    string
	ShadeMode string
	Effects   string // comma-separated; "none" clears
	Gaze      *[2]float64
}

// Resolve applies flag overrides, then fills every unset field with a
// default. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.ShadeMode != "" {
		c.ShadeMode = flags.ShadeMode
	}
	if flags.Effects != "" {
		c.Effects = splitList(flags.Effects)
	}
	if flags.Gaze != nil {
		c.Gaze = flags.Gaze
	}

	c.Display.resolve()
	c.Frame.resolve()
	c.Foveation.resolve()
	if c.Lens.PupilDiameter == 0 {
		c.Lens.PupilDiameter = 4
	}
	c.Lighting.resolve()
	c.Material.resolve()

	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.ShadeMode == "" {
		c.ShadeMode = "phong"
	}
	if c.Effects == nil {
		c.Effects = []string{EffectDepthOfField, EffectFoveated}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = "frames"
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.Frames <= 0 {
		c.Frames = 8
	}
}

func (d *Display) resolve() {
	if d.Width <= 0 {
		d.Width = 640
	}
	if d.Height <= 0 {
		d.Height = 480
	}
	if d.PixelPitch <= 0 {
		d.PixelPitch = 0.5
	}
	if d.Distance <= 0 {
		d.Distance = 500
	}
}

func (f *Frame) resolve() {
	if f.ClipNear == 0 {
		f.ClipNear = 300
	}
	if f.ClipFar == 0 {
		f.ClipFar = 3000
	}
	if f.Projection == "" {
		f.Projection = "perspective"
	}
}

func (f *Foveation) resolve() {
	if f.E1 == 0 && f.E2 == 0 {
		f.E1, f.E2 = 3, 8
	}
}

func (l *Lighting) resolve() {
	if l.Ambient == (Vec3{}) {
		l.Ambient = Vec3{0.2, 0.2, 0.2}
	}
	if l.Lights == nil {
		l.Lights = []Light{
			{Type: "point", Position: Vec3{150, 400, 500}, Color: Vec3{1, 1, 1}},
			{Type: "directional", Direction: Vec3{-0.3, -1, -0.4}, Color: Vec3{0.25, 0.25, 0.3}},
		}
	}
	if l.Attenuation == (Vec3{}) {
		l.Attenuation = Vec3{1, 0, 0}
	}
}

func (m *Material) resolve() {
	if *m == (Material{}) {
		*m = Material{
			Ambient:   Vec3{0.3, 0.3, 0.8},
			Diffuse:   Vec3{0.3, 0.3, 0.8},
			Specular:  Vec3{0.6, 0.6, 0.6},
			Shininess: 32,
		}
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" && part != "none" {
			out = append(out, part)
		}
	}
	return out
}
