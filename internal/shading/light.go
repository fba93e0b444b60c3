package shading

import (
	"errors"
	"fmt"
	"math"

	"foveal-renderer/internal/mathutil"
)

var ErrInvalidAttenuation = errors.New("shading: invalid attenuation")

// LightKind tags the variant stored in a Light.
type LightKind uint8

const (
	Point LightKind = iota
	Directional
)

func (k LightKind) String() string {
	switch k {
	case Point:
		return "point"
	case Directional:
		return "directional"
	}
	return fmt.Sprintf("LightKind(%d)", uint8(k))
}

// Light is a point or directional light. Position is read for point lights
// and Direction (the direction the light travels) for directional lights.
type Light struct {
	Kind      LightKind
	Position  mathutil.Vec3
	Direction mathutil.Vec3
	Color     mathutil.Vec3
}

func PointLight(pos, color mathutil.Vec3) Light {
	return Light{Kind: Point, Position: pos, Color: color}
}

func DirectionalLight(dir, color mathutil.Vec3) Light {
	return Light{Kind: Directional, Direction: dir, Color: color}
}

// Attenuation holds the constant, linear and quadratic falloff
// coefficients applied to point lights.
type Attenuation struct {
	Constant  float64
	Linear    float64
	Quadratic float64
}

// NoAttenuation keeps point-light intensity independent of distance.
var NoAttenuation = Attenuation{Constant: 1}

// Validate rejects negative coefficients and the all-zero triple, either of
// which can make the falloff denominator vanish.
func (a Attenuation) Validate() error {
	if a.Constant < 0 || a.Linear < 0 || a.Quadratic < 0 {
		return fmt.Errorf("%w: negative coefficient %+v", ErrInvalidAttenuation, a)
	}
	if a.Constant == 0 && a.Linear == 0 && a.Quadratic == 0 {
		return fmt.Errorf("%w: all coefficients zero", ErrInvalidAttenuation)
	}
	return nil
}

// Factor returns 1 / (kc + kl·d + kq·d²). A denominator that is not
// positive, as with the zero Attenuation, leaves the light unattenuated.
func (a Attenuation) Factor(d float64) float64 {
	den := a.Constant + a.Linear*d + a.Quadratic*d*d
	if !(den > 0) || math.IsInf(1/den, 0) {
		return 1
	}
	return 1 / den
}

// Lighting is the light environment of a frame. Light order only affects
// floating-point accumulation order.
type Lighting struct {
	Ambient     mathutil.Vec3
	Lights      []Light
	Attenuation Attenuation
}

// Validate checks the attenuation coefficients.
func (l Lighting) Validate() error {
	return l.Attenuation.Validate()
}

// ToViewSpace returns a copy with point positions transformed as points and
// directions transformed as vectors by the view matrix.
func (l Lighting) ToViewSpace(view mathutil.Mat4) Lighting {
	out := l
	out.Lights = make([]Light, len(l.Lights))
	for i, li := range l.Lights {
		switch li.Kind {
		case Point:
			li.Position = view.MulPoint(li.Position)
		case Directional:
			li.Direction = view.MulDir(li.Direction)
		}
		out.Lights[i] = li
	}
	return out
}
