// Package shading evaluates the Phong reflection model in view space.
package shading

import (
	"fmt"
	"math"

	"foveal-renderer/internal/mathutil"
)

// Material holds the reflection coefficients of a surface. Components are
// nominally in [0,1] but are not clamped.
type Material struct {
	Ambient   mathutil.Vec3
	Diffuse   mathutil.Vec3
	Specular  mathutil.Vec3
	Shininess float64
}

// Mode selects where the model is evaluated.
type Mode uint8

const (
	// Gouraud shades once per vertex and interpolates the colors.
	Gouraud Mode = iota
	// Phong interpolates normal and position and shades per fragment.
	Phong
)

func (m Mode) String() string {
	switch m {
	case Gouraud:
		return "gouraud"
	case Phong:
		return "phong"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses "gouraud" or "phong".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "gouraud", "vertex":
		return Gouraud, nil
	case "phong", "fragment", "":
		return Phong, nil
	}
	return 0, fmt.Errorf("shading: unknown mode %q", s)
}

// Shade evaluates ambient + Σ diffuse + Σ specular at a view-space surface
// point. The lighting must already be in view space. The result is not
// clamped.
func Shade(normal, position mathutil.Vec3, mat Material, lighting Lighting) mathutil.Vec3 {
	n := normal.Normalize()
	color := mat.Ambient.Mul(lighting.Ambient)
	v := position.Negate().Normalize()

	for _, li := range lighting.Lights {
		switch li.Kind {
		case Point:
			disp := li.Position.Sub(position)
			d := disp.Len()
			if d < mathutil.Epsilon {
				continue
			}
			l := disp.Scale(1 / d)
			c := reflectance(n, l, v, mat, li.Color)
			color = color.Add(c.Scale(lighting.Attenuation.Factor(d)))
		case Directional:
			l := li.Direction.Negate().Normalize()
			if l == (mathutil.Vec3{}) {
				continue
			}
			color = color.Add(reflectance(n, l, v, mat, li.Color))
		}
	}
	return color
}

// reflectance returns the diffuse plus specular contribution of one light
// arriving from unit direction l.
func reflectance(n, l, v mathutil.Vec3, mat Material, light mathutil.Vec3) mathutil.Vec3 {
	diff := math.Max(l.Dot(n), 0)
	r := l.Negate().Reflect(n)
	spec := math.Pow(math.Max(r.Dot(v), 0), mat.Shininess)
	return mat.Diffuse.Mul(light).Scale(diff).Add(mat.Specular.Mul(light).Scale(spec))
}

// ShadeVertex transforms an object-space vertex and normal into view space
// and shades it once. It returns the color and the view-space position.
func ShadeVertex(pos, normal mathutil.Vec3, modelView mathutil.Mat4, normalMat mathutil.Mat3, mat Material, lighting Lighting) (mathutil.Vec3, mathutil.Vec3) {
	p := modelView.MulPoint(pos)
	n := normalMat.MulVec3(normal)
	return Shade(n, p, mat, lighting), p
}

// ShadeFragment shades an interpolated view-space normal and position.
// Interpolation shortens normals, so Shade re-normalizes.
func ShadeFragment(normal, position mathutil.Vec3, mat Material, lighting Lighting) mathutil.Vec3 {
	return Shade(normal, position, mat, lighting)
}
