package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

// Vec4 is a homogeneous 4-component vector.
type Vec4 [4]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Mul returns the component-wise product, used for color modulation.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalize returns the unit vector, or the zero vector when v is too short
// to have a direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Reflect reflects the incident vector i about the unit normal n (GLSL reflect).
func (i Vec3) Reflect(n Vec3) Vec3 {
	return i.Sub(n.Scale(2 * n.Dot(i)))
}

// Lerp3 interpolates three values with barycentric weights.
func Lerp3(a, b, c Vec3, w0, w1, w2 float64) Vec3 {
	return Vec3{
		a[0]*w0 + b[0]*w1 + c[0]*w2,
		a[1]*w0 + b[1]*w1 + c[1]*w2,
		a[2]*w0 + b[2]*w1 + c[2]*w2,
	}
}

// Point returns v as a homogeneous point (w=1).
func (v Vec3) Point() Vec4 {
	return Vec4{v[0], v[1], v[2], 1}
}

// XYZ drops the w component without dividing.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// PerspectiveDivide returns xyz/w.
func (v Vec4) PerspectiveDivide() Vec3 {
	inv := 1 / v[3]
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}
