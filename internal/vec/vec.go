package vec

import "math"

// Vec3 is a point or vector in 3-space, SI meters unless noted.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Norm2() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Unit returns v/|v|, or the zero vector when |v| falls below eps.
func (v Vec3) Unit(eps float64) Vec3 {
	n := v.Norm()
	if n < eps {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Clamp limits each component to [-bound, bound].
func (v Vec3) Clamp(bound float64) Vec3 {
	clamp := func(c float64) float64 {
		if c > bound {
			return bound
		}
		if c < -bound {
			return -bound
		}
		return c
	}
	return Vec3{clamp(v.X), clamp(v.Y), clamp(v.Z)}
}
