package state

import "math"

type Vec3 [3]float64

// Quat is a rotation quaternion stored as x, y, z, w.
type Quat [4]float64

func IdentityQuat() Quat {
	return Quat{0, 0, 0, 1}
}

func (v Vec3) Floor() Vec3 {
	return Vec3{math.Floor(v[0]), math.Floor(v[1]), math.Floor(v[2])}
}

func (v Vec3) Round() Vec3 {
	return Vec3{math.Round(v[0]), math.Round(v[1]), math.Round(v[2])}
}

func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

func (v Vec3) Div(o Vec3) Vec3 {
	return Vec3{v[0] / o[0], v[1] / o[1], v[2] / o[2]}
}
