package math

import "math"

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Vec2FromArray builds a Vec2 from a packed texcoord attribute.
func Vec2FromArray(a [2]float32) Vec2 {
	return Vec2{a[0], a[1]}
}

// Array returns the vector in packed attribute form.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Cross returns the z component of the 3D cross product of v and other.
// For UV edge deltas this is the determinant of the texture-space basis.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - other.X*v.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}
