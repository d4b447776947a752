// Package matutils builds the homogeneous transform and projection matrices
// used by the viewer.
//
// Matrices are mgl32 values and entries are addressed as (row, col), so the
// layout written here is the logical one. The rotation helpers use a fixed
// sign convention that the camera and model poses are composed against:
//
//	RotationX: R[1,2] = sin, R[2,1] = -sin
//	RotationY: R[0,2] = sin, R[2,0] = -sin
//	RotationZ: R[0,1] = sin, R[1,0] = -sin
//
// Malformed dimensions are programmer errors and are not checked.
package matutils

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrSingular is returned when a matrix that must be inverted has a zero determinant.
var ErrSingular = errors.New("matutils: singular matrix")

// Scale returns a diagonal scale matrix with a trailing homogeneous 1.
func Scale(s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// Translation returns the 4x4 identity with t in the first three rows of the last column.
func Translation(t mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Ident4()
	m.Set(0, 3, t[0])
	m.Set(1, 3, t[1])
	m.Set(2, 3, t[2])
	return m
}

// TranslationN returns an (n+1)x(n+1) translation matrix for an n-dimensional vector.
func TranslationN(t []float32) *mgl32.MatMxN {
	n := len(t)
	m := mgl32.IdentN(nil, n+1)
	for i, v := range t {
		m.Set(i, n, v)
	}
	return m
}

// RotationX returns a rotation about the X axis. angle is in radians.
func RotationX(angle float32) mgl32.Mat4 {
	c, s := cosSin(angle)
	m := mgl32.Ident4()
	m.Set(1, 1, c)
	m.Set(1, 2, s)
	m.Set(2, 1, -s)
	m.Set(2, 2, c)
	return m
}

// RotationY returns a rotation about the Y axis. angle is in radians.
func RotationY(angle float32) mgl32.Mat4 {
	c, s := cosSin(angle)
	m := mgl32.Ident4()
	m.Set(0, 0, c)
	m.Set(0, 2, s)
	m.Set(2, 0, -s)
	m.Set(2, 2, c)
	return m
}

// RotationZ returns a rotation about the Z axis. angle is in radians.
func RotationZ(angle float32) mgl32.Mat4 {
	c, s := cosSin(angle)
	m := mgl32.Ident4()
	m.Set(0, 0, c)
	m.Set(0, 1, s)
	m.Set(1, 0, -s)
	m.Set(1, 1, c)
	return m
}

// Pose returns Translation(position) * RotationZ(angle) * Scale(scale).
func Pose(position mgl32.Vec3, angle float32, scale mgl32.Vec3) mgl32.Mat4 {
	return Translation(position).Mul4(RotationZ(angle)).Mul4(Scale(scale))
}

// UniformPose is Pose with an isotropic scale factor.
func UniformPose(position mgl32.Vec3, angle, scale float32) mgl32.Mat4 {
	return Pose(position, angle, mgl32.Vec3{scale, scale, scale})
}

// Frustum returns an off-center perspective projection.
// top and bottom follow the Y-flipped convention, so the viewer passes
// top=-1, bottom=1 for an upright image.
func Frustum(left, right, top, bottom, near, far float32) mgl32.Mat4 {
	var m mgl32.Mat4
	m.Set(0, 0, 2*near/(right-left))
	m.Set(0, 2, (right+left)/(right-left))
	m.Set(1, 1, -2*near/(top-bottom))
	m.Set(1, 2, (top+bottom)/(top-bottom))
	m.Set(2, 2, -(far+near)/(far-near))
	m.Set(2, 3, -2*far*near/(far-near))
	m.Set(3, 2, -1)
	return m
}

// Homog appends a homogeneous 1 to a point.
func Homog(v mgl32.Vec3) mgl32.Vec4 {
	return v.Vec4(1)
}

// Unhomog divides the first three components by the fourth.
func Unhomog(v mgl32.Vec4) mgl32.Vec3 {
	return mgl32.Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}

// TransformPoint applies m to p in homogeneous coordinates and projects back to 3-space.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return Unhomog(m.Mul4x1(Homog(p)))
}

// singularTolerance bounds |det| relative to the product of the column
// lengths, the largest determinant columns of those lengths can have.
const singularTolerance = 1e-6

// NormalMatrix returns transpose(inverse(upper-left 3x3 of m)).
//
// The result is the cofactor matrix divided by the determinant. Singularity
// is judged relative to the column lengths, so a uniformly tiny scale still
// inverts.
func NormalMatrix(m mgl32.Mat4) (mgl32.Mat3, error) {
	m3 := m.Mat3()
	c0, c1, c2 := m3.Col(0), m3.Col(1), m3.Col(2)

	x01, x12, x20 := c0.Cross(c1), c1.Cross(c2), c2.Cross(c0)
	det := c0.Dot(x12)
	bound := c0.Len() * c1.Len() * c2.Len()
	if det == 0 || float32(math.Abs(float64(det))) <= singularTolerance*bound {
		return mgl32.Mat3{}, ErrSingular
	}

	inv := 1 / det
	return mgl32.Mat3FromCols(x12.Mul(inv), x20.Mul(inv), x01.Mul(inv)), nil
}

func cosSin(angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle))
	return float32(c), float32(s)
}
