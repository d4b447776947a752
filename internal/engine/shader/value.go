package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/phongview/internal/engine/gpu"
)

var (
	// ErrUnsupportedShape is returned for vectors and matrices the GPU has no uniform call for.
	ErrUnsupportedShape = errors.New("unsupported uniform shape")
	// ErrUnsupportedType is returned for Go values that cannot become a uniform.
	ErrUnsupportedType = errors.New("unsupported uniform type")
)

// Kind is the shape of a uniform value.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindVec2
	KindVec3
	KindVec4
	KindMat3
	KindMat4
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindVec4:
		return "vec4"
	case KindMat3:
		return "mat3"
	case KindMat4:
		return "mat4"
	default:
		return "none"
	}
}

// Value is a single uniform value: one of int, float, vec2/3/4 or mat3/4.
// The zero Value has KindNone and binds nothing.
//
// Matrices are stored row by row, so they are always uploaded with the
// transpose flag set.
type Value struct {
	kind      Kind
	i         int32
	f         [16]float32
	transpose bool
}

// Int returns an int uniform value.
func Int(v int32) Value {
	return Value{kind: KindInt, i: v}
}

// Float returns a float uniform value.
func Float(v float32) Value {
	val := Value{kind: KindFloat}
	val.f[0] = v
	return val
}

// Vec2 returns a vec2 uniform value.
func Vec2(v mgl32.Vec2) Value {
	val := Value{kind: KindVec2}
	copy(val.f[:], v[:])
	return val
}

// Vec3 returns a vec3 uniform value.
func Vec3(v mgl32.Vec3) Value {
	val := Value{kind: KindVec3}
	copy(val.f[:], v[:])
	return val
}

// Vec4 returns a vec4 uniform value.
func Vec4(v mgl32.Vec4) Value {
	val := Value{kind: KindVec4}
	copy(val.f[:], v[:])
	return val
}

// Mat3 returns a mat3 uniform value.
func Mat3(m mgl32.Mat3) Value {
	val := Value{kind: KindMat3, transpose: true}
	rows := m.Transpose()
	copy(val.f[:], rows[:])
	return val
}

// Mat4 returns a mat4 uniform value.
func Mat4(m mgl32.Mat4) Value {
	val := Value{kind: KindMat4, transpose: true}
	rows := m.Transpose()
	copy(val.f[:], rows[:])
	return val
}

// Vector returns a vec2, vec3 or vec4 value for a slice of that length.
func Vector(v []float32) (Value, error) {
	switch len(v) {
	case 2:
		return Vec2(mgl32.Vec2{v[0], v[1]}), nil
	case 3:
		return Vec3(mgl32.Vec3{v[0], v[1], v[2]}), nil
	case 4:
		return Vec4(mgl32.Vec4{v[0], v[1], v[2], v[3]}), nil
	}
	return Value{}, fmt.Errorf("%w: vector of length %d", ErrUnsupportedShape, len(v))
}

// Matrix returns a mat3 or mat4 value for row-major data of the given shape.
func Matrix(rows, cols int, data []float32) (Value, error) {
	if rows != cols || (rows != 3 && rows != 4) || len(data) != rows*cols {
		return Value{}, fmt.Errorf("%w: matrix of shape %dx%d", ErrUnsupportedShape, rows, cols)
	}
	kind := KindMat3
	if rows == 4 {
		kind = KindMat4
	}
	val := Value{kind: kind, transpose: true}
	copy(val.f[:], data)
	return val, nil
}

// ValueOf converts a Go value to a uniform value by its runtime shape.
// Integers become int uniforms, floating point numbers float uniforms,
// mgl32 vectors and matrices their matching kinds, []float32 a vector and
// [][]float32 a matrix of rows.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int:
		return Int(int32(x)), nil
	case int32:
		return Int(x), nil
	case bool:
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(float32(x)), nil
	case mgl32.Vec2:
		return Vec2(x), nil
	case mgl32.Vec3:
		return Vec3(x), nil
	case mgl32.Vec4:
		return Vec4(x), nil
	case mgl32.Mat3:
		return Mat3(x), nil
	case mgl32.Mat4:
		return Mat4(x), nil
	case []float32:
		return Vector(x)
	case [][]float32:
		rows := len(x)
		if rows == 0 {
			return Value{}, fmt.Errorf("%w: empty matrix", ErrUnsupportedShape)
		}
		cols := len(x[0])
		data := make([]float32, 0, rows*cols)
		for _, row := range x {
			if len(row) != cols {
				return Value{}, fmt.Errorf("%w: ragged matrix", ErrUnsupportedShape)
			}
			data = append(data, row...)
		}
		return Matrix(rows, cols, data)
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// Kind returns the value's shape.
func (v Value) Kind() Kind {
	return v.kind
}

// Transpose reports whether the value is uploaded with the transpose flag.
func (v Value) Transpose() bool {
	return v.transpose
}

// bind issues the uniform call matching the value's kind.
func (v Value) bind(ctx gpu.Uniforms, location int32) {
	switch v.kind {
	case KindInt:
		ctx.Uniform1i(location, v.i)
	case KindFloat:
		ctx.Uniform1f(location, v.f[0])
	case KindVec2:
		ctx.Uniform2fv(location, mgl32.Vec2{v.f[0], v.f[1]})
	case KindVec3:
		ctx.Uniform3fv(location, mgl32.Vec3{v.f[0], v.f[1], v.f[2]})
	case KindVec4:
		ctx.Uniform4fv(location, mgl32.Vec4{v.f[0], v.f[1], v.f[2], v.f[3]})
	case KindMat3:
		var m [9]float32
		copy(m[:], v.f[:9])
		ctx.UniformMatrix3fv(location, v.transpose, m)
	case KindMat4:
		ctx.UniformMatrix4fv(location, v.transpose, v.f)
	}
}
