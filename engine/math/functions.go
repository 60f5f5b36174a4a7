package math

import (
	"encoding/binary"
	m "math"

	"github.com/chewxy/math32"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief PI multiplied by 2, one full turn. */
	K_PI_2 float32 = 2.0 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
)

func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

func NewVec2Zero() Vec2 {
	return Vec2{}
}

func NewVec2One() Vec2 {
	return Vec2{1, 1}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Mul multiplies component-wise.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

func (v Vec2) MulScalar(scalar float32) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

// Compare reports whether every component of v is within tolerance of other.
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	return math32.Abs(v.X-other.X) <= tolerance && math32.Abs(v.Y-other.Y) <= tolerance
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{1, 1, 1}
}

/**
 * @brief The world up axis, +Y.
 */
func NewVec3Up() Vec3 {
	return Vec3{0, 1, 0}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.MulScalar(1 / length)
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

/**
 * @brief Transforms v as a point (implicit w = 1) by the row-vector
 * matrix mt, so the translation row is added.
 */
func (v Vec3) Transform(mt Mat4) Vec3 {
	d := &mt.Data
	return Vec3{
		v.X*d[0] + v.Y*d[4] + v.Z*d[8] + d[12],
		v.X*d[1] + v.Y*d[5] + v.Z*d[9] + d[13],
		v.X*d[2] + v.Y*d[6] + v.Z*d[10] + d[14],
	}
}

// Bytes returns the little endian encoding of the three components.
func (v Vec3) Bytes() []byte {
	return Float32Bytes(v.X, v.Y, v.Z)
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

func NewVec4One() Vec4 {
	return Vec4{1, 1, 1, 1}
}

func (v Vec4) Bytes() []byte {
	return Float32Bytes(v.X, v.Y, v.Z, v.W)
}

func NewMat4Identity() Mat4 {
	return Mat4{Data: [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

/**
 * @brief Returns mt multiplied by other. Points are row vectors, so the
 * product applies mt first and other second: translate * rotate * scale
 * is written scale.Mul(rotate).Mul(translate).
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out.Data[row*4+col] = sum
		}
	}
	return out
}

/**
 * @brief Orthographic projection of the box [left,right]x[bottom,top]x[near,far]
 * into clip space. Used by the 2D renderer with screen pixel extents.
 */
func NewMat4Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	out := NewMat4Identity()
	lr := 1 / (left - right)
	bt := 1 / (bottom - top)
	nf := 1 / (near - far)

	out.Data[0] = -2 * lr
	out.Data[5] = -2 * bt
	out.Data[10] = 2 * nf
	out.Data[12] = (left + right) * lr
	out.Data[13] = (top + bottom) * bt
	out.Data[14] = (far + near) * nf
	return out
}

// NewMat4Perspective builds a right-handed perspective projection, fov is vertical in radians.
func NewMat4Perspective(fov, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fov*0.5)
	var out Mat4
	out.Data[0] = f / aspect
	out.Data[5] = f
	out.Data[10] = -(far + near) / (far - near)
	out.Data[11] = -1
	out.Data[14] = -(2 * far * near) / (far - near)
	return out
}

/**
 * @brief View matrix of an eye at position looking at target.
 */
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	forward := target.Sub(position).Normalize()
	right := forward.Cross(up).Normalize()
	camUp := right.Cross(forward)

	return Mat4{Data: [16]float32{
		right.X, camUp.X, -forward.X, 0,
		right.Y, camUp.Y, -forward.Y, 0,
		right.Z, camUp.Z, -forward.Z, 0,
		-right.Dot(position), -camUp.Dot(position), forward.Dot(position), 1,
	}}
}

func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = position.X
	out.Data[13] = position.Y
	out.Data[14] = position.Z
	return out
}

func NewMat4Scale(scale Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = scale.X
	out.Data[5] = scale.Y
	out.Data[10] = scale.Z
	return out
}

// NewMat4EulerZ rotates counter-clockwise about +Z by angle radians.
func NewMat4EulerZ(angle float32) Mat4 {
	out := NewMat4Identity()
	if angle == 0 {
		return out
	}
	s, c := math32.Sincos(angle)
	out.Data[0] = c
	out.Data[1] = s
	out.Data[4] = -s
	out.Data[5] = c
	return out
}

func (mt Mat4) Translation() Vec3 {
	return Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
}

// Bytes returns the little endian encoding of the 16 elements in upload order.
func (mt Mat4) Bytes() []byte {
	return Float32Bytes(mt.Data[:]...)
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

// Float32Bytes packs values as consecutive little endian IEEE 754 floats.
func Float32Bytes(values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], m.Float32bits(v))
	}
	return out
}
