package renderer

import "github.com/spaghettifunk/lumen/engine/math"

/**
 * @brief A screen-space rectangle given by its centre and half extents.
 * It becomes the model matrix of the unit quad.
 */
type Quad struct {
	translate math.Vec3
	scale     math.Vec3
}

func NewQuad(centre, halfExtents math.Vec2) Quad {
	return Quad{
		translate: math.NewVec3(centre.X, centre.Y, 0),
		scale:     math.NewVec3(halfExtents.X*2, halfExtents.Y*2, 1),
	}
}

func (q Quad) Translate() math.Vec3 {
	return q.translate
}

func (q Quad) Scale() math.Vec3 {
	return q.scale
}

// Model composes translate * rotate(angle about +Z) * scale, scaling is applied first.
func (q Quad) Model(angleDegrees float32) math.Mat4 {
	return math.NewMat4Scale(q.scale).
		Mul(math.NewMat4EulerZ(math.DegToRad(angleDegrees))).
		Mul(math.NewMat4Translation(q.translate))
}

type quadOptions struct {
	texture *Texture
	tint    *math.Vec4
	angle   float32
}

// QuadOption overrides one of the renderer defaults for a single SubmitQuad call.
type QuadOption func(*quadOptions)

func WithTexture(texture *Texture) QuadOption {
	return func(o *quadOptions) {
		o.texture = texture
	}
}

func WithTint(tint math.Vec4) QuadOption {
	return func(o *quadOptions) {
		o.tint = &tint
	}
}

// WithAngle rotates the quad about its centre, in degrees.
func WithAngle(degrees float32) QuadOption {
	return func(o *quadOptions) {
		o.angle = degrees
	}
}
