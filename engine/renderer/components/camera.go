package components

import (
	"github.com/chewxy/math32"

	"github.com/spaghettifunk/lumen/engine/math"
)

/**
 * @brief A perspective camera looking at a fixed target. The view and
 * projection are what Renderer3D.UploadCamera expects.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief Vertical field of view in radians. */
	FOV float32
	/** @brief Width over height of the viewport. */
	Aspect float32
	Near   float32
	Far    float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty    bool
	viewMatrix math.Mat4
}

func NewCamera(position, target math.Vec3, aspect float32) *Camera {
	return &Camera{
		Position: position,
		Target:   target,
		FOV:      math.DegToRad(45),
		Aspect:   aspect,
		Near:     0.1,
		Far:      100,
		IsDirty:  true,
	}
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetAspect(width, height uint32) {
	if height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) View() math.Mat4 {
	if c.IsDirty {
		c.viewMatrix = math.NewMat4LookAt(c.Position, c.Target, math.NewVec3Up())
		c.IsDirty = false
	}
	return c.viewMatrix
}

func (c *Camera) Projection() math.Mat4 {
	return math.NewMat4Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Orbit rotates the camera about the vertical axis through the target, keeping its height
// and distance.
func (c *Camera) Orbit(radians float32) {
	offset := c.Position.Sub(c.Target)
	sin, cos := math32.Sincos(radians)
	rotated := math.NewVec3(offset.X*cos+offset.Z*sin, offset.Y, -offset.X*sin+offset.Z*cos)
	c.SetPosition(c.Target.Add(rotated))
}
