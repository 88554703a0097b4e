// Package camera provides the orbit camera used by the model viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit circles a center point at a distance, controlled by mouse drag and
// scroll. Angles are in radians.
type Orbit struct {
	Center mgl32.Vec3

	Distance float32
	Pitch    float32 // vertical angle above the horizon
	Yaw      float32 // horizontal angle around Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	FOV  float32 // vertical field of view, radians
	Near float32
	Far  float32
}

// NewOrbit creates an orbit camera with defaults suited to meter-scale
// glTF assets.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        4.0,
		Pitch:           0.35,
		MinDistance:     0.25,
		MaxDistance:     100.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.007,
		ZoomSensitivity: 0.1,
		FOV:             mgl32.DegToRad(45),
		Near:            0.1,
		Far:             1000.0,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() mgl32.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))
	return c.Center.Add(mgl32.Vec3{x, y, z})
}

// ViewMatrix returns the view matrix looking at the center point.
func (c *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns the combined projection*view matrix for the given
// framebuffer size.
func (c *Orbit) ViewProjection(width, height int32) mgl32.Mat4 {
	aspect := float32(width) / float32(height)
	projection := mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
	return projection.Mul4(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta in pixels.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta. Zoom speed scales
// with distance so close-up steps stay fine-grained.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// SetCenter moves the orbit center.
func (c *Orbit) SetCenter(center mgl32.Vec3) {
	c.Center = center
}
