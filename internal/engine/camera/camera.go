// Package camera provides the editor's orbit camera.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/verdant/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera with editor defaults.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        120,
		Pitch:           0.6,
		Yaw:             0,
		MinDistance:     10,
		MaxDistance:     2000,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	offset := math.Vec3{
		X: c.Distance * math32.Cos(c.Pitch) * math32.Sin(c.Yaw),
		Y: c.Distance * math32.Sin(c.Pitch),
		Z: c.Distance * math32.Cos(c.Pitch) * math32.Cos(c.Yaw),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the center point relative to the current yaw.
// Speed scales with distance for consistent feel.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	speed := c.Distance * 0.01

	dir := math.Vec3{X: math32.Sin(c.Yaw), Z: math32.Cos(c.Yaw)}
	rightDir := math.Vec3{X: math32.Cos(c.Yaw), Z: -math32.Sin(c.Yaw)}

	// Negate forward so W moves into the scene.
	c.Center = c.Center.
		Add(dir.Scale(-forward * speed)).
		Add(rightDir.Scale(right * speed))
	c.Center.Y += up * speed
}

// FitToBounds centers the camera over an axis-aligned region and backs off
// far enough to see it.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Add(max).Scale(0.5)

	size := max.X - min.X
	if max.Z-min.Z > size {
		size = max.Z - min.Z
	}
	c.Distance = size * 0.8
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	c.Pitch = 0.6
	c.Yaw = 0
}
