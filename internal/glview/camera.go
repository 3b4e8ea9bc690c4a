package glview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera centers its projection on a fixed target; the natural way
// to inspect a single static mesh rather than walk around an open world.
type OrbitCamera struct {
	Target      mgl32.Vec3
	Distance    float32
	Yaw, Pitch  float32 // radians
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

// NewOrbitCamera frames target from the given starting distance.
func NewOrbitCamera(target mgl32.Vec3, distance float32, width, height int) *OrbitCamera {
	return &OrbitCamera{
		Target:      target,
		Distance:    distance,
		Yaw:         0,
		Pitch:       0.4,
		AspectRatio: float32(width) / float32(height),
		FOV:         45.0,
		NearPlane:   0.05,
		FarPlane:    1000.0,
	}
}

// Eye returns the camera's world-space position.
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	cp, sp := cosf(c.Pitch), sinf(c.Pitch)
	cy, sy := cosf(c.Yaw), sinf(c.Yaw)
	dir := mgl32.Vec3{cp * sy, sp, cp * cy}
	return c.Target.Add(dir.Mul(c.Distance))
}

// ViewMatrix returns the look-at matrix from the orbit eye to Target.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the current
// aspect ratio.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Orbit adjusts yaw/pitch by the given deltas (radians), clamping pitch to
// avoid flipping over the poles.
func (c *OrbitCamera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	const limit = 1.5
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Zoom scales the orbit distance, clamped to stay off the target.
func (c *OrbitCamera) Zoom(factor float32) {
	c.Distance *= factor
	if c.Distance < 0.01 {
		c.Distance = 0.01
	}
}

func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }
