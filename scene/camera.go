package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera represents a perspective view camera
type Camera struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	FOV         float32 // vertical, degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 0, 3},
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// OrbitCamera circles a target at a fixed distance and pitch. The viewer
// has no input handling, so the yaw advances on its own.
type OrbitCamera struct {
	Camera
	Distance float32
	Yaw      float32
	Pitch    float32
	// Speed is the yaw rate in radians per second.
	Speed float32
}

func NewOrbitCamera(target mgl32.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:   *NewCamera(fov, aspectRatio, 0.1, 1000.0),
		Distance: distance,
		Pitch:    0.3,
		Speed:    0.15,
	}
	c.Target = target
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = mgl32.Clamp(c.Pitch, -1.5, 1.5)

	cosPitch := float32(math.Cos(float64(c.Pitch)))
	sinPitch := float32(math.Sin(float64(c.Pitch)))
	cosYaw := float32(math.Cos(float64(c.Yaw)))
	sinYaw := float32(math.Sin(float64(c.Yaw)))

	offset := mgl32.Vec3{
		c.Distance * cosPitch * sinYaw,
		c.Distance * sinPitch,
		c.Distance * cosPitch * cosYaw,
	}
	c.Position = c.Target.Add(offset)
}

// Advance moves the camera along its orbit by dt seconds.
func (c *OrbitCamera) Advance(dt float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+c.Speed*dt), 2*math.Pi))
	c.UpdatePosition()
}
