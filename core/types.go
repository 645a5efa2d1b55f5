package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGBA colour. HDR values above 1 are allowed.
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// ColorFromRGB8 converts an 8-bit per channel colour to the [0,1] range.
func ColorFromRGB8(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: 1,
	}
}

// Vec3 returns the RGB channels as a vector, the form shaders consume.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

func (c Color) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", c.R, c.G, c.B)
}

// Vertex is the interleaved layout shared by every static mesh:
// position (location 0), normal (location 1), uv (location 2).
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}
