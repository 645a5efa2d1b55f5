// Package ibl holds the reference implementation of the image based
// lighting precompute: panorama projection, irradiance convolution,
// specular prefiltering and the split-sum BRDF table. The GPU passes in
// internal/opengl share the constants defined here.
package ibl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CubeFace indexes the six faces of a cubemap in GL order.
type CubeFace int

const (
	PositiveX CubeFace = iota
	NegativeX
	PositiveY
	NegativeY
	PositiveZ
	NegativeZ
)

const FaceCount = 6

var faceNames = [FaceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f CubeFace) String() string {
	if f < 0 || f >= FaceCount {
		return "invalid"
	}
	return faceNames[f]
}

// Capture projection parameters shared by every bake pass.
const (
	CaptureFOV  = 90.0
	CaptureNear = 0.1
	CaptureFar  = 10.0
)

var (
	faceForward = [FaceCount]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	faceUp = [FaceCount]mgl32.Vec3{
		{0, -1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}, {0, -1, 0}, {0, -1, 0},
	}
)

// CaptureProjection is the square 90 degree projection used to render one
// cube face from the origin.
func CaptureProjection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(CaptureFOV), 1, CaptureNear, CaptureFar)
}

// CaptureViews returns the look-at matrix of every face, eye at the origin.
func CaptureViews() [FaceCount]mgl32.Mat4 {
	var views [FaceCount]mgl32.Mat4
	for f := range views {
		views[f] = mgl32.LookAtV(mgl32.Vec3{}, faceForward[f], faceUp[f])
	}
	return views
}

// FaceDirection maps face coordinates s, t in [-1, 1] to the (unnormalized)
// direction stored there. t = -1 is texel row 0.
func FaceDirection(face CubeFace, s, t float32) mgl32.Vec3 {
	switch face {
	case PositiveX:
		return mgl32.Vec3{1, -t, -s}
	case NegativeX:
		return mgl32.Vec3{-1, -t, s}
	case PositiveY:
		return mgl32.Vec3{s, 1, t}
	case NegativeY:
		return mgl32.Vec3{s, -1, -t}
	case PositiveZ:
		return mgl32.Vec3{s, -t, 1}
	default:
		return mgl32.Vec3{-s, -t, -1}
	}
}

// CubeLookup is the inverse of FaceDirection: it selects the face with the
// dominant axis and projects dir onto it.
func CubeLookup(dir mgl32.Vec3) (face CubeFace, s, t float32) {
	x, y, z := dir[0], dir[1], dir[2]
	ax, ay, az := math32.Abs(x), math32.Abs(y), math32.Abs(z)

	switch {
	case ax >= ay && ax >= az:
		if x >= 0 {
			return PositiveX, -z / ax, -y / ax
		}
		return NegativeX, z / ax, -y / ax
	case ay >= az:
		if y >= 0 {
			return PositiveY, x / ay, z / ay
		}
		return NegativeY, x / ay, -z / ay
	default:
		if z >= 0 {
			return PositiveZ, x / az, -y / az
		}
		return NegativeZ, -x / az, -y / az
	}
}

// texelCoord returns the face coordinate of the centre of texel i on an
// n texel wide face.
func texelCoord(i, n int) float32 {
	return (2*float32(i)+1)/float32(n) - 1
}

// TexelDirection is the normalized direction through the centre of texel
// (x, y) of an n×n face.
func TexelDirection(face CubeFace, x, y, n int) mgl32.Vec3 {
	return FaceDirection(face, texelCoord(x, n), texelCoord(y, n)).Normalize()
}
