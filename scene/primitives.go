package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"skyline/core"
)

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi := float32(math.Sin(phi))
		cosPhi := float32(math.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * math.Pi / float64(segments)
			sinTheta := float32(math.Sin(theta))
			cosTheta := float32(math.Cos(theta))

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// buildingFaces lists the four corners of every face of the building box,
// counter-clockwise seen from outside, with the face normal.
var buildingFaces = []struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, 0, 1}, {1, 0, 1}, {1, 2, 1}, {-1, 2, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, 0, -1}, {-1, 0, -1}, {-1, 2, -1}, {1, 2, -1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, 0, 1}, {1, 0, -1}, {1, 2, -1}, {1, 2, 1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, 0, -1}, {-1, 0, 1}, {-1, 2, 1}, {-1, 2, -1}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 2, 1}, {1, 2, 1}, {1, 2, -1}, {-1, 2, -1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1}}},
}

// CreateBuildingBox returns the shared filler building: a box with a
// [-1,1]² footprint rising from y = 0 to y = 2. It is not indexed, so a
// whole city draws with a single glDrawArraysInstanced call. Side faces map
// v to height so facade bands stack vertically.
func CreateBuildingBox() *Mesh {
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	order := [6]int{0, 1, 2, 2, 3, 0}

	vertices := make([]core.Vertex, 0, len(buildingFaces)*len(order))
	for _, f := range buildingFaces {
		for _, i := range order {
			vertices = append(vertices, core.Vertex{
				Position: f.corners[i],
				Normal:   f.normal,
				UV:       uvs[i],
			})
		}
	}
	return CreateMeshFromData("Building", vertices, nil)
}
