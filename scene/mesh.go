package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"skyline/core"
)

// AABB is an axis-aligned bounding box in mesh-local space.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius is the distance from the centre to a corner.
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Len() * 0.5
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB AABB
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
	}
	return m
}

// Indexed reports whether the mesh is drawn through an index buffer.
func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// computeLocalAABB returns the tight AABB of the given vertex positions.
func computeLocalAABB(vertices []core.Vertex) AABB {
	lo := vertices[0].Position
	hi := vertices[0].Position
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return AABB{Min: lo, Max: hi}
}
