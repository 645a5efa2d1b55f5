package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"skyline/placement"
)

// instanceBaseAttrib is the first of the four vec4 column attributes that
// carry the per-instance model matrix.
const instanceBaseAttrib = 3

// InstanceBuffer binds a packed transform buffer to a shared mesh so the
// whole field draws in one call.
type InstanceBuffer struct {
	Mesh  *GPUMesh
	VBO   uint32
	Count int32
}

// NewInstanceBuffer uploads packed (placement.FloatsPerInstance floats per
// instance, column-major) once and wires it into mesh's VAO at locations
// 3-6 with a divisor of 1.
func NewInstanceBuffer(mesh *GPUMesh, packed []float32) (*InstanceBuffer, error) {
	if len(packed)%placement.FloatsPerInstance != 0 {
		return nil, fmt.Errorf("instance buffer: %d floats is not a whole number of matrices", len(packed))
	}
	ib := &InstanceBuffer{Mesh: mesh, Count: int32(len(packed) / placement.FloatsPerInstance)}
	if ib.Count == 0 {
		return ib, nil
	}

	const stride = int32(placement.FloatsPerInstance * 4)

	gl.GenBuffers(1, &ib.VBO)
	if err := allocated("instance buffer", ib.VBO); err != nil {
		return nil, err
	}
	gl.BindVertexArray(mesh.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, ib.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(packed)*4, gl.Ptr(packed), gl.STATIC_DRAW)

	for i := uint32(0); i < 4; i++ {
		loc := instanceBaseAttrib + i
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(i)*16))
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return ib, nil
}

// Draw renders every instance with a single instanced call.
func (ib *InstanceBuffer) Draw() {
	if ib.Count == 0 {
		return
	}
	m := ib.Mesh
	gl.BindVertexArray(m.VAO)
	if m.HasIndices {
		gl.DrawElementsInstanced(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, nil, ib.Count)
	} else {
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, m.VertexCount, ib.Count)
	}
	gl.BindVertexArray(0)
}

// Destroy frees the instance VBO. The shared mesh is left to its owner.
func (ib *InstanceBuffer) Destroy() {
	if ib.VBO != 0 {
		gl.DeleteBuffers(1, &ib.VBO)
		ib.VBO = 0
	}
}
