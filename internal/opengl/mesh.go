package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"skyline/core"
	"skyline/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	VertexCount int32
	IndexCount  int32
	HasIndices  bool
}

// UploadMesh copies mesh into static buffers with position, normal and uv
// at attribute locations 0, 1 and 2.
func UploadMesh(mesh *scene.Mesh) (*GPUMesh, error) {
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("mesh %q has no vertices", mesh.Name)
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		VertexCount: int32(len(mesh.Vertices)),
		IndexCount:  int32(len(mesh.Indices)),
		HasIndices:  mesh.Indexed(),
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	if err := allocated("mesh vertex array", gpu.VAO); err != nil {
		return nil, err
	}
	gl.GenBuffers(1, &gpu.VBO)
	if err := allocated("mesh vertex buffer", gpu.VBO); err != nil {
		gpu.Destroy()
		return nil, err
	}
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		if err := allocated("mesh index buffer", gpu.EBO); err != nil {
			gl.BindVertexArray(0)
			gpu.Destroy()
			return nil, err
		}
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	return gpu, nil
}

// Draw issues one non-instanced draw of the whole mesh.
func (m *GPUMesh) Draw() {
	gl.BindVertexArray(m.VAO)
	if m.HasIndices {
		gl.DrawElements(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.VertexCount)
	}
	gl.BindVertexArray(0)
}

// Destroy frees the GPU buffers.
func (m *GPUMesh) Destroy() {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		m.VAO = 0
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
		m.VBO = 0
	}
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
		m.EBO = 0
	}
}
