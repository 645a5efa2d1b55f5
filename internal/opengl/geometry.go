package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// ── Cube geometry ─────────────────────────────────────────────────────────────

// 36 positions (xyz) for a unit cube, CCW from the outside.
// Face culling is disabled while drawing so the inside faces are visible.
var cubeVerts = []float32{
	// -Z face
	-1, -1, -1, 1, 1, -1, 1, -1, -1,
	1, 1, -1, -1, -1, -1, -1, 1, -1,
	// +Z face
	-1, -1, 1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, -1, 1,
	// -X face
	-1, 1, 1, -1, 1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, 1, -1, 1, 1,
	// +X face
	1, 1, 1, 1, -1, -1, 1, 1, -1,
	1, -1, -1, 1, 1, 1, 1, -1, 1,
	// -Y face
	-1, -1, -1, 1, -1, -1, 1, -1, 1,
	1, -1, 1, -1, -1, 1, -1, -1, -1,
	// +Y face
	-1, 1, -1, 1, 1, 1, 1, 1, -1,
	1, 1, 1, -1, 1, -1, -1, 1, 1,
}

// Fullscreen triangle strip: position (xyz) then uv.
var quadVerts = []float32{
	-1, 1, 0, 0, 1,
	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

// shape is a VAO/VBO pair for a fixed non-indexed primitive.
type shape struct {
	vao, vbo uint32
	mode     uint32
	count    int32
}

func newCube() (*shape, error) {
	s, err := newShape(cubeVerts, gl.TRIANGLES, 3)
	if err != nil {
		return nil, err
	}
	gl.BindVertexArray(s.vao)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 12, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	return s, nil
}

func newQuad() (*shape, error) {
	s, err := newShape(quadVerts, gl.TRIANGLE_STRIP, 5)
	if err != nil {
		return nil, err
	}
	gl.BindVertexArray(s.vao)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 20, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 20, gl.PtrOffset(12))
	gl.BindVertexArray(0)
	return s, nil
}

// newShape uploads verts and leaves the VAO unbound. Attribute layout is
// the caller's job.
func newShape(verts []float32, mode uint32, stride int) (*shape, error) {
	s := &shape{mode: mode, count: int32(len(verts) / stride)}
	gl.GenVertexArrays(1, &s.vao)
	if err := allocated("vertex array", s.vao); err != nil {
		return nil, err
	}
	gl.GenBuffers(1, &s.vbo)
	if err := allocated("vertex buffer", s.vbo); err != nil {
		s.destroy()
		return nil, err
	}
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	return s, nil
}

func (s *shape) draw() {
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(s.mode, 0, s.count)
	gl.BindVertexArray(0)
}

func (s *shape) destroy() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
}
