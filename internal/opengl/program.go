package opengl

import (
	"errors"
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

var (
	// ErrAllocation is returned when the driver hands back a zero object name.
	ErrAllocation = errors.New("opengl: allocation failed")
	// ErrIncompleteFramebuffer is returned when a framebuffer fails its
	// completeness check after an attachment change.
	ErrIncompleteFramebuffer = errors.New("opengl: incomplete framebuffer")
)

// Init loads the GL function pointers for the current context and returns
// the driver's version string.
func Init() (string, error) {
	if err := gl.Init(); err != nil {
		return "", fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return gl.GoStr(gl.GetString(gl.VERSION)), nil
}

// allocated fails with ErrAllocation when id is zero.
func allocated(what string, id uint32) error {
	if id == 0 {
		return fmt.Errorf("%w: %s", ErrAllocation, what)
	}
	return nil
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	if err := allocated("program", prog); err != nil {
		return 0, err
	}
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

// uniform looks up a uniform location by its Go name.
func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
