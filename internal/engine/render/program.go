package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// newProgram compiles and links a vertex/fragment shader pair.
func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileStage(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &infoLog[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", infoLog)
	}
	return program, nil
}

func compileStage(stage uint32, source string) (uint32, error) {
	shader := gl.CreateShader(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", infoLog)
	}
	return shader, nil
}
