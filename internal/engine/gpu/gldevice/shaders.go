package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/gpu/gldevice/shaders"
)

// sources pairs each pass with its embedded vertex and fragment shader.
var sources = map[gpu.Pass][2]string{
	gpu.PassDepth:   {shaders.DepthVertexShader, shaders.DepthFragmentShader},
	gpu.PassDecal:   {shaders.DecalVertexShader, shaders.DecalFragmentShader},
	gpu.PassBlend:   {shaders.BlendVertexShader, shaders.BlendFragmentShader},
	gpu.PassDisplay: {shaders.DisplayVertexShader, shaders.DisplayFragmentShader},
}

// Shaders compiles every pass up front and hands out the programs.
type Shaders struct {
	programs map[gpu.Pass]gpu.Program
}

// NewShaders compiles and links the program of every pass.
func NewShaders() (*Shaders, error) {
	s := &Shaders{programs: make(map[gpu.Pass]gpu.Program)}
	for _, pass := range gpu.Passes() {
		src := sources[pass]
		id, err := CompileProgram(src[0], src[1])
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("%w: %s: %v", gpu.ErrShaderCompile, pass, err)
		}
		s.programs[pass] = gpu.NewProgram(pass, gpu.Handle(id))
	}
	return s, nil
}

// Program returns the compiled program for pass.
func (s *Shaders) Program(pass gpu.Pass) (gpu.Program, error) {
	p, ok := s.programs[pass]
	if !ok {
		return gpu.Program{}, fmt.Errorf("%w: no program for %s", gpu.ErrShaderCompile, pass)
	}
	return p, nil
}

// Release deletes every program.
func (s *Shaders) Release() {
	for pass, p := range s.programs {
		gl.DeleteProgram(uint32(p.Handle))
		delete(s.programs, pass)
	}
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}
