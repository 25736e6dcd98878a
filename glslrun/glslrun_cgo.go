//go:build !tinygo && cgo

package glslrun

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"

	"github.com/shadeflow/shadeflow/glslgen"
)

// InitWindow starts GLFW with a core profile context and an initialized GL
// function loader. The returned terminate function should be called when
// the host is done rendering.
func InitWindow(width, height int, title string) (window *glfw.Window, terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	window.SwapBuffers()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}

// Program is a linked vertex+fragment shader pair with cached uniform
// locations.
type Program struct {
	prog glgl.Program
	locs map[string]int32
}

// Compile compiles and links the shader pair. On failure the error carries
// the fragment source so the host can display the backend's complaint next
// to the generated text.
func Compile(vertexSrc, fragmentSrc string) (*Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSrc + "\x00",
		Fragment: fragmentSrc + "\x00",
	})
	if err != nil {
		return nil, fmt.Errorf("%s\n\n%w", fragmentSrc, err)
	}
	return &Program{prog: prog, locs: make(map[string]int32)}, nil
}

func (p *Program) Bind()   { p.prog.Bind() }
func (p *Program) Delete() { p.prog.Delete() }

func (p *Program) uniform(name string) (int32, error) {
	if loc, ok := p.locs[name]; ok {
		return loc, nil
	}
	loc, err := p.prog.UniformLocation(name + "\x00")
	if err != nil {
		return -1, err
	}
	p.locs[name] = loc
	return loc, nil
}

// SetFloat uploads a float uniform. The program must be bound.
func (p *Program) SetFloat(name string, v float32) error {
	loc, err := p.uniform(name)
	if err != nil {
		return err
	}
	gl.Uniform1f(loc, v)
	return nil
}

// SetVec3 uploads a vec3 uniform. The program must be bound.
func (p *Program) SetVec3(name string, v ms3.Vec) error {
	loc, err := p.uniform(name)
	if err != nil {
		return err
	}
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
	return nil
}

// SetMat4 uploads a column-major 4x4 matrix uniform. The program must be
// bound.
func (p *Program) SetMat4(name string, m *[16]float32) error {
	loc, err := p.uniform(name)
	if err != nil {
		return err
	}
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
	return nil
}

// BindUniforms uploads the uniform list returned by a compile pass.
// Uniforms the GL compiler eliminated as unreferenced have no location and
// are skipped; a parameter node may legitimately be unwired.
func (p *Program) BindUniforms(us []glslgen.Uniform) {
	for _, u := range us {
		loc, err := p.uniform(u.Name)
		if err != nil {
			continue
		}
		switch u.Kind {
		case glslgen.Vec2:
			gl.Uniform2f(loc, u.Value[0], u.Value[1])
		case glslgen.Vec3:
			gl.Uniform3f(loc, u.Value[0], u.Value[1], u.Value[2])
		case glslgen.Vec4:
			gl.Uniform4f(loc, u.Value[0], u.Value[1], u.Value[2], u.Value[3])
		default:
			gl.Uniform1f(loc, u.Value[0])
		}
	}
}
