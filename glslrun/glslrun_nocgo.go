//go:build tinygo || !cgo

package glslrun

import (
	"errors"

	"github.com/soypat/geometry/ms3"

	"github.com/shadeflow/shadeflow/glslgen"
)

var errNoCGO = errors.New("shader program compilation requires CGo and is not supported on TinyGo")

// Program is a linked vertex+fragment shader pair with cached uniform
// locations.
type Program struct{}

// Compile compiles and links the shader pair.
func Compile(vertexSrc, fragmentSrc string) (*Program, error) {
	return nil, errNoCGO
}

func (p *Program) Bind()   {}
func (p *Program) Delete() {}

func (p *Program) SetFloat(name string, v float32) error { return errNoCGO }

func (p *Program) SetVec3(name string, v ms3.Vec) error { return errNoCGO }

func (p *Program) SetMat4(name string, m *[16]float32) error { return errNoCGO }

func (p *Program) BindUniforms(us []glslgen.Uniform) {}
