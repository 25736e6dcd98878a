// Package shadeflowaux provides host conveniences around the shadeflow
// graph compiler: default scene construction, combined GLSL/HLSL source
// generation and a GLFW preview window that shades a lit rotating cube
// with the compiled graph. Ideally hosts implement their own editing and
// rendering loops since applications vary widely.
package shadeflowaux

import (
	"fmt"
	"io"

	"github.com/shadeflow/shadeflow"
	"github.com/shadeflow/shadeflow/glslgen"
	"github.com/shadeflow/shadeflow/shaderlang"
)

// UIConfig configures the preview window.
type UIConfig struct {
	Width  int
	Height int
	Title  string
	// Silent disables progress logging.
	Silent bool
}

// DefaultScene populates an empty graph with the starter setup: a color
// constant wired to a fresh output node.
func DefaultScene(g *glslgen.Graph) error {
	var bld shadeflow.Builder
	out, err := g.AddNode(bld.Output())
	if err != nil {
		return err
	}
	col, err := g.AddNode(bld.Color(1, 0.5, 0.25))
	if err != nil {
		return err
	}
	return g.Connect(col, "RGB", out, "Color")
}

// WriteShaders compiles g once and writes the GLSL fragment shader to
// glslOut and, when hlslOut is non-nil, the converted HLSL pixel shader.
// Returns the uniform parameter list of the compile pass.
func WriteShaders(glslOut, hlslOut io.Writer, g *glslgen.Graph) ([]glslgen.Uniform, error) {
	c := glslgen.NewCompiler()
	_, uniforms, err := c.WriteFragmentShader(glslOut, g)
	if err != nil {
		return nil, fmt.Errorf("writing GLSL: %w", err)
	}
	if hlslOut != nil {
		body := c.AppendShaderBody(nil, g)
		_, err = io.WriteString(hlslOut, shaderlang.FragmentToHLSL(string(body), uniforms))
		if err != nil {
			return uniforms, fmt.Errorf("writing HLSL: %w", err)
		}
	}
	return uniforms, nil
}

// UI opens a preview window rendering a lit rotating cube shaded by the
// compiled graph. Blocks until the window is closed. Requires cgo.
func UI(g *glslgen.Graph, cfg UIConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Title == "" {
		cfg.Title = "shadeflow preview"
	}
	return ui(g, cfg)
}
