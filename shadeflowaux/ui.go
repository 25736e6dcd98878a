//go:build !tinygo && cgo

package shadeflowaux

import (
	"bytes"
	"log"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"

	"github.com/shadeflow/shadeflow/glslgen"
	"github.com/shadeflow/shadeflow/glslrun"
)

// Unit cube, 36 vertices of interleaved position and normal.
var cubeVertices = []float32{
	-0.5, -0.5, -0.5, 0, 0, -1,
	0.5, -0.5, -0.5, 0, 0, -1,
	0.5, 0.5, -0.5, 0, 0, -1,
	0.5, 0.5, -0.5, 0, 0, -1,
	-0.5, 0.5, -0.5, 0, 0, -1,
	-0.5, -0.5, -0.5, 0, 0, -1,

	-0.5, -0.5, 0.5, 0, 0, 1,
	0.5, -0.5, 0.5, 0, 0, 1,
	0.5, 0.5, 0.5, 0, 0, 1,
	0.5, 0.5, 0.5, 0, 0, 1,
	-0.5, 0.5, 0.5, 0, 0, 1,
	-0.5, -0.5, 0.5, 0, 0, 1,

	-0.5, 0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, -0.5, -1, 0, 0,
	-0.5, -0.5, -0.5, -1, 0, 0,
	-0.5, -0.5, -0.5, -1, 0, 0,
	-0.5, -0.5, 0.5, -1, 0, 0,
	-0.5, 0.5, 0.5, -1, 0, 0,

	0.5, 0.5, 0.5, 1, 0, 0,
	0.5, 0.5, -0.5, 1, 0, 0,
	0.5, -0.5, -0.5, 1, 0, 0,
	0.5, -0.5, -0.5, 1, 0, 0,
	0.5, -0.5, 0.5, 1, 0, 0,
	0.5, 0.5, 0.5, 1, 0, 0,

	-0.5, -0.5, -0.5, 0, -1, 0,
	0.5, -0.5, -0.5, 0, -1, 0,
	0.5, -0.5, 0.5, 0, -1, 0,
	0.5, -0.5, 0.5, 0, -1, 0,
	-0.5, -0.5, 0.5, 0, -1, 0,
	-0.5, -0.5, -0.5, 0, -1, 0,

	-0.5, 0.5, -0.5, 0, 1, 0,
	0.5, 0.5, -0.5, 0, 1, 0,
	0.5, 0.5, 0.5, 0, 1, 0,
	0.5, 0.5, 0.5, 0, 1, 0,
	-0.5, 0.5, 0.5, 0, 1, 0,
	-0.5, 0.5, -0.5, 0, 1, 0,
}

func ui(g *glslgen.Graph, cfg UIConfig) error {
	window, terminate, err := glslrun.InitWindow(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer terminate()

	var src bytes.Buffer
	compiler := glslgen.NewCompiler()
	_, uniforms, err := compiler.WriteFragmentShader(&src, g)
	if err != nil {
		return err
	}
	if !cfg.Silent {
		for _, d := range compiler.Diagnostics() {
			log.Println("graph compile diagnostic:", d)
		}
	}
	prog, err := glslrun.Compile(glslrun.DefaultVertexShader, src.String())
	if err != nil {
		return err
	}
	defer prog.Delete()
	prog.Bind()

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(cubeVertices), gl.Ptr(cubeVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.Enable(gl.DEPTH_TEST)

	eye := ms3.Vec{Z: 3}
	view := matLookAt(eye, ms3.Vec{}, ms3.Vec{Y: 1})
	projection := matPerspective(45*math32.Pi/180, float32(cfg.Width)/float32(cfg.Height), 0.1, 100)
	if err := prog.SetMat4("view", &view); err != nil {
		return err
	}
	if err := prog.SetMat4("projection", &projection); err != nil {
		return err
	}
	// Built-in fragment uniforms are eliminated by the GL compiler when the
	// graph does not reference them, so failed lookups are fine here.
	_ = prog.SetVec3("lightPos", ms3.Vec{X: 2, Y: 2, Z: 2})
	_ = prog.SetVec3("viewPos", eye)
	_ = prog.SetVec3("lightColor", ms3.Vec{X: 1, Y: 1, Z: 1})
	_ = prog.SetVec3("objectColor", ms3.Vec{X: 0.3, Y: 0.6, Z: 0.9})
	prog.BindUniforms(uniforms)

	var angle float32
	for !window.ShouldClose() {
		gl.ClearColor(0.15, 0.15, 0.2, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		angle += 0.01
		model := matMul(matRotateY(angle), matRotateX(angle/2))
		if err := prog.SetMat4("model", &model); err != nil {
			return err
		}
		_ = prog.SetFloat("time", float32(glfw.GetTime()))

		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 36)
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}
