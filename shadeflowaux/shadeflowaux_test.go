package shadeflowaux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"

	"github.com/shadeflow/shadeflow/glslgen"
)

func TestDefaultSceneShaders(t *testing.T) {
	g := glslgen.NewGraph()
	if err := DefaultScene(g); err != nil {
		t.Fatal(err)
	}
	var glsl, hlsl bytes.Buffer
	uniforms, err := WriteShaders(&glsl, &hlsl, g)
	if err != nil {
		t.Fatal(err)
	}
	if len(uniforms) != 0 {
		t.Errorf("default scene declares no parameters, got %v", uniforms)
	}
	src := glsl.String()
	if !strings.HasPrefix(src, "#version 330 core\n") {
		t.Errorf("\n%s\nwant GLSL version header", src)
	}
	if !strings.Contains(src, "vec3 finalColor = vec3(1., 0.5, 0.25);") {
		t.Errorf("\n%s\nwant starter color feeding the output", src)
	}
	h := hlsl.String()
	if !strings.Contains(h, "float3 finalColor = float3(1., 0.5, 0.25);") {
		t.Errorf("\n%s\nwant HLSL body with converted types", h)
	}
	if !strings.Contains(h, "float4 PSMain(PSInput input) : SV_TARGET") {
		t.Errorf("\n%s\nwant complete pixel shader wrapper", h)
	}
	// HLSL output is optional.
	glsl.Reset()
	if _, err := WriteShaders(&glsl, nil, g); err != nil {
		t.Fatal(err)
	}
	if glsl.String() != src {
		t.Error("GLSL output changed when skipping HLSL")
	}
}

func TestMatHelpers(t *testing.T) {
	id := matIdentity()
	persp := matPerspective(1, 4.0/3, 0.1, 100)
	if got := matMul(id, persp); got != persp {
		t.Error("identity product altered matrix")
	}
	look := matLookAt(ms3.Vec{Z: 3}, ms3.Vec{}, ms3.Vec{Y: 1})
	if look[0] != 1 || look[5] != 1 || look[14] != -3 {
		t.Errorf("lookAt from +Z axis unexpected: %v", look)
	}
	if persp[11] != -1 || persp[15] != 0 {
		t.Errorf("perspective projection row unexpected: %v", persp)
	}
}
