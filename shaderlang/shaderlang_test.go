package shaderlang_test

import (
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"

	"github.com/shadeflow/shadeflow"
	"github.com/shadeflow/shadeflow/glslgen"
	"github.com/shadeflow/shadeflow/shaderlang"
)

func TestHLSLToGLSL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"float4 c = float4(1.0, 0.0, 0.0, 1.0);", "vec4 c = vec4(1.0, 0.0, 0.0, 1.0);"},
		{"float4x4 mvp;", "mat4 mvp;"},
		{"float x = lerp(a, b, t);", "float x = mix(a, b, t);"},
		{"float y = frac(x) + rsqrt(z);", "float y = fract(x) + inversesqrt(z);"},
		{"float a = atan2(y, x);", "float a = atan(y, x);"},
		{"float s = saturate( v * 2.0 );", "float s = clamp(v * 2.0, 0.0, 1.0);"},
		{"float4 pos : SV_POSITION;", "vec4 pos;"},
		{"float2 uv : TEXCOORD0;", "vec2 uv;"},
		{"float4 c = tex2D(samp, uv);", "vec4 c = texture(samp, uv);"},
		// Word boundaries: no partial identifier mangling.
		{"float myfloat4 = 1.0;", "float myfloat4 = 1.0;"},
	}
	for _, c := range cases {
		got := shaderlang.HLSLToGLSL(c.in)
		if got != c.want {
			t.Errorf("HLSLToGLSL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGLSLToHLSL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"vec3 n = normalize(Normal);", "float3 n = normalize(Normal);"},
		{"float x = mix(a, b, t);", "float x = lerp(a, b, t);"},
		{"float y = fract(x);", "float y = frac(x);"},
		{"float m = mod(a, b);", "float m = fmod(a, b);"},
		{"vec4 c; c.xyz = n.zyx;", "float4 c; c.xyz = n.zyx;"},
	}
	for _, c := range cases {
		got := shaderlang.GLSLToHLSL(c.in)
		if got != c.want {
			t.Errorf("GLSLToHLSL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTypeName(t *testing.T) {
	if got := shaderlang.TypeName(shaderlang.HLSL, glslgen.Vec3); got != "float3" {
		t.Errorf("TypeName(HLSL, Vec3) = %q", got)
	}
	if got := shaderlang.TypeName(shaderlang.GLSL, glslgen.Vec3); got != "vec3" {
		t.Errorf("TypeName(GLSL, Vec3) = %q", got)
	}
	if got := shaderlang.TypeName(shaderlang.HLSL, glslgen.Scalar); got != "float" {
		t.Errorf("TypeName(HLSL, Scalar) = %q", got)
	}
}

func TestWrapHLSL(t *testing.T) {
	uniforms := []glslgen.Uniform{
		{Name: "speed", Kind: glslgen.Scalar},
		{Name: "tint", Kind: glslgen.Vec3},
	}
	body := "    float3 finalColor = tint;\n    float finalAlpha = 1.0;\n    FragColor = float4(finalColor, finalAlpha);\n"
	src := shaderlang.WrapHLSL(body, uniforms)
	for _, want := range []string{
		"cbuffer PerFrame : register(b0)",
		"float3 lightPos;",
		"cbuffer PerMaterial : register(b1)",
		"float speed;",
		"float3 tint;",
		"float4 PSMain(PSInput input) : SV_TARGET",
		"float3 FragPos = input.fragPos;",
		body,
		"return FragColor;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("\n%s\nwant %q in wrapped shader", src, want)
		}
	}
	if strings.Contains(shaderlang.WrapHLSL(body, nil), "PerMaterial") {
		t.Error("want no material buffer without uniforms")
	}
}

func TestFragmentToHLSL(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	tint, _ := g.AddNode(bld.VectorParam("tint", "Tint", ms3.Vec{X: 1}))
	if err := g.Connect(tint, "Vector", out, "Color"); err != nil {
		t.Fatal(err)
	}
	c := glslgen.NewCompiler()
	body := string(c.AppendShaderBody(nil, g))
	src := shaderlang.FragmentToHLSL(body, g.AppendUniforms(nil))
	if !strings.Contains(src, "float3 finalColor = tint;") {
		t.Errorf("\n%s\nwant body converted to HLSL types", src)
	}
	if !strings.Contains(src, "FragColor = float4(finalColor, finalAlpha);") {
		t.Errorf("\n%s\nwant final assignment converted", src)
	}
	if strings.Contains(src, "vec3") {
		t.Errorf("\n%s\nwant no GLSL type names remaining", src)
	}
}
