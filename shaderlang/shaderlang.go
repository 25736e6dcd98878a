// Package shaderlang converts shader source text between the GLSL and HLSL
// dialects by keyword and function substitution. The conversion is
// superficial pattern replacement, a convenience for hosts targeting both
// backends; it performs no parsing or type checking.
package shaderlang

import (
	"regexp"
	"strings"

	"github.com/shadeflow/shadeflow/glslgen"
)

// Language selects a shader dialect.
type Language uint8

const (
	GLSL Language = iota // OpenGL 3.3+
	HLSL                 // DirectX 11/12, shader model 5.0
)

func (l Language) String() string {
	if l == HLSL {
		return "HLSL"
	}
	return "GLSL"
}

// TypeName returns the dialect's name for a value kind.
func TypeName(lang Language, k glslgen.ValueKind) string {
	if lang != HLSL {
		return k.Glsl()
	}
	switch k {
	case glslgen.Vec2:
		return "float2"
	case glslgen.Vec3:
		return "float3"
	case glslgen.Vec4:
		return "float4"
	}
	return "float"
}

type rewrite struct {
	re *regexp.Regexp
	to string
}

func compileWordRewrites(pairs [][2]string) []rewrite {
	rw := make([]rewrite, len(pairs))
	for i, p := range pairs {
		rw[i] = rewrite{re: regexp.MustCompile(`\b` + p[0] + `\b`), to: p[1]}
	}
	return rw
}

// Longer names first so float4x4 is not mangled by the float4 rule.
var hlslToGLSLTypes = compileWordRewrites([][2]string{
	{"float4x4", "mat4"}, {"float3x3", "mat3"}, {"float2x2", "mat2"},
	{"float4", "vec4"}, {"float3", "vec3"}, {"float2", "vec2"},
	{"half4", "vec4"}, {"half3", "vec3"}, {"half2", "vec2"}, {"half", "float"},
	{"int4", "ivec4"}, {"int3", "ivec3"}, {"int2", "ivec2"},
	{"uint4", "uvec4"}, {"uint3", "uvec3"}, {"uint2", "uvec2"},
	{"bool4", "bvec4"}, {"bool3", "bvec3"}, {"bool2", "bvec2"},
})

var hlslToGLSLFuncs = compileWordRewrites([][2]string{
	{"lerp", "mix"}, {"frac", "fract"},
	{"ddx_coarse", "dFdx"}, {"ddy_coarse", "dFdy"},
	{"ddx_fine", "dFdx"}, {"ddy_fine", "dFdy"},
	{"ddx", "dFdx"}, {"ddy", "dFdy"},
	{"atan2", "atan"}, {"rsqrt", "inversesqrt"}, {"fmod", "mod"},
	{"clip", "discard"},
})

var glslToHLSLTypes = compileWordRewrites([][2]string{
	{"mat4", "float4x4"}, {"mat3", "float3x3"}, {"mat2", "float2x2"},
	{"vec4", "float4"}, {"vec3", "float3"}, {"vec2", "float2"},
	{"ivec4", "int4"}, {"ivec3", "int3"}, {"ivec2", "int2"},
	{"uvec4", "uint4"}, {"uvec3", "uint3"}, {"uvec2", "uint2"},
	{"bvec4", "bool4"}, {"bvec3", "bool3"}, {"bvec2", "bool2"},
})

var glslToHLSLFuncs = compileWordRewrites([][2]string{
	{"mix", "lerp"}, {"fract", "frac"},
	{"dFdx", "ddx"}, {"dFdy", "ddy"},
	{"inversesqrt", "rsqrt"}, {"mod", "fmod"},
})

var (
	saturateRE = regexp.MustCompile(`saturate\s*\(\s*([^)]+?)\s*\)`)
	// HLSL semantics such as : SV_Target or : TEXCOORD0 have no GLSL form.
	semanticRE = regexp.MustCompile(`\s*:\s*(SV_\w+|POSITION\d*|TEXCOORD\d*|NORMAL\d*|COLOR\d*|TANGENT\d*|BINORMAL\d*)`)
	tex2DRE    = regexp.MustCompile(`tex2D\s*\(`)
)

func applyRewrites(src string, rw []rewrite) string {
	for _, r := range rw {
		src = r.re.ReplaceAllString(src, r.to)
	}
	return src
}

// HLSLToGLSL rewrites HLSL source into GLSL: type and function names,
// saturate into an explicit clamp, semantic annotations stripped and
// legacy texture sampling renamed.
func HLSLToGLSL(src string) string {
	src = applyRewrites(src, hlslToGLSLTypes)
	src = applyRewrites(src, hlslToGLSLFuncs)
	src = saturateRE.ReplaceAllString(src, "clamp($1, 0.0, 1.0)")
	src = semanticRE.ReplaceAllString(src, "")
	src = tex2DRE.ReplaceAllString(src, "texture(")
	return src
}

// GLSLToHLSL rewrites GLSL source into HLSL type and function names.
// Swizzles need no conversion; the syntax is shared.
func GLSLToHLSL(src string) string {
	src = applyRewrites(src, glslToHLSLTypes)
	src = applyRewrites(src, glslToHLSLFuncs)
	return src
}

// WrapHLSL wraps an HLSL statement body into a complete shader model 5.0
// pixel shader: per-frame constant buffer with the built-in uniforms, a
// per-material buffer for the user uniforms, and a PSMain reading the
// interpolated position and normal the body refers to.
func WrapHLSL(hlslBody string, uniforms []glslgen.Uniform) string {
	var sb strings.Builder
	sb.WriteString("// Generated HLSL shader, shader model 5.0.\n\n")
	sb.WriteString("cbuffer PerFrame : register(b0)\n{\n")
	sb.WriteString("    float time;\n")
	sb.WriteString("    float3 lightPos;\n")
	sb.WriteString("    float3 viewPos;\n")
	sb.WriteString("    float3 lightColor;\n")
	sb.WriteString("    float3 objectColor;\n")
	sb.WriteString("};\n\n")
	if len(uniforms) > 0 {
		sb.WriteString("cbuffer PerMaterial : register(b1)\n{\n")
		for _, u := range uniforms {
			sb.WriteString("    ")
			sb.WriteString(TypeName(HLSL, u.Kind))
			sb.WriteByte(' ')
			sb.WriteString(u.Name)
			sb.WriteString(";\n")
		}
		sb.WriteString("};\n\n")
	}
	sb.WriteString("struct PSInput\n{\n")
	sb.WriteString("    float4 position : SV_POSITION;\n")
	sb.WriteString("    float3 fragPos : TEXCOORD0;\n")
	sb.WriteString("    float3 normal : NORMAL;\n")
	sb.WriteString("};\n\n")
	sb.WriteString("float4 PSMain(PSInput input) : SV_TARGET\n{\n")
	sb.WriteString("    float3 FragPos = input.fragPos;\n")
	sb.WriteString("    float3 Normal = input.normal;\n")
	sb.WriteString("    float4 FragColor;\n\n")
	sb.WriteString(hlslBody)
	sb.WriteString("    return FragColor;\n}\n")
	return sb.String()
}

// FragmentToHLSL converts a GLSL fragment shader body produced by
// [glslgen.Compiler.AppendShaderBody] into a complete HLSL pixel shader.
func FragmentToHLSL(glslBody string, uniforms []glslgen.Uniform) string {
	return WrapHLSL(GLSLToHLSL(glslBody), uniforms)
}
