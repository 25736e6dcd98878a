// Package glslrun compiles and links shader text produced by the glslgen
// compiler against a live OpenGL context and binds the declared uniforms.
// It is the rendering-side collaborator of the graph compiler: backend
// compile or link failures are reported back as errors carrying the
// offending source so the host can display them. Requires cgo.
package glslrun

// DefaultVertexShader transforms the lit cube geometry and feeds the
// FragPos and Normal interpolated inputs every compiled fragment shader
// declares.
const DefaultVertexShader = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

out vec3 FragPos;
out vec3 Normal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

void main()
{
    FragPos = vec3(model * vec4(aPos, 1.0));
    Normal = mat3(transpose(inverse(model))) * aNormal;
    gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`
