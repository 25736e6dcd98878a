package shadeflow

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"github.com/shadeflow/shadeflow/glslgen"
)

// Time returns the source node exposing the built-in time uniform.
func (bld *Builder) Time() glslgen.Op { return timeOp{} }

type timeOp struct{}

func (timeOp) OpName() string          { return "time" }
func (timeOp) Inputs() []glslgen.Pin   { return nil }
func (timeOp) Outputs() []glslgen.Pin  { return []glslgen.Pin{{Name: "Time", Kind: glslgen.Scalar}} }
func (timeOp) AppendExpr(b []byte, out string, args []string) []byte { return append(b, "time"...) }
func (timeOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// Position returns the source node exposing the interpolated fragment
// position, whole or per component.
func (bld *Builder) Position() glslgen.Op { return positionOp{} }

type positionOp struct{}

func (positionOp) OpName() string        { return "position" }
func (positionOp) Inputs() []glslgen.Pin { return nil }
func (positionOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{
		{Name: "XYZ", Kind: glslgen.Vec3},
		{Name: "X", Kind: glslgen.Scalar},
		{Name: "Y", Kind: glslgen.Scalar},
		{Name: "Z", Kind: glslgen.Scalar},
	}
}

func (positionOp) AppendExpr(b []byte, out string, args []string) []byte {
	switch out {
	case "X":
		return append(b, "FragPos.x"...)
	case "Y":
		return append(b, "FragPos.y"...)
	case "Z":
		return append(b, "FragPos.z"...)
	}
	return append(b, "FragPos"...)
}

func (positionOp) OutputKind(out string, _ []glslgen.ValueKind) glslgen.ValueKind {
	if out == "XYZ" {
		return glslgen.Vec3
	}
	return glslgen.Scalar
}

// Normal returns the source node exposing the normalized surface normal.
func (bld *Builder) Normal() glslgen.Op { return normalOp{} }

type normalOp struct{}

func (normalOp) OpName() string        { return "normal" }
func (normalOp) Inputs() []glslgen.Pin { return nil }
func (normalOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Normal", Kind: glslgen.Vec3}}
}

func (normalOp) AppendExpr(b []byte, out string, args []string) []byte {
	return append(b, "normalize(Normal)"...)
}

func (normalOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Vec3
}

// Fresnel returns the view-angle falloff factor node. The exponent is the
// Power input pin; position and normal are taken from the ambient
// interpolated inputs rather than from pins.
func (bld *Builder) Fresnel() glslgen.Op { return fresnelOp{} }

type fresnelOp struct{}

func (fresnelOp) OpName() string { return "fresnel" }
func (fresnelOp) Inputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Power", Kind: glslgen.Scalar, Default: "2.0"}}
}

func (fresnelOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Factor", Kind: glslgen.Scalar}}
}

func (fresnelOp) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, "pow(1.0 - max(dot(normalize(Normal), normalize(viewPos - FragPos)), 0.0), "...)
	b = append(b, args[0]...)
	return append(b, ')')
}

func (fresnelOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// Float returns a scalar constant node.
func (bld *Builder) Float(v float32) glslgen.Op { return floatOp{v: v} }

type floatOp struct{ v float32 }

func (floatOp) OpName() string        { return "float" }
func (floatOp) Inputs() []glslgen.Pin { return nil }
func (floatOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Value", Kind: glslgen.Scalar}}
}

func (o floatOp) AppendExpr(b []byte, out string, args []string) []byte {
	return glslgen.AppendFloat(b, '-', '.', o.v)
}

func (floatOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// Color returns a vec3 color constant node. Components are clamped to the
// [0,1] range the host's color picker operates on.
func (bld *Builder) Color(r, g, b float32) glslgen.Op {
	return colorOp{c: ms3.Vec{X: clamp01(r), Y: clamp01(g), Z: clamp01(b)}}
}

type colorOp struct{ c ms3.Vec }

func (colorOp) OpName() string        { return "color" }
func (colorOp) Inputs() []glslgen.Pin { return nil }
func (colorOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "RGB", Kind: glslgen.Vec3}}
}

func (o colorOp) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, "vec3("...)
	b = glslgen.AppendFloat(b, '-', '.', o.c.X)
	b = append(b, ", "...)
	b = glslgen.AppendFloat(b, '-', '.', o.c.Y)
	b = append(b, ", "...)
	b = glslgen.AppendFloat(b, '-', '.', o.c.Z)
	return append(b, ')')
}

func (colorOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Vec3
}

// binOp covers the four basic arithmetic operators. Multiply is the single
// polymorphic variant: its pins accept any kind and its output kind widens
// to the widest immediate producer, enabling scalar-times-vector graphs.
type binOp struct {
	name string
	sym  string
	def  string
	poly bool
}

// Add returns the A + B node.
func (bld *Builder) Add() glslgen.Op { return binOp{name: "add", sym: " + ", def: "0.0"} }

// Subtract returns the A - B node.
func (bld *Builder) Subtract() glslgen.Op { return binOp{name: "subtract", sym: " - ", def: "0.0"} }

// Multiply returns the polymorphic A * B node.
func (bld *Builder) Multiply() glslgen.Op {
	return binOp{name: "multiply", sym: " * ", def: "1.0", poly: true}
}

// Divide returns the A / B node. Division by zero is textual pass-through,
// deferred to the GL runtime's floating point semantics.
func (bld *Builder) Divide() glslgen.Op { return binOp{name: "divide", sym: " / ", def: "1.0"} }

func (o binOp) OpName() string { return o.name }

func (o binOp) Inputs() []glslgen.Pin {
	return []glslgen.Pin{
		{Name: "A", Kind: glslgen.Scalar, Default: o.def, AnyKind: o.poly},
		{Name: "B", Kind: glslgen.Scalar, Default: o.def, AnyKind: o.poly},
	}
}

func (o binOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Result", Kind: glslgen.Scalar, AnyKind: o.poly}}
}

func (o binOp) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, '(')
	b = append(b, args[0]...)
	b = append(b, o.sym...)
	b = append(b, args[1]...)
	return append(b, ')')
}

func (o binOp) OutputKind(out string, inKinds []glslgen.ValueKind) glslgen.ValueKind {
	if !o.poly {
		return glslgen.Scalar
	}
	kind := glslgen.Scalar
	for _, k := range inKinds {
		kind = kind.Widest(k)
	}
	return kind
}

type unaryOp struct {
	name string
	fn   string
}

// Sin returns the sin(X) node.
func (bld *Builder) Sin() glslgen.Op { return unaryOp{name: "sin", fn: "sin"} }

// Cos returns the cos(X) node.
func (bld *Builder) Cos() glslgen.Op { return unaryOp{name: "cos", fn: "cos"} }

// Abs returns the abs(X) node.
func (bld *Builder) Abs() glslgen.Op { return unaryOp{name: "abs", fn: "abs"} }

func (o unaryOp) OpName() string { return o.name }

func (o unaryOp) Inputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "X", Kind: glslgen.Scalar, Default: "0.0"}}
}

func (o unaryOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Result", Kind: glslgen.Scalar}}
}

func (o unaryOp) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, o.fn...)
	b = append(b, '(')
	b = append(b, args[0]...)
	return append(b, ')')
}

func (unaryOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// Mix returns the linear interpolation node mix(A, B, T).
func (bld *Builder) Mix() glslgen.Op { return mixOp{} }

type mixOp struct{}

func (mixOp) OpName() string { return "mix" }

func (mixOp) Inputs() []glslgen.Pin {
	return []glslgen.Pin{
		{Name: "A", Kind: glslgen.Scalar, Default: "0.0"},
		{Name: "B", Kind: glslgen.Scalar, Default: "1.0"},
		{Name: "T", Kind: glslgen.Scalar, Default: "0.5"},
	}
}

func (mixOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Result", Kind: glslgen.Scalar}}
}

func (mixOp) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, "mix("...)
	b = append(b, args[0]...)
	b = append(b, ", "...)
	b = append(b, args[1]...)
	b = append(b, ", "...)
	b = append(b, args[2]...)
	return append(b, ')')
}

func (mixOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// Clamp returns the clamp node. Bounds are node configuration, not pins;
// a min greater than max is swapped into a usable range.
func (bld *Builder) Clamp(min, max float32) glslgen.Op {
	if min > max {
		bld.cfgErrorf("clamp min %g greater than max %g", min, max)
		min, max = math32.Min(min, max), math32.Max(min, max)
	}
	return clampOp{min: min, max: max}
}

type clampOp struct{ min, max float32 }

func (clampOp) OpName() string { return "clamp" }

func (clampOp) Inputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "X", Kind: glslgen.Scalar, Default: "0.0"}}
}

func (clampOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Result", Kind: glslgen.Scalar}}
}

func (o clampOp) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, "clamp("...)
	b = append(b, args[0]...)
	b = append(b, ", "...)
	b = glslgen.AppendFloat(b, '-', '.', o.min)
	b = append(b, ", "...)
	b = glslgen.AppendFloat(b, '-', '.', o.max)
	return append(b, ')')
}

func (clampOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// MakeVec3 returns the node composing a vec3 from three scalar inputs.
func (bld *Builder) MakeVec3() glslgen.Op { return makeVec3Op{} }

type makeVec3Op struct{}

func (makeVec3Op) OpName() string { return "makevec3" }

func (makeVec3Op) Inputs() []glslgen.Pin {
	return []glslgen.Pin{
		{Name: "X", Kind: glslgen.Scalar, Default: "0.0"},
		{Name: "Y", Kind: glslgen.Scalar, Default: "0.0"},
		{Name: "Z", Kind: glslgen.Scalar, Default: "0.0"},
	}
}

func (makeVec3Op) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Vec3", Kind: glslgen.Vec3}}
}

func (makeVec3Op) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, "vec3("...)
	b = append(b, args[0]...)
	b = append(b, ", "...)
	b = append(b, args[1]...)
	b = append(b, ", "...)
	b = append(b, args[2]...)
	return append(b, ')')
}

func (makeVec3Op) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Vec3
}

// SplitVec3 returns the node decomposing a vec3 input into scalar components.
func (bld *Builder) SplitVec3() glslgen.Op { return splitVec3Op{} }

type splitVec3Op struct{}

func (splitVec3Op) OpName() string { return "splitvec3" }

func (splitVec3Op) Inputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Vec3", Kind: glslgen.Vec3, Default: "vec3(0.0)"}}
}

func (splitVec3Op) Outputs() []glslgen.Pin {
	return []glslgen.Pin{
		{Name: "X", Kind: glslgen.Scalar},
		{Name: "Y", Kind: glslgen.Scalar},
		{Name: "Z", Kind: glslgen.Scalar},
	}
}

func (splitVec3Op) AppendExpr(b []byte, out string, args []string) []byte {
	b = append(b, '(')
	b = append(b, args[0]...)
	b = append(b, ')', '.')
	switch out {
	case "Y":
		return append(b, 'y')
	case "Z":
		return append(b, 'z')
	}
	return append(b, 'x')
}

func (splitVec3Op) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

// ScalarParam returns a user parameter node bound as a float uniform. The
// parameter reserves its uniform slot even while unwired. name must be a
// valid GLSL identifier; label defaults to name when empty.
func (bld *Builder) ScalarParam(name, label string, value float32) glslgen.Op {
	if !validIdent(name) {
		bld.cfgErrorf("parameter name %q is not a valid GLSL identifier", name)
	}
	if label == "" {
		label = name
	}
	return scalarParamOp{name: name, label: label, v: value}
}

type scalarParamOp struct {
	name  string
	label string
	v     float32
}

func (scalarParamOp) OpName() string        { return "param" }
func (scalarParamOp) Inputs() []glslgen.Pin { return nil }
func (scalarParamOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Value", Kind: glslgen.Scalar}}
}

func (o scalarParamOp) AppendExpr(b []byte, out string, args []string) []byte {
	return append(b, o.name...)
}

func (scalarParamOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

func (o scalarParamOp) Uniform() glslgen.Uniform {
	return glslgen.Uniform{Name: o.name, Label: o.label, Kind: glslgen.Scalar, Value: [4]float32{o.v}}
}

// VectorParam returns a user parameter node bound as a vec3 uniform.
func (bld *Builder) VectorParam(name, label string, value ms3.Vec) glslgen.Op {
	if !validIdent(name) {
		bld.cfgErrorf("parameter name %q is not a valid GLSL identifier", name)
	}
	if label == "" {
		label = name
	}
	return vectorParamOp{name: name, label: label, v: value}
}

type vectorParamOp struct {
	name  string
	label string
	v     ms3.Vec
}

func (vectorParamOp) OpName() string        { return "vecparam" }
func (vectorParamOp) Inputs() []glslgen.Pin { return nil }
func (vectorParamOp) Outputs() []glslgen.Pin {
	return []glslgen.Pin{{Name: "Vector", Kind: glslgen.Vec3}}
}

func (o vectorParamOp) AppendExpr(b []byte, out string, args []string) []byte {
	return append(b, o.name...)
}

func (vectorParamOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Vec3
}

func (o vectorParamOp) Uniform() glslgen.Uniform {
	return glslgen.Uniform{Name: o.name, Label: o.label, Kind: glslgen.Vec3,
		Value: [4]float32{o.v.X, o.v.Y, o.v.Z}}
}

// Output returns the sink node. A graph compiles without one, degrading to
// the fallback error color, but holds at most one.
func (bld *Builder) Output() glslgen.Op { return outputOp{} }

type outputOp struct{}

func (outputOp) OpName() string { return "output" }

func (outputOp) Inputs() []glslgen.Pin {
	return []glslgen.Pin{
		{Name: "Color", Kind: glslgen.Vec3, Default: "vec3(1.0, 0.5, 0.2)"},
		{Name: "Alpha", Kind: glslgen.Scalar, Default: "1.0"},
	}
}

func (outputOp) Outputs() []glslgen.Pin { return nil }

func (outputOp) AppendExpr(b []byte, out string, args []string) []byte { return b }

func (outputOp) OutputKind(string, []glslgen.ValueKind) glslgen.ValueKind {
	return glslgen.Scalar
}

func (outputOp) SinkPins() (colorPin, alphaPin string) { return "Color", "Alpha" }
