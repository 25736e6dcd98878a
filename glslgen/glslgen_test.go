package glslgen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"

	"github.com/shadeflow/shadeflow"
	"github.com/shadeflow/shadeflow/glslgen"
)

func compile(t *testing.T, c *glslgen.Compiler, g *glslgen.Graph) (string, []glslgen.Uniform) {
	t.Helper()
	source := new(bytes.Buffer)
	n, uniforms, err := c.WriteFragmentShader(source, g)
	if err != nil {
		t.Fatal(err)
	}
	if n != source.Len() {
		t.Fatal("written length mismatch", n, source.Len())
	}
	return source.String(), uniforms
}

func TestChainOrdering(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	tm, _ := g.AddNode(bld.Time())
	sn, _ := g.AddNode(bld.Sin())
	cs, _ := g.AddNode(bld.Cos())
	for _, err := range []error{
		g.Connect(tm, "Time", sn, "X"),
		g.Connect(sn, "Result", cs, "X"),
		g.Connect(cs, "Result", out, "Alpha"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	iSin := strings.Index(src, "float v0 = sin(time);")
	iCos := strings.Index(src, "float v1 = cos(v0);")
	if iSin < 0 || iCos < 0 || iCos < iSin {
		t.Errorf("\n%s\nwant sin temporary declared before its cos consumer", src)
	}
	if !strings.Contains(src, "float finalAlpha = v1;") {
		t.Errorf("\n%s\nwant final alpha read from the cos temporary", src)
	}
	if !strings.Contains(src, "vec3 finalColor = vec3(1.0, 0.5, 0.2);") {
		t.Errorf("\n%s\nwant unconnected color pin to use its default literal", src)
	}
}

func TestDeadNodeExcluded(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	live, _ := g.AddNode(bld.Color(1, 0.5, 0.25))
	dead, _ := g.AddNode(bld.Color(0.75, 0, 0))
	stranded, _ := g.AddNode(bld.Sin())
	if err := g.Connect(dead, "RGB", stranded, "X"); err == nil {
		t.Fatal("want kind mismatch error feeding vec3 into scalar pin")
	}
	if err := g.Connect(live, "RGB", out, "Color"); err != nil {
		t.Fatal(err)
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	if !strings.Contains(src, "vec3(1., 0.5, 0.25)") {
		t.Errorf("\n%s\nwant connected color literal present", src)
	}
	if strings.Contains(src, "0.75") || strings.Contains(src, "sin(") {
		t.Errorf("\n%s\nwant nodes not feeding the output excluded", src)
	}
}

func TestCompileIdempotent(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	tm, _ := g.AddNode(bld.Time())
	sn, _ := g.AddNode(bld.Sin())
	spd, _ := g.AddNode(bld.ScalarParam("speed", "Speed", 1))
	mul, _ := g.AddNode(bld.Multiply())
	for _, err := range []error{
		g.Connect(tm, "Time", mul, "A"),
		g.Connect(spd, "Value", mul, "B"),
		g.Connect(mul, "Result", sn, "X"),
		g.Connect(sn, "Result", out, "Alpha"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	c := glslgen.NewCompiler()
	first, _ := compile(t, c, g)
	second, _ := compile(t, c, g)
	if first != second {
		t.Errorf("recompiling an unchanged graph altered output:\n%s\nvs\n%s", first, second)
	}
}

func TestMissingOutputFallback(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	g.AddNode(bld.Time())
	g.AddNode(bld.Color(1, 0, 0))
	src, _ := compile(t, glslgen.NewCompiler(), g)
	want := "    FragColor = vec4(1.0, 0.0, 1.0, 1.0); // error: no output node\n"
	if !strings.Contains(src, want) {
		t.Errorf("\n%s\nwant magenta fallback assignment", src)
	}
	if strings.Contains(src, "v0") || strings.Contains(src, "finalColor") {
		t.Errorf("\n%s\nwant no statements besides the fallback", src)
	}
	if !strings.HasPrefix(src, glslgen.Prologue) {
		t.Errorf("\n%s\nwant prologue retained in fallback output", src)
	}
}

func TestCycleBrokenWithDiagnostic(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	m1, _ := g.AddNode(bld.Multiply())
	m2, _ := g.AddNode(bld.Multiply())
	for _, err := range []error{
		g.Connect(m1, "Result", m2, "A"),
		g.Connect(m2, "Result", m1, "A"),
		g.Connect(m2, "Result", out, "Color"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	c := glslgen.NewCompiler()
	src, _ := compile(t, c, g)
	if !strings.Contains(src, "(1.0 * 1.0)") {
		t.Errorf("\n%s\nwant broken cycle edge replaced by the pin default", src)
	}
	if !strings.Contains(src, "(v0 * 1.0)") {
		t.Errorf("\n%s\nwant acyclic remainder of the cycle still emitted", src)
	}
	diags := c.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("want exactly one cycle diagnostic, got %v", diags)
	}
	if diags[0].Node != m1 || diags[0].Pin != "A" {
		t.Errorf("diagnostic points at %d %q, want the back edge consumer %d \"A\"", diags[0].Node, diags[0].Pin, m1)
	}
	// Diagnostics do not persist across compiles of a repaired graph.
	if ok := g.Disconnect(m1, "A"); !ok {
		t.Fatal("disconnect reported no link")
	}
	compile(t, c, g)
	if len(c.Diagnostics()) != 0 {
		t.Errorf("want no diagnostics after breaking the cycle, got %v", c.Diagnostics())
	}
}

func TestPolymorphicMultiplyWidens(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	col, _ := g.AddNode(bld.Color(1, 0.5, 0.25))
	mul, _ := g.AddNode(bld.Multiply())
	for _, err := range []error{
		g.Connect(col, "RGB", mul, "A"),
		g.Connect(mul, "Result", out, "Color"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	if !strings.Contains(src, "vec3 v0 = (vec3(1., 0.5, 0.25) * 1.0);") {
		t.Errorf("\n%s\nwant multiply temporary widened to vec3", src)
	}
	if !strings.Contains(src, "vec3 finalColor = v0;") {
		t.Errorf("\n%s\nwant final color read from widened temporary", src)
	}
}

func TestFanOutMaterializesOnce(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	f, _ := g.AddNode(bld.Float(2))
	s1, _ := g.AddNode(bld.Sin())
	s2, _ := g.AddNode(bld.Sin())
	s3, _ := g.AddNode(bld.Sin())
	mx, _ := g.AddNode(bld.Mix())
	for _, err := range []error{
		g.Connect(f, "Value", s1, "X"),
		g.Connect(f, "Value", s2, "X"),
		g.Connect(f, "Value", s3, "X"),
		g.Connect(s1, "Result", mx, "A"),
		g.Connect(s2, "Result", mx, "B"),
		g.Connect(s3, "Result", mx, "T"),
		g.Connect(mx, "Result", out, "Alpha"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	if got := strings.Count(src, " = 2.;"); got != 1 {
		t.Errorf("\n%s\nwant constant materialized exactly once, got %d declarations", src, got)
	}
	if got := strings.Count(src, "sin(v0)"); got != 3 {
		t.Errorf("\n%s\nwant all three consumers reading the shared temporary, got %d", src, got)
	}
	if !strings.Contains(src, "mix(v1, v2, v3)") {
		t.Errorf("\n%s\nwant mix over the three sine temporaries", src)
	}
}

func TestSingleUseConstantInlined(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	f, _ := g.AddNode(bld.Float(0.5))
	sn, _ := g.AddNode(bld.Sin())
	for _, err := range []error{
		g.Connect(f, "Value", sn, "X"),
		g.Connect(sn, "Result", out, "Alpha"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	if !strings.Contains(src, "float v0 = sin(0.5);") {
		t.Errorf("\n%s\nwant single-use constant inlined into its consumer", src)
	}
	if strings.Contains(src, "= 0.5;") {
		t.Errorf("\n%s\nwant no temporary for the inlined constant", src)
	}
}

func TestUniformCollection(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	g.AddNode(bld.ScalarParam("speed", "Speed", 2))
	tint, _ := g.AddNode(bld.VectorParam("tint", "Tint color", ms3.Vec{X: 1, Y: 0.5, Z: 0.25}))
	if err := g.Connect(tint, "Vector", out, "Color"); err != nil {
		t.Fatal(err)
	}
	src, uniforms := compile(t, glslgen.NewCompiler(), g)
	if len(uniforms) != 2 {
		t.Fatalf("want both parameters collected wired or not, got %v", uniforms)
	}
	if uniforms[0].Name != "speed" || uniforms[1].Name != "tint" {
		t.Errorf("want uniforms in insertion order, got %v", uniforms)
	}
	if uniforms[0].Scalar() != 2 {
		t.Errorf("want scalar value 2, got %v", uniforms[0].Scalar())
	}
	if v := uniforms[1].Vec3(); v != (ms3.Vec{X: 1, Y: 0.5, Z: 0.25}) {
		t.Errorf("want vector value preserved, got %v", v)
	}
	if !strings.Contains(src, "uniform float speed;\nuniform vec3 tint;\n") {
		t.Errorf("\n%s\nwant uniform declarations after the prologue in insertion order", src)
	}
	if !strings.Contains(src, "vec3 finalColor = tint;") {
		t.Errorf("\n%s\nwant wired parameter referenced by identifier", src)
	}
	if strings.Contains(src, "= speed") {
		t.Errorf("\n%s\nwant unwired parameter declared but never read", src)
	}
}

func TestConnectReplacesExistingLink(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	a, _ := g.AddNode(bld.Color(1, 0, 0))
	b, _ := g.AddNode(bld.Color(0, 1, 0))
	if err := g.Connect(a, "RGB", out, "Color"); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(b, "RGB", out, "Color"); err != nil {
		t.Fatal(err)
	}
	if g.NumLinks() != 1 {
		t.Fatalf("want rewire to replace the pin's link, got %d links", g.NumLinks())
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	if !strings.Contains(src, "vec3 finalColor = vec3(0., 1., 0.);") {
		t.Errorf("\n%s\nwant replacement producer feeding the pin", src)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	out, _ := g.AddNode(bld.Output())
	tm, _ := g.AddNode(bld.Time())
	sn, _ := g.AddNode(bld.Sin())
	for _, err := range []error{
		g.Connect(tm, "Time", sn, "X"),
		g.Connect(sn, "Result", out, "Alpha"),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	if !g.DeleteNode(sn) {
		t.Fatal("delete reported missing node")
	}
	if g.NumLinks() != 0 {
		t.Fatalf("want links touching the deleted node removed, got %d", g.NumLinks())
	}
	if g.DeleteNode(sn) {
		t.Error("second delete of same node reported success")
	}
	src, _ := compile(t, glslgen.NewCompiler(), g)
	if !strings.Contains(src, "float finalAlpha = 1.0;") {
		t.Errorf("\n%s\nwant orphaned pin falling back to its default", src)
	}
	// Deleting the output node degrades compiles to the fallback color.
	g.DeleteNode(out)
	if g.Sink() != 0 {
		t.Error("want sink cleared after deleting the output node")
	}
	src, _ = compile(t, glslgen.NewCompiler(), g)
	if !strings.Contains(src, "// error: no output node") {
		t.Errorf("\n%s\nwant fallback after output node deletion", src)
	}
}

func TestSecondOutputRejected(t *testing.T) {
	var bld shadeflow.Builder
	g := glslgen.NewGraph()
	first, err := g.AddNode(bld.Output())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddNode(bld.Output()); err == nil {
		t.Fatal("want second output node rejected")
	}
	if g.Sink() != first {
		t.Error("sink changed by rejected insertion")
	}
	if _, err := g.AddNode(nil); err == nil {
		t.Fatal("want nil op rejected")
	}
}

func TestAppendFloat(t *testing.T) {
	cases := []struct {
		v    float32
		want string
	}{
		{1, "1."},
		{0, "0."},
		{0.5, "0.5"},
		{-2.25, "-2.25"},
		{100, "100."},
	}
	for _, c := range cases {
		got := string(glslgen.AppendFloat(nil, '-', '.', c.v))
		if got != c.want {
			t.Errorf("AppendFloat(%v) = %q, want %q", c.v, got, c.want)
		}
	}
	got := string(glslgen.AppendFloats(nil, ',', 'n', 'p', 1.5, -2))
	if got != "1p5,n2p" {
		t.Errorf("AppendFloats substitution = %q", got)
	}
}
