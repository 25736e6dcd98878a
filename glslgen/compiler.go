package glslgen

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Prologue is the fixed fragment shader header: interpolated inputs and
// built-in uniforms shared by every compiled graph. User uniforms are
// declared after it.
const Prologue = `#version 330 core
out vec4 FragColor;

in vec3 FragPos;
in vec3 Normal;

uniform float time;
uniform vec3 lightPos;
uniform vec3 viewPos;
uniform vec3 lightColor;
uniform vec3 objectColor;
`

// fallbackStmt replaces the whole main body when the graph has no output
// node. Magenta so the failure is visually unmistakable.
const fallbackStmt = "    FragColor = vec4(1.0, 0.0, 1.0, 1.0); // error: no output node\n"

// Diagnostic reports a non-fatal condition tolerated during compilation,
// such as a cyclic edge broken by the sequencer. Diagnostics never prevent
// output from being generated.
type Diagnostic struct {
	// Node and Pin identify the input pin whose link was dropped.
	Node NodeID
	Pin  string
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("node %d input %q: %s", d.Node, d.Pin, d.Msg)
}

type pinAddr struct {
	node NodeID
	pin  string
}

// Compiler generates fragment shader source from a Graph. It owns scratch
// buffers reused across compiles; a compile call is a pure function of the
// graph state at call time and leaves no cross-call residue in the output.
// Not safe for concurrent use.
type Compiler struct {
	scratch  []byte
	exprbuf  []byte
	order    []NodeID
	marks    map[NodeID]uint8
	seen     map[NodeID]struct{}
	fanout   map[NodeID]int
	exprs    map[pinAddr]string
	kinds    map[pinAddr]ValueKind
	args     []string
	argKinds []ValueKind
	ntemp    int
	diags    []Diagnostic
}

// NewCompiler returns a Compiler with preallocated scratch space.
func NewCompiler() *Compiler {
	return &Compiler{
		scratch: make([]byte, 0, 1024),
		exprbuf: make([]byte, 0, 256),
		marks:   make(map[NodeID]uint8),
		seen:    make(map[NodeID]struct{}),
		fanout:  make(map[NodeID]int),
		exprs:   make(map[pinAddr]string),
		kinds:   make(map[pinAddr]ValueKind),
	}
}

// Diagnostics returns the non-fatal diagnostics recorded by the most recent
// compile. The returned slice is invalidated by the next compile.
func (c *Compiler) Diagnostics() []Diagnostic { return c.diags }

func (c *Compiler) reset() {
	c.order = c.order[:0]
	clear(c.marks)
	clear(c.seen)
	clear(c.fanout)
	clear(c.exprs)
	clear(c.kinds)
	c.ntemp = 0
	c.diags = c.diags[:0]
}

// WriteFragmentShader compiles the graph and writes a complete fragment
// shader to w. It returns the bytes written and the graph's uniform
// parameter list in discovery order, wired or not. Compilation itself
// cannot fail: malformed graph states degrade to defaults or the fallback
// error color. The only error source is the writer.
func (c *Compiler) WriteFragmentShader(w io.Writer, g *Graph) (n int, uniforms []Uniform, err error) {
	if g == nil {
		return 0, nil, errors.New("nil graph")
	}
	c.reset()
	uniforms = g.AppendUniforms(nil)
	b := c.scratch[:0]
	b = append(b, Prologue...)
	for _, u := range uniforms {
		b = AppendUniformDecl(b, u)
	}
	b = append(b, "\nvoid main()\n{\n"...)
	b = c.appendMainBody(b, g)
	b = append(b, "}\n"...)
	c.scratch = b
	n, err = w.Write(b)
	return n, uniforms, err
}

// AppendShaderBody appends only the statement block and final assignment of
// the compiled graph, without prologue or uniform declarations.
func (c *Compiler) AppendShaderBody(dst []byte, g *Graph) []byte {
	c.reset()
	return c.appendMainBody(dst, g)
}

func (c *Compiler) appendMainBody(b []byte, g *Graph) []byte {
	sinkID := g.Sink()
	sinkNode := g.Node(sinkID)
	if sinkNode == nil {
		return append(b, fallbackStmt...)
	}
	c.collectReachable(g, sinkID)
	c.sequence(g, sinkID)
	c.countFanout(g)
	for _, id := range c.order {
		if id == sinkID {
			continue
		}
		b = c.appendNodeStatements(b, g, g.Node(id))
	}
	sink := sinkNode.op.(Sink)
	colorName, alphaName := sink.SinkPins()
	colorPin, _ := findPin(sinkNode.op.Inputs(), colorName)
	alphaPin, _ := findPin(sinkNode.op.Inputs(), alphaName)
	colorExpr, _ := c.resolvePin(g, sinkID, colorPin)
	alphaExpr, _ := c.resolvePin(g, sinkID, alphaPin)
	b = append(b, "    vec3 finalColor = "...)
	b = append(b, colorExpr...)
	b = append(b, ";\n    float finalAlpha = "...)
	b = append(b, alphaExpr...)
	b = append(b, ";\n    FragColor = vec4(finalColor, finalAlpha);\n"...)
	return b
}

// collectReachable marks every node that transitively feeds id through
// input-pin links. The seen set doubles as the diamond guard.
func (c *Compiler) collectReachable(g *Graph, id NodeID) {
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	n := g.Node(id)
	for _, in := range n.op.Inputs() {
		if l, ok := g.linkTo(id, in.Name); ok && g.Node(l.FromNode) != nil {
			c.collectReachable(g, l.FromNode)
		}
	}
}

const (
	markOnPath = 1
	markDone   = 2
)

// sequence appends id and its transitive producers to c.order in dependency
// order. An edge back onto the current DFS path signals a cycle: the edge is
// dropped, a diagnostic recorded, and the consumer's pin later falls back to
// its default literal. Nodes reachable only through such edges are excluded
// from the order entirely.
func (c *Compiler) sequence(g *Graph, id NodeID) {
	if c.marks[id] != 0 {
		return
	}
	c.marks[id] = markOnPath
	n := g.Node(id)
	for _, in := range n.op.Inputs() {
		l, ok := g.linkTo(id, in.Name)
		if !ok || g.Node(l.FromNode) == nil {
			continue
		}
		if c.marks[l.FromNode] == markOnPath {
			c.diags = append(c.diags, Diagnostic{Node: id, Pin: in.Name,
				Msg: "cyclic dependency broken; input falls back to default literal"})
			continue
		}
		c.sequence(g, l.FromNode)
	}
	c.marks[id] = markDone
	c.order = append(c.order, id)
}

// countFanout counts, per reachable node, how many reachable input pins
// resolve to it. Used only as the materialization heuristic.
func (c *Compiler) countFanout(g *Graph) {
	for _, n := range g.nodes {
		if _, ok := c.seen[n.id]; !ok {
			continue
		}
		for _, in := range n.op.Inputs() {
			if l, ok := g.linkTo(n.id, in.Name); ok {
				if _, ok := c.seen[l.FromNode]; ok {
					c.fanout[l.FromNode]++
				}
			}
		}
	}
}

// resolvePin returns the expression and kind registered for the producer of
// an input pin, or the pin's own default literal and declared kind when the
// pin is unconnected or its producer was dropped by cycle-breaking.
func (c *Compiler) resolvePin(g *Graph, id NodeID, pin Pin) (string, ValueKind) {
	if l, ok := g.linkTo(id, pin.Name); ok {
		addr := pinAddr{l.FromNode, l.FromPin}
		if e, ok := c.exprs[addr]; ok {
			return e, c.kinds[addr]
		}
	}
	return pin.Default, pin.Kind
}

// appendNodeStatements emits the node's output pins. A pure source or
// constant used at most once registers its raw expression with no statement;
// anything with inputs, or fanned out, materializes a typed temporary so the
// expression is evaluated once and shared.
func (c *Compiler) appendNodeStatements(b []byte, g *Graph, n *Node) []byte {
	ins := n.op.Inputs()
	c.args = c.args[:0]
	c.argKinds = c.argKinds[:0]
	for _, in := range ins {
		expr, kind := c.resolvePin(g, n.id, in)
		c.args = append(c.args, expr)
		c.argKinds = append(c.argKinds, kind)
	}
	inline := len(ins) == 0 && c.fanout[n.id] <= 1
	for _, out := range n.op.Outputs() {
		kind := n.op.OutputKind(out.Name, c.argKinds)
		c.exprbuf = n.op.AppendExpr(c.exprbuf[:0], out.Name, c.args)
		addr := pinAddr{n.id, out.Name}
		c.kinds[addr] = kind
		if inline {
			c.exprs[addr] = string(c.exprbuf)
			continue
		}
		name := "v" + strconv.Itoa(c.ntemp)
		c.ntemp++
		b = append(b, "    "...)
		b = append(b, kind.Glsl()...)
		b = append(b, ' ')
		b = append(b, name...)
		b = append(b, " = "...)
		b = append(b, c.exprbuf...)
		b = append(b, ';', '\n')
		c.exprs[addr] = name
	}
	return b
}
