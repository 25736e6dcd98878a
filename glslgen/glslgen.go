// Package glslgen converts a dataflow graph of typed nodes into the body
// of a GLSL fragment shader. The graph is owned and mutated by the host;
// the compiler in this package takes a read-only view of it per call and
// always produces syntactically complete output, however malformed the
// graph (cycles, missing output node, disconnected islands).
package glslgen

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/soypat/geometry/ms3"
)

// ValueKind is the GLSL value category carried by a pin.
type ValueKind uint8

const (
	Scalar ValueKind = iota
	Vec2
	Vec3
	Vec4
)

// Glsl returns the GLSL type name of the kind.
func (k ValueKind) Glsl() string {
	switch k {
	case Scalar:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	}
	return "float"
}

// Components returns the number of scalar components of the kind.
func (k ValueKind) Components() int {
	switch k {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	}
	return 1
}

func (k ValueKind) String() string { return k.Glsl() }

// Widest returns the wider of two kinds. Vector kinds always win over Scalar.
func (k ValueKind) Widest(other ValueKind) ValueKind {
	if other > k {
		return other
	}
	return k
}

// Pin describes one input or output of a node variant.
type Pin struct {
	// Name is unique within its node and direction.
	Name string
	// Kind is the declared value kind. For any-kind pins it is the kind
	// assumed when the pin is left unconnected.
	Kind ValueKind
	// Default is the literal expression used for an input pin with no
	// connected producer, or whose producer was dropped by cycle-breaking.
	// Unused on output pins.
	Default string
	// AnyKind relaxes connection compatibility: an any-kind input accepts a
	// producer of any kind and an any-kind output may feed any input. Used
	// by the polymorphic arithmetic operator; its real output kind is
	// resolved during compilation via OutputKind.
	AnyKind bool
}

// Op describes a node variant: its pins, its value-kind resolution and how
// it emits a GLSL expression. Implementations live in the root shadeflow
// package; the set of variants is closed.
type Op interface {
	// OpName is a short lowercase identifier for diagnostics.
	OpName() string
	// Inputs returns the ordered input pins of the variant.
	Inputs() []Pin
	// Outputs returns the ordered output pins of the variant.
	Outputs() []Pin
	// AppendExpr appends the GLSL expression for the named output pin.
	// args holds one resolved expression per input pin, in Inputs() order.
	AppendExpr(b []byte, outPin string, args []string) []byte
	// OutputKind resolves the value kind of the named output pin. inKinds
	// holds the resolved kind of each input's immediate producer (or the
	// input pin's own declared kind when unconnected), in Inputs() order.
	// This is a one-hop probe: kind information flows through chains
	// because every node re-derives its own kind in topological order.
	OutputKind(outPin string, inKinds []ValueKind) ValueKind
}

// Sink marks the single Op variant whose resolved inputs become the final
// fragment color and alpha. A graph holds at most one sink node.
type Sink interface {
	Op
	// SinkPins names the color (vec3) and alpha (float) input pins.
	SinkPins() (colorPin, alphaPin string)
}

// Uniformer is implemented by parameter node variants. Parameters reserve a
// uniform binding slot whether or not they are wired to the sink.
type Uniformer interface {
	Op
	Uniform() Uniform
}

// Uniform is a user-exposed shader parameter extracted from the graph.
type Uniform struct {
	// Name is the GLSL identifier of the uniform.
	Name string
	// Label is the host-facing display label.
	Label string
	Kind  ValueKind
	// Value holds the current value; the first Kind.Components() elements
	// are meaningful.
	Value [4]float32
}

// Scalar returns the uniform value as a single float.
func (u Uniform) Scalar() float32 { return u.Value[0] }

// Vec3 returns the uniform value as a 3-vector.
func (u Uniform) Vec3() ms3.Vec {
	return ms3.Vec{X: u.Value[0], Y: u.Value[1], Z: u.Value[2]}
}

// NodeID identifies a node within one Graph. IDs are stable for the node's
// lifetime and never reused.
type NodeID int

// Node pairs an id with its variant. Nodes are created via Graph.AddNode.
type Node struct {
	id NodeID
	op Op
}

func (n *Node) ID() NodeID { return n.id }
func (n *Node) Op() Op     { return n.op }

// Link is a directed edge from an output pin to an input pin. An input pin
// holds at most one incoming link; an output pin may fan out freely.
type Link struct {
	FromNode NodeID
	FromPin  string
	ToNode   NodeID
	ToPin    string
}

// Graph is an arena of nodes indexed by id plus a flat collection of links.
// It is not safe for concurrent use; the host must not mutate it while a
// compile call is in flight.
type Graph struct {
	nodes  []*Node // Insertion order. Traversals canonicalize on this.
	index  map[NodeID]*Node
	links  []Link
	nextID NodeID
	sink   NodeID // 0 means no output node present.
}

// NewGraph returns an empty graph with no designated output node.
func NewGraph() *Graph {
	return &Graph{
		index:  make(map[NodeID]*Node),
		nextID: 1,
	}
}

// AddNode inserts a node of the given variant and returns its id. Adding a
// second Sink variant is rejected; the output node is singular.
func (g *Graph) AddNode(op Op) (NodeID, error) {
	if op == nil {
		return 0, errors.New("nil op")
	}
	if _, isSink := op.(Sink); isSink && g.sink != 0 {
		return 0, errors.New("graph already has an output node")
	}
	id := g.nextID
	g.nextID++
	n := &Node{id: id, op: op}
	g.nodes = append(g.nodes, n)
	g.index[id] = n
	if _, isSink := op.(Sink); isSink {
		g.sink = id
	}
	return id, nil
}

// Node returns the node with the given id, or nil if absent.
func (g *Graph) Node(id NodeID) *Node { return g.index[id] }

// Sink returns the id of the output node, or 0 when the graph has none.
func (g *Graph) Sink() NodeID { return g.sink }

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumLinks returns the number of live links.
func (g *Graph) NumLinks() int { return len(g.links) }

func findPin(pins []Pin, name string) (Pin, int) {
	for i, p := range pins {
		if p.Name == name {
			return p, i
		}
	}
	return Pin{}, -1
}

// Connect creates a link from an output pin to an input pin. A link already
// occupying the input pin is atomically replaced. Kinds must match unless
// either pin is any-kind. Cycles are permitted; the compiler breaks them.
func (g *Graph) Connect(from NodeID, fromPin string, to NodeID, toPin string) error {
	src := g.index[from]
	dst := g.index[to]
	if src == nil {
		return fmt.Errorf("connect: no node %d", from)
	} else if dst == nil {
		return fmt.Errorf("connect: no node %d", to)
	}
	out, i := findPin(src.op.Outputs(), fromPin)
	if i < 0 {
		return fmt.Errorf("connect: %s has no output pin %q", src.op.OpName(), fromPin)
	}
	in, i := findPin(dst.op.Inputs(), toPin)
	if i < 0 {
		return fmt.Errorf("connect: %s has no input pin %q", dst.op.OpName(), toPin)
	}
	if !in.AnyKind && !out.AnyKind && in.Kind != out.Kind {
		return fmt.Errorf("connect: cannot feed %s output %q (%s) into %s input %q (%s)",
			src.op.OpName(), fromPin, out.Kind, dst.op.OpName(), toPin, in.Kind)
	}
	l := Link{FromNode: from, FromPin: fromPin, ToNode: to, ToPin: toPin}
	for i := range g.links {
		if g.links[i].ToNode == to && g.links[i].ToPin == toPin {
			g.links[i] = l // Replace existing link on the input pin.
			return nil
		}
	}
	g.links = append(g.links, l)
	return nil
}

// Disconnect removes the link feeding the given input pin, reporting whether
// one was removed. The pin falls back to its default literal on compile.
func (g *Graph) Disconnect(to NodeID, toPin string) bool {
	for i := range g.links {
		if g.links[i].ToNode == to && g.links[i].ToPin == toPin {
			g.links = append(g.links[:i], g.links[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteNode removes a node and invalidates every link touching it,
// reporting whether the node existed. Deleting the output node leaves the
// graph sinkless; compiles then emit the fallback error color.
func (g *Graph) DeleteNode(id NodeID) bool {
	n := g.index[id]
	if n == nil {
		return false
	}
	delete(g.index, id)
	for i, other := range g.nodes {
		if other == n {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	kept := g.links[:0]
	for _, l := range g.links {
		if l.FromNode != id && l.ToNode != id {
			kept = append(kept, l)
		}
	}
	g.links = kept
	if g.sink == id {
		g.sink = 0
	}
	return true
}

// linkTo returns the link feeding the input pin, if any.
func (g *Graph) linkTo(to NodeID, toPin string) (Link, bool) {
	for _, l := range g.links {
		if l.ToNode == to && l.ToPin == toPin {
			return l, true
		}
	}
	return Link{}, false
}

// AppendUniforms scans every node of the graph, wired or not, and appends
// the uniform declared by each parameter variant in insertion order.
func (g *Graph) AppendUniforms(dst []Uniform) []Uniform {
	for _, n := range g.nodes {
		if u, ok := n.op.(Uniformer); ok {
			dst = append(dst, u.Uniform())
		}
	}
	return dst
}

// AppendUniformDecl appends a GLSL uniform declaration for u.
//
//	uniform vec3 tint;
func AppendUniformDecl(dst []byte, u Uniform) []byte {
	dst = append(dst, "uniform "...)
	dst = append(dst, u.Kind.Glsl()...)
	dst = append(dst, ' ')
	dst = append(dst, u.Name...)
	dst = append(dst, ';', '\n')
	return dst
}

const decimalDigits = 9

// AppendFloat appends a float32 GLSL literal to b with trailing zeroes
// removed. neg and decimal substitute the '-' and '.' bytes for callers
// embedding literals in identifiers.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

// AppendFloats appends several float32 literals separated by sep.
func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}
