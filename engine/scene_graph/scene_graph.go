package scene_graph

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidHandle is returned when a Node does not refer to a live node of the graph.
	ErrInvalidHandle = errors.New("scene_graph: invalid node handle")
	// ErrCycle is returned when an AddChild would make a node its own ancestor.
	ErrCycle = errors.New("scene_graph: node cannot become its own ancestor")
	// ErrRootNode is returned when the root is used as a child or removed.
	ErrRootNode = errors.New("scene_graph: root node cannot be re-parented or removed")
)

// Drawable is anything that can be placed in the graph.
// Draw is expected to bind its own GPU state and issue its geometry.
type Drawable interface {
	// ModelMatrix returns the object's local transform.
	ModelMatrix() mgl32.Mat4
	// SetWorldMatrix receives the object's world transform before each Draw.
	SetWorldMatrix(m mgl32.Mat4)
	// Draw issues the object's draw commands.
	Draw()
}

// Node is a stable handle to a node of a Graph. The zero value is Nil.
// A handle becomes stale once its node is removed, even if the slot is reused.
type Node struct {
	index      uint32
	generation uint32
}

// Nil is the handle of no node.
var Nil Node

// IsNil reports whether n is the Nil handle.
func (n Node) IsNil() bool {
	return n.generation == 0
}

func (n Node) String() string {
	if n.IsNil() {
		return "Node(nil)"
	}
	return fmt.Sprintf("Node(%d#%d)", n.index, n.generation)
}

const noParent = -1

type slot struct {
	generation uint32
	alive      bool
	object     Drawable
	parent     int32
	children   []uint32
}

// graphImpl is the implementation of the Graph interface.
type graphImpl struct {
	slots   []slot
	free    []uint32
	live    int
	release func(Drawable)
}

// Graph is an arena of nodes forming a tree under a single root.
//
// Nodes are referenced by generation-checked handles; parent links are slot indices into the
// same arena, so the graph holds no pointer cycles. The root has no drawable and an identity
// world matrix. Nodes created with Insert stay detached (and are not drawn) until attached with AddChild.
type Graph interface {
	// Root returns the root node.
	//
	// Returns:
	//   - Node: the root handle
	Root() Node

	// Insert creates a detached node holding obj.
	//
	// Parameters:
	//   - obj: the drawable, may be nil for a pure grouping node
	//
	// Returns:
	//   - Node: the new node
	Insert(obj Drawable) Node

	// AddChild attaches child as the last child of parent. If child already has a parent it is
	// detached from it first, so a node never appears in two child lists.
	//
	// Parameters:
	//   - parent: the new parent
	//   - child: the node to attach
	//
	// Returns:
	//   - error: ErrInvalidHandle, ErrRootNode or ErrCycle
	AddChild(parent, child Node) error

	// RemoveChild detaches child from parent. It is a no-op if child is not a child of parent.
	//
	// Parameters:
	//   - parent: the parent node
	//   - child: the node to detach
	//
	// Returns:
	//   - error: ErrInvalidHandle if either handle is stale
	RemoveChild(parent, child Node) error

	// Remove detaches node and frees it together with its whole subtree. The release hook, if
	// configured, runs for each freed drawable.
	//
	// Parameters:
	//   - node: the subtree root to remove
	//
	// Returns:
	//   - []Drawable: the non-nil drawables that were freed, in pre-order
	//   - error: ErrInvalidHandle or ErrRootNode
	Remove(node Node) ([]Drawable, error)

	// Parent returns the parent of node.
	//
	// Parameters:
	//   - node: the node to query
	//
	// Returns:
	//   - Node: the parent handle, Nil for the root, detached nodes and stale handles
	Parent(node Node) Node

	// Children returns a copy of node's children in insertion order.
	//
	// Parameters:
	//   - node: the node to query
	//
	// Returns:
	//   - []Node: the children, nil for stale handles
	Children(node Node) []Node

	// Object returns the drawable held by node, nil for stale handles and grouping nodes.
	Object(node Node) Drawable

	// Find returns the node holding obj.
	//
	// Parameters:
	//   - obj: the drawable to look up
	//
	// Returns:
	//   - Node: the holding node
	//   - bool: false if obj is not in the graph
	Find(obj Drawable) (Node, bool)

	// Valid reports whether node refers to a live node.
	Valid(node Node) bool

	// Len returns the number of live nodes, root included.
	Len() int

	// Walk visits every node reachable from the root in pre-order, children in insertion order.
	//
	// Parameters:
	//   - fn: called with each node and its drawable (nil for grouping nodes and the root)
	Walk(fn func(node Node, obj Drawable))

	// WorldMatrix composes the world matrix of node as WorldMatrix(parent) · ModelMatrix().
	// The root, detached nodes, nodes without a drawable and stale handles yield identity.
	//
	// Parameters:
	//   - node: the node to evaluate
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix(node Node) mgl32.Mat4

	// Draw traverses the tree from the root. Each node's world matrix is pushed into its drawable
	// before its Draw is called, then its children are drawn in insertion order.
	Draw()
}

var _ Graph = &graphImpl{}

// NewGraph creates a graph containing only the root node.
//
// Parameters:
//   - options: functional options to configure the graph
//
// Returns:
//   - Graph: the new graph
func NewGraph(options ...GraphBuilderOption) Graph {
	g := &graphImpl{
		slots: []slot{{generation: 1, alive: true, parent: noParent}},
		live:  1,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *graphImpl) Root() Node {
	return Node{index: 0, generation: g.slots[0].generation}
}

func (g *graphImpl) Insert(obj Drawable) Node {
	var idx uint32
	if n := len(g.free); n > 0 {
		idx = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		idx = uint32(len(g.slots))
		g.slots = append(g.slots, slot{})
	}

	s := &g.slots[idx]
	s.generation++
	s.alive = true
	s.object = obj
	s.parent = noParent
	s.children = s.children[:0]
	g.live++

	return Node{index: idx, generation: s.generation}
}

func (g *graphImpl) AddChild(parent, child Node) error {
	if !g.Valid(parent) || !g.Valid(child) {
		return ErrInvalidHandle
	}
	if child.index == 0 {
		return ErrRootNode
	}
	for at := int32(parent.index); at != noParent; at = g.slots[at].parent {
		if uint32(at) == child.index {
			return ErrCycle
		}
	}

	g.detach(child.index)
	g.slots[parent.index].children = append(g.slots[parent.index].children, child.index)
	g.slots[child.index].parent = int32(parent.index)
	return nil
}

func (g *graphImpl) RemoveChild(parent, child Node) error {
	if !g.Valid(parent) || !g.Valid(child) {
		return ErrInvalidHandle
	}
	if g.slots[child.index].parent != int32(parent.index) {
		return nil
	}
	g.detach(child.index)
	return nil
}

func (g *graphImpl) Remove(node Node) ([]Drawable, error) {
	if !g.Valid(node) {
		return nil, ErrInvalidHandle
	}
	if node.index == 0 {
		return nil, ErrRootNode
	}

	g.detach(node.index)

	var removed []Drawable
	stack := []uint32{node.index}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := &g.slots[idx]
		for i := len(s.children) - 1; i >= 0; i-- {
			stack = append(stack, s.children[i])
		}
		if s.object != nil {
			removed = append(removed, s.object)
			if g.release != nil {
				g.release(s.object)
			}
		}

		s.alive = false
		s.object = nil
		s.parent = noParent
		s.children = s.children[:0]
		g.free = append(g.free, idx)
		g.live--
	}
	return removed, nil
}

func (g *graphImpl) Parent(node Node) Node {
	if !g.Valid(node) {
		return Nil
	}
	p := g.slots[node.index].parent
	if p == noParent {
		return Nil
	}
	return Node{index: uint32(p), generation: g.slots[p].generation}
}

func (g *graphImpl) Children(node Node) []Node {
	if !g.Valid(node) {
		return nil
	}
	children := g.slots[node.index].children
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = Node{index: c, generation: g.slots[c].generation}
	}
	return out
}

func (g *graphImpl) Object(node Node) Drawable {
	if !g.Valid(node) {
		return nil
	}
	return g.slots[node.index].object
}

func (g *graphImpl) Find(obj Drawable) (Node, bool) {
	if obj == nil {
		return Nil, false
	}
	for i := range g.slots {
		s := &g.slots[i]
		if s.alive && s.object == obj {
			return Node{index: uint32(i), generation: s.generation}, true
		}
	}
	return Nil, false
}

func (g *graphImpl) Valid(node Node) bool {
	if node.IsNil() || int(node.index) >= len(g.slots) {
		return false
	}
	s := &g.slots[node.index]
	return s.alive && s.generation == node.generation
}

func (g *graphImpl) Len() int {
	return g.live
}

func (g *graphImpl) Walk(fn func(node Node, obj Drawable)) {
	g.walk(0, fn)
}

func (g *graphImpl) walk(idx uint32, fn func(node Node, obj Drawable)) {
	s := &g.slots[idx]
	fn(Node{index: idx, generation: s.generation}, s.object)
	for _, c := range s.children {
		g.walk(c, fn)
	}
}

func (g *graphImpl) WorldMatrix(node Node) mgl32.Mat4 {
	if !g.Valid(node) {
		return mgl32.Ident4()
	}
	s := &g.slots[node.index]
	if s.parent == noParent || s.object == nil {
		return mgl32.Ident4()
	}
	parent := Node{index: uint32(s.parent), generation: g.slots[s.parent].generation}
	return g.WorldMatrix(parent).Mul4(s.object.ModelMatrix())
}

func (g *graphImpl) Draw() {
	for _, c := range g.slots[0].children {
		g.draw(c, mgl32.Ident4())
	}
}

// draw renders the subtree at idx given the world matrix of its parent.
func (g *graphImpl) draw(idx uint32, parentWorld mgl32.Mat4) {
	s := &g.slots[idx]
	world := mgl32.Ident4()
	if s.object != nil {
		world = parentWorld.Mul4(s.object.ModelMatrix())
		s.object.SetWorldMatrix(world)
		s.object.Draw()
	}
	for _, c := range s.children {
		g.draw(c, world)
	}
}

// detach unlinks idx from its parent's child list, if any.
func (g *graphImpl) detach(idx uint32) {
	p := g.slots[idx].parent
	if p == noParent {
		return
	}
	siblings := g.slots[p].children
	for i, c := range siblings {
		if c == idx {
			g.slots[p].children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	g.slots[idx].parent = noParent
}
