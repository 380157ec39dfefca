package parsetree

import (
	"fmt"
	"sync/atomic"

	"github.com/dhamidi/ptree/text"
)

// Symbol identifies the kind of a token or composite node, like "a comma"
// or "a function". Names are kept outside the tree, see SymbolNamer.
type Symbol uint32

// NodeID is a handle to a node of one particular Tree.
type NodeID struct {
	tree uint32
	idx  int32
}

// Index returns the position of the node in the arena.
func (id NodeID) Index() int {
	return int(id.idx)
}

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", id.idx)
}

const noNode int32 = -1

type nodeData struct {
	symbol      Symbol
	rng         text.Range
	parent      int32
	firstChild  int32
	nextSibling int32
}

func newNodeData(symbol Symbol, rng text.Range) nodeData {
	return nodeData{
		symbol:      symbol,
		rng:         rng,
		parent:      noNode,
		firstChild:  noNode,
		nextSibling: noNode,
	}
}

var treeIDs atomic.Uint32

// arena is the node storage shared by both builders.
type arena struct {
	id    uint32
	nodes []nodeData
}

func newArena() arena {
	return arena{id: treeIDs.Add(1)}
}

func (a *arena) push(data nodeData) int32 {
	idx := int32(len(a.nodes))
	a.nodes = append(a.nodes, data)
	return idx
}

func (a *arena) symbols(idxs []int32) []Symbol {
	symbols := make([]Symbol, len(idxs))
	for i, idx := range idxs {
		symbols[i] = a.nodes[idx].symbol
	}
	return symbols
}

// fill writes a link that must not have been written before.
func fill(slot *int32, value int32) {
	if *slot != noNode {
		panic(fmt.Sprintf("link already set to #%d, refusing to overwrite with #%d", *slot, value))
	}
	*slot = value
}

// Tree is an immutable parse tree. Use a TopDownBuilder or a
// BottomUpBuilder to create one.
type Tree struct {
	id    uint32
	nodes []nodeData
	root  int32
}

func (a *arena) tree(root int32) *Tree {
	return &Tree{id: a.id, nodes: a.nodes, root: root}
}

// Root returns the root node of the tree.
func (t *Tree) Root() NodeID {
	return t.handle(t.root)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a view of the node with the given id. It panics if id was
// not issued by this tree.
func (t *Tree) Node(id NodeID) Node {
	return Node{data: t.data(id), tree: t}
}

func (t *Tree) data(id NodeID) *nodeData {
	if id.tree != t.id {
		panic(fmt.Sprintf("node %s belongs to another tree", id))
	}
	if id.idx < 0 || int(id.idx) >= len(t.nodes) {
		panic(fmt.Sprintf("node %s out of range for tree of %d nodes", id, len(t.nodes)))
	}
	return &t.nodes[id.idx]
}

func (t *Tree) handle(idx int32) NodeID {
	return NodeID{tree: t.id, idx: idx}
}

func (t *Tree) link(idx int32) (NodeID, bool) {
	if idx == noNode {
		return NodeID{}, false
	}
	return t.handle(idx), true
}

// Node is a read-only view of one node of a Tree.
type Node struct {
	data *nodeData
	tree *Tree
}

// Symbol returns the kind of the node.
func (n Node) Symbol() Symbol {
	return n.data.symbol
}

// Range returns the text covered by the node. For internal nodes this is the
// union of the ranges of all children.
func (n Node) Range() text.Range {
	return n.data.rng
}

// Parent returns the parent of the node. The root has none.
func (n Node) Parent() (NodeID, bool) {
	return n.tree.link(n.data.parent)
}

// FirstChild returns the leftmost child of the node, if it has children.
func (n Node) FirstChild() (NodeID, bool) {
	return n.tree.link(n.data.firstChild)
}

// NextSibling returns the sibling immediately to the right of the node.
func (n Node) NextSibling() (NodeID, bool) {
	return n.tree.link(n.data.nextSibling)
}
