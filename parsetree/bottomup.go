package parsetree

import (
	"fmt"

	"github.com/dhamidi/ptree/text"
)

// BottomUpBuilder creates a tree by a bottom-up walk over its nodes, the way
// a shift-reduce parser discovers them. Only finished subtrees are kept on
// its stack.
type BottomUpBuilder struct {
	arena
	stack    []int32
	pos      text.Unit
	finished bool
}

// NewBottomUpBuilder returns an empty builder.
func NewBottomUpBuilder() *BottomUpBuilder {
	return &BottomUpBuilder{arena: newArena()}
}

// Shift pushes a new leaf of the given length onto the stack.
func (b *BottomUpBuilder) Shift(symbol Symbol, length text.Unit) {
	b.checkUsable()
	idx := b.push(newNodeData(symbol, text.FromLen(b.pos, length)))
	b.pos = b.pos.Add(length)
	b.stack = append(b.stack, idx)
}

// Reduce replaces the top n entries of the stack with a new node whose
// children they become.
func (b *BottomUpBuilder) Reduce(symbol Symbol, n int) {
	b.checkUsable()
	depth := len(b.stack)
	if n <= 0 || n > depth {
		panic(fmt.Sprintf("cannot reduce %d nodes with a stack of %d", n, depth))
	}
	children := b.stack[depth-n:]
	rng := text.FromTo(
		b.nodes[children[0]].rng.Start(),
		b.nodes[children[n-1]].rng.End(),
	)
	data := newNodeData(symbol, rng)
	data.firstChild = children[0]
	parent := b.push(data)

	for i, child := range children {
		fill(&b.nodes[child].parent, parent)
		if i > 0 {
			fill(&b.nodes[children[i-1]].nextSibling, child)
		}
	}

	b.stack = append(b.stack[:depth-n], parent)
}

// Finish completes the building process and returns the tree. It panics
// unless the stack holds exactly one node, which becomes the root.
func (b *BottomUpBuilder) Finish() *Tree {
	b.checkUsable()
	if len(b.stack) != 1 {
		panic(fmt.Sprintf("expected exactly one node on the stack, got %d: %v", len(b.stack), b.symbols(b.stack)))
	}
	b.finished = true
	return b.tree(b.stack[0])
}

func (b *BottomUpBuilder) checkUsable() {
	if b.finished {
		panic("builder already finished")
	}
}
