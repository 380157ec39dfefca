package parsetree

import (
	"fmt"

	"github.com/dhamidi/ptree/text"
)

// TopDownBuilder creates a tree by a depth-first, left-to-right walk over
// its nodes. Every StartInternal call must be paired with a FinishInternal
// call; nodes created between the two become children of the internal node.
type TopDownBuilder struct {
	arena
	inProgress []openNode
	pos        text.Unit
	finished   bool
}

type openNode struct {
	idx       int32
	lastChild int32
}

// NewTopDownBuilder returns an empty builder.
func NewTopDownBuilder() *TopDownBuilder {
	return &TopDownBuilder{arena: newArena()}
}

// Leaf creates a token of the given length at the current position.
func (b *TopDownBuilder) Leaf(symbol Symbol, length text.Unit) {
	b.checkUsable()
	leaf := newNodeData(symbol, text.FromLen(b.pos, length))
	b.pos = b.pos.Add(length)
	if len(b.inProgress) == 0 {
		b.newRoot(leaf)
		return
	}
	idx := b.pushChild(leaf)
	b.addLen(idx)
}

// StartInternal opens a new internal node at the current position. The
// first node started becomes the root of the tree.
func (b *TopDownBuilder) StartInternal(symbol Symbol) {
	b.checkUsable()
	node := newNodeData(symbol, text.FromLen(b.pos, 0))
	var idx int32
	if len(b.inProgress) == 0 {
		idx = b.newRoot(node)
	} else {
		idx = b.pushChild(node)
	}
	b.inProgress = append(b.inProgress, openNode{idx: idx, lastChild: noNode})
}

// FinishInternal completes the innermost open node.
func (b *TopDownBuilder) FinishInternal() {
	b.checkUsable()
	if len(b.inProgress) == 0 {
		panic("trying to complete a node, but there are no in-progress nodes")
	}
	idx := b.inProgress[len(b.inProgress)-1].idx
	b.inProgress = b.inProgress[:len(b.inProgress)-1]
	if len(b.inProgress) > 0 {
		b.addLen(idx)
	}
}

// Finish completes the building process and returns the tree. It panics if
// some StartInternal call was never matched.
func (b *TopDownBuilder) Finish() *Tree {
	b.checkUsable()
	if len(b.inProgress) > 0 {
		idxs := make([]int32, len(b.inProgress))
		for i, open := range b.inProgress {
			idxs[i] = open.idx
		}
		panic(fmt.Sprintf("some nodes in builder are unfinished: %v", b.symbols(idxs)))
	}
	if len(b.nodes) == 0 {
		panic("cannot finish a tree without nodes")
	}
	b.finished = true
	return b.tree(0)
}

func (b *TopDownBuilder) checkUsable() {
	if b.finished {
		panic("builder already finished")
	}
}

func (b *TopDownBuilder) newRoot(data nodeData) int32 {
	if len(b.nodes) > 0 {
		panic(fmt.Sprintf("node %d would be a second root", data.symbol))
	}
	return b.push(data)
}

func (b *TopDownBuilder) pushChild(child nodeData) int32 {
	current := &b.inProgress[len(b.inProgress)-1]
	child.parent = current.idx
	idx := b.push(child)
	if current.lastChild != noNode {
		fill(&b.nodes[current.lastChild].nextSibling, idx)
	} else {
		fill(&b.nodes[current.idx].firstChild, idx)
	}
	current.lastChild = idx
	return idx
}

// addLen grows the innermost open node to cover the child.
func (b *TopDownBuilder) addLen(child int32) {
	parent := &b.nodes[b.inProgress[len(b.inProgress)-1].idx]
	parent.rng = grow(parent.rng, b.nodes[child].rng)
}

func grow(left, right text.Range) text.Range {
	if left.End() != right.Start() {
		panic(fmt.Sprintf("child %s does not continue %s", right, left))
	}
	return text.FromTo(left.Start(), right.End())
}
