package parsetree

import (
	"fmt"
	"iter"

	"github.com/dhamidi/ptree/text"
)

// IsLeaf reports whether the node is a token: it has no children and covers
// at least one unit of text. Childless zero-length nodes mark elided
// positions and are not leaves.
func IsLeaf(t *Tree, id NodeID) bool {
	data := t.data(id)
	return data.firstChild == noNode && !data.rng.IsEmpty()
}

// ChildIter walks the children of a node from left to right. It is single
// use: call Children again to walk them a second time.
type ChildIter struct {
	tree *Tree
	next int32
}

// Children returns an iterator over the direct children of the node.
func Children(t *Tree, id NodeID) *ChildIter {
	return &ChildIter{tree: t, next: t.data(id).firstChild}
}

// Next returns the next child, or false once all children were visited.
func (it *ChildIter) Next() (NodeID, bool) {
	if it.next == noNode {
		return NodeID{}, false
	}
	curr := it.next
	it.next = it.tree.nodes[curr].nextSibling
	return it.tree.handle(curr), true
}

// All drains the iterator as a sequence.
func (it *ChildIter) All() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for id, ok := it.Next(); ok; id, ok = it.Next() {
			if !yield(id) {
				return
			}
		}
	}
}

// AncestorIter walks from a node up to the root.
type AncestorIter struct {
	tree *Tree
	next int32
}

// Ancestors returns an iterator that yields the node itself, then its
// parent, and so on up to and including the root.
func Ancestors(t *Tree, id NodeID) *AncestorIter {
	t.data(id)
	return &AncestorIter{tree: t, next: id.idx}
}

// Next returns the next ancestor, or false after the root was returned.
func (it *AncestorIter) Next() (NodeID, bool) {
	if it.next == noNode {
		return NodeID{}, false
	}
	curr := it.next
	it.next = it.tree.nodes[curr].parent
	return it.tree.handle(curr), true
}

// All drains the iterator as a sequence.
func (it *AncestorIter) All() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for id, ok := it.Next(); ok; id, ok = it.Next() {
			if !yield(id) {
				return
			}
		}
	}
}

// LeafKind tells how many leaves a LeafAtOffset holds.
type LeafKind int

const (
	// LeafNone means the offset only touches zero-length nodes.
	LeafNone LeafKind = iota
	// LeafSingle means exactly one leaf contains the offset.
	LeafSingle
	// LeafBetween means the offset is the boundary between two leaves.
	LeafBetween
)

func (k LeafKind) String() string {
	switch k {
	case LeafNone:
		return "none"
	case LeafSingle:
		return "single"
	case LeafBetween:
		return "between"
	default:
		return fmt.Sprintf("LeafKind(%d)", int(k))
	}
}

// LeafAtOffset is the result of FindLeafAtOffset. Used as an iterator via
// Next, it yields the left leaf before the right one.
type LeafAtOffset struct {
	kind  LeafKind
	left  NodeID
	right NodeID
}

// Kind returns the shape of the result.
func (l LeafAtOffset) Kind() LeafKind {
	return l.kind
}

// LeftBiased returns the single leaf, or the left one of a tie.
func (l LeafAtOffset) LeftBiased() (NodeID, bool) {
	switch l.kind {
	case LeafSingle, LeafBetween:
		return l.left, true
	default:
		return NodeID{}, false
	}
}

// RightBiased returns the single leaf, or the right one of a tie.
func (l LeafAtOffset) RightBiased() (NodeID, bool) {
	switch l.kind {
	case LeafSingle:
		return l.left, true
	case LeafBetween:
		return l.right, true
	default:
		return NodeID{}, false
	}
}

// Next consumes the next leaf.
func (l *LeafAtOffset) Next() (NodeID, bool) {
	switch l.kind {
	case LeafSingle:
		l.kind = LeafNone
		return l.left, true
	case LeafBetween:
		id := l.left
		*l = LeafAtOffset{kind: LeafSingle, left: l.right}
		return id, true
	default:
		return NodeID{}, false
	}
}

// All returns the leaves in source order without consuming l.
func (l LeafAtOffset) All() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for id, ok := l.Next(); ok; id, ok = l.Next() {
			if !yield(id) {
				return
			}
		}
	}
}

// FindLeafAtOffset returns the leaf containing the offset. An offset sitting
// on the boundary between two leaves yields both of them. It panics if the
// offset lies outside the root.
func FindLeafAtOffset(t *Tree, offset text.Unit) LeafAtOffset {
	return findLeafAtOffset(t, t.root, offset)
}

func findLeafAtOffset(t *Tree, idx int32, offset text.Unit) LeafAtOffset {
	rng := t.nodes[idx].rng
	if !rng.ContainsOffset(offset) {
		panic(fmt.Sprintf("bad offset: range %s offset %s", rng, offset))
	}
	if rng.IsEmpty() {
		return LeafAtOffset{kind: LeafNone}
	}
	id := t.handle(idx)
	if IsLeaf(t, id) {
		return LeafAtOffset{kind: LeafSingle, left: id}
	}

	var matches [2]int32
	n := 0
	for child := t.nodes[idx].firstChild; child != noNode; child = t.nodes[child].nextSibling {
		r := t.nodes[child].rng
		if r.IsEmpty() || !r.ContainsOffset(offset) {
			continue
		}
		if n == len(matches) {
			panic(fmt.Sprintf("more than two children of %s contain offset %s", id, offset))
		}
		matches[n] = child
		n++
	}

	switch n {
	case 1:
		return findLeafAtOffset(t, matches[0], offset)
	case 2:
		left := findLeafAtOffset(t, matches[0], offset)
		right := findLeafAtOffset(t, matches[1], offset)
		if left.kind != LeafSingle || right.kind != LeafSingle {
			panic(fmt.Sprintf("offset %s between %s and %s does not resolve to two leaves", offset, t.handle(matches[0]), t.handle(matches[1])))
		}
		return LeafAtOffset{kind: LeafBetween, left: left.left, right: right.left}
	default:
		panic(fmt.Sprintf("no child of %s %s contains offset %s", id, rng, offset))
	}
}

// FindCoveringNode returns the smallest node whose range contains rng. It
// panics if rng is not inside the root.
func FindCoveringNode(t *Tree, rng text.Range) NodeID {
	if root := t.nodes[t.root].rng; !root.ContainsRange(rng) {
		panic(fmt.Sprintf("range %s is not inside root %s", rng, root))
	}
	left, okLeft := FindLeafAtOffset(t, rng.Start()).RightBiased()
	right, okRight := FindLeafAtOffset(t, rng.End()).LeftBiased()
	if !okLeft || !okRight {
		return t.Root()
	}
	return commonAncestor(t, left, right)
}

func commonAncestor(t *Tree, n1, n2 NodeID) NodeID {
	for p := range Ancestors(t, n1).All() {
		for a := range Ancestors(t, n2).All() {
			if a == p {
				return p
			}
		}
	}
	panic(fmt.Sprintf("cannot find common ancestor of %s and %s", n1, n2))
}
