package parsetree

import "github.com/dhamidi/ptree/text"

// ShapeNode is a pointer-free copy of a subtree, convenient for comparing
// trees built in different arenas.
type ShapeNode struct {
	Symbol   Symbol
	Range    text.Range
	Children []ShapeNode
}

// Shape copies the whole tree into nested ShapeNodes.
func Shape(t *Tree) ShapeNode {
	return shapeOf(t, t.root)
}

func shapeOf(t *Tree, idx int32) ShapeNode {
	data := t.nodes[idx]
	shape := ShapeNode{Symbol: data.symbol, Range: data.rng}
	for child := data.firstChild; child != noNode; child = t.nodes[child].nextSibling {
		shape.Children = append(shape.Children, shapeOf(t, child))
	}
	return shape
}

// Equal reports whether two trees have the same symbols and ranges at every
// position. Arena order does not matter.
func Equal(a, b *Tree) bool {
	return equalRec(a, a.root, b, b.root)
}

func equalRec(a *Tree, ia int32, b *Tree, ib int32) bool {
	na, nb := a.nodes[ia], b.nodes[ib]
	if na.symbol != nb.symbol || na.rng != nb.rng {
		return false
	}
	ca, cb := na.firstChild, nb.firstChild
	for ca != noNode && cb != noNode {
		if !equalRec(a, ca, b, cb) {
			return false
		}
		ca, cb = a.nodes[ca].nextSibling, b.nodes[cb].nextSibling
	}
	return ca == noNode && cb == noNode
}
