package parsetree_test

import (
	"fmt"

	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

const (
	symWhitespace parsetree.Symbol = iota
	symNumber
	symStar
	symMulExpr
	symPlus
	symAddExpr
	symEmpty
)

var symbolNames = map[parsetree.Symbol]string{
	symWhitespace: "WHITESPACE",
	symNumber:     "NUMBER",
	symStar:       "STAR",
	symMulExpr:    "MUL_EXPR",
	symPlus:       "PLUS",
	symAddExpr:    "ADD_EXPR",
	symEmpty:      "EMPTY",
}

var names = parsetree.SymbolNamerFunc(func(s parsetree.Symbol) string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Symbol(%d)", s)
})

// mulExprTopDown builds "46 * 2" as a single MUL_EXPR.
func mulExprTopDown() *parsetree.Tree {
	b := parsetree.NewTopDownBuilder()
	b.StartInternal(symMulExpr)
	b.Leaf(symNumber, 2)
	b.Leaf(symWhitespace, 1)
	b.Leaf(symStar, 1)
	b.Leaf(symWhitespace, 1)
	b.Leaf(symNumber, 1)
	b.FinishInternal()
	return b.Finish()
}

func mulExprBottomUp() *parsetree.Tree {
	b := parsetree.NewBottomUpBuilder()
	b.Shift(symNumber, 2)
	b.Shift(symWhitespace, 1)
	b.Shift(symStar, 1)
	b.Shift(symWhitespace, 1)
	b.Shift(symNumber, 1)
	b.Reduce(symMulExpr, 5)
	return b.Finish()
}

// nestedTopDown builds "1 + 2*3" followed by an empty node:
// ADD_EXPR(NUMBER WHITESPACE PLUS WHITESPACE MUL_EXPR(NUMBER STAR NUMBER) EMPTY).
func nestedTopDown() *parsetree.Tree {
	b := parsetree.NewTopDownBuilder()
	b.StartInternal(symAddExpr)
	b.Leaf(symNumber, 1)
	b.Leaf(symWhitespace, 1)
	b.Leaf(symPlus, 1)
	b.Leaf(symWhitespace, 1)
	b.StartInternal(symMulExpr)
	b.Leaf(symNumber, 1)
	b.Leaf(symStar, 1)
	b.Leaf(symNumber, 1)
	b.FinishInternal()
	b.StartInternal(symEmpty)
	b.FinishInternal()
	b.FinishInternal()
	return b.Finish()
}

func nestedBottomUp() *parsetree.Tree {
	b := parsetree.NewBottomUpBuilder()
	b.Shift(symNumber, 1)
	b.Shift(symWhitespace, 1)
	b.Shift(symPlus, 1)
	b.Shift(symWhitespace, 1)
	b.Shift(symNumber, 1)
	b.Shift(symStar, 1)
	b.Shift(symNumber, 1)
	b.Reduce(symMulExpr, 3)
	b.Shift(symEmpty, 0)
	b.Reduce(symAddExpr, 6)
	return b.Finish()
}

func childIDs(t *parsetree.Tree, id parsetree.NodeID) []parsetree.NodeID {
	var ids []parsetree.NodeID
	for child := range parsetree.Children(t, id).All() {
		ids = append(ids, child)
	}
	return ids
}

func childRanges(t *parsetree.Tree, id parsetree.NodeID) []text.Range {
	var ranges []text.Range
	for _, child := range childIDs(t, id) {
		ranges = append(ranges, t.Node(child).Range())
	}
	return ranges
}

// findBySymbol returns the nodes with the given symbol in pre-order.
func findBySymbol(t *parsetree.Tree, symbol parsetree.Symbol) []parsetree.NodeID {
	var found []parsetree.NodeID
	var walk func(id parsetree.NodeID)
	walk = func(id parsetree.NodeID) {
		if t.Node(id).Symbol() == symbol {
			found = append(found, id)
		}
		for child := range parsetree.Children(t, id).All() {
			walk(child)
		}
	}
	walk(t.Root())
	return found
}
