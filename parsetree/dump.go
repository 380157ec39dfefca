package parsetree

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TextSource renders the source text covered by a node.
type TextSource interface {
	NodeText(t *Tree, id NodeID) string
}

// SymbolNamer renders the display name of a symbol.
type SymbolNamer interface {
	SymbolName(symbol Symbol) string
}

// Accessor combines the two capabilities Dump needs from its caller.
type Accessor interface {
	TextSource
	SymbolNamer
}

// SourceText is a TextSource over a string that holds the whole source.
type SourceText string

// NodeText returns the slice of s covered by the node.
func (s SourceText) NodeText(t *Tree, id NodeID) string {
	return t.Node(id).Range().Slice(string(s))
}

// SymbolNamerFunc adapts a function to the SymbolNamer interface.
type SymbolNamerFunc func(Symbol) string

func (f SymbolNamerFunc) SymbolName(symbol Symbol) string {
	return f(symbol)
}

type accessor struct {
	TextSource
	SymbolNamer
}

// NewAccessor pairs a text source with a symbol namer.
func NewAccessor(src TextSource, names SymbolNamer) Accessor {
	return accessor{TextSource: src, SymbolNamer: names}
}

// Dump writes an indented outline of the tree to w, one node per line.
// Childless nodes whose text is not blank also show their text.
func Dump(w io.Writer, t *Tree, acc Accessor) error {
	return dumpRec(w, t, acc, t.Root(), 0)
}

// DebugDump returns the outline written by Dump.
func DebugDump(t *Tree, acc Accessor) string {
	var sb strings.Builder
	_ = Dump(&sb, t, acc)
	return sb.String()
}

func dumpRec(w io.Writer, t *Tree, acc Accessor, id NodeID, level int) error {
	node := t.Node(id)
	line := fmt.Sprintf("%s%s@%s", strings.Repeat("  ", level), acc.SymbolName(node.Symbol()), node.Range())
	if _, hasChildren := node.FirstChild(); !hasChildren {
		if text := acc.NodeText(t, id); strings.TrimFunc(text, unicode.IsSpace) != "" {
			line += fmt.Sprintf(" %q", text)
		}
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for child := range Children(t, id).All() {
		if err := dumpRec(w, t, acc, child, level+1); err != nil {
			return err
		}
	}
	return nil
}
