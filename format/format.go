// Package format writes parse trees in line, JSON and YAML form.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

type TreeEncoder interface {
	encoding.TextMarshaler
	Encode(tree *parsetree.Tree) error
}

// Names of the available encoders.
const (
	Line = "line"
	JSON = "json"
	YAML = "yaml"
)

// NewEncoder returns the encoder called name writing to w.
func NewEncoder(name string, w io.Writer, acc parsetree.Accessor) (TreeEncoder, error) {
	switch name {
	case Line, "":
		return NewLineTreeEncoder(w, acc), nil
	case JSON:
		return NewJSONTreeEncoder(w, acc), nil
	case YAML:
		return NewYAMLTreeEncoder(w, acc), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

// treeNode is the document shape shared by the JSON and YAML encoders.
type treeNode struct {
	Symbol   string      `json:"symbol" yaml:"symbol"`
	Range    text.Range  `json:"range" yaml:"range"`
	Text     string      `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func buildTreeNode(t *parsetree.Tree, id parsetree.NodeID, acc parsetree.Accessor) *treeNode {
	node := t.Node(id)
	tn := &treeNode{
		Symbol: acc.SymbolName(node.Symbol()),
		Range:  node.Range(),
	}
	if _, hasChildren := node.FirstChild(); !hasChildren {
		tn.Text = acc.NodeText(t, id)
		return tn
	}
	for child := range parsetree.Children(t, id).All() {
		tn.Children = append(tn.Children, buildTreeNode(t, child, acc))
	}
	return tn
}

func writeEncoded(w io.Writer, m encoding.TextMarshaler) error {
	data, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
