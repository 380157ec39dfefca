package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/ptree/parsetree"
)

// JSONTreeEncoder writes a tree as nested JSON objects. Childless nodes
// carry their source text.
type JSONTreeEncoder struct {
	w    io.Writer
	acc  parsetree.Accessor
	tree *parsetree.Tree
}

func NewJSONTreeEncoder(w io.Writer, acc parsetree.Accessor) *JSONTreeEncoder {
	return &JSONTreeEncoder{w: w, acc: acc}
}

func (e *JSONTreeEncoder) Encode(tree *parsetree.Tree) error {
	e.tree = tree
	return writeEncoded(e.w, e)
}

func (e *JSONTreeEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(buildTreeNode(e.tree, e.tree.Root(), e.acc), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
