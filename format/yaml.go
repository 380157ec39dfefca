package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/ptree/parsetree"
)

// YAMLTreeEncoder writes the same document as JSONTreeEncoder in YAML.
type YAMLTreeEncoder struct {
	w    io.Writer
	acc  parsetree.Accessor
	tree *parsetree.Tree
}

func NewYAMLTreeEncoder(w io.Writer, acc parsetree.Accessor) *YAMLTreeEncoder {
	return &YAMLTreeEncoder{w: w, acc: acc}
}

func (e *YAMLTreeEncoder) Encode(tree *parsetree.Tree) error {
	e.tree = tree
	return writeEncoded(e.w, e)
}

func (e *YAMLTreeEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildTreeNode(e.tree, e.tree.Root(), e.acc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
