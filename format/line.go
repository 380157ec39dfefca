package format

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dhamidi/ptree/ebnflex"
	"github.com/dhamidi/ptree/parsetree"
)

// LineTreeEncoder writes the indented outline produced by parsetree.Dump.
type LineTreeEncoder struct {
	w     io.Writer
	acc   parsetree.Accessor
	color bool
	tree  *parsetree.Tree
}

func NewLineTreeEncoder(w io.Writer, acc parsetree.Accessor) *LineTreeEncoder {
	return &LineTreeEncoder{w: w, acc: acc}
}

// WithColor turns coloured symbol names on or off. Token kinds and
// productions get different colours.
func (e *LineTreeEncoder) WithColor(enabled bool) *LineTreeEncoder {
	e.color = enabled
	return e
}

func (e *LineTreeEncoder) Encode(tree *parsetree.Tree) error {
	e.tree = tree
	return writeEncoded(e.w, e)
}

func (e *LineTreeEncoder) MarshalText() ([]byte, error) {
	acc := e.acc
	if e.color {
		acc = parsetree.NewAccessor(acc, newColorNamer(acc))
	}
	var sb strings.Builder
	if err := parsetree.Dump(&sb, e.tree, acc); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

type colorNamer struct {
	names      parsetree.SymbolNamer
	token      *color.Color
	production *color.Color
}

func newColorNamer(names parsetree.SymbolNamer) colorNamer {
	token := color.New(color.FgGreen)
	token.EnableColor()
	production := color.New(color.FgCyan, color.Bold)
	production.EnableColor()
	return colorNamer{names: names, token: token, production: production}
}

func (c colorNamer) SymbolName(symbol parsetree.Symbol) string {
	name := c.names.SymbolName(symbol)
	if ebnflex.IsTokenKind(name) {
		return c.token.Sprint(name)
	}
	return c.production.Sprint(name)
}
