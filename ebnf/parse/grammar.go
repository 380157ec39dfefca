// Package parse turns token streams into parse trees using EBNF grammars.
//
// Productions whose names start with a lowercase letter become internal
// nodes of the tree; token kinds (uppercase names) become leaves. Tokens
// listed as skip kinds (whitespace and comments by default) do not take part
// in matching but are still attached to the tree as leaves, so the tree
// covers the source completely.
package parse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ptree/ebnflex"
	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/symtab"
)

// ErrorSymbol is the symbol of ERROR tokens produced by the lexer.
const ErrorSymbol parsetree.Symbol = 0

// Grammar is an EBNF grammar together with the symbols assigned to its
// productions.
type Grammar struct {
	name    string
	prods   ebnf.Grammar
	symbols *symtab.Table
}

// ParseGrammar reads an EBNF grammar.
func ParseGrammar(filename string, r io.Reader) (*Grammar, error) {
	prods, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return newGrammar(filename, prods)
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return ParseGrammar(filename, f)
}

func newGrammar(name string, prods ebnf.Grammar) (*Grammar, error) {
	names := make([]string, 0, len(prods))
	for name := range prods {
		names = append(names, name)
	}
	sort.Strings(names)

	symbols := symtab.New()
	symbols.MustRegister(ErrorSymbol, ebnflex.KindError)
	for i, prodName := range names {
		if err := symbols.Register(parsetree.Symbol(i+1), prodName); err != nil {
			return nil, fmt.Errorf("assign symbols: %w", err)
		}
	}

	return &Grammar{name: name, prods: prods, symbols: symbols}, nil
}

// Name returns the file name the grammar was read from.
func (g *Grammar) Name() string {
	return g.name
}

// Productions returns the underlying productions.
func (g *Grammar) Productions() ebnf.Grammar {
	return g.prods
}

// Symbols returns the symbol table of the grammar.
func (g *Grammar) Symbols() *symtab.Table {
	return g.symbols
}

// Symbol returns the symbol of the named production or token kind.
func (g *Grammar) Symbol(name string) (parsetree.Symbol, bool) {
	return g.symbols.Lookup(name)
}

// DefaultStart returns the first syntactic production in declaration order.
func (g *Grammar) DefaultStart() string {
	var start string
	var startOffset int
	for name, prod := range g.prods {
		if ebnflex.IsTokenKind(name) {
			continue
		}
		offset := prod.Pos().Offset
		if start == "" || offset < startOffset {
			start, startOffset = name, offset
		}
	}
	return start
}

// Lex splits input into tokens using the token productions of the grammar.
// The trailing EOF token is dropped.
func (g *Grammar) Lex(input []byte, filename string) ([]ebnflex.Token, error) {
	tokens, err := ebnflex.NewLexer(g.prods, input, filename).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if n := len(tokens); n > 0 && tokens[n-1].Kind == ebnflex.KindEOF {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}

// Verify checks that start is a syntactic production, that every referenced
// production is defined and that every production is used, either from
// start or from a token production.
func (g *Grammar) Verify(start string) error {
	if _, ok := g.prods[start]; !ok {
		return fmt.Errorf("production %q not found in grammar", start)
	}
	if ebnflex.IsTokenKind(start) {
		return fmt.Errorf("start production %q is a token kind", start)
	}

	var errs []error
	used := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if used[name] {
			return
		}
		used[name] = true
		walkNames(g.prods[name].Expr, func(ref *ebnf.Name) {
			if _, ok := g.prods[ref.String]; !ok {
				errs = append(errs, fmt.Errorf("%s: undefined production %s", ref.Pos(), ref.String))
				return
			}
			visit(ref.String)
		})
	}
	visit(start)
	for _, kind := range ebnflex.TokenKinds(g.prods) {
		visit(kind)
	}

	var unused []string
	for name := range g.prods {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	slices.Sort(unused)
	for _, name := range unused {
		errs = append(errs, fmt.Errorf("%s: unused production %s", g.prods[name].Pos(), name))
	}

	return errors.Join(errs...)
}

// VerifyStrict applies the checks of golang.org/x/exp/ebnf, which also
// require every production, token kinds included, to be reachable from
// start.
func (g *Grammar) VerifyStrict(start string) error {
	return ebnf.Verify(g.prods, start)
}

func walkNames(expr ebnf.Expression, fn func(*ebnf.Name)) {
	switch e := expr.(type) {
	case *ebnf.Name:
		fn(e)
	case ebnf.Sequence:
		for _, item := range e {
			walkNames(item, fn)
		}
	case ebnf.Alternative:
		for _, alt := range e {
			walkNames(alt, fn)
		}
	case *ebnf.Group:
		walkNames(e.Body, fn)
	case *ebnf.Option:
		walkNames(e.Body, fn)
	case *ebnf.Repetition:
		walkNames(e.Body, fn)
	}
}
