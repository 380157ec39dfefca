// Package symtab maps parse tree symbols to human readable names.
//
// A Table is an ordinary value: grammars build one for their own symbols and
// hand it to whatever needs to print them.
package symtab

import (
	"fmt"
	"slices"

	"github.com/dhamidi/ptree/parsetree"
)

// Table is a bidirectional mapping between symbols and names. It is not safe
// for concurrent registration; once filled it may be read concurrently.
type Table struct {
	names   map[parsetree.Symbol]string
	symbols map[string]parsetree.Symbol
}

// New returns an empty table.
func New() *Table {
	return &Table{
		names:   make(map[parsetree.Symbol]string),
		symbols: make(map[string]parsetree.Symbol),
	}
}

// FromNames returns a table numbering names from 0 in the given order.
func FromNames(names ...string) (*Table, error) {
	t := New()
	for i, name := range names {
		if err := t.Register(parsetree.Symbol(i), name); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register associates symbol with name. Both must be new to the table.
func (t *Table) Register(symbol parsetree.Symbol, name string) error {
	if existing, ok := t.names[symbol]; ok {
		return fmt.Errorf("duplicate symbol %d: already registered as %q", symbol, existing)
	}
	if existing, ok := t.symbols[name]; ok {
		return fmt.Errorf("duplicate symbol name %q: already registered as %d", name, existing)
	}
	t.names[symbol] = name
	t.symbols[name] = symbol
	return nil
}

// MustRegister is like Register but panics on error.
func (t *Table) MustRegister(symbol parsetree.Symbol, name string) {
	if err := t.Register(symbol, name); err != nil {
		panic(err)
	}
}

// Name returns the name of symbol, or Symbol(n) for unknown symbols.
func (t *Table) Name(symbol parsetree.Symbol) string {
	if name, ok := t.names[symbol]; ok {
		return name
	}
	return fmt.Sprintf("Symbol(%d)", symbol)
}

// SymbolName implements parsetree.SymbolNamer.
func (t *Table) SymbolName(symbol parsetree.Symbol) string {
	return t.Name(symbol)
}

// Lookup returns the symbol registered under name.
func (t *Table) Lookup(name string) (parsetree.Symbol, bool) {
	symbol, ok := t.symbols[name]
	return symbol, ok
}

// Symbols returns all registered symbols in ascending order.
func (t *Table) Symbols() []parsetree.Symbol {
	symbols := make([]parsetree.Symbol, 0, len(t.names))
	for symbol := range t.names {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	return symbols
}

// Len returns the number of registered symbols.
func (t *Table) Len() int {
	return len(t.names)
}
