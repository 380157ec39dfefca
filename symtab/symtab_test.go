package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/ptree/parsetree"
)

func TestRegisterAndLookup(t *testing.T) {
	table := New()
	require.NoError(t, table.Register(3, "MUL_EXPR"))
	require.NoError(t, table.Register(1, "NUMBER"))

	assert.Equal(t, "MUL_EXPR", table.Name(3))
	assert.Equal(t, "NUMBER", table.SymbolName(1))
	assert.Equal(t, "Symbol(7)", table.Name(7))

	sym, ok := table.Lookup("NUMBER")
	assert.True(t, ok)
	assert.Equal(t, parsetree.Symbol(1), sym)
	_, ok = table.Lookup("STAR")
	assert.False(t, ok)

	assert.Equal(t, []parsetree.Symbol{1, 3}, table.Symbols())
	assert.Equal(t, 2, table.Len())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	table := New()
	table.MustRegister(0, "WHITESPACE")

	assert.EqualError(t, table.Register(0, "SPACE"), `duplicate symbol 0: already registered as "WHITESPACE"`)
	assert.EqualError(t, table.Register(5, "WHITESPACE"), `duplicate symbol name "WHITESPACE": already registered as 0`)
	assert.Panics(t, func() { table.MustRegister(0, "OTHER") })
}

func TestFromNames(t *testing.T) {
	table, err := FromNames("WHITESPACE", "NUMBER", "STAR", "MUL_EXPR")
	require.NoError(t, err)
	assert.Equal(t, "STAR", table.Name(2))

	_, err = FromNames("A", "A")
	assert.Error(t, err)
}

func TestTableIsSymbolNamer(t *testing.T) {
	var _ parsetree.SymbolNamer = New()
}
