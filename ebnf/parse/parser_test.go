package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

const exprGrammar = `
expr = term { Plus term } .
term = factor { Star factor } .
factor = Number | LParen expr RParen .

WhiteSpace = " " | "\t" | "\n" { " " | "\t" | "\n" } .
Number = digit { digit } .
Plus = "+" .
Star = "*" .
LParen = "(" .
RParen = ")" .
digit = "0" … "9" .
`

const listGrammar = `
list = LBracket items RBracket .
items = [ Number { Comma Number } ] .

WhiteSpace = " " { " " } .
Number = "0" … "9" { "0" … "9" } .
LBracket = "[" .
RBracket = "]" .
Comma = "," .
`

func mustGrammar(t *testing.T, src string) *Grammar {
	t.Helper()
	g, err := ParseGrammar("test.ebnf", strings.NewReader(src))
	require.NoError(t, err)
	return g
}

func dump(g *Grammar, tree *parsetree.Tree, input string) string {
	acc := parsetree.NewAccessor(parsetree.SourceText(input), g.Symbols())
	return parsetree.DebugDump(tree, acc)
}

func TestParseFile_Dump(t *testing.T) {
	g := mustGrammar(t, exprGrammar)
	input := "1 + 2*3"

	tree, err := ParseFile(g, []byte(input))
	require.NoError(t, err)

	want := `expr@[0; 7)
  term@[0; 1)
    factor@[0; 1)
      Number@[0; 1) "1"
  WhiteSpace@[1; 2)
  Plus@[2; 3) "+"
  WhiteSpace@[3; 4)
  term@[4; 7)
    factor@[4; 5)
      Number@[4; 5) "2"
    Star@[5; 6) "*"
    factor@[6; 7)
      Number@[6; 7) "3"
`
	assert.Equal(t, want, dump(g, tree, input))
}

func TestParseFile_CoversInput(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	tests := []string{
		"42",
		"  1 + 2  ",
		"(1 + 2) * 3\n",
		"((4))",
		"\t1*2*3+4",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tree, err := ParseFile(g, []byte(input))
			require.NoError(t, err)

			root := tree.Node(tree.Root())
			assert.Equal(t, text.FromLen(0, text.Unit(len(input))), root.Range())

			var leaves strings.Builder
			collectLeaves(tree, tree.Root(), input, &leaves)
			assert.Equal(t, input, leaves.String())
		})
	}
}

func collectLeaves(tree *parsetree.Tree, id parsetree.NodeID, input string, sb *strings.Builder) {
	if parsetree.IsLeaf(tree, id) {
		sb.WriteString(tree.Node(id).Range().Slice(input))
		return
	}
	for child := range parsetree.Children(tree, id).All() {
		collectLeaves(tree, child, input, sb)
	}
}

func TestParseFile_LeadingTriviaStaysOutsideProduction(t *testing.T) {
	g := mustGrammar(t, exprGrammar)
	input := " 7 "

	tree, err := ParseFile(g, []byte(input))
	require.NoError(t, err)

	want := `expr@[0; 3)
  WhiteSpace@[0; 1)
  term@[1; 2)
    factor@[1; 2)
      Number@[1; 2) "7"
  WhiteSpace@[2; 3)
`
	assert.Equal(t, want, dump(g, tree, input))
}

func TestParseFile_Disciplines(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		input   string
	}{
		{"expression", exprGrammar, "(1 + 2) * 3 + 4"},
		{"trivia around", exprGrammar, "  5  "},
		{"empty production", listGrammar, "[]"},
		{"list", listGrammar, "[1, 2, 3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrammar(t, tt.grammar)

			topDown, err := ParseFile(g, []byte(tt.input), WithDiscipline(TopDown))
			require.NoError(t, err)
			bottomUp, err := ParseFile(g, []byte(tt.input), WithDiscipline(BottomUp))
			require.NoError(t, err)

			assert.True(t, parsetree.Equal(topDown, bottomUp),
				"top-down:\n%s\nbottom-up:\n%s", dump(g, topDown, tt.input), dump(g, bottomUp, tt.input))
		})
	}
}

func TestParseFile_EmptyProduction(t *testing.T) {
	g := mustGrammar(t, listGrammar)
	input := "[ ]"

	tree, err := ParseFile(g, []byte(input), WithDiscipline(BottomUp))
	require.NoError(t, err)

	want := `list@[0; 3)
  LBracket@[0; 1) "["
  WhiteSpace@[1; 2)
  items@[2; 2)
  RBracket@[2; 3) "]"
`
	assert.Equal(t, want, dump(g, tree, input))
}

func TestParseFile_Errors(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	tests := []struct {
		input string
		want  string
	}{
		{"1 +", "unexpected end of input"},
		{"", "unexpected end of input"},
		{"1 ) 2", `input:1:3: unexpected RParen ")"`},
		{"1 + §", `input:1:5: unexpected ERROR "§"`},
		{"(1 + 2", "unexpected end of input"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseFile(g, []byte(tt.input), WithFile("input"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoMatch))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFile_LeftRecursionTerminates(t *testing.T) {
	g := mustGrammar(t, `
expr = expr Plus Number | Number .
Plus = "+" .
Number = "0" … "9" .
`)
	_, err := ParseFile(g, []byte("1+2"))
	assert.ErrorIs(t, err, ErrNoMatch)

	tree, err := ParseFile(g, []byte("1"))
	require.NoError(t, err)
	assert.Equal(t, text.FromTo(0, 1), tree.Node(tree.Root()).Range())
}

func TestParseFile_Start(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	tree, err := ParseFile(g, []byte("2*3"), WithStart("term"))
	require.NoError(t, err)
	sym, _ := g.Symbol("term")
	assert.Equal(t, sym, tree.Node(tree.Root()).Symbol())

	_, err = ParseFile(g, []byte("2"), WithStart("Number"))
	assert.ErrorContains(t, err, `production "Number" not found`)
}

func TestParseFile_SkipKinds(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	_, err := ParseFile(g, []byte("1 + 2"), WithSkipKinds())
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestParser_Events(t *testing.T) {
	g := mustGrammar(t, listGrammar)
	tokens, err := g.Lex([]byte("[4]"), "")
	require.NoError(t, err)

	events, err := NewParser(g, tokens).Parse("list")
	require.NoError(t, err)

	sym := func(name string) parsetree.Symbol {
		s, ok := g.Symbol(name)
		require.True(t, ok, name)
		return s
	}
	assert.Equal(t, Events{
		{Kind: EventStart, Symbol: sym("list")},
		{Kind: EventToken, Symbol: sym("LBracket"), Len: 1},
		{Kind: EventStart, Symbol: sym("items")},
		{Kind: EventToken, Symbol: sym("Number"), Len: 1},
		{Kind: EventFinish},
		{Kind: EventToken, Symbol: sym("RBracket"), Len: 1},
		{Kind: EventFinish},
	}, events)
}

func TestParseDiscipline(t *testing.T) {
	d, err := ParseDiscipline("bottom-up")
	require.NoError(t, err)
	assert.Equal(t, BottomUp, d)

	d, err = ParseDiscipline("")
	require.NoError(t, err)
	assert.Equal(t, TopDown, d)

	_, err = ParseDiscipline("sideways")
	assert.ErrorContains(t, err, `unknown builder "sideways"`)
}

func TestParseFile_SyntaxErrorRange(t *testing.T) {
	g := mustGrammar(t, exprGrammar)

	_, err := ParseFile(g, []byte("1 ) 2"))
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	require.NotNil(t, syntaxErr.Token)
	assert.Equal(t, "RParen", syntaxErr.Token.Kind)
	assert.Equal(t, text.FromTo(2, 3), syntaxErr.Range)

	_, err = ParseFile(g, []byte("1 + "))
	require.True(t, errors.As(err, &syntaxErr))
	assert.Nil(t, syntaxErr.Token)
	assert.Equal(t, text.FromTo(4, 4), syntaxErr.Range)
}
