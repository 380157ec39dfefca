// Package ebnflex provides lexical scanning based on EBNF grammars.
//
// Every production whose name starts with an uppercase letter is a token
// kind. The lexer covers its input completely: bytes that no production
// matches come out as ERROR tokens, and whitespace or comments are ordinary
// tokens, so a parse tree built from the token stream can keep all of them.
package ebnflex

import (
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ptree/text"
)

// Kinds produced by the lexer that are not grammar productions.
const (
	KindError = "ERROR"
	KindEOF   = "EOF"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   text.Unit
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Len returns the length of the token in bytes.
func (t Token) Len() text.Unit {
	return text.Unit(len(t.Literal))
}

// Range returns the source range covered by the token.
func (t Token) Range() text.Range {
	return text.FromLen(t.Position.Offset, t.Len())
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int  // memoization cache: key -> match length (-1 = no match)
	visiting map[memoKey]bool // cycle detection
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string) *Lexer {
	return &Lexer{
		grammar:  grammar,
		kinds:    TokenKinds(grammar),
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// IsTokenKind reports whether a production name denotes a token.
func IsTokenKind(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// TokenKinds returns the token productions of grammar in declaration order.
// When two kinds match input of the same length, the one declared first wins.
func TokenKinds(grammar ebnf.Grammar) []string {
	var kinds []string
	for name, prod := range grammar {
		if prod.Expr != nil && IsTokenKind(name) {
			kinds = append(kinds, name)
		}
	}
	sort.Slice(kinds, func(i, j int) bool {
		pi, pj := grammar[kinds[i]].Pos(), grammar[kinds[j]].Pos()
		if pi.Offset != pj.Offset {
			return pi.Offset < pj.Offset
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   text.Unit(l.pos),
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// NextToken returns the next token from the input, trying every token
// production and keeping the longest match. At the end of input it returns
// an EOF token together with io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Position: l.Position()}, io.EOF
	}

	startPos := l.Position()
	startOffset := l.pos

	// Clear memoization cache for each new token (positions change)
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int

	for _, name := range l.kinds {
		l.visiting = make(map[memoKey]bool)
		matchLen := l.tryMatch(l.grammar[name].Expr, startOffset)
		if matchLen > bestLen {
			bestLen = matchLen
			bestKind = name
		}
	}

	if bestLen == 0 {
		// No match - emit a single character as error token
		_, size := utf8.DecodeRune(l.input[startOffset:])
		bestKind = KindError
		bestLen = size
	}

	for i := 0; i < bestLen; i++ {
		l.advance()
	}

	return Token{
		Kind:     bestKind,
		Literal:  string(l.input[startOffset : startOffset+bestLen]),
		Position: startPos,
	}, nil
}

// tryMatch attempts to match an expression at the given offset.
// Returns the length of the match, or -1 if there is no match. A zero
// length means the expression matched without consuming input.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			n := l.tryMatch(item, pos)
			if n < 0 {
				return -1
			}
			pos += n
		}
		return pos - offset

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := l.tryMatch(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		pos := offset
		for {
			// a body that matches nothing would repeat forever
			n := l.tryMatch(e.Body, pos)
			if n <= 0 {
				break
			}
			pos += n
		}
		return pos - offset

	case *ebnf.Option:
		if n := l.tryMatch(e.Body, offset); n > 0 {
			return n
		}
		return 0

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	case nil:
		// empty production body
		return 0

	default:
		return -1
	}
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := l.memo[key]; ok {
		return result
	}

	// Left recursion: the production is already being tried at this offset.
	if l.visiting[key] {
		return -1
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = -1
		return -1
	}

	l.visiting[key] = true
	result := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = result
	return result
}

// tryMatchToken matches a literal string token.
func (l *Lexer) tryMatchToken(token string, offset int) int {
	if offset+len(token) > len(l.input) {
		return -1
	}
	if string(l.input[offset:offset+len(token)]) == token {
		return len(token)
	}
	return -1
}

// tryMatchRange matches a single character within a range (e.g., "a" … "z").
func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return -1
	}
	lo, loSize := utf8.DecodeRuneInString(begin)
	hi, hiSize := utf8.DecodeRuneInString(end)
	if loSize != len(begin) || hiSize != len(end) {
		return -1
	}
	ch, size := utf8.DecodeRune(l.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return -1
}

// Tokenize reads all tokens from input. The last token has kind EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
	}
}
