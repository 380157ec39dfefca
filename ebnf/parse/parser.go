package parse

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ptree/ebnflex"
	"github.com/dhamidi/ptree/text"
)

// ErrNoMatch is returned when the tokens do not form the start production.
var ErrNoMatch = errors.New("no match")

// SyntaxError reports the token at which matching got stuck. Token is nil
// when the input ended too early. It matches ErrNoMatch with errors.Is.
type SyntaxError struct {
	Token *ebnflex.Token
	Range text.Range
}

func (e *SyntaxError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("%s: unexpected end of input", ErrNoMatch)
	}
	return fmt.Sprintf("%s at %s: unexpected %s %q", ErrNoMatch, e.Token.Position, e.Token.Kind, e.Token.Literal)
}

func (e *SyntaxError) Unwrap() error {
	return ErrNoMatch
}

// DefaultSkipKinds are the token kinds skipped between terminals unless
// SetSkipKinds says otherwise.
var DefaultSkipKinds = []string{"WhiteSpace", "Comment"}

// Parser matches a token stream against a grammar and records the tree it
// finds as Events.
//
// Matching is ordered choice: the first alternative that matches wins and
// repetitions are greedy. Left-recursive productions never match at the
// position where they recurse.
type Parser struct {
	grammar   *Grammar
	tokens    []ebnflex.Token
	skipKinds map[string]bool

	pos      int
	events   Events
	furthest int
	active   map[activeKey]bool
}

type activeKey struct {
	name string
	pos  int
}

type mark struct {
	pos    int
	events int
}

// NewParser creates a parser over tokens. A trailing EOF token is ignored.
func NewParser(g *Grammar, tokens []ebnflex.Token) *Parser {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == ebnflex.KindEOF {
		tokens = tokens[:n-1]
	}
	p := &Parser{grammar: g, tokens: tokens}
	p.SetSkipKinds(DefaultSkipKinds...)
	return p
}

// SetSkipKinds sets which token kinds to skip between terminals.
func (p *Parser) SetSkipKinds(kinds ...string) {
	p.skipKinds = make(map[string]bool)
	for _, k := range kinds {
		p.skipKinds[k] = true
	}
}

// Parse matches the whole token stream against the start production.
func (p *Parser) Parse(start string) (Events, error) {
	prod := p.grammar.prods[start]
	if prod == nil || ebnflex.IsTokenKind(start) {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}
	sym, _ := p.grammar.Symbol(start)

	p.pos = 0
	p.events = nil
	p.furthest = 0
	p.active = map[activeKey]bool{{start, 0}: true}

	p.emit(Event{Kind: EventStart, Symbol: sym})
	ok := p.matchExpr(prod.Expr)
	if rest := p.significant(p.pos); !ok || rest < len(p.tokens) {
		return nil, p.errorAt(max(p.furthest, rest))
	}
	p.flushTrivia(len(p.tokens))
	p.emit(Event{Kind: EventFinish})

	return p.events, nil
}

func (p *Parser) errorAt(i int) error {
	if i >= len(p.tokens) {
		var end text.Unit
		if n := len(p.tokens); n > 0 {
			end = p.tokens[n-1].Range().End()
		}
		return &SyntaxError{Range: text.FromLen(end, 0)}
	}
	tok := p.tokens[i]
	return &SyntaxError{Token: &tok, Range: tok.Range()}
}

func (p *Parser) emit(ev Event) {
	p.events = append(p.events, ev)
}

func (p *Parser) emitToken(tok ebnflex.Token) {
	sym, ok := p.grammar.Symbol(tok.Kind)
	if !ok {
		sym = ErrorSymbol
	}
	p.emit(Event{Kind: EventToken, Symbol: sym, Len: tok.Len()})
}

func (p *Parser) mark() mark {
	return mark{pos: p.pos, events: len(p.events)}
}

func (p *Parser) reset(m mark) {
	p.pos = m.pos
	p.events = p.events[:m.events]
}

// significant returns the index of the first token at or after i that is
// not skipped.
func (p *Parser) significant(i int) int {
	for i < len(p.tokens) && p.skipKinds[p.tokens[i].Kind] {
		i++
	}
	return i
}

// flushTrivia attaches the skipped tokens before index end to the tree.
func (p *Parser) flushTrivia(end int) {
	for ; p.pos < end; p.pos++ {
		p.emitToken(p.tokens[p.pos])
	}
}

func (p *Parser) matchExpr(expr ebnf.Expression) bool {
	switch e := expr.(type) {
	case nil:
		return true

	case *ebnf.Token:
		return p.matchTerminal(func(tok ebnflex.Token) bool {
			return tok.Literal == e.String
		})

	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		return p.matchTerminal(func(tok ebnflex.Token) bool {
			ch, size := utf8.DecodeRuneInString(tok.Literal)
			return size == len(tok.Literal) && ch >= lo && ch <= hi
		})

	case *ebnf.Name:
		if ebnflex.IsTokenKind(e.String) {
			return p.matchTerminal(func(tok ebnflex.Token) bool {
				return tok.Kind == e.String
			})
		}
		return p.matchProduction(e.String)

	case ebnf.Sequence:
		m := p.mark()
		for _, item := range e {
			if !p.matchExpr(item) {
				p.reset(m)
				return false
			}
		}
		return true

	case ebnf.Alternative:
		for _, alt := range e {
			if p.matchExpr(alt) {
				return true
			}
		}
		return false

	case *ebnf.Group:
		return p.matchExpr(e.Body)

	case *ebnf.Option:
		p.matchExpr(e.Body)
		return true

	case *ebnf.Repetition:
		for {
			m := p.mark()
			if !p.matchExpr(e.Body) {
				break
			}
			if p.pos == m.pos {
				// an iteration that consumes nothing would repeat forever
				p.reset(m)
				break
			}
		}
		return true
	}

	return false
}

// matchTerminal consumes the next significant token if it satisfies pred.
// Skipped tokens in front of it are attached first.
func (p *Parser) matchTerminal(pred func(ebnflex.Token) bool) bool {
	i := p.significant(p.pos)
	if i >= len(p.tokens) {
		p.furthest = max(p.furthest, i)
		return false
	}
	p.furthest = max(p.furthest, i)
	if !pred(p.tokens[i]) {
		return false
	}
	p.flushTrivia(i)
	p.emitToken(p.tokens[i])
	p.pos = i + 1
	return true
}

// matchProduction opens a node for a syntactic production. Skipped tokens
// in front of the production stay outside of its node.
func (p *Parser) matchProduction(name string) bool {
	prod := p.grammar.prods[name]
	if prod == nil {
		return false
	}
	key := activeKey{name: name, pos: p.pos}
	if p.active[key] {
		return false
	}
	sym, _ := p.grammar.Symbol(name)

	m := p.mark()
	p.flushTrivia(p.significant(p.pos))
	p.emit(Event{Kind: EventStart, Symbol: sym})

	p.active[key] = true
	ok := p.matchExpr(prod.Expr)
	delete(p.active, key)

	if !ok {
		p.reset(m)
		return false
	}
	p.emit(Event{Kind: EventFinish})
	return true
}
