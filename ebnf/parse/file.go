package parse

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/ptree/parsetree"
)

var log = commonlog.GetLogger("ptree.parse")

type Option func(*settings)

type settings struct {
	file       string
	start      string
	skipKinds  []string
	discipline Discipline
}

// WithFile sets the file name used in positions of error messages.
func WithFile(path string) Option {
	return func(s *settings) {
		s.file = path
	}
}

// WithStart sets the start production. It defaults to the first syntactic
// production of the grammar.
func WithStart(name string) Option {
	return func(s *settings) {
		s.start = name
	}
}

// WithSkipKinds replaces the token kinds skipped between terminals.
func WithSkipKinds(kinds ...string) Option {
	return func(s *settings) {
		s.skipKinds = kinds
	}
}

// WithDiscipline selects the builder used to construct the tree.
func WithDiscipline(d Discipline) Option {
	return func(s *settings) {
		s.discipline = d
	}
}

// ParseFile tokenizes and parses input with g and builds its parse tree.
func ParseFile(g *Grammar, input []byte, opts ...Option) (*parsetree.Tree, error) {
	s := settings{
		skipKinds:  DefaultSkipKinds,
		discipline: TopDown,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.start == "" {
		s.start = g.DefaultStart()
	}

	tokens, err := g.Lex(input, s.file)
	if err != nil {
		return nil, err
	}

	p := NewParser(g, tokens)
	p.SetSkipKinds(s.skipKinds...)
	events, err := p.Parse(s.start)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.start, err)
	}

	tree := events.Build(s.discipline)
	log.Debugf("parsed %q from %s: %d tokens, %d nodes, %s builder",
		s.start, s.file, len(tokens), tree.Len(), s.discipline)
	return tree, nil
}
