package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/ptree/ebnf/parse"
	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/project"
)

var log = commonlog.GetLogger("ptree.cli")

// sourceFlags select the grammar and parse options. Values missing on the
// command line come from the nearest ptree.yaml.
type sourceFlags struct {
	grammar string
	start   string
	builder string
	trivia  []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.grammar, "grammar", "g", "", "EBNF grammar file (default from ptree.yaml)")
	cmd.Flags().StringVar(&f.start, "start", "", "start production (default from ptree.yaml or the first production)")
	cmd.Flags().StringVar(&f.builder, "builder", "", "tree builder: top-down or bottom-up")
	cmd.Flags().StringSliceVar(&f.trivia, "trivia", nil, "token kinds skipped between terminals")
}

func (f *sourceFlags) load(cmd *cobra.Command) (*parse.Grammar, []parse.Option, error) {
	var opts []parse.Option
	var g *parse.Grammar

	if f.grammar == "" {
		proj, err := project.Load()
		if err != nil {
			if errors.Is(err, project.ErrNotFound) {
				return nil, nil, fmt.Errorf("no --grammar given: %w", err)
			}
			return nil, nil, err
		}
		log.Debugf("using %s", proj.ConfigFile)
		if g, err = proj.LoadGrammar(); err != nil {
			return nil, nil, err
		}
		opts = proj.ParseOptions()
	} else {
		var err error
		if g, err = parse.LoadGrammar(f.grammar); err != nil {
			return nil, nil, err
		}
	}

	if f.start != "" {
		opts = append(opts, parse.WithStart(f.start))
	}
	if f.builder != "" {
		d, err := parse.ParseDiscipline(f.builder)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, parse.WithDiscipline(d))
	}
	if cmd.Flags().Changed("trivia") {
		opts = append(opts, parse.WithSkipKinds(f.trivia...))
	}
	return g, opts, nil
}

// parsedFile is a source file together with its tree.
type parsedFile struct {
	path    string
	content []byte
	grammar *parse.Grammar
	tree    *parsetree.Tree
}

func (f *sourceFlags) parseFile(cmd *cobra.Command, path string) (*parsedFile, error) {
	g, opts, err := f.load(cmd)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	tree, err := parse.ParseFile(g, content, append(opts, parse.WithFile(path))...)
	if err != nil {
		return nil, err
	}
	return &parsedFile{path: path, content: content, grammar: g, tree: tree}, nil
}

func (p *parsedFile) accessor() parsetree.Accessor {
	return parsetree.NewAccessor(parsetree.SourceText(p.content), p.grammar.Symbols())
}

// describe renders a node as NAME@[start; end).
func (p *parsedFile) describe(id parsetree.NodeID) string {
	node := p.tree.Node(id)
	return fmt.Sprintf("%s@%s", p.grammar.Symbols().Name(node.Symbol()), node.Range())
}
