package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ptree/ebnf/parse"
	"github.com/dhamidi/ptree/project"
)

func newCheckCmd() *cobra.Command {
	var startProduction string
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [grammar]",
		Short: "Verify a grammar, or the project grammar and every project source",
		Long: `Verify an EBNF grammar file. Without an argument the grammar named in
ptree.yaml is verified and every source file of the project is parsed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return checkGrammar(out, args[0], startProduction, strict)
			}

			proj, err := project.Load()
			if err != nil {
				return err
			}
			start := startProduction
			if start == "" {
				start = proj.Start
			}
			if err := checkGrammar(out, proj.Grammar, start, strict); err != nil {
				return err
			}
			return checkSources(out, proj)
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production (default: the first production)")
	cmd.Flags().BoolVar(&strict, "strict", false, "require every production, token kinds included, to be reachable from start")

	return cmd
}

func checkGrammar(out io.Writer, filename, start string, strict bool) error {
	g, err := parse.LoadGrammar(filename)
	if err != nil {
		printErrors(out, err)
		return err
	}
	if start == "" {
		start = g.DefaultStart()
	}

	verify := g.Verify
	if strict {
		verify = g.VerifyStrict
	}
	if err := verify(start); err != nil {
		printErrors(out, err)
		return fmt.Errorf("%s: grammar has errors", filename)
	}

	log.Infof("%s: %d productions, start %s", filename, len(g.Productions()), start)
	return nil
}

func checkSources(out io.Writer, proj *project.Project) error {
	g, err := proj.LoadGrammar()
	if err != nil {
		return err
	}
	files, err := proj.SourceFiles()
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		opts := append(proj.ParseOptions(), parse.WithFile(path))
		if _, err := parse.ParseFile(g, content, opts...); err != nil {
			fmt.Fprintln(out, err)
			failed++
		}
	}

	log.Infof("checked %d files", len(files))
	if failed > 0 {
		return fmt.Errorf("%d of %d files do not parse", failed, len(files))
	}
	return nil
}

// printErrors prints every error of a joined error or of an error list
// from golang.org/x/exp/ebnf on its own line.
func printErrors(out io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			fmt.Fprintln(out, e)
		}
		return
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(out, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(out, err)
	}
}
