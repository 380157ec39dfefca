package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhamidi/ptree/format"
)

func newDumpCmd() *cobra.Command {
	var src sourceFlags
	var dumpFormat string
	var colorMode string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse a file and dump its parse tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := src.parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc, err := format.NewEncoder(dumpFormat, out, file.accessor())
			if err != nil {
				return err
			}
			if line, ok := enc.(*format.LineTreeEncoder); ok {
				color, err := useColor(colorMode, out)
				if err != nil {
					return err
				}
				line.WithColor(color)
			}

			if err := enc.Encode(file.tree); err != nil {
				return fmt.Errorf("encode %s: %w", dumpFormat, err)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", format.Line, "output format (line, json, yaml)")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "colour symbol names (auto, always, never)")

	return cmd
}

func useColor(mode string, out io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := out.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("unknown colour mode %q", mode)
}
