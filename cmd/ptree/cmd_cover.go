package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

func newCoverCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "cover <file> <start> <end>",
		Short: "Show the smallest node covering a byte range, then its ancestors",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := src.parseFile(cmd, args[0])
			if err != nil {
				return err
			}
			start, err := parseOffset(args[1], file)
			if err != nil {
				return err
			}
			end, err := parseOffset(args[2], file)
			if err != nil {
				return err
			}
			if start > end {
				return fmt.Errorf("start %s is after end %s", start, end)
			}

			out := cmd.OutOrStdout()
			covering := parsetree.FindCoveringNode(file.tree, text.FromTo(start, end))
			for id := range parsetree.Ancestors(file.tree, covering).All() {
				fmt.Fprintln(out, file.describe(id))
			}
			return nil
		},
	}

	src.register(cmd)

	return cmd
}
