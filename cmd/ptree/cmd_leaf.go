package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

func newLeafCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "leaf <file> <offset>",
		Short: "Show the leaf at a byte offset",
		Long: `Show the leaf at a byte offset. Prints "none" for an empty tree,
"single NODE" inside a leaf and "between LEFT RIGHT" on the boundary of two
leaves.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := src.parseFile(cmd, args[0])
			if err != nil {
				return err
			}
			offset, err := parseOffset(args[1], file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			leaf := parsetree.FindLeafAtOffset(file.tree, offset)
			switch leaf.Kind() {
			case parsetree.LeafNone:
				fmt.Fprintln(out, "none")
			case parsetree.LeafSingle:
				id, _ := leaf.LeftBiased()
				fmt.Fprintf(out, "single %s\n", file.describe(id))
			case parsetree.LeafBetween:
				left, _ := leaf.LeftBiased()
				right, _ := leaf.RightBiased()
				fmt.Fprintf(out, "between %s %s\n", file.describe(left), file.describe(right))
			}
			return nil
		},
	}

	src.register(cmd)

	return cmd
}

func parseOffset(arg string, file *parsedFile) (text.Unit, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse offset %q: %w", arg, err)
	}
	if n > uint64(len(file.content)) {
		return 0, fmt.Errorf("offset %d is past the end of %s (%d bytes)", n, file.path, len(file.content))
	}
	return text.Unit(n), nil
}
