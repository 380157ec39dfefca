package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/ptree/workspace"
)

func newLSPCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the Language Server Protocol server on stdio. Without --grammar the
server reads ptree.yaml from the client's workspace root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ws *workspace.Workspace
			if src.grammar != "" {
				g, opts, err := src.load(cmd)
				if err != nil {
					return err
				}
				rootDir, err := os.Getwd()
				if err != nil {
					return err
				}
				ws = workspace.New(rootDir, g, opts...)
			}

			server := workspace.NewLSPServer(version, ws)
			return server.RunStdio()
		},
	}

	src.register(cmd)

	return cmd
}
