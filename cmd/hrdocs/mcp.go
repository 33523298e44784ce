package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lvillar/hrdocs/mcp"
)

func newMCPCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the report tools to an assistant over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := startApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			s := mcp.NewServer(os.Stdin, os.Stdout, mcp.WithLogger(a.log), mcp.WithVersion(version))
			mcp.RegisterReportTools(s, a.engine)
			mcp.RegisterReportResources(s, a.engine)
			return s.Run(cmd.Context())
		},
	}
}
