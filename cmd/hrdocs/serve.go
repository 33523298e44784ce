package main

import (
	"github.com/spf13/cobra"

	"github.com/lvillar/hrdocs/server"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := startApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.New(a.engine,
				server.WithLogger(a.log),
				server.WithPreviewTTL(a.cfg.HTTP.PreviewTTL),
			)
			return srv.ListenAndServe(cmd.Context(), a.cfg.HTTP.Listen)
		},
	}
	cmd.Flags().String("http.listen", ":8080", "Listen address")
	return cmd
}
