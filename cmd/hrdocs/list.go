package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lvillar/hrdocs/reports"
)

func newListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			_, thai := thaiCapable(cfg)
			reg, err := reports.Registry(reports.Deps{Thai: thai})
			if err != nil {
				return err
			}
			title := color.New(color.FgCyan, color.Bold)
			faint := color.New(color.Faint)
			out := cmd.OutOrStdout()
			for i, m := range reg.Modules() {
				fmt.Fprintf(out, "%s %s", faint.Sprintf("%2d.", i+1), title.Sprint(m.Title))
				if h := m.DisplayHeading(); h != m.Title {
					fmt.Fprintf(out, "  %s", h)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
