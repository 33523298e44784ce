// Command hrdocs generates HR reports as PDF documents.
//
//	hrdocs list                               show the report catalog
//	hrdocs generate "Salary Register" --filter period=2024-01 --out salary.pdf
//	hrdocs serve                              HTTP surface with previews and metrics
//	hrdocs mcp                                tool server on stdio
//
// Settings come from hrdocs.yaml, HRDOCS_* environment variables and flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	hrdocs "github.com/lvillar/hrdocs"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCommand().ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "hrdocs",
		Short:         "Generate HR reports as PDF documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", os.Getenv("HRDOCS_CONFIG"), "Path to the config file (default: hrdocs.yaml in ., $XDG_CONFIG_HOME/hrdocs, /etc/hrdocs)")
	pf.String("log.level", "info", "Log level (debug, info, warn, error)")
	pf.String("database.driver", "sqlite", "Database driver (pgx, mysql, sqlite)")
	pf.String("database.dsn", "hrdocs.db", "Database connection string")

	cmd.AddCommand(
		newListCommand(g),
		newGenerateCommand(g),
		newServeCommand(g),
		newMCPCommand(g),
	)
	return cmd
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch {
	case errors.Is(err, hrdocs.ErrUnknownReport):
		message += "\nHint: run 'hrdocs list' to see the available reports."
	case errors.Is(err, hrdocs.ErrFetch):
		message += "\nHint: check --database.driver and --database.dsn."
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
