package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/internal/config"
	"github.com/lvillar/hrdocs/pageops"
	"github.com/lvillar/hrdocs/report"
)

type generateFlags struct {
	mode        string
	out         string
	filters     []string
	filtersFile string
}

func newGenerateCommand(g *globalFlags) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate TITLE [TITLE...]",
		Short: "Generate reports into a PDF file",
		Long: "Generate one report, or several bound into a single file in the given order.\n" +
			"Filters from --filters-file are applied first; --filter pairs override them.",
		Example: `  hrdocs generate "Employee Directory" --filter groupFrom=D10 --filter groupTo=D30
  hrdocs generate "Salary Register" "Leave Summary" --filters-file payroll.yaml --out binder.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, f, args)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.mode, "mode", "download", "Output mode (download, preview)")
	fs.StringVarP(&f.out, "out", "o", "", "Output file (default: TITLE.pdf, or binder.pdf for several titles)")
	fs.StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	fs.StringVar(&f.filtersFile, "filters-file", "", "YAML file of filter values")
	return cmd
}

func collectFilters(f *generateFlags) (hrdocs.Filters, error) {
	filters := hrdocs.Filters{}
	if f.filtersFile != "" {
		fromFile, err := config.ReadFilters(f.filtersFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			filters[k] = v
		}
	}
	pairs, err := config.ParseFilters(f.filters)
	if err != nil {
		return nil, err
	}
	for k, v := range pairs {
		filters[k] = v
	}
	return filters, nil
}

func runGenerate(cmd *cobra.Command, g *globalFlags, f *generateFlags, titles []string) error {
	mode, err := report.ParseMode(f.mode)
	if err != nil {
		return err
	}
	filters, err := collectFilters(f)
	if err != nil {
		return err
	}
	a, err := startApp(cmd, g)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		data  []byte
		pages int
		path  = f.out
	)
	if len(titles) == 1 {
		out, err := a.engine.Generate(cmd.Context(), titles[0], mode, filters)
		if err != nil {
			return err
		}
		data, pages = out.Data, out.Pages
		if path == "" {
			path = out.Filename
		}
	} else {
		docs := make([][]byte, 0, len(titles))
		for _, t := range titles {
			out, err := a.engine.Generate(cmd.Context(), t, mode, filters)
			if err != nil {
				return err
			}
			docs = append(docs, out.Data)
		}
		var buf bytes.Buffer
		if pages, err = pageops.Merge(&buf, docs...); err != nil {
			return err
		}
		data = buf.Bytes()
		if path == "" {
			path = "binder.pdf"
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	a.log.Debug("written", zap.String("path", path), zap.Int("bytes", len(data)))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d pages)\n", color.GreenString("wrote"), path, pages)
	return nil
}
