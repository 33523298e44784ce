package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/pageops"
	"github.com/lvillar/hrdocs/report"
)

// RegisterReportTools adds the report tools backed by engine.
func RegisterReportTools(s *Server, engine *report.Engine) {
	s.AddTool(listReportsTool(engine))
	s.AddTool(generateReportTool(engine))
	s.AddTool(mergeReportsTool(engine))
}

var filtersSchema = map[string]any{
	"type":                 "object",
	"description":          "Filter values keyed by name, e.g. {\"groupFrom\": \"D10\", \"groupTo\": \"D30\"}. Unknown keys are ignored.",
	"additionalProperties": true,
}

var outputPathSchema = map[string]any{
	"type":        "string",
	"description": "Optional file path to save the PDF. If omitted, the PDF is returned as base64.",
}

func listReportsTool(engine *report.Engine) Tool {
	return Tool{
		Name:        "list_reports",
		Description: "List the reports that can be generated, with their display headings.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(context.Context, map[string]any) (ToolResult, error) {
			data, err := json.MarshalIndent(catalog(engine.Registry()), "", "  ")
			if err != nil {
				return ToolResult{}, err
			}
			return textResult(string(data)), nil
		},
	}
}

func generateReportTool(engine *report.Engine) Tool {
	return Tool{
		Name:        "generate_report",
		Description: "Generate a report as PDF. Returns the document as base64 unless outputPath is given.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":      map[string]any{"type": "string", "description": "Report title as listed by list_reports"},
				"filters":    filtersSchema,
				"outputPath": outputPathSchema,
			},
			"required": []string{"title"},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			title, err := stringArg(args, "title")
			if err != nil {
				return ToolResult{}, err
			}
			out, err := engine.Generate(ctx, title, report.ModeDownload, filtersArg(args))
			if err != nil {
				return ToolResult{}, err
			}
			summary := fmt.Sprintf("Generated %q: %d page(s), %d bytes.", out.Title, out.Pages, len(out.Data))
			return pdfResult(args, summary, out.Data)
		},
	}
}

func mergeReportsTool(engine *report.Engine) Tool {
	return Tool{
		Name:        "merge_reports",
		Description: "Generate several reports with the same filters and bind them into one PDF in the given order.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"titles": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Report titles in binding order",
				},
				"filters":    filtersSchema,
				"outputPath": outputPathSchema,
			},
			"required": []string{"titles"},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			titles, err := stringsArg(args, "titles")
			if err != nil {
				return ToolResult{}, err
			}
			filters := filtersArg(args)
			docs := make([][]byte, 0, len(titles))
			for _, title := range titles {
				out, err := engine.Generate(ctx, title, report.ModeDownload, filters)
				if err != nil {
					return ToolResult{}, err
				}
				docs = append(docs, out.Data)
			}
			var buf bytes.Buffer
			pages, err := pageops.Merge(&buf, docs...)
			if err != nil {
				return ToolResult{}, err
			}
			summary := fmt.Sprintf("Merged %d report(s): %d page(s), %d bytes.", len(titles), pages, buf.Len())
			return pdfResult(args, summary, buf.Bytes())
		},
	}
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// pdfResult saves data to the outputPath argument when present and embeds
// it as base64 otherwise.
func pdfResult(args map[string]any, summary string, data []byte) (ToolResult, error) {
	if path, _ := args["outputPath"].(string); strings.TrimSpace(path) != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing %s: %w", path, err)
		}
		return textResult(summary + " Saved to " + path + "."), nil
	}
	return ToolResult{Content: []ContentBlock{
		{Type: "text", Text: summary},
		{Type: "resource", MIMEType: report.ContentType, Data: base64.StdEncoding.EncodeToString(data)},
	}}, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	s, _ := args[key].(string)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: missing %q argument", hrdocs.ErrInvalidParam, key)
	}
	return s, nil
}

func stringsArg(args map[string]any, key string) ([]string, error) {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %q must hold report titles", hrdocs.ErrInvalidParam, key)
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: missing %q argument", hrdocs.ErrInvalidParam, key)
	}
	return out, nil
}

func filtersArg(args map[string]any) hrdocs.Filters {
	m, _ := args["filters"].(map[string]any)
	f := make(hrdocs.Filters, len(m))
	for k, v := range m {
		f[k] = v
	}
	return f
}
