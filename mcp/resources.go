package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lvillar/hrdocs/report"
)

// errNoCatalog is returned by resources when no engine was registered.
var errNoCatalog = errors.New("mcp: no report catalog")

// CatalogURI is the resource listing the available reports.
const CatalogURI = "hrdocs://reports"

type catalogEntry struct {
	Title   string `json:"title"`
	Heading string `json:"heading"`
}

func catalog(reg *report.Registry) []catalogEntry {
	mods := reg.Modules()
	out := make([]catalogEntry, 0, len(mods))
	for _, m := range mods {
		out = append(out, catalogEntry{Title: m.Title, Heading: m.DisplayHeading()})
	}
	return out
}

// RegisterReportResources adds the catalog resource backed by engine.
func RegisterReportResources(s *Server, engine *report.Engine) {
	s.AddResource(Resource{
		URI:         CatalogURI,
		Name:        "Report catalog",
		Description: "Titles and display headings of the reports that can be generated.",
		MIMEType:    "application/json",
		Handler: func(_ context.Context, uri string) ([]ResourceContent, error) {
			if engine == nil {
				return nil, errNoCatalog
			}
			data, err := json.MarshalIndent(catalog(engine.Registry()), "", "  ")
			if err != nil {
				return nil, err
			}
			return []ResourceContent{{URI: uri, MIMEType: "application/json", Text: string(data)}}, nil
		},
	})
}
