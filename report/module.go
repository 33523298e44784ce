// Package report ties report modules to the renderers: a registry of
// modules keyed by title and an engine that fetches rows, draws them and
// assembles the finished PDF.
package report

import (
	"context"
	"fmt"
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
)

// FetchFunc reads the rows of a report for the given filters.
type FetchFunc func(ctx context.Context, filters hrdocs.Filters) ([]hrdocs.Row, error)

// ColumnsFunc returns the column schema for the given filters.
type ColumnsFunc func(filters hrdocs.Filters) []hrdocs.ColumnSpec

// Module describes one report.
type Module struct {
	// Title is the registry key and the name of the downloaded file.
	Title string
	// Heading is printed at the top of the document; empty means Title.
	Heading  string
	Columns  ColumnsFunc
	Fetch    FetchFunc
	Geometry hrdocs.Geometry
	// Render replaces the generic table layout when set.
	Render hrdocs.RenderFunc
	// StyleFor overrides column alignment for the table layout.
	StyleFor hrdocs.StyleFunc
}

// Static returns a ColumnsFunc that ignores filters.
func Static(cols ...hrdocs.ColumnSpec) ColumnsFunc {
	return func(hrdocs.Filters) []hrdocs.ColumnSpec {
		return cols
	}
}

// DisplayHeading is the text printed as the document title.
func (m Module) DisplayHeading() string {
	if m.Heading != "" {
		return m.Heading
	}
	return m.Title
}

func (m Module) columns(f hrdocs.Filters) []hrdocs.ColumnSpec {
	if m.Columns == nil {
		return nil
	}
	return m.Columns(f)
}

func (m Module) validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: module without title", hrdocs.ErrInvalidParam)
	}
	if m.Fetch == nil {
		return fmt.Errorf("%w: module %q has no fetch", hrdocs.ErrInvalidParam, m.Title)
	}
	if m.Render == nil && m.Columns == nil {
		return fmt.Errorf("%w: module %q has neither columns nor renderer", hrdocs.ErrInvalidParam, m.Title)
	}
	return nil
}

// Registry maps titles to modules. It is filled once and read-only after.
type Registry struct {
	modules map[string]Module
	titles  []string
}

// NewRegistry registers modules in order. Titles must be unique.
func NewRegistry(modules ...Module) (*Registry, error) {
	r := &Registry{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		if err := m.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.modules[m.Title]; dup {
			return nil, fmt.Errorf("%w: %q", hrdocs.ErrDuplicateTitle, m.Title)
		}
		if m.Geometry == (hrdocs.Geometry{}) {
			m.Geometry = hrdocs.DefaultGeometry()
		}
		r.modules[m.Title] = m
		r.titles = append(r.titles, m.Title)
	}
	return r, nil
}

// Lookup finds a module by exact title.
func (r *Registry) Lookup(title string) (Module, bool) {
	m, ok := r.modules[title]
	return m, ok
}

// Titles lists registered titles in registration order.
func (r *Registry) Titles() []string {
	return append([]string(nil), r.titles...)
}

// Modules lists registered modules in registration order.
func (r *Registry) Modules() []Module {
	out := make([]Module, len(r.titles))
	for i, t := range r.titles {
		out[i] = r.modules[t]
	}
	return out
}
