package reports

import (
	"context"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/filter"
	"github.com/lvillar/hrdocs/report"
	"github.com/lvillar/hrdocs/store"
)

// codeList builds a two-column report over a reference table, filtered by a
// code range.
func codeList(d Deps, ref filter.Reference, nameField, codeHeader, nameHeader, fromKey, toKey string) report.Module {
	return report.Module{
		Geometry: hrdocs.DefaultGeometry(),
		Columns:  report.Static(col(codeHeader, ref.CodeField), col(nameHeader, nameField)),
		Fetch: func(ctx context.Context, f hrdocs.Filters) ([]hrdocs.Row, error) {
			var ds []filter.Descriptor
			if r, ok := filter.FromFilters(f, ref.CodeField, fromKey, toKey); ok {
				ds = append(ds, r)
			}
			if s, ok := f.String(FilterName); ok {
				ds = append(ds, filter.Label(nameField, s))
			}
			return d.Store.Select(ctx, store.Query{
				Collection: ref.Collection,
				Fields:     []string{ref.IDField, ref.CodeField, nameField},
				Where:      d.resolver().Resolve(ctx, ds...),
				OrderBy:    []string{ref.CodeField},
			})
		},
	}
}

func departmentList(d Deps) report.Module {
	return codeList(d, filter.Department, "dept_name", "Code", "Department", FilterDeptFrom, FilterDeptTo)
}

func positionList(d Deps) report.Module {
	return codeList(d, filter.Position, "position_name", "Code", "Position", FilterPosFrom, FilterPosTo)
}
