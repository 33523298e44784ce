package reports

import (
	"context"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/filter"
	"github.com/lvillar/hrdocs/report"
	"github.com/lvillar/hrdocs/store"
)

// Filter keys of the payroll reports.
const (
	FilterYear     = "year"
	FilterPeriod   = "period"
	FilterItemType = "itemType"
	FilterItemFrom = "itemFrom"
	FilterItemTo   = "itemTo"
	FilterDetailed = "detailed"
)

// forEmployees selects rows of collection whose employee_id belongs to the
// employees matching f. The employee rows are returned keyed by id.
func forEmployees(ctx context.Context, d Deps, f hrdocs.Filters, q store.Query) ([]hrdocs.Row, map[string]hrdocs.Row, error) {
	emps, err := fetchEmployees(ctx, d, f)
	if err != nil {
		return nil, nil, err
	}
	if len(emps) == 0 {
		return []hrdocs.Row{}, nil, nil
	}
	byID := make(map[string]hrdocs.Row, len(emps))
	for _, e := range emps {
		byID[idKey(e["id"])] = e
	}
	q.Where = q.Where.And(store.Where(store.Cond{
		Field: "employee_id",
		Op:    store.OpIn,
		Value: store.Column(emps, "id"),
	}))
	rows, err := d.Store.Select(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return rows, byID, nil
}

// withEmployee copies the identifying employee fields onto r.
func withEmployee(r hrdocs.Row, byID map[string]hrdocs.Row) {
	e := byID[idKey(r["employee_id"])]
	for _, k := range []string{"employee_code", "full_name", "dept_name", "position_name"} {
		r[k] = e[k]
	}
}

func leaveSummary(d Deps) report.Module {
	return report.Module{
		Geometry: hrdocs.DefaultGeometry(),
		Columns: report.Static(
			col("Code", "employee_code"),
			col("Name", "full_name"),
			col("Year", "year"),
			col("Annual", "annual_days"),
			col("Sick", "sick_days"),
			col("Personal", "personal_days"),
			col("Used", "used_days"),
			col("Remaining", "remaining_days"),
		),
		Fetch: func(ctx context.Context, f hrdocs.Filters) ([]hrdocs.Row, error) {
			var where store.Predicate
			if y, ok := f.String(FilterYear); ok {
				where = d.resolver().Resolve(ctx, filter.ID("year", y))
			}
			rows, byID, err := forEmployees(ctx, d, f, store.Query{
				Collection: "leave_balances",
				Where:      where,
				OrderBy:    []string{"employee_id", "year"},
			})
			if err != nil {
				return nil, err
			}
			for _, r := range rows {
				withEmployee(r, byID)
				annual, _ := r.Float("annual_days")
				used, _ := r.Float("used_days")
				r["remaining_days"] = annual - used
			}
			return rows, nil
		},
	}
}

func payrollItems(d Deps) report.Module {
	return report.Module{
		Geometry: hrdocs.DefaultGeometry(),
		Columns: report.Static(
			col("Code", "item_code"),
			col("Item", "item_name"),
			col("Type", "item_type"),
			col("Taxable", "taxable"),
			col("SSO", "sso"),
			col("Provident", "provident"),
			col("Unit", "unit"),
			col("Amount", "amount"),
		),
		Fetch: func(ctx context.Context, f hrdocs.Filters) ([]hrdocs.Row, error) {
			var ds []filter.Descriptor
			if r, ok := filter.FromFilters(f, "item_code", FilterItemFrom, FilterItemTo); ok {
				ds = append(ds, r)
			}
			if s, ok := f.String(FilterItemType); ok {
				ds = append(ds, filter.ID("item_type", s))
			}
			return d.Store.Select(ctx, store.Query{
				Collection: "payroll_items",
				Where:      d.resolver().Resolve(ctx, ds...),
				OrderBy:    []string{"item_code"},
			})
		},
	}
}

// salaryMoney are the salary register columns printed right aligned.
var salaryMoney = map[string]bool{
	"base_salary":         true,
	"overtime":            true,
	"allowance":           true,
	"sso_deduction":       true,
	"tax_deduction":       true,
	"provident_deduction": true,
	"net_pay":             true,
}

func salaryStyle(key string) hrdocs.Alignment {
	if salaryMoney[key] {
		return hrdocs.AlignRight
	}
	return hrdocs.StyleFor(key)
}

// salaryColumns lists the register columns; the detailed form breaks the
// net pay down into its components.
func salaryColumns(f hrdocs.Filters) []hrdocs.ColumnSpec {
	cols := []hrdocs.ColumnSpec{
		col("Period", "period"),
		col("Code", "employee_code"),
		col("Name", "full_name"),
		col("Department", "dept_name"),
		col("Base salary", "base_salary"),
	}
	if f.Bool(FilterDetailed) {
		cols = append(cols,
			col("Overtime", "overtime"),
			col("Allowance", "allowance"),
			col("SSO", "sso_deduction"),
			col("Tax", "tax_deduction"),
			col("Provident", "provident_deduction"),
		)
	}
	return append(cols, col("Net pay", "net_pay"))
}

func salaryRegister(d Deps) report.Module {
	return report.Module{
		Geometry: hrdocs.Landscape(),
		Columns:  salaryColumns,
		StyleFor: salaryStyle,
		Fetch: func(ctx context.Context, f hrdocs.Filters) ([]hrdocs.Row, error) {
			var where store.Predicate
			if p, ok := f.String(FilterPeriod); ok {
				where = d.resolver().Resolve(ctx, filter.ID("period", p))
			}
			rows, byID, err := forEmployees(ctx, d, f, store.Query{
				Collection: "salaries",
				Where:      where,
				OrderBy:    []string{"period", "employee_id"},
			})
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				return rows, nil
			}
			total := hrdocs.Summary(hrdocs.Row{"full_name": "Total"})
			for _, r := range rows {
				withEmployee(r, byID)
				for k := range salaryMoney {
					v, _ := r.Float(k)
					sum, _ := total.Float(k)
					total[k] = sum + v
				}
			}
			return append(rows, total), nil
		},
	}
}
