package reports

import (
	"context"
	"fmt"
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/dossier"
	"github.com/lvillar/hrdocs/filter"
	"github.com/lvillar/hrdocs/report"
	"github.com/lvillar/hrdocs/store"
)

// Filter keys understood by the employee based reports.
const (
	FilterDeptFrom   = "groupFrom"
	FilterDeptTo     = "groupTo"
	FilterPosFrom    = "posFrom"
	FilterPosTo      = "posTo"
	FilterEmpFrom    = "empFrom"
	FilterEmpTo      = "empTo"
	FilterName       = "name"
	FilterStatus     = "status"
	FilterEmployeeID = "employeeId"
)

func employeeDescriptors(f hrdocs.Filters) []filter.Descriptor {
	var ds []filter.Descriptor
	if d, ok := filter.FromFilters(f, "department_id", FilterDeptFrom, FilterDeptTo); ok {
		ds = append(ds, d.WithRef(filter.Department))
	}
	if d, ok := filter.FromFilters(f, "position_id", FilterPosFrom, FilterPosTo); ok {
		ds = append(ds, d.WithRef(filter.Position))
	}
	if d, ok := filter.FromFilters(f, "employee_code", FilterEmpFrom, FilterEmpTo); ok {
		ds = append(ds, d)
	}
	if s, ok := f.String(FilterName); ok {
		ds = append(ds, filter.Label("first_name", s))
	}
	if s, ok := f.String(FilterStatus); ok {
		ds = append(ds, filter.ID("status", s))
	}
	if s, ok := f.String(FilterEmployeeID); ok {
		ds = append(ds, filter.ID("id", s))
	}
	return ds
}

// fetchEmployees selects the employees matching f, ordered by code, with
// full_name, dept_name, position_name and started added to each row.
func fetchEmployees(ctx context.Context, d Deps, f hrdocs.Filters) ([]hrdocs.Row, error) {
	p := d.resolver().Resolve(ctx, employeeDescriptors(f)...)
	rows, err := d.Store.Select(ctx, store.Query{
		Collection: "employees",
		Where:      p,
		OrderBy:    []string{"employee_code"},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	depts, err := names(ctx, d.Store, "department", "dept_name")
	if err != nil {
		return nil, err
	}
	positions, err := names(ctx, d.Store, "positions", "position_name")
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		r["full_name"] = fullName(r)
		r["dept_name"] = depts[idKey(r["department_id"])]
		r["position_name"] = positions[idKey(r["position_id"])]
		if t, ok := r.Time("start_date"); ok {
			r["started"] = hrdocs.FormatThaiShortDate(t)
		}
	}
	return rows, nil
}

// names maps ids of a reference collection to a display field.
func names(ctx context.Context, s store.Store, collection, field string) (map[string]string, error) {
	rows, err := s.Select(ctx, store.Query{Collection: collection, Fields: []string{"id", field}})
	if err != nil {
		return nil, fmt.Errorf("%s names: %w", collection, err)
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[idKey(r["id"])] = r.Text(field)
	}
	return m, nil
}

func idKey(v any) string {
	return hrdocs.FormatFilterValue(v)
}

func fullName(r hrdocs.Row) string {
	parts := make([]string, 0, 3)
	for _, k := range []string{"prefix", "first_name", "last_name"} {
		if s := strings.TrimSpace(r.Text(k)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func employeeDirectory(d Deps) report.Module {
	return report.Module{
		Geometry: hrdocs.Landscape(),
		Columns: report.Static(
			col("Code", "employee_code"),
			col("Name", "full_name"),
			col("Department", "dept_name"),
			col("Position", "position_name"),
			col("Employment", "employment_type"),
			col("Start date", "started"),
			col("Status", "status"),
		),
		Fetch: func(ctx context.Context, f hrdocs.Filters) ([]hrdocs.Row, error) {
			return fetchEmployees(ctx, d, f)
		},
	}
}

// Keywords that classify the free-text columns feeding dossier checkboxes.
var (
	monthlyWords  = []string{"monthly", "รายเดือน"}
	dailyWords    = []string{"daily", "รายวัน"}
	hourlyWords   = []string{"hourly", "รายชั่วโมง", "part-time"}
	enrolledWords = []string{"yes", "true", "มี"}
	declinedWords = []string{"no", "false", "ไม่"}
)

func enrolment(label, key string) dossier.CheckGroup {
	return dossier.CheckGroup{
		Label: label,
		Key:   key,
		Boxes: []dossier.Checkbox{
			{Label: "Enrolled", Keywords: enrolledWords},
			{Label: "Not enrolled", Keywords: declinedWords},
		},
	}
}

// DossierLayout is the page layout of the personnel dossier.
var DossierLayout = dossier.Layout{
	PhotoKey:   "photo_url",
	BarcodeKey: "employee_code",
	Identity: []dossier.Field{
		dossier.Text("Code", "employee_code"),
		dossier.Text("Name", "full_name"),
		dossier.Text("Nickname", "nickname"),
		dossier.Text("Gender", "gender"),
		dossier.Date("Born", "birth_date"),
		dossier.Text("ID card", "id_card"),
		dossier.Text("Department", "dept_name"),
		dossier.Text("Position", "position_name"),
		dossier.Text("Nationality", "nationality"),
	},
	Details: []dossier.Field{
		dossier.Text("Religion", "religion"),
		dossier.Text("Address", "address"),
		dossier.Text("Phone", "phone"),
		dossier.Text("Email", "email"),
	},
	Employment: []dossier.Field{
		dossier.Date("Start date", "start_date"),
		dossier.Text("Status", "status"),
		dossier.Text("Employment", "employment_type"),
		dossier.Text("Salary", "salary"),
		dossier.Text("Bank account", "bank_account"),
	},
	Checks: []dossier.CheckGroup{
		{
			Label: "Pay basis",
			Key:   "employment_type",
			Boxes: []dossier.Checkbox{
				{Label: "Monthly", Keywords: monthlyWords},
				{Label: "Daily", Keywords: dailyWords},
				{Label: "Hourly", Keywords: hourlyWords},
			},
		},
		enrolment("Social security", "has_sso"),
		enrolment("Provident fund", "has_provident"),
		enrolment("Withholding tax", "has_tax"),
	},
}

func personnelDossier(d Deps) report.Module {
	heading := d.heading(PersonnelDossier)
	if heading == "" {
		heading = PersonnelDossier.Title()
	}
	r := dossier.New(heading, DossierLayout,
		dossier.WithPhotos(d.Photos),
		dossier.WithLogger(d.logger()),
		dossier.WithDPI(d.PhotoDPI),
	)
	return report.Module{
		Geometry: hrdocs.DefaultGeometry(),
		Fetch: func(ctx context.Context, f hrdocs.Filters) ([]hrdocs.Row, error) {
			return fetchEmployees(ctx, d, f)
		},
		Render: r.Render,
	}
}
