// Package reports holds the bundled HR report modules.
//
// Each module is identified by a Key. Key.Module builds the module from its
// dependencies; Registry registers every key in declaration order.
package reports

import (
	"fmt"

	"go.uber.org/zap"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/filter"
	"github.com/lvillar/hrdocs/photo"
	"github.com/lvillar/hrdocs/report"
	"github.com/lvillar/hrdocs/store"
)

// Key enumerates the bundled reports.
type Key int

const (
	EmployeeDirectory Key = iota
	DepartmentList
	PositionList
	LeaveSummary
	PayrollItems
	SalaryRegister
	PersonnelDossier

	numKeys
)

// Keys lists every bundled report.
func Keys() []Key {
	keys := make([]Key, numKeys)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Title is the registry key of the report.
func (k Key) Title() string {
	switch k {
	case EmployeeDirectory:
		return "Employee Directory"
	case DepartmentList:
		return "Department List"
	case PositionList:
		return "Position List"
	case LeaveSummary:
		return "Leave Summary"
	case PayrollItems:
		return "Payroll Items"
	case SalaryRegister:
		return "Salary Register"
	case PersonnelDossier:
		return "Personnel Dossier"
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

func (k Key) String() string {
	return k.Title()
}

// ThaiHeading is the heading printed when a Thai-capable font is loaded.
func (k Key) ThaiHeading() string {
	switch k {
	case EmployeeDirectory:
		return "ทะเบียนรายชื่อพนักงาน"
	case DepartmentList:
		return "รายชื่อแผนก"
	case PositionList:
		return "รายชื่อตำแหน่งงาน"
	case LeaveSummary:
		return "สรุปวันลาคงเหลือ"
	case PayrollItems:
		return "รายการเงินได้และเงินหัก"
	case SalaryRegister:
		return "ทะเบียนเงินเดือน"
	case PersonnelDossier:
		return "แฟ้มประวัติพนักงาน"
	}
	return ""
}

// Deps are the collaborators report modules read from.
type Deps struct {
	Store  store.Store
	Photos *photo.Normalizer // nil resolves inline photos only
	Log    *zap.Logger
	// Thai prints Thai headings; set it only with a UTF-8 body font.
	Thai bool
	// PhotoDPI is the pixel density of dossier photos; zero keeps the default.
	PhotoDPI float64
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d Deps) resolver() *filter.Resolver {
	return filter.NewResolver(d.Store, filter.WithLogger(d.logger()))
}

func (d Deps) heading(k Key) string {
	if d.Thai {
		return k.ThaiHeading()
	}
	return ""
}

// Module builds the module for k.
func (k Key) Module(d Deps) report.Module {
	var m report.Module
	switch k {
	case EmployeeDirectory:
		m = employeeDirectory(d)
	case DepartmentList:
		m = departmentList(d)
	case PositionList:
		m = positionList(d)
	case LeaveSummary:
		m = leaveSummary(d)
	case PayrollItems:
		m = payrollItems(d)
	case SalaryRegister:
		m = salaryRegister(d)
	case PersonnelDossier:
		m = personnelDossier(d)
	default:
		panic(fmt.Sprintf("reports: unknown key %d", int(k)))
	}
	m.Title = k.Title()
	m.Heading = d.heading(k)
	return m
}

// Registry registers every bundled report.
func Registry(d Deps) (*report.Registry, error) {
	modules := make([]report.Module, 0, numKeys)
	for _, k := range Keys() {
		modules = append(modules, k.Module(d))
	}
	return report.NewRegistry(modules...)
}

// col is shorthand for a column spec.
func col(header, key string) hrdocs.ColumnSpec {
	return hrdocs.ColumnSpec{Header: header, DataKey: key}
}
