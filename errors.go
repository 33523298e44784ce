package hrdocs

import (
	"errors"
	"fmt"
)

// Sentinel errors for common report generation failure conditions.
var (
	ErrUnknownReport  = errors.New("hrdocs: unknown report")
	ErrDuplicateTitle = errors.New("hrdocs: duplicate report title")
	ErrFetch          = errors.New("hrdocs: fetching rows failed")
	ErrRender         = errors.New("hrdocs: rendering failed")
	ErrInvalidParam   = errors.New("hrdocs: invalid parameter")
	ErrInvalidMode    = errors.New("hrdocs: invalid output mode")
)

// ReportError represents an error that occurred during a specific stage of
// generating a report. It wraps an underlying error and includes the stage
// and report title for context.
type ReportError struct {
	Op     string // stage name, e.g. "fetch", "render", "assemble"
	Report string // report title
	Err    error  // underlying error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hrdocs.%s %q: %v", e.Op, e.Report, e.Err)
	}
	return fmt.Sprintf("hrdocs.%s %q: unknown error", e.Op, e.Report)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError wrapping err with stage context.
func NewReportError(op, report string, err error) *ReportError {
	return &ReportError{Op: op, Report: report, Err: err}
}
