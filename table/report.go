package table

import (
	hrdocs "github.com/lvillar/hrdocs"
)

const (
	titleTop  = 12.0 // title baseline box offset from the top edge
	titleSize = 14.0
)

// RenderReport lays out a complete tabular report: a centered title on the
// first page, a header built from columns, one body row per input row, and
// "page i / total" stamped bottom-right on every page once layout is done.
//
// Cell values come from Row.Text, so missing keys render empty. Rows marked
// with hrdocs.Summary draw in SummaryStyle. The style
// function decides each column's alignment for header and body alike; nil
// means hrdocs.StyleFor.
func RenderReport(doc *hrdocs.Document, title string, columns []hrdocs.ColumnSpec, rows []hrdocs.Row, styleFor hrdocs.StyleFunc) error {
	if styleFor == nil {
		styleFor = hrdocs.StyleFor
	}

	doc.AddPage()
	doc.SetY(titleTop)
	doc.SetBodyFont("B", titleSize)
	doc.CellFormat(0, 8, doc.Printable(title), "", 1, "C", false, 0, "")
	doc.Ln(4)

	tbl := New(doc).SetStyle(ReportStyle())
	defs := make([]ColumnDef, len(columns))
	for i, c := range columns {
		defs[i] = ColumnDef{Align: styleFor(c.DataKey), MinWidth: 10}
	}
	tbl.SetColumns(defs...)

	header := tbl.AddHeaderRow()
	for _, c := range columns {
		header.AddCell(doc.Printable(c.Header))
	}
	for _, row := range rows {
		r := tbl.AddRow()
		if row.IsSummary() {
			r.SetStyle(SummaryStyle())
		}
		for _, c := range columns {
			r.AddCell(doc.Printable(row.Text(c.DataKey)))
		}
	}

	if len(columns) > 0 {
		if err := tbl.Render(); err != nil {
			return err
		}
	}

	doc.StampPageNumbers(hrdocs.BottomRight)
	return doc.Error()
}
