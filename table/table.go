package table

import (
	"math"
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
)

const (
	defaultFontSize = 9.0
	lineFactor      = 1.5 // line height as a multiple of the font size
	minRowHeight    = 5.0
)

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width    float64          // Fixed width. 0 means sized from content.
	MinWidth float64          // Minimum width for content-sized columns.
	Align    hrdocs.Alignment // Alignment of every cell in the column, header included.
}

// Table is a table builder drawing onto a document.
type Table struct {
	doc        *hrdocs.Document
	columns    []ColumnDef
	rows       []*Row
	headerRows int
	style      TableStyle
}

// New creates a new Table associated with the given document.
func New(doc *hrdocs.Document) *Table {
	return &Table{
		doc: doc,
		style: TableStyle{
			CellPadding: UniformPadding(1),
		},
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// AddHeaderRow adds a new header row and returns it for chaining. Header
// rows always precede data rows and repeat at the top of each new page.
func (t *Table) AddHeaderRow() *Row {
	r := &Row{isHeader: true}
	t.rows = append(t.rows, nil)
	copy(t.rows[t.headerRows+1:], t.rows[t.headerRows:])
	t.rows[t.headerRows] = r
	t.headerRows++
	return r
}

// Render draws the table starting at the current cursor position, breaking
// pages when a body row would cross the bottom margin.
func (t *Table) Render() error {
	if t.doc.Err() {
		return t.doc.Error()
	}

	widths := t.calculateWidths()
	startX := t.doc.GetX()
	headerRows := t.rows[:t.headerRows]
	bodyRows := t.rows[t.headerRows:]

	for _, r := range headerRows {
		t.renderRow(r, widths, startX, -1)
	}

	// room is the body height of a page that starts with the header rows
	_, top, _, _ := t.doc.GetMargins()
	room := t.doc.PrintableBottom() - top - 0.01
	for _, hr := range headerRows {
		room -= t.calculateRowHeight(hr, widths, -1)
	}

	for i, r := range bodyRows {
		for _, part := range t.splitRow(r, widths, i, room) {
			rowH := t.calculateRowHeight(part, widths, i)
			if t.doc.GetY()+rowH > t.doc.PrintableBottom() {
				t.doc.AddPage()
				for _, hr := range headerRows {
					t.renderRow(hr, widths, startX, -1)
				}
			}
			t.renderRow(part, widths, startX, i)
		}
	}

	return t.doc.Error()
}

// calculateWidths computes final column widths. Fixed columns keep their
// width; the rest share the remaining space in proportion to their widest
// cell.
func (t *Table) calculateWidths() []float64 {
	totalWidth := t.doc.ContentWidth()

	numCols := len(t.columns)
	if numCols == 0 {
		if len(t.rows) > 0 {
			numCols = len(t.rows[0].cells)
		}
		if numCols == 0 {
			return nil
		}
		t.columns = make([]ColumnDef, numCols)
	}

	natural := t.naturalWidths(numCols)
	for i := range natural {
		// one very long cell must not starve the other columns
		natural[i] = math.Min(natural[i], totalWidth*0.4)
	}
	widths := make([]float64, numCols)
	fixedTotal, autoTotal := 0.0, 0.0
	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixedTotal += col.Width
		} else {
			autoTotal += natural[i]
		}
	}

	remaining := math.Max(totalWidth-fixedTotal, 0)
	for i, col := range t.columns {
		if col.Width > 0 {
			continue
		}
		w := remaining / float64(numCols)
		if autoTotal > 0 {
			w = remaining * natural[i] / autoTotal
		}
		if col.MinWidth > 0 && w < col.MinWidth {
			w = col.MinWidth
		}
		widths[i] = w
	}
	return widths
}

// naturalWidths measures the widest cell of each column including padding.
func (t *Table) naturalWidths(numCols int) []float64 {
	pad := t.style.CellPadding.Left + t.style.CellPadding.Right
	natural := make([]float64, numCols)
	for idx, r := range t.rows {
		body := -1
		if !r.isHeader {
			body = idx - t.headerRows
		}
		for i, cell := range r.cells {
			if i >= numCols {
				break
			}
			t.applyFont(t.resolveCellStyle(r, body))
			w := t.doc.GetStringWidth(cell.text) + pad
			if w > natural[i] {
				natural[i] = w
			}
		}
	}
	for i := range natural {
		if natural[i] == 0 {
			natural[i] = pad + 1
		}
	}
	return natural
}

// calculateRowHeight computes the height needed for a row based on cell content.
func (t *Table) calculateRowHeight(r *Row, widths []float64, bodyIdx int) float64 {
	maxH := minRowHeight
	padding := t.style.CellPadding

	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		contentW := math.Max(widths[i]-padding.Left-padding.Right, 1)
		t.applyFont(t.resolveCellStyle(r, bodyIdx))
		lines := len(t.doc.SplitText(cell.text, contentW))
		if lines < 1 {
			lines = 1
		}
		cellH := float64(lines)*t.lineHeight() + padding.Top + padding.Bottom
		if cellH > maxH {
			maxH = cellH
		}
	}
	return maxH
}

// splitRow cuts a row taller than maxH into consecutive rows of at most
// maxH each, so no single row crosses a page break on its own.
func (t *Table) splitRow(r *Row, widths []float64, bodyIdx int, maxH float64) []*Row {
	if t.calculateRowHeight(r, widths, bodyIdx) <= maxH {
		return []*Row{r}
	}
	padding := t.style.CellPadding
	t.applyFont(t.resolveCellStyle(r, bodyIdx))
	perPart := int(math.Floor((maxH - padding.Top - padding.Bottom) / t.lineHeight()))
	if perPart < 1 {
		perPart = 1
	}

	lines := make([][]string, len(r.cells))
	parts := 1
	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		contentW := math.Max(widths[i]-padding.Left-padding.Right, 1)
		lines[i] = t.doc.SplitText(cell.text, contentW)
		if n := (len(lines[i]) + perPart - 1) / perPart; n > parts {
			parts = n
		}
	}

	out := make([]*Row, parts)
	for p := range out {
		part := &Row{style: r.style}
		for i := range r.cells {
			lo, hi := p*perPart, (p+1)*perPart
			if lo > len(lines[i]) {
				lo = len(lines[i])
			}
			if hi > len(lines[i]) {
				hi = len(lines[i])
			}
			part.AddCell(strings.Join(lines[i][lo:hi], "\n"))
		}
		out[p] = part
	}
	return out
}

func (t *Table) lineHeight() float64 {
	_, unitSize := t.doc.GetFontSize()
	return unitSize * lineFactor
}

// renderRow renders a single row at the current y position.
func (t *Table) renderRow(r *Row, widths []float64, startX float64, bodyIdx int) {
	rowH := t.calculateRowHeight(r, widths, bodyIdx)
	padding := t.style.CellPadding

	t.doc.SetX(startX)
	y := t.doc.GetY()
	x := startX

	for i, cell := range r.cells {
		if i >= len(widths) {
			break
		}
		cellW := widths[i]
		style := t.resolveCellStyle(r, bodyIdx)

		if style.FillColor != nil {
			t.doc.SetFillColor(style.FillColor.R, style.FillColor.G, style.FillColor.B)
			t.doc.Rect(x, y, cellW, rowH, "F")
		}
		if t.style.Border != nil {
			bc := t.style.Border.Color
			t.doc.SetDrawColor(bc.R, bc.G, bc.B)
			if t.style.Border.Width > 0 {
				t.doc.SetLineWidth(t.style.Border.Width)
			}
			t.doc.Rect(x, y, cellW, rowH, "D")
		}

		if style.TextColor != nil {
			t.doc.SetTextColor(style.TextColor.R, style.TextColor.G, style.TextColor.B)
		}
		t.applyFont(style)

		align := string(hrdocs.AlignLeft)
		if i < len(t.columns) && t.columns[i].Align != "" {
			align = string(t.columns[i].Align)
		}

		contentW := cellW - padding.Left - padding.Right
		lineH := t.lineHeight()
		t.doc.SetXY(x+padding.Left, y+padding.Top)
		if len(t.doc.SplitText(cell.text, contentW)) > 1 {
			t.doc.MultiCell(contentW, lineH, cell.text, "", align, false)
		} else {
			t.doc.CellFormat(contentW, lineH, cell.text, "", 0, align, false, 0, "")
		}

		x += cellW
		t.doc.SetXY(x, y)
	}

	t.doc.SetDrawColor(0, 0, 0)
	t.doc.SetFillColor(0, 0, 0)
	t.doc.SetTextColor(0, 0, 0)
	t.doc.SetXY(startX, y+rowH)
}

func (t *Table) applyFont(style CellStyle) {
	family, fontStyle, size := t.doc.Family, "", defaultFontSize
	if f := style.Font; f != nil {
		if f.Family != "" {
			family = f.Family
		}
		fontStyle = f.Style
		if f.Size > 0 {
			size = f.Size
		}
	}
	t.doc.SetFont(family, fontStyle, size)
}

// resolveCellStyle determines the effective style for a cell by merging
// table, header, alternate row and row styles.
func (t *Table) resolveCellStyle(row *Row, bodyIdx int) CellStyle {
	var result CellStyle
	if t.style.CellFont != nil {
		result.Font = t.style.CellFont
	}
	if row.isHeader && t.style.HeaderStyle != nil {
		mergeStyle(&result, t.style.HeaderStyle)
	}
	if !row.isHeader && t.style.AlternateRows != nil && bodyIdx >= 0 {
		if bodyIdx%2 == 0 {
			mergeStyle(&result, &t.style.AlternateRows.Even)
		} else {
			mergeStyle(&result, &t.style.AlternateRows.Odd)
		}
	}
	if row.style != nil {
		mergeStyle(&result, row.style)
	}
	return result
}
