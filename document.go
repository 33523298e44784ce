package hrdocs

import (
	"context"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// Document is the drawing surface owned by a single generation call.
type Document struct {
	*fpdf.Fpdf
	Family   string // body font family
	Geometry Geometry

	translate func(string) string // nil once a UTF-8 family is registered
	pageHooks []func()
}

// OnNewPage registers fn to run at the start of every page, before any
// content is drawn. Hooks run in registration order.
func (d *Document) OnNewPage(fn func()) {
	d.pageHooks = append(d.pageHooks, fn)
	if len(d.pageHooks) > 1 {
		return
	}
	d.SetHeaderFunc(func() {
		for _, h := range d.pageHooks {
			h()
		}
	})
}

// RenderFunc draws rows onto doc. Modules that need a fixed per-record layout
// supply one instead of relying on the generic table.
type RenderFunc func(ctx context.Context, doc *Document, rows []Row, filters Filters) error

// SetBodyFont selects the body family with the given style ("" or "B").
func (d *Document) SetBodyFont(style string, size float64) {
	d.SetFont(d.Family, style, size)
}

// Printable maps s onto what the body font can draw. Core fonts are
// limited to cp1252; other runes print as dots.
func (d *Document) Printable(s string) string {
	if d.translate == nil {
		return s
	}
	return d.translate(s)
}

// ContentWidth is the page width between the left and right margins.
func (d *Document) ContentWidth() float64 {
	w, _ := d.GetPageSize()
	l, _, r, _ := d.GetMargins()
	return w - l - r
}

// PrintableBottom is the lowest y coordinate content may reach.
func (d *Document) PrintableBottom() float64 {
	_, h := d.GetPageSize()
	_, _, _, b := d.GetMargins()
	return h - b
}

// Corner selects where page numbers are stamped.
type Corner int

const (
	BottomRight Corner = iota
	TopRight
)

// PageLabel is the format of the page number stamp.
const PageLabel = "page %d / %d"

// StampPageNumbers writes "page i / total" on every page at the given corner.
// It must run after layout is complete since the total is only known then.
func (d *Document) StampPageNumbers(corner Corner) {
	total := d.PageCount()
	if total == 0 {
		return
	}
	w, h := d.GetPageSize()
	_, top, right, bottom := d.GetMargins()

	d.SetBodyFont("", 8)
	for i := 1; i <= total; i++ {
		d.SetPage(i)
		label := fmt.Sprintf(PageLabel, i, total)
		x := w - right - d.GetStringWidth(label)
		y := h - bottom/2
		if corner == TopRight {
			y = top / 2
		}
		d.Text(x, y, label)
	}
	d.SetPage(total)
}
