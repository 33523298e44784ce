// Package table renders tabular reports: a centered title, a header row that
// repeats on every page, and a body grid that breaks across pages on its own.
//
// It draws onto an hrdocs.Document and takes per-column alignment from a
// style function so numeric and flag columns line up consistently in the
// header and the body.
package table

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// FontSpec defines font properties for text rendering. An empty Family means
// the document body family.
type FontSpec struct {
	Family string
	Style  string  // "", "B"
	Size   float64 // in points
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color RGBColor
}

// CellStyle defines the visual appearance of a cell.
type CellStyle struct {
	FillColor *RGBColor
	TextColor *RGBColor
	Font      *FontSpec
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Border        *BorderStyle
	AlternateRows *AlternateStyle
	HeaderStyle   *CellStyle
	CellPadding   Padding
	CellFont      *FontSpec
}

// ReportStyle is the look used by RenderReport.
func ReportStyle() TableStyle {
	return TableStyle{
		CellPadding: UniformPadding(1.5),
		Border:      &BorderStyle{Width: 0.2, Color: RGBColor{R: 120, G: 120, B: 120}},
		CellFont:    &FontSpec{Size: 9},
		HeaderStyle: &CellStyle{
			FillColor: &RGBColor{R: 225, G: 230, B: 240},
			Font:      &FontSpec{Style: "B", Size: 9},
		},
		AlternateRows: &AlternateStyle{
			Odd: CellStyle{FillColor: &RGBColor{R: 247, G: 247, B: 247}},
		},
	}
}

// SummaryStyle emphasizes totals lines.
func SummaryStyle() CellStyle {
	return CellStyle{
		FillColor: &RGBColor{R: 225, G: 230, B: 240},
		TextColor: &RGBColor{R: 20, G: 40, B: 90},
		Font:      &FontSpec{Style: "B", Size: 9},
	}
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
}
