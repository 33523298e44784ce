package hrdocs

import "strings"

// ColumnSpec maps a header label to the row key rendered under it.
// Order in a slice is the left-to-right column order.
type ColumnSpec struct {
	Header  string
	DataKey string
}

// Alignment is a horizontal cell alignment in fpdf notation.
type Alignment string

const (
	AlignLeft   Alignment = "L"
	AlignCenter Alignment = "C"
	AlignRight  Alignment = "R"
)

// flagKeys are boolean-like indicator columns, centered regardless of storage type.
var flagKeys = map[string]struct{}{
	"taxable":       {},
	"unit":          {},
	"sso":           {},
	"provident":     {},
	"has_tax":       {},
	"has_sso":       {},
	"has_provident": {},
}

// StyleFor returns the alignment of a column from its data key. Rules are
// checked in order and the first match wins, so "amount_days" is centered.
func StyleFor(dataKey string) Alignment {
	switch {
	case strings.HasSuffix(dataKey, "days"):
		return AlignCenter
	case dataKey == "amount" || dataKey == "amount_value":
		return AlignRight
	}
	if _, ok := flagKeys[dataKey]; ok {
		return AlignCenter
	}
	return AlignLeft
}

// StyleFunc resolves the alignment of a column.
type StyleFunc func(dataKey string) Alignment
