// Package dossier renders one fixed-layout page per record: a personnel
// file with photo, identity grid, wrapped biography fields and keyword
// derived checkboxes.
package dossier

import (
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
)

// Field is a label and the row value printed next to it.
type Field struct {
	Label string
	Key   string
	Value func(hrdocs.Row) string // overrides Key when set
}

func (f Field) text(row hrdocs.Row) string {
	if f.Value != nil {
		return f.Value(row)
	}
	return row.Text(f.Key)
}

// Text shows the value under key as is.
func Text(label, key string) Field {
	return Field{Label: label, Key: key}
}

// Date shows the value under key as a long Thai date.
func Date(label, key string) Field {
	return Field{Label: label, Key: key, Value: func(r hrdocs.Row) string {
		return hrdocs.ThaiDate(r[key])
	}}
}

// Join shows the non-empty values under keys separated by sep.
func Join(label, sep string, keys ...string) Field {
	return Field{Label: label, Value: func(r hrdocs.Row) string {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := strings.TrimSpace(r.Text(k)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	}}
}

// Checkbox is ticked when its source text contains any of the keywords.
type Checkbox struct {
	Label    string
	Keywords []string
}

// Checked reports whether text matches the checkbox.
func (c Checkbox) Checked(text string) bool {
	return Matches(text, c.Keywords...)
}

// CheckGroup is a row of checkboxes fed by one free-text field.
type CheckGroup struct {
	Label string
	Key   string
	Boxes []Checkbox
}

// Matches reports whether text contains any keyword, ignoring case.
func Matches(text string, keywords ...string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Layout lists what goes where on a record page.
type Layout struct {
	PhotoKey   string // row key holding a photo ref
	BarcodeKey string // row key printed as a Code 128 barcode under the photo

	Identity   []Field // three-column grid beside the photo
	Details    []Field // biography and contact list, values wrapped
	Employment []Field
	Checks     []CheckGroup
}
