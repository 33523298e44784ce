// Package filter turns user-facing filter values into store predicates.
//
// Three kinds of descriptor are understood: a closed range on a sortable
// field, a free-text label match and an explicit id. A range over a foreign
// key is resolved through its reference table: the codes in range are looked
// up, their surrogate ids collected, and the constraint rewritten as an IN
// over those ids.
package filter

import (
	"fmt"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/store"
)

// Kind identifies the shape of a descriptor.
type Kind int

const (
	KindRange Kind = iota
	KindLabel
	KindID
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindLabel:
		return "label"
	case KindID:
		return "id"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Reference describes a lookup table keyed by a sortable code.
type Reference struct {
	Collection string
	CodeField  string
	IDField    string
}

// Reference tables of the HR schema.
var (
	Department = Reference{Collection: "department", CodeField: "dept_code", IDField: "id"}
	Position   = Reference{Collection: "positions", CodeField: "position_code", IDField: "id"}
	Employee   = Reference{Collection: "employees", CodeField: "employee_code", IDField: "id"}
)

// Descriptor is one filter to resolve against Field.
type Descriptor struct {
	Field string
	Kind  Kind

	From, To any    // KindRange; nil or "" leaves the bound open
	Label    string // KindLabel
	ID       any    // KindID

	// Ref, when set on a range, means Field holds ids of Ref.Collection and
	// the bounds apply to Ref.CodeField.
	Ref *Reference
}

// Range constrains field to [from, to]. Either bound may be nil.
func Range(field string, from, to any) Descriptor {
	return Descriptor{Field: field, Kind: KindRange, From: from, To: to}
}

// RefRange constrains field to the ids whose code in ref lies in [from, to].
func RefRange(field string, ref Reference, from, to any) Descriptor {
	d := Range(field, from, to)
	d.Ref = &ref
	return d
}

// Label matches field case-insensitively against a substring.
func Label(field, text string) Descriptor {
	return Descriptor{Field: field, Kind: KindLabel, Label: text}
}

// ID matches field exactly.
func ID(field string, id any) Descriptor {
	return Descriptor{Field: field, Kind: KindID, ID: id}
}

// FromFilters builds a range descriptor from two filter keys. It returns
// false when neither bound is present.
func FromFilters(f hrdocs.Filters, field, fromKey, toKey string) (Descriptor, bool) {
	from, hasFrom := f.String(fromKey)
	to, hasTo := f.String(toKey)
	if !hasFrom && !hasTo {
		return Descriptor{}, false
	}
	d := Range(field, nil, nil)
	if hasFrom {
		d.From = from
	}
	if hasTo {
		d.To = to
	}
	return d, true
}

// WithRef returns a copy of d resolved through ref.
func (d Descriptor) WithRef(ref Reference) Descriptor {
	d.Ref = &ref
	return d
}

func isOpen(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// rangeConds returns the conditions for a literal range on field. Bounds are
// passed through unchanged so string codes compare as strings.
func rangeConds(field string, from, to any) []store.Cond {
	var conds []store.Cond
	if !isOpen(from) {
		conds = append(conds, store.Cond{Field: field, Op: store.OpGte, Value: from})
	}
	if !isOpen(to) {
		conds = append(conds, store.Cond{Field: field, Op: store.OpLte, Value: to})
	}
	return conds
}
