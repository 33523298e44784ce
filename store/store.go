// Package store defines the query-by-predicate boundary between report
// modules and the relational data service.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	hrdocs "github.com/lvillar/hrdocs"
)

// ErrInvalidField is returned for field or collection names that are not
// plain identifiers.
var ErrInvalidField = errors.New("store: invalid identifier")

// Op is a comparison operator.
type Op string

const (
	OpEq   Op = "="
	OpGte  Op = ">="
	OpLte  Op = "<="
	OpIn   Op = "in"
	OpLike Op = "like" // case-insensitive substring match
)

// Cond is a single field comparison.
type Cond struct {
	Field string
	Op    Op
	Value any // []any for OpIn
}

// Predicate is a conjunction of conditions. The zero value matches every row;
// a predicate with None set matches nothing.
type Predicate struct {
	Conds []Cond
	None  bool
}

// MatchNone is the predicate that selects no rows.
func MatchNone() Predicate {
	return Predicate{None: true}
}

// Where builds a predicate from conditions.
func Where(conds ...Cond) Predicate {
	return Predicate{Conds: conds}
}

// And returns the conjunction of p and q.
func (p Predicate) And(q Predicate) Predicate {
	if p.None || q.None {
		return MatchNone()
	}
	conds := make([]Cond, 0, len(p.Conds)+len(q.Conds))
	conds = append(conds, p.Conds...)
	conds = append(conds, q.Conds...)
	return Predicate{Conds: conds}
}

// IsZero reports whether p places no constraint.
func (p Predicate) IsZero() bool {
	return !p.None && len(p.Conds) == 0
}

// Query selects Fields from Collection where the predicate holds.
type Query struct {
	Collection string
	Fields     []string // empty means every column
	Where      Predicate
	OrderBy    []string
}

// Store reads rows from named collections.
type Store interface {
	Select(ctx context.Context, q Query) ([]hrdocs.Row, error)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate checks every identifier in the query.
func (q Query) Validate() error {
	names := make([]string, 0, 1+len(q.Fields)+len(q.Where.Conds)+len(q.OrderBy))
	names = append(names, q.Collection)
	names = append(names, q.Fields...)
	for _, c := range q.Where.Conds {
		names = append(names, c.Field)
	}
	names = append(names, q.OrderBy...)
	for _, n := range names {
		if !identRe.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidField, n)
		}
	}
	return nil
}

// Column returns the values of key across rows, skipping nils.
func Column(rows []hrdocs.Row, key string) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		if v, ok := r[key]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}
