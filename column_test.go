package hrdocs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	hrdocs "github.com/lvillar/hrdocs"
)

func TestStyleFor(t *testing.T) {
	cases := []struct {
		key  string
		want hrdocs.Alignment
	}{
		{"leave_days", hrdocs.AlignCenter},
		{"workdays", hrdocs.AlignCenter},
		{"amount", hrdocs.AlignRight},
		{"amount_value", hrdocs.AlignRight},
		{"taxable", hrdocs.AlignCenter},
		{"unit", hrdocs.AlignCenter},
		{"sso", hrdocs.AlignCenter},
		{"provident", hrdocs.AlignCenter},
		{"has_tax", hrdocs.AlignCenter},
		{"has_sso", hrdocs.AlignCenter},
		{"has_provident", hrdocs.AlignCenter},
		{"employee_code", hrdocs.AlignLeft},
		{"amount_total", hrdocs.AlignLeft},
		{"Days", hrdocs.AlignLeft},
		{"", hrdocs.AlignLeft},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, hrdocs.StyleFor(tc.key))
		})
	}
}

func TestStyleForPrecedence(t *testing.T) {
	// The day-count rule is checked before the amount rule.
	assert.Equal(t, hrdocs.AlignCenter, hrdocs.StyleFor("amount_days"))
}

func TestStyleForDeterministic(t *testing.T) {
	keys := []string{"sick_days", "amount", "has_sso", "name", "amount_value"}
	first := make([]hrdocs.Alignment, len(keys))
	for i, k := range keys {
		first[i] = hrdocs.StyleFor(k)
	}
	for round := 0; round < 3; round++ {
		for i := len(keys) - 1; i >= 0; i-- {
			assert.Equal(t, first[i], hrdocs.StyleFor(keys[i]), "key %q round %d", keys[i], round)
		}
	}
}
