package hrdocs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hrdocs "github.com/lvillar/hrdocs"
)

func TestRowText(t *testing.T) {
	row := hrdocs.Row{
		"name":    "Somchai",
		"age":     42,
		"amount":  1234.5,
		"blob":    []byte("raw"),
		"nothing": nil,
		"odd":     struct{ A int }{1},
		"active":  true,
		"start":   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "Somchai", row.Text("name"))
	assert.Equal(t, "42", row.Text("age"))
	assert.Equal(t, "1,234.50", row.Text("amount"))
	assert.Equal(t, "raw", row.Text("blob"))
	assert.Equal(t, "", row.Text("nothing"))
	assert.Equal(t, "", row.Text("odd"))
	assert.Equal(t, "", row.Text("missing"))
	assert.Equal(t, "Y", row.Text("active"))
	assert.Equal(t, "15/01/2567", row.Text("start"))
}

func TestSummaryRow(t *testing.T) {
	assert.False(t, hrdocs.Row{"full_name": "Total"}.IsSummary())
	row := hrdocs.Summary(hrdocs.Row{"full_name": "Total"})
	assert.True(t, row.IsSummary())
	assert.Equal(t, "Total", row.Text("full_name"))
}

func TestRowFloatAndTime(t *testing.T) {
	row := hrdocs.Row{"salary": "25000.75", "bad": "n/a", "hired": "2023-06-01"}

	f, ok := row.Float("salary")
	require.True(t, ok)
	assert.InDelta(t, 25000.75, f, 1e-9)

	_, ok = row.Float("bad")
	assert.False(t, ok)

	tm, ok := row.Time("hired")
	require.True(t, ok)
	assert.Equal(t, 2023, tm.Year())

	_, ok = row.Time("missing")
	assert.False(t, ok)
}

func TestFilters(t *testing.T) {
	f := hrdocs.Filters{
		"groupFrom": " D01 ",
		"empty":     "  ",
		"limit":     10,
		"monthly":   "yes",
		"flag":      true,
	}

	s, ok := f.String("groupFrom")
	require.True(t, ok)
	assert.Equal(t, "D01", s)

	_, ok = f.String("empty")
	assert.False(t, ok)
	_, ok = f.String("unknown")
	assert.False(t, ok)

	s, ok = f.String("limit")
	require.True(t, ok)
	assert.Equal(t, "10", s)

	assert.True(t, f.Bool("monthly"))
	assert.True(t, f.Bool("flag"))
	assert.False(t, f.Bool("groupFrom"))
}
