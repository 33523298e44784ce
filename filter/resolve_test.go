package filter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/filter"
	"github.com/lvillar/hrdocs/internal/testdb"
	"github.com/lvillar/hrdocs/store"
)

type failingStore struct{ calls int }

func (f *failingStore) Select(context.Context, store.Query) ([]hrdocs.Row, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestResolveLiteralRange(t *testing.T) {
	r := filter.NewResolver(&failingStore{})
	p := r.Resolve(context.Background(), filter.Range("employee_code", "E002", "E004"))
	require.False(t, p.None)
	assert.Equal(t, []store.Cond{
		{Field: "employee_code", Op: store.OpGte, Value: "E002"},
		{Field: "employee_code", Op: store.OpLte, Value: "E004"},
	}, p.Conds)
}

func TestResolveOpenBounds(t *testing.T) {
	r := filter.NewResolver(&failingStore{})
	ctx := context.Background()

	p := r.Resolve(ctx, filter.Range("employee_code", nil, "E004"))
	assert.Equal(t, []store.Cond{{Field: "employee_code", Op: store.OpLte, Value: "E004"}}, p.Conds)

	p = r.Resolve(ctx, filter.Range("employee_code", "", nil))
	assert.True(t, p.IsZero())
}

func TestResolveBoundsStayLiteral(t *testing.T) {
	r := filter.NewResolver(&failingStore{})
	p := r.Resolve(context.Background(), filter.Range("employee_code", "10", "9"))
	require.Len(t, p.Conds, 2)
	assert.IsType(t, "", p.Conds[0].Value)
	assert.Equal(t, "9", p.Conds[1].Value)
}

func TestResolveLabelAndID(t *testing.T) {
	r := filter.NewResolver(&failingStore{})
	p := r.Resolve(context.Background(),
		filter.Label("first_name", "som"),
		filter.ID("id", 7),
		filter.Label("last_name", ""),
	)
	assert.Equal(t, []store.Cond{
		{Field: "first_name", Op: store.OpLike, Value: "som"},
		{Field: "id", Op: store.OpEq, Value: 7},
	}, p.Conds)
}

func TestResolveReferenceRange(t *testing.T) {
	db := testdb.Open(t)
	r := filter.NewResolver(db)
	p := r.Resolve(context.Background(), filter.RefRange("department_id", filter.Department, "D20", "D30"))
	require.False(t, p.None)
	require.Len(t, p.Conds, 1)
	assert.Equal(t, "department_id", p.Conds[0].Field)
	assert.Equal(t, store.OpIn, p.Conds[0].Op)
	assert.EqualValues(t, []any{int64(2), int64(3)}, p.Conds[0].Value)

	rows, err := db.Select(context.Background(), store.Query{
		Collection: "employees",
		Fields:     []string{"employee_code"},
		Where:      p,
		OrderBy:    []string{"employee_code"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "E002", rows[0]["employee_code"])
}

func TestResolveEmptyReferenceRangeMatchesNothing(t *testing.T) {
	db := testdb.Open(t)
	r := filter.NewResolver(db)
	p := r.Resolve(context.Background(),
		filter.RefRange("department_id", filter.Department, "D01", "D05"),
		filter.Range("employee_code", "E001", nil),
	)
	assert.True(t, p.None)

	rows, err := db.Select(context.Background(), store.Query{Collection: "employees", Where: p})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestResolveLookupFailureDropsConstraint(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fs := &failingStore{}
	r := filter.NewResolver(fs, filter.WithLogger(zap.New(core)))

	p := r.Resolve(context.Background(),
		filter.RefRange("position_id", filter.Position, "P01", "P02"),
		filter.Range("employee_code", "E001", "E003"),
	)
	assert.Equal(t, 1, fs.calls)
	assert.False(t, p.None)
	assert.Equal(t, []store.Cond{
		{Field: "employee_code", Op: store.OpGte, Value: "E001"},
		{Field: "employee_code", Op: store.OpLte, Value: "E003"},
	}, p.Conds)

	entries := logs.FilterMessage("reference lookup failed, constraint dropped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "position_id", entries[0].ContextMap()["field"])
	assert.Equal(t, "positions", entries[0].ContextMap()["collection"])
}

func TestFromFilters(t *testing.T) {
	f := hrdocs.Filters{"groupFrom": " D01 ", "groupTo": "", "other": 3}

	d, ok := filter.FromFilters(f, "department_id", "groupFrom", "groupTo")
	require.True(t, ok)
	assert.Equal(t, "D01", d.From)
	assert.Nil(t, d.To)
	assert.Nil(t, d.Ref)

	d = d.WithRef(filter.Department)
	require.NotNil(t, d.Ref)
	assert.Equal(t, "department", d.Ref.Collection)

	_, ok = filter.FromFilters(f, "position_id", "posFrom", "posTo")
	assert.False(t, ok)
}
