package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/hrdocs/store"
	"github.com/lvillar/hrdocs/store/sqlstore"
)

func openDepartments(t *testing.T) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()
	s, err := sqlstore.Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.DB().ExecContext(ctx, `
CREATE TABLE department (id INTEGER PRIMARY KEY, dept_code TEXT NOT NULL, dept_name TEXT NOT NULL);
INSERT INTO department (id, dept_code, dept_name) VALUES
  (1, 'D10', 'Accounting'),
  (2, 'D20', 'Human Resources'),
  (3, 'D30', 'Production'),
  (4, 'D40', 'Quality Control');`)
	require.NoError(t, err)
	return s
}

func TestSelectRange(t *testing.T) {
	s := openDepartments(t)
	rows, err := s.Select(context.Background(), store.Query{
		Collection: "department",
		Fields:     []string{"id", "dept_code"},
		Where: store.Where(
			store.Cond{Field: "dept_code", Op: store.OpGte, Value: "D20"},
			store.Cond{Field: "dept_code", Op: store.OpLte, Value: "D30"},
		),
		OrderBy: []string{"dept_code"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "D20", rows[0]["dept_code"])
	assert.EqualValues(t, 3, rows[1]["id"])
}

func TestSelectInAndLike(t *testing.T) {
	s := openDepartments(t)
	ctx := context.Background()

	rows, err := s.Select(ctx, store.Query{
		Collection: "department",
		Where:      store.Where(store.Cond{Field: "id", Op: store.OpIn, Value: []any{int64(1), int64(4)}}),
		OrderBy:    []string{"id"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Quality Control", rows[1]["dept_name"])

	rows, err = s.Select(ctx, store.Query{
		Collection: "department",
		Where:      store.Where(store.Cond{Field: "dept_name", Op: store.OpLike, Value: "RESOURCE"}),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "D20", rows[0]["dept_code"])
}

func TestLikeTreatsWildcardsLiterally(t *testing.T) {
	s := openDepartments(t)
	ctx := context.Background()
	_, err := s.DB().ExecContext(ctx, `INSERT INTO department (id, dept_code, dept_name) VALUES
  (5, 'D50', '100% Sales'),
  (6, 'D60', 'R_D Lab!')`)
	require.NoError(t, err)

	like := func(v string) []string {
		rows, err := s.Select(ctx, store.Query{
			Collection: "department",
			Where:      store.Where(store.Cond{Field: "dept_name", Op: store.OpLike, Value: v}),
			OrderBy:    []string{"dept_code"},
		})
		require.NoError(t, err)
		var codes []string
		for _, r := range rows {
			codes = append(codes, r["dept_code"].(string))
		}
		return codes
	}

	assert.Len(t, like("%"), 1, "percent only matches itself")
	assert.Equal(t, []string{"D50"}, like("0% s"))
	assert.Equal(t, []string{"D60"}, like("r_d"))
	assert.Equal(t, []string{"D60"}, like("lab!"))
	assert.Len(t, like(""), 6)
}

func TestBuildEscapesLikePattern(t *testing.T) {
	s, err := sqlstore.New(nil, "postgres")
	require.NoError(t, err)
	query, args, err := s.Build(store.Query{
		Collection: "department",
		Where:      store.Where(store.Cond{Field: "dept_name", Op: store.OpLike, Value: "50%_off!"}),
	})
	require.NoError(t, err)
	assert.Contains(t, query, "LOWER(dept_name) LIKE $1 ESCAPE '!'")
	assert.Equal(t, []any{"%50!%!_off!!%"}, args)
}

func TestSelectEmptyInMatchesNothing(t *testing.T) {
	s := openDepartments(t)
	rows, err := s.Select(context.Background(), store.Query{
		Collection: "department",
		Where:      store.Where(store.Cond{Field: "id", Op: store.OpIn, Value: []any{}}),
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSelectMatchNoneSkipsQuery(t *testing.T) {
	s := openDepartments(t)
	// The collection does not exist; a None predicate never reaches the database.
	rows, err := s.Select(context.Background(), store.Query{Collection: "missing", Where: store.MatchNone()})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSelectRejectsBadIdentifiers(t *testing.T) {
	s := openDepartments(t)
	_, err := s.Select(context.Background(), store.Query{Collection: "department; DROP TABLE department"})
	assert.ErrorIs(t, err, store.ErrInvalidField)

	_, err = s.Select(context.Background(), store.Query{
		Collection: "department",
		Where:      store.Where(store.Cond{Field: "id) OR (1", Op: store.OpEq, Value: 1}),
	})
	assert.ErrorIs(t, err, store.ErrInvalidField)
}

func TestBuildPostgresPlaceholders(t *testing.T) {
	s, err := sqlstore.New(nil, "postgres")
	require.NoError(t, err)
	query, args, err := s.Build(store.Query{
		Collection: "employees",
		Fields:     []string{"id"},
		Where: store.Where(
			store.Cond{Field: "employee_code", Op: store.OpGte, Value: "E001"},
			store.Cond{Field: "department_id", Op: store.OpIn, Value: []any{1, 2}},
		),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM employees WHERE employee_code >= $1 AND department_id IN ($2,$3)", query)
	assert.Equal(t, []any{"E001", 1, 2}, args)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
}
