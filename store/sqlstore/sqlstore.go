// Package sqlstore implements store.Store on database/sql. Queries are built
// with squirrel so the same predicates run on PostgreSQL (pgx), MySQL and
// SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/store"
)

// Store runs predicate queries against a SQL database.
type Store struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for query tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// dialect maps a configured driver name onto the registered database/sql
// driver and its placeholder style.
func dialect(driver string) (string, sq.PlaceholderFormat, error) {
	switch strings.ToLower(driver) {
	case "pgx", "postgres", "postgresql":
		return "pgx", sq.Dollar, nil
	case "mysql":
		return "mysql", sq.Question, nil
	case "sqlite", "sqlite3":
		return "sqlite", sq.Question, nil
	}
	return "", nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	name, _, err := dialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", name, err)
	}
	if name == "sqlite" && strings.Contains(dsn, ":memory:") {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", name, err)
	}
	return New(db, driver, opts...)
}

// New wraps an existing connection pool.
func New(db *sql.DB, driver string, opts ...Option) (*Store, error) {
	_, placeholder, err := dialect(driver)
	if err != nil {
		return nil, err
	}
	s := &Store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// likeEscaper makes LIKE wildcards in user text match literally. '!' is the
// escape character because backslash literals differ between dialects.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Build renders q as SQL text and arguments.
func (s *Store) Build(q store.Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	fields := q.Fields
	if len(fields) == 0 {
		fields = []string{"*"}
	}
	b := s.builder.Select(fields...).From(q.Collection)
	for _, c := range q.Where.Conds {
		switch c.Op {
		case store.OpEq, store.OpIn:
			b = b.Where(sq.Eq{c.Field: c.Value})
		case store.OpGte:
			b = b.Where(sq.GtOrEq{c.Field: c.Value})
		case store.OpLte:
			b = b.Where(sq.LtOrEq{c.Field: c.Value})
		case store.OpLike:
			pattern := "%" + likeEscaper.Replace(strings.ToLower(hrdocs.FormatFilterValue(c.Value))) + "%"
			b = b.Where(sq.Expr("LOWER("+c.Field+") LIKE ? ESCAPE '!'", pattern))
		default:
			return "", nil, fmt.Errorf("sqlstore: unsupported operator %q on %s", c.Op, c.Field)
		}
	}
	if len(q.OrderBy) > 0 {
		b = b.OrderBy(q.OrderBy...)
	}
	return b.ToSql()
}

// Select implements store.Store.
func (s *Store) Select(ctx context.Context, q store.Query) ([]hrdocs.Row, error) {
	if q.Where.None {
		return []hrdocs.Row{}, nil
	}
	query, args, err := s.Build(q)
	if err != nil {
		return nil, err
	}
	s.log.Debug("select", zap.String("collection", q.Collection), zap.String("sql", query), zap.Int("args", len(args)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: select %s: %w", q.Collection, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: select %s: %w", q.Collection, err)
	}
	out := []hrdocs.Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlstore: scan %s: %w", q.Collection, err)
		}
		r := make(hrdocs.Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				r[c] = string(b)
				continue
			}
			r[c] = vals[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: select %s: %w", q.Collection, err)
	}
	return out, nil
}
