// Package databasetest provides an in-memory database.DB for repository and
// seeder tests.
package databasetest

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"majormatch/internal/database"
)

type Call struct {
	Query string
	Args  []any
}

// FakeDB records every statement. Query results come from Rows, keyed by a
// substring of the query text; the first matching key wins in sorted order.
type FakeDB struct {
	mu sync.Mutex

	Rows    map[string][][]any
	FailOn  map[string]error
	PingErr error

	Execs      []Call
	Queries    []Call
	Commits   int
	Rollbacks int
}

func New() *FakeDB {
	return &FakeDB{Rows: map[string][][]any{}, FailOn: map[string]error{}}
}

func (f *FakeDB) failure(query string) error {
	for _, k := range slices.Sorted(maps.Keys(f.FailOn)) {
		if strings.Contains(query, k) {
			return f.FailOn[k]
		}
	}
	return nil
}

func (f *FakeDB) Ping(context.Context) error { return f.PingErr }

func (f *FakeDB) Close() error { return nil }

func (f *FakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Execs = append(f.Execs, Call{Query: query, Args: args})
	if err := f.failure(query); err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *FakeDB) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, Call{Query: query, Args: args})
	if err := f.failure(query); err != nil {
		return nil, err
	}
	for _, k := range slices.Sorted(maps.Keys(f.Rows)) {
		if strings.Contains(query, k) {
			return &fakeRows{rows: f.Rows[k], pos: -1}, nil
		}
	}
	return &fakeRows{pos: -1}, nil
}

func (f *FakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	rows, err := f.Query(ctx, query, args...)
	if err != nil {
		return errRow{err: err}
	}
	r := rows.(*fakeRows)
	if !r.Next() {
		return errRow{err: sql.ErrNoRows}
	}
	return r
}

func (f *FakeDB) Begin(context.Context) (database.Tx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("BEGIN"); err != nil {
		return nil, err
	}
	return &fakeTx{db: f}, nil
}

func (f *FakeDB) SQLDB() *sql.DB { return nil }

// ExecsMatching returns the recorded Exec calls whose query contains substr.
func (f *FakeDB) ExecsMatching(substr string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Execs {
		if strings.Contains(c.Query, substr) {
			out = append(out, c)
		}
	}
	return out
}

type fakeTx struct {
	db   *FakeDB
	done bool
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return t.db.Exec(ctx, query, args...)
}

func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, query, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRow(ctx, query, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Commits++
	t.db.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.db.mu.Lock()
	t.db.Rollbacks++
	t.db.mu.Unlock()
	return nil
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return sql.ErrNoRows
	}
	row := r.rows[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		src := reflect.ValueOf(row[i])
		switch {
		case src.Type().AssignableTo(target.Type()):
			target.Set(src)
		case target.Kind() == reflect.Pointer && src.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(src)
			target.Set(p)
		case src.Type().ConvertibleTo(target.Type()):
			target.Set(src.Convert(target.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", row[i], target.Type())
		}
	}
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
