package queryweaver

import (
	"context"
	"strconv"
)

/*
The minimal database-client contract the query helper delegates to. Implement
it over any driver; `PgxQueryable` adapts a pgx pool. Errors returned by the
client propagate unchanged; the helper never interprets or retries them.
*/
type Queryable interface {
	Query(ctx context.Context, text string, args ...any) (Rows, error)
	Exec(ctx context.Context, text string, args ...any) (int64, error)
}

// Result-set contract returned by `Queryable.Query`.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
	Columns() []string
	Err() error
	Close()
}

/*
Thin query-execution wrapper: renders a fragment tree to `$N` text plus bound
values and delegates to the wrapped client. Construct with `NewHelper`.

The transaction nesting counter is instance-scoped. A helper is not safe for
concurrent use of `Begin` from multiple goroutines; sequential or nested use
within one logical call chain is supported.
*/
type Helper struct {
	client Queryable
	depth  int

	// When set, observes every error before it's returned, with the rendered
	// statement that caused it. Errors are returned unchanged regardless.
	ErrorHook func(err error, text string, args []any)
}

func NewHelper(client Queryable) *Helper { return &Helper{client: client} }

// The wrapped client, for operations outside this wrapper's surface.
func (self *Helper) Client() Queryable { return self.client }

func (self *Helper) fail(err error, text string, args []any) error {
	if self.ErrorHook != nil {
		self.ErrorHook(err, text, args)
	}
	return err
}

// Renders the fragment and delegates to the client's `Query`.
func (self *Helper) Query(ctx context.Context, frag *Composite) (Rows, error) {
	text, args := frag.Reify()
	rows, err := self.client.Query(ctx, text, args...)
	if err != nil {
		return nil, self.fail(err, text, args)
	}
	return rows, nil
}

// Renders the fragment and delegates to the client's `Exec`, returning the
// affected row count.
func (self *Helper) Exec(ctx context.Context, frag *Composite) (int64, error) {
	text, args := frag.Reify()
	count, err := self.client.Exec(ctx, text, args...)
	if err != nil {
		return 0, self.fail(err, text, args)
	}
	return count, nil
}

// Runs the query and collects every row as a column-name-keyed map.
func (self *Helper) GetRows(ctx context.Context, frag *Composite) ([]map[string]any, error) {
	text, args := frag.Reify()
	rows, err := self.client.Query(ctx, text, args...)
	if err != nil {
		return nil, self.fail(err, text, args)
	}
	defer rows.Close()

	cols := rows.Columns()
	var out []map[string]any

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, self.fail(err, text, args)
		}
		rec := make(map[string]any, len(cols))
		for ind, col := range cols {
			rec[col] = vals[ind]
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, self.fail(err, text, args)
	}
	return out, nil
}

// Runs the query and returns the first row as a map, or nil when the result
// set is empty.
func (self *Helper) GetRow(ctx context.Context, frag *Composite) (map[string]any, error) {
	rows, err := self.GetRows(ctx, frag)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Runs the query and returns the first column of the first row, or nil when
// the result set is empty.
func (self *Helper) GetOne(ctx context.Context, frag *Composite) (any, error) {
	text, args := frag.Reify()
	rows, err := self.client.Query(ctx, text, args...)
	if err != nil {
		return nil, self.fail(err, text, args)
	}
	defer rows.Close()

	var out any
	if rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, self.fail(err, text, args)
		}
		if len(vals) > 0 {
			out = vals[0]
		}
	}

	if err := rows.Err(); err != nil {
		return nil, self.fail(err, text, args)
	}
	return out, nil
}

// Wraps the fragment in `select count(*)` and returns the count.
func (self *Helper) GetCount(ctx context.Context, frag *Composite) (int64, error) {
	val, err := self.GetOne(ctx, SQL(`SELECT count(*) FROM ($1) _`, frag))
	if err != nil {
		return 0, err
	}
	return toInt64(val)
}

// Builds and executes an insert. See `BuildInsert` for the row shapes.
func (self *Helper) Insert(ctx context.Context, table string, rows any, appendix ...any) (_ int64, err error) {
	defer rec(&err)
	return self.Exec(ctx, BuildInsert(table, rows, appendix...))
}

// Builds and executes an update. See `BuildUpdate`.
func (self *Helper) Update(ctx context.Context, table string, fields any, where any, appendix ...any) (_ int64, err error) {
	defer rec(&err)
	return self.Exec(ctx, BuildUpdate(table, fields, where, appendix...))
}

// Builds and executes a delete. See `BuildDelete`.
func (self *Helper) Delete(ctx context.Context, table string, where any, appendix ...any) (_ int64, err error) {
	defer rec(&err)
	return self.Exec(ctx, BuildDelete(table, where, appendix...))
}

/*
Runs the function inside a transaction scope. The outermost scope issues
BEGIN / COMMIT / ROLLBACK; nested scopes use savepoints, so a failed inner
scope rolls back to its savepoint without aborting the outer transaction.
The scope is rolled back when the function returns an error or panics with
one; otherwise it's committed.
*/
func (self *Helper) Begin(ctx context.Context, fun func(*Helper) error) (err error) {
	open, commit, rollback := `BEGIN`, `COMMIT`, `ROLLBACK`
	if self.depth > 0 {
		name := `sp_` + strconv.Itoa(self.depth)
		open = `SAVEPOINT ` + name
		commit = `RELEASE SAVEPOINT ` + name
		rollback = `ROLLBACK TO SAVEPOINT ` + name
	}

	if _, err = self.client.Exec(ctx, open); err != nil {
		return self.fail(err, open, nil)
	}
	self.depth++

	defer func() {
		self.depth--
		if err != nil {
			_, _ = self.client.Exec(ctx, rollback)
		}
	}()
	defer rec(&err)

	if err = fun(self); err != nil {
		return err
	}

	if _, err = self.client.Exec(ctx, commit); err != nil {
		return self.fail(err, commit, nil)
	}
	return nil
}

func toInt64(val any) (int64, error) {
	switch val := val.(type) {
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case int:
		return int64(val), nil
	default:
		return 0, ErrInvalidInput{Err{
			`reading count`,
			errf(`expected an integer count, got %T`, val),
		}}
	}
}
