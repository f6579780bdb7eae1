package queryweaver

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

/*
Adapts a pgx connection pool to the `Queryable` interface:

	pool, err := pgxpool.New(ctx, os.Getenv(`DATABASE_URL`))
	...
	helper := queryweaver.NewHelper(queryweaver.PgxQueryable{pool})
*/
type PgxQueryable struct {
	Pool *pgxpool.Pool
}

func (self PgxQueryable) Query(ctx context.Context, text string, args ...any) (Rows, error) {
	rows, err := self.Pool.Query(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rows}, nil
}

func (self PgxQueryable) Exec(ctx context.Context, text string, args ...any) (int64, error) {
	tag, err := self.Pool.Exec(ctx, text, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Adapts `pgx.Rows` to the `Rows` interface.
type pgxRows struct{ rows pgx.Rows }

func (self pgxRows) Next() bool             { return self.rows.Next() }
func (self pgxRows) Scan(dest ...any) error { return self.rows.Scan(dest...) }
func (self pgxRows) Values() ([]any, error) { return self.rows.Values() }
func (self pgxRows) Err() error             { return self.rows.Err() }
func (self pgxRows) Close()                 { self.rows.Close() }

func (self pgxRows) Columns() []string {
	fields := self.rows.FieldDescriptions()
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Name)
	}
	return out
}
