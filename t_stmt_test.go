package queryweaver

import (
	"errors"
	"testing"
)

type testRow struct {
	One string `db:"one"`
	Two int    `db:"two"`
}

func Test_BuildKeys(t *testing.T) {
	testFrag(t,
		rei(`(one, two)`),
		BuildKeys(map[string]any{`two`: 20, `one`: 10}),
	)

	testFrag(t,
		rei(`(one, two)`),
		BuildKeys(testRow{One: `val`, Two: 20}),
	)

	// The column list comes from the first row; further rows only get
	// shape-checked.
	testFrag(t,
		rei(`(one, two)`),
		BuildKeys([]any{
			map[string]any{`one`: 10, `two`: 20},
			map[string]any{`one`: 30, `two`: 40},
		}),
	)
}

func Test_BuildKeys_invalid(t *testing.T) {
	panics(t, `expected at least one row`, func() {
		BuildKeys(nil)
	})
	panics(t, `expected at least one row`, func() {
		BuildKeys([]any{})
	})
	panics(t, `expected at least one column`, func() {
		BuildKeys(map[string]any{})
	})
	panics(t, `expected keyed rows, got positional rows`, func() {
		BuildKeys([]any{10, 20})
	})
	panics(t, `mismatched row shapes "one,two" and "one"`, func() {
		BuildKeys([]any{
			map[string]any{`one`: 10, `two`: 20},
			map[string]any{`one`: 30},
		})
	})
}

func Test_BuildValues(t *testing.T) {
	testFrag(t,
		rei(`VALUES ($1, $2)`, 10, 20),
		BuildValues(map[string]any{`one`: 10, `two`: 20}),
	)

	// A flat `[]any` is one positional row.
	testFrag(t,
		rei(`VALUES ($1, $2)`, 10, 20),
		BuildValues([]any{10, 20}),
	)

	testFrag(t,
		rei(`VALUES ($1, $2), ($3, $4)`, 10, 20, 30, 40),
		BuildValues([]any{
			map[string]any{`one`: 10, `two`: 20},
			map[string]any{`one`: 30, `two`: 40},
		}),
	)

	testFrag(t,
		rei(`VALUES ($1, $2)`, `val`, 20),
		BuildValues(testRow{One: `val`, Two: 20}),
	)

	testFrag(t,
		rei(`VALUES ($1, $2), ($3, $4)`, `a`, 10, `b`, 20),
		BuildValues([]testRow{{`a`, 10}, {`b`, 20}}),
	)
}

func Test_BuildValues_invalid(t *testing.T) {
	panics(t, `expected at least one row`, func() {
		BuildValues([]any{})
	})
	panics(t, `expected at least one value per row`, func() {
		BuildValues(map[string]any{})
	})
	panics(t, `mismatched row shapes`, func() {
		BuildValues([]any{
			map[string]any{`one`: 10},
			map[string]any{`two`: 20},
		})
	})
	panics(t, `expected a map, struct, or slice row, got string`, func() {
		BuildValues(`one`)
	})
}

func Test_BuildInsert(t *testing.T) {
	testFrag(t,
		rei(`INSERT INTO some_table (one, two) VALUES ($1, $2)`, 10, 20),
		BuildInsert(`some_table`, map[string]any{`one`: 10, `two`: 20}),
	)

	eq(t,
		`INSERT INTO some_table (a, b) VALUES ('1', '2')`,
		BuildInsert(`some_table`, map[string]any{`a`: 1, `b`: 2}).Embed(),
	)

	testFrag(t,
		rei(`INSERT INTO some_table (one, two) VALUES ($1, $2), ($3, $4)`, `a`, 10, `b`, 20),
		BuildInsert(`some_table`, []testRow{{`a`, 10}, {`b`, 20}}),
	)

	testFrag(t,
		rei(`INSERT INTO some_table (one) VALUES ($1) RETURNING *`, 10),
		BuildInsert(`some_table`, map[string]any{`one`: 10}, `RETURNING *`),
	)

	testFrag(t,
		rei(`INSERT INTO some_table (one) VALUES ($1) ON CONFLICT DO NOTHING RETURNING $2`, 10, `one`),
		BuildInsert(
			`some_table`,
			map[string]any{`one`: 10},
			`ON CONFLICT DO NOTHING`,
			SQL(`RETURNING $1`, `one`),
		),
	)
}

func Test_BuildUpdate(t *testing.T) {
	testFrag(t,
		rei(`UPDATE some_table SET one = $1, two = $2`, 10, 20),
		BuildUpdate(`some_table`, map[string]any{`one`: 10, `two`: 20}, nil),
	)

	testFrag(t,
		rei(`UPDATE some_table SET one = $1 WHERE ((two = $2))`, 10, 20),
		BuildUpdate(`some_table`, map[string]any{`one`: 10}, map[string]any{`two`: 20}),
	)

	testFrag(t,
		rei(`UPDATE some_table SET one = $1, two = $2 WHERE ((two = $3)) RETURNING *`, `val`, 20, 10),
		BuildUpdate(`some_table`, testRow{`val`, 20}, map[string]any{`two`: 10}, `RETURNING *`),
	)

	panics(t, `expected a keyed row of field values`, func() {
		BuildUpdate(`some_table`, []any{10}, nil)
	})
}

func Test_BuildDelete(t *testing.T) {
	testFrag(t,
		rei(`DELETE FROM some_table`),
		BuildDelete(`some_table`, nil),
	)

	testFrag(t,
		rei(`DELETE FROM some_table WHERE ((col = $1))`, 10),
		BuildDelete(`some_table`, map[string]any{`col`: 10}),
	)

	testFrag(t,
		rei(`DELETE FROM some_table WHERE ((col = $1)) RETURNING *`, 10),
		BuildDelete(`some_table`, map[string]any{`col`: 10}, `RETURNING *`),
	)
}

func Test_appendix_invalid(t *testing.T) {
	panics(t, `expected a raw string or fragment, got int`, func() {
		BuildDelete(`some_table`, nil, 10)
	})
}

func Test_Catch(t *testing.T) {
	eq(t, true, Catch(func() {}) == nil)

	err := Catch(func() { BuildKeys(nil) })
	if err == nil {
		t.Fatalf(`expected an error, got none`)
	}

	var empty ErrEmptyInput
	eq(t, true, errors.As(err, &empty))

	var mismatch ErrShapeMismatch
	eq(t, false, errors.As(err, &mismatch))
}
