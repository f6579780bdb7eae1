package queryweaver

import (
	r "reflect"
	"strings"
)

/*
One row of a keyed or positional statement builder. Keyed rows carry column
names; positional rows carry only values.
*/
type row struct {
	keys []string
	vals []any
}

// Order-sensitive shape fingerprint, for detecting mismatched rows.
func (self row) shape() string {
	if self.keys == nil {
		return strings.Repeat(`?,`, len(self.vals))
	}
	return strings.Join(self.keys, `,`)
}

/*
Normalizes one row:

	* `map[string]any` → keyed row in sorted key order.
	* A struct         → keyed row over "db"-tagged fields in field order.
	* `[]any`          → positional row.

Panics with `ErrInvalidInput` for anything else. Go has no "undefined" map
value; omitting a key is how a column is excluded from a row.
*/
func rowOf(val any) row {
	switch val := val.(type) {
	case map[string]any:
		out := row{keys: sortedKeys(val)}
		for _, key := range out.keys {
			out.vals = append(out.vals, val[key])
		}
		return out

	case []any:
		return row{vals: val}
	}

	if isStructRow(val) {
		var out row
		traverseStructDbFields(val, func(key string, item any) {
			out.keys = append(out.keys, key)
			out.vals = append(out.vals, item)
		})
		return out
	}

	panic(ErrInvalidInput{Err{
		`normalizing row`,
		errf(`expected a map, struct, or slice row, got %T`, val),
	}})
}

/*
Normalizes a row set: a slice yields one row per element, anything else is a
single row. Panics with `ErrEmptyInput` when the set is empty.
*/
func rowsOf(val any) []row {
	if val == nil {
		panic(ErrEmptyInput{Err{`normalizing rows`, ErrStr(`expected at least one row, got nil`)}})
	}

	src := valueOf(val)
	if src.Kind() != r.Slice {
		return []row{rowOf(val)}
	}

	if src.Len() == 0 {
		panic(ErrEmptyInput{Err{`normalizing rows`, ErrStr(`expected at least one row, got none`)}})
	}

	if isSingleRow(val) {
		return []row{rowOf(val)}
	}

	out := make([]row, 0, src.Len())
	for ind := 0; ind < src.Len(); ind++ {
		out = append(out, rowOf(src.Index(ind).Interface()))
	}
	return out
}

// A `[]any` is ambiguous: it's a row set only when its elements are
// themselves rows, otherwise it's one positional row.
func isSingleRow(val any) bool {
	src, ok := val.([]any)
	if !ok {
		return false
	}
	for _, item := range src {
		switch item.(type) {
		case map[string]any, []any:
			return false
		default:
			if isStructRow(item) {
				return false
			}
		}
	}
	return true
}

func sameShape(while string, rows []row) {
	first := rows[0].shape()
	for _, val := range rows[1:] {
		if val.shape() != first {
			panic(ErrShapeMismatch{Err{
				while,
				errf(`mismatched row shapes %q and %q`, first, val.shape()),
			}})
		}
	}
}

/*
Renders the column list `(k1, k2, ...)` from the keys of the first row. Rows
may be maps (sorted key order) or structs with "db" tags (field order).
Panics with `ErrShapeMismatch` when any further row has a different key set,
and with `ErrEmptyInput` when there are no rows.
*/
func BuildKeys(rows any) *Composite {
	list := rowsOf(rows)
	sameShape(`building key list`, list)

	first := list[0]
	if first.keys == nil {
		panic(ErrInvalidInput{Err{
			`building key list`,
			ErrStr(`expected keyed rows, got positional rows`),
		}})
	}
	if len(first.keys) == 0 {
		panic(ErrEmptyInput{Err{`building key list`, ErrStr(`expected at least one column`)}})
	}

	frag := &Composite{sew: SewingPattern{Prefix: `(`, Glue: `, `, Suffix: `)`}}
	for _, key := range first.keys {
		frag.kids = append(frag.kids, Ident(key))
	}
	return frag
}

/*
Renders `VALUES (v1, v2, ...), (v1, v2, ...), ...` from a set of rows of equal
shape. Rows may be maps, structs, or positional `[]any` slices. Panics with
`ErrShapeMismatch` on unequal shapes and `ErrEmptyInput` on an empty set.
*/
func BuildValues(rows any) *Composite {
	list := rowsOf(rows)
	sameShape(`building value list`, list)

	if len(list[0].vals) == 0 {
		panic(ErrEmptyInput{Err{`building value list`, ErrStr(`expected at least one value per row`)}})
	}

	frag := &Composite{sew: SewingPattern{Prefix: `VALUES `, Glue: `, `}}
	for _, val := range list {
		tuple := &Composite{sew: SewingPattern{Prefix: `(`, Glue: `, `, Suffix: `)`}}
		for _, item := range val.vals {
			tuple.kids = append(tuple.kids, lift(item))
		}
		frag.kids = append(frag.kids, tuple)
	}
	return frag
}

/*
Composes `INSERT INTO <table> <keys> <values>` from one keyed row or a slice
of same-shaped keyed rows:

	queryweaver.BuildInsert(`some_table`, map[string]any{`one`: 10, `two`: 20}, `RETURNING *`)

The optional appendix values (raw strings or fragments) are appended joined
by a single space. Shape errors panic as in `BuildKeys` and `BuildValues`.
*/
func BuildInsert(table string, rows any, appendix ...any) *Composite {
	frag := &Composite{sew: SewingPattern{Glue: ` `}}
	frag.kids = append(frag.kids,
		RawText(`INSERT INTO`),
		Ident(table),
		BuildKeys(rows),
		BuildValues(rows),
	)
	appendAppendix(frag, appendix)
	return frag
}

/*
Composes `UPDATE <table> SET <k = v, ...> <where>` from one keyed row of
field-value pairs. The optional where argument takes any clause shape
supported by `Where`; nil omits the clause.
*/
func BuildUpdate(table string, fields any, where any, appendix ...any) *Composite {
	fr := rowOf(fields)
	if fr.keys == nil {
		panic(ErrInvalidInput{Err{
			`building update`,
			ErrStr(`expected a keyed row of field values`),
		}})
	}

	set := &Composite{sew: SewingPattern{Prefix: `SET `, Glue: `, `}}
	for ind, key := range fr.keys {
		set.kids = append(set.kids, fieldAssign(key, fr.vals[ind]))
	}

	frag := &Composite{sew: SewingPattern{Glue: ` `}}
	frag.kids = append(frag.kids, RawText(`UPDATE`), Ident(table), set, Where(where))
	appendAppendix(frag, appendix)
	return frag
}

func fieldAssign(key string, val any) *Composite {
	frag := &Composite{}
	frag.kids = append(frag.kids, Ident(key), RawText(` = `), lift(val))
	return frag
}

/*
Composes `DELETE FROM <table> <where>`. The optional where argument takes any
clause shape supported by `Where`; nil omits the clause.
*/
func BuildDelete(table string, where any, appendix ...any) *Composite {
	frag := &Composite{sew: SewingPattern{Glue: ` `}}
	frag.kids = append(frag.kids, RawText(`DELETE FROM`), Ident(table), Where(where))
	appendAppendix(frag, appendix)
	return frag
}

func appendAppendix(frag *Composite, vals []any) {
	for _, val := range vals {
		switch val := val.(type) {
		case nil:
		case string:
			frag.kids = append(frag.kids, RawText(val))
		case Fragment:
			frag.kids = append(frag.kids, val)
		default:
			panic(ErrInvalidInput{Err{
				`appending statement suffix`,
				errf(`expected a raw string or fragment, got %T`, val),
			}})
		}
	}
}
