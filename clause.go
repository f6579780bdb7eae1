package queryweaver

/*
Combines the given clauses into `((c1) AND (c2) AND ...)`. Each clause may be:

	* Nil          → skipped.
	* A string     → injected as raw SQL, caller-trusted, not escaped.
	* A fragment   → spliced in, letting a nested builder supply the clause.
	* A map        → one `ident = value` clause per key, in sorted key order;
	                 nil values become `ident IS NULL`, slice values become
	                 `ident = ANY (value)`, fragment values follow the ident
	                 verbatim so the caller can supply a custom operator.
	* A struct     → like a map, over "db"-tagged fields in field order.
	* A slice      → flattened recursively.

Empty input renders as the empty string, so the result is always safe to
splice into a larger statement. Panics with `ErrInvalidInput` for any other
clause kind.
*/
func And(vals ...any) *Composite { return cond(`AND`, vals) }

// Same as `And` but joins with `OR`: `((c1) OR (c2) OR ...)`.
func Or(vals ...any) *Composite { return cond(`OR`, vals) }

/*
Same clause flattening as `And`, prefixed with `WHERE`:
`WHERE ((c1) AND (c2) AND ...)`. Empty input renders as the empty string,
omitting the WHERE clause entirely, so callers can always wrap their filter
without checking for "no filter" first.
*/
func Where(vals ...any) *Composite {
	frag := cond(`AND`, vals)
	frag.sew.Prefix = `WHERE ((`
	return frag
}

// Same as `Where` but joins with `OR`.
func WhereOr(vals ...any) *Composite {
	frag := cond(`OR`, vals)
	frag.sew.Prefix = `WHERE ((`
	return frag
}

func cond(op string, vals []any) *Composite {
	frag := &Composite{sew: SewingPattern{
		Prefix: `((`,
		Glue:   `) ` + op + ` (`,
		Suffix: `))`,
	}}
	for _, val := range vals {
		appendCond(frag, val)
	}
	return frag
}

// The single funnel for clause-argument dispatch. Every supported clause kind
// has an explicit branch; anything else is malformed input.
func appendCond(frag *Composite, val any) {
	switch val := val.(type) {
	case nil:

	case string:
		frag.kids = append(frag.kids, RawText(val))

	case Fragment:
		frag.kids = append(frag.kids, val)

	case map[string]any:
		for _, key := range sortedKeys(val) {
			appendFieldCond(frag, key, val[key])
		}

	case []any:
		for _, item := range val {
			appendCond(frag, item)
		}

	default:
		if isStructRow(val) {
			traverseStructDbFields(val, func(key string, item any) {
				appendFieldCond(frag, key, item)
			})
			return
		}
		panic(ErrInvalidInput{Err{
			`building condition`,
			errf(`unsupported clause argument of type %T`, val),
		}})
	}
}

func appendFieldCond(frag *Composite, key string, val any) {
	switch val := val.(type) {
	case nil:
		frag.kids = append(frag.kids, fieldCond(key, RawText(` IS NULL`)))

	case Fragment:
		frag.kids = append(frag.kids, fieldCond(key, RawText(` `), val))

	default:
		if isSliceValue(val) {
			frag.kids = append(frag.kids, fieldCond(key, RawText(` = ANY (`), Value{val}, RawText(`)`)))
			return
		}
		frag.kids = append(frag.kids, fieldCond(key, RawText(` = `), Value{val}))
	}
}

func fieldCond(key string, rest ...Fragment) *Composite {
	frag := &Composite{}
	frag.kids = append(frag.kids, Ident(key))
	frag.kids = append(frag.kids, rest...)
	return frag
}
