package queryweaver

import (
	"encoding/json"
	"strconv"

	"github.com/mitranim/sqlp"
)

/*
Builds a fragment tree from SQL text with ordinal interpolation points. Every
`$N` in the source is an interpolation point referring to the Nth argument (the
count starts at 1). Arguments that are themselves fragments are spliced in,
combining values and renumerating placeholders; other arguments become value
leaves:

	frag := queryweaver.SQL(`select * from foobar where foo = $1 and bar = $2`, 10, `twenty`)
	text, args := frag.Reify()

The split is deliberately naive: a `$N` inside a string literal or comment
still produces a value leaf. Whether that leaf is substituted is decided at
render time by the scan context, which is what keeps values out of quoted and
commented regions.

Panics with `ErrInvalidInput` when an ordinal exceeds the argument count, and
with `ErrUnusedArgument` when an argument has no corresponding ordinal.
*/
func SQL(src string, args ...any) *Composite {
	frag := &Composite{}
	used := make([]bool, len(args))

	cur := 0
	start := 0
	for cur < len(src) {
		if src[cur] != ordinalParamPrefix {
			cur++
			continue
		}

		ord, size := leadingOrdinal(src[cur:])
		if size == 0 {
			cur++
			continue
		}

		if ord < 1 || ord > len(args) {
			panic(ErrInvalidInput{Err{
				`building query`,
				errf(`ordinal parameter $%v exceeds argument count %v`, ord, len(args)),
			}})
		}

		if cur > start {
			frag.kids = append(frag.kids, RawText(src[start:cur]))
		}
		frag.kids = append(frag.kids, lift(args[ord-1]))
		used[ord-1] = true

		cur += size
		start = cur
	}

	if len(src) > start {
		frag.kids = append(frag.kids, RawText(src[start:]))
	}

	for ind, arg := range args {
		if !used[ind] {
			panic(ErrUnusedArgument{Err{
				`building query`,
				errf(`unused argument %#v at index %v`, arg, ind),
			}})
		}
	}
	return frag
}

// Matches `$N` at the start of the input, returning the ordinal and its size.
func leadingOrdinal(src string) (int, int) {
	cur := 1
	for cur < len(src) && charsetDigitDec.has(src[cur]) {
		cur++
	}
	if cur == 1 {
		return 0, 0
	}
	ord := try1(strconv.Atoi(src[1:cur]))
	return ord, cur
}

/*
The static variant of `SQL`: lifts each value independently into a composite
with an empty sewing pattern, so the children concatenate. Callers commonly
re-join for list contexts:

	queryweaver.SQL(`select * from foobar where foo = ANY ($1)`, queryweaver.List(10, 20).Join(`, `))
*/
func List(vals ...any) *Composite {
	frag := &Composite{}
	for _, val := range vals {
		frag.kids = append(frag.kids, lift(val))
	}
	return frag
}

/*
Builds a fragment tree from SQL text with named parameters in the form
":identifier". The keys in the arguments map must have the form "identifier",
without a leading ":". Fragment arguments are spliced in; other arguments
become value leaves:

	frag := queryweaver.Named(`select col where col = :value`, map[string]any{`value`: 10})

Unlike `SQL`, the source is tokenized properly, so a ":identifier" inside a
string literal or comment is left as text. Panics with `ErrMissingArgument`
when a parameter has no argument, `ErrUnusedArgument` when an argument has no
parameter, and `ErrInvalidInput` when the source contains ordinal parameters
or is malformed.
*/
func Named(src string, args map[string]any) *Composite {
	frag := &Composite{}
	used := make(map[string]bool, len(args))

	var text []byte
	flush := func() {
		if len(text) > 0 {
			frag.kids = append(frag.kids, RawText(text))
			text = nil
		}
	}

	tokenizer := sqlp.Tokenizer{Source: src}
	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			panic(ErrInvalidInput{Err{
				`building named query`,
				errf(`expected only named params, got ordinal param %v`, node),
			}})

		case sqlp.NodeNamedParam:
			arg, ok := args[string(node)]
			if !ok {
				panic(ErrMissingArgument{Err{
					`building named query`,
					errf(`missing named argument %q`, node),
				}})
			}
			flush()
			frag.kids = append(frag.kids, lift(arg))
			used[string(node)] = true

		default:
			node.Append(&text)
		}
	}
	flush()

	for key := range args {
		if !used[key] {
			panic(ErrUnusedArgument{Err{
				`building named query`,
				errf(`unused named argument %q`, key),
			}})
		}
	}
	return frag
}

/*
Builds a JSON payload with ordinal interpolation points, for statements that
embed JSON. Every `$N` argument is JSON-encoded and injected into the
assembled text, which then becomes a SINGLE value leaf of the resulting
fragment: parameterized renders bind the whole payload as one parameter, while
the embed render literal-quotes it into one valid string literal.

	frag := queryweaver.SQL(
		`update some_table set config = $1::jsonb`,
		queryweaver.JSON(`{"limit": $1, "tags": $2}`, 10, []string{`a`, `b`}),
	)

Casts such as `::jsonb` are the caller's responsibility.
*/
func JSON(src string, args ...any) *Composite {
	used := make([]bool, len(args))
	var text []byte

	cur := 0
	start := 0
	for cur < len(src) {
		if src[cur] != ordinalParamPrefix {
			cur++
			continue
		}

		ord, size := leadingOrdinal(src[cur:])
		if size == 0 {
			cur++
			continue
		}

		if ord < 1 || ord > len(args) {
			panic(ErrInvalidInput{Err{
				`building JSON payload`,
				errf(`ordinal parameter $%v exceeds argument count %v`, ord, len(args)),
			}})
		}

		chunk, err := json.Marshal(args[ord-1])
		if err != nil {
			panic(ErrInvalidInput{Err{`building JSON payload`, err}})
		}

		text = append(text, src[start:cur]...)
		text = append(text, chunk...)
		used[ord-1] = true

		cur += size
		start = cur
	}
	text = append(text, src[start:]...)

	for ind, arg := range args {
		if !used[ind] {
			panic(ErrUnusedArgument{Err{
				`building JSON payload`,
				errf(`unused argument %#v at index %v`, arg, ind),
			}})
		}
	}

	frag := &Composite{}
	frag.kids = append(frag.kids, Value{bytesToMutableString(text)})
	return frag
}
