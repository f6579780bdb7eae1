package queryweaver

import (
	"encoding/json"
	r "reflect"
	"strconv"
	"strings"
)

const (
	// Postgres-style ordinal placeholders: `$1`, `$2`, and so on, with a
	// parallel bound-values list. The default style.
	StyleOrdinal Style = iota

	// Positional `?` placeholders, for drivers using that convention.
	StylePositional

	// Numbered `:1`, `:2` placeholders.
	StyleNumbered

	// Fully inlined literals: a directly executable statement for debugging
	// and logging. Produces no bound values.
	StyleEmbed
)

// Selects what a non-suppressed value leaf emits. All styles walk the
// identical tree with identical suppression logic.
type Style byte

/*
Per-render configuration. The zero value renders ordinal placeholders with the
default quoting functions. `Value` overrides the inline-literal encoder used
by `StyleEmbed`; `Ident` overrides identifier quoting in every style. The
scanner is not pluggable.
*/
type RenderOptions struct {
	Style Style
	Value func(any) string
	Ident func(string) string
}

/*
Renders any fragment with the given options, returning the statement text and
the bound values. A fresh scan context is allocated per call: rendering the
same unmutated tree twice yields identical output.
*/
func Render(frag Fragment, opts RenderOptions) (string, []any) {
	if opts.Value == nil {
		opts.Value = Literal
	}
	if opts.Ident == nil {
		opts.Ident = QuoteIdentifier
	}

	ren := render{opts: opts}
	text := frag.appendTo(nil, &ren)
	return bytesToMutableString(text), ren.args
}

// One render pass: options plus the mutable state threaded through the walk.
type render struct {
	opts RenderOptions
	scan ScanContext
	args []any
	ord  int
}

func (self *render) value(text []byte, val any) []byte {
	switch self.opts.Style {
	case StyleEmbed:
		return append(text, self.opts.Value(val)...)

	case StylePositional:
		self.args = append(self.args, val)
		return append(text, '?')

	case StyleNumbered:
		self.args = append(self.args, val)
		self.ord++
		text = append(text, ':')
		return strconv.AppendInt(text, int64(self.ord), 10)

	default:
		self.args = append(self.args, val)
		self.ord++
		text = append(text, ordinalParamPrefix)
		return strconv.AppendInt(text, int64(self.ord), 10)
	}
}

func renderString(frag Fragment) string {
	text, _ := Render(frag, RenderOptions{Style: StyleEmbed})
	return text
}

/*
Renders the tree as `$N`-placeholder statement text with the parallel bound
values, the shape Go database drivers tend to require. Each call is a full
independent render.
*/
func (self *Composite) Reify() (string, []any) {
	return Render(self, RenderOptions{})
}

// The `$N`-placeholder statement text. Shortcut for the first half of `Reify`.
func (self *Composite) Text() string {
	text, _ := self.Reify()
	return text
}

// The bound values positionally aligned with the placeholders of `Text`.
func (self *Composite) Values() []any {
	_, args := self.Reify()
	return args
}

/*
The literal-inlined rendering: every non-suppressed value appears as an SQL
literal, making the result directly executable in an SQL shell. Intended for
debugging and logging. Which positions are substituted always agrees with
`Reify`; literal formatting may differ from the driver's when a custom value
function is supplied.
*/
func (self *Composite) Embed() string {
	return renderString(self)
}

// Like `Reify` with `?` placeholders.
func (self *Composite) Positional() (string, []any) {
	return Render(self, RenderOptions{Style: StylePositional})
}

// Like `Reify` with `:N` placeholders.
func (self *Composite) Numbered() (string, []any) {
	return Render(self, RenderOptions{Style: StyleNumbered})
}

/*
Default identifier quoting: names that are already plain lowercase SQL
identifiers pass through bare; anything else is double-quoted, doubling any
embedded double quotes. Pluggable per render via `RenderOptions`.
*/
func QuoteIdentifier(val string) string {
	if isPlainIdent(val) {
		return val
	}
	return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
}

// Unquoted identifiers fold to lowercase, so anything with an uppercase
// letter needs quoting to round-trip.
func isPlainIdent(val string) bool {
	if len(val) == 0 || !charsetIdentStart.has(val[0]) {
		return false
	}
	for ind := 1; ind < len(val); ind++ {
		if !charsetIdent.has(val[ind]) {
			return false
		}
	}
	return true
}

// Default literal quoting: single quotes with doubling for embedded quotes.
// Pluggable per render via `RenderOptions`.
func QuoteLiteral(val string) string {
	return `'` + strings.ReplaceAll(val, `'`, `''`) + `'`
}

/*
Default inline-literal encoder for `StyleEmbed`:

	* Nil          → `NULL`.
	* Booleans     → `true` / `false`.
	* Byte slices  → literal-quoted as text.
	* Slices       → `ARRAY[...]`, encoding elements recursively.
	* Scalars      → stringified via `String` and literal-quoted.
	* Anything else (maps, structs) → JSON-encoded and literal-quoted.
*/
func Literal(val any) string {
	if val == nil {
		return `NULL`
	}

	switch val := val.(type) {
	case bool:
		return strconv.FormatBool(val)
	case []byte:
		return QuoteLiteral(bytesToMutableString(val))
	}

	switch valueOf(val).Kind() {
	case r.Slice, r.Array:
		return literalArray(val)
	}

	str, err := String(val)
	if err == nil {
		return QuoteLiteral(str)
	}

	chunk, err := json.Marshal(val)
	if err != nil {
		panic(ErrInvalidInput{Err{`encoding inline literal`, err}})
	}
	return QuoteLiteral(bytesToMutableString(chunk))
}

func literalArray(val any) string {
	src := valueOf(val)
	var text []byte
	text = append(text, `ARRAY[`...)
	for ind := 0; ind < src.Len(); ind++ {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = append(text, Literal(src.Index(ind).Interface())...)
	}
	return string(append(text, ']'))
}
