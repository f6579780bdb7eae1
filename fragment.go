package queryweaver

import "strings"

/*
An immutable node in a composable SQL-text tree. The variants are `RawText`,
`Value`, `Ident`, and `*Composite`. Builder functions in this package assemble
trees of fragments; the render methods walk a tree once per mode with a fresh
`ScanContext`, so every render is a pure function of the tree's current
structure.

The interface is sealed: the closed set of variants lets rendering dispatch
exhaustively, which is the point of the design.
*/
type Fragment interface {
	appendTo(text []byte, ren *render) []byte
}

/*
Literal SQL text injected verbatim. Never escaped. Raw text is what drives the
scan context during rendering: its literal content is fed through the scanner
so that downstream value and identifier leaves know whether they sit inside a
comment or string literal.
*/
type RawText string

func (self RawText) appendTo(text []byte, ren *render) []byte {
	ren.scan.Scan(string(self))
	return append(text, self...)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self RawText) String() string { return string(self) }

/*
A value pending escaping. The render style decides whether it becomes an
ordinal placeholder with a bound argument, a `?` or `:N` placeholder, or an
inline literal. Renders as nothing when the scan context reports a suppressed
position.
*/
type Value [1]any

func (self Value) appendTo(text []byte, ren *render) []byte {
	if ren.scan.Suppressed() {
		return text
	}
	return ren.value(text, self[0])
}

// Implement the `fmt.Stringer` interface for debug purposes. Uses the
// embedded-literal representation.
func (self Value) String() string { return renderString(self) }

/*
A dotted SQL name such as `schema.table`. Rendered by splitting on `.` and
quoting each part independently via the identifier function of the current
render options. Like `Value`, renders as nothing at suppressed positions.
*/
type Ident string

func (self Ident) appendTo(text []byte, ren *render) []byte {
	if ren.scan.Suppressed() {
		return text
	}
	for ind, part := range strings.Split(string(self), `.`) {
		if ind > 0 {
			text = append(text, '.')
		}
		text = append(text, ren.opts.Ident(part)...)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ident) String() string { return renderString(self) }

/*
Controls how a composite joins its children: child renderings are concatenated
with `Glue`, the joined body is passed through `Wrap` when set, and the result
is surrounded with `Prefix` and `Suffix`. When every child renders to an empty
string, the whole composite renders as `Empty` instead.

Sewing text is emitted verbatim and does not feed the scan context; only
`RawText` leaves do.
*/
type SewingPattern struct {
	Prefix string
	Glue   string
	Suffix string
	Empty  string
	Wrap   func(string) string
}

/*
A container node: an ordered sequence of child fragments plus a sewing
pattern. The child sequence may be appended to via `Push` before rendering;
the sewing configuration methods mutate only the pattern. Rendering is never
cached, so configuration changes affect all subsequent renders.
*/
type Composite struct {
	kids []Fragment
	sew  SewingPattern
}

func (self *Composite) appendTo(text []byte, ren *render) []byte {
	var body []byte
	count := 0

	for _, kid := range self.kids {
		if kid == nil {
			continue
		}
		chunk := kid.appendTo(nil, ren)
		if len(chunk) == 0 {
			continue
		}
		if count > 0 {
			body = append(body, self.sew.Glue...)
		}
		body = append(body, chunk...)
		count++
	}

	if count == 0 {
		return append(text, self.sew.Empty...)
	}

	if self.sew.Wrap != nil {
		body = []byte(self.sew.Wrap(bytesToMutableString(body)))
	}

	text = append(text, self.sew.Prefix...)
	text = append(text, body...)
	return append(text, self.sew.Suffix...)
}

/*
Appends children. Each value is lifted: fragments are spliced in as-is, other
values become `Value` leaves. Returns the same composite for chaining.
*/
func (self *Composite) Push(vals ...any) *Composite {
	for _, val := range vals {
		self.kids = append(self.kids, lift(val))
	}
	return self
}

// Sets the glue separating child renderings. Returns self for chaining.
func (self *Composite) Join(glue string) *Composite {
	self.sew.Glue = glue
	return self
}

// Sets the prefix preceding the joined body. Returns self for chaining.
func (self *Composite) Prefix(val string) *Composite {
	self.sew.Prefix = val
	return self
}

// Sets the suffix following the joined body. Returns self for chaining.
func (self *Composite) Suffix(val string) *Composite {
	self.sew.Suffix = val
	return self
}

// Sets the replacement emitted when every child renders to an empty string.
// Returns self for chaining.
func (self *Composite) Empty(val string) *Composite {
	self.sew.Empty = val
	return self
}

// Sets the output-wrapping hook applied to the joined body before prefix and
// suffix. Returns self for chaining.
func (self *Composite) Wrap(fun func(string) string) *Composite {
	self.sew.Wrap = fun
	return self
}

// Replaces the whole sewing pattern. Returns self for chaining.
func (self *Composite) Sew(val SewingPattern) *Composite {
	self.sew = val
	return self
}

// Number of child fragments.
func (self *Composite) Len() int { return len(self.kids) }

// Implement the `fmt.Stringer` interface for debug purposes. Uses the
// embedded-literal representation.
func (self *Composite) String() string { return self.Embed() }

/*
Lifts an arbitrary value into a fragment. Fragments pass through unchanged,
which is what allows recursive composition: a previously-built tree used as
an argument splices itself in rather than being bound as an opaque value.
Anything else becomes a `Value` leaf.
*/
func lift(val any) Fragment {
	impl, _ := val.(Fragment)
	if impl != nil {
		return impl
	}
	return Value{val}
}
