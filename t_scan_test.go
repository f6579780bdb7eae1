package queryweaver

import "testing"

func scanned(vals ...string) ScanContext {
	var ctx ScanContext
	for _, val := range vals {
		ctx.Scan(val)
	}
	return ctx
}

func suppressed(vals ...string) bool {
	ctx := scanned(vals...)
	return ctx.Suppressed()
}

func Test_ScanContext_plain(t *testing.T) {
	eq(t, ScanContext{}, scanned(``))
	eq(t, ScanContext{}, scanned(`select * from some_table where col = 10`))
	eq(t, ScanContext{}, scanned(`select 'one'`))
	eq(t, ScanContext{}, scanned(`select "double quotes are not tracked`))
	eq(t, false, suppressed(`select col`))
}

func Test_ScanContext_single_quote(t *testing.T) {
	eq(t, ScanContext{SingleQuote: true}, scanned(`select 'one`))
	eq(t, ScanContext{}, scanned(`select 'one'`))

	// A doubled quote is an escaped quote, not an end marker.
	eq(t, ScanContext{SingleQuote: true}, scanned(`select 'one''two`))
	eq(t, ScanContext{}, scanned(`select 'one''two'`))

	// State persists across fragment boundaries.
	eq(t, ScanContext{SingleQuote: true}, scanned(`select 'one`, `two`))
	eq(t, ScanContext{}, scanned(`select 'one`, `two'`))
	eq(t, true, suppressed(`select 'one`))
}

func Test_ScanContext_escaped_single_quote(t *testing.T) {
	eq(t, ScanContext{EscapedQuote: true}, scanned(`select E'one`))
	eq(t, ScanContext{}, scanned(`select E'one'`))

	// A backslash escapes the following character, including a quote.
	eq(t, ScanContext{EscapedQuote: true}, scanned(`select E'one\'two`))
	eq(t, ScanContext{}, scanned(`select E'one\'two'`))
	eq(t, ScanContext{EscapedQuote: true}, scanned(`select E'one''two`))

	// A lone E is not an opener.
	eq(t, ScanContext{}, scanned(`select E, col`))
}

func Test_ScanContext_line_comment(t *testing.T) {
	eq(t, ScanContext{LineComment: true}, scanned(`select col -- comment`))
	eq(t, ScanContext{}, scanned("select col -- comment\nselect"))
	eq(t, ScanContext{}, scanned(`select col - col`))

	// Openers inside a line comment are inert.
	eq(t, ScanContext{LineComment: true}, scanned(`-- 'quote /* comment`))
	eq(t, ScanContext{}, scanned(`-- 'quote`, "\n"))
}

func Test_ScanContext_block_comment(t *testing.T) {
	eq(t, ScanContext{BlockComment: 1}, scanned(`select /* comment`))
	eq(t, ScanContext{}, scanned(`select /* comment */`))

	// Block comments nest; the inner close does not terminate the outer one.
	eq(t, ScanContext{BlockComment: 2}, scanned(`/* outer /* inner`))
	eq(t, ScanContext{BlockComment: 1}, scanned(`/* outer /* inner */`))
	eq(t, ScanContext{}, scanned(`/* outer /* inner */ */`))

	// Across fragments.
	eq(t, ScanContext{}, scanned(`/* one`, `/* two */`, `*/`))

	// Quotes inside comments are inert.
	eq(t, ScanContext{BlockComment: 1}, scanned(`/* 'quoted`))
}

func Test_ScanContext_dollar_quote(t *testing.T) {
	eq(t, ScanContext{DollarTag: `$tag$`}, scanned(`select $tag$ body`))
	eq(t, ScanContext{}, scanned(`select $tag$ body $tag$`))

	// The empty tag.
	eq(t, ScanContext{DollarTag: `$$`}, scanned(`select $$ body`))
	eq(t, ScanContext{}, scanned(`select $$ body $$`))

	// A mismatched tag does not close the region.
	eq(t, ScanContext{DollarTag: `$tag$`}, scanned(`select $tag$ body $other$`))

	// Ordinal params are not tags.
	eq(t, ScanContext{}, scanned(`select $1, $2`))

	// Across fragments, the closing tag must match exactly.
	eq(t, ScanContext{DollarTag: `$tag$`}, scanned(`$tag$ one`, `two $oth$`, `er$`))
	eq(t, ScanContext{}, scanned(`$tag$ one`, `two $tag$`))
	eq(t, true, suppressed(`$tag$`))
}

func Test_ScanContext_trigger_priority(t *testing.T) {
	// The earliest trigger wins.
	eq(t, ScanContext{SingleQuote: true}, scanned(`select ' -- /*`))
	eq(t, ScanContext{LineComment: true}, scanned(`select -- ' /*`))
	eq(t, ScanContext{BlockComment: 1}, scanned(`select /* ' --`))
	eq(t, ScanContext{DollarTag: `$a$`}, scanned(`select $a$ ' --`))
}
