package queryweaver

import "strings"

/*
Mutable lexical-state accumulator threaded through one render pass. Raw text
leaves feed their literal text through `(*ScanContext).Scan` in left-to-right
tree order; value and identifier leaves consult `Suppressed` to decide whether
substitution must be omitted because the interpolation point falls inside a
comment, a string literal, or a dollar-quoted block.

A fresh zero context is allocated per render call and never shared between
calls. State persists across `Scan` calls within one render: a string or
comment opened in one fragment may be closed by a later fragment.

Goals:

	* Correctly track line comments, nestable block comments, single-quoted
	  strings (with `''` doubling), backslash-escaped strings (`E'...'`), and
	  dollar-quoted blocks (`$tag$ ... $tag$`), across fragment boundaries.

Non-goals:

	* Full SQL parser. Anything beyond quoting and comment state is out of
	  scope.
*/
type ScanContext struct {
	LineComment  bool
	BlockComment int
	SingleQuote  bool
	EscapedQuote bool
	DollarTag    string
}

/*
True when the current position lies inside a lexical region where value
substitution must be suppressed: a line or block comment, a single-quoted or
escaped string literal, or a dollar-quoted block.
*/
func (self *ScanContext) Suppressed() bool {
	return self.LineComment ||
		self.BlockComment > 0 ||
		self.SingleQuote ||
		self.EscapedQuote ||
		self.DollarTag != ``
}

// Consumes the given text left to right, updating the lexical state in place.
func (self *ScanContext) Scan(src string) {
	cur := 0
	for cur < len(src) {
		switch {
		case self.DollarTag != ``:
			cur = self.scanDollarQuoted(src, cur)
		case self.EscapedQuote:
			cur = self.scanEscapedQuote(src, cur)
		case self.SingleQuote:
			cur = self.scanSingleQuote(src, cur)
		case self.BlockComment > 0:
			cur = self.scanBlockComment(src, cur)
		case self.LineComment:
			cur = self.scanLineComment(src, cur)
		default:
			cur = self.scanPlain(src, cur)
		}
	}
}

// The closing tag must match the opening tag character-for-character.
// A mismatched tag such as `$other$` does not close the region.
func (self *ScanContext) scanDollarQuoted(src string, cur int) int {
	ind := strings.Index(src[cur:], self.DollarTag)
	if ind < 0 {
		return len(src)
	}
	size := len(self.DollarTag)
	self.DollarTag = ``
	return cur + ind + size
}

func (self *ScanContext) scanEscapedQuote(src string, cur int) int {
	for cur < len(src) {
		switch src[cur] {
		case backslash:
			// A backslash consumes one escaped character.
			cur += 2
		case quoteSingle:
			if cur+1 < len(src) && src[cur+1] == quoteSingle {
				// A doubled quote is not an end marker.
				cur += 2
				continue
			}
			self.EscapedQuote = false
			return cur + 1
		default:
			cur++
		}
	}
	return cur
}

func (self *ScanContext) scanSingleQuote(src string, cur int) int {
	for cur < len(src) {
		if src[cur] == quoteSingle {
			if cur+1 < len(src) && src[cur+1] == quoteSingle {
				cur += 2
				continue
			}
			self.SingleQuote = false
			return cur + 1
		}
		cur++
	}
	return cur
}

// Block comments nest: an inner `*/` does not terminate the outer comment.
func (self *ScanContext) scanBlockComment(src string, cur int) int {
	for cur < len(src) {
		if src[cur] == '/' && cur+1 < len(src) && src[cur+1] == '*' {
			self.BlockComment++
			cur += 2
			continue
		}
		if src[cur] == '*' && cur+1 < len(src) && src[cur+1] == '/' {
			self.BlockComment--
			cur += 2
			if self.BlockComment == 0 {
				return cur
			}
			continue
		}
		cur++
	}
	return cur
}

func (self *ScanContext) scanLineComment(src string, cur int) int {
	ind := strings.IndexByte(src[cur:], '\n')
	if ind < 0 {
		return len(src)
	}
	self.LineComment = false
	return cur + ind + 1
}

/*
Plain state: advance to the earliest trigger (an escaped-string opener `E'`,
a string opener `'`, a line-comment opener `--`, a block-comment opener `/*`,
or a dollar-quote tag `$tag$`), set the corresponding state, and consume the
opener. Left-to-right byte scanning makes the earliest trigger win.
*/
func (self *ScanContext) scanPlain(src string, cur int) int {
	for cur < len(src) {
		switch src[cur] {
		case quoteSingle:
			self.SingleQuote = true
			return cur + 1

		case escapeStringPrefix:
			if cur+1 < len(src) && src[cur+1] == quoteSingle {
				self.EscapedQuote = true
				return cur + 2
			}

		case '-':
			if cur+1 < len(src) && src[cur+1] == '-' {
				self.LineComment = true
				return cur + 2
			}

		case '/':
			if cur+1 < len(src) && src[cur+1] == '*' {
				self.BlockComment = 1
				return cur + 2
			}

		case ordinalParamPrefix:
			tag, size := leadingDollarTag(src[cur:])
			if size > 0 {
				self.DollarTag = tag
				return cur + size
			}
		}
		cur++
	}
	return cur
}

/*
Matches a dollar-quote tag `$[A-Za-z]*$` at the start of the input, including
the empty tag `$$`. Returns the full tag with both delimiters, and its size.
Ordinal parameters such as `$1` don't match.
*/
func leadingDollarTag(src string) (string, int) {
	cur := 1
	for cur < len(src) && charsetAlpha.has(src[cur]) {
		cur++
	}
	if cur < len(src) && src[cur] == ordinalParamPrefix {
		return src[:cur+1], cur + 1
	}
	return ``, 0
}
