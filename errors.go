package queryweaver

import (
	"fmt"
	"io"
)

/*
Base error type used by this package. Usually wrapped in one of the more
specific types below; use `errors.As` to detect those:

	var err queryweaver.ErrShapeMismatch
	if errors.As(someErr, &err) {
		// Handle specific error.
	}

Composition-time failures are raised as panics with these typed errors, in
line with the builder functions returning trees rather than (tree, error)
pairs. Use `Catch` to convert them to regular error returns.
*/
type Err struct {
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string { return self.format(false) }

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error { return self.Cause }

/*
Implement `fmt.Formatter`. The `%+v` verb additionally formats the cause in
detailed mode, which may include a stack trace when the cause supports one.
*/
func (self Err) Format(out fmt.State, verb rune) {
	if verb == 'v' && out.Flag('+') {
		_, _ = io.WriteString(out, self.format(true))
		return
	}
	_, _ = io.WriteString(out, self.format(false))
}

func (self Err) format(detailed bool) string {
	if self == (Err{}) {
		return ``
	}
	msg := `[queryweaver] error`
	if self.While != `` {
		msg += ` while ` + self.While
	}
	if self.Cause != nil {
		if detailed {
			msg += `: ` + fmt.Sprintf(`%+v`, self.Cause)
		} else {
			msg += `: ` + self.Cause.Error()
		}
	}
	return msg
}

// Row-shaped builder inputs have inconsistent lengths or key sets. Raised at
// composition time, never at render time.
type ErrShapeMismatch struct{ Err }

// A builder that requires at least one row or element received none.
type ErrEmptyInput struct{ Err }

// Malformed call shape, such as a non-row value passed where a row mapping
// was required, or an ordinal parameter exceeding the argument count.
type ErrInvalidInput struct{ Err }

// A named parameter in the source text has no corresponding argument.
type ErrMissingArgument struct{ Err }

// An argument has no corresponding parameter in the source text.
type ErrUnusedArgument struct{ Err }

// Internal violation of an invariant of this package. Always a bug.
type ErrInternal struct{ Err }

/*
String typedef that implements `error`. Has no memory indirection. Used
internally for error constants.
*/
type ErrStr string

// Implement `error`.
func (self ErrStr) Error() string { return string(self) }

// Shortcut for making an error from a pattern. All composition errors in this
// package use this for their causes.
func errf(pat string, vals ...any) error { return fmt.Errorf(pat, vals...) }
