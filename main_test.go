package queryweaver

import (
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
)

type (
	B  = testing.B
	T  = testing.T
	TB = testing.TB
)

type list = []any

func eq(t TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func panics(t TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }

// Short for "reified". Test-only pair of statement text and bound values.
type R struct {
	Text string
	Args list
}

func rei(text string, args ...any) R { return R{text, args} }

func reify(frag *Composite) R {
	text, args := frag.Reify()
	return R{text, args}
}

// Checks that a fragment renders consistently across the placeholder styles:
// identical bound values in every parameterized style, and a repeatable
// ordinal render.
func testFrag(t TB, exp R, frag *Composite) {
	t.Helper()
	eq(t, exp, reify(frag))

	// Rendering must be idempotent: no context leaks across calls.
	eq(t, exp, reify(frag))

	_, args := frag.Positional()
	eq(t, exp.Args, list(args))

	_, args = frag.Numbered()
	eq(t, exp.Args, list(args))
}
