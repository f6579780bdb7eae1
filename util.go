package queryweaver

import (
	r "reflect"
	"sort"
	"time"
	"unsafe"

	"github.com/mitranim/refut"
)

const (
	ordinalParamPrefix = '$'
	quoteSingle        = '\''
	quoteDouble        = '"'
	escapeStringPrefix = 'E'
	backslash          = '\\'
)

var (
	typeTime  = r.TypeOf((*time.Time)(nil)).Elem()
	typeBytes = r.TypeOf((*[]byte)(nil)).Elem()

	charsetDigitDec   = new(charset).addStr(`0123456789`)
	charsetAlpha      = new(charset).addStr(`ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz`)
	charsetIdentStart = new(charset).addStr(`abcdefghijklmnopqrstuvwxyz_`)
	charsetIdent      = new(charset).addSet(charsetIdentStart).addSet(charsetDigitDec)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed
from the standard library. Reasonably safe. Should not be used when the
underlying byte array is volatile, for example when it's part of a scratch
buffer that is mutated after the conversion.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func typeOf(val any) r.Type   { return r.TypeOf(val) }
func valueOf(val any) r.Value { return r.ValueOf(val) }

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func try1[A any](val A, err error) A {
	try(err)
	return val
}

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}

/*
Runs the given function, converting a panic with an error value into a regular
error return. Counterpart to the panicking builder functions in this package,
for callers who insist on errors-as-values:

	err := queryweaver.Catch(func() {
		frag = queryweaver.BuildInsert(`some_table`, rows)
	})
*/
func Catch(fun func()) (err error) {
	defer rec(&err)
	fun()
	return
}

func errUnsupportedType(while string, typ r.Type) error {
	return ErrInvalidInput{Err{while, errf(`unsupported type %q of kind %q`, typ, typ.Kind())}}
}

func sortedKeys(src map[string]any) []string {
	out := make([]string, 0, len(src))
	for key := range src {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func sfieldColumnName(sfield r.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(`db`))
}

func isSliceValue(val any) bool {
	if _, ok := val.([]byte); ok {
		return false
	}
	switch valueOf(val).Kind() {
	case r.Slice, r.Array:
		return true
	default:
		return false
	}
}

func isStructRow(val any) bool {
	if val == nil {
		return false
	}
	typ := refut.RtypeDeref(typeOf(val))
	return typ.Kind() == r.Struct && typ != typeTime
}

/*
Invokes the function once per "db"-tagged field of the given struct, in field
declaration order, with the column name and field value. Embedded structs are
flattened. Fields without a "db" tag are skipped.
*/
func traverseStructDbFields(input any, fun func(string, any)) {
	rval := valueOf(input)
	rtype := refut.RtypeDeref(rval.Type())

	if rtype.Kind() != r.Struct {
		panic(ErrInvalidInput{Err{
			`traversing struct for DB fields`,
			errf(`expected struct, got %q`, rtype),
		}})
	}

	if refut.IsRvalNil(rval) {
		return
	}

	err := refut.TraverseStructRval(rval, func(rval r.Value, sfield r.StructField, _ []int) error {
		colName := sfieldColumnName(sfield)
		if colName == `` {
			return nil
		}
		fun(colName, rval.Interface())
		return nil
	})
	try(err)
}
