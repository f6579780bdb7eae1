package queryweaver

import (
	"encoding"
	"fmt"
	r "reflect"
	"strconv"
)

// Variant of `String` that panics on error.
func TryString(val any) string { return try1(String(val)) }

/*
Missing feature of the standard library: return a string representation of an
arbitrary value intended only for machine use, only for "intentionally"
encodable types, without swallowing errors. Differences from `fmt.Sprint`:

	* Nil input = "" output.

	* Returns errors separately, without encoding them into the output. This is
	  important when the output is intended to be passed to another system
	  rather than read by humans.

	* Supports ONLY the following types, in this order of priority. For other
	  types, returns an error.

		* `fmt.Stringer`
		* `encoding.TextMarshaler`
		* Built-in primitive types.
			* Encodes floats without the scientific notation.
		* Aliases of `[]byte`.

Used internally by the default inline-literal encoder, exported because it's
handy for defining custom value functions.
*/
func String(src any) (string, error) {
	if src == nil {
		return ``, nil
	}

	stringer, _ := src.(fmt.Stringer)
	if stringer != nil {
		return stringer.String(), nil
	}

	marshaler, _ := src.(encoding.TextMarshaler)
	if marshaler != nil {
		chunk, err := marshaler.MarshalText()
		str := bytesToMutableString(chunk)
		if err != nil {
			return ``, ErrInternal{Err{`generating string representation`, err}}
		}
		return str, nil
	}

	typ := typeOf(src)
	val := valueOf(src)

	switch typ.Kind() {
	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int:
		return strconv.FormatInt(val.Int(), 10), nil

	case r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint:
		return strconv.FormatUint(val.Uint(), 10), nil

	case r.Float32, r.Float64:
		return strconv.FormatFloat(val.Float(), 'f', -1, 64), nil

	case r.Bool:
		return strconv.FormatBool(val.Bool()), nil

	case r.String:
		return val.String(), nil

	default:
		if typ.ConvertibleTo(typeBytes) {
			return bytesToMutableString(val.Bytes()), nil
		}
		return ``, errUnsupportedType(`generating string representation`, typ)
	}
}
