// Package value provides the closed set of value types a configuration
// entry can hold.
//
// A Value is a tagged variant: exactly one of string, boolean, integer,
// float, float list or integer list. The zero Value has KindNone and is the
// "absent" sentinel that configuration sections refuse to store.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the payload held by a Value.
type Kind uint8

const (
	// KindNone is the absent sentinel.
	KindNone Kind = iota
	// KindString represents a text value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a floating-point value.
	KindFloat
	// KindFloatList represents a sequence of floats.
	KindFloatList
	// KindIntList represents a sequence of integers (e.g. filter indices).
	KindIntList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindFloatList:
		return "float list"
	case KindIntList:
		return "integer list"
	default:
		return "unknown"
	}
}

// Value is a single configuration value.
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	f    float64
	fl   []float64
	il   []int64
}

// None is the absent sentinel.
var None = Value{}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// FloatList returns a float list value. The slice is copied.
func FloatList(fs ...float64) Value {
	return Value{kind: KindFloatList, fl: append(make([]float64, 0, len(fs)), fs...)}
}

// IntList returns an integer list value. The slice is copied.
func IntList(is ...int64) Value {
	return Value{kind: KindIntList, il: append(make([]int64, 0, len(is)), is...)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the absent sentinel.
func (v Value) IsNone() bool { return v.kind == KindNone }

// IsList reports whether v holds a list.
func (v Value) IsList() bool { return v.kind == KindFloatList || v.kind == KindIntList }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the value as a float. Integers are widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsFloatList returns the value as a float list. Integer lists are widened.
// The returned slice is a copy.
func (v Value) AsFloatList() ([]float64, bool) {
	switch v.kind {
	case KindFloatList:
		return append([]float64(nil), v.fl...), true
	case KindIntList:
		out := make([]float64, len(v.il))
		for i, n := range v.il {
			out[i] = float64(n)
		}
		return out, true
	}
	return nil, false
}

// AsIntList returns the integer list payload as a copy.
func (v Value) AsIntList() ([]int64, bool) {
	if v.kind != KindIntList {
		return nil, false
	}
	return append([]int64(nil), v.il...), true
}

// Len returns the number of list elements, or 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindFloatList:
		return len(v.fl)
	case KindIntList:
		return len(v.il)
	}
	return 0
}

// Clone returns a deep copy of v. List backing arrays are never shared.
func (v Value) Clone() Value {
	out := v
	if v.fl != nil {
		out.fl = append(make([]float64, 0, len(v.fl)), v.fl...)
	}
	if v.il != nil {
		out.il = append(make([]int64, 0, len(v.il)), v.il...)
	}
	return out
}

// Equal reports whether v and o hold the same kind and payload.
// NaN floats compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return floatEqual(v.f, o.f)
	case KindFloatList:
		if len(v.fl) != len(o.fl) {
			return false
		}
		for i := range v.fl {
			if !floatEqual(v.fl[i], o.fl[i]) {
				return false
			}
		}
		return true
	case KindIntList:
		if len(v.il) != len(o.il) {
			return false
		}
		for i := range v.il {
			if v.il[i] != o.il[i] {
				return false
			}
		}
		return true
	}
	return false
}

func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// Format returns the canonical text form used by the configuration file
// format: floats with 12 fractional digits, lists as "[a, b]", booleans
// as "True"/"False" and everything else in its plain form.
func (v Value) Format() string {
	switch v.kind {
	case KindNone:
		return "None"
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindFloatList:
		parts := make([]string, len(v.fl))
		for i, f := range v.fl {
			parts[i] = formatFloat(f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindIntList:
		parts := make([]string, len(v.il))
		for i, n := range v.il {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

// String implements fmt.Stringer using Format.
func (v Value) String() string { return v.Format() }

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', 12, 64)
}

// Native returns the payload as a plain Go value: string, bool, int64,
// float64, []float64, []int64 or nil for None.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindFloatList:
		return append([]float64{}, v.fl...)
	case KindIntList:
		return append([]int64{}, v.il...)
	}
	return nil
}

// Of converts a native Go value into a Value. A nil input yields None.
func Of(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return None, nil
	case Value:
		return t.Clone(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return None, fmt.Errorf("integer %d overflows int64", t)
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case []float64:
		return FloatList(t...), nil
	case []float32:
		fs := make([]float64, len(t))
		for i, f := range t {
			fs[i] = float64(f)
		}
		return FloatList(fs...), nil
	case []int64:
		return IntList(t...), nil
	case []int:
		is := make([]int64, len(t))
		for i, n := range t {
			is[i] = int64(n)
		}
		return IntList(is...), nil
	case []any:
		return ofSlice(t)
	}
	return None, fmt.Errorf("unsupported value type %T", x)
}

// ofSlice converts a generic slice. All-integer slices become integer
// lists; anything numeric but mixed becomes a float list.
func ofSlice(items []any) (Value, error) {
	ints := make([]int64, 0, len(items))
	floats := make([]float64, 0, len(items))
	allInts := true
	for _, item := range items {
		el, err := Of(item)
		if err != nil {
			return None, err
		}
		switch el.kind {
		case KindInt:
			ints = append(ints, el.i)
			floats = append(floats, float64(el.i))
		case KindFloat:
			allInts = false
			floats = append(floats, el.f)
		default:
			return None, fmt.Errorf("unsupported list element %v of kind %s", item, el.kind)
		}
	}
	if allInts && len(items) > 0 {
		return IntList(ints...), nil
	}
	return FloatList(floats...), nil
}
