package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// ErrCoerce is wrapped by every coercion failure.
var ErrCoerce = errors.New("cannot coerce value")

func coerceErr(v value.Value, to string) error {
	return fmt.Errorf("%w %q (%s) to %s", ErrCoerce, v.Format(), v.Kind(), to)
}

// Identity returns v unchanged.
func Identity(v value.Value) (value.Value, error) {
	return v, nil
}

// ToString renders any value as a string. Floats use their shortest form
// rather than the fixed file precision.
func ToString(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindString:
		return v, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return value.String(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case value.KindNone:
		return value.None, coerceErr(v, "string")
	}
	return value.String(v.Format()), nil
}

// ToLowerString is ToString followed by lower-casing.
func ToLowerString(v value.Value) (value.Value, error) {
	s, err := ToString(v)
	if err != nil {
		return value.None, err
	}
	str, _ := s.AsString()
	return value.String(strings.ToLower(str)), nil
}

// ToBool accepts booleans, "true"/"false" in any case and numbers, where
// any non-zero number is true.
func ToBool(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindBool:
		return v, nil
	case value.KindInt, value.KindFloat:
		f, _ := v.AsFloat()
		return value.Bool(f != 0), nil
	case value.KindString:
		s, _ := v.AsString()
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		case "":
			return value.None, coerceErr(v, "boolean")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.None, coerceErr(v, "boolean")
		}
		return value.Bool(f != 0), nil
	}
	return value.None, coerceErr(v, "boolean")
}

// ToInt accepts integers, floats (truncated toward zero), booleans and
// numeric strings, optionally quoted.
func ToInt(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindInt:
		return v, nil
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return truncInt(f, v)
	case value.KindString:
		s, _ := v.AsString()
		n, err := parseIntText(s)
		if err != nil {
			return value.None, coerceErr(v, "integer")
		}
		return value.Int(n), nil
	}
	return value.None, coerceErr(v, "integer")
}

func truncInt(f float64, orig value.Value) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return value.None, coerceErr(orig, "integer")
	}
	return value.Int(int64(f)), nil
}

func parseIntText(s string) (int64, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}

// ToFloat accepts numbers, booleans and numeric strings.
func ToFloat(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindFloat:
		return v, nil
	case value.KindInt:
		f, _ := v.AsFloat()
		return value.Float(f), nil
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return value.Float(1), nil
		}
		return value.Float(0), nil
	case value.KindString:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return value.None, coerceErr(v, "float")
		}
		return value.Float(f), nil
	}
	return value.None, coerceErr(v, "float")
}

// ToIntList accepts integer and float lists and strings such as "[1, 2]".
// Empty elements are skipped.
func ToIntList(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindIntList:
		return v, nil
	case value.KindFloatList:
		fs, _ := v.AsFloatList()
		out := make([]int64, len(fs))
		for i, f := range fs {
			n, err := truncInt(f, v)
			if err != nil {
				return value.None, err
			}
			out[i], _ = n.AsInt()
		}
		return value.IntList(out...), nil
	case value.KindString:
		s, _ := v.AsString()
		var out []int64
		for _, item := range splitList(s) {
			n, err := parseIntText(item)
			if err != nil {
				return value.None, coerceErr(v, "integer list")
			}
			out = append(out, n)
		}
		return value.IntList(out...), nil
	}
	return value.None, coerceErr(v, "integer list")
}

// ToFloatList accepts numeric lists and strings such as "[1.5, 2]".
func ToFloatList(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindFloatList:
		return v, nil
	case value.KindIntList:
		fs, _ := v.AsFloatList()
		return value.FloatList(fs...), nil
	case value.KindString:
		s, _ := v.AsString()
		var out []float64
		for _, item := range splitList(s) {
			f, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return value.None, coerceErr(v, "float list")
			}
			out = append(out, f)
		}
		return value.FloatList(out...), nil
	}
	return value.None, coerceErr(v, "float list")
}

// splitList strips surrounding brackets and splits on commas, dropping
// empty items.
func splitList(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), "[] ")
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
