package loader

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// FeatureChecker reports whether a name is a known scalar feature.
type FeatureChecker interface {
	ScalarFeatureExists(name string) bool
}

// LoadFile reads a text-format configuration file.
func LoadFile(fsys afero.Fs, path string, schema Schema) (value.Table, error) {
	return LoadAs(fsys, path, FormatText, schema)
}

// ParseText parses text-format configuration data. Invalid UTF-8 sequences
// are replaced with U+FFFD and a leading byte order mark is dropped.
func ParseText(data []byte, schema Schema) (value.Table, error) {
	return ParseTextReader(bytes.NewReader(data), schema)
}

// ParseTextReader is like ParseText but reads from r.
func ParseTextReader(r io.Reader, schema Schema) (value.Table, error) {
	decoded, err := io.ReadAll(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	table := make(value.Table)
	section, inSection := "", false
	for _, line := range strings.SplitAfter(string(decoded), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section, inSection = strings.ToLower(line[1:len(line)-1]), true
			table.Ensure(section)
			continue
		}

		rawKey, rawVal, ok := strings.Cut(line, "=")
		if !ok || !inSection {
			// malformed, or a key outside any section
			continue
		}

		key := strings.ToLower(strings.TrimSpace(rawKey))
		val := stripValue(rawVal)
		if val == "" {
			continue
		}

		v := convertRaw(schema, section, key, val)
		if key != "" && v.Format() != "" {
			table.Set(section, key, v)
		}
	}
	return table, nil
}

// stripValue removes surrounding single quotes, double quotes and blanks.
func stripValue(s string) string {
	s = strings.Trim(s, "' ")
	s = strings.Trim(s, `" `)
	return strings.TrimSpace(s)
}

// convertRaw coerces a raw string for a known key and infers a type for
// an unknown one. A known key whose coercion fails keeps the raw string so
// that the receiving configuration can report it.
func convertRaw(schema Schema, section, key, raw string) value.Value {
	if schema != nil && schema.KeyExists(section, key) {
		v, err := schema.Coerce(section, key, value.String(raw))
		if err != nil {
			return value.String(raw)
		}
		return v
	}
	return InferType(value.String(raw), schema)
}

// InferType guesses the type of a raw string value of an unknown key.
// Values that are not strings are returned unchanged.
//
// The rules, in order: bracketed lists become float lists; true/y and
// false/n (any case) become booleans; quoted text is unwrapped; scalar
// feature names stay strings; anything parsing as a number (with a comma
// accepted as decimal point) becomes a float; the rest stays a string.
func InferType(v value.Value, features FeatureChecker) value.Value {
	raw, ok := v.AsString()
	if !ok {
		return v
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return value.String(s)
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := strings.Trim(s, "[],")
		if inner == "" {
			return value.FloatList()
		}
		parts := strings.Split(inner, ",")
		fs := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return value.String(s)
			}
			fs = append(fs, f)
		}
		return value.FloatList(fs...)
	}

	switch strings.ToLower(s) {
	case "true", "y":
		return value.Bool(true)
	case "false", "n":
		return value.Bool(false)
	}

	if isQuote(s[0]) && isQuote(s[len(s)-1]) {
		return value.String(strings.TrimSpace(strings.Trim(strings.Trim(s, "'"), `"`)))
	}

	if features != nil && features.ScalarFeatureExists(s) {
		return value.String(s)
	}

	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return value.Float(f)
	}
	return value.String(s)
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}
