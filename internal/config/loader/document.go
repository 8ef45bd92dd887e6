package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// ParseTOML parses a TOML document whose top-level tables are sections.
// Top-level scalars and tables nested deeper than one level are ignored.
func ParseTOML(source string, data []byte) (value.Table, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			pe.Line, pe.Column = decErr.Position()
		}
		return nil, pe
	}
	return tableFromDocument(doc), nil
}

// ParseYAML parses a YAML mapping of sections to key/value mappings.
func ParseYAML(source string, data []byte) (value.Table, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return tableFromDocument(doc), nil
}

// ParseJSON parses a JSON object of sections to key/value objects, as
// produced by the configuration JSON export. Comments and trailing commas
// are tolerated.
func ParseJSON(source string, data []byte) (value.Table, error) {
	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON document"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Message: "top level must be an object"}
	}

	table := make(value.Table)
	root.ForEach(func(sec, body gjson.Result) bool {
		if !body.IsObject() {
			return true
		}
		name := strings.ToLower(sec.String())
		table.Ensure(name)
		body.ForEach(func(key, item gjson.Result) bool {
			if v, ok := jsonValue(item); ok {
				table.Set(name, strings.ToLower(key.String()), v)
			}
			return true
		})
		return true
	})
	return table, nil
}

// jsonValue converts a gjson result. Numbers without fraction or exponent
// become integers.
func jsonValue(r gjson.Result) (value.Value, bool) {
	switch r.Type {
	case gjson.String:
		return value.String(r.String()), true
	case gjson.True, gjson.False:
		return value.Bool(r.Bool()), true
	case gjson.Number:
		if isIntLiteral(r.Raw) {
			return value.Int(r.Int()), true
		}
		return value.Float(r.Float()), true
	case gjson.JSON:
		if !r.IsArray() {
			return value.None, false
		}
		var items []any
		ok := true
		r.ForEach(func(_, el gjson.Result) bool {
			if el.Type != gjson.Number {
				ok = false
				return false
			}
			if isIntLiteral(el.Raw) {
				items = append(items, el.Int())
			} else {
				items = append(items, el.Float())
			}
			return true
		})
		if !ok {
			return value.None, false
		}
		if items == nil {
			return value.FloatList(), true
		}
		v, err := value.Of(items)
		return v, err == nil
	}
	return value.None, false
}

func isIntLiteral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}

// tableFromDocument converts a decoded two-level document. Entries that
// cannot be represented as a value are skipped.
func tableFromDocument(doc map[string]any) value.Table {
	table := make(value.Table)
	for sec, body := range doc {
		entries, ok := asMap(body)
		if !ok {
			continue
		}
		name := strings.ToLower(sec)
		table.Ensure(name)
		for key, raw := range entries {
			if v, ok := documentValue(raw); ok {
				table.Set(name, strings.ToLower(key), v)
			}
		}
	}
	return table
}

func asMap(x any) (map[string]any, bool) {
	switch m := x.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

func documentValue(raw any) (value.Value, bool) {
	if raw == nil {
		return value.None, false
	}
	if _, nested := asMap(raw); nested {
		return value.None, false
	}
	v, err := value.Of(raw)
	if err == nil {
		return v, true
	}
	// dates and times decoded by the TOML and YAML parsers
	if s, ok := raw.(fmt.Stringer); ok {
		return value.String(s.String()), true
	}
	return value.None, false
}
