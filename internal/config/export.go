package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// ToText returns the configuration in the text file format. If sections
// are given, only those are written, in sorted order. Unknown names are
// skipped. Every section is followed by a blank line.
func (c *Configuration) ToText(sections ...string) string {
	names := c.Sections()
	if len(sections) > 0 {
		want := make(map[string]bool, len(sections))
		for _, s := range sections {
			want[foldKey(s)] = true
		}
		filtered := names[:0]
		for _, n := range names {
			if want[n] {
				filtered = append(filtered, n)
			}
		}
		names = filtered
	}

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "[%s]\n", name)
		for _, item := range c.sections[name].Items() {
			fmt.Fprintf(&b, "%s = %s\n", item.Key, item.Value.Format())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Save writes the text form of the configuration to path.
func (c *Configuration) Save(path string) error {
	if err := afero.WriteFile(c.fs, path, []byte(c.ToText()), 0o644); err != nil {
		return fmt.Errorf("saving config file %s: %w", path, err)
	}
	return nil
}

// ToJSON returns the configuration as a JSON object of section objects.
// Non-finite floats are written as null.
func (c *Configuration) ToJSON() ([]byte, error) {
	doc := []byte("{}")
	var err error
	for _, name := range c.Sections() {
		secPath := gjson.Escape(name)
		if doc, err = sjson.SetRawBytes(doc, secPath, []byte("{}")); err != nil {
			return nil, fmt.Errorf("json export of [%s]: %w", name, err)
		}
		for _, item := range c.sections[name].Items() {
			path := secPath + "." + gjson.Escape(item.Key)
			if doc, err = setJSON(doc, path, item.Value); err != nil {
				return nil, fmt.Errorf("json export of [%s] %s: %w", name, item.Key, err)
			}
		}
	}
	return doc, nil
}

func setJSON(doc []byte, path string, v value.Value) ([]byte, error) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return sjson.SetBytes(doc, path, s)
	case value.KindBool:
		b, _ := v.AsBool()
		return sjson.SetBytes(doc, path, b)
	case value.KindInt:
		n, _ := v.AsInt()
		return sjson.SetRawBytes(doc, path, strconv.AppendInt(nil, n, 10))
	case value.KindFloat:
		f, _ := v.AsFloat()
		return sjson.SetRawBytes(doc, path, jsonFloat(nil, f))
	case value.KindFloatList:
		fs, _ := v.AsFloatList()
		raw := []byte{'['}
		for i, f := range fs {
			if i > 0 {
				raw = append(raw, ',')
			}
			raw = jsonFloat(raw, f)
		}
		return sjson.SetRawBytes(doc, path, append(raw, ']'))
	case value.KindIntList:
		ns, _ := v.AsIntList()
		raw := []byte{'['}
		for i, n := range ns {
			if i > 0 {
				raw = append(raw, ',')
			}
			raw = strconv.AppendInt(raw, n, 10)
		}
		return sjson.SetRawBytes(doc, path, append(raw, ']'))
	}
	return sjson.SetRawBytes(doc, path, []byte("null"))
}

// jsonFloat appends f so that it reads back as a float.
func jsonFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return append(dst, s...)
}

// native returns the configuration as nested plain Go maps.
func (c *Configuration) native() map[string]map[string]any {
	out := make(map[string]map[string]any, len(c.sections))
	for name, sec := range c.sections {
		entries := make(map[string]any, sec.Len())
		for _, item := range sec.Items() {
			entries[item.Key] = item.Value.Native()
		}
		out[name] = entries
	}
	return out
}

// ToTOML returns the configuration as a TOML document with one table per
// section.
func (c *Configuration) ToTOML() ([]byte, error) {
	data, err := toml.Marshal(c.native())
	if err != nil {
		return nil, fmt.Errorf("toml export: %w", err)
	}
	return data, nil
}

// ToYAML returns the configuration as a YAML mapping of sections.
func (c *Configuration) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c.native())
	if err != nil {
		return nil, fmt.Errorf("yaml export: %w", err)
	}
	return data, nil
}
