package value

import (
	"fmt"
	"sort"
)

// Table is a plain two-level mapping from section name to key/value
// pairs. It carries no validation and is the interchange shape between
// loaders and configurations.
type Table map[string]map[string]Value

// Set stores v under section/key, creating the section as needed.
func (t Table) Set(section, key string, v Value) {
	sec, ok := t[section]
	if !ok {
		sec = make(map[string]Value)
		t[section] = sec
	}
	sec[key] = v
}

// Ensure creates an empty section if it does not exist yet.
func (t Table) Ensure(section string) {
	if _, ok := t[section]; !ok {
		t[section] = make(map[string]Value)
	}
}

// Get returns the value at section/key.
func (t Table) Get(section, key string) (Value, bool) {
	sec, ok := t[section]
	if !ok {
		return None, false
	}
	v, ok := sec[key]
	return v, ok
}

// Sections returns the section names in sorted order.
func (t Table) Sections() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the keys of a section in sorted order.
func (t Table) Keys(section string) []string {
	sec := t[section]
	keys := make([]string, 0, len(sec))
	for k := range sec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for name, sec := range t {
		dst := make(map[string]Value, len(sec))
		for k, v := range sec {
			dst[k] = v.Clone()
		}
		out[name] = dst
	}
	return out
}

// TableOf converts a nested native map, such as a decoded document or a
// literal in a test, into a Table.
func TableOf(m map[string]map[string]any) (Table, error) {
	out := make(Table, len(m))
	for name, sec := range m {
		out.Ensure(name)
		for k, raw := range sec {
			v, err := Of(raw)
			if err != nil {
				return nil, fmt.Errorf("[%s] %s: %w", name, k, err)
			}
			out[name][k] = v
		}
	}
	return out, nil
}

// MustTableOf is like TableOf but panics on error.
func MustTableOf(m map[string]map[string]any) Table {
	t, err := TableOf(m)
	if err != nil {
		panic(err)
	}
	return t
}
