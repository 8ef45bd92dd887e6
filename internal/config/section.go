package config

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// foldKey normalizes a key for storage and lookup.
func foldKey(key string) string {
	return cases.Lower(language.Und).String(key)
}

// Item is a key/value pair of a section.
type Item struct {
	Key   string
	Value value.Value
}

// Section is a case-insensitive map from key to value. A checked section
// verifies and coerces every assignment against the schema; an unchecked
// one only refuses the absent sentinel.
type Section struct {
	name    string
	schema  Schema
	checked bool
	entries map[string]value.Value

	// report receives every diagnostic emitted by Set.
	report DiagnosticHandler
}

// NewSection creates an empty section. Assignments are checked against
// schema when schema is non-nil.
func NewSection(name string, schema Schema) *Section {
	return &Section{
		name:    foldKey(name),
		schema:  schema,
		checked: schema != nil,
		entries: make(map[string]value.Value),
	}
}

// NewSectionFrom creates a section holding entries. Keys are case-folded
// and every entry goes through Set, so invalid entries are dropped.
func NewSectionFrom(name string, schema Schema, entries map[string]value.Value) (*Section, []Diagnostic) {
	s := NewSection(name, schema)
	return s, s.Update(entries)
}

// Name returns the section name.
func (s *Section) Name() string { return s.name }

// Checked reports whether assignments are validated.
func (s *Section) Checked() bool { return s.checked }

// Len returns the number of entries.
func (s *Section) Len() int { return len(s.entries) }

// Get returns the value stored under key.
func (s *Section) Get(key string) (value.Value, bool) {
	v, ok := s.entries[foldKey(key)]
	return v, ok
}

// Lookup returns the value stored under key, or def if there is none.
func (s *Section) Lookup(key string, def value.Value) value.Value {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (s *Section) Has(key string) bool {
	_, ok := s.entries[foldKey(key)]
	return ok
}

// Delete removes key and reports whether it was present.
func (s *Section) Delete(key string) bool {
	key = foldKey(key)
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Pop removes key and returns its value.
func (s *Section) Pop(key string) (value.Value, bool) {
	key = foldKey(key)
	v, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return v, ok
}

// SetDefault stores v under key unless key is already present, and
// returns the value stored under key afterwards. The assignment is
// validated like Set; if it is rejected, None is returned.
func (s *Section) SetDefault(key string, v value.Value) (value.Value, SetResult) {
	if cur, ok := s.Get(key); ok {
		return cur, SetResult{Stored: false}
	}
	res := s.Set(key, v)
	cur, _ := s.Get(key)
	return cur, res
}

// Set assigns v to key.
//
// For a checked section the key must pass VerifySectionKey and the value
// must not be an empty string. The absent sentinel is refused for every
// section. A value whose kind differs from the schema produces an advisory
// wrong-type diagnostic; the value is then coerced and stored. Rejected
// assignments leave the section unchanged.
func (s *Section) Set(key string, v value.Value) SetResult {
	key = foldKey(key)
	var res SetResult
	valid := true

	if s.checked {
		ok, d := VerifySectionKey(s.schema, s.name, key)
		if d != nil {
			d.Value = v
			s.emit(&res, *d)
		}
		valid = ok
		if str, isStr := v.AsString(); valid && isStr && str == "" {
			s.emit(&res, Diagnostic{
				Code:    CodeEmptyValue,
				Section: s.name,
				Key:     key,
				Value:   v,
				Message: fmt.Sprintf("empty value for [%s]: %q", s.name, key),
			})
			valid = false
		}
	}

	if v.IsNone() {
		s.emit(&res, Diagnostic{
			Code:    CodeBadValue,
			Section: s.name,
			Key:     key,
			Value:   v,
			Message: fmt.Sprintf("bad value 'None' for [%s]: %q", s.name, key),
		})
		valid = false
	}

	if !valid {
		return res
	}

	if s.checked {
		if kind, ok := s.schema.ValueKind(s.name, key); ok && kind != v.Kind() {
			s.emit(&res, Diagnostic{
				Code:    CodeWrongType,
				Section: s.name,
				Key:     key,
				Value:   v,
				Message: fmt.Sprintf("type of configuration key [%s]: %q should be %s, got %s", s.name, key, kind, v.Kind()),
			})
		}
		coerced, err := s.schema.Coerce(s.name, key, v)
		if err != nil {
			s.emit(&res, Diagnostic{
				Code:    CodeBadValue,
				Section: s.name,
				Key:     key,
				Value:   v,
				Message: fmt.Sprintf("bad value %q for [%s]: %q: %v", v.Format(), s.name, key, err),
			})
			return res
		}
		v = coerced
	}

	s.entries[key] = v.Clone()
	res.Stored = true
	return res
}

func (s *Section) emit(res *SetResult, d Diagnostic) {
	res.Diagnostics = append(res.Diagnostics, d)
	if s.report != nil {
		s.report(d)
	}
}

// Update applies Set for every entry, in sorted key order, and returns
// the diagnostics of all assignments.
func (s *Section) Update(entries map[string]value.Value) []Diagnostic {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var diags []Diagnostic
	for _, k := range keys {
		res := s.Set(k, entries[k])
		diags = append(diags, res.Diagnostics...)
	}
	return diags
}

// UpdateFrom applies Set for every entry of other.
func (s *Section) UpdateFrom(other *Section) []Diagnostic {
	return s.Update(other.entries)
}

// Keys returns the keys in sorted order.
func (s *Section) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns the entries sorted by key.
func (s *Section) Items() []Item {
	keys := s.Keys()
	items := make([]Item, len(keys))
	for i, k := range keys {
		items[i] = Item{Key: k, Value: s.entries[k]}
	}
	return items
}

// Map returns a copy of the entries.
func (s *Section) Map() map[string]value.Value {
	out := make(map[string]value.Value, len(s.entries))
	for k, v := range s.entries {
		out[k] = v.Clone()
	}
	return out
}

// clone returns a deep copy reporting to report.
func (s *Section) clone(report DiagnosticHandler) *Section {
	return &Section{
		name:    s.name,
		schema:  s.schema,
		checked: s.checked,
		entries: s.Map(),
		report:  report,
	}
}
