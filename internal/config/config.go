package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/dshills/rtdcconfig/internal/config/loader"
	"github.com/dshills/rtdcconfig/internal/config/value"
)

// Configuration maps section names to sections. It is not safe for
// concurrent use; callers serialize access to a single instance.
type Configuration struct {
	schema        Schema
	sections      map[string]*Section
	disableChecks bool

	fs       afero.Fs
	files    []string
	dict     value.Table
	defaults []Default

	handler     DiagnosticHandler
	diagnostics []Diagnostic
}

// Option configures a Configuration.
type Option func(*Configuration)

// WithFiles loads the given files, in order, after the defaults and the
// initial dictionary. The format is picked from each file extension.
func WithFiles(paths ...string) Option {
	return func(c *Configuration) {
		c.files = append(c.files, paths...)
	}
}

// WithDict merges t after the defaults and before any file.
func WithDict(t value.Table) Option {
	return func(c *Configuration) {
		c.dict = t
	}
}

// WithChecksDisabled skips schema verification and coercion. Useful for
// loading files not written by RT-DC software without a flood of
// diagnostics.
func WithChecksDisabled() Option {
	return func(c *Configuration) {
		c.disableChecks = true
	}
}

// WithFilterDefaults replaces the built-in filtering defaults.
func WithFilterDefaults(defaults []Default) Option {
	return func(c *Configuration) {
		c.defaults = defaults
	}
}

// WithDiagnosticHandler forwards every diagnostic to h.
func WithDiagnosticHandler(h DiagnosticHandler) Option {
	return func(c *Configuration) {
		c.handler = h
	}
}

// WithFS sets the file system used for loading and saving.
func WithFS(fsys afero.Fs) Option {
	return func(c *Configuration) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

// New creates a configuration. Defaults are applied first, then the
// dictionary given by WithDict, then every file given by WithFiles. Later
// sources override earlier ones key by key.
//
// New fails if a filtering key declared by the schema has no default, or
// if a file cannot be read.
func New(schema Schema, opts ...Option) (*Configuration, error) {
	if schema == nil {
		return nil, ErrNoSchema
	}

	c := &Configuration{
		schema:   schema,
		sections: make(map[string]*Section),
		fs:       loader.DefaultFS(),
		defaults: FilterDefaults(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initDefaults(); err != nil {
		return nil, err
	}

	if c.dict != nil {
		c.Update(c.dict)
	}

	for _, path := range c.files {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// initDefaults sets the filtering defaults and verifies that every
// filtering key of the schema has one.
func (c *Configuration) initDefaults() error {
	sec := c.provision(filteringSection)
	for _, d := range c.defaults {
		sec.Set(d.Key, d.Value)
	}
	for _, key := range c.schema.FilteringKeys() {
		if !sec.Has(key) {
			return &DefaultsError{Section: filteringSection, Key: key}
		}
	}
	return nil
}

func (c *Configuration) loadFile(path string) error {
	table, err := loader.Load(c.fs, path, c.schema)
	if err != nil {
		return err
	}
	c.Update(table)
	return nil
}

// Reload applies the configured files again on top of the current state.
func (c *Configuration) Reload() error {
	for _, path := range c.files {
		if err := c.loadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the files the configuration was loaded from.
func (c *Configuration) Files() []string {
	return append([]string(nil), c.files...)
}

// Schema returns the schema the configuration validates against.
func (c *Configuration) Schema() Schema {
	return c.schema
}

// ChecksDisabled reports whether schema checks are disabled.
func (c *Configuration) ChecksDisabled() bool {
	return c.disableChecks
}

// report records d and forwards it to the handler.
func (c *Configuration) report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	if c.handler != nil {
		c.handler(d)
	}
}

// Diagnostics returns all diagnostics emitted so far.
func (c *Configuration) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), c.diagnostics...)
}

// ClearDiagnostics forgets the collected diagnostics.
func (c *Configuration) ClearDiagnostics() {
	c.diagnostics = nil
}

// provision returns the named section, creating it if needed.
func (c *Configuration) provision(name string) *Section {
	if sec, ok := c.sections[name]; ok {
		return sec
	}
	var schema Schema
	if !c.disableChecks {
		schema = c.schema
	}
	sec := NewSection(name, schema)
	sec.report = c.report
	c.sections[sec.name] = sec
	return sec
}

// Section returns the named section. Sections known to the schema and the
// user section are created on first access, so reading may add an empty
// section. Other missing sections are reported as absent.
func (c *Configuration) Section(name string) (*Section, bool) {
	name = foldKey(name)
	if sec, ok := c.sections[name]; ok {
		return sec, true
	}
	if c.schema.IsSection(name) || name == userSection {
		return c.provision(name), true
	}
	return nil, false
}

// Get returns the named section if present, def otherwise. It never
// creates sections.
func (c *Configuration) Get(name string, def *Section) *Section {
	if sec, ok := c.sections[foldKey(name)]; ok {
		return sec
	}
	return def
}

// Has reports whether the named section is present.
func (c *Configuration) Has(name string) bool {
	_, ok := c.sections[foldKey(name)]
	return ok
}

// Len returns the number of sections.
func (c *Configuration) Len() int {
	return len(c.sections)
}

// Sections returns the section names in sorted order.
func (c *Configuration) Sections() []string {
	names := make([]string, 0, len(c.sections))
	for name := range c.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Update merges t key by key. Missing sections are created; existing
// sections are never replaced. It returns the diagnostics of the merge.
func (c *Configuration) Update(t value.Table) []Diagnostic {
	var diags []Diagnostic
	for _, name := range t.Sections() {
		sec := c.provision(foldKey(name))
		diags = append(diags, sec.Update(t[name])...)
	}
	return diags
}

// UpdateFrom merges another configuration key by key.
func (c *Configuration) UpdateFrom(other *Configuration) []Diagnostic {
	return c.Update(other.Table())
}

// Table returns a deep copy of the content as a plain table.
func (c *Configuration) Table() value.Table {
	t := make(value.Table, len(c.sections))
	for name, sec := range c.sections {
		t[name] = sec.Map()
	}
	return t
}

// Copy returns an independent deep copy. The copy shares the schema, the
// file system and the diagnostic handler, but no mutable state.
func (c *Configuration) Copy() *Configuration {
	cp := &Configuration{
		schema:        c.schema,
		sections:      make(map[string]*Section, len(c.sections)),
		disableChecks: c.disableChecks,
		fs:            c.fs,
		files:         c.Files(),
		dict:          c.dict.Clone(),
		defaults:      append([]Default(nil), c.defaults...),
		handler:       c.handler,
		diagnostics:   c.Diagnostics(),
	}
	for name, sec := range c.sections {
		cp.sections[name] = sec.clone(cp.report)
	}
	return cp
}

// String lists sections and their entries, one per line.
func (c *Configuration) String() string {
	var b strings.Builder
	for _, name := range c.Sections() {
		fmt.Fprintf(&b, "- %s\n", name)
		for _, item := range c.sections[name].Items() {
			fmt.Fprintf(&b, "   %s: %s\n", item.Key, item.Value.Format())
		}
	}
	return b.String()
}
