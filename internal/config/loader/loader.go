// Package loader reads RT-DC configuration sources into plain tables.
//
// The primary source is the legacy line-oriented text format:
//
//	[setup]
//	channel width = 20
//	medium = CellCarrier
//
// The parser is tolerant: malformed lines are dropped, invalid UTF-8 is
// replaced, and values of keys the schema does not know are typed by
// heuristic inference. TOML, YAML and JSON documents with the same
// two-level shape, environment variables and dotenv files are supported as
// additional sources. Loaders never validate; that is the job of the
// configuration the table is merged into.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// Schema is the part of the schema registry loaders need. A nil Schema
// treats every key as unknown.
type Schema interface {
	KeyExists(section, key string) bool
	ScalarFeatureExists(name string) bool
	Coerce(section, key string, v value.Value) (value.Value, error)
}

// Format identifies a configuration file format.
type Format uint8

const (
	// FormatText is the legacy INI-like text format.
	FormatText Format = iota
	// FormatTOML is a two-level TOML document.
	FormatTOML
	// FormatYAML is a two-level YAML document.
	FormatYAML
	// FormatJSON is a two-level JSON document, comments allowed.
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "txt", "ini":
		return FormatText, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json", "jsonc":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown format %q", name)
}

// DetectFormat picks a format from the file extension. Anything not
// recognized is treated as the text format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatText
	}
}

// DefaultFS returns the OS file system.
func DefaultFS() afero.Fs {
	return afero.NewOsFs()
}

// Load reads path from fsys in the format implied by its extension.
func Load(fsys afero.Fs, path string, schema Schema) (value.Table, error) {
	return LoadAs(fsys, path, DetectFormat(path), schema)
}

// LoadAs reads path from fsys in the given format.
func LoadAs(fsys afero.Fs, path string, format Format, schema Schema) (value.Table, error) {
	if fsys == nil {
		fsys = DefaultFS()
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var table value.Table
	switch format {
	case FormatTOML:
		table, err = ParseTOML(path, data)
	case FormatYAML:
		table, err = ParseYAML(path, data)
	case FormatJSON:
		table, err = ParseJSON(path, data)
	default:
		return ParseText(data, schema)
	}
	if err != nil {
		return nil, err
	}
	return CoerceTable(table, schema), nil
}

// CoerceTable converts the values of a decoded document with the schema,
// the way the text parser converts known keys. Document encoders lose
// some kind information (an empty list, a whole float written as an
// integer); values the schema cannot convert are kept for the receiving
// configuration to report. The table is modified in place.
func CoerceTable(table value.Table, schema Schema) value.Table {
	if schema == nil {
		return table
	}
	for section, entries := range table {
		for key, v := range entries {
			if cv, err := schema.Coerce(section, key, v); err == nil {
				entries[key] = cv
			}
		}
	}
	return table
}

// ParseError represents an error while parsing a structured document.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
