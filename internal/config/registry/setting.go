// Package registry provides the schema registry for RT-DC configurations.
//
// The registry holds the definition of every known section/key pair: its
// value kind, the coercion function that turns raw input into the canonical
// typed value, and a description. It also knows the scalar feature names of
// the dataset format, which are valid targets for filtering ranges.
package registry

import (
	"fmt"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// CoerceFunc converts a raw or loosely typed value into the canonical value
// for a setting.
type CoerceFunc func(value.Value) (value.Value, error)

// Group classifies a setting as measurement metadata or analysis parameter.
type Group uint8

const (
	// GroupMetadata holds settings describing the original measurement.
	GroupMetadata Group = iota
	// GroupAnalysis holds settings that drive filtering and computations.
	GroupAnalysis
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupMetadata:
		return "metadata"
	case GroupAnalysis:
		return "analysis"
	default:
		return "unknown"
	}
}

// Setting defines a single configuration key.
type Setting struct {
	// Section is the lower-case section name (e.g. "setup").
	Section string

	// Key is the lower-case key name (e.g. "channel width").
	Key string

	// Kind is the expected value kind after coercion.
	Kind value.Kind

	// Coerce converts input into a value of Kind. If nil, a coercion
	// function is derived from Kind.
	Coerce CoerceFunc

	// Description is human-readable documentation, including units.
	Description string

	// Group tells metadata and analysis settings apart.
	Group Group
}

// Path returns "section:key".
func (s *Setting) Path() string {
	return s.Section + ":" + s.Key
}

// Apply runs the setting's coercion function over v.
func (s *Setting) Apply(v value.Value) (value.Value, error) {
	fn := s.Coerce
	if fn == nil {
		fn = CoerceFor(s.Kind)
	}
	out, err := fn(v)
	if err != nil {
		return value.None, fmt.Errorf("[%s] %s: %w", s.Section, s.Key, err)
	}
	return out, nil
}

// CoerceFor returns the default coercion function for a kind.
func CoerceFor(k value.Kind) CoerceFunc {
	switch k {
	case value.KindString:
		return ToString
	case value.KindBool:
		return ToBool
	case value.KindInt:
		return ToInt
	case value.KindFloat:
		return ToFloat
	case value.KindFloatList:
		return ToFloatList
	case value.KindIntList:
		return ToIntList
	default:
		return Identity
	}
}
