package config

import (
	"errors"
	"fmt"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// Errors returned by configuration operations.
var (
	// ErrMissingDefault indicates the defaults table does not cover every
	// filtering key declared by the schema.
	ErrMissingDefault = errors.New("missing default value")

	// ErrNoSchema indicates a configuration was created without a schema.
	ErrNoSchema = errors.New("no schema registry given")
)

// DefaultsError reports a filtering key without a default value.
type DefaultsError struct {
	Section string
	Key     string
}

// Error implements the error interface.
func (e *DefaultsError) Error() string {
	return fmt.Sprintf("no default value set for [%s]: %s", e.Section, e.Key)
}

// Is implements error matching for DefaultsError.
func (e *DefaultsError) Is(target error) bool {
	return target == ErrMissingDefault
}

// DiagnosticCode categorizes a rejected or questionable assignment.
type DiagnosticCode uint8

const (
	// CodeUnknownSection indicates a section the schema does not know.
	CodeUnknownSection DiagnosticCode = iota
	// CodeUnknownKey indicates a key the schema does not know in a known section.
	CodeUnknownKey
	// CodeUnknownFilterFeature indicates a filtering range for an unknown feature.
	CodeUnknownFilterFeature
	// CodeDeprecatedSection indicates a legacy section.
	CodeDeprecatedSection
	// CodeDeprecatedKey indicates a legacy key.
	CodeDeprecatedKey
	// CodeEmptyValue indicates an empty string for a checked key.
	CodeEmptyValue
	// CodeBadValue indicates the absent sentinel or a value that cannot be coerced.
	CodeBadValue
	// CodeWrongType indicates a value whose kind differs from the schema.
	// The coerced value is stored anyway.
	CodeWrongType
	// CodeBadUserKey indicates an empty or blank key in the user section.
	CodeBadUserKey
)

// String returns a human-readable name for the code.
func (c DiagnosticCode) String() string {
	switch c {
	case CodeUnknownSection:
		return "unknown_section"
	case CodeUnknownKey:
		return "unknown_key"
	case CodeUnknownFilterFeature:
		return "unknown_filter_feature"
	case CodeDeprecatedSection:
		return "deprecated_section"
	case CodeDeprecatedKey:
		return "deprecated_key"
	case CodeEmptyValue:
		return "empty_value"
	case CodeBadValue:
		return "bad_value"
	case CodeWrongType:
		return "wrong_type"
	case CodeBadUserKey:
		return "bad_user_key"
	default:
		return "unknown"
	}
}

// Blocking reports whether a diagnostic of this code prevents the write.
func (c DiagnosticCode) Blocking() bool {
	return c != CodeWrongType
}

// Diagnostic describes a problem found while assigning a value.
type Diagnostic struct {
	Code    DiagnosticCode
	Section string
	Key     string
	Value   value.Value
	Message string

	// Suggestion is the closest known name for unknown sections and keys.
	Suggestion string
}

// Error implements the error interface so diagnostics can be collected
// and wrapped like other errors.
func (d Diagnostic) Error() string {
	if d.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %q?)", d.Message, d.Suggestion)
	}
	return d.Message
}

// DiagnosticHandler receives diagnostics as they are emitted.
type DiagnosticHandler func(Diagnostic)

// SetResult is the outcome of a single assignment.
type SetResult struct {
	// Stored is true if the value was written.
	Stored bool

	// Diagnostics lists every problem found, including advisory ones.
	Diagnostics []Diagnostic
}

// Has reports whether the result carries a diagnostic with the given code.
func (r SetResult) Has(code DiagnosticCode) bool {
	for _, d := range r.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}
