package config

import (
	"github.com/dshills/rtdcconfig/internal/config/value"
)

// Schema is the schema registry a configuration validates against.
// *registry.Registry implements it.
type Schema interface {
	// KeyExists reports whether section/key is a registered setting.
	KeyExists(section, key string) bool
	// ScalarFeatureExists reports whether name is a scalar feature.
	ScalarFeatureExists(name string) bool
	// ValueKind returns the expected kind of section/key, if any.
	ValueKind(section, key string) (value.Kind, bool)
	// Coerce converts v to the canonical value of section/key.
	Coerce(section, key string, v value.Value) (value.Value, error)
	// IsSection reports whether name is a known section.
	IsSection(name string) bool
	// Sections lists the known sections.
	Sections() []string
	// Keys lists the registered keys of a section.
	Keys(section string) []string
	// FilteringKeys lists the filtering keys that need a default value.
	FilteringKeys() []string
}
