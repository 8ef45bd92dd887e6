package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// DefaultEnvPrefix is the prefix of configuration environment variables.
const DefaultEnvPrefix = "RTDC_"

// EnvLoader loads configuration from environment variables.
//
// A variable RTDC_SETUP__CHANNEL_WIDTH=20 sets [setup] channel width. The
// double underscore separates section and key; single underscores in the
// key become spaces, those in the section are kept (online_contour).
type EnvLoader struct {
	prefix string
	schema Schema
}

// NewEnvLoader creates a loader for variables starting with prefix. An
// empty prefix selects DefaultEnvPrefix.
func NewEnvLoader(prefix string, schema Schema) *EnvLoader {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvLoader{prefix: prefix, schema: schema}
}

// Load reads the process environment.
func (l *EnvLoader) Load() (value.Table, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, val, ok := strings.Cut(kv, "="); ok {
			env[name] = val
		}
	}
	return l.LoadFrom(env), nil
}

// LoadDotEnv reads variables from a dotenv file instead of the process
// environment.
func (l *EnvLoader) LoadDotEnv(path string) (value.Table, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return l.LoadFrom(env), nil
}

// LoadFrom converts the matching entries of env. Values are coerced or
// inferred exactly like values in a text configuration file; empty values
// are skipped.
func (l *EnvLoader) LoadFrom(env map[string]string) value.Table {
	table := make(value.Table)
	for name, raw := range env {
		section, key, ok := l.envToPath(name)
		if !ok {
			continue
		}
		val := stripValue(raw)
		if val == "" {
			continue
		}
		table.Set(section, key, convertRaw(l.schema, section, key, val))
	}
	return table
}

// envToPath converts RTDC_SETUP__FLOW_RATE to ("setup", "flow rate").
func (l *EnvLoader) envToPath(name string) (string, string, bool) {
	if !strings.HasPrefix(name, l.prefix) {
		return "", "", false
	}
	sec, key, ok := strings.Cut(strings.TrimPrefix(name, l.prefix), "__")
	if !ok || sec == "" || key == "" {
		return "", "", false
	}
	key = strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if key == "" {
		return "", "", false
	}
	return strings.ToLower(sec), strings.ToLower(key), true
}
