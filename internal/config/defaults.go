package config

import "github.com/dshills/rtdcconfig/internal/config/value"

// Default is a default value for a key of the filtering section.
type Default struct {
	Key   string
	Value value.Value
}

// FilterDefaults returns the built-in filtering defaults. They are needed
// for backwards compatibility and for resetting filters.
func FilterDefaults() []Default {
	return []Default{
		// do not filter out invalid event values
		{Key: "remove invalid events", Value: value.Bool(false)},
		// the enable filters switch is mandatory
		{Key: "enable filters", Value: value.Bool(true)},
		// limit the number of events to downsample output data
		{Key: "limit events", Value: value.Int(0)},
		{Key: "polygon filters", Value: value.IntList()},
		{Key: "hierarchy parent", Value: value.String("none")},
	}
}
