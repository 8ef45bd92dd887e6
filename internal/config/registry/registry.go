package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// ErrSettingAlreadyRegistered indicates a duplicate section/key definition.
var ErrSettingAlreadyRegistered = errors.New("setting already registered")

// ErrUnknownSetting is returned by Coerce for section/key pairs that were
// never registered.
var ErrUnknownSetting = errors.New("unknown setting")

// FilteringSection is the analysis section holding filter parameters.
const FilteringSection = "filtering"

// UserSection holds free-form keys defined by the user.
const UserSection = "user"

// Registry maintains all known settings and scalar features. It is safe
// for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sections map[string]map[string]*Setting
	features map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sections: make(map[string]map[string]*Setting),
		features: make(map[string]struct{}),
	}
}

// NewWithDefaults creates a registry holding the built-in RT-DC settings
// and scalar features.
func NewWithDefaults() *Registry {
	r := New()
	r.RegisterDefaults()
	return r
}

// Register adds a setting definition. Section and key are lower-cased.
func (r *Registry) Register(setting Setting) error {
	setting.Section = strings.ToLower(strings.TrimSpace(setting.Section))
	setting.Key = strings.ToLower(strings.TrimSpace(setting.Key))
	if setting.Section == "" || setting.Key == "" {
		return fmt.Errorf("registering %q: section and key must not be empty", setting.Path())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sec, ok := r.sections[setting.Section]
	if !ok {
		sec = make(map[string]*Setting)
		r.sections[setting.Section] = sec
	}
	if _, exists := sec[setting.Key]; exists {
		return fmt.Errorf("%w: %s", ErrSettingAlreadyRegistered, setting.Path())
	}

	s := setting
	sec[setting.Key] = &s
	return nil
}

// MustRegister registers a setting and panics on error.
func (r *Registry) MustRegister(setting Setting) {
	if err := r.Register(setting); err != nil {
		panic(err)
	}
}

// RegisterFeatures adds scalar feature names.
func (r *Registry) RegisterFeatures(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.features[name] = struct{}{}
	}
}

// Get returns the setting definition, or nil if it is not registered.
func (r *Registry) Get(section, key string) *Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sections[section][key]
}

// KeyExists reports whether section/key is registered.
func (r *Registry) KeyExists(section, key string) bool {
	return r.Get(section, key) != nil
}

// IsSection reports whether any setting is registered under section.
func (r *Registry) IsSection(section string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sections[section]
	return ok
}

// ScalarFeatureExists reports whether name is a known scalar feature.
func (r *Registry) ScalarFeatureExists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.features[name]
	return ok
}

// ValueKind returns the expected kind for section/key. Filtering ranges
// ("<feature> min", "<feature> max") are floats.
func (r *Registry) ValueKind(section, key string) (value.Kind, bool) {
	s := r.Get(section, key)
	if s == nil {
		if r.isFilterRange(section, key) {
			return value.KindFloat, true
		}
		return value.KindNone, false
	}
	return s.Kind, true
}

// Coerce converts v with the coercion function registered for section/key.
// Keys of the user section are stored as given and filtering ranges are
// converted to floats.
func (r *Registry) Coerce(section, key string, v value.Value) (value.Value, error) {
	s := r.Get(section, key)
	if s == nil {
		switch {
		case section == UserSection:
			return v, nil
		case r.isFilterRange(section, key):
			return ToFloat(v)
		}
		return value.None, fmt.Errorf("%w: [%s] %s", ErrUnknownSetting, section, key)
	}
	return s.Apply(v)
}

// FilterRangeFeature returns the feature of a filtering range key such as
// "deform min".
func FilterRangeFeature(key string) (string, bool) {
	if strings.HasSuffix(key, " min") || strings.HasSuffix(key, " max") {
		return key[:len(key)-4], true
	}
	return "", false
}

func (r *Registry) isFilterRange(section, key string) bool {
	if section != FilteringSection {
		return false
	}
	feat, ok := FilterRangeFeature(key)
	return ok && r.ScalarFeatureExists(feat)
}

// Sections returns all section names sorted.
func (r *Registry) Sections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.sections))
	for name := range r.sections {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// SectionsIn returns the sorted names of sections whose settings belong
// to group g.
func (r *Registry) SectionsIn(g Group) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []string
	for name, sec := range r.sections {
		for _, s := range sec {
			if s.Group == g {
				result = append(result, name)
				break
			}
		}
	}
	sort.Strings(result)
	return result
}

// Keys returns the registered keys of a section sorted.
func (r *Registry) Keys(section string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sec := r.sections[section]
	result := make([]string, 0, len(sec))
	for key := range sec {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

// Section returns the settings of a section sorted by key.
func (r *Registry) Section(name string) []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sec := r.sections[name]
	result := make([]*Setting, 0, len(sec))
	for _, s := range sec {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// FilteringKeys returns the analysis keys of the filtering section. Every
// one of them needs a default value in a configuration.
func (r *Registry) FilteringKeys() []string {
	var keys []string
	for _, s := range r.Section(FilteringSection) {
		if s.Group == GroupAnalysis {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// Features returns all scalar feature names sorted.
func (r *Registry) Features() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.features))
	for name := range r.features {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Search finds settings whose path or description contains query.
func (r *Registry) Search(query string) []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	var result []*Setting
	for _, sec := range r.sections {
		for _, s := range sec {
			if strings.Contains(s.Path(), query) ||
				strings.Contains(strings.ToLower(s.Description), query) {
				result = append(result, s)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path() < result[j].Path()
	})
	return result
}
