package config

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	filteringSection = "filtering"
	userSection      = "user"

	// legacyAutoLimitKey limited events to a common minimum in old
	// analysis software.
	legacyAutoLimitKey = "limit events auto"

	// maxSuggestDistance bounds the edit distance of suggestions.
	maxSuggestDistance = 3
)

// deprecatedSections were used by old analysis software to store plot
// and analysis state.
var deprecatedSections = map[string]bool{
	"plotting": true,
	"analysis": true,
}

// VerifySectionKey reports whether section/key may be stored. If not, the
// returned diagnostic describes why. Legacy sections and keys are checked
// before the generic unknown section/key fallback so that they get a more
// specific diagnostic.
func VerifySectionKey(schema Schema, section, key string) (bool, *Diagnostic) {
	if schema.KeyExists(section, key) {
		return true, nil
	}

	diag := func(code DiagnosticCode, msg string) (bool, *Diagnostic) {
		return false, &Diagnostic{Code: code, Section: section, Key: key, Message: msg}
	}

	switch {
	case deprecatedSections[section]:
		return diag(CodeDeprecatedSection,
			fmt.Sprintf("the %q configuration section is deprecated", section))

	case section == filteringSection:
		if strings.HasSuffix(key, " min") || strings.HasSuffix(key, " max") {
			feat := key[:len(key)-4]
			if schema.ScalarFeatureExists(feat) {
				return true, nil
			}
			return diag(CodeUnknownFilterFeature,
				fmt.Sprintf("a range has been specified for an unknown feature %q in the 'filtering' section", feat))
		}
		if key == legacyAutoLimitKey {
			return diag(CodeDeprecatedKey,
				fmt.Sprintf("the %q configuration key in the 'filtering' section is deprecated", key))
		}
		ok, d := diag(CodeUnknownKey, fmt.Sprintf("unknown key %q in the 'filtering' section", key))
		d.Suggestion = suggest(key, schema.Keys(section))
		return ok, d

	case section == userSection:
		if strings.TrimSpace(key) != "" {
			return true, nil
		}
		return diag(CodeBadUserKey,
			"the 'user' section keys must not be empty strings or consist of whitespace characters only")

	case !schema.IsSection(section):
		ok, d := diag(CodeUnknownSection, fmt.Sprintf("unknown section %q", section))
		d.Suggestion = suggest(section, schema.Sections())
		return ok, d

	default:
		ok, d := diag(CodeUnknownKey, fmt.Sprintf("unknown key %q in the %q section", key, section))
		d.Suggestion = suggest(key, schema.Keys(section))
		return ok, d
	}
}

// suggest returns the candidate closest to word, or "" if none is close
// enough to be a plausible typo.
func suggest(word string, candidates []string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, c)
		if d < bestDist && d < len(word) {
			best, bestDist = c, d
		}
	}
	return best
}
