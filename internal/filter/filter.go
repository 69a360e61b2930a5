// Package filter narrows a subject's resources by type and language.
package filter

import (
	"strings"

	"github.com/ziadkadry99/studyhub/internal/catalog"
)

// All is the wildcard value for both filters.
const All = "all"

// Filters is the active resource filter pair.
type Filters struct {
	Type     string `json:"type"`
	Language string `json:"language"`
}

// Default returns the wildcard filters.
func Default() Filters {
	return Filters{Type: All, Language: All}
}

// IsDefault reports whether neither filter narrows anything.
func (f Filters) IsDefault() bool {
	return isWildcard(f.Type) && isWildcard(f.Language)
}

func isWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Resources returns the resources of subjectID that match both the type and
// the language filter, in input order. An empty or "all" filter matches
// everything. A resource with no language matches catalog.DefaultLanguage.
func Resources(resources []catalog.Resource, subjectID, typeFilter, languageFilter string) []catalog.Resource {
	out := []catalog.Resource{}
	for _, r := range resources {
		if catalog.SameID(r.SubjectID, subjectID) && Match(r, typeFilter, languageFilter) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r passes the type and language filters, ignoring
// its subject.
func Match(r catalog.Resource, typeFilter, languageFilter string) bool {
	if !isWildcard(typeFilter) && !strings.EqualFold(r.Type, strings.TrimSpace(typeFilter)) {
		return false
	}
	if !isWildcard(languageFilter) && !strings.EqualFold(r.LanguageOrDefault(), strings.TrimSpace(languageFilter)) {
		return false
	}
	return true
}

// Apply is Resources with a Filters value.
func Apply(resources []catalog.Resource, subjectID string, f Filters) []catalog.Resource {
	return Resources(resources, subjectID, f.Type, f.Language)
}

// Types lists the distinct resource types in first-seen order.
func Types(resources []catalog.Resource) []string {
	return distinct(resources, func(r catalog.Resource) string { return r.Type })
}

// Languages lists the distinct resource languages in first-seen order.
func Languages(resources []catalog.Resource) []string {
	return distinct(resources, catalog.Resource.LanguageOrDefault)
}

func distinct(resources []catalog.Resource, key func(catalog.Resource) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range resources {
		k := key(r)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}
