package filter

import (
	"reflect"
	"testing"

	"github.com/ziadkadry99/studyhub/internal/catalog"
)

var resources = []catalog.Resource{
	{ID: "1", SubjectID: "s1", Type: "PDF", Language: "English"},
	{ID: "2", SubjectID: "s1", Type: "Video", Language: "Hindi"},
	{ID: "3", SubjectID: "s2", Type: "PDF", Language: "English"},
	{ID: "4", SubjectID: "s1", Type: "PDF"},
	{ID: "5", SubjectID: "s1", Type: "Notes", Language: "Hindi"},
	{ID: "6", SubjectID: "s1", Type: "PDF", Language: "Hindi"},
}

func ids(rs []catalog.Resource) []string {
	out := []string{}
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestResources(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		typ      string
		language string
		want     []string
	}{
		{"wildcards", "s1", All, All, []string{"1", "2", "4", "5", "6"}},
		{"empty means all", "s1", "", "", []string{"1", "2", "4", "5", "6"}},
		{"type only", "s1", "PDF", All, []string{"1", "4", "6"}},
		{"language only", "s1", All, "Hindi", []string{"2", "5", "6"}},
		{"conjunctive", "s1", "PDF", "Hindi", []string{"6"}},
		{"missing language counts as English", "s1", "PDF", "English", []string{"1", "4"}},
		{"case-insensitive type", "s1", "pdf", All, []string{"1", "4", "6"}},
		{"other subject", "s2", All, All, []string{"3"}},
		{"no match", "s1", "Video", "English", []string{}},
		{"unknown subject", "s9", All, All, []string{}},
	}
	for _, tt := range tests {
		got := ids(Resources(resources, tt.subject, tt.typ, tt.language))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResourcesIdempotent(t *testing.T) {
	once := Resources(resources, "s1", "PDF", "Hindi")
	twice := Resources(once, "s1", "PDF", "Hindi")
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering twice changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestResourcesEmptyIsNotNil(t *testing.T) {
	got := Resources(nil, "s1", All, All)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestTypesAndLanguages(t *testing.T) {
	if got := Types(resources); !reflect.DeepEqual(got, []string{"PDF", "Video", "Notes"}) {
		t.Errorf("Types = %v", got)
	}
	if got := Languages(resources); !reflect.DeepEqual(got, []string{"English", "Hindi"}) {
		t.Errorf("Languages = %v", got)
	}
}

func TestFiltersDefault(t *testing.T) {
	if !Default().IsDefault() {
		t.Error("Default() should be default")
	}
	if (Filters{Type: "PDF", Language: All}).IsDefault() {
		t.Error("type filter is not default")
	}
}

func TestMatch(t *testing.T) {
	r := catalog.Resource{ID: "r", SubjectID: "other", Type: "PDF"}
	tests := []struct {
		typ, lang string
		want      bool
	}{
		{"", "", true},
		{"all", "all", true},
		{"pdf", "english", true},
		{"Video", "", false},
		{"", "Hindi", false},
	}
	for _, tt := range tests {
		if got := Match(r, tt.typ, tt.lang); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.typ, tt.lang, got, tt.want)
		}
	}
}
