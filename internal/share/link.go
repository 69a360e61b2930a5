// Package share turns a navigation path into a shareable URL and replays such
// a URL against the loaded catalog.
package share

import (
	"net/url"
	"strings"

	"github.com/ziadkadry99/studyhub/internal/navigator"
)

// Route is the fragment route that carries a shared path.
const Route = "#/share?"

// pathRoute is the same route as a server path, used when the page forwards
// its fragment or a link is opened without script.
const pathRoute = "/share?"

// TypePage is the share type when nothing more specific is shared.
const TypePage = "page"

// Link is a decoded share URL. Empty fields are absent from the URL.
type Link struct {
	Type      string `json:"type,omitempty"`
	ID        string `json:"id,omitempty"`
	Course    string `json:"course,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Semester  string `json:"sem,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
}

// FromState builds a link for the item typ/id using only the identifiers
// currently selected in st. Highlight is always set.
func FromState(st navigator.State, typ, id string) Link {
	if typ == "" {
		typ = TypePage
	}
	l := Link{Type: typ, ID: id, Highlight: true}
	if c := st.Path.Course; c != nil {
		l.Course = c.ID
	}
	if b := st.Path.Branch; b != nil {
		l.Branch = b.ID
	}
	if s := st.Path.Semester; s != nil {
		l.Semester = s.ID
	}
	if s := st.Path.Subject; s != nil {
		l.Subject = s.ID
	}
	return l
}

// HasPath reports whether the link selects anything. Replaying a link
// without a path does nothing.
func (l Link) HasPath() bool {
	return l.Course != "" || l.Branch != "" || l.Semester != "" || l.Subject != ""
}

// Encode returns the query in the fixed key order type, id, course, branch,
// sem, subject, highlight, omitting empty values.
func (l Link) Encode() string {
	pairs := [][2]string{
		{"type", l.Type},
		{"id", l.ID},
		{"course", l.Course},
		{"branch", l.Branch},
		{"sem", l.Semester},
		{"subject", l.Subject},
	}
	if l.Highlight {
		pairs = append(pairs, [2]string{"highlight", "true"})
	}

	var b strings.Builder
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

// URL appends the link to base as a fragment route. Any query or fragment
// already on base is dropped.
func (l Link) URL(base string) string {
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return base + Route + l.Encode()
}

// Parse decodes a share URL, a bare fragment or the "/share?" path form. It
// reports false when raw does not carry the share route. A route with an
// undecodable query yields a Link without a path, so replay is a no-op but
// the caller still strips it.
func Parse(raw string) (Link, bool) {
	var query string
	if i := strings.Index(raw, Route); i >= 0 {
		query = raw[i+len(Route):]
	} else if i := strings.Index(raw, pathRoute); i >= 0 {
		query = raw[i+len(pathRoute):]
		if j := strings.IndexByte(query, '#'); j >= 0 {
			query = query[:j]
		}
	} else {
		return Link{}, false
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return Link{}, true
	}
	return Link{
		Type:      values.Get("type"),
		ID:        values.Get("id"),
		Course:    values.Get("course"),
		Branch:    values.Get("branch"),
		Semester:  values.Get("sem"),
		Subject:   values.Get("subject"),
		Highlight: values.Get("highlight") == "true",
	}, true
}

// FromValues decodes already parsed query values, as received by the
// "/share" route.
func FromValues(values url.Values) Link {
	l, _ := Parse(pathRoute + values.Encode())
	return l
}
