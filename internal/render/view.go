// Package render turns a navigation snapshot into the page a visitor sees:
// one panel of cards, the breadcrumb, page metadata and the resource filter
// bar.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/filter"
	"github.com/ziadkadry99/studyhub/internal/logging"
	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/share"
	"github.com/ziadkadry99/studyhub/internal/userdata"
)

// Page metadata used outside the subject level.
const (
	DefaultTitle       = "Free BTech BCA Notes, PYQ & Study Material | StudyHub"
	DefaultDescription = "Download free engineering notes, previous year questions, and study materials."
	DefaultKeywords    = "btech notes, engineering notes, pyq, study material"
)

// Card is one selectable course, branch, semester or subject.
type Card struct {
	Level       navigator.Level `json:"level"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Badge       string          `json:"badge,omitempty"`
	Tag         string          `json:"tag,omitempty"`
	Highlight   bool            `json:"highlight,omitempty"`

	DescriptionHTML template.HTML `json:"-"`
}

// ResourceCard is one entry of the resource panel.
type ResourceCard struct {
	Resource    catalog.Resource `json:"resource"`
	Language    string           `json:"language"`
	University  string           `json:"university"`
	Year        string           `json:"year"`
	Downloads   int              `json:"downloads"`
	Bookmarked  bool             `json:"bookmarked"`
	ActionLabel string           `json:"action_label"`
	Badge       string           `json:"badge"`
	Highlight   bool             `json:"highlight,omitempty"`

	DescriptionHTML template.HTML `json:"-"`
}

// Crumb is one breadcrumb entry. The last entry has no link.
type Crumb struct {
	Label string          `json:"label"`
	Level navigator.Level `json:"level"`
	ID    string          `json:"id,omitempty"`
	Link  bool            `json:"link"`
}

// Meta is the document metadata of the page.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Empty is the placeholder shown for a panel without entries.
type Empty struct {
	Title string `json:"title"`
	Hint  string `json:"hint,omitempty"`
}

// View is everything the page template and the JSON view endpoint need.
type View struct {
	Level      navigator.Level `json:"level"`
	Heading    string          `json:"heading"`
	Cards      []Card          `json:"cards,omitempty"`
	Resources  []ResourceCard  `json:"resources,omitempty"`
	Empty      *Empty          `json:"empty,omitempty"`
	Filters    filter.Filters  `json:"filters"`
	Types      []string        `json:"types,omitempty"`
	Languages  []string        `json:"languages,omitempty"`
	Breadcrumb []Crumb         `json:"breadcrumb,omitempty"`
	Meta       Meta            `json:"meta"`
	Theme      userdata.Theme  `json:"theme"`
	Share      share.View      `json:"share"`
	Loading    bool            `json:"loading,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Input is one visitor's render request.
type Input struct {
	Tables    *catalog.Tables
	State     navigator.State
	Bookmarks map[string]bool
	Downloads func(catalog.Resource) int
	Theme     userdata.Theme
	Highlight string
	Loading   bool
	Err       error
}

// Renderer builds views and writes pages.
type Renderer struct {
	features config.FeatureFlags
	md       goldmark.Markdown
	page     *template.Template
	logger   *zap.Logger
}

// New creates a Renderer for the given page features.
func New(features config.FeatureFlags, logger *zap.Logger) (*Renderer, error) {
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{
		features: features,
		md:       newMarkdown(),
		page:     page,
		logger:   logging.OrNop(logger),
	}, nil
}

// Build assembles the view for in. Exactly one panel is filled: the one for
// the state's level.
func (r *Renderer) Build(in Input) View {
	theme := in.Theme
	if !theme.Valid() {
		theme = userdata.DefaultTheme
	}
	v := View{
		Level:   in.State.Level,
		Filters: in.State.Filters,
		Theme:   theme,
		Share:   share.CurrentView(in.State),
		Meta:    r.meta(in.State),
	}
	if r.features.Breadcrumbs {
		v.Breadcrumb = Breadcrumb(in.State)
	}

	switch {
	case in.Err != nil:
		v.Level = navigator.LevelCourse
		v.Error = "Unable to load data. Please check your Sheet ID and configuration."
		return v
	case in.Tables == nil || in.Loading:
		v.Loading = true
		return v
	}

	t, p := in.Tables, in.State.Path
	switch in.State.Level {
	case navigator.LevelCourse:
		v.Heading = "Select Your Course"
		for _, c := range t.Courses {
			v.Cards = append(v.Cards, Card{
				Level:           navigator.LevelCourse,
				ID:              c.ID,
				Title:           c.Name,
				Description:     c.Description,
				DescriptionHTML: r.Markdown(c.Description),
				Icon:            orDefault(c.Icon, "fas fa-graduation-cap"),
			})
		}
		if len(v.Cards) == 0 {
			v.Empty = &Empty{Title: "No courses available yet."}
		}

	case navigator.LevelBranch:
		v.Heading = name(p.Course, func(c *catalog.Course) string { return c.Name }) + " - Select Branch"
		for _, b := range t.BranchesOf(name(p.Course, func(c *catalog.Course) string { return c.ID })) {
			v.Cards = append(v.Cards, Card{
				Level:           navigator.LevelBranch,
				ID:              b.ID,
				Title:           b.Name,
				Description:     b.Description,
				DescriptionHTML: r.Markdown(b.Description),
				Badge:           orDefault(b.University, "All Universities"),
			})
		}
		if len(v.Cards) == 0 {
			v.Empty = &Empty{Title: "No branches available yet."}
		}

	case navigator.LevelSemester:
		v.Heading = name(p.Branch, func(b *catalog.Branch) string { return b.Name }) + " - Select Semester"
		for _, s := range t.SemestersOf(name(p.Branch, func(b *catalog.Branch) string { return b.ID })) {
			v.Cards = append(v.Cards, Card{
				Level: navigator.LevelSemester,
				ID:    s.ID,
				Title: s.Name,
				Tag:   s.Number,
			})
		}
		if len(v.Cards) == 0 {
			v.Empty = &Empty{Title: "No semesters available yet."}
		}

	case navigator.LevelSubject:
		v.Heading = "Semester " + name(p.Semester, func(s *catalog.Semester) string { return s.Number }) + " - Select Subject"
		for _, s := range t.SubjectsOf(name(p.Semester, func(s *catalog.Semester) string { return s.ID })) {
			c := Card{
				Level:           navigator.LevelSubject,
				ID:              s.ID,
				Title:           s.Name,
				Description:     s.Description,
				DescriptionHTML: r.Markdown(s.Description),
				Tag:             s.Code,
			}
			if s.Credits != "" {
				c.Badge = s.Credits + " Credits"
			}
			v.Cards = append(v.Cards, c)
		}
		if len(v.Cards) == 0 {
			v.Empty = &Empty{Title: "No subjects available yet."}
		}

	case navigator.LevelResource:
		v.Heading = name(p.Subject, func(s *catalog.Subject) string { return s.Name }) + " - Resources"
		subjectID := name(p.Subject, func(s *catalog.Subject) string { return s.ID })
		all := t.ResourcesOf(subjectID)
		v.Types = filter.Types(all)
		v.Languages = filter.Languages(all)
		for _, res := range filter.Apply(t.Resources, subjectID, in.State.Filters) {
			v.Resources = append(v.Resources, r.resourceCard(res, in))
		}
		if len(v.Resources) == 0 {
			v.Empty = &Empty{Title: "No resources found", Hint: "Try different filters or check back later."}
		}
	}

	if in.Highlight != "" {
		markHighlight(&v, in.Highlight)
	}
	return v
}

func (r *Renderer) resourceCard(res catalog.Resource, in Input) ResourceCard {
	downloads := res.Downloads
	if in.Downloads != nil {
		downloads = in.Downloads(res)
	}
	label := "Download"
	if res.Type == catalog.TypeVideo {
		label = "Watch Now"
	}
	return ResourceCard{
		Resource:        res,
		Language:        res.LanguageOrDefault(),
		University:      orDefault(res.University, "All"),
		Year:            orDefault(res.Year, "2024"),
		Downloads:       downloads,
		Bookmarked:      in.Bookmarks[res.ID],
		ActionLabel:     label,
		Badge:           strings.ToLower(res.Type),
		DescriptionHTML: r.Markdown(res.Description),
	}
}

func markHighlight(v *View, id string) {
	for i := range v.Cards {
		if catalog.SameID(v.Cards[i].ID, id) {
			v.Cards[i].Highlight = true
		}
	}
	for i := range v.Resources {
		if catalog.SameID(v.Resources[i].Resource.ID, id) {
			v.Resources[i].Highlight = true
		}
	}
}

// Breadcrumb lists Home followed by every selected level. Every entry but the
// last links back to its level.
func Breadcrumb(st navigator.State) []Crumb {
	p := st.Path
	crumbs := []Crumb{{Label: "Home", Level: navigator.LevelCourse, Link: true}}
	if p.Course != nil {
		crumbs = append(crumbs, Crumb{Label: p.Course.Name, Level: navigator.LevelBranch, ID: p.Course.ID, Link: true})
	}
	if p.Branch != nil {
		crumbs = append(crumbs, Crumb{Label: p.Branch.Name, Level: navigator.LevelSemester, ID: p.Branch.ID, Link: true})
	}
	if p.Semester != nil {
		crumbs = append(crumbs, Crumb{Label: "Semester " + p.Semester.Number, Level: navigator.LevelSubject, ID: p.Semester.ID, Link: true})
	}
	if p.Subject != nil {
		crumbs = append(crumbs, Crumb{Label: p.Subject.Name, Level: navigator.LevelResource, ID: p.Subject.ID})
	}
	if len(crumbs) == 1 {
		return nil
	}
	crumbs[len(crumbs)-1].Link = false
	return crumbs
}

func (r *Renderer) meta(st navigator.State) Meta {
	m := Meta{Title: DefaultTitle, Description: DefaultDescription, Keywords: DefaultKeywords}
	if !r.features.SEOMetadata {
		return m
	}
	p := st.Path
	if p.Subject == nil || p.Branch == nil || p.Semester == nil {
		return m
	}

	subject, branch, sem := p.Subject.Name, p.Branch.Name, p.Semester.Number
	m.Title = fmt.Sprintf("%s Notes, PYQ & Videos | Sem %s %s", subject, sem, branch)
	m.Description = fmt.Sprintf("Download %s complete notes, previous year questions, solutions & video lectures. %s Semester %s. Free PDF download.", subject, branch, sem)
	m.Keywords = fmt.Sprintf("%s notes, %s pyq, %s notes, semester %s, %s",
		strings.ToLower(subject), strings.ToLower(subject), strings.ToLower(branch), sem, p.Subject.MetaKeywords)
	return m
}

// name reads a field of an optional selection.
func name[T any](v *T, get func(*T) string) string {
	if v == nil {
		return ""
	}
	return get(v)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
