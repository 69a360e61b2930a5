// Package catalog holds the six spreadsheet tables behind the browser and the
// gateway that loads them.
package catalog

// Resource types seen in the reference sheet. The column is free text, so
// other values pass through unchanged.
const (
	TypePDF   = "PDF"
	TypeVideo = "Video"
	TypeNotes = "Notes"
	TypePYQ   = "PYQ"
)

// DefaultLanguage is assumed for resources with an empty Language cell.
const DefaultLanguage = "English"

// Course is a degree programme, the root of the hierarchy.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Branch is a specialisation within a course.
type Branch struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	University  string `json:"university,omitempty"`
}

// Semester belongs to a branch.
type Semester struct {
	ID       string `json:"id"`
	BranchID string `json:"branch_id"`
	Number   string `json:"number"`
	Name     string `json:"name"`
}

// Subject belongs to a semester.
type Subject struct {
	ID           string `json:"id"`
	SemesterID   string `json:"semester_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Credits      string `json:"credits"`
	MetaKeywords string `json:"meta_keywords,omitempty"`
}

// Resource is a downloadable or watchable item attached to a subject.
type Resource struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subject_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Language    string `json:"language,omitempty"`
	University  string `json:"university,omitempty"`
	Year        string `json:"year,omitempty"`
	Downloads   int    `json:"downloads"`
}

// LanguageOrDefault returns the resource language, or DefaultLanguage.
func (r Resource) LanguageOrDefault() string {
	if r.Language == "" {
		return DefaultLanguage
	}
	return r.Language
}

// University is loaded with the other tables; branches and resources refer to
// it by name.
type University struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Location string `json:"location,omitempty"`
}
