package catalog

import "strings"

// Tables is one loaded snapshot of the spreadsheet. It is never mutated after
// loading.
type Tables struct {
	Courses      []Course     `json:"courses"`
	Branches     []Branch     `json:"branches"`
	Semesters    []Semester   `json:"semesters"`
	Subjects     []Subject    `json:"subjects"`
	Resources    []Resource   `json:"resources"`
	Universities []University `json:"universities"`
}

// Counts summarises the number of rows per table.
type Counts struct {
	Courses      int `json:"courses"`
	Branches     int `json:"branches"`
	Semesters    int `json:"semesters"`
	Subjects     int `json:"subjects"`
	Resources    int `json:"resources"`
	Universities int `json:"universities"`
}

// Counts returns the row count of each table.
func (t *Tables) Counts() Counts {
	return Counts{
		Courses:      len(t.Courses),
		Branches:     len(t.Branches),
		Semesters:    len(t.Semesters),
		Subjects:     len(t.Subjects),
		Resources:    len(t.Resources),
		Universities: len(t.Universities),
	}
}

// SameID reports whether two identifiers refer to the same record. Sheet ids
// are compared trimmed and case-insensitively, so "1", " 1" and numeric cells
// all match.
func SameID(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func find[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, it := range items {
		if SameID(key(it), id) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func childrenOf[T any](items []T, parentID string, parent func(T) string) []T {
	var out []T
	for _, it := range items {
		if SameID(parent(it), parentID) {
			out = append(out, it)
		}
	}
	return out
}

// Course looks up a course by id.
func (t *Tables) Course(id string) (Course, bool) {
	return find(t.Courses, id, func(c Course) string { return c.ID })
}

// Branch looks up a branch by id.
func (t *Tables) Branch(id string) (Branch, bool) {
	return find(t.Branches, id, func(b Branch) string { return b.ID })
}

// Semester looks up a semester by id.
func (t *Tables) Semester(id string) (Semester, bool) {
	return find(t.Semesters, id, func(s Semester) string { return s.ID })
}

// Subject looks up a subject by id.
func (t *Tables) Subject(id string) (Subject, bool) {
	return find(t.Subjects, id, func(s Subject) string { return s.ID })
}

// Resource looks up a resource by id.
func (t *Tables) Resource(id string) (Resource, bool) {
	return find(t.Resources, id, func(r Resource) string { return r.ID })
}

// University looks up a university by id or name.
func (t *Tables) University(idOrName string) (University, bool) {
	if u, ok := find(t.Universities, idOrName, func(u University) string { return u.ID }); ok {
		return u, true
	}
	return find(t.Universities, idOrName, func(u University) string { return u.Name })
}

// BranchesOf returns the branches of a course in sheet order.
func (t *Tables) BranchesOf(courseID string) []Branch {
	return childrenOf(t.Branches, courseID, func(b Branch) string { return b.CourseID })
}

// SemestersOf returns the semesters of a branch in sheet order.
func (t *Tables) SemestersOf(branchID string) []Semester {
	return childrenOf(t.Semesters, branchID, func(s Semester) string { return s.BranchID })
}

// SubjectsOf returns the subjects of a semester in sheet order.
func (t *Tables) SubjectsOf(semesterID string) []Subject {
	return childrenOf(t.Subjects, semesterID, func(s Subject) string { return s.SemesterID })
}

// ResourcesOf returns the resources of a subject in sheet order.
func (t *Tables) ResourcesOf(subjectID string) []Resource {
	return childrenOf(t.Resources, subjectID, func(r Resource) string { return r.SubjectID })
}
